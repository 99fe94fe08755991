package config

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeClampsToSliderRanges(t *testing.T) {
	got := Tree{Height: -1, ParticleSize: 0, RotationSpeed: 99, Sensitivity: math.NaN()}.Normalize()
	want := Tree{Height: MinHeight, ParticleSize: MinParticleSize, RotationSpeed: MaxRotationSpeed, Sensitivity: 1}
	if got != want {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNeedsRegeneration(t *testing.T) {
	base := DefaultTree()

	tests := []struct {
		name string
		edit func(*Tree)
		want bool
	}{
		{"height", func(c *Tree) { c.Height = 8 }, true},
		{"particle size", func(c *Tree) { c.ParticleSize = 0.5 }, true},
		{"rotation speed", func(c *Tree) { c.RotationSpeed = 2 }, false},
		{"sensitivity", func(c *Tree) { c.Sensitivity = 2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := base
			tt.edit(&next)
			if got := base.NeedsRegeneration(next); got != tt.want {
				t.Errorf("NeedsRegeneration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	f := Default()
	if f.Tree != DefaultTree() {
		t.Errorf("Tree = %+v, want defaults", f.Tree)
	}
	if f.Volume != 1 {
		t.Errorf("Volume = %v, want 1", f.Volume)
	}
	if f.Feed == "" {
		t.Error("Feed should have a default address")
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	data := []byte("tree:\n  height: 8\nvolume: 0\nphotos:\n  - a.png\n  - b.jpg\nseed: 7\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.Tree.Height != 8 {
		t.Errorf("Height = %v, want 8", f.Tree.Height)
	}
	if f.Tree.ParticleSize != DefaultTree().ParticleSize {
		t.Errorf("ParticleSize = %v, want default", f.Tree.ParticleSize)
	}
	if f.Volume != 0 {
		t.Errorf("Volume = %v, want explicit 0 kept", f.Volume)
	}
	if len(f.Photos) != 2 || f.Seed != 7 {
		t.Errorf("Photos = %v, Seed = %d", f.Photos, f.Seed)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != slog.LevelDebug {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("err = %v, want ErrUnknownLevel", err)
	}
}
