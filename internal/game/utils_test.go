package game

import (
	"image/color"
	"testing"
	"time"

	"github.com/iburimskiy/gesture-tree/internal/config"
)

func TestGradientAt(t *testing.T) {
	stops := []color.RGBA{{R: 0, A: 255}, {R: 100, A: 255}, {R: 200, A: 255}}
	tests := []struct {
		t    float64
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.25, 50},
		{0.5, 100},
		{0.75, 150},
		{1, 200},
		{2, 200},
	}
	for _, tt := range tests {
		if got := gradientAt(stops, tt.t); got.R != tt.want || got.A != 255 {
			t.Errorf("gradientAt(%v) = %v, want R=%d", tt.t, got, tt.want)
		}
	}
	if got := gradientAt(nil, 0.5); got != (color.RGBA{}) {
		t.Errorf("empty stops = %v", got)
	}
	if got := gradientAt(auroraStops, 0); got != auroraStops[0] {
		t.Errorf("aurora top = %v, want %v", got, auroraStops[0])
	}
}

func TestGlowSpriteFalloff(t *testing.T) {
	img := glowSprite(32)
	center := img.RGBAAt(16, 16).A
	mid := img.RGBAAt(24, 16).A
	corner := img.RGBAAt(0, 0).A
	if !(center > mid && mid > corner) {
		t.Errorf("alpha does not fall off: center=%d mid=%d corner=%d", center, mid, corner)
	}
	if corner != 0 {
		t.Errorf("corner alpha = %d, want 0", corner)
	}
	if c := img.RGBAAt(16, 16); c.R != c.A {
		t.Errorf("sprite not premultiplied white: %v", c)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61 * time.Second, "01:01"},
		{12*time.Minute + 5*time.Second, "12:05"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestAdjustClampsToSliders(t *testing.T) {
	cfg := config.DefaultTree()

	up := adjust(cfg, settingKeys{heightUp: true, sizeUp: true, rotationDown: true, sensitivityUp: true})
	if up.Height != cfg.Height+heightStep {
		t.Errorf("height = %v, want %v", up.Height, cfg.Height+heightStep)
	}
	if up.RotationSpeed != cfg.RotationSpeed-rotationStep {
		t.Errorf("rotation = %v, want %v", up.RotationSpeed, cfg.RotationSpeed-rotationStep)
	}

	if same := adjust(cfg, settingKeys{}); same != cfg {
		t.Errorf("no keys changed config: %+v", same)
	}

	top := config.Tree{Height: config.MaxHeight, ParticleSize: config.MaxParticleSize, RotationSpeed: config.MaxRotationSpeed, Sensitivity: config.MaxSensitivity}
	if got := adjust(top, settingKeys{heightUp: true, sizeUp: true, rotationUp: true, sensitivityUp: true}); got != top {
		t.Errorf("adjust past max = %+v, want %+v", got, top)
	}
}
