package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	TicksPerSec  = 60

	VisualRingSize = 8192

	// Tree generation
	ParticleCount = 3000
	SpiralTurns   = 30.0
	BaseRadius    = 3.5
	Variance      = 0.3
	OrnamentScale = 2.5

	// Shading
	ExplosionDistance = 15.0
	PulseScale        = 0.5
	BeatSizeScale     = 2.0
	FloatAmplitude    = 0.1
	FloatFrequency    = 2.0
	RotationStep      = 0.01

	// Snow
	SnowCount   = 1000
	SnowExtent  = 20.0
	SnowFall    = 0.05
	SnowCeiling = 10.0
	SnowFloor   = -10.0

	// Camera
	CameraFOV  = 75.0
	CameraY    = 2.0
	CameraZ    = 8.0
	CameraNear = 0.1
	CameraFar  = 1000.0

	// Motion
	SmoothingFactor = 0.1
	PinchThreshold  = 0.05
)

// Slider ranges of the settings panel.
const (
	MinHeight        = 3.0
	MaxHeight        = 10.0
	MinParticleSize  = 0.05
	MaxParticleSize  = 1.0
	MinRotationSpeed = 0.0
	MaxRotationSpeed = 5.0
	MinSensitivity   = 0.0
	MaxSensitivity   = 3.0
)

// Tree holds the user-tunable scene settings. Height and ParticleSize
// drive regeneration; RotationSpeed and Sensitivity only per-frame math.
type Tree struct {
	Height        float64 `yaml:"height"`
	ParticleSize  float64 `yaml:"particle_size"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	Sensitivity   float64 `yaml:"sensitivity"`
}

// DefaultTree returns the settings the scene starts with.
func DefaultTree() Tree {
	return Tree{
		Height:        6,
		ParticleSize:  0.25,
		RotationSpeed: 1,
		Sensitivity:   1,
	}
}

// Normalize clamps every field into its slider range. NaN values fall back
// to the defaults.
func (t Tree) Normalize() Tree {
	d := DefaultTree()
	t.Height = clampOr(t.Height, MinHeight, MaxHeight, d.Height)
	t.ParticleSize = clampOr(t.ParticleSize, MinParticleSize, MaxParticleSize, d.ParticleSize)
	t.RotationSpeed = clampOr(t.RotationSpeed, MinRotationSpeed, MaxRotationSpeed, d.RotationSpeed)
	t.Sensitivity = clampOr(t.Sensitivity, MinSensitivity, MaxSensitivity, d.Sensitivity)
	return t
}

// NeedsRegeneration reports whether moving from t to next changes the
// particle field.
func (t Tree) NeedsRegeneration(next Tree) bool {
	return t.Height != next.Height || t.ParticleSize != next.ParticleSize
}

func clampOr(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Min(math.Max(v, lo), hi)
}

// File is the optional YAML startup configuration.
type File struct {
	Tree     Tree     `yaml:"tree"`
	Track    string   `yaml:"track"`
	Photos   []string `yaml:"photos"`
	Volume   float64  `yaml:"volume"`
	Feed     string   `yaml:"feed"`
	Replay   string   `yaml:"replay"`
	Seed     int64    `yaml:"seed"`
	LogLevel string   `yaml:"log_level"`
}

// Default returns a File with every default applied.
func Default() *File {
	f := blank()
	f.applyDefaults()
	return f
}

// blank marks numeric fields as unset so applyDefaults can tell an
// explicit zero from a missing key.
func blank() *File {
	nan := math.NaN()
	return &File{
		Tree:   Tree{Height: nan, ParticleSize: nan, RotationSpeed: nan, Sensitivity: nan},
		Volume: nan,
	}
}

// LoadFile reads a YAML configuration file. Fields left out of the file
// keep their defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f := blank()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	f.applyDefaults()
	return f, nil
}

func (f *File) applyDefaults() {
	f.Tree = f.Tree.Normalize()
	f.Volume = clampOr(f.Volume, 0, 1, 1)
	if f.Feed == "" {
		f.Feed = "127.0.0.1:8765"
	}
	if f.LogLevel == "" {
		f.LogLevel = "info"
	}
}

// ErrUnknownLevel is returned by ParseLevel for unrecognised names.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel maps a log_level string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
