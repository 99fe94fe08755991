package tree

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/iburimskiy/gesture-tree/internal/config"
)

const (
	// degenerateEpsilon is the length below which a position has no usable
	// outward direction.
	degenerateEpsilon = 1e-6

	minHeight       = 0.1
	minParticleSize = 0.01

	goldThreshold = 0.9
	redThreshold  = 0.85
)

// Up is the explosion direction used for particles sitting on the origin.
var Up = mgl32.Vec3{0, 1, 0}

// Generate builds count particles along a tapering spiral of the given
// height. Inputs that would break the math (non-positive or NaN) are
// clamped; count <= 0 uses config.ParticleCount. A nil rng is seeded from
// the clock.
//
// This is the expensive step of the scene and runs only when the height or
// particle size change.
func Generate(height, particleSize float64, count int, rng *rand.Rand) *Field {
	if math.IsNaN(height) || height < minHeight {
		height = minHeight
	}
	if math.IsNaN(particleSize) || particleSize < minParticleSize {
		particleSize = minParticleSize
	}
	if count <= 0 {
		count = config.ParticleCount
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	particles := make([]Particle, count)
	for i := range particles {
		t := float64(i) / float64(count)
		angle := t * config.SpiralTurns
		y := t*height - height/2
		radius := (1 - t) * config.BaseRadius

		pos := mgl32.Vec3{
			float32(math.Cos(angle)*radius + jitter(rng)),
			float32(y + jitter(rng)),
			float32(math.Sin(angle)*radius + jitter(rng)),
		}

		p := Particle{
			Position:  pos,
			Direction: Direction(pos),
		}
		p.Kind, p.Color = classify(rng)
		p.Size = float32(particleSize)
		if p.Kind.IsOrnament() {
			p.Size = float32(particleSize * config.OrnamentScale)
		}
		p.Offset = float32(rng.Float64() * 100)

		particles[i] = p
	}

	return &Field{
		Particles:    particles,
		Height:       height,
		ParticleSize: particleSize,
		Star:         mgl32.Vec3{0, float32(height/2 + 0.2), 0},
	}
}

func jitter(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * config.Variance
}

func classify(rng *rand.Rand) (Kind, Color) {
	r := rng.Float64()
	switch {
	case r > goldThreshold:
		return GoldOrnament, Gold
	case r > redThreshold:
		return RedOrnament, Red
	default:
		return Foliage, Color{0.1, float32(0.8 + rng.Float64()*0.2), 0.2}
	}
}

// Direction returns v normalized, or Up when v is too close to the origin
// to have a meaningful direction.
func Direction(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < degenerateEpsilon || math.IsNaN(float64(l)) {
		return Up
	}
	return v.Mul(1 / l)
}
