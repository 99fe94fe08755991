package scene

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/iburimskiy/gesture-tree/internal/config"
)

const (
	driftScale    = 0.004
	driftFreq     = 0.15
	driftTimeFreq = 0.3
)

// Snow is a fixed budget of flakes falling through a cube. Flakes that
// pass the floor re-enter at the ceiling, so the fall never runs out.
type Snow struct {
	Flakes []mgl32.Vec3
	noise  *perlin.Perlin
}

// NewSnow scatters count flakes uniformly in a SnowExtent cube centred on
// the origin.
func NewSnow(count int, rng *rand.Rand) *Snow {
	if count < 0 {
		count = 0
	}
	flakes := make([]mgl32.Vec3, count)
	for i := range flakes {
		flakes[i] = mgl32.Vec3{
			float32((rng.Float64() - 0.5) * config.SnowExtent),
			float32((rng.Float64() - 0.5) * config.SnowExtent),
			float32((rng.Float64() - 0.5) * config.SnowExtent),
		}
	}
	return &Snow{
		Flakes: flakes,
		noise:  perlin.NewPerlin(2, 2, 3, rng.Int63()),
	}
}

// Step moves every flake down one tick and sways it sideways with a slow
// noise field.
func (s *Snow) Step(elapsed float64) {
	half := float32(config.SnowExtent / 2)
	for i := range s.Flakes {
		f := &s.Flakes[i]
		f[1] -= config.SnowFall
		if f[1] < config.SnowFloor {
			f[1] = config.SnowCeiling
		}

		sway := float32(s.noise.Noise2D(float64(i)*driftFreq, elapsed*driftTimeFreq)) * driftScale
		f[0] += sway
		if f[0] > half {
			f[0] -= 2 * half
		} else if f[0] < -half {
			f[0] += 2 * half
		}
	}
}
