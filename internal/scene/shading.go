package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/iburimskiy/gesture-tree/internal/config"
	"github.com/iburimskiy/gesture-tree/internal/tree"
)

// RenderContext carries the live shading parameters of one tick. The loop
// builds it fresh every tick and passes it down explicitly.
type RenderContext struct {
	Time      float64
	Beat      float32 // beat intensity scaled by sensitivity
	RawBeat   float32
	Explosion float32
	Rotation  float32
	Config    config.Tree
	rotY      mgl32.Mat3
}

func newRenderContext(elapsed, beat, explosion, rotation float64, cfg config.Tree) RenderContext {
	return RenderContext{
		Time:      elapsed,
		Beat:      float32(beat * cfg.Sensitivity),
		RawBeat:   float32(beat),
		Explosion: float32(explosion),
		Rotation:  float32(rotation),
		Config:    cfg,
		rotY:      mgl32.Rotate3DY(float32(rotation)),
	}
}

// RenderedParticle is a particle after shading, in world space.
type RenderedParticle struct {
	Position mgl32.Vec3
	Color    tree.Color
	Size     float32
}

// Shade applies the beat pulse, the explosion interpolation, the floating
// motion and the tree rotation to one particle.
func Shade(p tree.Particle, rc RenderContext) RenderedParticle {
	pos := p.Position.Add(p.Direction.Mul(rc.Beat * config.PulseScale))
	pos = pos.Add(p.Direction.Mul(config.ExplosionDistance * rc.Explosion))
	pos[1] += float32(math.Sin(rc.Time*config.FloatFrequency+float64(p.Offset))) * config.FloatAmplitude

	return RenderedParticle{
		Position: rc.rotY.Mul3x1(pos),
		Color:    p.Color,
		Size:     p.Size * (1 + rc.Beat*config.BeatSizeScale),
	}
}

// Explode interpolates between rest and rest pushed ExplosionDistance along
// dir.
func Explode(rest, dir mgl32.Vec3, factor float32) mgl32.Vec3 {
	return rest.Add(dir.Mul(config.ExplosionDistance * factor))
}
