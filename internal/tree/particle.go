// Package tree builds the static particle field the scene animates: a
// jittered conical spiral of foliage with scattered ornaments.
package tree

import "github.com/go-gl/mathgl/mgl32"

// Color is a linear RGB triple in [0,1].
type Color struct {
	R, G, B float32
}

var (
	Gold = Color{1.0, 0.84, 0.0}
	Red  = Color{1.0, 0.0, 0.0}
)

// Kind classifies a particle.
type Kind uint8

const (
	Foliage Kind = iota
	GoldOrnament
	RedOrnament
)

func (k Kind) String() string {
	switch k {
	case GoldOrnament:
		return "gold"
	case RedOrnament:
		return "red"
	default:
		return "foliage"
	}
}

// IsOrnament reports whether k is drawn at ornament scale.
func (k Kind) IsOrnament() bool {
	return k == GoldOrnament || k == RedOrnament
}

// Particle is one generated point of the tree. It never changes after
// generation.
type Particle struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3 // unit explosion direction
	Color     Color
	Size      float32
	Offset    float32 // phase offset for floating motion, [0,100)
	Kind      Kind
}

// Field is one complete generation of particles. A Field is never mutated
// once returned; regeneration produces a new one.
type Field struct {
	Particles    []Particle
	Height       float64
	ParticleSize float64
	Star         mgl32.Vec3 // anchor of the star sprite above the apex
}

// Len returns the number of particles.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Particles)
}
