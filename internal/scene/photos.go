package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/iburimskiy/gesture-tree/internal/gallery"
	"github.com/iburimskiy/gesture-tree/internal/tree"
)

const photoSpread = 3.0

// PhotoPlacement is where a photo rests inside the tree and which way it
// flies when the tree explodes.
type PhotoPlacement struct {
	Photo     *gallery.Photo
	Rest      mgl32.Vec3
	Direction mgl32.Vec3
	Scale     float32
}

// Place picks a random resting point inside the tree cone of the given
// height and a random scale in [0.5,1).
func Place(p *gallery.Photo, height float64, rng *rand.Rand) PhotoPlacement {
	t := rng.Float64()
	angle := rng.Float64() * 2 * math.Pi
	radius := (1 - t) * photoSpread * rng.Float64()
	rest := mgl32.Vec3{
		float32(math.Cos(angle) * radius),
		float32(t*height - height/2),
		float32(math.Sin(angle) * radius),
	}
	return PhotoPlacement{
		Photo:     p,
		Rest:      rest,
		Direction: tree.Direction(rest),
		Scale:     float32(0.5 + rng.Float64()*0.5),
	}
}

// photoLayout keeps one placement per gallery photo. Placements persist
// across ticks; new photos are placed as they arrive and everything is
// re-placed when the tree height changes.
type photoLayout struct {
	placements []PhotoPlacement
	version    uint64
	height     float64
}

func (l *photoLayout) sync(g *gallery.Gallery, height float64, rng *rand.Rand) []PhotoPlacement {
	if g == nil {
		return l.placements[:0]
	}
	v := g.Version()
	if v == l.version && height == l.height {
		return l.placements
	}

	if height != l.height {
		l.placements = l.placements[:0]
	}
	all := g.All()
	for i := len(l.placements); i < len(all); i++ {
		l.placements = append(l.placements, Place(all[i], height, rng))
	}
	l.version = v
	l.height = height
	return l.placements
}

// Billboard is a photo placed for this tick, facing the camera.
type Billboard struct {
	Photo       *gallery.Photo
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       float32
}

func billboard(pl PhotoPlacement, rc RenderContext, eye mgl32.Vec3) Billboard {
	pos := rc.rotY.Mul3x1(Explode(pl.Rest, pl.Direction, rc.Explosion))
	return Billboard{
		Photo:       pl.Photo,
		Position:    pos,
		Orientation: facing(pos, eye),
		Scale:       pl.Scale,
	}
}

// facing returns the rotation turning a billboard at pos so its +Z axis
// points at eye.
func facing(pos, eye mgl32.Vec3) mgl32.Quat {
	dir := eye.Sub(pos)
	if dir.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, dir.Normalize())
}
