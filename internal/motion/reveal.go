package motion

import (
	"math/rand"

	"github.com/iburimskiy/gesture-tree/internal/gallery"
)

// Reveal is the photo-reveal state: Idle when Photo is nil, otherwise
// Showing that photo.
type Reveal struct {
	Photo *gallery.Photo
	// Activation increments on every Idle→Showing transition.
	Activation uint64
}

// Showing reports whether a photo is being revealed.
func (r Reveal) Showing() bool { return r.Photo != nil }

// revealMachine is edge-triggered on the pinch signal. It only reacts when
// the pinch flips; holding a pinch never re-selects.
type revealMachine struct {
	pinching bool
	state    Reveal
}

// observe feeds the latest pinch value and returns the resulting state.
func (m *revealMachine) observe(pinching bool, photos *gallery.Gallery, rng *rand.Rand) Reveal {
	was := m.pinching
	m.pinching = pinching

	switch {
	case pinching && !was:
		if m.state.Photo == nil && photos != nil {
			if p := photos.Random(rng); p != nil {
				m.state.Photo = p
				m.state.Activation++
			}
		}
	case !pinching && was:
		m.state.Photo = nil
	}
	return m.state
}
