// Package gallery holds the session's photo collection and the lazily
// resolved textures drawn for it.
package gallery

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Photo is one user-supplied image. Photos are never removed during a
// session, so a *Photo stays valid for the life of its Gallery.
type Photo struct {
	ID     string
	Source string
}

// Gallery is an append-only, ordered photo collection safe for concurrent
// use.
type Gallery struct {
	mu      sync.RWMutex
	photos  []*Photo
	version uint64
}

func New() *Gallery {
	return &Gallery{}
}

// Add appends one photo per source and returns them in order.
func (g *Gallery) Add(sources ...string) []*Photo {
	if len(sources) == 0 {
		return nil
	}
	added := make([]*Photo, len(sources))
	for i, src := range sources {
		added[i] = &Photo{ID: uuid.NewString(), Source: src}
	}

	g.mu.Lock()
	g.photos = append(g.photos, added...)
	g.version++
	g.mu.Unlock()
	return added
}

func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.photos)
}

// At returns the i-th photo, or nil when i is out of range.
func (g *Gallery) At(i int) *Photo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.photos) {
		return nil
	}
	return g.photos[i]
}

// All returns a snapshot of the collection.
func (g *Gallery) All() []*Photo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Photo, len(g.photos))
	copy(out, g.photos)
	return out
}

// Version changes every time photos are added.
func (g *Gallery) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.version
}

// Random picks a photo uniformly, or returns nil for an empty gallery.
func (g *Gallery) Random(rng *rand.Rand) *Photo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.photos) == 0 {
		return nil
	}
	return g.photos[rng.Intn(len(g.photos))]
}
