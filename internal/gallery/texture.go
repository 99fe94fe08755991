package gallery

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrReleased is returned by Get after Release.
var ErrReleased = errors.New("gallery: texture cache released")

// Resolver loads the texture for a photo.
type Resolver[T any] func(*Photo) (T, error)

// TextureCache resolves each photo's texture once, on first use, keyed by
// photo ID. Concurrent first requests share one resolution. Failed
// resolutions are not cached and are retried on the next Get.
type TextureCache[T any] struct {
	resolve Resolver[T]
	release func(T)

	mu       sync.RWMutex
	entries  map[string]T
	released bool
	group    singleflight.Group
}

// NewTextureCache creates a cache. release, if non-nil, is called for every
// cached texture on Release.
func NewTextureCache[T any](resolve Resolver[T], release func(T)) *TextureCache[T] {
	return &TextureCache[T]{
		resolve: resolve,
		release: release,
		entries: make(map[string]T),
	}
}

// Get returns the cached texture for p, resolving it first if needed.
func (c *TextureCache[T]) Get(p *Photo) (T, error) {
	var zero T
	if p == nil {
		return zero, errors.New("gallery: nil photo")
	}

	c.mu.RLock()
	tex, ok := c.entries[p.ID]
	released := c.released
	c.mu.RUnlock()
	if released {
		return zero, ErrReleased
	}
	if ok {
		return tex, nil
	}

	v, err, _ := c.group.Do(p.ID, func() (any, error) {
		c.mu.RLock()
		tex, ok := c.entries[p.ID]
		c.mu.RUnlock()
		if ok {
			return tex, nil
		}

		tex, err := c.resolve(p)
		if err != nil {
			return nil, fmt.Errorf("resolve texture %s: %w", p.Source, err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.released {
			if c.release != nil {
				c.release(tex)
			}
			return nil, ErrReleased
		}
		c.entries[p.ID] = tex
		return tex, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Peek returns the cached texture without resolving.
func (c *TextureCache[T]) Peek(p *Photo) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tex, ok := c.entries[p.ID]
	return tex, ok
}

// Len returns the number of cached textures.
func (c *TextureCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Release drops every cached texture. It is idempotent.
func (c *TextureCache[T]) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	if c.release != nil {
		for _, tex := range c.entries {
			c.release(tex)
		}
	}
	clear(c.entries)
}
