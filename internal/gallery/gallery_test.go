package gallery

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGalleryAppendOnly(t *testing.T) {
	g := New()
	if g.Len() != 0 || g.At(0) != nil {
		t.Fatal("new gallery not empty")
	}

	first := g.Add("a.png", "b.png")
	g.Add("c.png")

	if g.Len() != 3 {
		t.Fatalf("Len = %d, want 3", g.Len())
	}
	for i, want := range []string{"a.png", "b.png", "c.png"} {
		if got := g.At(i).Source; got != want {
			t.Errorf("At(%d) = %q, want %q", i, got, want)
		}
	}
	if g.At(0) != first[0] {
		t.Error("photo identity changed after append")
	}
	if first[0].ID == first[1].ID || first[0].ID == "" {
		t.Errorf("ids not unique: %q %q", first[0].ID, first[1].ID)
	}
	if g.Version() != 2 {
		t.Errorf("Version = %d, want 2", g.Version())
	}
	if g.Add() != nil || g.Version() != 2 {
		t.Error("empty Add changed the gallery")
	}
}

func TestGalleryRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := New()
	if g.Random(rng) != nil {
		t.Error("Random on empty gallery returned a photo")
	}

	g.Add("a", "b", "c", "d")
	counts := map[string]int{}
	const n = 8000
	for i := 0; i < n; i++ {
		counts[g.Random(rng).Source]++
	}
	for src, c := range counts {
		if math.Abs(float64(c)/n-0.25) > 0.03 {
			t.Errorf("%s picked %d/%d times", src, c, n)
		}
	}
}

func TestTextureCacheResolvesOnce(t *testing.T) {
	var calls atomic.Int32
	cache := NewTextureCache(func(p *Photo) (string, error) {
		calls.Add(1)
		return "tex:" + p.Source, nil
	}, nil)

	p := New().Add("a.png")[0]

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tex, err := cache.Get(p); err != nil || tex != "tex:a.png" {
				t.Errorf("Get = %q, %v", tex, err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		cache.Get(p)
	}
	if calls.Load() != 1 {
		t.Errorf("resolver called %d times, want 1", calls.Load())
	}
	if tex, ok := cache.Peek(p); !ok || tex != "tex:a.png" {
		t.Errorf("Peek = %q, %v", tex, ok)
	}
}

func TestTextureCacheKeyedByIdentity(t *testing.T) {
	cache := NewTextureCache(func(p *Photo) (string, error) { return p.ID, nil }, nil)
	photos := New().Add("same.png", "same.png")

	a, _ := cache.Get(photos[0])
	b, _ := cache.Get(photos[1])
	if a == b {
		t.Error("two photos with the same source shared a texture")
	}
	if cache.Len() != 2 {
		t.Errorf("Len = %d, want 2", cache.Len())
	}
}

func TestTextureCacheRetriesFailures(t *testing.T) {
	fail := true
	cache := NewTextureCache(func(p *Photo) (int, error) {
		if fail {
			return 0, errors.New("decode failed")
		}
		return 7, nil
	}, nil)
	p := New().Add("broken.png")[0]

	if _, err := cache.Get(p); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := cache.Peek(p); ok {
		t.Fatal("failure was cached")
	}
	fail = false
	if v, err := cache.Get(p); err != nil || v != 7 {
		t.Errorf("retry = %v, %v", v, err)
	}
}

func TestTextureCacheRelease(t *testing.T) {
	var released []string
	cache := NewTextureCache(func(p *Photo) (string, error) { return p.Source, nil },
		func(s string) { released = append(released, s) })

	photos := New().Add("a", "b")
	for _, p := range photos {
		cache.Get(p)
	}
	cache.Release()
	cache.Release()

	if len(released) != 2 {
		t.Errorf("released %v, want 2 textures once", released)
	}
	if _, err := cache.Get(photos[0]); !errors.Is(err, ErrReleased) {
		t.Errorf("Get after Release err = %v", err)
	}
}
