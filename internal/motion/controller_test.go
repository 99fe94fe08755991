package motion

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/iburimskiy/gesture-tree/internal/gallery"
	"github.com/iburimskiy/gesture-tree/internal/gesture"
)

func newController(photos *gallery.Gallery) *Controller {
	return New(gesture.NewMailbox(), photos, rand.New(rand.NewSource(9)), nil)
}

func TestSmoothingConverges(t *testing.T) {
	c := newController(nil)
	const target = 0.8
	c.Observe(gesture.Sample{Openness: target})

	// error shrinks by 0.9 per tick: 0.9^n <= 0.01 at n = 44
	prev := c.Explosion()
	for i := 1; i <= 44; i++ {
		s := c.Step()
		if s < prev {
			t.Fatalf("tick %d: smoothed decreased %v -> %v", i, prev, s)
		}
		if s-prev > 0.1+1e-12 {
			t.Fatalf("tick %d: step %v exceeds bound", i, s-prev)
		}
		wantErr := target * math.Pow(0.9, float64(i))
		if math.Abs((target-s)-wantErr) > 1e-9 {
			t.Fatalf("tick %d: error %v, want %v", i, target-s, wantErr)
		}
		prev = s
	}
	if math.Abs(prev-target) > 0.01*target {
		t.Errorf("after 44 ticks smoothed = %v, want within 1%% of %v", prev, target)
	}
}

func TestSmoothingFollowsTargetDown(t *testing.T) {
	c := newController(nil)
	c.Observe(gesture.Sample{Openness: 1})
	for i := 0; i < 100; i++ {
		c.Step()
	}
	c.Observe(gesture.Quiescent)
	prev := c.Explosion()
	for i := 0; i < 100; i++ {
		s := c.Step()
		if s > prev {
			t.Fatalf("smoothed rose while target is 0")
		}
		prev = s
	}
	if prev > 0.001 {
		t.Errorf("smoothed = %v, want ≈0", prev)
	}
}

func TestObserveDoesNotWriteSmoothed(t *testing.T) {
	c := newController(nil)
	c.Observe(gesture.Sample{Openness: 1})
	if c.Explosion() != 0 {
		t.Errorf("Observe changed smoothed to %v", c.Explosion())
	}
	if c.Target() != 1 {
		t.Errorf("Target = %v", c.Target())
	}
	c.Observe(gesture.Sample{Openness: 7})
	if c.Target() != 1 {
		t.Errorf("Target not clamped: %v", c.Target())
	}
}

func pinch(on bool) gesture.Sample {
	s := gesture.Quiescent
	if on {
		s.PinchDistance = 0
		s.IsPinching = true
	}
	return s
}

func TestRevealSequence(t *testing.T) {
	photos := gallery.New()
	photos.Add("a", "b", "c", "d", "e")
	c := newController(photos)

	r := c.Observe(pinch(true))
	if !r.Showing() || r.Activation != 1 {
		t.Fatalf("false→true: %+v", r)
	}
	shown := r.Photo

	for i := 0; i < 10; i++ {
		r = c.Observe(pinch(true))
		if r.Photo != shown || r.Activation != 1 {
			t.Fatalf("held pinch re-selected: %+v", r)
		}
	}

	r = c.Observe(pinch(false))
	if r.Showing() {
		t.Fatalf("true→false: still showing %+v", r)
	}
	r = c.Observe(pinch(false))
	if r.Showing() {
		t.Fatal("idle pinch=false left Idle")
	}

	r = c.Observe(pinch(true))
	if !r.Showing() || r.Activation != 2 {
		t.Fatalf("second edge: %+v", r)
	}
	if c.Reveal() != r {
		t.Errorf("Reveal() = %+v, want %+v", c.Reveal(), r)
	}
}

func TestRevealEmptyGallery(t *testing.T) {
	photos := gallery.New()
	c := newController(photos)

	for i := 0; i < 5; i++ {
		if r := c.Observe(pinch(true)); r.Showing() {
			t.Fatal("empty gallery left Idle")
		}
	}

	// The edge already passed; photos arriving mid-pinch wait for the next one.
	photos.Add("late")
	if r := c.Observe(pinch(true)); r.Showing() {
		t.Fatal("level-triggered reveal")
	}
	c.Observe(pinch(false))
	if r := c.Observe(pinch(true)); !r.Showing() || r.Photo.Source != "late" {
		t.Errorf("next edge: %+v", r)
	}
}

func TestRevealNilGallery(t *testing.T) {
	c := newController(nil)
	if r := c.Observe(pinch(true)); r.Showing() {
		t.Error("nil gallery revealed a photo")
	}
}

func TestRunConsumesMailbox(t *testing.T) {
	box := gesture.NewMailbox()
	c := New(box, nil, nil, nil)
	c.Start(context.Background())
	defer c.Stop()

	box.Publish(gesture.Sample{Openness: 1, PinchDistance: 1})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Explosion() > 0.5 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("explosion = %v after 2s, want > 0.5", c.Explosion())
}

func TestStopIdempotent(t *testing.T) {
	c := newController(nil)
	c.Stop() // before Start

	c = newController(nil)
	c.Start(context.Background())
	c.Stop()
	c.Stop()

	c.Start(context.Background()) // no restart after Stop
	before := c.Explosion()
	c.Observe(gesture.Sample{Openness: 1})
	time.Sleep(50 * time.Millisecond)
	if c.Explosion() != before {
		t.Error("stopped controller still ticking")
	}
}
