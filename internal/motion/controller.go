// Package motion smooths the explosion gesture and runs the photo-reveal
// state machine between gesture extraction and the render loop.
package motion

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iburimskiy/gesture-tree/internal/config"
	"github.com/iburimskiy/gesture-tree/internal/gallery"
	"github.com/iburimskiy/gesture-tree/internal/gesture"
)

// TickInterval is the smoothing cadence, independent of render and
// detection rates.
const TickInterval = 16 * time.Millisecond

// Controller owns the smoothed explosion factor. Samples only move the raw
// target; the smoothed value is written by Step alone, each call moving it
// a fixed fraction of the way toward the target.
type Controller struct {
	box    *gesture.Mailbox
	photos *gallery.Gallery
	logger *slog.Logger

	target   atomic.Uint64
	smoothed atomic.Uint64

	mu     sync.Mutex
	rng    *rand.Rand
	reveal revealMachine

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// New creates a controller reading samples from box and picking reveal
// photos from photos. A nil rng is seeded from the clock.
func New(box *gesture.Mailbox, photos *gallery.Gallery, rng *rand.Rand, logger *slog.Logger) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{box: box, photos: photos, rng: rng, logger: logger}
}

// Observe applies one gesture sample: openness becomes the raw target and
// the pinch flag drives the reveal machine.
func (c *Controller) Observe(s gesture.Sample) Reveal {
	t := s.Openness
	if math.IsNaN(t) {
		t = 0
	}
	c.target.Store(math.Float64bits(math.Min(math.Max(t, 0), 1)))

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.reveal.state
	next := c.reveal.observe(s.IsPinching, c.photos, c.rng)
	if next.Activation != prev.Activation {
		c.logger.Debug("reveal photo", "id", next.Photo.ID)
	} else if prev.Showing() && !next.Showing() {
		c.logger.Debug("reveal hidden", "id", prev.Photo.ID)
	}
	return next
}

// Step advances the low-pass filter by one tick and returns the new value.
func (c *Controller) Step() float64 {
	s := math.Float64frombits(c.smoothed.Load())
	s += (c.Target() - s) * config.SmoothingFactor
	c.smoothed.Store(math.Float64bits(s))
	return s
}

// Target returns the latest raw openness.
func (c *Controller) Target() float64 { return math.Float64frombits(c.target.Load()) }

// Explosion returns the smoothed explosion factor in [0,1].
func (c *Controller) Explosion() float64 { return math.Float64frombits(c.smoothed.Load()) }

// Reveal returns the current reveal state.
func (c *Controller) Reveal() Reveal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reveal.state
}

// Start runs the smoothing tick and drains the mailbox on a goroutine until
// ctx is done or Stop is called. Calling Start again is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.stopped || c.cancel != nil {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx)
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	var ready <-chan struct{}
	if c.box != nil {
		ready = c.box.Ready()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ready:
			if s, ok := c.box.Consume(); ok {
				c.Observe(s)
			}
		case <-ticker.C:
			c.Step()
		}
	}
}

// Stop ends the run loop and waits for it. It is safe to call more than
// once and before Start.
func (c *Controller) Stop() {
	c.runMu.Lock()
	cancel, done := c.cancel, c.done
	c.stopped = true
	c.cancel = nil
	c.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
