package gesture

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

var (
	ErrStopped        = errors.New("gesture: source stopped")
	ErrAlreadyStarted = errors.New("gesture: source already started")
)

// Source delivers detector frames. onFrame is called once per processed
// frame from the source's own goroutine. Stop is idempotent and safe before
// Start.
type Source interface {
	Start(ctx context.Context, onFrame func(Frame)) error
	Stop()
}

// Pipeline extracts every frame a Source delivers and publishes the result
// to a Mailbox.
type Pipeline struct {
	src    Source
	box    *Mailbox
	logger *slog.Logger
	frames atomic.Uint64
}

func NewPipeline(src Source, box *Mailbox, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{src: src, box: box, logger: logger}
}

// Start starts the source. A source that cannot start (no camera, port in
// use) simply never publishes; the error is returned for logging only.
func (p *Pipeline) Start(ctx context.Context) error {
	if err := p.src.Start(ctx, p.handle); err != nil {
		p.logger.Warn("gesture source unavailable", "error", err)
		return err
	}
	return nil
}

func (p *Pipeline) handle(f Frame) {
	p.frames.Add(1)
	p.box.Publish(Extract(f))
}

// Frames returns the number of frames processed.
func (p *Pipeline) Frames() uint64 { return p.frames.Load() }

func (p *Pipeline) Stop() { p.src.Stop() }
