package gesture

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Replay is a Source that plays back recorded frames (one JSON Frame per
// line) at a fixed interval, looping at the end.
type Replay struct {
	frames   []Frame
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped atomic.Bool
}

// LoadReplay reads a JSON-lines recording from path.
func LoadReplay(path string, interval time.Duration) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadReplay(f, interval)
}

// ReadReplay parses a JSON-lines recording. Blank lines are skipped.
func ReadReplay(r io.Reader, interval time.Duration) (*Replay, error) {
	if interval <= 0 {
		interval = time.Second / 30
	}

	var frames []Frame
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			return nil, fmt.Errorf("replay line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &Replay{frames: frames, interval: interval}, nil
}

// Len returns the number of recorded frames.
func (r *Replay) Len() int { return len(r.frames) }

func (r *Replay) Start(ctx context.Context, onFrame func(Frame)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped.Load() {
		return ErrStopped
	}
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx, onFrame)
	return nil
}

func (r *Replay) run(ctx context.Context, onFrame func(Frame)) {
	defer close(r.done)
	if len(r.frames) == 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(r.frames) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			onFrame(r.frames[i])
		}
	}
}

func (r *Replay) Stop() {
	if !r.stopped.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
