package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// tap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the analyser can read recently played audio.
type tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func newTap(src beep.Streamer, ringSize int) *tap {
	return &tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *tap) Err() error { return t.Source.Err() }

// snapshot returns up to the last n samples (stereo) in chronological order.
// Only samples that have actually been streamed are returned.
func (t *tap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	if n <= 0 {
		return nil
	}
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// slot is the swappable head of the graph. It always streams a full buffer,
// padding with silence, so the output keeps pulling while no track is set
// or between tracks.
type slot struct {
	current beep.Streamer
}

func (s *slot) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	if s.current != nil {
		n, ok := s.current.Stream(samples)
		filled = n
		if !ok {
			s.current = nil
		}
	}
	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (s *slot) Err() error { return nil }

// swap installs next and returns the previous streamer. Callers hold the
// output lock.
func (s *slot) swap(next beep.Streamer) beep.Streamer {
	prev := s.current
	s.current = next
	return prev
}
