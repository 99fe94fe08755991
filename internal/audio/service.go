// Package audio plays the current track and reduces it to a beat
// intensity: the mean energy of the lowest frequency bins.
package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"

	"github.com/iburimskiy/gesture-tree/internal/config"
)

// DefaultSampleRate is the rate of the analysis graph. Sources with other
// rates are resampled on the way in.
const DefaultSampleRate beep.SampleRate = 44100

// ErrNotInitialized is returned by playback controls used before Initialize
// or after Close.
var ErrNotInitialized = errors.New("audio: not initialized")

// Service owns the analysis graph:
//
//	slot (current track) -> volume -> pause ctrl -> tap -> output
//
// The graph is built once. Changing tracks swaps the slot's streamer, so
// the analyser always listens to whatever is currently playing.
type Service struct {
	out    Output
	rate   beep.SampleRate
	logger *slog.Logger

	mu          sync.Mutex
	initialized atomic.Bool
	closed      atomic.Bool
	slot        *slot
	vol         *effects.Volume
	ctrl        *beep.Ctrl
	tap         *tap
	source      io.Closer

	analyser *Analyser
}

// NewService creates a Service playing into out. A nil out uses the system
// speaker; a nil logger uses slog.Default.
func NewService(out Output, logger *slog.Logger) *Service {
	if out == nil {
		out = Speaker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		out:      out,
		rate:     DefaultSampleRate,
		logger:   logger,
		analyser: NewAnalyser(),
	}
}

// Initialize opens the output device and builds the graph. Calling it again
// is a no-op.
func (s *Service) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized.Load() {
		return nil
	}
	if s.closed.Load() {
		return ErrNotInitialized
	}

	if err := s.out.Init(s.rate, s.rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("audio: init output: %w", err)
	}

	s.slot = &slot{}
	s.vol = &effects.Volume{Streamer: s.slot, Base: 2}
	s.ctrl = &beep.Ctrl{Streamer: s.vol, Paused: true}
	s.tap = newTap(s.ctrl, config.VisualRingSize)
	s.out.Play(s.tap)

	s.initialized.Store(true)
	s.logger.Info("audio graph ready", "sample_rate", int(s.rate))
	return nil
}

// SampleBeatIntensity returns the current bass energy in [0,1]. It returns
// 0 before Initialize or while no samples have been played, and never
// fails.
func (s *Service) SampleBeatIntensity() float64 {
	if !s.initialized.Load() || s.closed.Load() {
		return 0
	}
	v := s.analyser.BeatIntensity(s.tap.snapshot(FFTSize))
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

// SetSource decodes the file at path and makes it the current track.
func (s *Service) SetSource(path string) error {
	streamer, format, err := Open(path)
	if err != nil {
		return err
	}
	if err := s.SetStream(streamer, format); err != nil {
		_ = streamer.Close()
		return err
	}
	s.logger.Info("audio source set", "path", path, "sample_rate", int(format.SampleRate))
	return nil
}

// SetStream makes streamer the current track and resumes playback.
// Seekable streams loop. If streamer implements io.Closer it is closed when
// replaced or on Close.
func (s *Service) SetStream(streamer beep.Streamer, format beep.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized.Load() || s.closed.Load() {
		return ErrNotInitialized
	}

	src := streamer
	if ss, ok := streamer.(beep.StreamSeeker); ok {
		src = beep.Loop(-1, ss)
	}
	if format.SampleRate != 0 && format.SampleRate != s.rate {
		src = beep.Resample(4, format.SampleRate, s.rate, src)
	}

	s.out.Lock()
	s.slot.swap(src)
	s.ctrl.Paused = false
	s.out.Unlock()

	prev := s.source
	s.source = nil
	if c, ok := streamer.(io.Closer); ok {
		s.source = c
	}
	if prev != nil {
		if err := prev.Close(); err != nil {
			s.logger.Warn("close previous audio source", "error", err)
		}
	}
	return nil
}

// Play resumes playback.
func (s *Service) Play() error { return s.setPaused(false) }

// Pause halts playback. Silence keeps flowing through the analyser, so the
// beat intensity decays to 0.
func (s *Service) Pause() error { return s.setPaused(true) }

func (s *Service) setPaused(paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized.Load() || s.closed.Load() {
		return ErrNotInitialized
	}
	s.out.Lock()
	s.ctrl.Paused = paused
	s.out.Unlock()
	return nil
}

// Playing reports whether the graph is initialized and not paused.
func (s *Service) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized.Load() || s.closed.Load() {
		return false
	}
	s.out.Lock()
	defer s.out.Unlock()
	return !s.ctrl.Paused
}

// SetVolume sets the linear output gain in [0,1].
func (s *Service) SetVolume(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized.Load() || s.closed.Load() {
		return ErrNotInitialized
	}
	v = math.Min(math.Max(v, 0), 1)

	s.out.Lock()
	s.vol.Silent = v == 0
	if v > 0 {
		s.vol.Volume = math.Log2(v)
	}
	s.out.Unlock()
	return nil
}

// Close stops playback and releases the device. It is safe to call more
// than once and before Initialize.
func (s *Service) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized.Load() {
		return
	}
	s.out.Lock()
	s.slot.swap(nil)
	s.ctrl.Paused = true
	s.out.Unlock()
	s.out.Close()

	if s.source != nil {
		_ = s.source.Close()
		s.source = nil
	}
	s.analyser.Reset()
	s.logger.Debug("audio closed")
}
