// Package game hosts the ebiten window: it wires audio, gesture capture,
// the motion controller and the scene loop together and draws each frame.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/gesture-tree/internal/audio"
	"github.com/iburimskiy/gesture-tree/internal/config"
	"github.com/iburimskiy/gesture-tree/internal/gallery"
	"github.com/iburimskiy/gesture-tree/internal/gesture"
	"github.com/iburimskiy/gesture-tree/internal/motion"
	"github.com/iburimskiy/gesture-tree/internal/scene"
)

const errorDisplay = 5 * time.Second

// Options configure a Game. Output and Source may be nil: without an
// output there is no sound and the beat stays at 0, without a source the
// tree never explodes.
type Options struct {
	Config *config.File
	Output audio.Output
	Source gesture.Source
	Logger *slog.Logger
}

type Game struct {
	logger *slog.Logger

	audio    *audio.Service
	box      *gesture.Mailbox
	pipeline *gesture.Pipeline
	motion   *motion.Controller
	photos   *gallery.Gallery
	textures *gallery.TextureCache[*ebiten.Image]
	loop     *scene.Loop
	frame    *scene.Frame

	cancel    context.CancelFunc
	closeOnce sync.Once

	// ui
	volume   float64
	played   time.Duration
	track    string
	broken   map[string]bool
	buttons  []*button
	lastErr  error
	errUntil time.Time
	sprites  *sprites
}

// New builds the whole pipeline and starts the background workers.
// Failures of optional parts (audio device, capture source, initial
// track) are logged and leave the scene running with defaults.
func New(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		logger: logger,
		box:    gesture.NewMailbox(),
		photos: gallery.New(),
		cancel: cancel,
		volume: cfg.Volume,
		broken: map[string]bool{},
	}

	if opts.Output != nil {
		g.audio = audio.NewService(opts.Output, logger.With("component", "audio"))
		if err := g.audio.Initialize(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			g.setVolume(cfg.Volume)
			if cfg.Track != "" {
				g.loadTrack(cfg.Track)
			}
		}
	}

	if added := g.photos.Add(cfg.Photos...); len(added) > 0 {
		logger.Info("photos loaded", "count", len(added))
	}
	g.textures = gallery.NewTextureCache(loadTexture, func(img *ebiten.Image) { img.Deallocate() })

	g.motion = motion.New(g.box, g.photos, rand.New(rand.NewSource(seed)), logger.With("component", "motion"))
	g.motion.Start(ctx)

	if opts.Source != nil {
		g.pipeline = gesture.NewPipeline(opts.Source, g.box, logger.With("component", "gesture"))
		_ = g.pipeline.Start(ctx)
	}

	var beat scene.BeatSource
	if g.audio != nil {
		beat = g.audio
	}
	g.loop = scene.NewLoop(cfg.Tree, beat, g.motion, g.photos, scene.Options{
		Seed:   seed,
		Logger: logger.With("component", "scene"),
	})
	g.frame = g.loop.Tick(0)
	g.buttons = newButtons(g)
	return g
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.frame = g.loop.Tick(dt)
	if g.audio != nil && g.audio.Playing() {
		g.played += time.Duration(dt * float64(time.Second))
	}
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close stops capture, the motion controller and audio and releases
// textures. Safe to call more than once.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		if g.pipeline != nil {
			g.pipeline.Stop()
		}
		g.cancel()
		g.motion.Stop()
		if g.audio != nil {
			g.audio.Close()
		}
		g.textures.Release()
		g.logger.Info("shut down", "gesture_frames", g.gestureFrames(), "dropped_samples", g.box.Dropped())
	})
}

func (g *Game) gestureFrames() uint64 {
	if g.pipeline == nil {
		return 0
	}
	return g.pipeline.Frames()
}

func (g *Game) loadTrack(path string) {
	if err := g.audio.SetSource(path); err != nil {
		g.fail("load track", err)
		return
	}
	g.track = path
	g.played = 0
	g.logger.Info("track loaded", "path", path)
}

func (g *Game) setVolume(v float64) {
	g.volume = clamp01(v)
	if g.audio == nil {
		return
	}
	if err := g.audio.SetVolume(g.volume); err != nil {
		g.logger.Debug("set volume", "error", err)
	}
}

func (g *Game) togglePause() {
	if g.audio == nil {
		return
	}
	var err error
	if g.audio.Playing() {
		err = g.audio.Pause()
	} else {
		err = g.audio.Play()
	}
	if err != nil {
		g.fail("toggle playback", err)
	}
}

// fail logs err and shows it in the status line for a few seconds.
func (g *Game) fail(op string, err error) {
	g.logger.Error(op, "error", err)
	g.lastErr = err
	g.errUntil = time.Now().Add(errorDisplay)
}
