// Package scene composes the live signals into a renderable frame once per
// display refresh: shaded tree particles, photo billboards, falling snow
// and the reveal overlay.
package scene

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/gesture-tree/internal/config"
	"github.com/iburimskiy/gesture-tree/internal/gallery"
	"github.com/iburimskiy/gesture-tree/internal/motion"
	"github.com/iburimskiy/gesture-tree/internal/tree"
)

const (
	revealPopDuration = 0.5
	revealPopFrom     = 0.6
	starScale         = 1.5
)

// BeatSource is pulled synchronously once per tick.
type BeatSource interface {
	SampleBeatIntensity() float64
}

// MotionSource exposes the latest smoothed explosion and reveal state.
type MotionSource interface {
	Explosion() float64
	Reveal() motion.Reveal
}

// Star is the sprite crowning the tree.
type Star struct {
	Position mgl32.Vec3
	Scale    float32
	Spin     float32
	Glow     float32
}

// Overlay is the revealed photo shown in front of the scene.
type Overlay struct {
	Photo *gallery.Photo
	Scale float32
}

// Frame is everything drawn for one tick. It is owned by the Loop and only
// valid until the next Tick.
type Frame struct {
	Context   RenderContext
	Particles []RenderedParticle
	Photos    []Billboard
	Snow      []mgl32.Vec3
	Star      Star
	Overlay   Overlay
	Camera    Camera
}

// Options tune a Loop. Zero values select the defaults.
type Options struct {
	ParticleCount int
	SnowCount     int
	Seed          int64
	Camera        *Camera
	Logger        *slog.Logger
}

// Loop is the per-frame driver. Tick must be called from a single
// goroutine; SetConfig may be called from any goroutine.
type Loop struct {
	beat   BeatSource
	motion MotionSource
	photos *gallery.Gallery
	camera Camera
	logger *slog.Logger
	count  int

	cfg   atomic.Pointer[config.Tree]
	field atomic.Pointer[tree.Field]

	genMu  sync.Mutex
	genRng *rand.Rand

	// tick goroutine only
	rng        *rand.Rand
	elapsed    float64
	rotation   float64
	lastBeat   float64
	lastExpl   float64
	snow       *Snow
	layout     photoLayout
	activation uint64
	pop        *gween.Tween
	popScale   float32
	frame      Frame
}

// NewLoop generates the initial field for cfg and returns a ready Loop.
// beat and motion may be nil; missing inputs read as 0 and Idle.
func NewLoop(cfg config.Tree, beat BeatSource, motion MotionSource, photos *gallery.Gallery, opts Options) *Loop {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.ParticleCount <= 0 {
		opts.ParticleCount = config.ParticleCount
	}
	if opts.SnowCount <= 0 {
		opts.SnowCount = config.SnowCount
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cam := DefaultCamera()
	if opts.Camera != nil {
		cam = *opts.Camera
	}

	l := &Loop{
		beat:   beat,
		motion: motion,
		photos: photos,
		camera: cam,
		logger: opts.Logger,
		count:  opts.ParticleCount,
		genRng: rand.New(rand.NewSource(seed)),
		rng:    rand.New(rand.NewSource(seed + 1)),
	}
	l.snow = NewSnow(opts.SnowCount, l.rng)

	cfg = cfg.Normalize()
	l.cfg.Store(&cfg)
	l.regenerate(cfg)
	return l
}

// Config returns the current settings.
func (l *Loop) Config() config.Tree { return *l.cfg.Load() }

// Field returns the currently published particle field.
func (l *Loop) Field() *tree.Field { return l.field.Load() }

// SetConfig applies new settings. A height or particle size change
// regenerates the field and publishes it in one atomic swap; other changes
// only affect the next tick's math.
func (l *Loop) SetConfig(cfg config.Tree) {
	cfg = cfg.Normalize()
	prev := l.cfg.Swap(&cfg)
	if prev != nil && !prev.NeedsRegeneration(cfg) {
		return
	}
	l.regenerate(cfg)
}

func (l *Loop) regenerate(cfg config.Tree) {
	l.genMu.Lock()
	defer l.genMu.Unlock()

	start := time.Now()
	f := tree.Generate(cfg.Height, cfg.ParticleSize, l.count, l.genRng)
	l.field.Store(f)
	l.logger.Debug("tree regenerated",
		"particles", f.Len(),
		"height", cfg.Height,
		"particle_size", cfg.ParticleSize,
		"took", time.Since(start))
}

// Tick advances the scene by dt seconds and composes a frame from the
// latest inputs. Inputs that read as NaN keep their previous value.
func (l *Loop) Tick(dt float64) *Frame {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	l.elapsed += dt

	cfg := l.Config()
	beat := l.sampleBeat()
	explosion := l.sampleExplosion()
	l.rotation += cfg.RotationSpeed * config.RotationStep

	rc := newRenderContext(l.elapsed, beat, explosion, l.rotation, cfg)
	l.compose(rc, l.field.Load(), dt)
	return &l.frame
}

// Elapsed returns the accumulated scene time in seconds.
func (l *Loop) Elapsed() float64 { return l.elapsed }

func (l *Loop) sampleBeat() float64 {
	if l.beat == nil {
		return 0
	}
	if b := l.beat.SampleBeatIntensity(); !math.IsNaN(b) {
		l.lastBeat = math.Min(math.Max(b, 0), 1)
	}
	return l.lastBeat
}

func (l *Loop) sampleExplosion() float64 {
	if l.motion == nil {
		return 0
	}
	if e := l.motion.Explosion(); !math.IsNaN(e) {
		l.lastExpl = math.Min(math.Max(e, 0), 1)
	}
	return l.lastExpl
}

func (l *Loop) compose(rc RenderContext, field *tree.Field, dt float64) {
	fr := &l.frame
	fr.Context = rc
	fr.Camera = l.camera

	fr.Particles = fr.Particles[:0]
	if field != nil {
		for _, p := range field.Particles {
			fr.Particles = append(fr.Particles, Shade(p, rc))
		}
		fr.Star = Star{
			Position: rc.rotY.Mul3x1(field.Star),
			Scale:    starScale * (1 + rc.RawBeat*0.3),
			Spin:     float32(rc.Time),
			Glow:     1 + rc.RawBeat,
		}
	}

	height := rc.Config.Height
	if field != nil {
		height = field.Height
	}
	fr.Photos = fr.Photos[:0]
	for _, pl := range l.layout.sync(l.photos, height, l.rng) {
		fr.Photos = append(fr.Photos, billboard(pl, rc, l.camera.Eye))
	}

	l.snow.Step(rc.Time)
	fr.Snow = l.snow.Flakes

	fr.Overlay = l.overlay(dt)
}

func (l *Loop) overlay(dt float64) Overlay {
	if l.motion == nil {
		return Overlay{}
	}
	r := l.motion.Reveal()
	if !r.Showing() {
		l.pop = nil
		return Overlay{}
	}
	if r.Activation != l.activation || l.pop == nil {
		l.activation = r.Activation
		l.pop = gween.New(revealPopFrom, 1, revealPopDuration, ease.OutBounce)
		l.popScale = revealPopFrom
	}
	l.popScale, _ = l.pop.Update(float32(dt))
	return Overlay{Photo: r.Photo, Scale: l.popScale}
}
