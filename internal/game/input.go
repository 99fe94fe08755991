package game

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/gesture-tree/internal/audio"
	"github.com/iburimskiy/gesture-tree/internal/config"
)

const (
	heightStep      = 0.5
	sizeStep        = 0.05
	rotationStep    = 0.25
	sensitivityStep = 0.1
	volumeStep      = 0.1

	buttonWidth  = 120
	buttonHeight = 32
	buttonX      = 12
	buttonY      = 12
	buttonGap    = 8
)

// button is a clickable label in the top-left corner.
type button struct {
	x, y, w, h int
	label      string
	onClick    func()

	hovered bool
	pressed bool
}

func newButtons(g *Game) []*button {
	labels := []struct {
		text string
		fn   func()
	}{
		{"Open Music", g.openMusicDialog},
		{"Add Photos", g.openPhotosDialog},
	}
	out := make([]*button, len(labels))
	for i, l := range labels {
		out[i] = &button{
			x: buttonX + i*(buttonWidth+buttonGap), y: buttonY,
			w: buttonWidth, h: buttonHeight,
			label: l.text, onClick: l.fn,
		}
	}
	return out
}

func (b *button) update(mouseX, mouseY int) {
	b.hovered = mouseX >= b.x && mouseX <= b.x+b.w &&
		mouseY >= b.y && mouseY <= b.y+b.h

	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.pressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if b.pressed && b.hovered {
			b.onClick()
		}
		b.pressed = false
	}
}

func (b *button) draw(screen *ebiten.Image) {
	var bg color.Color
	switch {
	case b.pressed:
		bg = color.RGBA{R: 60, G: 80, B: 120, A: 220}
	case b.hovered:
		bg = color.RGBA{R: 80, G: 100, B: 140, A: 220}
	default:
		bg = color.RGBA{R: 100, G: 120, B: 160, A: 180}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bg, false)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	textWidth := len(b.label) * 6
	ebitenutil.DebugPrintAt(screen, b.label, b.x+(b.w-textWidth)/2, b.y+(b.h-16)/2)
}

func (g *Game) handleInput() error {
	mouseX, mouseY := ebiten.CursorPosition()
	for _, b := range g.buttons {
		b.update(mouseX, mouseY)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.openMusicDialog()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.openPhotosDialog()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key9) {
		g.setVolume(g.volume - volumeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) {
		g.setVolume(g.volume + volumeStep)
	}

	cfg := g.loop.Config()
	next := adjust(cfg, pressedSettingKeys())
	if next != cfg {
		g.loop.SetConfig(next)
	}
	return nil
}

// settingKeys is the set of settings keys pressed this tick.
type settingKeys struct {
	heightUp, heightDown           bool
	sizeUp, sizeDown               bool
	rotationUp, rotationDown       bool
	sensitivityUp, sensitivityDown bool
}

func pressedSettingKeys() settingKeys {
	return settingKeys{
		heightUp:        inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		heightDown:      inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),
		sizeUp:          inpututil.IsKeyJustPressed(ebiten.KeyBracketRight),
		sizeDown:        inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft),
		rotationUp:      inpututil.IsKeyJustPressed(ebiten.KeyArrowRight),
		rotationDown:    inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft),
		sensitivityUp:   inpututil.IsKeyJustPressed(ebiten.KeyEqual),
		sensitivityDown: inpututil.IsKeyJustPressed(ebiten.KeyMinus),
	}
}

// adjust applies one step per pressed key and clamps to the slider ranges.
func adjust(cfg config.Tree, k settingKeys) config.Tree {
	step := func(v *float64, up, down bool, by float64) {
		if up {
			*v += by
		}
		if down {
			*v -= by
		}
	}
	step(&cfg.Height, k.heightUp, k.heightDown, heightStep)
	step(&cfg.ParticleSize, k.sizeUp, k.sizeDown, sizeStep)
	step(&cfg.RotationSpeed, k.rotationUp, k.rotationDown, rotationStep)
	step(&cfg.Sensitivity, k.sensitivityUp, k.sensitivityDown, sensitivityStep)
	return cfg.Normalize()
}

func (g *Game) openMusicDialog() {
	if g.audio == nil {
		return
	}
	filename, err := zenity.SelectFile(
		zenity.Title("Open Music"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: audio.Extensions,
		}},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			g.fail("music dialog", err)
		}
		return
	}
	g.loadTrack(filename)
}

func (g *Game) openPhotosDialog() {
	files, err := zenity.SelectFileMultiple(
		zenity.Title("Add Photos"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: ImagePatterns,
		}},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			g.fail("photos dialog", err)
		}
		return
	}
	added := g.photos.Add(files...)
	g.logger.Info("photos added", "count", len(added), "total", g.photos.Len())
}
