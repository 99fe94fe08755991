package game

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/gesture-tree/internal/config"
	"github.com/iburimskiy/gesture-tree/internal/scene"
	"github.com/iburimskiy/gesture-tree/internal/tree"
)

const (
	glowSize       = 32
	photoWorldSize = 1.2
	photoBorder    = 0.06
	overlayFit     = 0.6
	starPoints     = 5
	starInner      = 0.45
	snowSize       = 0.08
)

var snowColor = tree.Color{R: 1, G: 1, B: 1}

// sprites are the GPU images shared by every frame.
type sprites struct {
	background *ebiten.Image
	glow       *ebiten.Image
	white      *ebiten.Image
}

func newSprites() *sprites {
	bg := ebiten.NewImage(config.WindowWidth, config.WindowHeight)
	for y := 0; y < config.WindowHeight; y++ {
		c := gradientAt(auroraStops, float64(y)/float64(config.WindowHeight-1))
		vector.DrawFilledRect(bg, 0, float32(y), config.WindowWidth, 1, c, false)
	}

	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return &sprites{
		background: bg,
		glow:       ebiten.NewImageFromImage(glowSprite(glowSize)),
		white:      white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.sprites == nil {
		g.sprites = newSprites()
	}
	screen.DrawImage(g.sprites.background, nil)

	fr := g.frame
	if fr == nil {
		return
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	pr := fr.Camera.Projector(w, h)

	g.drawSnow(screen, pr, fr.Snow)
	g.drawParticles(screen, pr, fr.Particles)
	g.drawStar(screen, pr, fr.Star)
	for _, b := range fr.Photos {
		g.drawBillboard(screen, pr, b)
	}
	g.drawOverlay(screen, fr.Overlay)
	for _, b := range g.buttons {
		b.draw(screen)
	}
	g.drawHUD(screen, fr)
}

// drawGlow draws one additive glow dot centred on a world position.
func (g *Game) drawGlow(screen *ebiten.Image, pr scene.Projector, pos mgl32.Vec3, size float32, c tree.Color, alpha float32) {
	x, y, depth, ok := pr.Project(pos)
	if !ok {
		return
	}
	px := pr.PixelScale(depth) * size
	if px < 0.5 {
		return
	}
	s := float64(px) / glowSize

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-glowSize/2, -glowSize/2)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.Scale(c.R*alpha, c.G*alpha, c.B*alpha, alpha)
	op.Blend = ebiten.BlendLighter
	screen.DrawImage(g.sprites.glow, op)
}

func (g *Game) drawParticles(screen *ebiten.Image, pr scene.Projector, ps []scene.RenderedParticle) {
	for _, p := range ps {
		g.drawGlow(screen, pr, p.Position, p.Size, p.Color, 0.9)
	}
}

func (g *Game) drawSnow(screen *ebiten.Image, pr scene.Projector, flakes []mgl32.Vec3) {
	for _, f := range flakes {
		g.drawGlow(screen, pr, f, snowSize, snowColor, 0.8)
	}
}

func (g *Game) drawStar(screen *ebiten.Image, pr scene.Projector, st scene.Star) {
	cx, cy, depth, ok := pr.Project(st.Position)
	if !ok {
		return
	}
	g.drawGlow(screen, pr, st.Position, st.Scale*st.Glow, tree.Gold, 1)

	outer := pr.PixelScale(depth) * st.Scale * 0.5
	vs := make([]ebiten.Vertex, 0, 2*starPoints+1)
	vs = append(vs, starVertex(cx, cy))
	for i := 0; i < 2*starPoints; i++ {
		r := outer
		if i%2 == 1 {
			r *= starInner
		}
		a := float64(st.Spin) + float64(i)*math.Pi/starPoints - math.Pi/2
		vs = append(vs, starVertex(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a))))
	}
	is := make([]uint16, 0, 6*starPoints)
	for i := 1; i <= 2*starPoints; i++ {
		next := i%(2*starPoints) + 1
		is = append(is, 0, uint16(i), uint16(next))
	}
	screen.DrawTriangles(vs, is, g.sprites.white, &ebiten.DrawTrianglesOptions{})
}

func starVertex(x, y float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: x, DstY: y, SrcX: 1, SrcY: 1,
		ColorR: tree.Gold.R, ColorG: tree.Gold.G, ColorB: tree.Gold.B, ColorA: 1,
	}
}

// drawBillboard projects the four corners of an oriented photo quad, draws
// a white frame and the photo inside it.
func (g *Game) drawBillboard(screen *ebiten.Image, pr scene.Projector, b scene.Billboard) {
	tex := g.texture(b.Photo)
	if tex == nil {
		return
	}
	tw, th := tex.Bounds().Dx(), tex.Bounds().Dy()
	if tw == 0 || th == 0 {
		return
	}
	hw := float32(photoWorldSize) * b.Scale / 2
	hh := hw * float32(th) / float32(tw)

	frame, ok := quad(pr, b, hw+photoBorder, hh+photoBorder)
	if !ok {
		return
	}
	photo, ok := quad(pr, b, hw, hh)
	if !ok {
		return
	}

	is := []uint16{0, 1, 2, 0, 2, 3}
	fv := make([]ebiten.Vertex, 4)
	for i, p := range frame {
		fv[i] = ebiten.Vertex{DstX: p[0], DstY: p[1], SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	}
	screen.DrawTriangles(fv, is, g.sprites.white, &ebiten.DrawTrianglesOptions{})

	src := [4][2]float32{{0, 0}, {float32(tw), 0}, {float32(tw), float32(th)}, {0, float32(th)}}
	pv := make([]ebiten.Vertex, 4)
	for i, p := range photo {
		pv[i] = ebiten.Vertex{DstX: p[0], DstY: p[1], SrcX: src[i][0], SrcY: src[i][1], ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	}
	screen.DrawTriangles(pv, is, tex, &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear})
}

// quad returns the screen corners of a half-extent rectangle around the
// billboard, in top-left, top-right, bottom-right, bottom-left order.
func quad(pr scene.Projector, b scene.Billboard, hw, hh float32) ([4][2]float32, bool) {
	local := [4]mgl32.Vec3{{-hw, hh, 0}, {hw, hh, 0}, {hw, -hh, 0}, {-hw, -hh, 0}}
	var out [4][2]float32
	for i, l := range local {
		x, y, _, ok := pr.Project(b.Position.Add(b.Orientation.Rotate(l)))
		if !ok {
			return out, false
		}
		out[i] = [2]float32{x, y}
	}
	return out, true
}

func (g *Game) drawOverlay(screen *ebiten.Image, ov scene.Overlay) {
	if ov.Photo == nil {
		return
	}
	tex := g.texture(ov.Photo)
	if tex == nil {
		return
	}
	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	vector.DrawFilledRect(screen, 0, 0, float32(sw), float32(sh), color.RGBA{A: 140}, false)

	tw, th := float64(tex.Bounds().Dx()), float64(tex.Bounds().Dy())
	fit := math.Min(sw*overlayFit/tw, sh*overlayFit/th) * float64(ov.Scale)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-tw/2, -th/2)
	op.GeoM.Scale(fit, fit)
	op.GeoM.Translate(sw/2, sh/2)
	screen.DrawImage(tex, op)
}

func (g *Game) drawHUD(screen *ebiten.Image, fr *scene.Frame) {
	s := g.box.Latest()
	pinch := "IDLE"
	if s.IsPinching {
		pinch = "ACTIVE"
	}
	cfg := fr.Context.Config

	lines := []string{
		fmt.Sprintf("Left hand open: %3.0f%%", s.Openness*100),
		fmt.Sprintf("Pinch: %s", pinch),
		fmt.Sprintf("Beat: %.2f  Explosion: %.2f", fr.Context.RawBeat, fr.Context.Explosion),
		fmt.Sprintf("Height %.1f  Size %.2f  Rotation %.2f  Sensitivity %.1f", cfg.Height, cfg.ParticleSize, cfg.RotationSpeed, cfg.Sensitivity),
		fmt.Sprintf("Photos: %d  Volume: %.0f%%", g.photos.Len(), g.volume*100),
		fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS()),
	}
	y := buttonY + buttonHeight + 12
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, buttonX, y)
		y += 16
	}

	status := "No music - M to open a track"
	if g.track != "" {
		state := "Paused"
		if g.audio.Playing() {
			state = "Playing"
		}
		status = fmt.Sprintf("%s %s", state, formatDuration(g.played))
	}
	if g.lastErr != nil && time.Now().Before(g.errUntil) {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, buttonX, config.WindowHeight-40)
	ebitenutil.DebugPrintAt(screen,
		"Up/Down height  [ ] size  Left/Right rotation  -/= sensitivity  9/0 volume  Space play/pause  P photos  F fullscreen  Q quit",
		buttonX, config.WindowHeight-24)
}
