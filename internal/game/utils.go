package game

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"
)

// auroraStops is the background gradient, top to bottom.
var auroraStops = []color.RGBA{
	{R: 0x0f, G: 0x20, B: 0x27, A: 0xff},
	{R: 0x20, G: 0x3a, B: 0x43, A: 0xff},
	{R: 0x2c, G: 0x53, B: 0x64, A: 0xff},
}

// gradientAt samples evenly spaced color stops at t in [0,1].
func gradientAt(stops []color.RGBA, t float64) color.RGBA {
	switch len(stops) {
	case 0:
		return color.RGBA{}
	case 1:
		return stops[0]
	}
	t = clamp01(t) * float64(len(stops)-1)
	i := int(t)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := t - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// glowSprite renders a soft radial dot: opaque white core fading to
// transparent at the edge. Premultiplied, so it can be tinted with
// ColorScale.
func glowSprite(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := clamp01(1 - d)
			a *= a
			v := uint8(a * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
