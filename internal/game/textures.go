package game

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/iburimskiy/gesture-tree/internal/gallery"
)

// ImagePatterns are the photo types the loader can decode.
var ImagePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.webp"}

func decodePhoto(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode photo %s: %w", path, err)
	}
	return img, nil
}

// loadTexture resolves a gallery photo into a GPU image. It runs at most
// once per photo through the texture cache.
func loadTexture(p *gallery.Photo) (*ebiten.Image, error) {
	img, err := decodePhoto(p.Source)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

// texture returns the photo's texture, loading it on first use. Photos
// that fail to load are remembered and skipped afterwards.
func (g *Game) texture(p *gallery.Photo) *ebiten.Image {
	if p == nil || g.broken[p.ID] {
		return nil
	}
	img, err := g.textures.Get(p)
	if err != nil {
		g.broken[p.ID] = true
		g.fail("load photo", err)
		return nil
	}
	return img
}
