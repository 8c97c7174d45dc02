package web

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderOnce sync.Once
	placeholderJPEG []byte
)

// placeholderFrame renders the "NO SIGNAL" image served while the
// camera has not delivered a frame yet. Rendered once, then cached.
func placeholderFrame() []byte {
	placeholderOnce.Do(func() {
		data, err := renderPlaceholder(640, 360, "NO SIGNAL")
		if err != nil {
			log.Println("[WEB] placeholder render:", err)
			return
		}
		placeholderJPEG = data
	})
	return placeholderJPEG
}

func renderPlaceholder(w, h int, label string) ([]byte, error) {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{color.RGBA{24, 24, 24, 255}}, image.Point{}, draw.Src)

	face, err := loadFont(28)
	if err != nil {
		return nil, err
	}
	drawer := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{200, 200, 200, 255}),
		Face: face,
	}

	textWidth := drawer.MeasureString(label).Round()
	drawer.Dot = fixed.Point26_6{
		X: fixed.I((w - textWidth) / 2),
		Y: fixed.I(h/2 + face.Metrics().Ascent.Round()/2),
	}
	drawer.DrawString(label)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, rgba, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func loadFont(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
