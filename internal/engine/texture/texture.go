// Package texture decodes and prepares the environment map that the ring
// material reflects.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// Decode decodes PNG, JPEG, BMP, or TGA data. ext selects TGA, which has
// no magic number; other formats are sniffed.
func Decode(data []byte, ext string) (image.Image, error) {
	if strings.EqualFold(ext, ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// DecodeFile decodes data using the extension of path.
func DecodeFile(data []byte, path string) (image.Image, error) {
	return Decode(data, filepath.Ext(path))
}

// Fit converts img to RGBA, scaling it down with Catmull-Rom so neither
// side exceeds maxSize. maxSize <= 0 disables scaling.
func Fit(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// SilverEnvironment generates an equirectangular studio backdrop: a bright
// sky fading through a horizon band into a darker floor. It stands in for
// a photographed environment when none is configured.
func SilverEnvironment(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		v := float64(y) / float64(max(1, height-1))
		var l float64
		switch {
		case v < 0.45:
			l = 235 - 60*v
		case v < 0.55:
			l = 250
		default:
			l = 120 - 80*(v-0.55)
		}
		c := color.RGBA{R: uint8(l), G: uint8(l), B: uint8(min(255, l+6)), A: 255}
		for x := 0; x < width; x++ {
			// Soft vertical light strips give the metal something to catch.
			if x%(max(1, width/4)) < max(1, width/64) && v < 0.5 {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
