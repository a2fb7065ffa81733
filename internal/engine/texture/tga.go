package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

var ErrTruncatedTGA = errors.New("truncated TGA data")

// DecodeTGA decodes uncompressed and RLE true-color TGA images, the two
// variants that image editors export for environment maps.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, ErrTruncatedTGA
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, ErrTruncatedTGA
	}

	r := tgaReader{
		data: data[18+idLength:],
		bpp:  bpp / 8,
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	r.put = func(idx int, c color.RGBA) {
		x, y := idx%width, idx/width
		if !topToBottom {
			y = height - 1 - y
		}
		r.img.SetRGBA(x, y, c)
	}

	total := width * height
	if imageType == TGATypeUncompressed {
		if len(r.data) < total*r.bpp {
			return nil, ErrTruncatedTGA
		}
		for i := 0; i < total; i++ {
			c, _ := r.pixel()
			r.put(i, c)
		}
		return r.img, nil
	}

	for idx := 0; idx < total; {
		if r.pos >= len(r.data) {
			return nil, ErrTruncatedTGA
		}
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				return nil, ErrTruncatedTGA
			}
			for i := 0; i < count && idx < total; i++ {
				r.put(idx, c)
				idx++
			}
			continue
		}
		for i := 0; i < count && idx < total; i++ {
			c, ok := r.pixel()
			if !ok {
				return nil, ErrTruncatedTGA
			}
			r.put(idx, c)
			idx++
		}
	}
	return r.img, nil
}

type tgaReader struct {
	data []byte
	pos  int
	bpp  int
	img  *image.RGBA
	put  func(idx int, c color.RGBA)
}

// pixel reads one BGR(A) pixel.
func (r *tgaReader) pixel() (color.RGBA, bool) {
	if r.pos+r.bpp > len(r.data) {
		return color.RGBA{}, false
	}
	p := r.data[r.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	r.pos += r.bpp
	return c, true
}
