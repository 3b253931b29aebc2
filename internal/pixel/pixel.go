// Package pixel defines the canonical in-memory image that every decoder
// produces and every encoder consumes.
package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// RGBA8 is one pixel with straight (non-premultiplied) alpha.
type RGBA8 struct {
	R, G, B, A uint8
}

// Buffer is a flat row-major RGBA8 image, top-to-bottom, left-to-right.
// len(Pixels) == Width*Height for every buffer returned by a decoder.
type Buffer struct {
	Pixels []RGBA8
	Width  int
	Height int
}

// New allocates a zeroed buffer of the given size.
func New(width, height int) *Buffer {
	return &Buffer{
		Pixels: make([]RGBA8, width*height),
		Width:  width,
		Height: height,
	}
}

// Len returns the pixel count.
func (b *Buffer) Len() int { return len(b.Pixels) }

// Check reports whether the pixel slice matches the declared geometry.
func (b *Buffer) Check() error {
	if want := b.Width * b.Height; len(b.Pixels) != want {
		return fmt.Errorf("pixel count %d does not match %dx%d", len(b.Pixels), b.Width, b.Height)
	}
	return nil
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) RGBA8 {
	return b.Pixels[y*b.Width+x]
}

// Opaque reports whether every pixel has alpha 255.
func (b *Buffer) Opaque() bool {
	for _, p := range b.Pixels {
		if p.A != 0xff {
			return false
		}
	}
	return true
}

// Bytes flattens the buffer into interleaved RGBA bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.Pixels)*4)
	for i, p := range b.Pixels {
		j := i * 4
		out[j+0] = p.R
		out[j+1] = p.G
		out[j+2] = p.B
		out[j+3] = p.A
	}
	return out
}

// NRGBA copies the buffer into an *image.NRGBA. Alpha is kept as-is.
func (b *Buffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Bytes())
	return img
}

// OpaqueRGBA copies the colour channels into an *image.RGBA with alpha
// forced to 255. Lossy encoders without an alpha channel use this so that
// transparent pixels keep their colour instead of collapsing to black.
func (b *Buffer) OpaqueRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, p := range b.Pixels {
		j := i * 4
		img.Pix[j+0] = p.R
		img.Pix[j+1] = p.G
		img.Pix[j+2] = p.B
		img.Pix[j+3] = 0xff
	}
	return img
}

// FromNRGBA copies an NRGBA image into a new buffer.
func FromNRGBA(img *image.NRGBA) *Buffer {
	r := img.Bounds()
	buf := New(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+r.Dx()*4]
		for x := 0; x < r.Dx(); x++ {
			buf.Pixels[y*buf.Width+x] = RGBA8{row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]}
		}
	}
	return buf
}

// FromImage converts any image into a buffer. Fast paths cover the concrete
// types produced by the stdlib PNG and JPEG decoders; everything else goes
// through color.NRGBAModel.
func FromImage(img image.Image) *Buffer {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	buf := New(w, h)

	switch src := img.(type) {
	case *image.NRGBA:
		if r.Min == (image.Point{}) {
			return FromNRGBA(src)
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := (y+r.Min.Y-src.Rect.Min.Y)*src.Stride + (r.Min.X - src.Rect.Min.X)
			for x := 0; x < w; x++ {
				v := src.Pix[off+x]
				buf.Pixels[y*w+x] = RGBA8{v, v, v, 0xff}
			}
		}
		return buf
	case *image.Gray16:
		for y := 0; y < h; y++ {
			off := (y+r.Min.Y-src.Rect.Min.Y)*src.Stride + (r.Min.X-src.Rect.Min.X)*2
			for x := 0; x < w; x++ {
				v := src.Pix[off+x*2]
				buf.Pixels[y*w+x] = RGBA8{v, v, v, 0xff}
			}
		}
		return buf
	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			off := (y+r.Min.Y-src.Rect.Min.Y)*src.Stride + (r.Min.X-src.Rect.Min.X)*8
			for x := 0; x < w; x++ {
				p := src.Pix[off+x*8:]
				buf.Pixels[y*w+x] = RGBA8{p[0], p[2], p[4], p[6]}
			}
		}
		return buf
	case *image.RGBA64:
		// The PNG decoder only returns RGBA64 for opaque 16-bit RGB.
		for y := 0; y < h; y++ {
			off := (y+r.Min.Y-src.Rect.Min.Y)*src.Stride + (r.Min.X-src.Rect.Min.X)*8
			for x := 0; x < w; x++ {
				p := src.Pix[off+x*8:]
				buf.Pixels[y*w+x] = RGBA8{p[0], p[2], p[4], p[6]}
			}
		}
		return buf
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := (y+r.Min.Y-src.Rect.Min.Y)*src.Stride + (r.Min.X-src.Rect.Min.X)*4
			for x := 0; x < w; x++ {
				p := src.Pix[off+x*4:]
				if p[3] == 0xff {
					buf.Pixels[y*w+x] = RGBA8{p[0], p[1], p[2], 0xff}
					continue
				}
				c := color.NRGBAModel.Convert(color.RGBA{p[0], p[1], p[2], p[3]}).(color.NRGBA)
				buf.Pixels[y*w+x] = RGBA8{c.R, c.G, c.B, c.A}
			}
		}
		return buf
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
			buf.Pixels[y*w+x] = RGBA8{c.R, c.G, c.B, c.A}
		}
	}
	return buf
}
