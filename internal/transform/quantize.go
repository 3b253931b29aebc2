package transform

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"golang.org/x/image/draw"
)

// Quantize reduces buf to at most colors distinct colours using a median-cut
// palette and Floyd-Steinberg error diffusion. The result is still a full
// RGBA8 buffer; only its set of colours shrinks.
func Quantize(buf *pixel.Buffer, colors int) (*pixel.Buffer, error) {
	if colors < 2 || colors > 256 {
		return nil, imgerr.Encoding(imgerr.EncodeQuantization, "quantize",
			fmt.Errorf("colour count must be within 2-256, got %d", colors))
	}
	if buf == nil || buf.Len() == 0 {
		return nil, imgerr.Encoding(imgerr.EncodeQuantization, "quantize", errEmpty)
	}
	if err := buf.Check(); err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeQuantization, "quantize", err)
	}

	var out *pixel.Buffer
	err := imgerr.Guard("quantize", func() error {
		pal := MedianCut(buf.Pixels, colors)
		src := buf.NRGBA()
		dst := image.NewPaletted(src.Bounds(), pal)
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
		out = pixel.FromImage(dst)
		return nil
	})
	if err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeQuantization, "quantize", err)
	}
	return out, nil
}

// box is a set of pixels covering one region of RGBA space.
type box []pixel.RGBA8

// widest returns the channel (0-3) with the largest spread and that spread.
func (b box) widest() (int, int) {
	lo := [4]uint8{255, 255, 255, 255}
	var hi [4]uint8
	for _, p := range b {
		for c, v := range [4]uint8{p.R, p.G, p.B, p.A} {
			if v < lo[c] {
				lo[c] = v
			}
			if v > hi[c] {
				hi[c] = v
			}
		}
	}
	ch, spread := 0, -1
	for c := 0; c < 4; c++ {
		if d := int(hi[c]) - int(lo[c]); d > spread {
			ch, spread = c, d
		}
	}
	return ch, spread
}

func (b box) mean() color.NRGBA {
	var sum [4]int
	for _, p := range b {
		sum[0] += int(p.R)
		sum[1] += int(p.G)
		sum[2] += int(p.B)
		sum[3] += int(p.A)
	}
	n := len(b)
	return color.NRGBA{
		R: uint8((sum[0] + n/2) / n),
		G: uint8((sum[1] + n/2) / n),
		B: uint8((sum[2] + n/2) / n),
		A: uint8((sum[3] + n/2) / n),
	}
}

func channel(p pixel.RGBA8, c int) uint8 {
	switch c {
	case 0:
		return p.R
	case 1:
		return p.G
	case 2:
		return p.B
	}
	return p.A
}

// MedianCut builds a palette of at most n colours from pixels by repeatedly
// splitting the box with the widest channel spread at its median.
func MedianCut(pixels []pixel.RGBA8, n int) color.Palette {
	if len(pixels) == 0 || n < 1 {
		return nil
	}
	boxes := []box{append(box(nil), pixels...)}
	for len(boxes) < n {
		idx, ch, spread := -1, 0, 0
		for i, b := range boxes {
			if len(b) < 2 {
				continue
			}
			if c, s := b.widest(); s > spread {
				idx, ch, spread = i, c, s
			}
		}
		if idx < 0 {
			break // every box is a single colour
		}
		b := boxes[idx]
		sort.Slice(b, func(i, j int) bool { return channel(b[i], ch) < channel(b[j], ch) })
		mid := len(b) / 2
		// Keep equal values on one side so both halves stay non-empty and distinct.
		for mid > 0 && channel(b[mid-1], ch) == channel(b[mid], ch) {
			mid--
		}
		if mid == 0 {
			mid = len(b) / 2
			for mid < len(b) && channel(b[mid-1], ch) == channel(b[mid], ch) {
				mid++
			}
		}
		boxes[idx] = b[:mid]
		boxes = append(boxes, b[mid:])
	}

	pal := make(color.Palette, 0, len(boxes))
	for _, b := range boxes {
		pal = append(pal, b.mean())
	}
	return pal
}
