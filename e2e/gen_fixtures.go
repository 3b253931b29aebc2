//go:build ignore

// gen_fixtures creates a small mixed input tree for a build smoke test:
// convertible JPEG and PNG files in every PNG colour layout the converter
// accepts, plus inputs it must reject without stopping the build.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))
	must(os.MkdirAll(filepath.Join(dir, "reject"), 0o755))

	// Photo (JPEG, 64x48): 3072 pixels after decode.
	photo := encodeJPEG(gradient(64, 48))
	write(filepath.Join(dir, "test1.jpg"), photo)

	// One PNG per accepted colour layout.
	write(filepath.Join(dir, "layouts", "gray.png"), encodePNG(gray(40, 30)))
	write(filepath.Join(dir, "layouts", "rgb.png"), encodePNG(gradient(40, 30)))
	write(filepath.Join(dir, "layouts", "rgba.png"), encodePNG(alphaGradient(40, 30)))

	// Inputs that must fail in isolation.
	write(filepath.Join(dir, "reject", "truncated.jpg"), photo[:len(photo)/3])
	write(filepath.Join(dir, "reject", "indexed.png"), encodePNG(paletted(16, 16)))
	write(filepath.Join(dir, "reject", "legacy.bmp"), encodeBMP(gradient(8, 8)))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func gray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func paletted(w, h int) *image.Paletted {
	pal := make(color.Palette, 64)
	for i := range pal {
		pal[i] = color.NRGBA{R: uint8(i * 4), G: 255 - uint8(i*4), B: 90, A: 255}
	}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % len(pal))
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	must(png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	must(jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func encodeBMP(img image.Image) []byte {
	var buf bytes.Buffer
	must(bmp.Encode(&buf, img))
	return buf.Bytes()
}

func write(path string, data []byte) {
	must(os.WriteFile(path, data, 0o644))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
