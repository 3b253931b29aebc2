package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/rimg-cli/internal/decoder"
	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"github.com/AnyUserName/rimg-cli/internal/pngopt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeBuffer builds a busy RGBA pattern so lossy quality visibly matters.
func makeBuffer(w, h int, alpha bool) *pixel.Buffer {
	buf := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if alpha {
				a = uint8((x + y) * 255 / (w + h))
			}
			buf.Pixels[y*w+x] = pixel.RGBA8{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: a,
			}
		}
	}
	return buf
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestEncodeJPEG_QualityChangesSize(t *testing.T) {
	buf := makeBuffer(64, 48, false)

	low, err := EncodeBytes(buf, "jpg", 0.0)
	require.NoError(t, err)
	high, err := EncodeBytes(buf, "jpeg", 1.0)
	require.NoError(t, err)

	assert.NotEqual(t, len(low), len(high))
	assert.Greater(t, len(high), len(low))

	img, err := jpeg.Decode(bytes.NewReader(high))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
}

func TestNativeQuality(t *testing.T) {
	assert.Equal(t, 0, NativeQuality(0))
	assert.Equal(t, 75, NativeQuality(0.75))
	assert.Equal(t, 100, NativeQuality(1))
	assert.Equal(t, 57, NativeQuality(0.57))
}

func TestEncodeJPEG_IgnoresAlpha(t *testing.T) {
	buf := pixel.New(8, 8)
	for i := range buf.Pixels {
		buf.Pixels[i] = pixel.RGBA8{R: 250, G: 250, B: 250, A: 0}
	}
	data, err := EncodeBytes(buf, "jpg", 0.9)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Greater(t, g>>8, uint32(200))
	assert.Greater(t, b>>8, uint32(200))
}

func TestEncodePNG_OptimizedNotLarger(t *testing.T) {
	for _, alpha := range []bool{false, true} {
		buf := makeBuffer(96, 64, alpha)

		var baseline bytes.Buffer
		require.NoError(t, pngEncode(&baseline, buf.NRGBA()))

		data, err := EncodeBytes(buf, "png", 0.75)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(data), baseline.Len())

		got, err := decoder.DecodeBytes(data, decoder.PNG)
		require.NoError(t, err)
		assert.Equal(t, buf.Pixels, got.Pixels)
	}
}

func TestEncodePNG_OptimizerFallback(t *testing.T) {
	orig := pngOptimize
	t.Cleanup(func() { pngOptimize = orig })

	buf := makeBuffer(16, 16, true)
	var baseline bytes.Buffer
	require.NoError(t, pngEncode(&baseline, buf.NRGBA()))

	pngOptimize = func([]byte, pngopt.Preset) ([]byte, error) {
		return nil, errors.New("optimizer exploded")
	}
	data, err := EncodeBytes(buf, "png", 0.5)
	require.NoError(t, err)
	assert.Equal(t, baseline.Bytes(), data)

	pngOptimize = func([]byte, pngopt.Preset) ([]byte, error) { panic("optimizer fault") }
	data, err = EncodeBytes(buf, "png", 0.5)
	require.NoError(t, err)
	assert.Equal(t, baseline.Bytes(), data)

	// A result bigger than the baseline is discarded too.
	pngOptimize = func(in []byte, _ pngopt.Preset) ([]byte, error) {
		return append(append([]byte(nil), in...), 0), nil
	}
	data, err = EncodeBytes(buf, "png", 0.5)
	require.NoError(t, err)
	assert.Equal(t, baseline.Bytes(), data)
}

func TestEncode_CodecFault(t *testing.T) {
	orig := jpegEncode
	t.Cleanup(func() { jpegEncode = orig })
	jpegEncode = func(io.Writer, image.Image, *jpeg.Options) error { panic("longjmp") }

	dir := t.TempDir()
	err := Encode(filepath.Join(dir, "out.jpg"), makeBuffer(8, 8, false), "jpg", 0.8)
	require.Error(t, err)
	assert.Equal(t, imgerr.EncodeEncoding, imgerr.EncodeKindOf(err))
	assert.ErrorIs(t, err, imgerr.ErrCodecFault)
	assert.Empty(t, listDir(t, dir))
}

func TestEncode_Validation(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	buf := makeBuffer(8, 8, false)

	err := Encode(out, buf, "bmp", 0.5)
	assert.Equal(t, imgerr.EncodeFormat, imgerr.EncodeKindOf(err))
	assert.ErrorIs(t, err, imgerr.ErrUnsupportedFormat)

	err = Encode(out, buf, "PNG", 0.5)
	assert.Equal(t, imgerr.EncodeFormat, imgerr.EncodeKindOf(err))

	err = Encode(out, buf, "jpg", 1.5)
	assert.ErrorIs(t, err, imgerr.QualityOutOfBounds)

	err = Encode(out, buf, "png", -0.1)
	assert.ErrorIs(t, err, imgerr.QualityOutOfBounds)

	err = Encode(out, &pixel.Buffer{}, "png", 0.5)
	assert.ErrorIs(t, err, imgerr.InputIsEmpty)

	err = Encode(out, nil, "png", 0.5)
	assert.ErrorIs(t, err, imgerr.InputIsEmpty)

	err = Encode(out, &pixel.Buffer{Pixels: buf.Pixels, Width: 0, Height: 8}, "png", 0.5)
	assert.ErrorIs(t, err, imgerr.WidthIsZero)

	mismatch := &pixel.Buffer{Pixels: buf.Pixels[:10], Width: 8, Height: 8}
	err = Encode(out, mismatch, "png", 0.5)
	assert.Equal(t, imgerr.EncodeEncoding, imgerr.EncodeKindOf(err))

	assert.Empty(t, listDir(t, dir))
}

func TestEncode_WritesWithRewrittenExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("stale"), 0o644))

	buf := makeBuffer(20, 10, true)
	require.NoError(t, Encode(filepath.Join(dir, "photo.jpg"), buf, "png", 0.5))

	assert.Equal(t, []string{"photo.png"}, listDir(t, dir))
	got, err := decoder.Decode(filepath.Join(dir, "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, buf.Pixels, got.Pixels)

	reg := NewRegistry(Config{OptimizePreset: pngopt.DefaultPreset})
	written, err := reg.Encode(filepath.Join(dir, "noext"), buf, "jpeg", 0.5)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "noext.jpeg"), written)
}

func TestEncode_UnwritablePath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "out.png")
	err := Encode(missing, makeBuffer(4, 4, false), "png", 0.5)
	assert.Equal(t, imgerr.EncodeIO, imgerr.EncodeKindOf(err))
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "a/b.png", WithExt("a/b.jpg", "png"))
	assert.Equal(t, "a/b.jpeg", WithExt("a/b", "jpeg"))
	assert.Equal(t, "a.b/c.png", WithExt("a.b/c.tar", "png"))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(Config{})
	assert.Equal(t, []string{"jpeg", "jpg", "png"}, reg.Tokens())
	assert.Equal(t, "jpeg", reg.Get("jpg").Format())
	assert.Same(t, reg.Get("jpg"), reg.Get("jpeg"))
	assert.Nil(t, reg.Get("webp"))
	assert.Equal(t, "encoders: jpeg, jpg, png", reg.String())

	noopt := NewRegistry(Config{NoOptimize: true})
	buf := makeBuffer(16, 16, false)
	data, err := noopt.EncodeBytes(buf, "png", 0)
	require.NoError(t, err)
	var baseline bytes.Buffer
	require.NoError(t, pngEncode(&baseline, buf.NRGBA()))
	assert.Equal(t, baseline.Bytes(), data)
}

// TestJPEGToPNGRoundTrip decodes a 64x48 JPEG, writes it as PNG and checks
// the PNG decodes to exactly the same pixels.
func TestJPEGToPNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var jb bytes.Buffer
	require.NoError(t, jpeg.Encode(&jb, src, &jpeg.Options{Quality: 85}))
	in := filepath.Join(dir, "test1.jpg")
	require.NoError(t, os.WriteFile(in, jb.Bytes(), 0o644))

	first, err := decoder.Decode(in)
	require.NoError(t, err)
	require.Equal(t, 3072, first.Len())

	require.NoError(t, Encode(filepath.Join(dir, "out.png"), first, "png", 0.75))

	second, err := decoder.Decode(filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Height, second.Height)
	assert.Equal(t, first.Pixels, second.Pixels)
}

// TestPNGLayoutRoundTrip checks decode -> encode png -> decode is stable for
// every supported source layout.
func TestPNGLayoutRoundTrip(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 9, 7))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 3)
	}
	opaque := image.NewNRGBA(image.Rect(0, 0, 9, 7))
	translucent := image.NewNRGBA(image.Rect(0, 0, 9, 7))
	grayAlpha := image.NewNRGBA(image.Rect(0, 0, 9, 7))
	for i := 0; i < 63; i++ {
		v := uint8(i * 4)
		copy(opaque.Pix[i*4:], []byte{v, 255 - v, v / 2, 255})
		copy(translucent.Pix[i*4:], []byte{v, 255 - v, v / 2, uint8(i)})
		copy(grayAlpha.Pix[i*4:], []byte{v, v, v, uint8(200 - i)})
	}

	for name, img := range map[string]image.Image{
		"gray":       gray,
		"rgb":        opaque,
		"rgba":       translucent,
		"gray_alpha": grayAlpha,
	} {
		t.Run(name, func(t *testing.T) {
			var b bytes.Buffer
			require.NoError(t, png.Encode(&b, img))
			first, err := decoder.DecodeBytes(b.Bytes(), decoder.PNG)
			require.NoError(t, err)

			data, err := EncodeBytes(first, "png", 1)
			require.NoError(t, err)
			second, err := decoder.DecodeBytes(data, decoder.PNG)
			require.NoError(t, err)
			assert.Equal(t, first.Pixels, second.Pixels)
		})
	}
}
