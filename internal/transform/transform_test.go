package transform

import (
	"testing"

	"github.com/AnyUserName/rimg-cli/internal/config"
	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *pixel.Buffer {
	buf := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Pixels[y*w+x] = pixel.RGBA8{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 4),
				A: 255,
			}
		}
	}
	return buf
}

func distinct(buf *pixel.Buffer) int {
	seen := make(map[pixel.RGBA8]struct{})
	for _, p := range buf.Pixels {
		seen[p] = struct{}{}
	}
	return len(seen)
}

func TestResize(t *testing.T) {
	src := gradient(64, 48)

	out, err := Resize(src, 32, 24)
	require.NoError(t, err)
	assert.Equal(t, 32, out.Width)
	assert.Equal(t, 24, out.Height)
	assert.NoError(t, out.Check())

	out, err = Resize(src, 16, 0)
	require.NoError(t, err)
	assert.Equal(t, 16, out.Width)
	assert.Equal(t, 12, out.Height)

	out, err = Resize(src, 0, 0)
	require.NoError(t, err)
	assert.Same(t, src, out)
}

func TestResize_Errors(t *testing.T) {
	_, err := Resize(gradient(4, 4), -1, 2)
	assert.Equal(t, imgerr.EncodeResize, imgerr.EncodeKindOf(err))

	_, err = Resize(&pixel.Buffer{}, 2, 2)
	assert.Equal(t, imgerr.EncodeResize, imgerr.EncodeKindOf(err))

	bad := &pixel.Buffer{Pixels: make([]pixel.RGBA8, 3), Width: 2, Height: 2}
	_, err = Resize(bad, 1, 1)
	assert.Equal(t, imgerr.EncodeResize, imgerr.EncodeKindOf(err))
}

func TestQuantize(t *testing.T) {
	src := gradient(40, 30)
	require.Greater(t, distinct(src), 16)

	out, err := Quantize(src, 16)
	require.NoError(t, err)
	assert.Equal(t, src.Width, out.Width)
	assert.Equal(t, src.Height, out.Height)
	assert.LessOrEqual(t, distinct(out), 16)
	assert.True(t, out.Opaque())
}

func TestQuantize_KeepsAlpha(t *testing.T) {
	src := pixel.New(4, 1)
	src.Pixels[0] = pixel.RGBA8{R: 255, A: 255}
	src.Pixels[1] = pixel.RGBA8{R: 255, A: 255}
	src.Pixels[2] = pixel.RGBA8{B: 255, A: 0}
	src.Pixels[3] = pixel.RGBA8{B: 255, A: 0}

	out, err := Quantize(src, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.Pixels[0].A)
	assert.Equal(t, uint8(0), out.Pixels[3].A)
}

func TestQuantize_Errors(t *testing.T) {
	for _, n := range []int{0, 1, 257} {
		_, err := Quantize(gradient(4, 4), n)
		assert.Equal(t, imgerr.EncodeQuantization, imgerr.EncodeKindOf(err), "colors=%d", n)
	}
	_, err := Quantize(nil, 8)
	assert.Equal(t, imgerr.EncodeQuantization, imgerr.EncodeKindOf(err))
}

func TestMedianCut(t *testing.T) {
	px := []pixel.RGBA8{{R: 1, A: 255}, {R: 1, A: 255}, {R: 200, A: 255}}
	pal := MedianCut(px, 8)
	assert.Len(t, pal, 2)

	assert.Nil(t, MedianCut(nil, 8))
	assert.Len(t, MedianCut(gradient(16, 16).Pixels, 5), 5)
}

func TestBlur(t *testing.T) {
	src := pixel.New(9, 9)
	for i := range src.Pixels {
		src.Pixels[i] = pixel.RGBA8{A: 255}
	}
	src.Pixels[4*9+4] = pixel.RGBA8{R: 255, G: 255, B: 255, A: 255}

	out, err := Blur(src, 1.5)
	require.NoError(t, err)
	assert.NoError(t, out.Check())
	centre := out.At(4, 4)
	assert.Less(t, centre.R, uint8(255))
	assert.Greater(t, out.At(5, 4).R, uint8(0))

	same, err := Blur(src, 0)
	require.NoError(t, err)
	assert.Same(t, src, same)

	_, err = Blur(src, -1)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	src := gradient(64, 48)

	out, err := Apply(src, config.Options{})
	require.NoError(t, err)
	assert.Same(t, src, out)

	out, err = Apply(src, config.Options{Width: 32, Colors: 8, Blur: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 32, out.Width)
	assert.Equal(t, 24, out.Height)
	assert.LessOrEqual(t, distinct(out), 8)

	_, err = Apply(src, config.Options{Colors: 300})
	assert.Equal(t, imgerr.EncodeQuantization, imgerr.EncodeKindOf(err))
}
