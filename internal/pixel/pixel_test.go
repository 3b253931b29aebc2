package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferCheck(t *testing.T) {
	buf := New(3, 2)
	assert.Equal(t, 6, buf.Len())
	assert.NoError(t, buf.Check())

	buf.Pixels = buf.Pixels[:5]
	assert.Error(t, buf.Check())
}

func TestBufferOpaque(t *testing.T) {
	buf := New(2, 2)
	for i := range buf.Pixels {
		buf.Pixels[i].A = 255
	}
	assert.True(t, buf.Opaque())

	buf.Pixels[3].A = 254
	assert.False(t, buf.Opaque())
}

func TestNRGBARoundTrip(t *testing.T) {
	buf := New(4, 3)
	for i := range buf.Pixels {
		buf.Pixels[i] = RGBA8{R: uint8(i), G: uint8(i * 2), B: uint8(i * 3), A: uint8(i * 20)}
	}
	img := buf.NRGBA()
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, buf.Bytes(), img.Pix)

	back := FromImage(img)
	assert.Equal(t, buf, back)
	assert.Equal(t, buf.At(2, 1), back.Pixels[1*4+2])
}

func TestOpaqueRGBA_KeepsColour(t *testing.T) {
	buf := New(1, 1)
	buf.Pixels[0] = RGBA8{R: 10, G: 20, B: 30, A: 0}
	img := buf.OpaqueRGBA()
	assert.Equal(t, []uint8{10, 20, 30, 255}, img.Pix)
}

func TestFromImage_Types(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix = []uint8{7, 200}

	gray16 := image.NewGray16(image.Rect(0, 0, 1, 1))
	gray16.SetGray16(0, 0, color.Gray16{Y: 0xabcd})

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Pix = []uint8{1, 2, 3, 255, 64, 32, 0, 128}

	rgba64 := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	rgba64.SetRGBA64(0, 0, color.RGBA64{R: 0x1111, G: 0x2222, B: 0x3333, A: 0xffff})

	ycbcr := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444)
	for i := range ycbcr.Y {
		ycbcr.Y[i] = 128
		ycbcr.Cb[i] = 128
		ycbcr.Cr[i] = 128
	}

	cases := []struct {
		name string
		img  image.Image
		want []RGBA8
	}{
		{"gray", gray, []RGBA8{{7, 7, 7, 255}, {200, 200, 200, 255}}},
		{"gray16", gray16, []RGBA8{{0xab, 0xab, 0xab, 255}}},
		{"rgba", rgba, []RGBA8{{1, 2, 3, 255}, {127, 63, 0, 128}}},
		{"rgba64", rgba64, []RGBA8{{0x11, 0x22, 0x33, 255}}},
		{"ycbcr", ycbcr, []RGBA8{{128, 128, 128, 255}, {128, 128, 128, 255}, {128, 128, 128, 255}, {128, 128, 128, 255}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := FromImage(tc.img)
			require.NoError(t, buf.Check())
			assert.Equal(t, tc.want, buf.Pixels)
		})
	}
}

func TestFromImage_SubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		src.Pix[i*4] = uint8(i)
		src.Pix[i*4+3] = 255
	}
	sub := src.SubImage(image.Rect(1, 1, 3, 3))

	buf := FromImage(sub)
	require.Equal(t, 2, buf.Width)
	require.Equal(t, 2, buf.Height)
	assert.Equal(t, []uint8{5, 6, 9, 10}, []uint8{
		buf.Pixels[0].R, buf.Pixels[1].R, buf.Pixels[2].R, buf.Pixels[3].R,
	})
}
