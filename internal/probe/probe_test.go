package probe

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 7))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return img
}

func TestBytes(t *testing.T) {
	var pngBuf, jpgBuf, bmpBuf, palBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, sample()))
	require.NoError(t, jpeg.Encode(&jpgBuf, sample(), nil))
	require.NoError(t, bmp.Encode(&bmpBuf, sample()))
	pal := image.NewPaletted(image.Rect(0, 0, 3, 3), color.Palette{color.Black, color.White})
	require.NoError(t, png.Encode(&palBuf, pal))

	cases := []struct {
		name        string
		data        []byte
		file        string
		format      string
		layout      string
		convertible bool
	}{
		{"png", pngBuf.Bytes(), "a.png", "png", "rgba", true},
		{"jpeg", jpgBuf.Bytes(), "a.jpeg", "jpeg", "", true},
		{"bmp", bmpBuf.Bytes(), "a.bmp", "bmp", "", false},
		{"indexed", palBuf.Bytes(), "a.png", "png", "indexed", false},
		{"mismatch", jpgBuf.Bytes(), "a.png", "jpeg", "", false},
		{"no_ext", pngBuf.Bytes(), "a", "png", "rgba", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Bytes(tc.data, tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.format, info.Format)
			assert.Equal(t, tc.layout, info.Layout)
			assert.Equal(t, tc.convertible, info.Convertible)
			if !tc.convertible {
				assert.NotEmpty(t, info.Reason)
			}
			if tc.name != "indexed" {
				assert.Equal(t, 12, info.Width)
				assert.Equal(t, 7, info.Height)
			}
		})
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	_, err := File(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	path := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))
	_, err = File(path)
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample()))
	path = filepath.Join(dir, "ok.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	info, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), info.Size)
	assert.Equal(t, 8, info.BitDepth)
}
