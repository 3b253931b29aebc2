package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"
	"math"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
)

// jpegEncode is swapped out in tests to simulate a faulting codec.
var jpegEncode func(io.Writer, image.Image, *jpeg.Options) error = jpeg.Encode

// JPEGEncoder encodes RGBA buffers to baseline YCbCr JPEG. Alpha is dropped.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string   { return "jpeg" }
func (e *JPEGEncoder) Tokens() []string { return []string{"jpg", "jpeg"} }
func (e *JPEGEncoder) Lossy() bool      { return true }

// NativeQuality scales a [0, 1] quality to the codec's [0, 100] range.
func NativeQuality(q float64) int {
	return int(math.Round(q * 100))
}

func (e *JPEGEncoder) Encode(buf *pixel.Buffer, quality float64) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(buf.Len() / 4)

	err := imgerr.Guard("jpeg.encode", func() error {
		// The stdlib encoder converts RGBA to YCbCr with 4:2:0 subsampling.
		return jpegEncode(&out, buf.OpaqueRGBA(), &jpeg.Options{Quality: NativeQuality(quality)})
	})
	if err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "jpeg.encode", err)
	}
	return out.Bytes(), nil
}
