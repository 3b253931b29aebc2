package decoder

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"golang.org/x/image/draw"
)

// jpegDecode is swapped out in tests to simulate a faulting codec.
var jpegDecode = jpeg.Decode

// JPEGDecoder decodes baseline and progressive JPEG into RGBA.
type JPEGDecoder struct{}

func (d *JPEGDecoder) Format() Format { return JPEG }

// Decode converts YCbCr, gray and CMYK JPEGs to opaque RGBA. Any codec
// failure, including a truncated stream or a panic, is a Parsing error.
func (d *JPEGDecoder) Decode(data []byte) (*pixel.Buffer, error) {
	var buf *pixel.Buffer
	err := imgerr.Guard("jpeg.decode", func() error {
		img, err := jpegDecode(bytes.NewReader(data))
		if err != nil {
			return err
		}
		b := img.Bounds()
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		buf = pixel.FromImage(rgba)
		return nil
	})
	if err != nil {
		return nil, imgerr.Decoding(imgerr.DecodeParsing, "jpeg.decode", err)
	}
	return buf, nil
}
