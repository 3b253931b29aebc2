package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
)

// pngDecode is swapped out in tests to simulate a faulting codec.
var pngDecode = png.Decode

// ColorLayout is the colour type declared in a PNG IHDR chunk.
type ColorLayout int

const (
	LayoutUnknown ColorLayout = iota
	LayoutGray
	LayoutGrayAlpha
	LayoutRGB
	LayoutRGBA
	LayoutIndexed
)

func (l ColorLayout) String() string {
	switch l {
	case LayoutGray:
		return "gray"
	case LayoutGrayAlpha:
		return "gray+alpha"
	case LayoutRGB:
		return "rgb"
	case LayoutRGBA:
		return "rgba"
	case LayoutIndexed:
		return "indexed"
	}
	return "unknown"
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// PNGHeader is the subset of IHDR needed to classify a PNG.
type PNGHeader struct {
	Width     int
	Height    int
	BitDepth  int
	Layout    ColorLayout
	Interlace bool
}

// ReadPNGHeader parses the signature and IHDR chunk of a PNG file.
func ReadPNGHeader(data []byte) (PNGHeader, error) {
	// signature(8) + length(4) + "IHDR"(4) + 13 bytes of IHDR data
	if len(data) < 8+8+13 {
		return PNGHeader{}, io.ErrUnexpectedEOF
	}
	if !bytes.Equal(data[:8], pngSignature) {
		return PNGHeader{}, png.FormatError("not a PNG file")
	}
	if string(data[12:16]) != "IHDR" {
		return PNGHeader{}, png.FormatError("missing IHDR chunk")
	}
	ihdr := data[16:29]
	h := PNGHeader{
		Width:     int(binary.BigEndian.Uint32(ihdr[0:4])),
		Height:    int(binary.BigEndian.Uint32(ihdr[4:8])),
		BitDepth:  int(ihdr[8]),
		Interlace: ihdr[12] == 1,
	}
	switch ihdr[9] {
	case 0:
		h.Layout = LayoutGray
	case 2:
		h.Layout = LayoutRGB
	case 3:
		h.Layout = LayoutIndexed
	case 4:
		h.Layout = LayoutGrayAlpha
	case 6:
		h.Layout = LayoutRGBA
	default:
		return h, png.FormatError(fmt.Sprintf("bad color type %d", ihdr[9]))
	}
	return h, nil
}

// PNGDecoder decodes 8- and 16-bit gray, gray+alpha, RGB and RGBA PNGs.
// Indexed colour is rejected.
type PNGDecoder struct{}

func (d *PNGDecoder) Format() Format { return PNG }

func (d *PNGDecoder) Decode(data []byte) (*pixel.Buffer, error) {
	hdr, err := ReadPNGHeader(data)
	if err != nil {
		return nil, imgerr.Decoding(pngErrorKind(err), "png.decode", err)
	}
	if hdr.Layout == LayoutIndexed {
		return nil, imgerr.Decoding(imgerr.DecodeParsing, "png.decode", imgerr.ErrColorSchemeNotSupported)
	}

	var buf *pixel.Buffer
	err = imgerr.Guard("png.decode", func() error {
		img, err := pngDecode(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if _, ok := img.(*image.Paletted); ok {
			return imgerr.ErrColorSchemeNotSupported
		}
		// Gray becomes (Y,Y,Y,255), gray+alpha arrives as NRGBA with
		// R=G=B=Y, RGB arrives opaque and RGBA passes straight through.
		buf = pixel.FromImage(img)
		// The codec applies a tRNS key to gray and RGB images; those
		// layouts carry no alpha channel, so they stay opaque.
		if hdr.Layout == LayoutGray || hdr.Layout == LayoutRGB {
			for i := range buf.Pixels {
				buf.Pixels[i].A = 0xff
			}
		}
		return nil
	})
	if err != nil {
		return nil, imgerr.Decoding(pngErrorKind(err), "png.decode", err)
	}
	return buf, nil
}

// pngErrorKind separates truncated input, reported as IO, from container
// and validation failures.
func pngErrorKind(err error) imgerr.DecodeKind {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return imgerr.DecodeIO
	}
	return imgerr.DecodeParsing
}
