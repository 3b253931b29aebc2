// Package decoder turns JPEG and PNG files into a canonical pixel.Buffer.
// The format is chosen from the file extension; each format has its own
// adapter that normalises the codec output and maps codec failures onto
// imgerr.DecodingError kinds.
package decoder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
)

// Format is the closed set of decodable inputs.
type Format int

const (
	Unsupported Format = iota
	JPEG
	PNG
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	}
	return "unsupported"
}

// Decoder converts one encoded image into a buffer.
type Decoder interface {
	// Format returns the format this decoder handles.
	Format() Format
	// Decode parses a complete in-memory file.
	Decode(data []byte) (*pixel.Buffer, error)
}

var decoders = map[Format]Decoder{
	JPEG: &JPEGDecoder{},
	PNG:  &PNGDecoder{},
}

// FormatFromExt maps an extension token (without dot) to a Format. Matching
// is exact and case-sensitive.
func FormatFromExt(ext string) Format {
	switch ext {
	case "jpg", "jpeg":
		return JPEG
	case "png":
		return PNG
	}
	return Unsupported
}

// FormatOf derives the format of path from its extension.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return Unsupported, imgerr.Decoding(imgerr.DecodeFormat, "dispatch",
			fmt.Errorf("%s: %w", path, imgerr.ErrNoExtension))
	}
	f := FormatFromExt(ext)
	if f == Unsupported {
		return Unsupported, imgerr.Decoding(imgerr.DecodeFormat, "dispatch",
			fmt.Errorf("%q: %w", ext, imgerr.ErrUnsupportedFormat))
	}
	return f, nil
}

// Decode reads the file at path and decodes it with the adapter selected by
// the path's extension. Errors are always *imgerr.DecodingError.
func Decode(path string) (*pixel.Buffer, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	slog.Info("started decoding", slog.String("path", path), slog.String("format", f.String()))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, imgerr.Decoding(imgerr.DecodeIO, "read", err)
	}

	buf, err := decoders[f].Decode(data)
	if err != nil {
		return nil, err
	}

	slog.Info("decoded",
		slog.String("path", path),
		slog.Int("pixels", buf.Len()),
		slog.Int("width", buf.Width),
		slog.Int("height", buf.Height))
	return buf, nil
}

// DecodeBytes decodes an in-memory file of a known format.
func DecodeBytes(data []byte, f Format) (*pixel.Buffer, error) {
	d, ok := decoders[f]
	if !ok {
		return nil, imgerr.Decoding(imgerr.DecodeFormat, "dispatch",
			fmt.Errorf("%s: %w", f, imgerr.ErrUnsupportedFormat))
	}
	return d.Decode(data)
}
