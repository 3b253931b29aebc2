package encoder

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"github.com/AnyUserName/rimg-cli/internal/pngopt"
)

var (
	pngEncode = func(w io.Writer, img image.Image) error {
		enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	}
	pngOptimize = pngopt.Optimize
)

// PNGEncoder writes 8-bit PNG and then runs the lossless optimizer over the
// result. Optimization is best-effort: on failure the baseline is returned.
type PNGEncoder struct {
	Preset   pngopt.Preset
	Optimize bool
}

func (e *PNGEncoder) Format() string   { return "png" }
func (e *PNGEncoder) Tokens() []string { return []string{"png"} }
func (e *PNGEncoder) Lossy() bool      { return false }

func (e *PNGEncoder) Encode(buf *pixel.Buffer, _ float64) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(buf.Len() * 4)

	err := imgerr.Guard("png.encode", func() error {
		return pngEncode(&out, buf.NRGBA())
	})
	if err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "png.encode", err)
	}
	baseline := out.Bytes()
	slog.Debug("encoded png baseline", slog.Int("bytes", len(baseline)))

	if !e.Optimize {
		return baseline, nil
	}

	var optimized []byte
	err = imgerr.Guard("png.optimize", func() error {
		var err error
		optimized, err = pngOptimize(baseline, e.Preset)
		return err
	})
	if err != nil || len(optimized) == 0 || len(optimized) > len(baseline) {
		slog.Debug("png optimization skipped", slog.Any("error", err))
		return baseline, nil
	}
	slog.Debug("optimized png",
		slog.Int("baseline", len(baseline)),
		slog.Int("optimized", len(optimized)))
	return optimized, nil
}
