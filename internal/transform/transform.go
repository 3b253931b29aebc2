// Package transform holds the optional pixel operations applied between
// decode and encode: resize, gaussian blur and palette quantization. Every
// operation takes and returns a canonical buffer.
package transform

import (
	"log/slog"

	"github.com/AnyUserName/rimg-cli/internal/config"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
)

// Apply runs the transforms enabled in o, in order resize, blur, quantize.
// With nothing enabled buf is returned as-is.
func Apply(buf *pixel.Buffer, o config.Options) (*pixel.Buffer, error) {
	var err error
	if o.Width > 0 || o.Height > 0 {
		if buf, err = Resize(buf, o.Width, o.Height); err != nil {
			return nil, err
		}
	}
	if o.Blur > 0 {
		if buf, err = Blur(buf, o.Blur); err != nil {
			return nil, err
		}
	}
	if o.Colors > 0 {
		if buf, err = Quantize(buf, o.Colors); err != nil {
			return nil, err
		}
	}
	slog.Debug("transforms applied",
		slog.Int("width", buf.Width),
		slog.Int("height", buf.Height))
	return buf, nil
}
