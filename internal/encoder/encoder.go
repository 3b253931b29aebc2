// Package encoder turns a canonical pixel.Buffer into JPEG or PNG bytes and
// persists them. A Registry maps the requested format token to an adapter.
package encoder

import (
	"github.com/AnyUserName/rimg-cli/internal/pixel"
)

// Encoder encodes a buffer to a specific format.
type Encoder interface {
	// Format returns the canonical format name ("jpeg", "png").
	Format() string

	// Tokens returns every format token that selects this encoder.
	Tokens() []string

	// Lossy reports whether the quality argument affects the output.
	Lossy() bool

	// Encode converts the buffer to bytes. quality is in [0, 1] and is
	// ignored by lossless encoders.
	Encode(buf *pixel.Buffer, quality float64) ([]byte, error)
}
