package encoder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnyUserName/rimg-cli/internal/pngopt"
)

// Config tunes the encoders held by a Registry.
type Config struct {
	OptimizePreset pngopt.Preset
	NoOptimize     bool
}

// Registry maps format tokens to encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry holding the JPEG and PNG encoders.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		&JPEGEncoder{},
		&PNGEncoder{Preset: cfg.OptimizePreset, Optimize: !cfg.NoOptimize},
	}

	for _, enc := range all {
		for _, tok := range enc.Tokens() {
			r.encoders[tok] = enc
		}
	}

	return r
}

// Get returns the encoder for an exact format token, or nil if the token is
// not supported.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[format]
}

// Tokens returns all accepted format tokens, sorted.
func (r *Registry) Tokens() []string {
	out := make([]string, 0, len(r.encoders))
	for tok := range r.encoders {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// String returns a summary of the registered tokens.
func (r *Registry) String() string {
	return fmt.Sprintf("encoders: %s", strings.Join(r.Tokens(), ", "))
}
