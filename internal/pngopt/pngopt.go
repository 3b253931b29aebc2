// Package pngopt losslessly re-compresses PNG files.
//
// The optimizer inflates the image data, applies colour type reductions that
// cannot change decoded pixels, then re-filters and re-deflates the scanlines
// with every strategy allowed by the preset and keeps the smallest result.
// Only 8-bit, non-interlaced gray, gray+alpha, RGB and RGBA images are
// handled; anything else is reported as ErrUnsupported so the caller can keep
// its original bytes. Indexed output is never produced.
package pngopt

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrUnsupported is returned for PNG variants the optimizer does not rewrite.
var ErrUnsupported = errors.New("pngopt: unsupported png")

// Preset selects optimization effort, 0 (fastest) to 6 (slowest).
type Preset int

const (
	MinPreset     Preset = 0
	DefaultPreset Preset = 2
	MaxPreset     Preset = 6
)

type presetSettings struct {
	strategies []strategy
	level      int
	reduce     bool
}

var presets = [...]presetSettings{
	0: {strategies: []strategy{adaptive}, level: zlib.DefaultCompression},
	1: {strategies: []strategy{adaptive}, level: zlib.BestCompression, reduce: true},
	2: {strategies: []strategy{strategyNone, adaptive}, level: zlib.BestCompression, reduce: true},
	3: {strategies: []strategy{strategyNone, strategyPaeth, adaptive}, level: zlib.BestCompression, reduce: true},
	4: {strategies: []strategy{strategyNone, strategySub, strategyUp, strategyPaeth, adaptive}, level: zlib.BestCompression, reduce: true},
	5: {strategies: allStrategies, level: zlib.BestCompression, reduce: true},
	6: {strategies: allStrategies, level: zlib.BestCompression, reduce: true},
}

func (p Preset) settings() (presetSettings, error) {
	if p < MinPreset || p > MaxPreset {
		return presetSettings{}, fmt.Errorf("pngopt: preset %d out of range %d-%d", p, MinPreset, MaxPreset)
	}
	return presets[p], nil
}

// Stats describes what an Optimize call did.
type Stats struct {
	InputBytes  int
	OutputBytes int
	ColorType   int // colour type written, or the input's when unchanged
	Strategy    string
	Reduced     bool
}

// Optimize returns an equal-or-smaller PNG with identical decoded pixels.
func Optimize(data []byte, p Preset) ([]byte, error) {
	out, _, err := OptimizeStats(data, p)
	return out, err
}

// OptimizeStats is Optimize with a report of the chosen encoding.
func OptimizeStats(data []byte, p Preset) ([]byte, Stats, error) {
	st := Stats{InputBytes: len(data), OutputBytes: len(data)}
	ps, err := p.settings()
	if err != nil {
		return nil, st, err
	}

	f, err := parse(data)
	if err != nil {
		return nil, st, err
	}
	st.ColorType = int(f.hdr.colorType)

	img, err := f.inflate()
	if err != nil {
		return nil, st, err
	}

	if ps.reduce && !f.has("tRNS") {
		if r := reduce(img); r != nil {
			img = r
			st.Reduced = r.colorType != f.hdr.colorType
		}
	}

	var (
		best     []byte
		bestName string
	)
	for _, s := range ps.strategies {
		idat, err := compress(img.filter(s), ps.level)
		if err != nil {
			return nil, st, err
		}
		if best == nil || len(idat) < len(best) {
			best, bestName = idat, s.String()
		}
	}

	out := f.assemble(img, best)
	if len(out) >= len(data) {
		return data, st, nil
	}
	st.OutputBytes = len(out)
	st.ColorType = int(img.colorType)
	st.Strategy = bestName
	return out, st, nil
}

func compress(raw []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(z []byte, want int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(z))
	if err != nil {
		return nil, fmt.Errorf("pngopt: inflate: %w", err)
	}
	defer zr.Close()
	raw := make([]byte, want)
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, fmt.Errorf("pngopt: inflate: %w", err)
	}
	return raw, nil
}
