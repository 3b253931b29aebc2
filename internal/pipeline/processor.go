package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AnyUserName/rimg-cli/internal/decoder"
	"github.com/AnyUserName/rimg-cli/internal/encoder"
	"github.com/AnyUserName/rimg-cli/internal/hasher"
	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/manifest"
	"github.com/AnyUserName/rimg-cli/internal/transform"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	entry manifest.Entry
	err   error
}

// processImage converts one source: decode, transform, encode, write.
// Failures are recorded on the entry and returned; they never panic.
func processImage(ctx context.Context, src Source, cfg Config, registry *encoder.Registry) processResult {
	result := processResult{key: src.RelPath}
	result.entry.Input = manifest.InputInfo{Format: src.Ext, Size: src.Size}
	if f := decoder.FormatFromExt(src.Ext); f != decoder.Unsupported {
		result.entry.Input.Format = f.String()
	}
	fail := func(err error) processResult {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		result.entry.Error = err.Error()
		result.entry.Kind = errorKind(err)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	buf, err := decoder.Decode(src.AbsPath)
	if err != nil {
		return fail(err)
	}
	result.entry.Input.Width = buf.Width
	result.entry.Input.Height = buf.Height
	result.entry.Input.HasAlpha = !buf.Opaque()

	opts := cfg.Options
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width = cfg.Profile.EffectiveWidth(buf.Width)
	}
	buf, err = transform.Apply(buf, opts)
	if err != nil {
		return fail(err)
	}

	data, err := registry.EncodeBytes(buf, opts.Format, opts.Quality)
	if err != nil {
		return fail(err)
	}

	if cfg.NoRegressSize && int64(len(data)) >= src.Size {
		slog.DebugContext(ctx, "skip: output not smaller than input",
			slog.String("key", src.RelPath),
			slog.Int("encoded", len(data)),
			slog.Int64("original", src.Size))
		result.entry.Skipped = true
		return result
	}

	relPath := encoder.WithExt(src.Key, opts.Format)
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fail(imgerr.Encoding(imgerr.EncodeIO, "mkdir", err))
	}
	if err := encoder.WriteFile(outPath, data); err != nil {
		return fail(imgerr.Encoding(imgerr.EncodeIO, "write", err))
	}

	result.entry.Output = &manifest.Output{
		Format: registry.Get(opts.Format).Format(),
		Width:  buf.Width,
		Height: buf.Height,
		Size:   int64(len(data)),
		Hash:   hasher.Sum(data, hasher.DefaultLen),
		Path:   relPath,
	}
	return result
}

// errorKind names the category of err for the manifest.
func errorKind(err error) string {
	var ce imgerr.ConfigError
	switch {
	case imgerr.DecodeKindOf(err) != 0:
		return imgerr.DecodeKindOf(err).String()
	case imgerr.EncodeKindOf(err) != 0:
		return imgerr.EncodeKindOf(err).String()
	case errors.As(err, &ce):
		return "Config Error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Canceled"
	}
	return "Error"
}
