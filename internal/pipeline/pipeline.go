// Package pipeline converts every image under a directory with a bounded
// worker pool and collects the outcomes into a manifest. A file that fails
// to convert is recorded and never stops the others.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/AnyUserName/rimg-cli/internal/config"
	"github.com/AnyUserName/rimg-cli/internal/decoder"
	"github.com/AnyUserName/rimg-cli/internal/encoder"
	"github.com/AnyUserName/rimg-cli/internal/logging"
	"github.com/AnyUserName/rimg-cli/internal/manifest"
	"github.com/AnyUserName/rimg-cli/internal/pngopt"
	"github.com/AnyUserName/rimg-cli/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	// Profile supplies the resize width when Options sets none.
	Profile       profile.Profile
	Options       config.Options
	NoRegressSize bool // skip outputs not smaller than their input
}

// Pipeline orchestrates batch conversion.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Options.Workers <= 0 {
		cfg.Options.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg: cfg,
		registry: encoder.NewRegistry(encoder.Config{
			OptimizePreset: pngopt.Preset(cfg.Options.OptimizePreset),
			NoOptimize:     cfg.Options.NoOptimize,
		}),
	}
}

// Run converts every scanned image and returns the manifest. The manifest
// is returned even when some files fail; the error is non-nil only when
// nothing could be converted.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	if err := p.cfg.Options.Validate(); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if p.registry.Get(p.cfg.Options.Format) == nil {
		return nil, fmt.Errorf("output format %q not supported (%s)", p.cfg.Options.Format, p.registry)
	}
	slog.DebugContext(ctx, p.registry.String())

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	slog.InfoContext(ctx, "found images", slog.Int("count", len(sources)))

	// Step 2: Process images in parallel. Sources whose output would
	// overwrite an earlier source's output are rejected up front; only
	// decodable sources claim an output path.
	results := make([]processResult, len(sources))
	owners := map[string]string{}
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Options.Workers)

	for i, src := range sources {
		out := encoder.WithExt(src.Key, p.cfg.Options.Format)
		if owner, dup := owners[out]; dup {
			err := fmt.Errorf("output %s already produced by %s", out, owner)
			results[i] = processResult{
				key: src.RelPath,
				err: fmt.Errorf("%s: %w", src.RelPath, err),
				entry: manifest.Entry{
					Input: manifest.InputInfo{Format: src.Ext, Size: src.Size},
					Error: err.Error(),
					Kind:  "Conflict",
				},
			}
			continue
		}
		if decoder.FormatFromExt(src.Ext) != decoder.Unsupported {
			owners[out] = src.RelPath
		}

		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			wctx := logging.AppendCtx(ctx, slog.String("key", s.RelPath))
			slog.DebugContext(wctx, "processing")

			results[idx] = processImage(wctx, s, p.cfg, p.registry)

			if r := results[idx]; r.err != nil {
				slog.WarnContext(wctx, "conversion failed", slog.Any("error", r.err))
			} else {
				slog.DebugContext(wctx, "done", slog.Bool("skipped", r.entry.Skipped))
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)
	m.Format = p.cfg.Options.Format
	m.Quality = p.cfg.Options.Quality
	m.BuildInfo = &manifest.BuildInfo{
		Workers:        p.cfg.Options.Workers,
		OptimizePreset: p.cfg.Options.OptimizePreset,
		NoOptimize:     p.cfg.Options.NoOptimize,
	}

	failed := 0
	for _, r := range results {
		m.Entries[r.key] = r.entry
		if r.err != nil {
			failed++
		}
	}
	m.ComputeStats()

	if failed > 0 {
		slog.WarnContext(ctx, "some images had errors",
			slog.Int("failed", failed),
			slog.Int("total", len(sources)))
		if failed == len(sources) {
			return m, fmt.Errorf("all %d images failed to convert", failed)
		}
	}
	return m, nil
}
