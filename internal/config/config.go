// Package config holds conversion options, their validation, and loading of
// defaults from the environment and an optional .env file.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv.
const (
	EnvFormat         = "RIMG_FORMAT"
	EnvQuality        = "RIMG_QUALITY"
	EnvWorkers        = "RIMG_WORKERS"
	EnvOptimizePreset = "RIMG_OPTIMIZE_PRESET"
	EnvLogLevel       = "RIMG_LOG_LEVEL"
)

// Options controls one conversion.
type Options struct {
	Format         string  // output format token: jpg, jpeg or png
	Quality        float64 // lossy quality in [0, 1]
	Width          int     // resize target width, 0 keeps aspect / original
	Height         int     // resize target height, 0 keeps aspect / original
	Colors         int     // quantize to this many colours, 0 disables
	Blur           float64 // gaussian blur sigma, 0 disables
	OptimizePreset int     // PNG optimizer effort 0-6
	NoOptimize     bool    // skip the PNG optimizer pass
	Workers        int     // batch parallelism, 0 = NumCPU
}

// Default returns the built-in option values.
func Default() Options {
	return Options{
		Format:         "png",
		Quality:        0.75,
		OptimizePreset: 2,
	}
}

// CheckQuality validates a lossy quality value.
func CheckQuality(q float64) error {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return imgerr.QualityOutOfBounds
	}
	return nil
}

// CheckGeometry validates the dimensions and pixel count of an image handed
// to an encoder.
func CheckGeometry(width, height, pixels int) error {
	switch {
	case pixels == 0:
		return imgerr.InputIsEmpty
	case width == 0:
		return imgerr.WidthIsZero
	case height == 0:
		return imgerr.HeightIsZero
	case width*height == 0:
		return imgerr.SizeIsZero
	}
	return nil
}

// Validate checks the option set as a whole.
func (o Options) Validate() error {
	if err := CheckQuality(o.Quality); err != nil {
		return err
	}
	if o.Width < 0 {
		return fmt.Errorf("width %d: %w", o.Width, imgerr.WidthIsZero)
	}
	if o.Height < 0 {
		return fmt.Errorf("height %d: %w", o.Height, imgerr.HeightIsZero)
	}
	if o.Colors != 0 && (o.Colors < 2 || o.Colors > 256) {
		return fmt.Errorf("colors must be within 2-256, got %d", o.Colors)
	}
	if o.Blur < 0 {
		return fmt.Errorf("blur sigma must not be negative, got %g", o.Blur)
	}
	if o.OptimizePreset < 0 || o.OptimizePreset > 6 {
		return fmt.Errorf("optimize preset must be within 0-6, got %d", o.OptimizePreset)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	return nil
}

// LoadEnv loads variables from the given .env files (default ".env") into
// the process environment. A missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// FromEnv overlays RIMG_* variables onto base.
func FromEnv(base Options) (Options, error) {
	o := base
	if v := os.Getenv(EnvFormat); v != "" {
		o.Format = v
	}
	if v := os.Getenv(EnvQuality); v != "" {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return o, fmt.Errorf("parse %s: %w", EnvQuality, err)
		}
		o.Quality = q
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, fmt.Errorf("parse %s: %w", EnvWorkers, err)
		}
		o.Workers = n
	}
	if v := os.Getenv(EnvOptimizePreset); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, fmt.Errorf("parse %s: %w", EnvOptimizePreset, err)
		}
		o.OptimizePreset = n
	}
	return o, nil
}
