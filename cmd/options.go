package cmd

import (
	"fmt"

	"github.com/AnyUserName/rimg-cli/internal/config"
	"github.com/AnyUserName/rimg-cli/internal/profile"
	"github.com/spf13/cobra"
)

// addOptionFlags registers the conversion flags shared by convert and build.
func addOptionFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringP("format", "f", "png", "output format: jpg, jpeg or png")
	f.Float64P("quality", "q", 0.75, "lossy quality in [0, 1]")
	f.Int("width", 0, "resize to this width (0 keeps aspect or original)")
	f.Int("height", 0, "resize to this height (0 keeps aspect or original)")
	f.Int("colors", 0, "quantize to at most this many colours (2-256, 0 disables)")
	f.Float64("blur", 0, "gaussian blur sigma (0 disables)")
	f.Int("optimize-preset", 2, "PNG optimizer effort 0-6")
	f.Bool("no-optimize", false, "skip the PNG optimizer pass")
	f.StringP("profile", "p", "", "named preset: "+fmt.Sprint(profile.Names()))
}

// resolveOptions layers defaults, environment, profile and explicitly set
// flags, in that order. Workers are never taken from a profile. The profile
// width stays in the returned profile so that it only ever shrinks images.
func resolveOptions(c *cobra.Command) (config.Options, profile.Profile, error) {
	f := c.Flags()
	var prof profile.Profile

	opts, err := config.FromEnv(config.Default())
	if err != nil {
		return opts, prof, err
	}

	if name, _ := f.GetString("profile"); name != "" {
		p, err := profile.Get(name)
		if err != nil {
			return opts, prof, err
		}
		prof = p
		workers := opts.Workers
		opts = p.Options
		opts.Width = 0
		opts.Workers = workers
	}

	if f.Changed("format") {
		opts.Format, _ = f.GetString("format")
	}
	if f.Changed("quality") {
		opts.Quality, _ = f.GetFloat64("quality")
	}
	if f.Changed("width") {
		opts.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		opts.Height, _ = f.GetInt("height")
	}
	if f.Changed("colors") {
		opts.Colors, _ = f.GetInt("colors")
	}
	if f.Changed("blur") {
		opts.Blur, _ = f.GetFloat64("blur")
	}
	if f.Changed("optimize-preset") {
		opts.OptimizePreset, _ = f.GetInt("optimize-preset")
	}
	if f.Changed("no-optimize") {
		opts.NoOptimize, _ = f.GetBool("no-optimize")
	}
	if f.Lookup("workers") != nil && f.Changed("workers") {
		opts.Workers, _ = f.GetInt("workers")
	}

	if err := opts.Validate(); err != nil {
		return opts, prof, err
	}
	return opts, prof, nil
}
