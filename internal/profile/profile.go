// Package profile provides named conversion presets. A profile fills in
// option defaults; explicit flags still override it.
package profile

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/rimg-cli/internal/config"
)

// Profile is a named set of conversion options.
type Profile struct {
	Name        string
	Description string
	Options     config.Options
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:        "default",
		Description: "PNG output, optimizer preset 2",
		Options:     config.Default(),
	},
	"web": {
		Name:        "web",
		Description: "JPEG at quality 0.82, at most 1920px wide",
		Options: config.Options{
			Format:         "jpg",
			Quality:        0.82,
			Width:          1920,
			OptimizePreset: 2,
		},
	},
	"lossless": {
		Name:        "lossless",
		Description: "PNG with the most thorough optimizer preset",
		Options: config.Options{
			Format:         "png",
			Quality:        1,
			OptimizePreset: 6,
		},
	},
	"small": {
		Name:        "small",
		Description: "64-colour PNG, at most 640px wide",
		Options: config.Options{
			Format:         "png",
			Quality:        0.6,
			Width:          640,
			Colors:         64,
			OptimizePreset: 4,
		},
	},
	"thumbnail": {
		Name:        "thumbnail",
		Description: "JPEG at quality 0.7, 320px wide",
		Options: config.Options{
			Format:         "jpg",
			Quality:        0.7,
			Width:          320,
			OptimizePreset: 2,
		},
	},
}

// Get returns a profile by name.
func Get(name string) (Profile, error) {
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, Names())
}

// Names lists the built-in profile names, sorted.
func Names() []string {
	out := make([]string, 0, len(profiles))
	for n := range profiles {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// EffectiveWidth returns the resize width for an image originalWidth wide:
// the profile width, or 0 (keep) when the image is already narrower.
func (p Profile) EffectiveWidth(originalWidth int) int {
	if p.Options.Width <= 0 || p.Options.Width >= originalWidth {
		return 0
	}
	return p.Options.Width
}
