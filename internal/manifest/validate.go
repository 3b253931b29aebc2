package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/rimg-cli/internal/hasher"
	"github.com/google/uuid"
)

// Validate checks m for internal consistency and that every output it
// references exists under baseDir with the recorded size and hash. It
// returns one message per problem, sorted by entry key.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		errs = append(errs, fmt.Sprintf("invalid run id %q", m.RunID))
	}

	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	for _, key := range keys {
		e := m.Entries[key]
		if e.Error != "" {
			if e.Output != nil {
				errs = append(errs, fmt.Sprintf("entry %q: has both error and output", key))
			}
			continue
		}
		if e.Skipped {
			continue
		}
		if e.Output == nil {
			errs = append(errs, fmt.Sprintf("entry %q: no output and no error", key))
			continue
		}

		o := e.Output
		if e.Input.Width <= 0 || e.Input.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid input dimensions %dx%d",
				key, e.Input.Width, e.Input.Height))
		}
		if o.Format == "" {
			errs = append(errs, fmt.Sprintf("entry %q: empty output format", key))
		}
		if o.Width <= 0 || o.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid output dimensions %dx%d",
				key, o.Width, o.Height))
		}
		if o.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing output path", key))
			continue
		}
		if other, dup := seenPaths[o.Path]; dup {
			errs = append(errs, fmt.Sprintf("entry %q: output path %q also used by %q", key, o.Path, other))
		}
		seenPaths[o.Path] = key

		full := filepath.Join(baseDir, filepath.FromSlash(o.Path))
		info, err := os.Stat(full)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: file not found: %s", key, o.Path))
			continue
		}
		if o.Size > 0 && info.Size() != o.Size {
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: manifest=%d, disk=%d",
				key, o.Size, info.Size()))
		}
		if o.Hash != "" {
			sum, err := hasher.File(full, len(o.Hash))
			if err != nil {
				errs = append(errs, fmt.Sprintf("entry %q: %v", key, err))
			} else if sum != o.Hash {
				errs = append(errs, fmt.Sprintf("entry %q: hash mismatch: manifest=%s, disk=%s", key, o.Hash, sum))
			}
		}
	}

	want := *m
	want.ComputeStats()
	if m.Stats.TotalEntries != want.Stats.TotalEntries {
		errs = append(errs, fmt.Sprintf("stats.total_entries mismatch: %d != %d",
			m.Stats.TotalEntries, want.Stats.TotalEntries))
	}
	if m.Stats.Converted != want.Stats.Converted {
		errs = append(errs, fmt.Sprintf("stats.converted mismatch: %d != %d",
			m.Stats.Converted, want.Stats.Converted))
	}
	if m.Stats.Failed != want.Stats.Failed {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d",
			m.Stats.Failed, want.Stats.Failed))
	}
	return errs
}
