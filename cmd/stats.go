package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/rimg-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a build output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// manifestPath accepts a manifest file or a directory containing one.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.Read(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Run:              %s\n", m.RunID)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	if m.Profile != "" {
		fmt.Printf("  Profile:          %s\n", m.Profile)
	}
	fmt.Printf("  Output format:    %s (quality %.2f)\n", m.Format, m.Quality)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		if m.BuildInfo.NoOptimize {
			fmt.Println("  PNG optimizer:    off")
		} else {
			fmt.Printf("  PNG optimizer:    preset %d\n", m.BuildInfo.OptimizePreset)
		}
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total entries:    %d\n", s.TotalEntries)
	fmt.Printf("  Converted:        %d\n", s.Converted)
	fmt.Printf("  Failed:           %d\n", s.Failed)
	if s.Skipped > 0 {
		fmt.Printf("  Skipped:          %d\n", s.Skipped)
	}
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Println()

	// Per input format breakdown.
	type formatStat struct {
		count  int
		in     int64
		out    int64
		failed int
	}
	byFormat := map[string]formatStat{}
	failures := map[string][]string{}
	for key, e := range m.Entries {
		fs := byFormat[e.Input.Format]
		fs.count++
		fs.in += e.Input.Size
		if e.Output != nil {
			fs.out += e.Output.Size
		}
		if e.Error != "" {
			fs.failed++
			failures[e.Kind] = append(failures[e.Kind], key)
		}
		byFormat[e.Input.Format] = fs
	}

	formats := make([]string, 0, len(byFormat))
	for f := range byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Input formats:")
	for _, f := range formats {
		fs := byFormat[f]
		fmt.Printf("    %-6s  %4d files  %9s → %9s  %d failed\n",
			f, fs.count, formatBytes(fs.in), formatBytes(fs.out), fs.failed)
	}
	fmt.Println()

	if len(failures) > 0 {
		kinds := make([]string, 0, len(failures))
		for k := range failures {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Println("  Failures:")
		for _, k := range kinds {
			keys := failures[k]
			sort.Strings(keys)
			fmt.Printf("    %s (%d):\n", k, len(keys))
			for _, key := range keys {
				fmt.Printf("      ⚠ %s: %s\n", key, m.Entries[key].Error)
			}
		}
		fmt.Println()
	}
}
