package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/rimg-cli/internal/manifest"
	"github.com/AnyUserName/rimg-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	buildOutDir    string
	buildNoRegress bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Convert every image in a directory and write a manifest",
	Long: `Scans the input directory for images, converts every jpg, jpeg and png
file to the requested format in parallel, and writes rimg.manifest.json
into the output directory. Files that cannot be converted are recorded in
the manifest with their error and do not stop the build.

Output paths mirror the input tree: <dir>/<name>.<format>`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./rimg_out", "output directory")
	buildCmd.Flags().IntP("workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().BoolVar(&buildNoRegress, "no-regress-size", false, "skip outputs not smaller than their input")
	addOptionFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	opts, prof, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("format:  %s (quality=%.2f, preset=%d)", opts.Format, opts.Quality, opts.OptimizePreset)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Options:       opts,
		NoRegressSize: buildNoRegress,
	})

	m, runErr := p.Run(cmd.Context())
	if m == nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	if runErr != nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║               rimg build complete                ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Run:         %s\n", m.RunID)
	fmt.Printf("  Converted:   %d of %d\n", s.Converted, s.TotalEntries)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	if s.Skipped > 0 {
		fmt.Printf("  Skipped:     %d (not smaller than input)\n", s.Skipped)
	}
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 heaviest converted inputs.
	type entrySize struct {
		key        string
		inputSize  int64
		outputSize int64
	}
	var items []entrySize
	for key, e := range m.Entries {
		if e.Output != nil {
			items = append(items, entrySize{key, e.Input.Size, e.Output.Size})
		}
	}
	if len(items) > 0 {
		sort.Slice(items, func(i, j int) bool {
			if items[i].inputSize != items[j].inputSize {
				return items[i].inputSize > items[j].inputSize
			}
			return items[i].key < items[j].key
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (input → output):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s  (%+.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				sizeChange(it.inputSize, it.outputSize),
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Manifest:    %s\n", manifest.FileName)
	fmt.Println()
}

// sizeChange returns the percentage change from in to out.
func sizeChange(in, out int64) float64 {
	if in == 0 {
		return 0
	}
	return (float64(out)/float64(in) - 1) * 100
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
