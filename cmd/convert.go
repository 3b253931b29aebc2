package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AnyUserName/rimg-cli/internal/decoder"
	"github.com/AnyUserName/rimg-cli/internal/encoder"
	"github.com/AnyUserName/rimg-cli/internal/pngopt"
	"github.com/AnyUserName/rimg-cli/internal/transform"
	"github.com/spf13/cobra"
)

var convertOut string

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a single JPEG or PNG file",
	Long: `Decodes <input> (jpg, jpeg or png, chosen by extension), applies the
optional resize, blur and quantize steps, and writes it in the requested
format. The output extension always matches the format; by default the
output sits next to the input. Without -o, converting to the input's own
format overwrites the input file in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output path (extension is replaced by the format)")
	addOptionFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	input := args[0]
	start := time.Now()

	opts, prof, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	registry := encoder.NewRegistry(encoder.Config{
		OptimizePreset: pngopt.Preset(opts.OptimizePreset),
		NoOptimize:     opts.NoOptimize,
	})

	buf, err := decoder.Decode(input)
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width = prof.EffectiveWidth(buf.Width)
	}
	buf, err = transform.Apply(buf, opts)
	if err != nil {
		return fmt.Errorf("transform %s: %w", input, err)
	}

	out := convertOut
	if out == "" {
		out = input
	}
	written, err := registry.Encode(out, buf, opts.Format, opts.Quality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}

	info, err := os.Stat(written)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "converted",
		slog.String("input", input),
		slog.String("output", written),
		slog.Int64("bytes", info.Size()),
		slog.Duration("elapsed", time.Since(start)))
	logVerbose("%s -> %s (%dx%d)", input, written, buf.Width, buf.Height)
	fmt.Printf("%s (%s)\n", written, formatBytes(info.Size()))
	return nil
}
