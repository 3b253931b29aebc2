package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/AnyUserName/rimg-cli/internal/config"
	"github.com/AnyUserName/rimg-cli/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	version  = "0.1.0"
	verbose  bool
	logLevel string
	logJSON  bool
	logFile  string
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:   "rimg",
	Short: "Convert images between JPEG and PNG",
	Long: `rimg decodes JPEG and PNG files into a canonical RGBA buffer and
re-encodes them as JPEG (with configurable quality) or PNG (with a
lossless optimisation pass).

Defaults can be set with RIMG_* environment variables or a .env file.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	pf.StringVar(&logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	pf.StringVar(&envFile, "env-file", ".env", "file to load RIMG_* defaults from")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"rimg %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup loads the env file and installs the default logger. Every log
// record written with the command context carries the run id.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	name := logLevel
	if !cmd.Flags().Changed("log-level") {
		if v := os.Getenv(config.EnvLogLevel); v != "" {
			name = v
		}
	}
	level, ok := logging.ParseLevel(name)
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		w = logging.FileWriter(logFile)
	}
	slog.SetDefault(logging.Logger(w, logJSON, level))
	if !ok {
		slog.Warn("invalid log level, defaulting to INFO", slog.String("level", name))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.AppendCtx(ctx, slog.String("run", uuid.NewString())))
	return nil
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[rimg] "+format+"\n", args...)
	}
}
