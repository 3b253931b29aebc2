package manifest

// Manifest is the report written by a batch build.
type Manifest struct {
	Version     int              `json:"version"`
	RunID       string           `json:"run_id"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Format      string           `json:"format"`  // requested output format token
	Quality     float64          `json:"quality"` // lossy quality in [0, 1]
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Entries     map[string]Entry `json:"entries"` // keyed by input path relative to the input dir
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers        int  `json:"workers"`
	OptimizePreset int  `json:"optimize_preset"`
	NoOptimize     bool `json:"no_optimize,omitempty"`
}

// Entry is the outcome of converting one input file. Exactly one of Output
// and Error is set, unless the output was skipped.
type Entry struct {
	Input   InputInfo `json:"input"`
	Output  *Output   `json:"output,omitempty"`
	Skipped bool      `json:"skipped,omitempty"` // output larger than input, not written
	Error   string    `json:"error,omitempty"`
	Kind    string    `json:"error_kind,omitempty"` // e.g. "Parsing Error"
}

// InputInfo holds metadata about the source image. Dimensions are zero when
// decoding failed.
type InputInfo struct {
	Format   string `json:"format"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha,omitempty"`
}

// Output is the written conversion result.
type Output struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to the manifest directory
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalEntries     int   `json:"total_entries"`
	Converted        int   `json:"converted"`
	Failed           int   `json:"failed"`
	Skipped          int   `json:"skipped,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest name inside an output directory.
const FileName = "rimg.manifest.json"
