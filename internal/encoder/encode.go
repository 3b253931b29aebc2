package encoder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/rimg-cli/internal/config"
	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
)

var defaultRegistry = NewRegistry(Config{OptimizePreset: 2})

// Encode encodes buf with the default registry and writes it to path with
// its extension replaced by format.
func Encode(path string, buf *pixel.Buffer, format string, quality float64) error {
	_, err := defaultRegistry.Encode(path, buf, format, quality)
	return err
}

// EncodeBytes encodes buf with the default registry without touching disk.
func EncodeBytes(buf *pixel.Buffer, format string, quality float64) ([]byte, error) {
	return defaultRegistry.EncodeBytes(buf, format, quality)
}

// EncodeBytes validates the request and runs the matching encoder.
func (r *Registry) EncodeBytes(buf *pixel.Buffer, format string, quality float64) ([]byte, error) {
	enc := r.Get(format)
	if enc == nil {
		return nil, imgerr.Encoding(imgerr.EncodeFormat, "dispatch",
			fmt.Errorf("%q: %w", format, imgerr.ErrUnsupportedFormat))
	}
	if buf == nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "validate", imgerr.InputIsEmpty)
	}
	if err := config.CheckQuality(quality); err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "validate", err)
	}
	if err := config.CheckGeometry(buf.Width, buf.Height, buf.Len()); err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "validate", err)
	}
	if err := buf.Check(); err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "validate", err)
	}

	attrs := []any{
		slog.String("format", enc.Format()),
		slog.Int("width", buf.Width),
		slog.Int("height", buf.Height),
	}
	if enc.Lossy() {
		attrs = append(attrs, slog.Float64("quality", quality))
	}
	slog.Info("started encoding", attrs...)

	data, err := enc.Encode(buf, quality)
	if err != nil {
		return nil, err
	}

	slog.Info("encoded", slog.String("format", enc.Format()), slog.Int("bytes", len(data)))
	return data, nil
}

// Encode encodes buf and writes the result to path with its extension
// rewritten to format. It returns the path actually written. Nothing is
// written when encoding fails.
func (r *Registry) Encode(path string, buf *pixel.Buffer, format string, quality float64) (string, error) {
	data, err := r.EncodeBytes(buf, format, quality)
	if err != nil {
		return "", err
	}
	out := WithExt(path, format)
	if err := WriteFile(out, data); err != nil {
		return "", imgerr.Encoding(imgerr.EncodeIO, "write", err)
	}
	return out, nil
}

// WithExt replaces the extension of path with ext, adding one if path has
// none.
func WithExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// WriteFile stages data in a temp file next to path and renames it into
// place, overwriting any existing file.
func WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
