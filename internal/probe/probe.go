// Package probe inspects image files without decoding their pixels. It
// recognises more formats than the converter accepts so that identify can
// say what a file is and why it cannot be converted.
package probe

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/AnyUserName/rimg-cli/internal/decoder"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes one file.
type Info struct {
	Path        string
	Size        int64
	Format      string // detected from content, e.g. "png", "webp"
	Width       int
	Height      int
	Layout      string // PNG colour layout, empty for other formats
	BitDepth    int    // PNG only
	Convertible bool
	Reason      string // why the file cannot be converted
}

// File probes the file at path.
func File(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Bytes(data, path)
}

// Bytes probes an in-memory file. name is only used for extension dispatch.
func Bytes(data []byte, name string) (*Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	info := &Info{
		Path:   name,
		Size:   int64(len(data)),
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	if format == "png" {
		hdr, err := decoder.ReadPNGHeader(data)
		if err == nil {
			info.Layout = hdr.Layout.String()
			info.BitDepth = hdr.BitDepth
		}
	}

	info.Convertible, info.Reason = convertible(info, name)
	return info, nil
}

func convertible(info *Info, name string) (bool, string) {
	ext, err := decoder.FormatOf(name)
	if err != nil {
		return false, err.Error()
	}
	content := decoder.FormatFromExt(info.Format)
	if content == decoder.Unsupported {
		return false, fmt.Sprintf("%s input is not supported", info.Format)
	}
	if content != ext {
		return false, fmt.Sprintf("extension says %s but content is %s", ext, content)
	}
	if info.Layout == decoder.LayoutIndexed.String() {
		return false, "indexed colour PNG is not supported"
	}
	return true, ""
}
