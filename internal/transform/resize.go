package transform

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"github.com/disintegration/imaging"
)

var errEmpty = errors.New("empty image")

// Resize scales buf to width x height with a Lanczos filter. A zero
// dimension is derived from the other one, keeping the aspect ratio. With
// both zero the buffer is returned unchanged.
func Resize(buf *pixel.Buffer, width, height int) (*pixel.Buffer, error) {
	if width < 0 || height < 0 {
		return nil, imgerr.Encoding(imgerr.EncodeResize, "resize",
			fmt.Errorf("negative target %dx%d", width, height))
	}
	if buf == nil || buf.Len() == 0 {
		return nil, imgerr.Encoding(imgerr.EncodeResize, "resize", errEmpty)
	}
	if err := buf.Check(); err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeResize, "resize", err)
	}
	if width == 0 && height == 0 || width == buf.Width && height == buf.Height {
		return buf, nil
	}

	var out *pixel.Buffer
	err := imgerr.Guard("resize", func() error {
		out = pixel.FromNRGBA(imaging.Resize(buf.NRGBA(), width, height, imaging.Lanczos))
		return nil
	})
	if err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeResize, "resize", err)
	}
	if out.Len() == 0 {
		return nil, imgerr.Encoding(imgerr.EncodeResize, "resize",
			fmt.Errorf("%dx%d to %dx%d: %w", buf.Width, buf.Height, width, height, errEmpty))
	}
	return out, nil
}
