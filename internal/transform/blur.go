package transform

import (
	"fmt"

	"github.com/AnyUserName/rimg-cli/internal/imgerr"
	"github.com/AnyUserName/rimg-cli/internal/pixel"
	"github.com/anthonynsimon/bild/blur"
)

// Blur applies a gaussian blur with the given sigma. Sigma 0 is a no-op.
func Blur(buf *pixel.Buffer, sigma float64) (*pixel.Buffer, error) {
	if sigma < 0 {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "blur",
			fmt.Errorf("negative sigma %g", sigma))
	}
	if buf == nil || buf.Len() == 0 {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "blur", errEmpty)
	}
	if sigma == 0 {
		return buf, nil
	}

	var out *pixel.Buffer
	err := imgerr.Guard("blur", func() error {
		out = pixel.FromImage(blur.Gaussian(buf.NRGBA(), sigma))
		return nil
	})
	if err != nil {
		return nil, imgerr.Encoding(imgerr.EncodeEncoding, "blur", err)
	}
	return out, nil
}
