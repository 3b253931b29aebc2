package imgerr

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Guard runs fn and converts a panic raised inside it into an error wrapping
// ErrCodecFault. Codec calls go through Guard so that one corrupt file cannot
// take down a caller converting many files.
func Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("codec fault recovered",
				slog.String("op", op),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%s: %w: %v", op, ErrCodecFault, r)
		}
	}()
	return fn()
}
