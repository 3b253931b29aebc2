// Package imgerr holds the error vocabulary shared by every codec adapter:
// configuration errors, decoding errors, and encoding errors, each with a
// closed set of kinds.
package imgerr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is wrapped by Format errors for unknown tokens.
	ErrUnsupportedFormat = errors.New("file not supported")
	// ErrNoExtension is returned when a path carries no extension to dispatch on.
	ErrNoExtension = errors.New("path has no file extension")
	// ErrColorSchemeNotSupported rejects indexed (palette) PNG input.
	ErrColorSchemeNotSupported = errors.New("file color scheme not supported")
	// ErrCodecFault is the cause recorded when a codec panics.
	ErrCodecFault = errors.New("codec fault")
)

// ConfigError is a validation failure detected before any codec work.
type ConfigError int

const (
	// QualityOutOfBounds means quality is outside [0, 1].
	QualityOutOfBounds ConfigError = iota + 1
	WidthIsZero
	HeightIsZero
	SizeIsZero
	InputIsEmpty
)

func (e ConfigError) Error() string {
	switch e {
	case QualityOutOfBounds:
		return "Quality is out of bounds"
	case WidthIsZero:
		return "Width cannot be zero"
	case HeightIsZero:
		return "Height cannot be zero"
	case SizeIsZero:
		return "Size cannot be zero"
	case InputIsEmpty:
		return "Input cannot be zero"
	}
	return fmt.Sprintf("config error %d", int(e))
}

// DecodeKind classifies a DecodingError.
type DecodeKind int

const (
	// DecodeIO covers missing, unreadable or truncated input.
	DecodeIO DecodeKind = iota + 1
	// DecodeFormat means the extension is not in the supported set.
	DecodeFormat
	// DecodeParsing covers malformed bitstreams, unsupported colour layouts
	// and codec faults.
	DecodeParsing
)

func (k DecodeKind) String() string {
	switch k {
	case DecodeIO:
		return "IO Error"
	case DecodeFormat:
		return "Format Error"
	case DecodeParsing:
		return "Parsing Error"
	}
	return "Decoding Error"
}

// DecodingError is returned by every decode entry point.
type DecodingError struct {
	Kind DecodeKind
	Op   string // e.g. "png.decode"
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Decoding builds a DecodingError.
func Decoding(kind DecodeKind, op string, err error) *DecodingError {
	return &DecodingError{Kind: kind, Op: op, Err: err}
}

// EncodeKind classifies an EncodingError.
type EncodeKind int

const (
	// EncodeIO means the output could not be written.
	EncodeIO EncodeKind = iota + 1
	// EncodeFormat means the requested format is not supported.
	EncodeFormat
	// EncodeEncoding covers codec-level failures and codec faults.
	EncodeEncoding
	// EncodeQuantization is raised by colour reduction.
	EncodeQuantization
	// EncodeResize is raised by geometry resizing.
	EncodeResize
)

func (k EncodeKind) String() string {
	switch k {
	case EncodeIO:
		return "IO Error"
	case EncodeFormat:
		return "Format Error"
	case EncodeEncoding:
		return "Encoding Error"
	case EncodeQuantization:
		return "Quantization Error"
	case EncodeResize:
		return "Resize Error"
	}
	return "Encoding Error"
}

// EncodingError is returned by every encode entry point and by transforms
// applied between decode and encode.
type EncodingError struct {
	Kind EncodeKind
	Op   string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Encoding builds an EncodingError.
func Encoding(kind EncodeKind, op string, err error) *EncodingError {
	return &EncodingError{Kind: kind, Op: op, Err: err}
}

// DecodeKindOf returns the kind of the first DecodingError in err's chain,
// or 0 if there is none.
func DecodeKindOf(err error) DecodeKind {
	var de *DecodingError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// EncodeKindOf returns the kind of the first EncodingError in err's chain,
// or 0 if there is none.
func EncodeKindOf(err error) EncodeKind {
	var ee *EncodingError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}
