package colour

import "errors"

var (
	// ErrInvalidInput is returned when extraction is given no usable pixels.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecode marks failures of the image source to supply pixel data.
	// It is produced by image loaders and propagated unchanged by extraction callers.
	ErrDecode = errors.New("decode error")
)
