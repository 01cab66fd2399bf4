package imageio

import (
	"errors"
	"fmt"
)

// ErrDecodeFailure matches every error produced while reading or decoding an image.
var ErrDecodeFailure = errors.New("image decode failed")

// ErrTooLarge indicates an image exceeds the configured pixel limit.
var ErrTooLarge = errors.New("image exceeds pixel limit")

// DecodeError records the image that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecodeFailure as a match.
func (e *DecodeError) Is(target error) bool { return target == ErrDecodeFailure }
