package imgsearch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/imgsearch/blobstore"
	"github.com/hupe1980/imgsearch/imageio"
	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/store"
)

var (
	// ErrDecodeFailure is returned when a query image cannot be decoded.
	ErrDecodeFailure = errors.New("image decode failed")

	// ErrNotFound is returned by Load when the database does not exist.
	ErrNotFound = errors.New("database not found")

	// ErrClosed is returned when the engine has been closed.
	ErrClosed = errors.New("engine closed")
)

// ErrDimensionMismatch indicates descriptors of different lengths were compared
// or stored together.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrFormat indicates a persisted database that is not a valid feature database.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrFormat struct {
	Name  string
	cause error
}

func (e *ErrFormat) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("invalid database %q", e.Name)
	}
	return fmt.Sprintf("invalid database %q: %v", e.Name, e.cause)
}

func (e *ErrFormat) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, imageio.ErrDecodeFailure) {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var dm *metric.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	var fe *store.FormatError
	if errors.As(err, &fe) {
		return &ErrFormat{Name: fe.Name, cause: err}
	}

	return err
}
