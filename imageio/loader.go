package imageio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/hupe1980/imgsearch/internal/resource"
)

// Loader decodes the image identified by path.
// Implementations must be safe for concurrent use.
type Loader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) (image.Image, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

// FileLoader reads images from the local filesystem.
type FileLoader struct {
	maxPixels int64
	rc        *resource.Controller
}

// FileLoaderOption configures a FileLoader.
type FileLoaderOption func(*FileLoader)

// WithMaxPixels rejects images whose width*height exceeds n. 0 disables the check.
func WithMaxPixels(n int64) FileLoaderOption {
	return func(l *FileLoader) {
		l.maxPixels = n
	}
}

// WithIOLimit throttles file reads to bytesPerSec across all concurrent loads.
func WithIOLimit(bytesPerSec int64) FileLoaderOption {
	return func(l *FileLoader) {
		if bytesPerSec > 0 {
			l.rc = resource.NewController(resource.Config{IOLimitBytesPerSec: bytesPerSec})
		}
	}
}

// NewFileLoader creates a FileLoader.
func NewFileLoader(optFns ...FileLoaderOption) *FileLoader {
	l := &FileLoader{}
	for _, fn := range optFns {
		fn(l)
	}
	return l
}

// Load reads and decodes the file at path.
func (l *FileLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	if err := l.rc.AcquireIO(ctx, int(info.Size())); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return l.decode(path, data)
}

func (l *FileLoader) decode(path string, data []byte) (image.Image, error) {
	if l.maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		if int64(cfg.Width)*int64(cfg.Height) > l.maxPixels {
			return nil, &DecodeError{Path: path, Err: ErrTooLarge}
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Decode decodes an in-memory image. Failures match ErrDecodeFailure.
func Decode(name string, data []byte) (image.Image, error) {
	return (&FileLoader{}).decode(name, data)
}
