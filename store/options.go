package store

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/imgsearch/reduce"
)

type options struct {
	dimension int
	logger    *slog.Logger
}

// Option configures a FeatureStore.
type Option func(*options)

// WithDimension fixes the descriptor dimension. Zero infers it from the first
// insert or from a loaded database.
func WithDimension(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.dimension = n
		}
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type buildOptions struct {
	workers  int
	reducer  reduce.Reducer
	progress func(done, total int)
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		workers: runtime.GOMAXPROCS(0),
	}
}

// BuildOption configures a single Build call.
type BuildOption func(*buildOptions)

// WithWorkers bounds the number of images processed concurrently.
// Non-positive values keep the default of GOMAXPROCS.
func WithWorkers(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithReducer applies r to every extracted descriptor before insertion.
func WithReducer(r reduce.Reducer) BuildOption {
	return func(o *buildOptions) {
		o.reducer = r
	}
}

// WithProgress registers a callback invoked after each image is processed.
// It is called from worker goroutines and must be safe for concurrent use.
func WithProgress(fn func(done, total int)) BuildOption {
	return func(o *buildOptions) {
		o.progress = fn
	}
}
