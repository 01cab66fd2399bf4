package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/imgsearch/feature"
	"github.com/hupe1980/imgsearch/imageio"
	"github.com/hupe1980/imgsearch/model"
)

// Failure records one image that could not be indexed.
type Failure struct {
	ID  model.ImageID
	Err error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.ID, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

// BuildReport summarizes a Build. Bitmap members are ordinals into the order
// the source enumerated images.
type BuildReport struct {
	ID       string
	Total    int
	Indexed  *roaring.Bitmap
	Failed   *roaring.Bitmap
	Failures []Failure
	Duration time.Duration
	Canceled bool
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		ID:      uuid.NewString(),
		Indexed: roaring.New(),
		Failed:  roaring.New(),
	}
}

// Succeeded returns the number of indexed images.
func (r *BuildReport) Succeeded() int {
	return int(r.Indexed.GetCardinality())
}

// Err joins every per-image failure, or returns nil if there were none.
func (r *BuildReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Build replaces the store contents with descriptors for every image src
// enumerates. Images that fail to load, extract or insert are recorded in the
// report and skipped. If ctx is canceled, no further images are started,
// entries inserted so far are kept and ctx.Err() is returned with the report.
func (s *FeatureStore) Build(ctx context.Context, src imageio.Source, loader imageio.Loader, ext feature.Extractor, optFns ...BuildOption) (*BuildReport, error) {
	o := defaultBuildOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	start := time.Now()

	paths, err := src.Images(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: enumerate images: %w", err)
	}

	report := newBuildReport()
	report.Total = len(paths)

	s.Reset()

	s.logger.DebugContext(ctx, "build started",
		slog.String("build", report.ID),
		slog.Int("images", len(paths)),
		slog.Int("workers", o.workers))

	var (
		mu   sync.Mutex
		done atomic.Int64
		g    errgroup.Group
	)
	g.SetLimit(o.workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}

		// Blocks while all workers are busy.
		g.Go(func() error {
			err := s.index(ctx, path, loader, ext, o)

			mu.Lock()
			switch {
			case err == nil:
				report.Indexed.Add(uint32(i))
			case ctx.Err() != nil && errors.Is(err, ctx.Err()):
				// Interrupted rather than failed.
			default:
				report.Failed.Add(uint32(i))
				report.Failures = append(report.Failures, Failure{ID: model.ImageID(path), Err: err})
			}
			mu.Unlock()

			if err != nil && ctx.Err() == nil {
				s.logger.WarnContext(ctx, "image skipped",
					slog.String("build", report.ID),
					slog.String("path", path),
					slog.String("error", err.Error()))
			}

			n := int(done.Add(1))
			if o.progress != nil {
				o.progress(n, len(paths))
			}

			return nil
		})
	}

	// Per-image errors live in the report; workers never fail the group.
	_ = g.Wait()

	slices.SortFunc(report.Failures, func(a, b Failure) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	report.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		report.Canceled = true

		s.logger.WarnContext(ctx, "build canceled",
			slog.String("build", report.ID),
			slog.Int("indexed", report.Succeeded()),
			slog.Int("images", report.Total))

		return report, err
	}

	s.logger.InfoContext(ctx, "build finished",
		slog.String("build", report.ID),
		slog.Int("indexed", report.Succeeded()),
		slog.Int("failed", len(report.Failures)),
		slog.Duration("duration", report.Duration))

	return report, nil
}

func (s *FeatureStore) index(ctx context.Context, path string, loader imageio.Loader, ext feature.Extractor, o buildOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := loader.Load(ctx, path)
	if err != nil {
		return err
	}

	d := ext.Extract(img)
	if o.reducer != nil {
		if d, err = o.reducer.Reduce(d); err != nil {
			return fmt.Errorf("reduce: %w", err)
		}
	}

	return s.Insert(model.ImageID(path), d)
}
