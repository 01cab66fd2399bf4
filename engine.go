package imgsearch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/imgsearch/blobstore"
	"github.com/hupe1980/imgsearch/codec"
	"github.com/hupe1980/imgsearch/feature"
	"github.com/hupe1980/imgsearch/imageio"
	"github.com/hupe1980/imgsearch/internal/cache"
	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/model"
	"github.com/hupe1980/imgsearch/reduce"
	"github.com/hupe1980/imgsearch/store"
)

// Engine indexes images and answers similarity queries against the index.
// It is safe for concurrent use. Builds and loads are serialized so each
// build indexes and saves a store no other build is writing to.
type Engine struct {
	buildMu sync.Mutex

	store     *store.FeatureStore
	cache     *cache.Cache[[]model.SearchResult]
	extractor feature.Extractor
	scorer    metric.Scorer
	reducer   reduce.Reducer
	loader    imageio.Loader
	blobs     blobstore.BlobStore
	dbName    string
	codec     codec.Codec
	workers   int
	patterns  []string
	metrics   MetricsCollector
	logger    *Logger
	closed    atomic.Bool
}

// CacheStats describes the search result cache.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// New creates an Engine with an empty feature store.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	dim := o.extractor.Dimension()
	if o.reducer != nil {
		if in := o.reducer.InputDimension(); in > 0 && in != dim {
			return nil, &ErrDimensionMismatch{Expected: dim, Actual: in}
		}
		if out := o.reducer.OutputDimension(); out > 0 {
			dim = out
		}
	}

	return &Engine{
		store: store.New(
			store.WithDimension(dim),
			store.WithLogger(o.logger.Logger),
		),
		cache: cache.New[[]model.SearchResult](
			cache.WithExpiryWindow(o.expiryWindow),
			cache.WithJanitorInterval(o.janitorInterval),
		),
		extractor: o.extractor,
		scorer:    o.scorer,
		reducer:   o.reducer,
		loader:    o.loader,
		blobs:     o.blobs,
		dbName:    o.databaseName,
		codec:     o.codec,
		workers:   o.workers,
		patterns:  o.patterns,
		metrics:   o.metricsCollector,
		logger:    o.logger.WithDatabase(o.databaseName),
	}, nil
}

// BuildDatabase indexes every image src enumerates, replacing the current
// contents, and saves the result. Images that fail to decode are listed in the
// report and skipped. If ctx is canceled the partial store is kept in memory,
// nothing is saved and the context error is returned.
func (e *Engine) BuildDatabase(ctx context.Context, src imageio.Source) (*store.BuildReport, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	defer e.cache.Clear()

	opts := []store.BuildOption{store.WithWorkers(e.workers)}
	if e.reducer != nil {
		opts = append(opts, store.WithReducer(e.reducer))
	}

	report, err := e.store.Build(ctx, src, e.loader, e.extractor, opts...)
	if report != nil {
		e.metrics.RecordBuild(report.Total, len(report.Failures), report.Duration)
	}
	e.logger.LogBuild(ctx, report, err)
	if err != nil {
		return report, translateError(err)
	}

	if err := e.Save(ctx); err != nil {
		return report, err
	}

	return report, nil
}

// BuildDatabaseFromDir builds from every image under dir matching the
// configured patterns.
func (e *Engine) BuildDatabaseFromDir(ctx context.Context, dir string) (*store.BuildReport, error) {
	src := e.DirSource(dir)
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return e.BuildDatabase(ctx, src)
}

// DirSource returns a source over dir using the configured patterns.
func (e *Engine) DirSource(dir string) *imageio.DirSource {
	return imageio.NewDirSource(dir, e.patterns...)
}

// Save writes the feature database to the configured BlobStore.
func (e *Engine) Save(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}

	err := e.store.Save(ctx, e.blobs, e.dbName, e.codec)
	e.logger.LogSave(ctx, e.dbName, e.store.Len(), err)

	return translateError(err)
}

// Load replaces the in-memory store with the saved feature database. A
// missing database yields ErrNotFound and an invalid one *ErrFormat; in both
// cases the current contents are kept.
func (e *Engine) Load(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	err := e.store.Load(ctx, e.blobs, e.dbName, e.codec)
	e.logger.LogLoad(ctx, e.dbName, e.store.Len(), err)
	if err != nil {
		return translateError(err)
	}

	e.cache.Clear()

	return nil
}

// Len returns the number of indexed images.
func (e *Engine) Len() int {
	return e.store.Len()
}

// Entries returns a snapshot of the indexed descriptors ordered by identifier.
func (e *Engine) Entries() []model.Entry {
	return e.store.All()
}

// DatabaseName returns the blob name used by Save and Load.
func (e *Engine) DatabaseName() string {
	return e.dbName
}

// CacheStats reports search cache counters.
func (e *Engine) CacheStats() CacheStats {
	s := e.cache.Stats()
	return CacheStats{
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
		Entries:   s.Entries,
	}
}

// PurgeCache drops expired search results and returns how many were removed.
func (e *Engine) PurgeCache() int {
	return e.cache.Purge()
}
