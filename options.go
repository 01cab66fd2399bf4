package imgsearch

import (
	"log/slog"
	"time"

	"github.com/hupe1980/imgsearch/blobstore"
	"github.com/hupe1980/imgsearch/codec"
	"github.com/hupe1980/imgsearch/feature"
	"github.com/hupe1980/imgsearch/imageio"
	"github.com/hupe1980/imgsearch/internal/cache"
	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/reduce"
)

// DefaultDatabaseName is the name the feature database is saved under.
const DefaultDatabaseName = "features.json"

// DefaultExpiryWindow is how long a cached search result survives without being read.
const DefaultExpiryWindow = cache.DefaultExpiryWindow

type options struct {
	blobs            blobstore.BlobStore
	databaseName     string
	codec            codec.Codec
	expiryWindow     time.Duration
	janitorInterval  time.Duration
	workers          int
	ioLimit          int64
	maxPixels        int64
	patterns         []string
	extractor        feature.Extractor
	scorer           metric.Scorer
	reducer          reduce.Reducer
	loader           imageio.Loader
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithBlobStore sets where the feature database is saved and loaded.
// Defaults to a LocalStore rooted at the working directory.
func WithBlobStore(bs blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobs = bs
	}
}

// WithDatabaseName sets the blob name of the feature database. A ".zst" or
// ".lz4" suffix enables compression.
func WithDatabaseName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.databaseName = name
		}
	}
}

// WithCodec configures the codec used for the feature database.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithExpiryWindow sets the sliding expiration of cached search results.
//
// Example:
//
//	eng, _ := imgsearch.New(imgsearch.WithExpiryWindow(30 * time.Second))
func WithExpiryWindow(d time.Duration) Option {
	return func(o *options) {
		o.expiryWindow = d
	}
}

// WithJanitorInterval purges expired cache entries in the background every d.
// By default expired entries are only dropped when they are next accessed.
func WithJanitorInterval(d time.Duration) Option {
	return func(o *options) {
		o.janitorInterval = d
	}
}

// WithWorkers bounds the number of images decoded concurrently during a build.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithIOLimit caps the read throughput of the default loader in bytes per second.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMaxPixels makes the default loader reject images larger than n pixels.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		o.maxPixels = n
	}
}

// WithPatterns sets the doublestar patterns BuildDatabaseFromDir matches.
// Defaults to imageio.DefaultPatterns.
func WithPatterns(patterns ...string) Option {
	return func(o *options) {
		if len(patterns) > 0 {
			o.patterns = patterns
		}
	}
}

// WithExtractor replaces the default 4x4x4 colour histogram.
func WithExtractor(ext feature.Extractor) Option {
	return func(o *options) {
		if ext != nil {
			o.extractor = ext
		}
	}
}

// WithScorer replaces cosine similarity.
func WithScorer(s metric.Scorer) Option {
	return func(o *options) {
		if s != nil {
			o.scorer = s
		}
	}
}

// WithReducer applies r to stored and query descriptors alike.
func WithReducer(r reduce.Reducer) Option {
	return func(o *options) {
		o.reducer = r
	}
}

// WithLoader replaces the file loader used by builds and SearchFile.
// WithIOLimit and WithMaxPixels only affect the default loader.
func WithLoader(l imageio.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &imgsearch.BasicMetricsCollector{}
//	eng, _ := imgsearch.New(imgsearch.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, cache hits: %d\n", stats.SearchCount, stats.SearchCacheHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := imgsearch.NewJSONLogger(slog.LevelInfo)
//	eng, _ := imgsearch.New(imgsearch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		databaseName:     DefaultDatabaseName,
		codec:            codec.Default,
		expiryWindow:     DefaultExpiryWindow,
		patterns:         imageio.DefaultPatterns,
		extractor:        feature.Default(),
		scorer:           metric.CosineScorer{},
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.blobs == nil {
		o.blobs = blobstore.NewLocalStore(".")
	}
	if o.loader == nil {
		o.loader = imageio.NewFileLoader(
			imageio.WithIOLimit(o.ioLimit),
			imageio.WithMaxPixels(o.maxPixels),
		)
	}
	return o
}

// SearchOption configures a single search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	topK int
}

// WithTopK returns at most k results. Zero or negative returns every entry.
func WithTopK(k int) SearchOption {
	return func(o *searchOptions) {
		o.topK = k
	}
}
