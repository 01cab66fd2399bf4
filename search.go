package imgsearch

import (
	"context"
	"image"
	"strconv"
	"time"

	"github.com/hupe1980/imgsearch/internal/fingerprint"
	"github.com/hupe1980/imgsearch/model"
)

// Search ranks every indexed image against img, most similar first. Ties are
// ordered by identifier. An empty store yields an empty result.
//
// Results for an image with the same pixels are served from the cache while
// the entry stays inside the expiry window. The returned slice is the
// caller's to modify.
func (e *Engine) Search(ctx context.Context, img image.Image, optFns ...SearchOption) ([]model.SearchResult, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	var so searchOptions
	for _, fn := range optFns {
		fn(&so)
	}

	start := time.Now()

	key := cacheKey(img, e.store.Generation())
	ranked, cached, err := e.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]model.SearchResult, error) {
		return e.rank(ctx, img)
	})
	if err != nil {
		err = translateError(err)
		e.metrics.RecordSearch(0, false, time.Since(start), err)
		e.logger.LogSearch(ctx, 0, false, err)
		return nil, err
	}

	n := len(ranked)
	if so.topK > 0 && so.topK < n {
		n = so.topK
	}
	out := make([]model.SearchResult, n)
	copy(out, ranked)

	e.metrics.RecordSearch(n, cached, time.Since(start), nil)
	e.logger.LogSearch(ctx, n, cached, nil)

	return out, nil
}

// SearchFile decodes the image at path with the engine's loader and searches
// with it. Undecodable files yield an error matching ErrDecodeFailure.
func (e *Engine) SearchFile(ctx context.Context, path string, optFns ...SearchOption) ([]model.SearchResult, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	img, err := e.loader.Load(ctx, path)
	if err != nil {
		err = translateError(err)
		e.logger.LogSearch(ctx, 0, false, err)
		return nil, err
	}

	return e.Search(ctx, img, optFns...)
}

// Descriptor returns the descriptor the engine would index img under.
func (e *Engine) Descriptor(img image.Image) (model.Descriptor, error) {
	d := e.extractor.Extract(img)
	if e.reducer == nil {
		return d, nil
	}
	d, err := e.reducer.Reduce(d)
	return d, translateError(err)
}

// rank scores the query against a snapshot of the store.
func (e *Engine) rank(ctx context.Context, img image.Image) ([]model.SearchResult, error) {
	q, err := e.Descriptor(img)
	if err != nil {
		return nil, err
	}

	entries := e.store.All()
	results := make([]model.SearchResult, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := e.scorer.Score(q, entry.Descriptor)
		if err != nil {
			return nil, err
		}
		results = append(results, model.SearchResult{ID: entry.ID, Score: score})
	}

	model.SortResults(results)

	return results, nil
}

// cacheKey combines the image content with the store generation so results
// ranked against older contents are never served. The generation is read
// before ranking; a ranking taken while a build is inserting is stored under
// the older generation, which no later search asks for.
func cacheKey(img image.Image, generation uint64) string {
	return fingerprint.Of(img) + "@" + strconv.FormatUint(generation, 10)
}
