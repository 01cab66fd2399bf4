package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/hupe1980/imgsearch/blobstore"
	"github.com/hupe1980/imgsearch/codec"
	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/model"
)

var (
	errNullDocument  = errors.New("document is null")
	errEmptyKey      = errors.New("empty image id")
	errEmptyVector   = errors.New("empty descriptor")
	errNonFinite     = errors.New("descriptor contains a non-finite value")
	errMixedElements = errors.New("descriptors have different dimensions")
)

// Save writes the whole store to bs under name as one blob. The name's
// extension selects compression (see codec.CompressionFor). A nil codec
// uses codec.Default.
func (s *FeatureStore) Save(ctx context.Context, bs blobstore.BlobStore, name string, c codec.Codec) error {
	data, err := s.marshal(c)
	if err != nil {
		return err
	}

	comp := codec.CompressionFor(name)
	if data, err = comp.Compress(data); err != nil {
		return fmt.Errorf("store: compress %s: %w", comp.Name(), err)
	}

	if err := bs.Put(ctx, name, data); err != nil {
		return fmt.Errorf("store: save %s: %w", name, err)
	}

	s.logger.DebugContext(ctx, "database saved",
		slog.String("name", name),
		slog.String("compression", comp.Name()),
		slog.Int("bytes", len(data)))

	return nil
}

// Load replaces the store contents with the database stored under name.
// On any error the store is left unchanged. A missing blob yields an error
// matching blobstore.ErrNotFound, a malformed one a *FormatError and a
// dimension other than the configured one a *metric.ErrDimensionMismatch.
func (s *FeatureStore) Load(ctx context.Context, bs blobstore.BlobStore, name string, c codec.Codec) error {
	data, err := blobstore.ReadAll(ctx, bs, name)
	if err != nil {
		return fmt.Errorf("store: load %s: %w", name, err)
	}

	comp := codec.CompressionFor(name)
	if data, err = comp.Decompress(data); err != nil {
		return &FormatError{Name: name, Err: err}
	}

	if err := s.unmarshal(name, data, c); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "database loaded",
		slog.String("name", name),
		slog.Int("entries", s.Len()))

	return nil
}

// Encode writes the uncompressed document to w.
func (s *FeatureStore) Encode(w io.Writer, c codec.Codec) error {
	data, err := s.marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode replaces the store contents with the uncompressed document read from r.
func (s *FeatureStore) Decode(r io.Reader, c codec.Codec) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return s.unmarshal("", data, c)
}

func (s *FeatureStore) marshal(c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}

	data, err := c.Marshal(s.snapshot())
	if err != nil {
		return nil, fmt.Errorf("store: encode with %s: %w", c.Name(), err)
	}
	return data, nil
}

func (s *FeatureStore) unmarshal(name string, data []byte, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}

	var doc map[string][]float32
	if err := c.Unmarshal(data, &doc); err != nil {
		return &FormatError{Name: name, Err: err}
	}

	entries, dim, err := s.validate(name, doc)
	if err != nil {
		return err
	}

	s.replace(entries, dim)

	return nil
}

func (s *FeatureStore) validate(name string, doc map[string][]float32) (map[model.ImageID]model.Descriptor, int, error) {
	if doc == nil {
		return nil, 0, &FormatError{Name: name, Err: errNullDocument}
	}

	dim := 0
	entries := make(map[model.ImageID]model.Descriptor, len(doc))
	for id, v := range doc {
		if id == "" {
			return nil, 0, &FormatError{Name: name, Err: errEmptyKey}
		}
		if len(v) == 0 {
			return nil, 0, &FormatError{Name: name, Err: fmt.Errorf("%q: %w", id, errEmptyVector)}
		}
		if dim == 0 {
			dim = len(v)
		} else if len(v) != dim {
			return nil, 0, &FormatError{Name: name, Err: fmt.Errorf("%q: %w", id, errMixedElements)}
		}
		for _, f := range v {
			if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
				return nil, 0, &FormatError{Name: name, Err: fmt.Errorf("%q: %w", id, errNonFinite)}
			}
		}
		entries[model.ImageID(id)] = model.Descriptor(v)
	}

	if s.fixedDim != 0 && dim != 0 && dim != s.fixedDim {
		return nil, 0, &metric.ErrDimensionMismatch{Expected: s.fixedDim, Actual: dim}
	}

	return entries, dim, nil
}
