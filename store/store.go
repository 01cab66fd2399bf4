package store

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/model"
)

// FeatureStore maps image identifiers to descriptors.
// All methods are safe for concurrent use.
type FeatureStore struct {
	mu         sync.RWMutex
	entries    map[model.ImageID]model.Descriptor
	fixedDim   int
	dim        int
	generation atomic.Uint64
	logger     *slog.Logger
}

// New creates an empty store.
func New(optFns ...Option) *FeatureStore {
	o := options{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	return &FeatureStore{
		entries:  make(map[model.ImageID]model.Descriptor),
		fixedDim: o.dimension,
		dim:      o.dimension,
		logger:   o.logger,
	}
}

// Insert adds a copy of d under id.
func (s *FeatureStore) Insert(id model.ImageID, d model.Descriptor) error {
	if id == "" {
		return ErrEmptyID
	}
	if len(d) == 0 {
		return ErrEmptyDescriptor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim != 0 && len(d) != s.dim {
		return &metric.ErrDimensionMismatch{Expected: s.dim, Actual: len(d)}
	}
	if _, ok := s.entries[id]; ok {
		return ErrDuplicateID
	}

	s.entries[id] = d.Clone()
	if s.dim == 0 {
		s.dim = len(d)
	}
	s.generation.Add(1)

	return nil
}

// Get returns a copy of the descriptor stored under id.
func (s *FeatureStore) Get(id model.ImageID) (model.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// All returns a snapshot of every entry ordered by identifier. Descriptors
// are copies and may be modified by the caller.
func (s *FeatureStore) All() []model.Entry {
	s.mu.RLock()
	out := make([]model.Entry, 0, len(s.entries))
	for id, d := range s.entries {
		out = append(out, model.Entry{ID: id, Descriptor: d.Clone()})
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Entry) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})

	return out
}

// Len returns the number of entries.
func (s *FeatureStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Dimension returns the descriptor dimension, or 0 if not yet known.
func (s *FeatureStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dim
}

// Generation changes every time the contents change.
func (s *FeatureStore) Generation() uint64 {
	return s.generation.Load()
}

// Reset removes every entry.
func (s *FeatureStore) Reset() {
	s.replace(make(map[model.ImageID]model.Descriptor), 0)
}

// replace swaps in entries, which must already be validated and owned by the store.
func (s *FeatureStore) replace(entries map[model.ImageID]model.Descriptor, dim int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = entries
	if dim == 0 {
		dim = s.fixedDim
	}
	s.dim = dim
	s.generation.Add(1)
}

// snapshot copies the mapping into the persisted document shape.
func (s *FeatureStore) snapshot() map[string][]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := make(map[string][]float32, len(s.entries))
	for id, d := range s.entries {
		doc[string(id)] = d.Clone()
	}
	return doc
}
