// Package reduce provides optional dimensionality reduction for descriptors.
//
// A Reducer is applied uniformly to every stored descriptor and to every query
// descriptor before scoring, so a store never mixes dimensionalities.
package reduce

import (
	"errors"

	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/model"
)

// ErrEmptyProjection is returned for a projection without rows or columns.
var ErrEmptyProjection = errors.New("reduce: projection matrix is empty")

// Reducer maps a descriptor to a lower-dimensional descriptor.
// Implementations must be pure and safe for concurrent use.
type Reducer interface {
	Reduce(d model.Descriptor) (model.Descriptor, error)
	// InputDimension and OutputDimension return 0 when any length is accepted.
	InputDimension() int
	OutputDimension() int
}

// Identity returns its input unchanged.
type Identity struct{}

func (Identity) Reduce(d model.Descriptor) (model.Descriptor, error) { return d, nil }
func (Identity) InputDimension() int                                 { return 0 }
func (Identity) OutputDimension() int                                { return 0 }

// Projection is a fixed linear map out = W·(in - mean), for example principal
// components fitted offline on a training set of descriptors.
type Projection struct {
	mean       []float32
	components [][]float32
}

// NewProjection creates a projection from a components matrix with one row per
// output dimension. mean may be nil.
func NewProjection(components [][]float32, mean []float32) (*Projection, error) {
	if len(components) == 0 || len(components[0]) == 0 {
		return nil, ErrEmptyProjection
	}
	in := len(components[0])
	for _, row := range components {
		if len(row) != in {
			return nil, &metric.ErrDimensionMismatch{Expected: in, Actual: len(row)}
		}
	}
	if mean != nil && len(mean) != in {
		return nil, &metric.ErrDimensionMismatch{Expected: in, Actual: len(mean)}
	}
	return &Projection{mean: mean, components: components}, nil
}

// InputDimension returns the expected descriptor length.
func (p *Projection) InputDimension() int { return len(p.components[0]) }

// OutputDimension returns the number of components.
func (p *Projection) OutputDimension() int { return len(p.components) }

// Reduce projects d onto the components.
func (p *Projection) Reduce(d model.Descriptor) (model.Descriptor, error) {
	if len(d) != p.InputDimension() {
		return nil, &metric.ErrDimensionMismatch{Expected: p.InputDimension(), Actual: len(d)}
	}

	centered := d
	if p.mean != nil {
		centered = make(model.Descriptor, len(d))
		for i := range d {
			centered[i] = d[i] - p.mean[i]
		}
	}

	out := make(model.Descriptor, len(p.components))
	for i, row := range p.components {
		out[i] = float32(metric.Dot(row, centered))
	}
	return out, nil
}
