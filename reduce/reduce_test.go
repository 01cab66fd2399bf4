package reduce

import (
	"testing"

	"github.com/hupe1980/imgsearch/metric"
	"github.com/hupe1980/imgsearch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	d := model.Descriptor{0.5, 0.5}
	out, err := Identity{}.Reduce(d)
	require.NoError(t, err)
	assert.Equal(t, d, out)
	assert.Zero(t, Identity{}.OutputDimension())
}

func TestProjection(t *testing.T) {
	p, err := NewProjection([][]float32{
		{1, 0, 0},
		{0, 1, 1},
	}, []float32{0.5, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, p.InputDimension())
	assert.Equal(t, 2, p.OutputDimension())

	out, err := p.Reduce(model.Descriptor{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, model.Descriptor{0.5, 5}, out)

	_, err = p.Reduce(model.Descriptor{1, 2})
	var dm *metric.ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
}

func TestNewProjection_Invalid(t *testing.T) {
	_, err := NewProjection(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyProjection)

	_, err = NewProjection([][]float32{{1, 2}, {1}}, nil)
	var dm *metric.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)

	_, err = NewProjection([][]float32{{1, 2}}, []float32{1})
	assert.ErrorAs(t, err, &dm)
}
