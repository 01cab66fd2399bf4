package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	t.Run("Identity", func(t *testing.T) {
		vecs := [][]float32{
			{1, 0, 0},
			{0.25, 0.25, 0.5},
			{0.001, 0.9, 0.099},
			{3, 4},
		}
		for _, v := range vecs {
			s, err := Cosine(v, v)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, s, 1e-6)
		}
	})

	t.Run("Symmetry", func(t *testing.T) {
		pairs := [][2][]float32{
			{{1, 2, 3}, {3, 2, 1}},
			{{0.1, 0.9, 0}, {0.5, 0.5, 0}},
			{{0, 0, 1}, {1, 0, 0}},
		}
		for _, p := range pairs {
			ab, err := Cosine(p[0], p[1])
			require.NoError(t, err)
			ba, err := Cosine(p[1], p[0])
			require.NoError(t, err)
			assert.Equal(t, ab, ba)
		}
	})

	t.Run("Orthogonal", func(t *testing.T) {
		s, err := Cosine([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.Zero(t, s)
	})

	t.Run("ZeroMagnitude", func(t *testing.T) {
		zero := []float32{0, 0, 0}

		s, err := Cosine(zero, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, float32(0), s)

		s, err = Cosine(zero, zero)
		require.NoError(t, err)
		assert.Equal(t, float32(0), s)
		assert.False(t, math.IsNaN(float64(s)))
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})

		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
	})
}

func TestCosineScorer(t *testing.T) {
	var s Scorer = CosineScorer{}

	score, err := s.Score([]float32{1, 1}, []float32{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-6)
	assert.Equal(t, "cosine", s.Name())
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, Magnitude([]float32{3, 4}), 1e-9)
	assert.InDelta(t, 11.0, Dot([]float32{1, 2}, []float32{3, 4}), 1e-9)
}
