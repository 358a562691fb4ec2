package sgan_go

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

func TestNormRandDense(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	dense := NormRandDense(rnd, 4, 100)
	assert.Equal(t, []int{4, 100}, []int(dense.Shape()))
	data := dense.Data().([]float64)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	assert.InDelta(t, 0.0, mean, 0.25)
}

func TestNormRandDenseReproducible(t *testing.T) {
	first := NormRandDense(rand.New(rand.NewSource(7)), 2, 10)
	second := NormRandDense(rand.New(rand.NewSource(7)), 2, 10)
	assert.Equal(t, first.Data().([]float64), second.Data().([]float64))
}

func TestOneHotDense(t *testing.T) {
	dense, err := OneHotDense([]int{0, 2, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, []int(dense.Shape()))
	assert.Equal(t, []float64{
		1, 0, 0,
		0, 0, 1,
		0, 1, 0,
	}, dense.Data().([]float64))

	_, err = OneHotDense([]int{3}, 3)
	assert.Error(t, err)
}

func TestConstDense(t *testing.T) {
	dense := ConstDense(0.5, 2, 3)
	assert.Equal(t, []int{2, 3}, []int(dense.Shape()))
	for _, v := range dense.Data().([]float64) {
		assert.Equal(t, 0.5, v)
	}
}

func TestHeadDense(t *testing.T) {
	src := tensor.New(tensor.WithShape(3, 2), tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}))
	head, err := headDense(src, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, []int(head.Shape()))
	assert.Equal(t, []float64{1, 2, 3, 4}, head.Data().([]float64))

	// Mutating the copy must not touch the source
	head.Data().([]float64)[0] = 100.0
	assert.Equal(t, 1.0, src.Data().([]float64)[0])

	_, err = headDense(src, 4)
	assert.Error(t, err)
}

func TestArgmaxRows(t *testing.T) {
	data := []float64{
		0.1, 0.7, 0.2,
		0.5, 0.1, 0.9,
	}
	assert.Equal(t, []int{1, 2}, argmaxRows(data, 2, 3, 3))
	// Restricted width must ignore the trailing column
	assert.Equal(t, []int{1, 0}, argmaxRows(data, 2, 3, 2))
}

func TestAnyNonFinite(t *testing.T) {
	assert.False(t, anyNonFinite(0.0, -1.5, 42.0))
	assert.True(t, anyNonFinite(1.0, math.NaN()))
	assert.True(t, anyNonFinite(math.Inf(1)))
	assert.True(t, anyNonFinite(math.Inf(-1)))
}
