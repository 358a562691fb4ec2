package sgan_go

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// NormRandDense Return reference to tensor.Dense filled with normally
// distributed float64 values drawn from the provided random source
//
// batchSize - Simply batch size
// n - Number of elements in each batch
// Resulting dense will have batchSize*n elements
//
func NormRandDense(rnd *rand.Rand, batchSize, n int) *tensor.Dense {
	normal := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rnd}
	data := make([]float64, batchSize*n)
	for i := range data {
		data[i] = normal.Rand()
	}
	return tensor.New(tensor.WithShape(batchSize, n), tensor.WithBacking(data))
}

// UniformRandDense Return reference to tensor.Dense filled with pseudo-random
// float64 values in range [0.0,1.0) drawn from the provided random source
//
// batchSize - Simply batch size
// n - Number of elements in each batch
// Resulting dense will have batchSize*n elements
//
func UniformRandDense(rnd *rand.Rand, batchSize, n int) *tensor.Dense {
	data := make([]float64, batchSize*n)
	for i := range data {
		data[i] = rnd.Float64()
	}
	return tensor.New(tensor.WithShape(batchSize, n), tensor.WithBacking(data))
}

// OneHotDense Encodes integer labels into one-hot rows of given width
func OneHotDense(labels []int, numClasses int) (*tensor.Dense, error) {
	backing := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return nil, fmt.Errorf("Label #%d is out of range [0;%d): %d", i, numClasses, label)
		}
		backing[i*numClasses+label] = 1.0
	}
	return tensor.New(tensor.WithShape(len(labels), numClasses), tensor.WithBacking(backing)), nil
}

// ConstDense Returns tensor of provided shape filled with a constant value
func ConstDense(value float64, dims ...int) *tensor.Dense {
	total := 1
	for _, d := range dims {
		total *= d
	}
	backing := make([]float64, total)
	for i := range backing {
		backing[i] = value
	}
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(backing))
}

// headDense Copies first n samples (along axis 0) of the provided dense into a new one
func headDense(t *tensor.Dense, n int) (*tensor.Dense, error) {
	shp := t.Shape()
	if n > shp[0] {
		return nil, fmt.Errorf("Can't take %d samples out of %d", n, shp[0])
	}
	sampleSize := shp.TotalSize() / shp[0]
	data := t.Data().([]float64)
	backing := make([]float64, n*sampleSize)
	copy(backing, data[:n*sampleSize])
	outShape := append([]int{n}, shp[1:]...)
	return tensor.New(tensor.WithShape(outShape...), tensor.WithBacking(backing)), nil
}

// argmaxRows Per-row index of the maximum over the first `width` columns of
// a (rows, cols) backing slice. Width lets callers ignore trailing columns.
func argmaxRows(data []float64, rows, cols, width int) []int {
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		best := math.Inf(-1)
		for j := 0; j < width; j++ {
			if v := data[i*cols+j]; v > best {
				best = v
				out[i] = j
			}
		}
	}
	return out
}

// anyNonFinite Reports whether any of provided values is NaN or infinity
func anyNonFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
