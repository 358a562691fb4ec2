package sgan_go

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// TrainSet Collection of images with integer labels.
//
// Images - NCHW tensor, values normalized to [-1;1]
// Labels - one integer label in [0;NumClasses) per image
//
type TrainSet struct {
	Images *tensor.Dense
	Labels []int
}

// NewTrainSet Constructor for TrainSet with shape validation
func NewTrainSet(images *tensor.Dense, labels []int) (*TrainSet, error) {
	if images.Dims() != 4 {
		return nil, fmt.Errorf("Images tensor must have 4 dimensions (NCHW), but got %d", images.Dims())
	}
	if images.Shape()[0] != len(labels) {
		return nil, fmt.Errorf("Number of images (%d) does not match number of labels (%d)", images.Shape()[0], len(labels))
	}
	return &TrainSet{Images: images, Labels: labels}, nil
}

// Len Returns number of samples
func (set *TrainSet) Len() int {
	return len(set.Labels)
}

// Gather Copies samples at the provided indices into a fresh TrainSet
func (set *TrainSet) Gather(indices []int) (*TrainSet, error) {
	shp := set.Images.Shape()
	sampleSize := shp.TotalSize() / shp[0]
	data := set.Images.Data().([]float64)
	backing := make([]float64, len(indices)*sampleSize)
	labels := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= shp[0] {
			return nil, fmt.Errorf("Index #%d is out of range [0;%d): %d", i, shp[0], idx)
		}
		copy(backing[i*sampleSize:(i+1)*sampleSize], data[idx*sampleSize:(idx+1)*sampleSize])
		labels[i] = set.Labels[idx]
	}
	outShape := append([]int{len(indices)}, shp[1:]...)
	images := tensor.New(tensor.WithShape(outShape...), tensor.WithBacking(backing))
	return &TrainSet{Images: images, Labels: labels}, nil
}

// SampleBatch Draws n uniformly random samples with replacement
func (set *TrainSet) SampleBatch(rnd *rand.Rand, n int) (*TrainSet, error) {
	if set.Len() == 0 {
		return nil, fmt.Errorf("Can't sample from an empty train set")
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rnd.Intn(set.Len())
	}
	return set.Gather(indices)
}

// NormalizeBytePixels Maps raw byte pixels [0;255] into [-1;1] NCHW tensor
func NormalizeBytePixels(pixels []byte, n, channels, rows, cols int) (*tensor.Dense, error) {
	if len(pixels) != n*channels*rows*cols {
		return nil, fmt.Errorf("Expected %d pixels, but got %d", n*channels*rows*cols, len(pixels))
	}
	backing := make([]float64, len(pixels))
	for i, p := range pixels {
		backing[i] = (float64(p) - 127.5) / 127.5
	}
	return tensor.New(tensor.WithShape(n, channels, rows, cols), tensor.WithBacking(backing)), nil
}
