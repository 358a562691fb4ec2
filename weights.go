package sgan_go

import (
	"fmt"

	"gorgonia.org/tensor"
)

// ClassWeights Two parallel weighting schemes for the discriminator's heads.
//
// Validity - weights for the binary head, index 0 = fake, index 1 = real
// Class - weights for the class head, indexed by class label (FakeClass included)
//
// Half of the labels the discriminator trains on are the fake sentinel while
// real samples are split across NumClasses digits, so the class head scheme
// rescales per-sample losses to keep the aggregate gradient contribution of
// the fake half equal to the one of the real half.
type ClassWeights struct {
	Validity []float64
	Class    []float64
}

// NewClassWeights Computes both schemes for the given class count and half
// batch size. Must be recomputed whenever either value changes.
func NewClassWeights(numClasses, halfBatch int) (*ClassWeights, error) {
	if numClasses < 1 {
		return nil, fmt.Errorf("Number of classes must be positive, but got %d", numClasses)
	}
	if halfBatch < 1 {
		return nil, fmt.Errorf("Half batch size must be positive, but got %d", halfBatch)
	}
	cw := ClassWeights{
		Validity: []float64{1.0, 1.0},
		Class:    make([]float64, numClasses+1),
	}
	for i := 0; i < numClasses; i++ {
		cw.Class[i] = float64(numClasses) / float64(halfBatch)
	}
	cw.Class[numClasses] = 1.0 / float64(halfBatch)
	return &cw, nil
}

// ValiditySamplesDense Expands the validity scheme into a per-sample weight
// tensor of shape (batch, 1) for the given binary targets (1 = real, 0 = fake)
func (cw *ClassWeights) ValiditySamplesDense(targets []float64) (*tensor.Dense, error) {
	backing := make([]float64, len(targets))
	for i, t := range targets {
		switch t {
		case 0.0:
			backing[i] = cw.Validity[0]
		case 1.0:
			backing[i] = cw.Validity[1]
		default:
			return nil, fmt.Errorf("Validity target #%d must be either 0 or 1, but got %f", i, t)
		}
	}
	return tensor.New(tensor.WithShape(len(targets), 1), tensor.WithBacking(backing)), nil
}

// ClassSamplesDense Expands the class scheme into a per-sample weight tensor
// of shape (batch) for the given integer labels
func (cw *ClassWeights) ClassSamplesDense(labels []int) (*tensor.Dense, error) {
	backing := make([]float64, len(labels))
	for i, label := range labels {
		if label < 0 || label >= len(cw.Class) {
			return nil, fmt.Errorf("Label #%d is out of range [0;%d]: %d", i, len(cw.Class)-1, label)
		}
		backing[i] = cw.Class[label]
	}
	return tensor.New(tensor.WithShape(len(labels)), tensor.WithBacking(backing)), nil
}
