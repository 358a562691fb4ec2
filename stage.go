package sgan_go

import (
	"fmt"
)

// StageKind Tag for architecture stage descriptors
type StageKind string

const (
	StageDense      = StageKind("dense")
	StageConv       = StageKind("conv")
	StageBatchNorm  = StageKind("batch_norm")
	StageActivation = StageKind("activation")
	StageDropout    = StageKind("dropout")
	StageUpsample   = StageKind("upsample")
	StageZeroPad    = StageKind("zero_pad")
	StageReshape    = StageKind("reshape")
	StageFlatten    = StageKind("flatten")
	StageMaxpool    = StageKind("maxpool")
)

// Activation kinds accepted by stage descriptors
const (
	ActivationNone      = "none"
	ActivationReLU      = "relu"
	ActivationLeakyReLU = "leaky_relu"
	ActivationSigmoid   = "sigmoid"
	ActivationTanh      = "tanh"
	ActivationSoftmax   = "softmax"
)

// Stage Declarative descriptor of a single network stage. The whole
// architecture is an ordered []Stage consumed by BuildNetwork, so it can be
// validated, serialized and re-built independently of graph bindings.
// Only the fields relevant for the given Kind are meaningful.
type Stage struct {
	Kind StageKind `json:"kind"`

	// Dense
	Output int `json:"output,omitempty"`
	// Convolution / maxpool
	Filters int `json:"filters,omitempty"`
	Kernel  int `json:"kernel,omitempty"`
	Stride  int `json:"stride,omitempty"`
	Pad     int `json:"pad,omitempty"`
	// Activation (either standalone stage or attached to dense/conv)
	Activation string  `json:"activation,omitempty"`
	Alpha      float64 `json:"alpha,omitempty"`
	Axis       int     `json:"axis,omitempty"`
	// Dropout
	Rate float64 `json:"rate,omitempty"`
	// Upsample
	Scale int `json:"scale,omitempty"`
	// Zero padding: top, bottom, left, right
	Pads [4]int `json:"pads,omitempty"`
	// Reshape (without batch dimension)
	Dims []int `json:"dims,omitempty"`
	// Batch normalization
	Momentum float64 `json:"momentum,omitempty"`
	Epsilon  float64 `json:"epsilon,omitempty"`
}

// activationByName Resolves stage's activation descriptor into ActivationFunc
func activationByName(name string, alpha float64, axis int) (ActivationFunc, error) {
	switch name {
	case "", ActivationNone:
		return NoActivation, nil
	case ActivationReLU:
		return Rectify, nil
	case ActivationLeakyReLU:
		if alpha == 0.0 {
			alpha = 0.2
		}
		return BindOptions(LeakyRectify, Options{Alpha: alpha}), nil
	case ActivationSigmoid:
		return Sigmoid, nil
	case ActivationTanh:
		return Tanh, nil
	case ActivationSoftmax:
		return BindOptions(Softmax, Options{Axis: []int{axis}}), nil
	default:
		return nil, fmt.Errorf("Activation '%s' is not handled", name)
	}
}
