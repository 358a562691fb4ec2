package sgan_go

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Layer Weight+Bias+ActivationFunction combo with layer type specific attributes
type Layer struct {
	Name       string
	WeightNode *gorgonia.Node
	BiasNode   *gorgonia.Node
	// Affine parameters of batch normalization layer
	ScaleNode *gorgonia.Node
	ShiftNode *gorgonia.Node

	Activation ActivationFunc
	Type       LayerType

	KernelHeight int
	KernelWidth  int
	Padding      []int
	Stride       []int
	Dilation     []int
	ReshapeDims  []int

	// Probability of dropping a unit (dropout layer)
	Probability float64
	// Scale factor of upsampling layer
	UpsampleScale int
	// Rows/columns of zeroes around the spatial dimensions: top, bottom, left, right
	ZeroPadding [4]int
	// Batch normalization attributes. Momentum is kept for the serialized
	// architecture description: normalization itself runs on batch statistics.
	Momentum float64
	Epsilon  float64
}

type LayerType uint16

const (
	LayerLinear = LayerType(iota)
	LayerFlatten
	LayerConvolutional
	LayerMaxpool
	LayerReshape
	LayerDropout
	LayerUpsample
	LayerZeroPad
	LayerBatchNorm
)

var (
	allowedNoWeights = []LayerType{LayerMaxpool, LayerFlatten, LayerReshape, LayerDropout, LayerUpsample, LayerZeroPad, LayerBatchNorm}
)

func noWeightsAllowed(checkType LayerType) bool {
	return checkLayerType(checkType, allowedNoWeights...)
}

func checkLayerType(checkType LayerType, t ...LayerType) bool {
	for _, typeOf := range t {
		if checkType == typeOf {
			return true
		}
	}
	return false
}

// Fwd Feedforwards the provided input through the layer (activation function is not applied)
//
// batchSize - batch size. If it's >= 2 then broadcast function will be applied for bias nodes
// input - previous layer's activated output (or network's input node)
//
func (l *Layer) Fwd(batchSize int, input *gorgonia.Node) (*gorgonia.Node, error) {
	switch l.Type {
	case LayerLinear:
		tOp, err := gorgonia.Transpose(l.WeightNode)
		if err != nil {
			return nil, errors.Wrap(err, "Can't transpose weights")
		}
		nonActivated, err := gorgonia.Mul(input, tOp)
		if err != nil {
			return nil, errors.Wrap(err, "Can't multiply input and weights")
		}
		if l.BiasNode == nil {
			return nonActivated, nil
		}
		if batchSize < 2 {
			nonActivated, err = gorgonia.Add(nonActivated, l.BiasNode)
			if err != nil {
				return nil, errors.Wrap(err, "Can't add bias to non-activated output")
			}
			return nonActivated, nil
		}
		nonActivated, err = gorgonia.BroadcastAdd(nonActivated, l.BiasNode, nil, []byte{0})
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Can't add bias [in broadcast term with batch_size = %d] to non-activated output", batchSize))
		}
		return nonActivated, nil
	case LayerConvolutional:
		nonActivated, err := gorgonia.Conv2d(input, l.WeightNode, tensor.Shape{l.KernelHeight, l.KernelWidth}, l.Padding, l.Stride, l.Dilation)
		if err != nil {
			return nil, errors.Wrap(err, "Can't convolve[2D] input by kernel")
		}
		if l.BiasNode == nil {
			return nonActivated, nil
		}
		nonActivated, err = gorgonia.BroadcastAdd(nonActivated, l.BiasNode, nil, []byte{0, 2, 3})
		if err != nil {
			return nil, errors.Wrap(err, "Can't add bias to non-activated output of convolution")
		}
		return nonActivated, nil
	case LayerMaxpool:
		nonActivated, err := gorgonia.MaxPool2D(input, tensor.Shape{l.KernelHeight, l.KernelWidth}, l.Padding, l.Stride)
		if err != nil {
			return nil, errors.Wrap(err, "Can't maxpool[2D] input by kernel")
		}
		return nonActivated, nil
	case LayerFlatten:
		nonActivated, err := gorgonia.Reshape(input, tensor.Shape{batchSize, input.Shape().TotalSize() / batchSize})
		if err != nil {
			return nil, errors.Wrap(err, "Can't flatten input")
		}
		return nonActivated, nil
	case LayerReshape:
		nonActivated, err := gorgonia.Reshape(input, l.ReshapeDims)
		if err != nil {
			return nil, errors.Wrap(err, "Can't reshape input")
		}
		return nonActivated, nil
	case LayerDropout:
		nonActivated, err := gorgonia.Dropout(input, l.Probability)
		if err != nil {
			return nil, errors.Wrap(err, "Can't apply dropout to input")
		}
		return nonActivated, nil
	case LayerUpsample:
		nonActivated, err := gorgonia.Upsample2D(input, l.UpsampleScale)
		if err != nil {
			return nil, errors.Wrap(err, "Can't upsample[2D] input")
		}
		return nonActivated, nil
	case LayerZeroPad:
		nonActivated, err := l.fwdZeroPad(input)
		if err != nil {
			return nil, errors.Wrap(err, "Can't zero-pad input")
		}
		return nonActivated, nil
	case LayerBatchNorm:
		nonActivated, err := l.fwdBatchNorm(input)
		if err != nil {
			return nil, errors.Wrap(err, "Can't apply batch normalization to input")
		}
		return nonActivated, nil
	default:
		return nil, fmt.Errorf("Layer type '%d' (uint16) is not handled", l.Type)
	}
}

// fwdZeroPad Pads spatial dimensions of NCHW input with rows/columns of zeroes.
// Gorgonia's Conv2d accepts symmetric padding only, so the asymmetric
// adjustment before a stride-2 stage is done via concatenation with constant zero tensors.
func (l *Layer) fwdZeroPad(input *gorgonia.Node) (*gorgonia.Node, error) {
	if input.Dims() != 4 {
		return nil, fmt.Errorf("Zero-padding expects 4 dimensions in input tensor, but got %d", input.Dims())
	}
	g := input.Graph()
	out := input
	var err error
	top, bottom, left, right := l.ZeroPadding[0], l.ZeroPadding[1], l.ZeroPadding[2], l.ZeroPadding[3]
	shp := input.Shape()
	batch, channels, height, width := shp[0], shp[1], shp[2], shp[3]
	if top > 0 {
		zeroes := zeroesNode(g, fmt.Sprintf("%s_pad_top", l.Name), batch, channels, top, width)
		if out, err = gorgonia.Concat(2, zeroes, out); err != nil {
			return nil, errors.Wrap(err, "Can't concatenate zeroes on top")
		}
		height += top
	}
	if bottom > 0 {
		zeroes := zeroesNode(g, fmt.Sprintf("%s_pad_bottom", l.Name), batch, channels, bottom, width)
		if out, err = gorgonia.Concat(2, out, zeroes); err != nil {
			return nil, errors.Wrap(err, "Can't concatenate zeroes on bottom")
		}
		height += bottom
	}
	if left > 0 {
		zeroes := zeroesNode(g, fmt.Sprintf("%s_pad_left", l.Name), batch, channels, height, left)
		if out, err = gorgonia.Concat(3, zeroes, out); err != nil {
			return nil, errors.Wrap(err, "Can't concatenate zeroes on left")
		}
	}
	if right > 0 {
		zeroes := zeroesNode(g, fmt.Sprintf("%s_pad_right", l.Name), batch, channels, height, right)
		if out, err = gorgonia.Concat(3, out, zeroes); err != nil {
			return nil, errors.Wrap(err, "Can't concatenate zeroes on right")
		}
	}
	return out, nil
}

// fwdBatchNorm Normalizes NCHW input over batch statistics (per channel) and
// applies learnable affine transformation: scale*(x-mean)/sqrt(var+eps)+shift
func (l *Layer) fwdBatchNorm(input *gorgonia.Node) (*gorgonia.Node, error) {
	if input.Dims() != 4 {
		return nil, fmt.Errorf("Batch normalization expects 4 dimensions in input tensor, but got %d", input.Dims())
	}
	if l.ScaleNode == nil || l.ShiftNode == nil {
		return nil, fmt.Errorf("Batch normalization layer '%s' has nil scale/shift node", l.Name)
	}
	channels := input.Shape()[1]
	mean, err := gorgonia.Mean(input, 0, 2, 3)
	if err != nil {
		return nil, errors.Wrap(err, "Can't evaluate mean over batch")
	}
	mean4, err := gorgonia.Reshape(mean, tensor.Shape{1, channels, 1, 1})
	if err != nil {
		return nil, errors.Wrap(err, "Can't reshape mean to NCHW")
	}
	centered, err := gorgonia.BroadcastSub(input, mean4, nil, []byte{0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "Can't center input")
	}
	sqr, err := gorgonia.Square(centered)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do (x^2)")
	}
	variance, err := gorgonia.Mean(sqr, 0, 2, 3)
	if err != nil {
		return nil, errors.Wrap(err, "Can't evaluate variance over batch")
	}
	variance4, err := gorgonia.Reshape(variance, tensor.Shape{1, channels, 1, 1})
	if err != nil {
		return nil, errors.Wrap(err, "Can't reshape variance to NCHW")
	}
	epsScalar := gorgonia.NewScalar(input.Graph(), input.Dtype(), gorgonia.WithValue(l.Epsilon), gorgonia.WithName(fmt.Sprintf("%s_eps", l.Name)))
	varianceEps, err := gorgonia.Add(variance4, epsScalar)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do (x+eps)")
	}
	invStd, err := gorgonia.InverseSqrt(varianceEps)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do 1/√x")
	}
	normalized, err := gorgonia.BroadcastHadamardProd(centered, invStd, nil, []byte{0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "Can't normalize centered input")
	}
	scaled, err := gorgonia.BroadcastHadamardProd(normalized, l.ScaleNode, nil, []byte{0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "Can't scale normalized input")
	}
	shifted, err := gorgonia.BroadcastAdd(scaled, l.ShiftNode, nil, []byte{0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "Can't shift scaled input")
	}
	return shifted, nil
}

func zeroesNode(g *gorgonia.ExprGraph, name string, dims ...int) *gorgonia.Node {
	backing := tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(dims...))
	return gorgonia.NewTensor(g, gorgonia.Float64, len(dims), gorgonia.WithShape(dims...), gorgonia.WithName(name), gorgonia.WithValue(backing))
}
