package sgan_go

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Initializer Draws initial parameter values from an explicitly provided
// random source. Gorgonia's own init functions seed their generators
// internally, which would break run-to-run reproducibility of the whole
// pipeline, so parameter initialization is kept on the same stream as fold
// assignment and batch sampling.
type Initializer struct {
	normal distuv.Normal
}

// NewInitializer Constructor for Initializer
func NewInitializer(rnd *rand.Rand) *Initializer {
	return &Initializer{normal: distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rnd}}
}

// GlorotN Normal Glorot-Bengio initialization backing for given node dimensions.
// For convolution kernels (4D) receptive field size is taken into account.
func (init *Initializer) GlorotN(gain float64, dims ...int) []float64 {
	receptive := 1
	for i := 2; i < len(dims); i++ {
		receptive *= dims[i]
	}
	fanOut := dims[0] * receptive
	fanIn := receptive
	if len(dims) > 1 {
		fanIn = dims[1] * receptive
	}
	std := gain * math.Sqrt(2.0/float64(fanIn+fanOut))
	total := 1
	for _, d := range dims {
		total *= d
	}
	backing := make([]float64, total)
	for i := range backing {
		backing[i] = init.normal.Rand() * std
	}
	return backing
}

func constBacking(value float64, dims ...int) []float64 {
	total := 1
	for _, d := range dims {
		total *= d
	}
	backing := make([]float64, total)
	for i := range backing {
		backing[i] = value
	}
	return backing
}

func newParamNode(g *gorgonia.ExprGraph, name string, backing []float64, dims ...int) *gorgonia.Node {
	value := tensor.New(tensor.WithShape(dims...), tensor.WithBacking(backing))
	return gorgonia.NewTensor(g, gorgonia.Float64, len(dims), gorgonia.WithShape(dims...), gorgonia.WithName(name), gorgonia.WithValue(value))
}

// BuildNetwork Consumes an ordered stage list and produces a Network with
// freshly initialized parameter nodes on the provided graph. Output shapes
// are traced stage by stage, so malformed architecture descriptions are
// rejected before any graph evaluation happens.
//
// inputShape - full input shape including batch dimension
//
func BuildNetwork(g *gorgonia.ExprGraph, name string, inputShape tensor.Shape, stages []Stage, init *Initializer) (*Network, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("Network must have one stage atleast")
	}
	cur := make([]int, len(inputShape))
	copy(cur, inputShape)
	layers := make([]*Layer, 0, len(stages))
	for i, stage := range stages {
		layerName := fmt.Sprintf("%s_%d", name, i)
		switch stage.Kind {
		case StageDense:
			if len(cur) != 2 {
				return nil, fmt.Errorf("Stage #%d [dense]: expected 2-dimensional input, but got shape %v", i, cur)
			}
			if stage.Output <= 0 {
				return nil, fmt.Errorf("Stage #%d [dense]: output size must be positive", i)
			}
			inFeatures := cur[1]
			weight := newParamNode(g, layerName+"_w", init.GlorotN(1.0, stage.Output, inFeatures), stage.Output, inFeatures)
			bias := newParamNode(g, layerName+"_b", constBacking(0.0, 1, stage.Output), 1, stage.Output)
			layer := &Layer{
				Name:       layerName,
				WeightNode: weight,
				BiasNode:   bias,
				Type:       LayerLinear,
			}
			if err := attachActivation(layer, stage); err != nil {
				return nil, fmt.Errorf("Stage #%d [dense]: %s", i, err.Error())
			}
			layers = append(layers, layer)
			cur = []int{cur[0], stage.Output}
		case StageConv:
			if len(cur) != 4 {
				return nil, fmt.Errorf("Stage #%d [conv]: expected 4-dimensional input, but got shape %v", i, cur)
			}
			if stage.Filters <= 0 || stage.Kernel <= 0 {
				return nil, fmt.Errorf("Stage #%d [conv]: filters and kernel size must be positive", i)
			}
			stride := stage.Stride
			if stride == 0 {
				stride = 1
			}
			inChannels := cur[1]
			wDims := []int{stage.Filters, inChannels, stage.Kernel, stage.Kernel}
			weight := newParamNode(g, layerName+"_w", init.GlorotN(1.0, wDims...), wDims...)
			bias := newParamNode(g, layerName+"_b", constBacking(0.0, 1, stage.Filters, 1, 1), 1, stage.Filters, 1, 1)
			layer := &Layer{
				Name:         layerName,
				WeightNode:   weight,
				BiasNode:     bias,
				Type:         LayerConvolutional,
				KernelHeight: stage.Kernel,
				KernelWidth:  stage.Kernel,
				Padding:      []int{stage.Pad, stage.Pad},
				Stride:       []int{stride, stride},
				Dilation:     []int{1, 1},
			}
			if err := attachActivation(layer, stage); err != nil {
				return nil, fmt.Errorf("Stage #%d [conv]: %s", i, err.Error())
			}
			layers = append(layers, layer)
			outHeight := (cur[2]+2*stage.Pad-stage.Kernel)/stride + 1
			outWidth := (cur[3]+2*stage.Pad-stage.Kernel)/stride + 1
			if outHeight <= 0 || outWidth <= 0 {
				return nil, fmt.Errorf("Stage #%d [conv]: output spatial dimensions collapsed to %dx%d", i, outHeight, outWidth)
			}
			cur = []int{cur[0], stage.Filters, outHeight, outWidth}
		case StageMaxpool:
			if len(cur) != 4 {
				return nil, fmt.Errorf("Stage #%d [maxpool]: expected 4-dimensional input, but got shape %v", i, cur)
			}
			stride := stage.Stride
			if stride == 0 {
				stride = stage.Kernel
			}
			layers = append(layers, &Layer{
				Name:         layerName,
				Type:         LayerMaxpool,
				KernelHeight: stage.Kernel,
				KernelWidth:  stage.Kernel,
				Padding:      []int{stage.Pad, stage.Pad},
				Stride:       []int{stride, stride},
			})
			outHeight := (cur[2]+2*stage.Pad-stage.Kernel)/stride + 1
			outWidth := (cur[3]+2*stage.Pad-stage.Kernel)/stride + 1
			cur = []int{cur[0], cur[1], outHeight, outWidth}
		case StageActivation:
			if len(layers) == 0 {
				return nil, fmt.Errorf("Stage #%d [activation]: no preceding layer to activate", i)
			}
			last := layers[len(layers)-1]
			if last.Activation != nil {
				return nil, fmt.Errorf("Stage #%d [activation]: preceding layer already has activation attached", i)
			}
			if err := attachActivation(last, stage); err != nil {
				return nil, fmt.Errorf("Stage #%d [activation]: %s", i, err.Error())
			}
		case StageBatchNorm:
			if len(cur) != 4 {
				return nil, fmt.Errorf("Stage #%d [batch_norm]: expected 4-dimensional input, but got shape %v", i, cur)
			}
			epsilon := stage.Epsilon
			if epsilon == 0.0 {
				epsilon = 1e-3
			}
			channels := cur[1]
			scale := newParamNode(g, layerName+"_scale", constBacking(1.0, 1, channels, 1, 1), 1, channels, 1, 1)
			shift := newParamNode(g, layerName+"_shift", constBacking(0.0, 1, channels, 1, 1), 1, channels, 1, 1)
			layers = append(layers, &Layer{
				Name:      layerName,
				Type:      LayerBatchNorm,
				ScaleNode: scale,
				ShiftNode: shift,
				Momentum:  stage.Momentum,
				Epsilon:   epsilon,
			})
		case StageDropout:
			if stage.Rate <= 0.0 || stage.Rate >= 1.0 {
				return nil, fmt.Errorf("Stage #%d [dropout]: rate must be in (0;1), but got %f", i, stage.Rate)
			}
			layers = append(layers, &Layer{
				Name:        layerName,
				Type:        LayerDropout,
				Probability: stage.Rate,
			})
		case StageUpsample:
			if len(cur) != 4 {
				return nil, fmt.Errorf("Stage #%d [upsample]: expected 4-dimensional input, but got shape %v", i, cur)
			}
			scale := stage.Scale
			if scale == 0 {
				scale = 2
			}
			layers = append(layers, &Layer{
				Name:          layerName,
				Type:          LayerUpsample,
				UpsampleScale: scale,
			})
			cur = []int{cur[0], cur[1], cur[2] * scale, cur[3] * scale}
		case StageZeroPad:
			if len(cur) != 4 {
				return nil, fmt.Errorf("Stage #%d [zero_pad]: expected 4-dimensional input, but got shape %v", i, cur)
			}
			layers = append(layers, &Layer{
				Name:        layerName,
				Type:        LayerZeroPad,
				ZeroPadding: stage.Pads,
			})
			cur = []int{cur[0], cur[1], cur[2] + stage.Pads[0] + stage.Pads[1], cur[3] + stage.Pads[2] + stage.Pads[3]}
		case StageReshape:
			total := 1
			for _, d := range cur[1:] {
				total *= d
			}
			reshaped := 1
			for _, d := range stage.Dims {
				reshaped *= d
			}
			if total != reshaped {
				return nil, fmt.Errorf("Stage #%d [reshape]: can't reshape %d elements into shape %v", i, total, stage.Dims)
			}
			dims := append([]int{cur[0]}, stage.Dims...)
			layers = append(layers, &Layer{
				Name:        layerName,
				Type:        LayerReshape,
				ReshapeDims: dims,
			})
			cur = dims
		case StageFlatten:
			total := 1
			for _, d := range cur[1:] {
				total *= d
			}
			layers = append(layers, &Layer{
				Name: layerName,
				Type: LayerFlatten,
			})
			cur = []int{cur[0], total}
		default:
			return nil, fmt.Errorf("Stage #%d kind '%s' is not handled", i, stage.Kind)
		}
	}
	return &Network{Name: name, Layers: layers}, nil
}

func attachActivation(layer *Layer, stage Stage) error {
	if stage.Activation == "" {
		return nil
	}
	axis := stage.Axis
	if axis == 0 {
		axis = 1
	}
	fn, err := activationByName(stage.Activation, stage.Alpha, axis)
	if err != nil {
		return err
	}
	layer.Activation = fn
	return nil
}
