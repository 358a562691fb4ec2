package sgan_go

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Dataset geometry and class layout shared by architecture definitions.
// FakeClass is the sentinel label assigned to every generated image, so the
// class head distinguishes NumClasses+1 categories.
const (
	MNISTRows     = 28
	MNISTCols     = 28
	MNISTChannels = 1
	NumClasses    = 10
	FakeClass     = NumClasses
	LatentSize    = 100
)

// DiscriminatorNet Discriminator part of GAN with a shared feature-extraction
// trunk and two heads: scalar validity probability (real vs generated) and a
// probability distribution over NumClasses+1 categories.
type DiscriminatorNet struct {
	trunk        *Network
	validityHead *Network
	classHead    *Network

	trunkStages    []Stage
	validityStages []Stage
	classStages    []Stage
}

// Discriminator Constructor for DiscriminatorNet from raw layers
func Discriminator(trunk []*Layer, validityHead []*Layer, classHead []*Layer) *DiscriminatorNet {
	net := &DiscriminatorNet{
		trunk: &Network{Name: "discriminator", Layers: trunk},
		validityHead: &Network{
			Name:   "discriminator_validity",
			Layers: validityHead,
		},
	}
	if classHead != nil {
		net.classHead = &Network{
			Name:   "discriminator_class",
			Layers: classHead,
		}
	}
	return net
}

// DiscriminatorFromStages Builds DiscriminatorNet from declarative stage lists.
// classStages may be nil: the frozen view used by the adversarial network
// composes the validity branch only.
func DiscriminatorFromStages(g *gorgonia.ExprGraph, inputShape tensor.Shape, trunkStages, validityStages, classStages []Stage, init *Initializer) (*DiscriminatorNet, error) {
	trunk, err := BuildNetwork(g, "discriminator", inputShape, trunkStages, init)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator trunk]")
	}
	trunkOutShape, err := traceOutputShape(inputShape, trunkStages)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator trunk]")
	}
	validity, err := BuildNetwork(g, "discriminator_validity", trunkOutShape, validityStages, init)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator validity head]")
	}
	net := &DiscriminatorNet{
		trunk:          trunk,
		validityHead:   validity,
		trunkStages:    trunkStages,
		validityStages: validityStages,
	}
	if classStages != nil {
		class, err := BuildNetwork(g, "discriminator_class", trunkOutShape, classStages, init)
		if err != nil {
			return nil, errors.Wrap(err, "[Discriminator class head]")
		}
		net.classHead = class
		net.classStages = classStages
	}
	return net, nil
}

// traceOutputShape Replays shape bookkeeping of BuildNetwork without
// creating any nodes. Used to size head inputs from the trunk description.
func traceOutputShape(inputShape tensor.Shape, stages []Stage) (tensor.Shape, error) {
	cur := make([]int, len(inputShape))
	copy(cur, inputShape)
	for i, stage := range stages {
		switch stage.Kind {
		case StageDense:
			cur = []int{cur[0], stage.Output}
		case StageConv:
			stride := stage.Stride
			if stride == 0 {
				stride = 1
			}
			outH := (cur[2]+2*stage.Pad-stage.Kernel)/stride + 1
			outW := (cur[3]+2*stage.Pad-stage.Kernel)/stride + 1
			cur = []int{cur[0], stage.Filters, outH, outW}
		case StageMaxpool:
			stride := stage.Stride
			if stride == 0 {
				stride = stage.Kernel
			}
			outH := (cur[2]+2*stage.Pad-stage.Kernel)/stride + 1
			outW := (cur[3]+2*stage.Pad-stage.Kernel)/stride + 1
			cur = []int{cur[0], cur[1], outH, outW}
		case StageUpsample:
			scale := stage.Scale
			if scale == 0 {
				scale = 2
			}
			cur = []int{cur[0], cur[1], cur[2] * scale, cur[3] * scale}
		case StageZeroPad:
			cur = []int{cur[0], cur[1], cur[2] + stage.Pads[0] + stage.Pads[1], cur[3] + stage.Pads[2] + stage.Pads[3]}
		case StageReshape:
			cur = append([]int{cur[0]}, stage.Dims...)
		case StageFlatten:
			total := 1
			for _, d := range cur[1:] {
				total *= d
			}
			cur = []int{cur[0], total}
		case StageActivation, StageDropout, StageBatchNorm:
			// shape preserving
		default:
			return nil, fmt.Errorf("Stage #%d kind '%s' is not handled", i, stage.Kind)
		}
	}
	return tensor.Shape(cur), nil
}

// ValidityOut Returns reference to output node of validity head
func (net *DiscriminatorNet) ValidityOut() *gorgonia.Node {
	return net.validityHead.out
}

// ClassOut Returns reference to output node of class head (nil if the head was not built)
func (net *DiscriminatorNet) ClassOut() *gorgonia.Node {
	if net.classHead == nil {
		return nil
	}
	return net.classHead.out
}

// Learnables Returns learnables nodes of trunk and both heads
func (net *DiscriminatorNet) Learnables() gorgonia.Nodes {
	learnables := net.trunk.Learnables()
	learnables = append(learnables, net.validityHead.Learnables()...)
	if net.classHead != nil {
		learnables = append(learnables, net.classHead.Learnables()...)
	}
	return learnables
}

// Fwd Initializates feedforward for provided input: the trunk first, then
// every head from the trunk's activated output.
//
// input - Input node
// batchSize - batch size. If it's >= 2 then broadcast function will be applied
//
func (net *DiscriminatorNet) Fwd(input *gorgonia.Node, batchSize int) error {
	if err := net.trunk.Fwd(input, batchSize); err != nil {
		return errors.Wrap(err, "[Discriminator trunk]")
	}
	if err := net.validityHead.Fwd(net.trunk.Out(), batchSize); err != nil {
		return errors.Wrap(err, "[Discriminator validity head]")
	}
	if net.classHead != nil {
		if err := net.classHead.Fwd(net.trunk.Out(), batchSize); err != nil {
			return errors.Wrap(err, "[Discriminator class head]")
		}
	}
	return nil
}

// CloneFrozen Re-creates the discriminator on the provided graph with
// parameter nodes value-aliased to this instance (see Network.CloneFrozen).
//
// skipDropout - omit dropout layers (evaluation mode)
// withClassHead - clone the class head as well (the adversarial path needs the validity branch only)
//
func (net *DiscriminatorNet) CloneFrozen(g *gorgonia.ExprGraph, suffix string, skipDropout, withClassHead bool) (*DiscriminatorNet, error) {
	trunk, err := net.trunk.CloneFrozen(g, suffix, skipDropout)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator trunk]")
	}
	validity, err := net.validityHead.CloneFrozen(g, suffix, skipDropout)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator validity head]")
	}
	cloned := &DiscriminatorNet{
		trunk:          trunk,
		validityHead:   validity,
		trunkStages:    net.trunkStages,
		validityStages: net.validityStages,
	}
	if withClassHead {
		if net.classHead == nil {
			return nil, fmt.Errorf("Discriminator has no class head to clone")
		}
		class, err := net.classHead.CloneFrozen(g, suffix, skipDropout)
		if err != nil {
			return nil, errors.Wrap(err, "[Discriminator class head]")
		}
		cloned.classHead = class
		cloned.classStages = net.classStages
	}
	return cloned, nil
}

// MNISTDiscriminatorTrunkStages Shared feature extraction trunk: strided
// convolutions instead of pooling, leaky rectification, dropout after every
// stage, normalization after every stage except the very first one. The
// zero-padding stage keeps spatial dimensions consistent before the 8->4
// stride-2 convolution (7x7 input is padded to 8x8 on bottom/right).
func MNISTDiscriminatorTrunkStages() []Stage {
	return []Stage{
		{Kind: StageConv, Filters: 32, Kernel: 3, Stride: 2, Pad: 1},
		{Kind: StageActivation, Activation: ActivationLeakyReLU, Alpha: 0.2},
		{Kind: StageDropout, Rate: 0.25},
		{Kind: StageConv, Filters: 64, Kernel: 3, Stride: 2, Pad: 1},
		{Kind: StageZeroPad, Pads: [4]int{0, 1, 0, 1}},
		{Kind: StageActivation, Activation: ActivationLeakyReLU, Alpha: 0.2},
		{Kind: StageDropout, Rate: 0.25},
		{Kind: StageBatchNorm, Momentum: 0.8},
		{Kind: StageConv, Filters: 128, Kernel: 3, Stride: 2, Pad: 1},
		{Kind: StageActivation, Activation: ActivationLeakyReLU, Alpha: 0.2},
		{Kind: StageDropout, Rate: 0.25},
		{Kind: StageBatchNorm, Momentum: 0.8},
		{Kind: StageConv, Filters: 256, Kernel: 3, Stride: 1, Pad: 1},
		{Kind: StageActivation, Activation: ActivationLeakyReLU, Alpha: 0.2},
		{Kind: StageDropout, Rate: 0.25},
		{Kind: StageFlatten},
	}
}

// MNISTValidityHeadStages Scalar probability of the image being real
func MNISTValidityHeadStages() []Stage {
	return []Stage{
		{Kind: StageDense, Output: 1, Activation: ActivationSigmoid},
	}
}

// MNISTClassHeadStages Probability distribution over digits plus the fake sentinel
func MNISTClassHeadStages() []Stage {
	return []Stage{
		{Kind: StageDense, Output: NumClasses + 1, Activation: ActivationSoftmax, Axis: 1},
	}
}

// MNISTDiscriminator Builds discriminator part for MNIST-like dataset
func MNISTDiscriminator(g *gorgonia.ExprGraph, batchSize int, rnd *rand.Rand) (*DiscriminatorNet, error) {
	return DiscriminatorFromStages(
		g,
		tensor.Shape{batchSize, MNISTChannels, MNISTRows, MNISTCols},
		MNISTDiscriminatorTrunkStages(),
		MNISTValidityHeadStages(),
		MNISTClassHeadStages(),
		NewInitializer(rnd),
	)
}
