package sgan_go

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GeneratorNet Abstraction for generator part of GAN. It's simple neural network actually.
//
// private - underlying sequence of layers
// stages - architecture description the network was built from (kept for persistence)
//
type GeneratorNet struct {
	private *Network
	stages  []Stage
}

// Generator Constructor for GeneratorNet
func Generator(Layers ...*Layer) *GeneratorNet {
	return &GeneratorNet{private: &Network{
		Name:   "generator",
		Layers: Layers,
	}}
}

// GeneratorFromStages Builds GeneratorNet from declarative stage list.
//
// batchSize - batch size (input node shape is static)
// latentSize - length of latent vector consumed by the first stage
//
func GeneratorFromStages(g *gorgonia.ExprGraph, batchSize, latentSize int, stages []Stage, init *Initializer) (*GeneratorNet, error) {
	net, err := BuildNetwork(g, "generator", tensor.Shape{batchSize, latentSize}, stages, init)
	if err != nil {
		return nil, errors.Wrap(err, "[Generator]")
	}
	return &GeneratorNet{private: net, stages: stages}, nil
}

// Out Returns reference to output node
func (net *GeneratorNet) Out() *gorgonia.Node {
	return net.private.out
}

// Learnables Returns learnables nodes
func (net *GeneratorNet) Learnables() gorgonia.Nodes {
	return net.private.Learnables()
}

// Stages Returns architecture description (nil for networks assembled from raw layers)
func (net *GeneratorNet) Stages() []Stage {
	return net.stages
}

// Fwd Initializates feedforward for provided input
//
// input - Input node
// batchSize - batch size. If it's >= 2 then broadcast function will be applied
//
func (net *GeneratorNet) Fwd(input *gorgonia.Node, batchSize int) error {
	if err := net.private.Fwd(input, batchSize); err != nil {
		return errors.Wrap(err, "[Generator]")
	}
	return nil
}

// MNISTGeneratorStages DCGAN generator for 28x28x1 images: a small dense
// seed is reshaped into a feature map and progressively upsampled (explicit
// upsampling followed by ordinary convolution instead of transposed
// convolution). Normalization follows every intermediate stage but not the
// output stage, which uses a saturating activation instead.
func MNISTGeneratorStages() []Stage {
	return []Stage{
		{Kind: StageDense, Output: 128 * 7 * 7, Activation: ActivationReLU},
		{Kind: StageReshape, Dims: []int{128, 7, 7}},
		{Kind: StageBatchNorm, Momentum: 0.8},
		{Kind: StageUpsample, Scale: 2},
		{Kind: StageConv, Filters: 128, Kernel: 3, Stride: 1, Pad: 1},
		{Kind: StageActivation, Activation: ActivationReLU},
		{Kind: StageBatchNorm, Momentum: 0.8},
		{Kind: StageUpsample, Scale: 2},
		{Kind: StageConv, Filters: 64, Kernel: 3, Stride: 1, Pad: 1},
		{Kind: StageActivation, Activation: ActivationReLU},
		{Kind: StageBatchNorm, Momentum: 0.8},
		{Kind: StageConv, Filters: MNISTChannels, Kernel: 3, Stride: 1, Pad: 1},
		{Kind: StageActivation, Activation: ActivationTanh},
	}
}

// MNISTGenerator Builds generator part for MNIST-like dataset
func MNISTGenerator(g *gorgonia.ExprGraph, batchSize int, rnd *rand.Rand) (*GeneratorNet, error) {
	return GeneratorFromStages(g, batchSize, LatentSize, MNISTGeneratorStages(), NewInitializer(rnd))
}
