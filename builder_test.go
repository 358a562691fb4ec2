package sgan_go

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func testInitializer() *Initializer {
	return NewInitializer(rand.New(rand.NewSource(42)))
}

func TestTraceOutputShapeGenerator(t *testing.T) {
	shp, err := traceOutputShape(tensor.Shape{8, LatentSize}, MNISTGeneratorStages())
	require.NoError(t, err)
	assert.Equal(t, []int{8, MNISTChannels, MNISTRows, MNISTCols}, []int(shp))
}

func TestTraceOutputShapeDiscriminatorTrunk(t *testing.T) {
	shp, err := traceOutputShape(tensor.Shape{8, MNISTChannels, MNISTRows, MNISTCols}, MNISTDiscriminatorTrunkStages())
	require.NoError(t, err)
	// 28 -> 14 -> 7 -> (pad) 8 -> 4 -> 4, flattened with 256 channels
	assert.Equal(t, []int{8, 256 * 4 * 4}, []int(shp))
}

func TestBuildNetworkRejectsMalformedStages(t *testing.T) {
	g := gorgonia.NewGraph()

	_, err := BuildNetwork(g, "empty", tensor.Shape{2, 4}, nil, testInitializer())
	assert.Error(t, err, "empty stage list must be rejected")

	_, err = BuildNetwork(g, "bad_reshape", tensor.Shape{2, 8}, []Stage{
		{Kind: StageReshape, Dims: []int{3, 3}},
	}, testInitializer())
	assert.Error(t, err, "element count mismatch must be rejected")

	_, err = BuildNetwork(g, "orphan_activation", tensor.Shape{2, 8}, []Stage{
		{Kind: StageActivation, Activation: ActivationReLU},
	}, testInitializer())
	assert.Error(t, err, "activation without a preceding layer must be rejected")

	_, err = BuildNetwork(g, "double_activation", tensor.Shape{2, 8}, []Stage{
		{Kind: StageDense, Output: 4, Activation: ActivationReLU},
		{Kind: StageActivation, Activation: ActivationTanh},
	}, testInitializer())
	assert.Error(t, err, "second activation on the same layer must be rejected")

	_, err = BuildNetwork(g, "collapsed_conv", tensor.Shape{2, 1, 2, 2}, []Stage{
		{Kind: StageConv, Filters: 8, Kernel: 5, Stride: 1},
	}, testInitializer())
	assert.Error(t, err, "collapsed spatial dimensions must be rejected")

	_, err = BuildNetwork(g, "bad_dropout", tensor.Shape{2, 8}, []Stage{
		{Kind: StageDense, Output: 4},
		{Kind: StageDropout, Rate: 1.5},
	}, testInitializer())
	assert.Error(t, err, "dropout rate outside (0;1) must be rejected")
}

func TestBuildNetworkLearnables(t *testing.T) {
	g := gorgonia.NewGraph()
	net, err := BuildNetwork(g, "probe", tensor.Shape{2, 1, 8, 8}, []Stage{
		{Kind: StageConv, Filters: 4, Kernel: 3, Stride: 1, Pad: 1},
		{Kind: StageBatchNorm},
		{Kind: StageFlatten},
		{Kind: StageDense, Output: 3, Activation: ActivationSoftmax, Axis: 1},
	}, testInitializer())
	require.NoError(t, err)
	// conv w+b, batch norm scale+shift, dense w+b
	assert.Len(t, net.Learnables(), 6)
}

func TestGlorotNReproducible(t *testing.T) {
	first := testInitializer().GlorotN(1.0, 16, 8)
	second := testInitializer().GlorotN(1.0, 16, 8)
	assert.Equal(t, first, second)
	assert.Len(t, first, 16*8)
}

func TestStageJSONRoundTrip(t *testing.T) {
	stages := MNISTDiscriminatorTrunkStages()
	raw, err := json.Marshal(stages)
	require.NoError(t, err)
	var restored []Stage
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, stages, restored)

	// Restored description must trace to the same output shape
	original, err := traceOutputShape(tensor.Shape{4, 1, 28, 28}, stages)
	require.NoError(t, err)
	roundTripped, err := traceOutputShape(tensor.Shape{4, 1, 28, 28}, restored)
	require.NoError(t, err)
	assert.Equal(t, original, roundTripped)
}

func TestActivationByName(t *testing.T) {
	for _, name := range []string{"", ActivationNone, ActivationReLU, ActivationLeakyReLU, ActivationSigmoid, ActivationTanh, ActivationSoftmax} {
		fn, err := activationByName(name, 0.0, 1)
		require.NoError(t, err, "activation '%s'", name)
		require.NotNil(t, fn)
	}
	_, err := activationByName("swish", 0.0, 1)
	assert.Error(t, err)
}
