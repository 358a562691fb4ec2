package sgan_go

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
)

func TestMNISTGeneratorOutputShape(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	gen, err := MNISTGenerator(g, 2, rnd)
	require.NoError(t, err)
	input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, LatentSize), gorgonia.WithName("generator_input"))
	require.NoError(t, gen.Fwd(input, 2))
	assert.Equal(t, []int{2, MNISTChannels, MNISTRows, MNISTCols}, []int(gen.Out().Shape()))
}

func TestMNISTGeneratorOutputRange(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	gen, err := MNISTGenerator(g, 2, rnd)
	require.NoError(t, err)
	input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, LatentSize), gorgonia.WithName("generator_input"))
	require.NoError(t, gen.Fwd(input, 2))

	var out gorgonia.Value
	gorgonia.Read(gen.Out(), &out)
	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, gorgonia.Let(input, NormRandDense(rnd, 2, LatentSize)))
	require.NoError(t, vm.RunAll())
	for _, v := range out.Data().([]float64) {
		assert.False(t, math.IsNaN(v))
		assert.True(t, v >= -1.0 && v <= 1.0, "tanh output must stay in [-1;1], got %f", v)
	}
}

func TestMNISTDiscriminatorOutputs(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	dis, err := MNISTDiscriminator(g, 2, rnd)
	require.NoError(t, err)
	input := gorgonia.NewTensor(g, gorgonia.Float64, 4, gorgonia.WithShape(2, MNISTChannels, MNISTRows, MNISTCols), gorgonia.WithName("discriminator_input"))
	require.NoError(t, dis.Fwd(input, 2))
	assert.Equal(t, []int{2, 1}, []int(dis.ValidityOut().Shape()))
	assert.Equal(t, []int{2, NumClasses + 1}, []int(dis.ClassOut().Shape()))
	// 4 convolutions (w+b), 2 normalizations (scale+shift), 2 dense heads (w+b)
	assert.Len(t, dis.Learnables(), 16)
}

func TestMNISTDiscriminatorProbabilities(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	dis, err := MNISTDiscriminator(g, 2, rnd)
	require.NoError(t, err)
	input := gorgonia.NewTensor(g, gorgonia.Float64, 4, gorgonia.WithShape(2, MNISTChannels, MNISTRows, MNISTCols), gorgonia.WithName("discriminator_input"))
	require.NoError(t, dis.Fwd(input, 2))

	var validity, class gorgonia.Value
	gorgonia.Read(dis.ValidityOut(), &validity)
	gorgonia.Read(dis.ClassOut(), &class)
	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	images := NormRandDense(rnd, 2, MNISTChannels*MNISTRows*MNISTCols)
	require.NoError(t, images.Reshape(2, MNISTChannels, MNISTRows, MNISTCols))
	require.NoError(t, gorgonia.Let(input, images))
	require.NoError(t, vm.RunAll())

	for _, v := range validity.Data().([]float64) {
		assert.True(t, v >= 0.0 && v <= 1.0, "sigmoid output must stay in [0;1], got %f", v)
	}
	classProbs := class.Data().([]float64)
	for row := 0; row < 2; row++ {
		sum := 0.0
		for col := 0; col < NumClasses+1; col++ {
			sum += classProbs[row*(NumClasses+1)+col]
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "softmax row must sum to 1")
	}
}

func TestCloneFrozenSharesValues(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	dis, err := MNISTDiscriminator(g, 2, rnd)
	require.NoError(t, err)

	other := gorgonia.NewGraph()
	clone, err := dis.CloneFrozen(other, "_probe", false, true)
	require.NoError(t, err)
	srcLearnables := dis.Learnables()
	clonedLearnables := clone.Learnables()
	require.Len(t, clonedLearnables, len(srcLearnables))
	for i := range srcLearnables {
		assert.Same(t, srcLearnables[i].Value(), clonedLearnables[i].Value(), "clone node #%d must alias the source value", i)
		assert.NotEqual(t, srcLearnables[i].Name(), clonedLearnables[i].Name())
	}
}

func TestCloneFrozenSkipsDropout(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	dis, err := MNISTDiscriminator(g, 2, rnd)
	require.NoError(t, err)

	other := gorgonia.NewGraph()
	withDropout, err := dis.CloneFrozen(other, "_train_view", false, true)
	require.NoError(t, err)
	evalGraph := gorgonia.NewGraph()
	withoutDropout, err := dis.CloneFrozen(evalGraph, "_eval_view", true, true)
	require.NoError(t, err)
	assert.Equal(t, len(dis.trunk.Layers), len(withDropout.trunk.Layers))
	assert.Equal(t, len(dis.trunk.Layers)-4, len(withoutDropout.trunk.Layers), "trunk carries 4 dropout layers")
	for _, l := range withoutDropout.trunk.Layers {
		assert.NotEqual(t, LayerDropout, l.Type)
	}
}

func TestNewGANComposition(t *testing.T) {
	ganGraph := gorgonia.NewGraph()
	disGraph := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))

	gen, err := MNISTGenerator(ganGraph, 2, rnd)
	require.NoError(t, err)
	input := gorgonia.NewMatrix(ganGraph, gorgonia.Float64, gorgonia.WithShape(2, LatentSize), gorgonia.WithName("generator_input"))
	require.NoError(t, gen.Fwd(input, 2))

	dis, err := MNISTDiscriminator(disGraph, 2, rnd)
	require.NoError(t, err)

	gan, err := NewGAN(ganGraph, gen, dis)
	require.NoError(t, err)
	require.NoError(t, gan.Fwd(2))
	assert.Equal(t, []int{2, 1}, []int(gan.Out().Shape()))
	assert.Equal(t, len(gen.Learnables()), len(gan.GeneratorLearnables()))
	// Composed validity path must live on the generator's graph
	assert.Equal(t, ganGraph, gan.Out().Graph())
}
