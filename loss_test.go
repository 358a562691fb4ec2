package sgan_go

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func evalScalarLoss(t *testing.T, build func(g *gorgonia.ExprGraph) (*gorgonia.Node, error)) float64 {
	g := gorgonia.NewGraph()
	loss, err := build(g)
	require.NoError(t, err)
	var out gorgonia.Value
	gorgonia.Read(loss, &out)
	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())
	return out.Data().(float64)
}

func TestBinaryCrossEntropyLoss(t *testing.T) {
	got := evalScalarLoss(t, func(g *gorgonia.ExprGraph) (*gorgonia.Node, error) {
		probs := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 1), gorgonia.WithName("probs"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float64{0.9, 0.2}))))
		targets := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 1), gorgonia.WithName("targets"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float64{1.0, 0.0}))))
		return BinaryCrossEntropyLoss(probs, targets)
	})
	want := -(math.Log(0.9) + math.Log(0.8)) / 2.0
	assert.InDelta(t, want, got, 1e-9)
}

func TestWeightedBinaryCrossEntropyLoss(t *testing.T) {
	got := evalScalarLoss(t, func(g *gorgonia.ExprGraph) (*gorgonia.Node, error) {
		probs := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 1), gorgonia.WithName("probs"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float64{0.9, 0.2}))))
		targets := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 1), gorgonia.WithName("targets"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float64{1.0, 0.0}))))
		weights := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 1), gorgonia.WithName("weights"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float64{2.0, 1.0}))))
		return WeightedBinaryCrossEntropyLoss(probs, targets, weights)
	})
	want := -(2.0*math.Log(0.9) + math.Log(0.8)) / 2.0
	assert.InDelta(t, want, got, 1e-9)
}

func TestWeightedCrossEntropyLoss(t *testing.T) {
	got := evalScalarLoss(t, func(g *gorgonia.ExprGraph) (*gorgonia.Node, error) {
		probs := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 3), gorgonia.WithName("probs"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 3), tensor.WithBacking([]float64{
				0.7, 0.2, 0.1,
				0.1, 0.8, 0.1,
			}))))
		targets := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 3), gorgonia.WithName("targets"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 3), tensor.WithBacking([]float64{
				1.0, 0.0, 0.0,
				0.0, 1.0, 0.0,
			}))))
		weights := gorgonia.NewVector(g, gorgonia.Float64, gorgonia.WithShape(2), gorgonia.WithName("weights"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{3.0, 1.0}))))
		return WeightedCrossEntropyLoss(probs, targets, weights)
	})
	want := (3.0*(-math.Log(0.7)) + (-math.Log(0.8))) / 2.0
	assert.InDelta(t, want, got, 1e-9)
}

// Uniform unit weights must reduce the weighted loss to the per-sample mean of
// the plain one
func TestWeightedCrossEntropyLossUnitWeights(t *testing.T) {
	got := evalScalarLoss(t, func(g *gorgonia.ExprGraph) (*gorgonia.Node, error) {
		probs := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName("probs"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{0.6, 0.4, 0.3, 0.7}))))
		targets := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName("targets"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{1.0, 0.0, 0.0, 1.0}))))
		weights := gorgonia.NewVector(g, gorgonia.Float64, gorgonia.WithShape(2), gorgonia.WithName("weights"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{1.0, 1.0}))))
		return WeightedCrossEntropyLoss(probs, targets, weights)
	})
	want := (-math.Log(0.6) - math.Log(0.7)) / 2.0
	assert.InDelta(t, want, got, 1e-9)
}

func TestMSELoss(t *testing.T) {
	got := evalScalarLoss(t, func(g *gorgonia.ExprGraph) (*gorgonia.Node, error) {
		a := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, 2), gorgonia.WithName("a"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{1.0, 3.0}))))
		b := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, 2), gorgonia.WithName("b"),
			gorgonia.WithValue(tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{0.0, 1.0}))))
		return MSELoss(a, b)
	})
	assert.InDelta(t, 2.5, got, 1e-9)
}
