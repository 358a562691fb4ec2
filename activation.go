package sgan_go

import (
	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
)

// ActivationFunc Just an alias to Gorgonia'a api_gen.go - https://github.com/gorgonia/gorgonia/blob/master/api_gen.go#L1
type ActivationFunc func(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)

func NoActivation(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error) { return a, nil }
func Abs(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)          { return gorgonia.Abs(a) }
func Sign(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)         { return gorgonia.Sign(a) }
func Exp(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)          { return gorgonia.Exp(a) }
func Log(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)          { return gorgonia.Log(a) }
func Neg(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)          { return gorgonia.Neg(a) }
func Square(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)       { return gorgonia.Square(a) }
func Sqrt(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)         { return gorgonia.Sqrt(a) }
func Inverse(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)      { return gorgonia.Inverse(a) }
func InverseSqrt(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error) {
	return gorgonia.InverseSqrt(a)
}
func Cube(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)     { return gorgonia.Cube(a) }
func Tanh(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)     { return gorgonia.Tanh(a) }
func Sigmoid(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)  { return gorgonia.Sigmoid(a) }
func Softplus(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error) { return gorgonia.Softplus(a) }
func Rectify(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error)  { return gorgonia.Rectify(a) }
func Softmax(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error) {
	for i := range opts {
		// Check if axis option is provided
		// First i-th option with provided field 'Axis' would be considered for use.
		if len(opts[i].Axis) > 0 {
			return gorgonia.SoftMax(a, opts[i].Axis...)
		}
	}
	return gorgonia.SoftMax(a)
}

// LeakyRectify f(x) = x for x >= 0, f(x) = alpha*x for x < 0.
// Composed from primitives as 0.5*(1+alpha)*x + 0.5*(1-alpha)*|x|.
// Default alpha is 0.2 (first option with non-zero 'Alpha' field overrides it).
func LeakyRectify(a *gorgonia.Node, opts ...Options) (*gorgonia.Node, error) {
	alpha := 0.2
	for i := range opts {
		if opts[i].Alpha != 0.0 {
			alpha = opts[i].Alpha
			break
		}
	}
	posScalar := gorgonia.NewScalar(a.Graph(), a.Dtype(), gorgonia.WithValue(0.5*(1.0+alpha)))
	negScalar := gorgonia.NewScalar(a.Graph(), a.Dtype(), gorgonia.WithValue(0.5*(1.0-alpha)))
	posPart, err := gorgonia.Mul(a, posScalar)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do (c*x)")
	}
	abs, err := gorgonia.Abs(a)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do |x|")
	}
	negPart, err := gorgonia.Mul(abs, negScalar)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do (c*|x|)")
	}
	return gorgonia.Add(posPart, negPart)
}

// BindOptions Returns activation function with pre-applied options.
// Network's feedforward calls activation functions without any options,
// so axis-aware (or alpha-aware) activations should be bound at build time.
func BindOptions(fn ActivationFunc, opts ...Options) ActivationFunc {
	return func(a *gorgonia.Node, _ ...Options) (*gorgonia.Node, error) {
		return fn(a, opts...)
	}
}

// Options Struct for holding options for certain activation functions.
type Options struct {
	Axis []int
	// Slope for negative part of leaky rectifier
	Alpha float64
}
