package sgan_go

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
)

// Network Abstraction for neural network.
//
// Layers - simple sequence of layers
// out - alias to activated output of last layer
//
type Network struct {
	Name   string
	Layers []*Layer
	out    *gorgonia.Node
}

// Out Returns reference to output node
func (net *Network) Out() *gorgonia.Node {
	return net.out
}

// Learnables Returns learnables nodes
func (net *Network) Learnables() gorgonia.Nodes {
	learnables := make(gorgonia.Nodes, 0, 2*len(net.Layers))
	for _, l := range net.Layers {
		if l != nil {
			if l.WeightNode != nil {
				learnables = append(learnables, l.WeightNode)
			}
			if l.BiasNode != nil {
				learnables = append(learnables, l.BiasNode)
			}
			if l.ScaleNode != nil {
				learnables = append(learnables, l.ScaleNode)
			}
			if l.ShiftNode != nil {
				learnables = append(learnables, l.ShiftNode)
			}
		}
	}
	return learnables
}

// Fwd Initializates feedforward for provided input
//
// input - Input node
// batchSize - batch size. If it's >= 2 then broadcast function will be applied
//
func (net *Network) Fwd(input *gorgonia.Node, batchSize int) error {
	networkName := "network"
	if net.Name != "" {
		networkName = net.Name
	}

	if len(net.Layers) == 0 {
		return fmt.Errorf("Network must have one layer atleast")
	}

	lastActivatedLayer := input
	for i := 0; i < len(net.Layers); i++ {
		if net.Layers[i] == nil {
			return fmt.Errorf("Network's layer #%d is nil", i)
		}
		if net.Layers[i].WeightNode == nil && !noWeightsAllowed(net.Layers[i].Type) {
			return fmt.Errorf("Network's layer's #%d WeightNode is nil", i)
		}
		// Feedforward input through i-th layer
		layerNonActivated, err := net.Layers[i].Fwd(batchSize, lastActivatedLayer)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("[Network, Layer #%d] Can't feedforward input before activation", i))
		}
		gorgonia.WithName(fmt.Sprintf("%s_%d", networkName, i))(layerNonActivated)
		// Activate i-th layer's output
		activate := net.Layers[i].Activation
		if activate == nil {
			activate = NoActivation
		}
		layerActivated, err := activate(layerNonActivated)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("Can't apply activation function to non-activated output of Network's layer #%d", i))
		}
		gorgonia.WithName(fmt.Sprintf("%s_activated_%d", networkName, i))(layerActivated)
		lastActivatedLayer = layerActivated
		if i == len(net.Layers)-1 {
			net.out = layerActivated
		}
	}
	return nil
}

// CloneFrozen Re-creates network's layers on the provided graph.
// Weight nodes of the clone share backing tensors with the source network,
// so every optimizer step on the source is visible through the clone, while
// the clone's nodes never show up in any Learnables() passed to a solver.
// Gradient of a cost defined downstream still flows through the cloned
// layers into whatever is connected upstream.
//
// skipDropout - omit dropout layers (evaluation mode)
//
func (net *Network) CloneFrozen(g *gorgonia.ExprGraph, suffix string, skipDropout bool) (*Network, error) {
	cloned := &Network{
		Name:   net.Name + suffix,
		Layers: make([]*Layer, 0, len(net.Layers)),
	}
	for i, l := range net.Layers {
		if l == nil {
			return nil, fmt.Errorf("Network's layer #%d is nil", i)
		}
		if l.WeightNode == nil && !noWeightsAllowed(l.Type) {
			return nil, fmt.Errorf("Network's layer #%d has nil weight node", i)
		}
		if skipDropout && l.Type == LayerDropout {
			continue
		}
		clonedLayer := &Layer{
			Name:          l.Name + suffix,
			Activation:    l.Activation,
			Type:          l.Type,
			KernelHeight:  l.KernelHeight,
			KernelWidth:   l.KernelWidth,
			Padding:       l.Padding,
			Stride:        l.Stride,
			Dilation:      l.Dilation,
			ReshapeDims:   l.ReshapeDims,
			Probability:   l.Probability,
			UpsampleScale: l.UpsampleScale,
			ZeroPadding:   l.ZeroPadding,
			Momentum:      l.Momentum,
			Epsilon:       l.Epsilon,
		}
		clonedLayer.WeightNode = aliasNode(g, l.WeightNode, suffix)
		clonedLayer.BiasNode = aliasNode(g, l.BiasNode, suffix)
		clonedLayer.ScaleNode = aliasNode(g, l.ScaleNode, suffix)
		clonedLayer.ShiftNode = aliasNode(g, l.ShiftNode, suffix)
		cloned.Layers = append(cloned.Layers, clonedLayer)
	}
	return cloned, nil
}

// aliasNode Creates a node on the provided graph bound to the very same
// value as the source node. Returns nil for nil source.
func aliasNode(g *gorgonia.ExprGraph, src *gorgonia.Node, suffix string) *gorgonia.Node {
	if src == nil {
		return nil
	}
	return gorgonia.NewTensor(g, gorgonia.Float64, src.Dims(), gorgonia.WithShape(src.Shape()...), gorgonia.WithName(src.Name()+suffix), gorgonia.WithValue(src.Value()))
}
