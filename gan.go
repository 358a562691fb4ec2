package sgan_go

import (
	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
)

// GAN Combined adversarial network: Generator composed into the validity
// branch of the Discriminator.
//
// generatorPart - reference to Generator (its learnables are the only ones updated through this path)
// discriminatorPart - reference to Discriminator owning the actual parameters
// frozenDiscriminator - view of the Discriminator on the Generator's graph whose
// parameter nodes alias the Discriminator's values but are never passed to a solver
//
// The combined network owns no parameters of its own: gradient of "can the
// frozen discriminator be fooled" flows back through the aliased (non-updated)
// discriminator weights into the generator's (updated) weights.
type GAN struct {
	generatorPart       *GeneratorNet
	discriminatorPart   *DiscriminatorNet
	frozenDiscriminator *DiscriminatorNet

	out           *gorgonia.Node
	learnablesGen gorgonia.Nodes
}

// NewGAN Constructor for GAN. Clones the Discriminator's trunk and validity
// head onto the provided graph (the one the Generator lives on); the class
// head is not composed since this path trains the generator on validity only.
func NewGAN(g *gorgonia.ExprGraph, definedGenerator *GeneratorNet, definedDiscriminator *DiscriminatorNet) (*GAN, error) {
	frozen, err := definedDiscriminator.CloneFrozen(g, "_gan", false, false)
	if err != nil {
		return nil, errors.Wrap(err, "Can't make frozen view of Discriminator")
	}
	return &GAN{
		generatorPart:       definedGenerator,
		discriminatorPart:   definedDiscriminator,
		frozenDiscriminator: frozen,
		learnablesGen:       definedGenerator.Learnables(),
	}, nil
}

// Out Returns reference to output node (validity branch of the frozen discriminator)
func (net *GAN) Out() *gorgonia.Node {
	return net.out
}

// GeneratorOut Returns reference to output node of generator part
func (net *GAN) GeneratorOut() *gorgonia.Node {
	return net.generatorPart.Out()
}

// GeneratorLearnables Returns learnables nodes of generator part.
// These are the only nodes a solver should step through this network.
func (net *GAN) GeneratorLearnables() gorgonia.Nodes {
	return net.learnablesGen
}

// Fwd Initializates feedforward for discriminator part of GAN.
//
// batchSize - batch size. If it's >= 2 then broadcast function will be applied
// Note: input node is not needed since input for Discriminator is just Generator's output
//
func (net *GAN) Fwd(batchSize int) error {
	if net.generatorPart.Out() == nil {
		return errors.New("Generator part must be fed forward before GAN")
	}
	if err := net.frozenDiscriminator.Fwd(net.generatorPart.Out(), batchSize); err != nil {
		return errors.Wrap(err, "[GAN]")
	}
	net.out = net.frozenDiscriminator.ValidityOut()
	return nil
}
