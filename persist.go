package sgan_go

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NetworkArchive Self-describing architecture artifact: the stage lists are
// sufficient to re-build the graph, weights are stored separately so both
// parts stay independently re-loadable.
type NetworkArchive struct {
	Kind     string  `json:"kind"`
	Trunk    []Stage `json:"trunk,omitempty"`
	Validity []Stage `json:"validity,omitempty"`
	Class    []Stage `json:"class,omitempty"`
	Stages   []Stage `json:"stages,omitempty"`
}

// NamedTensor One parameter tensor in the weights artifact
type NamedTensor struct {
	Name  string
	Shape []int
	Data  []float64
}

// SaveGenerator Writes '<name>.json' (architecture) and '<name>_weights.gob'
// (parameters) into the provided directory
func SaveGenerator(dir, name string, net *GeneratorNet) error {
	if net.Stages() == nil {
		return fmt.Errorf("Generator was not built from stages, architecture can't be serialized")
	}
	archive := NetworkArchive{Kind: "generator", Stages: net.Stages()}
	return saveArchive(dir, name, archive, net.Learnables())
}

// SaveDiscriminator Writes '<name>.json' (architecture) and
// '<name>_weights.gob' (parameters) into the provided directory
func SaveDiscriminator(dir, name string, net *DiscriminatorNet) error {
	if net.trunkStages == nil {
		return fmt.Errorf("Discriminator was not built from stages, architecture can't be serialized")
	}
	archive := NetworkArchive{
		Kind:     "discriminator",
		Trunk:    net.trunkStages,
		Validity: net.validityStages,
		Class:    net.classStages,
	}
	return saveArchive(dir, name, archive, net.Learnables())
}

func saveArchive(dir, name string, archive NetworkArchive, learnables gorgonia.Nodes) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't create directory '%s'", dir))
	}
	raw, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return errors.Wrap(err, "Can't marshal architecture description")
	}
	archPath := filepath.Join(dir, name+".json")
	if err := ioutil.WriteFile(archPath, raw, 0644); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't write architecture to '%s'", archPath))
	}
	weights := make([]NamedTensor, 0, len(learnables))
	for _, node := range learnables {
		dense, ok := node.Value().(*tensor.Dense)
		if !ok {
			return fmt.Errorf("Learnable '%s' holds no dense tensor value", node.Name())
		}
		data := dense.Data().([]float64)
		stored := make([]float64, len(data))
		copy(stored, data)
		weights = append(weights, NamedTensor{
			Name:  node.Name(),
			Shape: []int(dense.Shape()),
			Data:  stored,
		})
	}
	weightsPath := filepath.Join(dir, name+"_weights.gob")
	f, err := os.Create(weightsPath)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't create file '%s'", weightsPath))
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(weights); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't encode weights to '%s'", weightsPath))
	}
	return nil
}

// LoadWeights Reads a weights artifact back into name-indexed tensors
func LoadWeights(path string) (map[string]*tensor.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't open file '%s'", path))
	}
	defer f.Close()
	var weights []NamedTensor
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't decode weights from '%s'", path))
	}
	out := make(map[string]*tensor.Dense, len(weights))
	for _, w := range weights {
		out[w.Name] = tensor.New(tensor.WithShape(w.Shape...), tensor.WithBacking(w.Data))
	}
	return out, nil
}
