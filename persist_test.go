package sgan_go

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
)

func TestSaveGeneratorRoundTrip(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	gen, err := MNISTGenerator(g, 2, rnd)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, SaveGenerator(dir, "generator", gen))

	raw, err := ioutil.ReadFile(filepath.Join(dir, "generator.json"))
	require.NoError(t, err)
	var archive NetworkArchive
	require.NoError(t, json.Unmarshal(raw, &archive))
	assert.Equal(t, "generator", archive.Kind)
	assert.Equal(t, MNISTGeneratorStages(), archive.Stages)

	weights, err := LoadWeights(filepath.Join(dir, "generator_weights.gob"))
	require.NoError(t, err)
	learnables := gen.Learnables()
	require.Len(t, weights, len(learnables))
	for _, node := range learnables {
		stored, ok := weights[node.Name()]
		require.True(t, ok, "weights for '%s' are missing", node.Name())
		assert.Equal(t, []int(node.Shape()), []int(stored.Shape()))
		assert.Equal(t, node.Value().Data().([]float64), stored.Data().([]float64))
	}
}

func TestSaveDiscriminatorRoundTrip(t *testing.T) {
	g := gorgonia.NewGraph()
	rnd := rand.New(rand.NewSource(42))
	dis, err := MNISTDiscriminator(g, 2, rnd)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, SaveDiscriminator(dir, "discriminator", dis))

	raw, err := ioutil.ReadFile(filepath.Join(dir, "discriminator.json"))
	require.NoError(t, err)
	var archive NetworkArchive
	require.NoError(t, json.Unmarshal(raw, &archive))
	assert.Equal(t, "discriminator", archive.Kind)
	assert.Equal(t, MNISTDiscriminatorTrunkStages(), archive.Trunk)
	assert.Equal(t, MNISTValidityHeadStages(), archive.Validity)
	assert.Equal(t, MNISTClassHeadStages(), archive.Class)

	weights, err := LoadWeights(filepath.Join(dir, "discriminator_weights.gob"))
	require.NoError(t, err)
	assert.Len(t, weights, len(dis.Learnables()))
}

func TestSaveRawLayerNetworksRejected(t *testing.T) {
	gen := Generator(&Layer{Type: LayerFlatten})
	assert.Error(t, SaveGenerator(t.TempDir(), "generator", gen))

	dis := Discriminator([]*Layer{{Type: LayerFlatten}}, []*Layer{{Type: LayerFlatten}}, nil)
	assert.Error(t, SaveDiscriminator(t.TempDir(), "discriminator", dis))
}

func TestLoadWeightsMissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "nope.gob"))
	assert.Error(t, err)
}
