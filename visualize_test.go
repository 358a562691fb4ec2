package sgan_go

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestSaveSampleGrid(t *testing.T) {
	backing := make([]float64, 4*1*28*28)
	for i := range backing {
		backing[i] = float64(i%56)/28.0 - 1.0
	}
	images := tensor.New(tensor.WithShape(4, 1, 28, 28), tensor.WithBacking(backing))
	path := filepath.Join(t.TempDir(), "grid.png")
	require.NoError(t, SaveSampleGrid(images, 2, 2, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	// 2 tiles of 28px with 2px gaps on both sides and in between
	assert.Equal(t, 2*28+3*2, decoded.Bounds().Dx())
	assert.Equal(t, 2*28+3*2, decoded.Bounds().Dy())
}

func TestSaveSampleGridValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")

	flat := tensor.New(tensor.WithShape(4, 784), tensor.WithBacking(make([]float64, 4*784)))
	assert.Error(t, SaveSampleGrid(flat, 2, 2, path), "non-NCHW tensor must be rejected")

	rgb := tensor.New(tensor.WithShape(4, 3, 28, 28), tensor.WithBacking(make([]float64, 4*3*28*28)))
	assert.Error(t, SaveSampleGrid(rgb, 2, 2, path), "multi-channel images must be rejected")

	small := tensor.New(tensor.WithShape(2, 1, 28, 28), tensor.WithBacking(make([]float64, 2*28*28)))
	assert.Error(t, SaveSampleGrid(small, 2, 2, path), "grid larger than the batch must be rejected")
}
