package sgan_go

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIDXImages(t *testing.T, path string, n, rows, cols int) {
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	for _, v := range []uint32{idxImagesMagic, uint32(n), uint32(rows), uint32(cols)} {
		require.NoError(t, binary.Write(f, binary.BigEndian, v))
	}
	pixels := make([]byte, n*rows*cols)
	for i := range pixels {
		pixels[i] = byte(i % 256)
	}
	_, err = f.Write(pixels)
	require.NoError(t, err)
}

func writeIDXLabels(t *testing.T, path string, labels []byte) {
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	for _, v := range []uint32{idxLabelsMagic, uint32(len(labels))} {
		require.NoError(t, binary.Write(f, binary.BigEndian, v))
	}
	_, err = f.Write(labels)
	require.NoError(t, err)
}

func TestLoadMNIST(t *testing.T) {
	dir := t.TempDir()
	writeIDXImages(t, filepath.Join(dir, "train-images-idx3-ubyte"), 4, 28, 28)
	writeIDXLabels(t, filepath.Join(dir, "train-labels-idx1-ubyte"), []byte{0, 1, 2, 3})
	writeIDXImages(t, filepath.Join(dir, "t10k-images-idx3-ubyte"), 2, 28, 28)
	writeIDXLabels(t, filepath.Join(dir, "t10k-labels-idx1-ubyte"), []byte{9, 5})

	trainSet, testSet, err := LoadMNIST(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, trainSet.Len())
	assert.Equal(t, []int{4, 1, 28, 28}, []int(trainSet.Images.Shape()))
	assert.Equal(t, []int{0, 1, 2, 3}, trainSet.Labels)
	assert.Equal(t, 2, testSet.Len())
	assert.Equal(t, []int{9, 5}, testSet.Labels)
	for _, v := range trainSet.Images.Data().([]float64) {
		assert.True(t, v >= -1.0 && v <= 1.0, "pixels must be normalized into [-1;1]")
	}
}

func TestLoadMNISTMissingFiles(t *testing.T) {
	_, _, err := LoadMNIST(t.TempDir())
	assert.Error(t, err)
}

func TestLoadMNISTCorruptedSizes(t *testing.T) {
	dir := t.TempDir()
	writeIDXImages(t, filepath.Join(dir, "train-images-idx3-ubyte"), 4, 28, 28)
	// Three labels for four images
	writeIDXLabels(t, filepath.Join(dir, "train-labels-idx1-ubyte"), []byte{0, 1, 2})
	writeIDXImages(t, filepath.Join(dir, "t10k-images-idx3-ubyte"), 2, 28, 28)
	writeIDXLabels(t, filepath.Join(dir, "t10k-labels-idx1-ubyte"), []byte{9, 5})
	_, _, err := LoadMNIST(dir)
	assert.Error(t, err)
}
