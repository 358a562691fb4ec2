package sgan_go

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotTrainingHistory(t *testing.T) {
	history := &TrainingHistory{}
	for epoch := 0; epoch < 5; epoch++ {
		history.Append(EpochMetrics{
			Epoch:                 epoch,
			DiscriminatorLoss:     1.0 / float64(epoch+1),
			DiscriminatorAccuracy: 0.5 + 0.05*float64(epoch),
			GeneratorLoss:         2.0 / float64(epoch+1),
			GeneratorAccuracy:     0.1 * float64(epoch),
		})
	}
	dir := t.TempDir()
	accuracyPath := filepath.Join(dir, "accuracy.png")
	lossPath := filepath.Join(dir, "loss.png")
	require.NoError(t, PlotTrainingHistory(history, accuracyPath, lossPath))
	assert.FileExists(t, accuracyPath)
	assert.FileExists(t, lossPath)
}

func TestPlotTrainingHistoryEmpty(t *testing.T) {
	dir := t.TempDir()
	err := PlotTrainingHistory(&TrainingHistory{}, filepath.Join(dir, "a.png"), filepath.Join(dir, "l.png"))
	assert.Error(t, err)
}

func TestPlotConfusionMatrix(t *testing.T) {
	cm := [][]int{
		{5, 1, 0},
		{0, 6, 2},
		{1, 0, 7},
	}
	path := filepath.Join(t.TempDir(), "cm.png")
	require.NoError(t, PlotConfusionMatrix(cm, path))
	assert.FileExists(t, path)
}

func TestPlotConfusionMatrixEmpty(t *testing.T) {
	assert.Error(t, PlotConfusionMatrix(nil, filepath.Join(t.TempDir(), "cm.png")))
}
