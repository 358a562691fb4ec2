package sgan_go

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// CrossValidationResult Per-fold validity accuracies with their aggregate.
// LastTrainer keeps the networks of the final fold for downstream prediction
// and persistence.
type CrossValidationResult struct {
	Scores      []float64
	Mean        float64
	Std         float64
	LastTrainer *Trainer
}

// RunCrossValidation Stratified k-fold driver: every fold trains a fresh
// generator/discriminator pair from scratch on the fold's training split and
// scores the discriminator's validity head on the held-out split. All random
// draws (fold assignment, parameter init, batch sampling, latent noise) come
// from the single provided source.
func RunCrossValidation(cfg TrainConfig, set *TrainSet, k int, rnd *rand.Rand) (*CrossValidationResult, error) {
	folds, err := StratifiedKFold(set.Labels, k, rnd)
	if err != nil {
		return nil, errors.Wrap(err, "Can't split dataset into folds")
	}
	result := &CrossValidationResult{Scores: make([]float64, 0, len(folds))}
	for i, fold := range folds {
		trainSplit, err := set.Gather(fold.TrainIndices)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Fold #%d: can't gather training split", i))
		}
		validationSplit, err := set.Gather(fold.ValidationIndices)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Fold #%d: can't gather validation split", i))
		}
		trainer, err := NewTrainer(cfg, rnd)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Fold #%d: can't build trainer", i))
		}
		if _, err := trainer.Train(trainSplit); err != nil {
			trainer.Close()
			return nil, errors.Wrap(err, fmt.Sprintf("Fold #%d: training failed", i))
		}
		scores, err := trainer.Evaluate(validationSplit)
		if err != nil {
			trainer.Close()
			return nil, errors.Wrap(err, fmt.Sprintf("Fold #%d: evaluation failed", i))
		}
		fmt.Printf("Fold #%d validity accuracy: %.2f%%\n", i, 100.0*scores.ValidityAccuracy)
		result.Scores = append(result.Scores, scores.ValidityAccuracy)
		if result.LastTrainer != nil {
			result.LastTrainer.Close()
		}
		result.LastTrainer = trainer
	}
	result.Mean = stat.Mean(result.Scores, nil)
	result.Std = stat.StdDev(result.Scores, nil)
	return result, nil
}
