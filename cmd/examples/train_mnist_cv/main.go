package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sgan "github.com/LdDl/sgan-go"
	"golang.org/x/exp/rand"
)

var (
	dataDir      = flag.String("data", "./mnist_data", "Directory with MNIST IDX files (plain or gzipped)")
	samplesDir   = flag.String("samples", "./images", "Directory for generated sample grids")
	modelsDir    = flag.String("models", "./saved_model", "Directory for trained model artifacts")
	plotsDir     = flag.String("plots", "./plots", "Directory for history and confusion matrix plots")
	numEpochs    = flag.Int("epochs", 100, "Training epochs per fold")
	batchSize    = flag.Int("batch-size", 32, "Batch size (half real, half generated on discriminator steps)")
	numFolds     = flag.Int("folds", 10, "Number of stratified folds")
	saveInterval = flag.Int("save-interval", 10, "Epochs between progress reports and sample grids")
	seed         = flag.Uint64("seed", 19680801, "Seed of the single random source")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	for _, dir := range []string{*samplesDir, *modelsDir, *plotsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	rnd := rand.New(rand.NewSource(*seed))

	fmt.Printf("Loading MNIST from '%s'\n", *dataDir)
	trainSet, testSet, err := sgan.LoadMNIST(*dataDir)
	if err != nil {
		return err
	}
	fmt.Printf("Train samples: %d, test samples: %d\n", trainSet.Len(), testSet.Len())

	cfg := sgan.TrainConfig{
		Epochs:       *numEpochs,
		BatchSize:    *batchSize,
		SaveInterval: *saveInterval,
		SamplesDir:   *samplesDir,
	}

	st := time.Now()
	result, err := sgan.RunCrossValidation(cfg, trainSet, *numFolds, rnd)
	if err != nil {
		return err
	}
	fmt.Printf("Cross-validation took %v\n", time.Since(st))
	fmt.Printf("Validity accuracy over %d folds: %.2f%% (+/- %.2f%%)\n", *numFolds, 100.0*result.Mean, 100.0*result.Std)

	trainer := result.LastTrainer
	defer trainer.Close()

	history := trainer.History()
	if err := sgan.PlotTrainingHistory(history, filepath.Join(*plotsDir, "accuracy.png"), filepath.Join(*plotsDir, "loss.png")); err != nil {
		return err
	}

	fmt.Println("Scoring the last fold's discriminator on the test set")
	predicted, err := trainer.Predict(testSet.Images)
	if err != nil {
		return err
	}
	accuracy, err := sgan.AccuracyScore(testSet.Labels, predicted)
	if err != nil {
		return err
	}
	fmt.Printf("Test accuracy: %.2f%%\n", 100.0*accuracy)

	report, err := sgan.ClassificationReport(testSet.Labels, predicted, sgan.NumClasses)
	if err != nil {
		return err
	}
	fmt.Println(report)

	cm, err := sgan.ConfusionMatrix(testSet.Labels, predicted, sgan.NumClasses)
	if err != nil {
		return err
	}
	fmt.Println(sgan.FormatConfusionMatrix(cm))
	if err := sgan.PlotConfusionMatrix(cm, filepath.Join(*plotsDir, "confusion_matrix.png")); err != nil {
		return err
	}

	if err := sgan.SaveGenerator(*modelsDir, "generator", trainer.Generator()); err != nil {
		return err
	}
	if err := sgan.SaveDiscriminator(*modelsDir, "discriminator", trainer.Discriminator()); err != nil {
		return err
	}
	fmt.Printf("Model artifacts saved to '%s'\n", *modelsDir)
	return nil
}
