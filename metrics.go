package sgan_go

import (
	"fmt"
	"strings"
)

// AccuracyScore Fraction of matching positions in two equally sized label slices
func AccuracyScore(truth, predicted []int) (float64, error) {
	if len(truth) != len(predicted) {
		return 0.0, fmt.Errorf("Truth has %d labels, but predictions have %d", len(truth), len(predicted))
	}
	if len(truth) == 0 {
		return 0.0, fmt.Errorf("Can't evaluate accuracy on empty label sets")
	}
	matched := 0
	for i := range truth {
		if truth[i] == predicted[i] {
			matched++
		}
	}
	return float64(matched) / float64(len(truth)), nil
}

// ConfusionMatrix Square matrix indexed as [true label][predicted label]
func ConfusionMatrix(truth, predicted []int, numClasses int) ([][]int, error) {
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("Truth has %d labels, but predictions have %d", len(truth), len(predicted))
	}
	cm := make([][]int, numClasses)
	for i := range cm {
		cm[i] = make([]int, numClasses)
	}
	for i := range truth {
		if truth[i] < 0 || truth[i] >= numClasses {
			return nil, fmt.Errorf("True label #%d is out of range [0;%d): %d", i, numClasses, truth[i])
		}
		if predicted[i] < 0 || predicted[i] >= numClasses {
			return nil, fmt.Errorf("Predicted label #%d is out of range [0;%d): %d", i, numClasses, predicted[i])
		}
		cm[truth[i]][predicted[i]]++
	}
	return cm, nil
}

// ClassificationReport Per-class precision/recall/F1 with supports and macro
// averages, rendered as a plain text table
func ClassificationReport(truth, predicted []int, numClasses int) (string, error) {
	cm, err := ConfusionMatrix(truth, predicted, numClasses)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%12s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support"))
	var macroPrecision, macroRecall, macroF1 float64
	total := 0
	for class := 0; class < numClasses; class++ {
		tp := cm[class][class]
		colSum, rowSum := 0, 0
		for other := 0; other < numClasses; other++ {
			colSum += cm[other][class]
			rowSum += cm[class][other]
		}
		precision, recall, f1 := 0.0, 0.0, 0.0
		if colSum > 0 {
			precision = float64(tp) / float64(colSum)
		}
		if rowSum > 0 {
			recall = float64(tp) / float64(rowSum)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		macroPrecision += precision
		macroRecall += recall
		macroF1 += f1
		total += rowSum
		sb.WriteString(fmt.Sprintf("%12s %10.2f %10.2f %10.2f %10d\n", fmt.Sprintf("class %d", class), precision, recall, f1, rowSum))
	}
	n := float64(numClasses)
	sb.WriteString(fmt.Sprintf("\n%12s %10.2f %10.2f %10.2f %10d\n", "macro avg", macroPrecision/n, macroRecall/n, macroF1/n, total))
	return sb.String(), nil
}

// FormatConfusionMatrix Renders the matrix as aligned rows of counts
func FormatConfusionMatrix(cm [][]int) string {
	var sb strings.Builder
	for i := range cm {
		for j := range cm[i] {
			sb.WriteString(fmt.Sprintf("%6d", cm[i][j]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
