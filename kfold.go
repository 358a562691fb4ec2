package sgan_go

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
)

// Fold A pair of disjoint index sets into the full training set
type Fold struct {
	TrainIndices      []int
	ValidationIndices []int
}

// StratifiedKFold Splits label indices into k folds such that every index
// appears in a validation set exactly once and each fold's class
// distribution approximates the full one. Shuffled class buckets are dealt
// round-robin into validation sets.
//
// Fails before any training begins if some class has fewer than k members,
// since stratification would be impossible for it.
func StratifiedKFold(labels []int, k int, rnd *rand.Rand) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("Number of folds must be at least 2, but got %d", k)
	}
	if len(labels) < k {
		return nil, fmt.Errorf("Can't split %d samples into %d folds", len(labels), k)
	}
	byClass := make(map[int][]int)
	for idx, label := range labels {
		byClass[label] = append(byClass[label], idx)
	}
	classes := make([]int, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	for _, class := range classes {
		if len(byClass[class]) < k {
			return nil, fmt.Errorf("Class %d has %d members which is less than %d folds: stratification is impossible", class, len(byClass[class]), k)
		}
	}
	validation := make([][]int, k)
	for _, class := range classes {
		bucket := byClass[class]
		rnd.Shuffle(len(bucket), func(i, j int) {
			bucket[i], bucket[j] = bucket[j], bucket[i]
		})
		for i, idx := range bucket {
			f := i % k
			validation[f] = append(validation[f], idx)
		}
	}
	folds := make([]Fold, k)
	inValidation := make([]int, len(labels))
	for i := range inValidation {
		inValidation[i] = -1
	}
	for f := range validation {
		sort.Ints(validation[f])
		for _, idx := range validation[f] {
			inValidation[idx] = f
		}
	}
	for f := range folds {
		train := make([]int, 0, len(labels)-len(validation[f]))
		for idx := range labels {
			if inValidation[idx] != f {
				train = append(train, idx)
			}
		}
		folds[f] = Fold{TrainIndices: train, ValidationIndices: validation[f]}
	}
	return folds, nil
}
