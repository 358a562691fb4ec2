package sgan_go

// EpochMetrics One record of the training history. GeneratorAccuracy carries
// the discriminator's class accuracy observed on the same epoch (the
// combined path itself optimizes validity only and has no accuracy of its own).
type EpochMetrics struct {
	Epoch                 int
	DiscriminatorLoss     float64
	DiscriminatorAccuracy float64
	GeneratorLoss         float64
	GeneratorAccuracy     float64
}

// TrainingHistory Append-only sequence of per-epoch metrics owned by a
// single training run
type TrainingHistory struct {
	Records []EpochMetrics
}

// Append Adds one epoch record
func (h *TrainingHistory) Append(record EpochMetrics) {
	h.Records = append(h.Records, record)
}

// Len Returns number of recorded epochs
func (h *TrainingHistory) Len() int {
	return len(h.Records)
}
