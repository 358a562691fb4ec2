package sgan_go

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// TrainConfig Hyperparameters of a single adversarial training run
type TrainConfig struct {
	Epochs        int
	BatchSize     int
	LatentSize    int
	SaveInterval  int
	LearningRate  float64
	Beta1         float64
	EvalBatchSize int
	SampleRows    int
	SampleCols    int
	SamplesDir    string
}

// withDefaults Fills omitted fields and validates the rest
func (cfg TrainConfig) withDefaults() (TrainConfig, error) {
	if cfg.Epochs < 1 {
		return cfg, fmt.Errorf("Number of epochs must be positive, but got %d", cfg.Epochs)
	}
	if cfg.BatchSize < 2 || cfg.BatchSize%2 != 0 {
		return cfg, fmt.Errorf("Batch size must be an even number >= 2, but got %d", cfg.BatchSize)
	}
	if cfg.LatentSize == 0 {
		cfg.LatentSize = LatentSize
	}
	if cfg.LearningRate == 0.0 {
		cfg.LearningRate = 0.0002
	}
	if cfg.Beta1 == 0.0 {
		cfg.Beta1 = 0.5
	}
	if cfg.EvalBatchSize == 0 {
		cfg.EvalBatchSize = 100
	}
	if cfg.SampleRows == 0 {
		cfg.SampleRows = 5
	}
	if cfg.SampleCols == 0 {
		cfg.SampleCols = 5
	}
	if cfg.SampleRows*cfg.SampleCols > cfg.BatchSize {
		return cfg, fmt.Errorf("Sample grid %dx%d does not fit into a single batch of %d", cfg.SampleRows, cfg.SampleCols, cfg.BatchSize)
	}
	return cfg, nil
}

// EvalScores Metrics of the discriminator over a labeled dataset.
// Loss combines both heads with equal weights.
type EvalScores struct {
	Loss             float64
	ValidityLoss     float64
	ClassLoss        float64
	ValidityAccuracy float64
	ClassAccuracy    float64
}

// Trainer Owns three evaluation graphs sharing one set of parameters:
//
// disGraph - discriminator in training mode fed with half-batches of real or generated images
// ganGraph - generator composed with a frozen discriminator view; also hosts the sampling-only machine
// evalGraph - frozen discriminator view without dropout for scoring and prediction
//
// The discriminator's parameter nodes live on disGraph; both other graphs see
// them through value-aliased clones, so a solver step on either graph is
// immediately visible everywhere.
type Trainer struct {
	cfg       TrainConfig
	rnd       *rand.Rand
	halfBatch int

	gen *GeneratorNet
	dis *DiscriminatorNet
	gan *GAN

	classWeights *ClassWeights

	disGraph           *gorgonia.ExprGraph
	disInput           *gorgonia.Node
	disValidityTarget  *gorgonia.Node
	disClassTarget     *gorgonia.Node
	disValidityWeights *gorgonia.Node
	disClassWeights    *gorgonia.Node
	disVM              gorgonia.VM
	disSolver          gorgonia.Solver
	disLossVal         gorgonia.Value
	disValidityLossVal gorgonia.Value
	disClassLossVal    gorgonia.Value
	disValidityVal     gorgonia.Value
	disClassVal        gorgonia.Value

	ganGraph     *gorgonia.ExprGraph
	latentInput  *gorgonia.Node
	sampleVM     gorgonia.VM
	ganVM        gorgonia.VM
	ganSolver    gorgonia.Solver
	ganLossVal   gorgonia.Value
	generatedVal gorgonia.Value

	evalGraph       *gorgonia.ExprGraph
	evalDis         *DiscriminatorNet
	evalInput       *gorgonia.Node
	evalVM          gorgonia.VM
	evalValidityVal gorgonia.Value
	evalClassVal    gorgonia.Value

	history *TrainingHistory
}

// NewTrainer Builds fresh generator/discriminator pair with all three
// evaluation graphs wired. Parameter initialization draws from the provided
// random source, so runs with the same seed produce the same networks.
func NewTrainer(cfg TrainConfig, rnd *rand.Rand) (*Trainer, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	t := &Trainer{
		cfg:       cfg,
		rnd:       rnd,
		halfBatch: cfg.BatchSize / 2,
		history:   &TrainingHistory{},
	}
	t.classWeights, err = NewClassWeights(NumClasses, t.halfBatch)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare class weighting schemes")
	}
	if err := t.buildDiscriminatorGraph(); err != nil {
		return nil, errors.Wrap(err, "Can't build discriminator training graph")
	}
	if err := t.buildGANGraph(); err != nil {
		return nil, errors.Wrap(err, "Can't build adversarial graph")
	}
	if err := t.buildEvalGraph(); err != nil {
		return nil, errors.Wrap(err, "Can't build evaluation graph")
	}
	return t, nil
}

func (t *Trainer) buildDiscriminatorGraph() error {
	t.disGraph = gorgonia.NewGraph()
	dis, err := MNISTDiscriminator(t.disGraph, t.halfBatch, t.rnd)
	if err != nil {
		return err
	}
	t.dis = dis
	t.disInput = gorgonia.NewTensor(t.disGraph, gorgonia.Float64, 4, gorgonia.WithShape(t.halfBatch, MNISTChannels, MNISTRows, MNISTCols), gorgonia.WithName("discriminator_train_input"))
	if err := t.dis.Fwd(t.disInput, t.halfBatch); err != nil {
		return err
	}
	gorgonia.Read(t.dis.ValidityOut(), &t.disValidityVal)
	gorgonia.Read(t.dis.ClassOut(), &t.disClassVal)

	t.disValidityTarget = gorgonia.NewMatrix(t.disGraph, gorgonia.Float64, gorgonia.WithShape(t.halfBatch, 1), gorgonia.WithName("discriminator_validity_target"))
	t.disClassTarget = gorgonia.NewMatrix(t.disGraph, gorgonia.Float64, gorgonia.WithShape(t.halfBatch, NumClasses+1), gorgonia.WithName("discriminator_class_target"))
	t.disValidityWeights = gorgonia.NewMatrix(t.disGraph, gorgonia.Float64, gorgonia.WithShape(t.halfBatch, 1), gorgonia.WithName("discriminator_validity_weights"))
	t.disClassWeights = gorgonia.NewVector(t.disGraph, gorgonia.Float64, gorgonia.WithShape(t.halfBatch), gorgonia.WithName("discriminator_class_weights"))

	validityLoss, err := WeightedBinaryCrossEntropyLoss(t.dis.ValidityOut(), t.disValidityTarget, t.disValidityWeights)
	if err != nil {
		return errors.Wrap(err, "Can't define validity loss")
	}
	gorgonia.WithName("discriminator_validity_loss")(validityLoss)
	classLoss, err := WeightedCrossEntropyLoss(t.dis.ClassOut(), t.disClassTarget, t.disClassWeights)
	if err != nil {
		return errors.Wrap(err, "Can't define class loss")
	}
	gorgonia.WithName("discriminator_class_loss")(classLoss)
	totalLoss, err := combineHeadLosses(t.disGraph, "discriminator", validityLoss, classLoss)
	if err != nil {
		return err
	}
	gorgonia.Read(validityLoss, &t.disValidityLossVal)
	gorgonia.Read(classLoss, &t.disClassLossVal)
	gorgonia.Read(totalLoss, &t.disLossVal)
	if _, err := gorgonia.Grad(totalLoss, t.dis.Learnables()...); err != nil {
		return errors.Wrap(err, "Can't define gradients")
	}
	t.disVM = gorgonia.NewTapeMachine(t.disGraph, gorgonia.BindDualValues(t.dis.Learnables()...))
	t.disSolver = gorgonia.NewAdamSolver(
		gorgonia.WithLearnRate(t.cfg.LearningRate),
		gorgonia.WithBeta1(t.cfg.Beta1),
		gorgonia.WithBatchSize(float64(t.halfBatch)),
	)
	return nil
}

func (t *Trainer) buildGANGraph() error {
	t.ganGraph = gorgonia.NewGraph()
	gen, err := GeneratorFromStages(t.ganGraph, t.cfg.BatchSize, t.cfg.LatentSize, MNISTGeneratorStages(), NewInitializer(t.rnd))
	if err != nil {
		return err
	}
	t.gen = gen
	t.latentInput = gorgonia.NewMatrix(t.ganGraph, gorgonia.Float64, gorgonia.WithShape(t.cfg.BatchSize, t.cfg.LatentSize), gorgonia.WithName("generator_input"))
	if err := t.gen.Fwd(t.latentInput, t.cfg.BatchSize); err != nil {
		return err
	}
	gorgonia.Read(t.gen.Out(), &t.generatedVal)
	// Sampling machine is compiled while the graph holds the generator only,
	// so running it never touches the discriminator part added below
	t.sampleVM = gorgonia.NewTapeMachine(t.ganGraph)

	t.gan, err = NewGAN(t.ganGraph, t.gen, t.dis)
	if err != nil {
		return err
	}
	if err := t.gan.Fwd(t.cfg.BatchSize); err != nil {
		return err
	}
	target := gorgonia.NewMatrix(t.ganGraph, gorgonia.Float64, gorgonia.WithShape(t.cfg.BatchSize, 1), gorgonia.WithName("gan_validity_target"), gorgonia.WithValue(ConstDense(1.0, t.cfg.BatchSize, 1)))
	ganLoss, err := BinaryCrossEntropyLoss(t.gan.Out(), target)
	if err != nil {
		return errors.Wrap(err, "Can't define adversarial loss")
	}
	gorgonia.WithName("gan_validity_loss")(ganLoss)
	gorgonia.Read(ganLoss, &t.ganLossVal)
	if _, err := gorgonia.Grad(ganLoss, t.gan.GeneratorLearnables()...); err != nil {
		return errors.Wrap(err, "Can't define gradients")
	}
	t.ganVM = gorgonia.NewTapeMachine(t.ganGraph, gorgonia.BindDualValues(t.gan.GeneratorLearnables()...))
	t.ganSolver = gorgonia.NewAdamSolver(
		gorgonia.WithLearnRate(t.cfg.LearningRate),
		gorgonia.WithBeta1(t.cfg.Beta1),
		gorgonia.WithBatchSize(float64(t.cfg.BatchSize)),
	)
	return nil
}

func (t *Trainer) buildEvalGraph() error {
	t.evalGraph = gorgonia.NewGraph()
	evalDis, err := t.dis.CloneFrozen(t.evalGraph, "_eval", true, true)
	if err != nil {
		return err
	}
	t.evalDis = evalDis
	t.evalInput = gorgonia.NewTensor(t.evalGraph, gorgonia.Float64, 4, gorgonia.WithShape(t.cfg.EvalBatchSize, MNISTChannels, MNISTRows, MNISTCols), gorgonia.WithName("discriminator_eval_input"))
	if err := t.evalDis.Fwd(t.evalInput, t.cfg.EvalBatchSize); err != nil {
		return err
	}
	gorgonia.Read(t.evalDis.ValidityOut(), &t.evalValidityVal)
	gorgonia.Read(t.evalDis.ClassOut(), &t.evalClassVal)
	t.evalVM = gorgonia.NewTapeMachine(t.evalGraph)
	return nil
}

// combineHeadLosses Equal-weight sum of validity and class head losses
func combineHeadLosses(g *gorgonia.ExprGraph, prefix string, validityLoss, classLoss *gorgonia.Node) (*gorgonia.Node, error) {
	half := gorgonia.NewScalar(g, gorgonia.Float64, gorgonia.WithValue(0.5), gorgonia.WithName(prefix+"_head_weight"))
	weightedValidity, err := gorgonia.Mul(half, validityLoss)
	if err != nil {
		return nil, errors.Wrap(err, "Can't weight validity loss")
	}
	weightedClass, err := gorgonia.Mul(half, classLoss)
	if err != nil {
		return nil, errors.Wrap(err, "Can't weight class loss")
	}
	total, err := gorgonia.Add(weightedValidity, weightedClass)
	if err != nil {
		return nil, errors.Wrap(err, "Can't sum weighted head losses")
	}
	gorgonia.WithName(prefix + "_loss")(total)
	return total, nil
}

// History Returns reference to accumulated per-epoch metrics
func (t *Trainer) History() *TrainingHistory {
	return t.history
}

// Generator Returns reference to generator part
func (t *Trainer) Generator() *GeneratorNet {
	return t.gen
}

// Discriminator Returns reference to discriminator part
func (t *Trainer) Discriminator() *DiscriminatorNet {
	return t.dis
}

// Close Releases tape machines
func (t *Trainer) Close() {
	t.disVM.Close()
	t.sampleVM.Close()
	t.ganVM.Close()
	t.evalVM.Close()
}

// Train Runs the full adversarial loop over the provided training set
func (t *Trainer) Train(trainSet *TrainSet) (*TrainingHistory, error) {
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		metrics, err := t.TrainEpoch(trainSet)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Epoch #%d", epoch))
		}
		metrics.Epoch = epoch
		t.history.Append(metrics)
		if t.cfg.SaveInterval > 0 && epoch%t.cfg.SaveInterval == 0 {
			fmt.Printf("%d [D loss: %f, acc.: %.2f%%, op_acc: %.2f%%] [G loss: %f]\n",
				epoch, metrics.DiscriminatorLoss, 100.0*metrics.DiscriminatorAccuracy, 100.0*metrics.GeneratorAccuracy, metrics.GeneratorLoss)
			if t.cfg.SamplesDir != "" {
				gridPath := filepath.Join(t.cfg.SamplesDir, fmt.Sprintf("mnist_%d.png", epoch))
				if err := t.SaveSamples(gridPath); err != nil {
					return nil, errors.Wrap(err, fmt.Sprintf("Epoch #%d", epoch))
				}
			}
		}
	}
	return t.history, nil
}

// TrainEpoch Single adversarial iteration: discriminator on a real
// half-batch, discriminator on a generated half-batch, then generator through
// the frozen discriminator with "real" targets. Reported discriminator
// metrics are averages of the real and the generated step.
func (t *Trainer) TrainEpoch(trainSet *TrainSet) (EpochMetrics, error) {
	realBatch, err := trainSet.SampleBatch(t.rnd, t.halfBatch)
	if err != nil {
		return EpochMetrics{}, errors.Wrap(err, "Can't sample real half-batch")
	}
	generated, err := t.generate(t.halfBatch)
	if err != nil {
		return EpochMetrics{}, errors.Wrap(err, "Can't generate fake half-batch")
	}
	fakeLabels := make([]int, t.halfBatch)
	for i := range fakeLabels {
		fakeLabels[i] = FakeClass
	}

	realScores, err := t.discriminatorStep(realBatch.Images, realBatch.Labels, 1.0)
	if err != nil {
		return EpochMetrics{}, errors.Wrap(err, "Discriminator step on real samples")
	}
	fakeScores, err := t.discriminatorStep(generated, fakeLabels, 0.0)
	if err != nil {
		return EpochMetrics{}, errors.Wrap(err, "Discriminator step on generated samples")
	}

	generatorLoss, err := t.generatorStep()
	if err != nil {
		return EpochMetrics{}, errors.Wrap(err, "Generator step")
	}

	metrics := EpochMetrics{
		DiscriminatorLoss:     0.5 * (realScores.Loss + fakeScores.Loss),
		DiscriminatorAccuracy: 0.5 * (realScores.ValidityAccuracy + fakeScores.ValidityAccuracy),
		GeneratorLoss:         generatorLoss,
		GeneratorAccuracy:     0.5 * (realScores.ClassAccuracy + fakeScores.ClassAccuracy),
	}
	if anyNonFinite(metrics.DiscriminatorLoss, metrics.GeneratorLoss) {
		return EpochMetrics{}, fmt.Errorf("Training diverged: D loss %f, G loss %f", metrics.DiscriminatorLoss, metrics.GeneratorLoss)
	}
	return metrics, nil
}

// generate Runs the sampling machine and copies first n generated images
func (t *Trainer) generate(n int) (*tensor.Dense, error) {
	noise := NormRandDense(t.rnd, t.cfg.BatchSize, t.cfg.LatentSize)
	if err := gorgonia.Let(t.latentInput, noise); err != nil {
		return nil, errors.Wrap(err, "Can't bind latent input")
	}
	if err := t.sampleVM.RunAll(); err != nil {
		return nil, errors.Wrap(err, "Can't evaluate generator")
	}
	t.sampleVM.Reset()
	generated, ok := t.generatedVal.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Generator output is not a dense tensor")
	}
	return headDense(generated, n)
}

// discriminatorStep One solver step on a half-batch with shared validity
// target (1 for real, 0 for generated samples)
func (t *Trainer) discriminatorStep(images *tensor.Dense, labels []int, validity float64) (EvalScores, error) {
	validityTargets := make([]float64, t.halfBatch)
	for i := range validityTargets {
		validityTargets[i] = validity
	}
	classTargets, err := OneHotDense(labels, NumClasses+1)
	if err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't encode class targets")
	}
	validityWeights, err := t.classWeights.ValiditySamplesDense(validityTargets)
	if err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't expand validity weights")
	}
	classWeights, err := t.classWeights.ClassSamplesDense(labels)
	if err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't expand class weights")
	}
	if err := gorgonia.Let(t.disInput, images); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't bind input")
	}
	if err := gorgonia.Let(t.disValidityTarget, tensor.New(tensor.WithShape(t.halfBatch, 1), tensor.WithBacking(validityTargets))); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't bind validity target")
	}
	if err := gorgonia.Let(t.disClassTarget, classTargets); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't bind class target")
	}
	if err := gorgonia.Let(t.disValidityWeights, validityWeights); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't bind validity weights")
	}
	if err := gorgonia.Let(t.disClassWeights, classWeights); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't bind class weights")
	}
	if err := t.disVM.RunAll(); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't evaluate discriminator training graph")
	}
	if err := t.disSolver.Step(gorgonia.NodesToValueGrads(t.dis.Learnables())); err != nil {
		return EvalScores{}, errors.Wrap(err, "Can't step discriminator solver")
	}
	t.disVM.Reset()

	scores := EvalScores{
		Loss:         t.disLossVal.Data().(float64),
		ValidityLoss: t.disValidityLossVal.Data().(float64),
		ClassLoss:    t.disClassLossVal.Data().(float64),
	}
	validityProbs := t.disValidityVal.Data().([]float64)
	classProbs := t.disClassVal.Data().([]float64)
	_, scores.ValidityAccuracy = binaryMetrics(validityProbs, validityTargets, t.halfBatch)
	_, scores.ClassAccuracy = classMetrics(classProbs, labels, t.halfBatch, NumClasses+1)
	return scores, nil
}

// generatorStep One solver step on the generator through the frozen
// discriminator, targets claim every generated sample is real
func (t *Trainer) generatorStep() (float64, error) {
	noise := NormRandDense(t.rnd, t.cfg.BatchSize, t.cfg.LatentSize)
	if err := gorgonia.Let(t.latentInput, noise); err != nil {
		return 0.0, errors.Wrap(err, "Can't bind latent input")
	}
	if err := t.ganVM.RunAll(); err != nil {
		return 0.0, errors.Wrap(err, "Can't evaluate adversarial graph")
	}
	if err := t.ganSolver.Step(gorgonia.NodesToValueGrads(t.gan.GeneratorLearnables())); err != nil {
		return 0.0, errors.Wrap(err, "Can't step generator solver")
	}
	t.ganVM.Reset()
	return t.ganLossVal.Data().(float64), nil
}

// SaveSamples Generates a fresh batch and renders the sample grid to PNG
func (t *Trainer) SaveSamples(path string) error {
	generated, err := t.generate(t.cfg.SampleRows * t.cfg.SampleCols)
	if err != nil {
		return err
	}
	return SaveSampleGrid(generated, t.cfg.SampleRows, t.cfg.SampleCols, path)
}

// Evaluate Scores the discriminator over a labeled set of real images.
// The set is processed in fixed-size batches (graph shapes are static), the
// tail batch is padded by wrapping around and pad rows are excluded from the
// aggregated metrics.
func (t *Trainer) Evaluate(set *TrainSet) (EvalScores, error) {
	if set.Len() == 0 {
		return EvalScores{}, fmt.Errorf("Can't evaluate on an empty set")
	}
	batch := t.cfg.EvalBatchSize
	var sumVLoss, sumCLoss, sumVAcc, sumCAcc float64
	total := 0
	for start := 0; start < set.Len(); start += batch {
		indices := make([]int, batch)
		valid := 0
		for i := range indices {
			idx := start + i
			if idx < set.Len() {
				valid++
			}
			indices[i] = idx % set.Len()
		}
		chunk, err := set.Gather(indices)
		if err != nil {
			return EvalScores{}, errors.Wrap(err, "Can't gather evaluation batch")
		}
		validityProbs, classProbs, err := t.evalForward(chunk.Images)
		if err != nil {
			return EvalScores{}, err
		}
		targets := make([]float64, valid)
		for i := range targets {
			targets[i] = 1.0
		}
		vLoss, vAcc := binaryMetrics(validityProbs, targets, valid)
		cLoss, cAcc := classMetrics(classProbs, chunk.Labels[:valid], valid, NumClasses+1)
		sumVLoss += vLoss * float64(valid)
		sumCLoss += cLoss * float64(valid)
		sumVAcc += vAcc * float64(valid)
		sumCAcc += cAcc * float64(valid)
		total += valid
	}
	n := float64(total)
	scores := EvalScores{
		ValidityLoss:     sumVLoss / n,
		ClassLoss:        sumCLoss / n,
		ValidityAccuracy: sumVAcc / n,
		ClassAccuracy:    sumCAcc / n,
	}
	scores.Loss = 0.5*scores.ValidityLoss + 0.5*scores.ClassLoss
	return scores, nil
}

// Predict Assigns digit labels to images via the class head. The fake
// sentinel column is excluded from the argmax, so every image gets one of the
// NumClasses real labels.
func (t *Trainer) Predict(images *tensor.Dense) ([]int, error) {
	if images.Dims() != 4 {
		return nil, fmt.Errorf("Images tensor must have 4 dimensions (NCHW), but got %d", images.Dims())
	}
	n := images.Shape()[0]
	set := &TrainSet{Images: images, Labels: make([]int, n)}
	batch := t.cfg.EvalBatchSize
	out := make([]int, 0, n)
	for start := 0; start < n; start += batch {
		indices := make([]int, batch)
		valid := 0
		for i := range indices {
			idx := start + i
			if idx < n {
				valid++
			}
			indices[i] = idx % n
		}
		chunk, err := set.Gather(indices)
		if err != nil {
			return nil, errors.Wrap(err, "Can't gather prediction batch")
		}
		_, classProbs, err := t.evalForward(chunk.Images)
		if err != nil {
			return nil, err
		}
		predicted := argmaxRows(classProbs, valid, NumClasses+1, NumClasses)
		out = append(out, predicted...)
	}
	return out, nil
}

// evalForward Single forward pass through the evaluation graph
func (t *Trainer) evalForward(images *tensor.Dense) (validityProbs, classProbs []float64, err error) {
	if err := gorgonia.Let(t.evalInput, images); err != nil {
		return nil, nil, errors.Wrap(err, "Can't bind evaluation input")
	}
	if err := t.evalVM.RunAll(); err != nil {
		return nil, nil, errors.Wrap(err, "Can't evaluate frozen discriminator")
	}
	t.evalVM.Reset()
	validityProbs = append([]float64(nil), t.evalValidityVal.Data().([]float64)...)
	classProbs = append([]float64(nil), t.evalClassVal.Data().([]float64)...)
	return validityProbs, classProbs, nil
}

// binaryMetrics Mean binary cross entropy and thresholded accuracy over
// first n probabilities. Probabilities are clamped away from {0,1} so the
// reported loss stays finite.
func binaryMetrics(probs []float64, targets []float64, n int) (loss, accuracy float64) {
	const eps = 1e-12
	matched := 0
	for i := 0; i < n; i++ {
		p := probs[i]
		if p < eps {
			p = eps
		}
		if p > 1.0-eps {
			p = 1.0 - eps
		}
		loss += -(targets[i]*math.Log(p) + (1.0-targets[i])*math.Log(1.0-p))
		predicted := 0.0
		if probs[i] > 0.5 {
			predicted = 1.0
		}
		if predicted == targets[i] {
			matched++
		}
	}
	return loss / float64(n), float64(matched) / float64(n)
}

// classMetrics Mean categorical cross entropy and argmax accuracy over first
// n rows of a (n, cols) probability matrix
func classMetrics(probs []float64, labels []int, n, cols int) (loss, accuracy float64) {
	const eps = 1e-12
	predicted := argmaxRows(probs, n, cols, cols)
	matched := 0
	for i := 0; i < n; i++ {
		p := probs[i*cols+labels[i]]
		if p < eps {
			p = eps
		}
		loss += -math.Log(p)
		if predicted[i] == labels[i] {
			matched++
		}
	}
	return loss / float64(n), float64(matched) / float64(n)
}
