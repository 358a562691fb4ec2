package sgan_go

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotTrainingHistory Renders discriminator/generator accuracy and loss
// curves into two PNG files
func PlotTrainingHistory(history *TrainingHistory, accuracyPath, lossPath string) error {
	if history.Len() == 0 {
		return fmt.Errorf("Training history is empty, nothing to plot")
	}
	dAcc := make(plotter.XYs, history.Len())
	gAcc := make(plotter.XYs, history.Len())
	dLoss := make(plotter.XYs, history.Len())
	gLoss := make(plotter.XYs, history.Len())
	for i, r := range history.Records {
		x := float64(r.Epoch)
		dAcc[i].X, dAcc[i].Y = x, r.DiscriminatorAccuracy
		gAcc[i].X, gAcc[i].Y = x, r.GeneratorAccuracy
		dLoss[i].X, dLoss[i].Y = x, r.DiscriminatorLoss
		gLoss[i].X, gLoss[i].Y = x, r.GeneratorLoss
	}

	pAcc := plot.New()
	pAcc.Title.Text = "D and G Accuracy"
	pAcc.X.Label.Text = "Epoch"
	pAcc.Y.Label.Text = "Accuracy"
	pAcc.Add(plotter.NewGrid())
	if err := plotutil.AddLines(pAcc, "Discriminator", dAcc, "Generator", gAcc); err != nil {
		return errors.Wrap(err, "Can't add accuracy lines")
	}
	if err := pAcc.Save(6*vg.Inch, 4*vg.Inch, accuracyPath); err != nil {
		return errors.Wrap(err, "Can't save accuracy plot")
	}

	pLoss := plot.New()
	pLoss.Title.Text = "D and G Loss"
	pLoss.X.Label.Text = "Epoch"
	pLoss.Y.Label.Text = "Loss"
	pLoss.Add(plotter.NewGrid())
	if err := plotutil.AddLines(pLoss, "Discriminator", dLoss, "Generator", gLoss); err != nil {
		return errors.Wrap(err, "Can't add loss lines")
	}
	if err := pLoss.Save(6*vg.Inch, 4*vg.Inch, lossPath); err != nil {
		return errors.Wrap(err, "Can't save loss plot")
	}
	return nil
}

// confusionGrid Adapts a confusion matrix to gonum's GridXYZ. Rows are
// flipped so that true label 0 renders on top.
type confusionGrid struct {
	cm [][]int
}

func (g confusionGrid) Dims() (int, int)   { return len(g.cm), len(g.cm) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }
func (g confusionGrid) Z(c, r int) float64 { return float64(g.cm[len(g.cm)-1-r][c]) }

// PlotConfusionMatrix Renders the matrix as a heat map PNG
func PlotConfusionMatrix(cm [][]int, path string) error {
	if len(cm) == 0 {
		return fmt.Errorf("Confusion matrix is empty, nothing to plot")
	}
	pal := moreland.SmoothBlueRed().Palette(255)
	heatMap := plotter.NewHeatMap(confusionGrid{cm: cm}, pal)
	p := plot.New()
	p.Title.Text = "Confusion matrix"
	p.X.Label.Text = "Predicted label"
	p.Y.Label.Text = "True label"
	p.Add(heatMap)
	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "Can't save confusion matrix plot")
	}
	return nil
}
