// Package evalplot compares a trained operator network against a known
// analytic solution and renders the result.
package evalplot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ppposition/Machine-Learn-discussion/internal/dataset"
	"github.com/ppposition/Machine-Learn-discussion/internal/deeponet"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// Comparison holds the predicted and analytic operator values at a set of
// query locations for a single input function.
type Comparison struct {
	X         []float64
	Predicted []float64
	Analytic  []float64
}

// Compare evaluates the network on one input function and the analytic
// solution at the same query locations.
//
//	sensors:  [1, m] values of the input function at the sensor grid
//	queries:  [Q, 1] query coordinates
//	analytic: closed-form G(u)(y)
func Compare[B tensor.Backend](net *deeponet.DeepONet[B], sensors, queries *tensor.Tensor[float32, B], analytic func(float64) float64) (*Comparison, error) {
	if s := sensors.Shape(); len(s) != 2 || s[0] != 1 {
		return nil, fmt.Errorf("evalplot: expected a single input function [1, m], got %v", s)
	}

	pred := net.Forward(sensors, queries) // [1, Q]
	predData := pred.Data()
	queryData := queries.Data()

	cmp := &Comparison{
		X:         make([]float64, len(predData)),
		Predicted: make([]float64, len(predData)),
		Analytic:  make([]float64, len(predData)),
	}
	for j := range predData {
		y := float64(queryData[j])
		cmp.X[j] = y
		cmp.Predicted[j] = float64(predData[j])
		cmp.Analytic[j] = analytic(y)
	}
	return cmp, nil
}

// CompareBatch evaluates the network against the stored targets of one
// function in a dataset batch.
func CompareBatch[B tensor.Backend](net *deeponet.DeepONet[B], batch *dataset.Batch[B], index int) (*Comparison, error) {
	if index < 0 || index >= batch.NumFunctions() {
		return nil, fmt.Errorf("evalplot: function index %d out of range [0, %d)", index, batch.NumFunctions())
	}

	pred := net.Forward(batch.Sensors, batch.Queries) // [N, Q]
	q := batch.NumQueries()
	predData := pred.Data()[index*q : (index+1)*q]
	targetData := batch.Targets.Data()[index*q : (index+1)*q]
	queryData := batch.Queries.Data()

	cmp := &Comparison{
		X:         make([]float64, q),
		Predicted: make([]float64, q),
		Analytic:  make([]float64, q),
	}
	for j := 0; j < q; j++ {
		cmp.X[j] = float64(queryData[j])
		cmp.Predicted[j] = float64(predData[j])
		cmp.Analytic[j] = float64(targetData[j])
	}
	return cmp, nil
}

// MaxAbsError returns the largest pointwise deviation between the predicted
// and analytic curves.
func (c *Comparison) MaxAbsError() float64 {
	diff := make([]float64, len(c.Predicted))
	floats.SubTo(diff, c.Predicted, c.Analytic)
	return floats.Norm(diff, math.Inf(1))
}

// RenderPNG plots both curves and writes the figure to path.
func (c *Comparison) RenderPNG(path, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "y"
	p.Y.Label.Text = "G(u)(y)"

	if err := plotutil.AddLines(p,
		"predicted", xys(c.X, c.Predicted),
		"analytic", xys(c.X, c.Analytic),
	); err != nil {
		return fmt.Errorf("evalplot: add lines: %w", err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("evalplot: save %s: %w", path, err)
	}
	return nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
