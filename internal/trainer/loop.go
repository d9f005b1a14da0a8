// Package trainer runs full-batch gradient descent on a DeepONet.
package trainer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ppposition/Machine-Learn-discussion/internal/autodiff"
	"github.com/ppposition/Machine-Learn-discussion/internal/dataset"
	"github.com/ppposition/Machine-Learn-discussion/internal/deeponet"
	"github.com/ppposition/Machine-Learn-discussion/internal/metrics"
	"github.com/ppposition/Machine-Learn-discussion/internal/nn"
	"github.com/ppposition/Machine-Learn-discussion/internal/optim"
)

// Config captures the knobs required by the training loop.
type Config struct {
	Iterations   int
	LogEvery     int
	LearningRate float32
	Optimizer    string // "adam" or "sgd"
}

// Validate checks the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("trainer: iterations must be > 0")
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1000
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.001
	}
	if c.Optimizer == "" {
		c.Optimizer = "adam"
	}
	if c.Optimizer != "adam" && c.Optimizer != "sgd" {
		return fmt.Errorf("trainer: unknown optimizer %q", c.Optimizer)
	}
	return nil
}

// Train fits the network to the training batch with full-batch gradient
// descent, logging progress every LogEvery iterations. The test batch is
// only evaluated for logging and never influences the gradients; pass nil
// to skip it.
//
// Returns the final training loss.
func Train[B autodiff.BackwardCapable](cfg Config, net *deeponet.DeepONet[B], train, test *dataset.Batch[B], backend B) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := train.Validate(); err != nil {
		return 0, err
	}
	if test != nil {
		if err := test.Validate(); err != nil {
			return 0, err
		}
	}

	var opt optim.Optimizer
	switch cfg.Optimizer {
	case "sgd":
		opt = optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: cfg.LearningRate}, backend)
	default:
		opt = optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: cfg.LearningRate}, backend)
	}

	lossFn := nn.NewMSELoss(backend)
	tape := backend.GetTape()

	var window metrics.Window
	var trainLoss float64

	for iter := 1; iter <= cfg.Iterations; iter++ {
		start := time.Now()

		tape.Clear()
		tape.StartRecording()
		pred := net.Forward(train.Sensors, train.Queries)
		loss := lossFn.Forward(pred, train.Targets)
		grads := autodiff.Backward(loss, backend)
		tape.StopRecording()

		opt.Step(grads)
		opt.ZeroGrad()

		trainLoss = float64(loss.Item())
		window.Record(time.Since(start), trainLoss)

		if iter%cfg.LogEvery == 0 || iter == cfg.Iterations {
			if test != nil {
				window.RecordTest(Evaluate(net, test, backend))
			}
			snap := window.Snapshot()
			log.Printf("iter=%d train_mse=%.3e test_mse=%.3e iters_per_sec=%.1f",
				iter, snap.TrainMSE, snap.TestMSE, snap.ItersPerSec)
		}
	}

	return trainLoss, nil
}

// Evaluate computes the MSE of the network on a batch without recording
// anything on the tape.
func Evaluate[B autodiff.BackwardCapable](net *deeponet.DeepONet[B], batch *dataset.Batch[B], backend B) float64 {
	tape := backend.GetTape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	pred := net.Forward(batch.Sensors, batch.Queries)
	loss := nn.NewMSELoss(backend).Forward(pred, batch.Targets)
	return float64(loss.Item())
}
