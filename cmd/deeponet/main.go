// Command deeponet trains a Deep Operator Network to approximate the
// antiderivative operator G(u)(y) = ∫₀ʸ u(x) dx on [0, 1].
//
// Data can come from an .npz file (arrays "X_branch", "X_trunk", "y") or be
// generated on the fly from random Fourier series with exact antiderivative
// targets. After training, the model is compared against the analytic
// antiderivative of u(x) = x and the two curves are rendered to a PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ppposition/Machine-Learn-discussion/internal/autodiff"
	"github.com/ppposition/Machine-Learn-discussion/internal/backend/cpu"
	"github.com/ppposition/Machine-Learn-discussion/internal/dataset"
	"github.com/ppposition/Machine-Learn-discussion/internal/deeponet"
	"github.com/ppposition/Machine-Learn-discussion/internal/evalplot"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
	"github.com/ppposition/Machine-Learn-discussion/internal/trainer"
)

// backendT is the concrete backend used by the command: CPU compute wrapped
// with gradient tracking.
type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func main() {
	trainPath := flag.String("train", "", "Path to training .npz (empty = synthetic data)")
	testPath := flag.String("test", "", "Path to held-out .npz (empty = synthetic data)")
	saveData := flag.String("save-data", "", "Write the generated training set to this .npz and exit")
	numFuncs := flag.Int("funcs", 150, "Synthetic input functions to generate")
	numSensors := flag.Int("sensors", 100, "Sensor locations per input function")
	numQueries := flag.Int("queries", 100, "Query locations per input function")
	iters := flag.Int("iters", 10000, "Training iterations")
	lr := flag.Float64("lr", 0.001, "Learning rate")
	logEvery := flag.Int("log-every", 1000, "Log every N iterations")
	seed := flag.Int64("seed", 1234, "PRNG seed for weights and synthetic data")
	branchSpec := flag.String("branch", "40,40", "Branch hidden/output widths, comma-separated")
	trunkSpec := flag.String("trunk", "40,40", "Trunk hidden/output widths, comma-separated")
	optimizer := flag.String("optimizer", "adam", "Optimizer: adam or sgd")
	plotPath := flag.String("plot", "deeponet.png", "Output path for the comparison plot (empty = skip)")

	flag.Parse()

	backend := autodiff.New(cpu.New())

	train, err := loadOrGenerate(*trainPath, *numFuncs, *numSensors, *numQueries, *seed, backend)
	if err != nil {
		log.Fatalf("load training data: %v", err)
	}
	log.Printf("train: funcs=%d sensors=%d queries=%d",
		train.NumFunctions(), train.NumSensors(), train.NumQueries())

	if *saveData != "" {
		if err := dataset.Save(*saveData, train); err != nil {
			log.Fatalf("save training data: %v", err)
		}
		log.Printf("wrote %s", *saveData)
		return
	}

	// The held-out set uses a different seed so it never overlaps the
	// training functions.
	test, err := loadOrGenerate(*testPath, *numFuncs/5+1, *numSensors, *numQueries, *seed+1, backend)
	if err != nil {
		log.Fatalf("load test data: %v", err)
	}

	branchWidths, err := parseWidths(*branchSpec, train.NumSensors())
	if err != nil {
		log.Fatalf("parse -branch: %v", err)
	}
	trunkWidths, err := parseWidths(*trunkSpec, train.Queries.Shape()[1])
	if err != nil {
		log.Fatalf("parse -trunk: %v", err)
	}

	net, err := deeponet.New(deeponet.Config{
		BranchWidths: branchWidths,
		TrunkWidths:  trunkWidths,
		Seed:         *seed,
	}, backend)
	if err != nil {
		log.Fatalf("build model: %v", err)
	}
	log.Printf("model: branch=%v trunk=%v latent=%d", branchWidths, trunkWidths, net.LatentDim())

	cfg := trainer.Config{
		Iterations:   *iters,
		LogEvery:     *logEvery,
		LearningRate: float32(*lr),
		Optimizer:    *optimizer,
	}
	finalLoss, err := trainer.Train(cfg, net, train, test, backend)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	log.Printf("final train_mse=%.3e test_mse=%.3e", finalLoss, trainer.Evaluate(net, test, backend))

	if *plotPath != "" {
		if err := renderIdentityComparison(net, train, *plotPath, backend); err != nil {
			log.Fatalf("render plot: %v", err)
		}
		log.Printf("wrote %s", *plotPath)
	}
}

// loadOrGenerate reads an .npz dataset, or generates a synthetic one when
// the path is empty.
func loadOrGenerate(path string, funcs, sensors, queries int, seed int64, backend backendT) (*dataset.Batch[backendT], error) {
	if path != "" {
		return dataset.Load(path, backend)
	}
	return dataset.Generate(dataset.SyntheticConfig{
		NumFunctions: funcs,
		NumSensors:   sensors,
		NumQueries:   queries,
		Seed:         seed,
	}, backend)
}

// renderIdentityComparison plots the network's prediction for u(x) = x
// against the analytic antiderivative y²/2.
func renderIdentityComparison(net *deeponet.DeepONet[backendT], train *dataset.Batch[backendT], path string, backend backendT) error {
	m := train.NumSensors()
	sensorVals := make([]float32, m)
	for j := range sensorVals {
		sensorVals[j] = float32(j) / float32(m-1)
	}
	sensors, err := tensor.FromSlice(sensorVals, tensor.Shape{1, m}, backend)
	if err != nil {
		return err
	}

	cmp, err := evalplot.Compare(net, sensors, train.Queries, func(y float64) float64 {
		return y * y / 2
	})
	if err != nil {
		return err
	}
	log.Printf("u(x)=x comparison: max_abs_err=%.3e", cmp.MaxAbsError())

	return cmp.RenderPNG(path, "Antiderivative of u(x)=x")
}

// parseWidths parses a comma-separated width list and prepends the input
// dimension, so "-branch 40,40" with 100 sensors yields [100, 40, 40].
func parseWidths(spec string, inputDim int) ([]int, error) {
	parts := strings.Split(spec, ",")
	widths := make([]int, 0, len(parts)+1)
	widths = append(widths, inputDim)
	for _, part := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid width %q: %w", part, err)
		}
		widths = append(widths, w)
	}
	return widths, nil
}
