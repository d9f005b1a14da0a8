package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// SyntheticConfig controls random dataset generation.
type SyntheticConfig struct {
	NumFunctions int   // N, number of input functions
	NumSensors   int   // m, sensor locations per function
	NumQueries   int   // Q, query coordinates
	NumModes     int   // Fourier modes per function (default: 5)
	Seed         int64 // RNG seed
}

// Validate checks the generation parameters.
func (c SyntheticConfig) Validate() error {
	if c.NumFunctions <= 0 {
		return fmt.Errorf("synthetic: NumFunctions must be positive, got %d", c.NumFunctions)
	}
	if c.NumSensors <= 1 {
		return fmt.Errorf("synthetic: NumSensors must be at least 2, got %d", c.NumSensors)
	}
	if c.NumQueries <= 1 {
		return fmt.Errorf("synthetic: NumQueries must be at least 2, got %d", c.NumQueries)
	}
	return nil
}

// Generate builds a training set for the antiderivative operator on [0, 1].
//
// Each input function is a random truncated Fourier series
//
//	u(x) = a₀ + Σ_k a_k sin(2πkx) + b_k cos(2πkx)
//
// with coefficients drawn from N(0, 1) and scaled by 1/k so higher modes
// contribute less. The targets are the exact antiderivatives
//
//	G(u)(y) = ∫₀ʸ u(x) dx
//
// evaluated in closed form, so the dataset carries no quadrature error.
// Sensors and queries are both equispaced grids on [0, 1].
func Generate[B tensor.Backend](cfg SyntheticConfig, backend B) (*Batch[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	modes := cfg.NumModes
	if modes == 0 {
		modes = 5
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	sensorX := grid(cfg.NumSensors)
	queryX := grid(cfg.NumQueries)

	sensors := make([]float32, cfg.NumFunctions*cfg.NumSensors)
	targets := make([]float32, cfg.NumFunctions*cfg.NumQueries)

	for i := 0; i < cfg.NumFunctions; i++ {
		a0 := rng.NormFloat64()
		a := make([]float64, modes)
		b := make([]float64, modes)
		for k := range a {
			scale := 1.0 / float64(k+1)
			a[k] = rng.NormFloat64() * scale
			b[k] = rng.NormFloat64() * scale
		}

		for j, x := range sensorX {
			sensors[i*cfg.NumSensors+j] = float32(fourierEval(a0, a, b, x))
		}
		for j, y := range queryX {
			targets[i*cfg.NumQueries+j] = float32(fourierAntiderivative(a0, a, b, y))
		}
	}

	queries := make([]float32, cfg.NumQueries)
	for j, y := range queryX {
		queries[j] = float32(y)
	}

	sensorsT, err := tensor.FromSlice(sensors, tensor.Shape{cfg.NumFunctions, cfg.NumSensors}, backend)
	if err != nil {
		return nil, err
	}
	queriesT, err := tensor.FromSlice(queries, tensor.Shape{cfg.NumQueries, 1}, backend)
	if err != nil {
		return nil, err
	}
	targetsT, err := tensor.FromSlice(targets, tensor.Shape{cfg.NumFunctions, cfg.NumQueries}, backend)
	if err != nil {
		return nil, err
	}

	return &Batch[B]{Sensors: sensorsT, Queries: queriesT, Targets: targetsT}, nil
}

// grid returns n equispaced points on [0, 1] including both endpoints.
func grid(n int) []float64 {
	pts := make([]float64, n)
	step := 1.0 / float64(n-1)
	for i := range pts {
		pts[i] = float64(i) * step
	}
	pts[n-1] = 1.0
	return pts
}

// fourierEval evaluates u(x) = a₀ + Σ a_k sin(2πkx) + b_k cos(2πkx).
func fourierEval(a0 float64, a, b []float64, x float64) float64 {
	v := a0
	for k := range a {
		w := 2 * math.Pi * float64(k+1)
		v += a[k]*math.Sin(w*x) + b[k]*math.Cos(w*x)
	}
	return v
}

// fourierAntiderivative evaluates ∫₀ʸ u(x) dx in closed form:
//
//	a₀y + Σ_k a_k(1 - cos(wy))/w + b_k sin(wy)/w,  w = 2πk
func fourierAntiderivative(a0 float64, a, b []float64, y float64) float64 {
	v := a0 * y
	for k := range a {
		w := 2 * math.Pi * float64(k+1)
		v += a[k]*(1-math.Cos(w*y))/w + b[k]*math.Sin(w*y)/w
	}
	return v
}
