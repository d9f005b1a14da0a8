// Package dataset loads, saves, and generates operator-learning datasets.
//
// A dataset holds N input functions sampled at m fixed sensor locations,
// Q query coordinates shared by all functions, and the N×Q target values
// of the operator applied to each function at each query point.
package dataset

import (
	"fmt"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// Batch is a full dataset kept in memory as three tensors.
type Batch[B tensor.Backend] struct {
	// Sensors holds the input function values, shape [N, m].
	Sensors *tensor.Tensor[float32, B]

	// Queries holds the query coordinates, shape [Q, d].
	Queries *tensor.Tensor[float32, B]

	// Targets holds the operator values, shape [N, Q].
	Targets *tensor.Tensor[float32, B]
}

// Validate checks that the three tensors agree on N and Q.
func (b *Batch[B]) Validate() error {
	s, q, t := b.Sensors.Shape(), b.Queries.Shape(), b.Targets.Shape()
	if len(s) != 2 || len(q) != 2 || len(t) != 2 {
		return fmt.Errorf("dataset: all arrays must be 2-D, got sensors %v, queries %v, targets %v", s, q, t)
	}
	if t[0] != s[0] {
		return fmt.Errorf("dataset: targets rows %d must match sensors rows %d", t[0], s[0])
	}
	if t[1] != q[0] {
		return fmt.Errorf("dataset: targets cols %d must match queries rows %d", t[1], q[0])
	}
	return nil
}

// NumFunctions returns N, the number of input functions.
func (b *Batch[B]) NumFunctions() int {
	return b.Sensors.Shape()[0]
}

// NumSensors returns m, the number of sensor locations per function.
func (b *Batch[B]) NumSensors() int {
	return b.Sensors.Shape()[1]
}

// NumQueries returns Q, the number of query coordinates.
func (b *Batch[B]) NumQueries() int {
	return b.Queries.Shape()[0]
}
