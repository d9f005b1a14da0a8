// Package nn implements neural network modules.
//
// This package provides the building blocks the operator network is
// assembled from:
//   - Module interface: base interface for all components
//   - Parameter: trainable parameters with gradient tracking
//   - Linear: fully connected layer
//   - ReLU activation
//   - MSELoss
//   - Sequential: container for stacking layers
//   - MLP: convenience constructor for Linear/ReLU stacks
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(rng, 100, 40, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(rng, 40, 40, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, including
	// nested module parameters. Modules without trainable parameters
	// return nil.
	Parameters() []*Parameter[B]
}
