// Package optim implements optimization algorithms for training.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: gradient descent with optional momentum
//   - Adam: adaptive moment estimation
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001}, backend)
//
//	for iter := 0; iter < iterations; iter++ {
//	    backend.Tape().Clear()
//	    backend.Tape().StartRecording()
//	    loss := lossFunc.Forward(model.Forward(input), targets)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/ppposition/Machine-Learn-discussion/internal/nn"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters, in place. The map
	// comes from autodiff.Backward.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients. Call before each backward
	// pass to prevent accumulation across iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// getGradient retrieves the gradient for a parameter, or nil when the
// parameter was not part of the computation graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
