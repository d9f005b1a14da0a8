// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation stores its inputs and output during the forward pass and
// computes input gradients during the backward pass:
//   - AddOp/SubOp: gradient passes through (negated for the subtrahend)
//   - MulOp/DivOp: product and quotient rules
//   - MatMulOp: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - TransposeOp/ReshapeOp: gradient is the inverse rearrangement
//   - MulScalarOp: gradient scales by the same constant
//   - ReLUOp: gradient masked to positive inputs
//   - MSEOp: fused mean-squared-error loss with analytic backward
package ops

import "github.com/ppposition/Machine-Learn-discussion/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice corresponds position-wise to Inputs(); a nil entry
	// means no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
