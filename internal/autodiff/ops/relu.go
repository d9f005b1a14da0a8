package ops

import (
	"fmt"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// ReLUOp records output = max(0, input).
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient to positions where the input was
// positive. The gradient at exactly zero is zero.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad, err := tensor.NewRaw(op.input.Shape(), op.input.DType())
	if err != nil {
		panic(fmt.Sprintf("relu backward: %v", err))
	}

	switch op.input.DType() {
	case tensor.Float32:
		reluMaskKernel(grad.AsFloat32(), outputGrad.AsFloat32(), op.input.AsFloat32())
	case tensor.Float64:
		reluMaskKernel(grad.AsFloat64(), outputGrad.AsFloat64(), op.input.AsFloat64())
	default:
		panic(fmt.Sprintf("relu backward: unsupported dtype %s", op.input.DType()))
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the rectified tensor.
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

func reluMaskKernel[T ~float32 | ~float64](dst, grad, input []T) {
	for i := range dst {
		if input[i] > 0 {
			dst[i] = grad[i]
		} else {
			dst[i] = 0
		}
	}
}
