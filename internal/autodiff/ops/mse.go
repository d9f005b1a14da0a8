package ops

import (
	"fmt"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// MSEOp records output = mean((pred - target)²) as a single fused operation.
//
// Fusing the reduction keeps the mean on the tape: composing it from
// element-wise ops would leave the final division by N unrecorded and the
// parameter gradients off by that factor.
type MSEOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewMSEOp creates a new MSEOp. inputs are [pred, target], output is the
// scalar loss.
func NewMSEOp(pred, target, output *tensor.RawTensor) *MSEOp {
	return &MSEOp{inputs: []*tensor.RawTensor{pred, target}, output: output}
}

// Backward computes the prediction gradient
//
//	dL/dpred[i] = g · 2·(pred[i] - target[i]) / N
//
// where g is the (scalar) output gradient. The target receives no gradient.
func (op *MSEOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	pred, target := op.inputs[0], op.inputs[1]

	grad, err := tensor.NewRaw(pred.Shape(), pred.DType())
	if err != nil {
		panic(fmt.Sprintf("mse backward: %v", err))
	}

	switch pred.DType() {
	case tensor.Float32:
		g := outputGrad.AsFloat32()[0]
		mseGradKernel(grad.AsFloat32(), pred.AsFloat32(), target.AsFloat32(), g)
	case tensor.Float64:
		g := outputGrad.AsFloat64()[0]
		mseGradKernel(grad.AsFloat64(), pred.AsFloat64(), target.AsFloat64(), g)
	default:
		panic(fmt.Sprintf("mse backward: unsupported dtype %s", pred.DType()))
	}
	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns the input tensors [pred, target].
func (op *MSEOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the scalar loss tensor.
func (op *MSEOp) Output() *tensor.RawTensor { return op.output }

func mseGradKernel[T ~float32 | ~float64](dst, pred, target []T, g T) {
	scale := g * 2 / T(len(pred))
	for i := range dst {
		dst[i] = scale * (pred[i] - target[i])
	}
}
