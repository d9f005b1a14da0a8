package ops

import (
	"fmt"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape,
// undoing any broadcasting performed during the forward pass.
//
// Example:
//
//	forward:  a[1,40] + b[32,40] -> c[32,40]  (a broadcast along dim 0)
//	backward: grad_c[32,40] -> grad_a[1,40]   (sum along dim 0)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone when shapes already match so later in-place operations cannot
	// corrupt a gradient shared between operations.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Sum away leading dimensions the target lacks.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDimension(result, 0, true)
	}

	// Sum along dimensions where the target is 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] > 1 {
			result = sumAlongDimension(result, d, false)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// sumAlongDimension sums t along dim. When drop is true the dimension is
// removed from the shape; otherwise it is kept with size 1.
func sumAlongDimension(t *tensor.RawTensor, dim int, drop bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDimension: invalid dimension %d for shape %v", dim, shape))
	}

	outShape := shape.Clone()
	outShape[dim] = 1
	if drop && len(shape) > 1 {
		outShape = append(outShape[:dim], outShape[dim+1:]...)
	}

	result, err := tensor.NewRaw(outShape, t.DType())
	if err != nil {
		panic(fmt.Sprintf("sumAlongDimension: %v", err))
	}

	strides := shape.ComputeStrides()
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := strides[dim]
	count := shape[dim]

	switch t.DType() {
	case tensor.Float32:
		sumDimKernel(result.AsFloat32(), t.AsFloat32(), outer, count, inner)
	case tensor.Float64:
		sumDimKernel(result.AsFloat64(), t.AsFloat64(), outer, count, inner)
	default:
		panic(fmt.Sprintf("sumAlongDimension: unsupported dtype %s", t.DType()))
	}
	return result
}

// sumDimKernel collapses the middle axis of a tensor viewed as
// [outer, count, inner] into [outer, 1, inner].
func sumDimKernel[T ~float32 | ~float64](dst, src []T, outer, count, inner int) {
	for i := range dst {
		dst[i] = 0
	}
	for o := 0; o < outer; o++ {
		for c := 0; c < count; c++ {
			base := (o*count + c) * inner
			out := o * inner
			for j := 0; j < inner; j++ {
				dst[out+j] += src[base+j]
			}
		}
	}
}

// negate returns -t.
func negate(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.MulScalar(t, -1)
}
