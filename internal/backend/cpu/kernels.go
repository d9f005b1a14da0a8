package cpu

import "github.com/ppposition/Machine-Learn-discussion/internal/tensor"

// number covers the element types the CPU kernels operate on.
type number interface {
	~float32 | ~float64
}

// applyInplace updates a in place: a[i] = op(a[i], b[i]).
// Requires equal shapes and a uniquely referenced buffer for a.
func applyInplace[T number](a, b []T, op binaryOp) {
	switch op {
	case opAdd:
		for i := range a {
			a[i] += b[i]
		}
	case opSub:
		for i := range a {
			a[i] -= b[i]
		}
	case opMul:
		for i := range a {
			a[i] *= b[i]
		}
	case opDiv:
		for i := range a {
			a[i] /= b[i]
		}
	}
}

// applyVectorized computes dst[i] = op(a[i], b[i]) over equal-shaped operands.
func applyVectorized[T number](dst, a, b []T, op binaryOp) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// applyBroadcast computes dst = op(a, b) where a and b broadcast to outShape.
// Broadcast dimensions contribute stride 0 so the same element is reused
// along the expanded axis.
func applyBroadcast[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op binaryOp) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		ai, bi := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			ai += coord * aStrides[d]
			bi += coord * bStrides[d]
		}
		switch op {
		case opAdd:
			dst[i] = a[ai] + b[bi]
		case opSub:
			dst[i] = a[ai] - b[bi]
		case opMul:
			dst[i] = a[ai] * b[bi]
		case opDiv:
			dst[i] = a[ai] / b[bi]
		}
	}
}

// broadcastStrides aligns shape's strides to outShape, substituting stride 0
// for dimensions being broadcast (missing leading dims or size-1 dims).
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	real := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for d := range outShape {
		if d < offset {
			continue
		}
		if shape[d-offset] == 1 && outShape[d] != 1 {
			continue
		}
		strides[d] = real[d-offset]
	}
	return strides
}

// transposeData permutes src into dst according to axes.
func transposeData[T number](dst, src []T, srcShape, dstShape tensor.Shape, axes []int) {
	srcStrides := srcShape.ComputeStrides()
	dstStrides := dstShape.ComputeStrides()

	n := srcShape.NumElements()
	for i := 0; i < n; i++ {
		// Coordinates of element i in the source layout.
		si := 0
		rem := i
		for d, ax := range axes {
			coord := rem / dstStrides[d]
			rem %= dstStrides[d]
			si += coord * srcStrides[ax]
		}
		dst[i] = src[si]
	}
}

func mulScalarKernel[T number](dst, src []T, scalar T) {
	for i := range dst {
		dst[i] = src[i] * scalar
	}
}
