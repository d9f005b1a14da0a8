package cpu

import (
	"fmt"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// MatMul performs matrix multiplication for 2D tensors:
// (M, K) @ (K, N) -> (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := newRaw("matmul", tensor.Shape{m, n}, a.DType())
	switch a.DType() {
	case tensor.Float32:
		matmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	}
	return result
}

// matmulKernel computes C[i,j] = sum_k A[i,k] * B[k,j].
// Loop order (i, k, j) keeps the inner loop contiguous in B and C.
func matmulKernel[T number](c, a, b []T, m, k, n int) {
	for i := range c {
		c[i] = 0
	}
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			aik := a[i*k+kk]
			if aik == 0 {
				continue
			}
			brow := b[kk*n : (kk+1)*n]
			crow := c[i*n : (i+1)*n]
			for j := range brow {
				crow[j] += aik * brow[j]
			}
		}
	}
}
