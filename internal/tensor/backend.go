package tensor

// Backend defines the interface that compute backends must implement.
// Backends carry out the actual computation for tensor operations; the
// autodiff decorator wraps any Backend to add gradient recording.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations on 2D tensors.
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Name returns the backend name (e.g. "CPU", "Autodiff(CPU)").
	Name() string
}
