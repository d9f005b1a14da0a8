package nn

import (
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// MSEBackend is an interface for backends that support a fused MSE loss.
type MSEBackend interface {
	MSE(pred, target *tensor.RawTensor) *tensor.RawTensor
}

// MSELoss computes mean squared error: mean((predictions - targets)²).
//
// The loss is delegated to the backend as a single fused operation so that
// the mean reduction is differentiated along with everything else.
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{backend: backend}
}

// Forward computes the scalar MSE loss (shape [1]). Predictions and targets
// must have the same shape.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	mseBackend, ok := any(m.backend).(MSEBackend)
	if !ok {
		panic("MSELoss: backend must implement MSE operation (use autodiff.AutodiffBackend)")
	}

	lossRaw := mseBackend.MSE(predictions.Raw(), targets.Raw())
	return tensor.New[float32, B](lossRaw, m.backend)
}

// Parameters returns nil (loss functions have no trainable parameters).
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
