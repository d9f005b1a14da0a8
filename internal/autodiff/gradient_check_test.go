package autodiff_test

import (
	"math"
	"testing"

	"github.com/ppposition/Machine-Learn-discussion/internal/autodiff"
	"github.com/ppposition/Machine-Learn-discussion/internal/backend/cpu"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

type cpuAutodiff = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// lossAt runs the forward chain loss = MSE(relu(x @ w), target) without
// recording and returns the scalar loss.
func lossAt(backend cpuAutodiff, xData, wData, targetData []float32) float32 {
	x, _ := tensor.FromSlice(xData, tensor.Shape{2, 3}, backend)
	w, _ := tensor.FromSlice(wData, tensor.Shape{3, 2}, backend)
	target, _ := tensor.FromSlice(targetData, tensor.Shape{2, 2}, backend)

	h := backend.ReLU(x.MatMul(w).Raw())
	loss := backend.MSE(h, target.Raw())
	return loss.AsFloat32()[0]
}

// TestGradientCheck_Chain compares every autodiff weight gradient of the
// chain MSE(relu(x @ w), target) against central finite differences.
func TestGradientCheck_Chain(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// Values picked so every pre-activation is well away from the ReLU
	// kink, where finite differences break down.
	xData := []float32{1, 0.5, -0.3, 0.8, -1.2, 0.4}
	wData := []float32{0.9, -0.7, 0.6, 1.1, -0.5, 0.3}
	targetData := []float32{0.5, -0.2, 1.0, 0.1}

	// Autodiff gradients.
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice(xData, tensor.Shape{2, 3}, backend)
	w, _ := tensor.FromSlice(wData, tensor.Shape{3, 2}, backend)
	target, _ := tensor.FromSlice(targetData, tensor.Shape{2, 2}, backend)

	h := tensor.New[float32](backend.ReLU(x.MatMul(w).Raw()), backend)
	loss := tensor.New[float32](backend.MSE(h.Raw(), target.Raw()), backend)

	grads := autodiff.Backward(loss, backend)
	tape.StopRecording()

	wGrad := grads[w.Raw()].AsFloat32()

	// Finite differences, one weight at a time.
	const eps = 1e-3
	for i := range wData {
		perturbed := append([]float32(nil), wData...)

		perturbed[i] = wData[i] + eps
		plus := lossAt(backend, xData, perturbed, targetData)
		perturbed[i] = wData[i] - eps
		minus := lossAt(backend, xData, perturbed, targetData)

		numerical := (plus - minus) / (2 * eps)
		if math.Abs(float64(wGrad[i]-numerical)) > 1e-2 {
			t.Errorf("w grad[%d]: autodiff %f vs numerical %f", i, wGrad[i], numerical)
		}
	}
}

// TestGradientCheck_LinearBias checks the bias gradient through the
// broadcast add of a linear layer.
func TestGradientCheck_LinearBias(t *testing.T) {
	backend := autodiff.New(cpu.New())

	xData := []float32{1, -2, 0.5, 3}
	bData := []float32{0.1, -0.4}
	targetData := []float32{1, 1, 1, 1}

	forward := func(bias []float32) float32 {
		x, _ := tensor.FromSlice(xData, tensor.Shape{2, 2}, backend)
		b, _ := tensor.FromSlice(bias, tensor.Shape{1, 2}, backend)
		target, _ := tensor.FromSlice(targetData, tensor.Shape{2, 2}, backend)
		loss := backend.MSE(x.Add(b).Raw(), target.Raw())
		return loss.AsFloat32()[0]
	}

	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice(xData, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice(bData, tensor.Shape{1, 2}, backend)
	target, _ := tensor.FromSlice(targetData, tensor.Shape{2, 2}, backend)
	loss := tensor.New[float32](backend.MSE(x.Add(b).Raw(), target.Raw()), backend)

	grads := autodiff.Backward(loss, backend)
	tape.StopRecording()

	bGrad := grads[b.Raw()].AsFloat32()

	const eps = 1e-3
	for i := range bData {
		perturbed := append([]float32(nil), bData...)

		perturbed[i] = bData[i] + eps
		plus := forward(perturbed)
		perturbed[i] = bData[i] - eps
		minus := forward(perturbed)

		numerical := (plus - minus) / (2 * eps)
		if math.Abs(float64(bGrad[i]-numerical)) > 1e-2 {
			t.Errorf("bias grad[%d]: autodiff %f vs numerical %f", i, bGrad[i], numerical)
		}
	}
}
