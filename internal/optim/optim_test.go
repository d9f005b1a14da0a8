package optim_test

import (
	"math"
	"testing"

	"github.com/ppposition/Machine-Learn-discussion/internal/autodiff"
	"github.com/ppposition/Machine-Learn-discussion/internal/backend/cpu"
	"github.com/ppposition/Machine-Learn-discussion/internal/nn"
	"github.com/ppposition/Machine-Learn-discussion/internal/optim"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// quadraticStep runs one iteration minimizing L = MSE(w, target) and
// returns the loss before the step.
func quadraticStep(t *testing.T, backend backendT, param *nn.Parameter[backendT], target *tensor.Tensor[float32, backendT], opt optim.Optimizer) float32 {
	t.Helper()
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()

	loss := tensor.New[float32](backend.MSE(param.Tensor().Raw(), target.Raw()), backend)
	grads := autodiff.Backward(loss, backend)
	tape.StopRecording()

	opt.Step(grads)
	opt.ZeroGrad()
	return loss.Item()
}

func TestSGD_ConvergesOnQuadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())

	w, _ := tensor.FromSlice([]float32{5, -3}, tensor.Shape{2}, backend)
	target, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	param := nn.NewParameter("w", w)

	opt := optim.NewSGD([]*nn.Parameter[backendT]{param}, optim.SGDConfig{LR: 0.4}, backend)

	var loss float32
	for i := 0; i < 50; i++ {
		loss = quadraticStep(t, backend, param, target, opt)
	}
	if loss > 1e-4 {
		t.Errorf("SGD did not converge: final loss %f", loss)
	}
}

func TestSGD_MomentumConverges(t *testing.T) {
	backend := autodiff.New(cpu.New())

	w, _ := tensor.FromSlice([]float32{4}, tensor.Shape{1}, backend)
	target, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	param := nn.NewParameter("w", w)

	opt := optim.NewSGD([]*nn.Parameter[backendT]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	var loss float32
	for i := 0; i < 200; i++ {
		loss = quadraticStep(t, backend, param, target, opt)
	}
	if loss > 1e-4 {
		t.Errorf("momentum SGD did not converge: final loss %f", loss)
	}
}

func TestAdam_ConvergesOnQuadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())

	w, _ := tensor.FromSlice([]float32{5, -3, 0.5}, tensor.Shape{3}, backend)
	target, _ := tensor.FromSlice([]float32{1, 2, -1}, tensor.Shape{3}, backend)
	param := nn.NewParameter("w", w)

	opt := optim.NewAdam([]*nn.Parameter[backendT]{param}, optim.AdamConfig{LR: 0.1}, backend)

	var loss float32
	for i := 0; i < 1000; i++ {
		loss = quadraticStep(t, backend, param, target, opt)
	}
	if loss > 1e-3 {
		t.Errorf("Adam did not converge: final loss %f", loss)
	}
}

func TestAdam_Defaults(t *testing.T) {
	backend := autodiff.New(cpu.New())
	opt := optim.NewAdam(nil, optim.AdamConfig{}, backend)
	if got := opt.GetLR(); got != 0.001 {
		t.Errorf("default LR = %f, want 0.001", got)
	}
}

func TestAdam_FirstStepSize(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// With bias correction the very first Adam step is approximately lr in
	// the direction of the gradient sign, regardless of magnitude.
	w, _ := tensor.FromSlice([]float32{10}, tensor.Shape{1}, backend)
	target, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	param := nn.NewParameter("w", w)

	opt := optim.NewAdam([]*nn.Parameter[backendT]{param}, optim.AdamConfig{LR: 0.5}, backend)
	quadraticStep(t, backend, param, target, opt)

	got := param.Tensor().At(0)
	if math.Abs(float64(got-9.5)) > 1e-3 {
		t.Errorf("after first step w = %f, want ~9.5", got)
	}
}

func TestStep_SkipsParamsWithoutGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())

	w, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	param := nn.NewParameter("w", w)

	opt := optim.NewAdam([]*nn.Parameter[backendT]{param}, optim.AdamConfig{LR: 0.1}, backend)
	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	if param.Tensor().At(0) != 1 || param.Tensor().At(1) != 2 {
		t.Error("parameter without gradient was modified")
	}
}
