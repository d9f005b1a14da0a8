package autodiff_test

import (
	"math"
	"testing"

	"github.com/ppposition/Machine-Learn-discussion/internal/autodiff"
	"github.com/ppposition/Machine-Learn-discussion/internal/backend/cpu"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
}

func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("tape should not be recording initially")
	}
	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("tape should be recording after StartRecording()")
	}
	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("tape should not be recording after StopRecording()")
	}
}

func TestTape_Clear(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	_ = a.Mul(a)
	if tape.NumOps() != 1 {
		t.Fatalf("NumOps() = %d, want 1", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d after Clear, want 0", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Clear must preserve recording state")
	}
}

// TestBackward_Square checks dy/dx for y = x².
func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)
	got := grads[x.Raw()].AsFloat32()[0]
	if math.Abs(float64(got-6)) > 1e-5 {
		t.Errorf("dy/dx = %f, want 6", got)
	}
}

// TestBackward_SharedInput checks gradient accumulation when one tensor
// feeds two operations: y = x*x + x has dy/dx = 2x + 1.
func TestBackward_SharedInput(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	y := x.Mul(x).Add(x)

	grads := autodiff.Backward(y, backend)
	got := grads[x.Raw()].AsFloat32()[0]
	if math.Abs(float64(got-5)) > 1e-5 {
		t.Errorf("dy/dx = %f, want 5", got)
	}
}

// TestBackward_BroadcastAdd checks that a [1, 2] bias broadcast over a
// [3, 2] batch receives the row-summed gradient.
func TestBackward_BroadcastAdd(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, backend)
	bias, _ := tensor.FromSlice([]float32{10, 20}, tensor.Shape{1, 2}, backend)
	y := a.Add(bias)

	grads := autodiff.Backward(y, backend)
	got := grads[bias.Raw()]
	if !got.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("bias grad shape = %v, want [1 2]", got.Shape())
	}
	for i, v := range got.AsFloat32() {
		if math.Abs(float64(v-3)) > 1e-5 {
			t.Errorf("bias grad[%d] = %f, want 3", i, v)
		}
	}
}

// TestBackward_MatMul checks dL/dA and dL/dB for L = sum(A@B).
func TestBackward_MatMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
	y := a.MatMul(b)

	grads := autodiff.Backward(y, backend)

	// dL/dA = ones @ Bᵀ: each row is the column sums pattern of B.
	wantA := []float32{11, 15, 11, 15}
	for i, v := range grads[a.Raw()].AsFloat32() {
		if math.Abs(float64(v-wantA[i])) > 1e-5 {
			t.Errorf("dL/dA[%d] = %f, want %f", i, v, wantA[i])
		}
	}

	// dL/dB = Aᵀ @ ones.
	wantB := []float32{4, 4, 6, 6}
	for i, v := range grads[b.Raw()].AsFloat32() {
		if math.Abs(float64(v-wantB[i])) > 1e-5 {
			t.Errorf("dL/dB[%d] = %f, want %f", i, v, wantB[i])
		}
	}
}

// TestBackward_ReLU checks the positive mask.
func TestBackward_ReLU(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{-1, 0, 2}, tensor.Shape{3}, backend)
	y := tensor.New[float32](backend.ReLU(x.Raw()), backend)

	grads := autodiff.Backward(y, backend)
	want := []float32{0, 0, 1}
	for i, v := range grads[x.Raw()].AsFloat32() {
		if v != want[i] {
			t.Errorf("relu grad[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestBackward_MSE checks the fused loss gradient 2(p-t)/N against hand
// computation.
func TestBackward_MSE(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	pred, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	target, _ := tensor.FromSlice([]float32{0, 2, 5, 4}, tensor.Shape{2, 2}, backend)

	loss := tensor.New[float32](backend.MSE(pred.Raw(), target.Raw()), backend)
	if got := loss.Item(); math.Abs(float64(got-1.25)) > 1e-6 {
		t.Fatalf("loss = %f, want 1.25", got)
	}

	grads := autodiff.Backward(loss, backend)
	want := []float32{0.5, 0, -1, 0}
	for i, v := range grads[pred.Raw()].AsFloat32() {
		if math.Abs(float64(v-want[i])) > 1e-6 {
			t.Errorf("mse grad[%d] = %f, want %f", i, v, want[i])
		}
	}
	if grads[target.Raw()] != nil {
		t.Error("target must not receive a gradient")
	}
}

// TestBackward_NoRecording ensures operations off the tape are ignored.
func TestBackward_NoRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	x, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)
	_ = x.Mul(x)
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d without recording, want 0", tape.NumOps())
	}
}
