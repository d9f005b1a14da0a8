package cpu_test

import (
	"math"
	"testing"

	"github.com/ppposition/Machine-Learn-discussion/internal/backend/cpu"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertFloats(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestAdd_SameShape(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := backend.Add(a, b)
	assertFloats(t, result.AsFloat32(), []float32{11, 22, 33, 44})
}

func TestAdd_InplaceWhenUnique(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := fromSlice(t, []float32{3, 4}, tensor.Shape{2})

	result := backend.Add(a, b)
	if result != a {
		t.Error("expected in-place result for unique same-shape operands")
	}
}

func TestAdd_NoInplaceWhenShared(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := fromSlice(t, []float32{3, 4}, tensor.Shape{2})

	clone := a.Clone()
	defer clone.Release()

	result := backend.Add(a, b)
	if result == a {
		t.Error("expected fresh result when buffer is shared")
	}
	assertFloats(t, a.AsFloat32(), []float32{1, 2})
}

func TestAdd_BroadcastRow(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape = %v, want [2 3]", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{11, 22, 33, 14, 25, 36})
}

func TestAdd_BroadcastBothSides(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})
	b := fromSlice(t, []float32{10, 20}, tensor.Shape{1, 2})

	result := backend.Add(a, b)
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{11, 21, 12, 22, 13, 23})
}

func TestSubMulDiv(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{8, 6, 4, 2}, tensor.Shape{4})
	b := fromSlice(t, []float32{2, 2, 2, 2}, tensor.Shape{4})

	assertFloats(t, backend.Sub(a.Clone(), b).AsFloat32(), []float32{6, 4, 2, 0})
	assertFloats(t, backend.Mul(a.Clone(), b).AsFloat32(), []float32{16, 12, 8, 4})
	assertFloats(t, backend.Div(a.Clone(), b).AsFloat32(), []float32{4, 3, 2, 1})
}

func TestAdd_IncompatibleShapesPanics(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{4, 2})

	defer func() {
		if recover() == nil {
			t.Error("incompatible shapes did not panic")
		}
	}()
	backend.Add(a, b)
}

func TestMatMul(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{58, 64, 139, 154})
}

func TestMatMul_ShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})

	defer func() {
		if recover() == nil {
			t.Error("inner-dimension mismatch did not panic")
		}
	}()
	backend.MatMul(a, b)
}

func TestTranspose2D(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.Transpose(a)
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{1, 4, 2, 5, 3, 6})
}

func TestTranspose_RoundTrip(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	back := backend.Transpose(backend.Transpose(a, 1, 0), 1, 0)
	assertFloats(t, back.AsFloat32(), a.AsFloat32())
}

func TestTranspose_InvalidAxesPanics(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	defer func() {
		if recover() == nil {
			t.Error("duplicate axes did not panic")
		}
	}()
	backend.Transpose(a, 0, 0)
}

func TestReshape(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.Reshape(a, tensor.Shape{3, 2})
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", result.Shape())
	}
	// Row-major data order is unchanged.
	assertFloats(t, result.AsFloat32(), []float32{1, 2, 3, 4, 5, 6})

	defer func() {
		if recover() == nil {
			t.Error("element-count mismatch did not panic")
		}
	}()
	backend.Reshape(a, tensor.Shape{4, 2})
}

func TestMulScalar(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, []float32{1, -2, 3}, tensor.Shape{3})

	assertFloats(t, backend.MulScalar(a, -2).AsFloat32(), []float32{-2, 4, -6})
	// Input untouched.
	assertFloats(t, a.AsFloat32(), []float32{1, -2, 3})
}

func TestFloat64Support(t *testing.T) {
	backend := cpu.New()
	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(raw.AsFloat64(), []float64{1.5, 2.5})

	other, _ := tensor.NewRaw(tensor.Shape{2}, tensor.Float64)
	copy(other.AsFloat64(), []float64{0.5, 0.5})

	result := backend.Add(raw.Clone(), other)
	got := result.AsFloat64()
	if got[0] != 2.0 || got[1] != 3.0 {
		t.Errorf("float64 add = %v, want [2 3]", got)
	}
}
