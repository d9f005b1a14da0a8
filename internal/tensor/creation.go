package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		panic(err)
	}
	// Buffer is already zero-initialized.
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, T(1), b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1) using the supplied
// source. Randomness is always threaded through an explicit *rand.Rand so
// that runs are reproducible from a single seed.
func Randn[T DType, B Backend](rng *rand.Rand, shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = T(rng.NormFloat64())
	}
	return t
}

// Linspace creates a column tensor of n evenly spaced values over
// [start, end], shaped {n, 1}. Used for sensor and query location grids.
func Linspace[T DType, B Backend](start, end T, n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, 1}, b)
	data := t.Data()
	if n == 1 {
		data[0] = start
		return t
	}
	step := (float64(end) - float64(start)) / float64(n-1)
	for i := range data {
		data[i] = T(float64(start) + float64(i)*step)
	}
	// Pin the endpoint against accumulated rounding.
	data[n-1] = end
	return t
}
