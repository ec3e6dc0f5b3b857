package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrShapeMismatch indicates incompatible tensor shapes for an operation.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrInvalidShape indicates an invalid tensor shape.
	ErrInvalidShape = errors.New("tensor: invalid shape")
)

// Tensor represents a multi-dimensional array of float64 values stored in
// row-major order. In this codebase tensors are at most 2D: a batch of
// flattened feature windows is (batch, steps*features).
//
// Tensor is not safe for concurrent use. The parallel matmul in matmul.go
// partitions output rows so that workers never share writable state.
type Tensor struct {
	data  []float64 // Flat array storing all elements
	shape []int     // Dimensions, e.g. [batch, features]
	grad  []float64 // Gradient accumulated during the backward pass
}

// NewTensor creates a tensor with the given shape, initialized to zero.
// Panics if the shape is empty or contains non-positive dimensions: shape
// errors are programmer bugs, not runtime conditions to handle gracefully.
func NewTensor(shape ...int) *Tensor {
	if len(shape) == 0 {
		panic("tensor: shape cannot be empty")
	}

	size := 1
	for i, dim := range shape {
		if dim <= 0 {
			panic(fmt.Sprintf("tensor: shape[%d] must be positive, got %d", i, dim))
		}
		size *= dim
	}

	// Copy shape slice to prevent external mutation
	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)

	return &Tensor{
		data:  make([]float64, size),
		shape: shapeCopy,
		grad:  make([]float64, size),
	}
}

// NewTensorRand creates a tensor with values drawn from a normal distribution
// with standard deviation scale, via the Box-Muller transform. Weight matrices
// use scale = 1/sqrt(fanIn) so activations keep roughly unit variance at init.
func NewTensorRand(scale float64, shape ...int) *Tensor {
	t := NewTensor(shape...)

	for i := 0; i < len(t.data); i += 2 {
		u1, u2 := rand.Float64(), rand.Float64()
		mag := scale * math.Sqrt(-2*math.Log(u1))
		t.data[i] = mag * math.Cos(2*math.Pi*u2)
		if i+1 < len(t.data) {
			t.data[i+1] = mag * math.Sin(2*math.Pi*u2)
		}
	}

	return t
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int {
	shape := make([]int, len(t.shape))
	copy(shape, t.shape)
	return shape
}

// Dims returns the number of dimensions (rank) of the tensor.
func (t *Tensor) Dims() int {
	return len(t.shape)
}

// Size returns the total number of elements in the tensor.
func (t *Tensor) Size() int {
	return len(t.data)
}

// At returns the element at the given indices. Panics on invalid indices.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.flatIndex(indices)]
}

// Set sets the element at the given indices. Panics on invalid indices.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.flatIndex(indices)] = value
}

// flatIndex converts multi-dimensional indices to a flat row-major index.
func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(t.shape), len(indices)))
	}

	idx := 0
	stride := 1
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < 0 || indices[i] >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index[%d]=%d out of bounds [0,%d)", i, indices[i], t.shape[i]))
		}
		idx += indices[i] * stride
		stride *= t.shape[i]
	}

	return idx
}

// ZeroGrad clears the gradient buffer. Call before a backward pass.
func (t *Tensor) ZeroGrad() {
	for i := range t.grad {
		t.grad[i] = 0
	}
}

// Clone creates a deep copy of the tensor, including its gradient.
func (t *Tensor) Clone() *Tensor {
	clone := NewTensor(t.shape...)
	copy(clone.data, t.data)
	copy(clone.grad, t.grad)
	return clone
}

// Reshape returns a view with a different shape sharing the underlying data.
// The total number of elements must remain the same.
func (t *Tensor) Reshape(newShape ...int) *Tensor {
	newSize := 1
	for _, dim := range newShape {
		newSize *= dim
	}
	if newSize != len(t.data) {
		panic(fmt.Sprintf("tensor: cannot reshape size %d to %v", len(t.data), newShape))
	}

	shapeCopy := make([]int, len(newShape))
	copy(shapeCopy, newShape)

	return &Tensor{
		data:  t.data,
		shape: shapeCopy,
		grad:  t.grad,
	}
}

// Row returns a copy of row i of a 2D tensor.
func (t *Tensor) Row(i int) []float64 {
	if len(t.shape) != 2 {
		panic("tensor: Row requires 2D tensor")
	}
	n := t.shape[1]
	row := make([]float64, n)
	copy(row, t.data[i*n:(i+1)*n])
	return row
}

// String returns a short description for debugging.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, size=%d)", t.shape, len(t.data))
}

// ===========================================================================
// OPERATIONS
// ===========================================================================

// Add performs element-wise addition: out = a + b.
func Add(a, b *Tensor) *Tensor {
	if !shapeEqual(a.shape, b.shape) {
		panic(fmt.Sprintf("tensor: cannot add shapes %v and %v", a.shape, b.shape))
	}

	out := NewTensor(a.shape...)
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out
}

// Sub performs element-wise subtraction: out = a - b.
func Sub(a, b *Tensor) *Tensor {
	if !shapeEqual(a.shape, b.shape) {
		panic(fmt.Sprintf("tensor: cannot subtract shapes %v and %v", a.shape, b.shape))
	}

	out := NewTensor(a.shape...)
	for i := range out.data {
		out.data[i] = a.data[i] - b.data[i]
	}
	return out
}

// Mul performs element-wise (Hadamard) multiplication: out = a * b.
func Mul(a, b *Tensor) *Tensor {
	if !shapeEqual(a.shape, b.shape) {
		panic(fmt.Sprintf("tensor: cannot multiply shapes %v and %v", a.shape, b.shape))
	}

	out := NewTensor(a.shape...)
	for i := range out.data {
		out.data[i] = a.data[i] * b.data[i]
	}
	return out
}

// Scale multiplies all elements by a scalar: out = a * scalar.
func Scale(a *Tensor, scalar float64) *Tensor {
	out := NewTensor(a.shape...)
	for i := range out.data {
		out.data[i] = a.data[i] * scalar
	}
	return out
}

// AddRow adds a bias row vector to every row of a 2D tensor:
// out[i,j] = a[i,j] + bias[j]. The matching backward op is RowSumBackward
// in autograd.go.
func AddRow(a, bias *Tensor) *Tensor {
	if len(a.shape) != 2 || len(bias.shape) != 1 {
		panic("tensor: AddRow requires 2D input and 1D bias")
	}
	if a.shape[1] != bias.shape[0] {
		panic(fmt.Sprintf("tensor: AddRow bias length %d != row width %d", bias.shape[0], a.shape[1]))
	}

	rows, cols := a.shape[0], a.shape[1]
	out := NewTensor(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[i*cols+j] = a.data[i*cols+j] + bias.data[j]
		}
	}
	return out
}

// Transpose returns the transpose of a 2D matrix: (M, N) -> (N, M).
func Transpose(a *Tensor) *Tensor {
	if len(a.shape) != 2 {
		panic("tensor: Transpose requires 2D tensor")
	}

	m, n := a.shape[0], a.shape[1]
	out := NewTensor(n, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out.data[j*m+i] = a.data[i*n+j]
		}
	}
	return out
}

// ===========================================================================
// ACTIVATION FUNCTIONS
// ===========================================================================

// ReLU applies the Rectified Linear Unit: f(x) = max(0, x).
func ReLU(x *Tensor) *Tensor {
	out := NewTensor(x.shape...)
	for i := range x.data {
		out.data[i] = math.Max(0, x.data[i])
	}
	return out
}

// GELU applies the Gaussian Error Linear Unit, the smooth ReLU variant used
// in the hidden layers of the forecaster:
//
//	GELU(x) ≈ 0.5 * x * (1 + tanh(√(2/π) * (x + 0.044715 * x³)))
func GELU(x *Tensor) *Tensor {
	out := NewTensor(x.shape...)

	const (
		sqrt2OverPi = 0.7978845608028654 // sqrt(2/π)
		coeff       = 0.044715
	)

	for i := range x.data {
		v := x.data[i]
		inner := sqrt2OverPi * (v + coeff*v*v*v)
		out.data[i] = 0.5 * v * (1.0 + math.Tanh(inner))
	}

	return out
}

// ===========================================================================
// HELPERS
// ===========================================================================

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
