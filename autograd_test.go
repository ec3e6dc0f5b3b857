package main

import (
	"math"
	"testing"
)

// numericGrad approximates ∂f/∂x[i] by central differences.
func numericGrad(f func() float64, x *Tensor, i int) float64 {
	const h = 1e-6
	orig := x.data[i]

	x.data[i] = orig + h
	fPlus := f()
	x.data[i] = orig - h
	fMinus := f()
	x.data[i] = orig

	return (fPlus - fMinus) / (2 * h)
}

// TestMatMulBackward checks analytic matmul gradients against finite
// differences of a scalar loss L = Σ C[i,j].
func TestMatMulBackward(t *testing.T) {
	a := NewTensorRand(1.0, 3, 4)
	b := NewTensorRand(1.0, 4, 2)

	loss := func() float64 {
		c := MatMul(a, b)
		sum := 0.0
		for _, v := range c.data {
			sum += v
		}
		return sum
	}

	// With L = Σ C, gradC is all ones.
	gradC := NewTensor(3, 2)
	for i := range gradC.data {
		gradC.data[i] = 1
	}
	gradA, gradB := MatMulBackward(a, b, gradC)

	for i := range a.data {
		want := numericGrad(loss, a, i)
		if math.Abs(gradA.data[i]-want) > 1e-5 {
			t.Errorf("gradA[%d] = %g, numeric %g", i, gradA.data[i], want)
		}
	}
	for i := range b.data {
		want := numericGrad(loss, b, i)
		if math.Abs(gradB.data[i]-want) > 1e-5 {
			t.Errorf("gradB[%d] = %g, numeric %g", i, gradB.data[i], want)
		}
	}
}

// TestGELUBackward checks the analytic GELU derivative against finite
// differences.
func TestGELUBackward(t *testing.T) {
	x := NewTensor(5)
	for i, v := range []float64{-2, -0.5, 0, 0.5, 2} {
		x.data[i] = v
	}

	gradY := NewTensor(5)
	for i := range gradY.data {
		gradY.data[i] = 1
	}
	gradX := GELUBackward(x, gradY)

	for i := range x.data {
		loss := func() float64 {
			y := GELU(x)
			sum := 0.0
			for _, v := range y.data {
				sum += v
			}
			return sum
		}
		want := numericGrad(loss, x, i)
		if math.Abs(gradX.data[i]-want) > 1e-5 {
			t.Errorf("gradX[%d] = %g, numeric %g", i, gradX.data[i], want)
		}
	}
}

// TestReLUBackward checks gradient masking at the kink.
func TestReLUBackward(t *testing.T) {
	x := NewTensor(3)
	x.data[0], x.data[1], x.data[2] = -1, 0, 2

	gradY := NewTensor(3)
	gradY.data[0], gradY.data[1], gradY.data[2] = 5, 5, 5

	gradX := ReLUBackward(x, gradY)

	if gradX.data[0] != 0 || gradX.data[1] != 0 || gradX.data[2] != 5 {
		t.Errorf("ReLU gradient wrong: %v", gradX.data)
	}
}

// TestRowSumBackward verifies the bias gradient is the column sum.
func TestRowSumBackward(t *testing.T) {
	gradY := NewTensor(3, 2)
	for i, v := range []float64{1, 10, 2, 20, 3, 30} {
		gradY.data[i] = v
	}

	gradB := RowSumBackward(gradY)

	if gradB.data[0] != 6 || gradB.data[1] != 60 {
		t.Errorf("expected [6 60], got %v", gradB.data)
	}
}

// TestAccumulateGrad verifies gradients add rather than overwrite.
func TestAccumulateGrad(t *testing.T) {
	p := NewTensor(2)
	g := NewTensor(2)
	g.data[0], g.data[1] = 1, 2

	p.AccumulateGrad(g)
	p.AccumulateGrad(g)

	if p.grad[0] != 2 || p.grad[1] != 4 {
		t.Errorf("expected [2 4], got %v", p.grad)
	}
}
