package main

import (
	"math"
)

// ===========================================================================
// BACKWARD OPERATIONS
// ===========================================================================
//
// Hand-derived gradients for the handful of operations the forecaster uses.
// Each forward op has a matching backward that maps the gradient flowing in
// from the loss to gradients for the op's inputs, by the chain rule.
//
// For matrix multiplication C = A @ B:
//
//	∂L/∂A = ∂L/∂C @ Bᵀ
//	∂L/∂B = Aᵀ @ ∂L/∂C
//
// For a broadcast bias add Y[i,j] = X[i,j] + b[j], the bias gradient is the
// column sum of the incoming gradient (each batch row contributes once).
// ===========================================================================

// MatMulBackward computes gradients for C = A @ B given gradC = ∂L/∂C.
func MatMulBackward(a, b, gradC *Tensor) (gradA, gradB *Tensor) {
	// ∂L/∂A = gradC @ Bᵀ
	gradA = MatMulParallel(gradC, Transpose(b), 0)

	// ∂L/∂B = Aᵀ @ gradC
	gradB = MatMulParallel(Transpose(a), gradC, 0)

	return gradA, gradB
}

// RowSumBackward computes the bias gradient for Y = AddRow(X, b):
// gradB[j] = Σ_i gradY[i,j]. The gradient w.r.t. X is gradY unchanged.
func RowSumBackward(gradY *Tensor) *Tensor {
	if len(gradY.shape) != 2 {
		panic("RowSumBackward: requires 2D tensor")
	}

	rows, cols := gradY.shape[0], gradY.shape[1]
	gradB := NewTensor(cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			gradB.data[j] += gradY.data[i*cols+j]
		}
	}
	return gradB
}

// ReLUBackward computes the gradient for Y = ReLU(X):
// gradX[i] = gradY[i] if X[i] > 0, else 0.
func ReLUBackward(x, gradY *Tensor) *Tensor {
	gradX := NewTensor(x.shape...)
	for i := range x.data {
		if x.data[i] > 0 {
			gradX.data[i] = gradY.data[i]
		}
	}
	return gradX
}

// GELUBackward computes the gradient for Y = GELU(X) using the analytic
// derivative of the tanh approximation:
//
//	d/dx GELU(x) = 0.5*(1+tanh(u)) + 0.5*x*sech²(u)*u'
//	u  = √(2/π) * (x + 0.044715 x³)
//	u' = √(2/π) * (1 + 3*0.044715 x²)
func GELUBackward(x, gradY *Tensor) *Tensor {
	gradX := NewTensor(x.shape...)

	const (
		sqrt2OverPi = 0.7978845608028654
		coeff       = 0.044715
	)

	for i := range x.data {
		v := x.data[i]

		inner := sqrt2OverPi * (v + coeff*v*v*v)
		tanhInner := math.Tanh(inner)

		tanhDeriv := 1.0 - tanhInner*tanhInner // sech²(inner)
		innerDeriv := sqrt2OverPi * (1.0 + 3.0*coeff*v*v)
		geluDeriv := 0.5*(1.0+tanhInner) + 0.5*v*tanhDeriv*innerDeriv

		gradX.data[i] = gradY.data[i] * geluDeriv
	}

	return gradX
}

// AccumulateGrad adds grad's data into t's gradient buffer. Used when a
// parameter receives gradient contributions from multiple places.
func (t *Tensor) AccumulateGrad(grad *Tensor) {
	if !shapeEqual(t.shape, grad.shape) {
		panic("AccumulateGrad: shape mismatch")
	}
	for i := range t.grad {
		t.grad[i] += grad.data[i]
	}
}
