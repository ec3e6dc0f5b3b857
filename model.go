package main

import (
	"fmt"
	"math"
)

// ===========================================================================
// THE FORECASTER
// ===========================================================================
//
// A feed-forward network mapping a flattened input window to a flattened
// forecast window:
//
//	x  (B, inputSteps*F)
//	h1 = GELU(x @ W1 + b1)     (B, hidden1)
//	h2 = GELU(h1 @ W2 + b2)    (B, hidden2)
//	y  = h2 @ W3 + b3          (B, horizon*F)
//
// The output head is linear: targets are min-max scaled to [0,1] (numeric
// block) or already bounded (cyclical block), and a squashing activation on
// the head would bias predictions toward the center of the range.
//
// Training follows the forward-with-cache / backward pattern: the forward
// pass records every intermediate activation the chain rule needs, and
// Backward replays them in reverse, accumulating parameter gradients into
// each tensor's grad buffer for the optimizer to consume.
// ===========================================================================

// ModelConfig describes the forecaster's dimensions. NumFeatures is derived
// from the dataset at training time and fixed in the checkpoint thereafter.
type ModelConfig struct {
	InputSteps  int `json:"input_steps"`  // timesteps in the input window
	Horizon     int `json:"horizon"`      // timesteps forecast ahead
	NumFeatures int `json:"num_features"` // feature columns per timestep
	Hidden1     int `json:"hidden1"`      // first hidden layer width
	Hidden2     int `json:"hidden2"`      // second hidden layer width
}

// InputSize returns the flattened input width.
func (c ModelConfig) InputSize() int { return c.InputSteps * c.NumFeatures }

// OutputSize returns the flattened forecast width.
func (c ModelConfig) OutputSize() int { return c.Horizon * c.NumFeatures }

// Forecaster is the trainable model: three dense layers with GELU between.
type Forecaster struct {
	config ModelConfig

	w1, b1 *Tensor
	w2, b2 *Tensor
	w3, b3 *Tensor
}

// NewForecaster creates a forecaster with randomly initialized weights.
// Each weight matrix is scaled by 1/sqrt(fanIn); biases start at zero.
func NewForecaster(config ModelConfig) *Forecaster {
	in := config.InputSize()
	out := config.OutputSize()

	return &Forecaster{
		config: config,
		w1:     NewTensorRand(1.0/math.Sqrt(float64(in)), in, config.Hidden1),
		b1:     NewTensor(config.Hidden1),
		w2:     NewTensorRand(1.0/math.Sqrt(float64(config.Hidden1)), config.Hidden1, config.Hidden2),
		b2:     NewTensor(config.Hidden2),
		w3:     NewTensorRand(1.0/math.Sqrt(float64(config.Hidden2)), config.Hidden2, out),
		b3:     NewTensor(out),
	}
}

// Config returns the model's dimensions.
func (m *Forecaster) Config() ModelConfig {
	return m.config
}

// Parameters returns all trainable parameters in checkpoint order.
func (m *Forecaster) Parameters() []*Tensor {
	return []*Tensor{m.w1, m.b1, m.w2, m.b2, m.w3, m.b3}
}

// NumParameters counts the total scalar parameters.
func (m *Forecaster) NumParameters() int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.Size()
	}
	return total
}

// forwardCache stores the activations the backward pass needs.
type forwardCache struct {
	x  *Tensor // input          (B, in)
	z1 *Tensor // pre-activation (B, hidden1)
	a1 *Tensor // GELU(z1)
	z2 *Tensor // pre-activation (B, hidden2)
	a2 *Tensor // GELU(z2)
}

// Forward runs inference on a batch of flattened windows (B, inputSteps*F)
// and returns (B, horizon*F).
func (m *Forecaster) Forward(x *Tensor) *Tensor {
	out, _ := m.ForwardWithCache(x)
	return out
}

// ForwardWithCache runs the forward pass and returns the activations needed
// for Backward.
func (m *Forecaster) ForwardWithCache(x *Tensor) (*Tensor, *forwardCache) {
	if len(x.shape) != 2 || x.shape[1] != m.config.InputSize() {
		panic(fmt.Sprintf("forecaster: expected input (B, %d), got %v", m.config.InputSize(), x.shape))
	}

	z1 := AddRow(MatMulParallel(x, m.w1, 0), m.b1)
	a1 := GELU(z1)
	z2 := AddRow(MatMulParallel(a1, m.w2, 0), m.b2)
	a2 := GELU(z2)
	out := AddRow(MatMulParallel(a2, m.w3, 0), m.b3)

	return out, &forwardCache{x: x, z1: z1, a1: a1, z2: z2, a2: a2}
}

// Backward propagates gradOut = ∂L/∂output back through the network,
// accumulating parameter gradients. Call Optimizer.ZeroGrad beforehand.
func (m *Forecaster) Backward(gradOut *Tensor, cache *forwardCache) {
	// Output layer: out = a2 @ w3 + b3
	gradA2, gradW3 := MatMulBackward(cache.a2, m.w3, gradOut)
	m.w3.AccumulateGrad(gradW3)
	m.b3.AccumulateGrad(RowSumBackward(gradOut))

	// Second hidden layer: a2 = GELU(z2), z2 = a1 @ w2 + b2
	gradZ2 := GELUBackward(cache.z2, gradA2)
	gradA1, gradW2 := MatMulBackward(cache.a1, m.w2, gradZ2)
	m.w2.AccumulateGrad(gradW2)
	m.b2.AccumulateGrad(RowSumBackward(gradZ2))

	// First hidden layer: a1 = GELU(z1), z1 = x @ w1 + b1
	gradZ1 := GELUBackward(cache.z1, gradA1)
	_, gradW1 := MatMulBackward(cache.x, m.w1, gradZ1)
	m.w1.AccumulateGrad(gradW1)
	m.b1.AccumulateGrad(RowSumBackward(gradZ1))
}

// PredictWindow forecasts from a single scaled input window (inputSteps rows
// of F features), returning horizon rows of F features, still in scaled
// space.
func (m *Forecaster) PredictWindow(window [][]float64) [][]float64 {
	cfg := m.config
	if len(window) != cfg.InputSteps {
		panic(fmt.Sprintf("forecaster: expected %d input rows, got %d", cfg.InputSteps, len(window)))
	}

	x := NewTensor(1, cfg.InputSize())
	for s, row := range window {
		if len(row) != cfg.NumFeatures {
			panic(fmt.Sprintf("forecaster: expected %d features, got %d", cfg.NumFeatures, len(row)))
		}
		copy(x.data[s*cfg.NumFeatures:(s+1)*cfg.NumFeatures], row)
	}

	flat := m.Forward(x)

	out := make([][]float64, cfg.Horizon)
	for s := 0; s < cfg.Horizon; s++ {
		row := make([]float64, cfg.NumFeatures)
		copy(row, flat.data[s*cfg.NumFeatures:(s+1)*cfg.NumFeatures])
		out[s] = row
	}
	return out
}
