package main

import (
	"math"
	"testing"
)

func tinyModel() (*Forecaster, ModelConfig) {
	cfg := ModelConfig{
		InputSteps:  4,
		Horizon:     2,
		NumFeatures: 3,
		Hidden1:     8,
		Hidden2:     6,
	}
	return NewForecaster(cfg), cfg
}

// TestForecasterShapes verifies forward output shape and PredictWindow
// reshaping.
func TestForecasterShapes(t *testing.T) {
	model, cfg := tinyModel()

	x := NewTensorRand(1.0, 5, cfg.InputSize())
	out := model.Forward(x)

	shape := out.Shape()
	if shape[0] != 5 || shape[1] != cfg.OutputSize() {
		t.Fatalf("output shape %v, want [5 %d]", shape, cfg.OutputSize())
	}

	window := make([][]float64, cfg.InputSteps)
	for i := range window {
		window[i] = make([]float64, cfg.NumFeatures)
	}
	pred := model.PredictWindow(window)
	if len(pred) != cfg.Horizon || len(pred[0]) != cfg.NumFeatures {
		t.Fatalf("PredictWindow shape %dx%d, want %dx%d",
			len(pred), len(pred[0]), cfg.Horizon, cfg.NumFeatures)
	}
}

// TestForecasterGradients checks every parameter gradient of the full
// network against central finite differences of the MSE loss.
func TestForecasterGradients(t *testing.T) {
	model, cfg := tinyModel()

	x := NewTensorRand(1.0, 5, cfg.InputSize())
	targets := NewTensorRand(1.0, 5, cfg.OutputSize())

	loss := func() float64 {
		return MSELoss(model.Forward(x), targets)
	}

	// Analytic gradients.
	params := model.Parameters()
	for _, p := range params {
		p.ZeroGrad()
	}
	pred, cache := model.ForwardWithCache(x)
	model.Backward(MSEBackward(pred, targets), cache)

	for pi, p := range params {
		for i := range p.data {
			want := numericGrad(loss, p, i)
			got := p.grad[i]
			if math.Abs(got-want) > 1e-4*(1+math.Abs(want)) {
				t.Fatalf("param %d grad[%d] = %g, numeric %g", pi, i, got, want)
			}
		}
	}
}

// TestForecasterLearns trains on a smooth periodic series and checks the
// loss actually drops.
func TestForecasterLearns(t *testing.T) {
	// Two phase-shifted sinusoids, already in [0,1] like scaled features.
	rows := make([][]float64, 200)
	for i := range rows {
		ft := float64(i)
		rows[i] = []float64{
			0.5 + 0.4*math.Sin(2*math.Pi*ft/12),
			0.5 + 0.4*math.Cos(2*math.Pi*ft/20),
		}
	}

	windows := MakeWindows(rows, 8, 2)
	train, val := SplitWindows(windows, 0.8)

	model := NewForecaster(ModelConfig{
		InputSteps:  8,
		Horizon:     2,
		NumFeatures: 2,
		Hidden1:     16,
		Hidden2:     8,
	})

	before, _ := Evaluate(model, val, 16)

	cfg := DefaultTrainingConfig()
	cfg.NumEpochs = 20
	cfg.BatchSize = 16
	cfg.LearningRate = 1e-2
	cfg.WarmupSteps = 10
	cfg.LogInterval = 0
	cfg.Seed = 42

	after := Train(model, train, val, cfg)

	if math.IsNaN(after) {
		t.Fatal("validation loss is NaN")
	}
	if after >= before {
		t.Fatalf("loss did not decrease: %g -> %g", before, after)
	}
}
