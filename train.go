package main

import (
	"fmt"
	"math"
	"math/rand"
)

// ===========================================================================
// TRAINING
// ===========================================================================
//
// The training loop is plain mini-batch gradient descent on mean squared
// error:
//
//	1. Forward:   batch of windows → predictions → MSE against targets
//	2. Backward:  ∂MSE/∂prediction propagated through the network
//	3. Clip:      rescale gradients when the global norm explodes
//	4. Step:      SGD or Adam update with a warmup+cosine learning rate
//
// Windows are shuffled every epoch; the validation split is chronological
// and never shuffled, so reported validation loss reflects genuinely unseen
// later data.
// ===========================================================================

// TrainingConfig holds optimization hyperparameters.
type TrainingConfig struct {
	LearningRate      float64
	WeightDecay       float64 // L2 regularization
	GradientClipValue float64 // global-norm clip threshold

	BatchSize int
	NumEpochs int

	WarmupSteps int     // linear warmup from 0 to LearningRate
	MinLR       float64 // floor after cosine decay

	Optimizer   string // "sgd" or "adam"
	AdamBeta1   float64
	AdamBeta2   float64
	AdamEpsilon float64

	LogInterval int // log every N steps

	Seed int64 // shuffle seed; 0 means nondeterministic
}

// DefaultTrainingConfig returns defaults that converge on a few years of
// daily observations in well under a minute on a laptop.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		LearningRate:      1e-3,
		WeightDecay:       1e-5,
		GradientClipValue: 1.0,

		BatchSize: 32,
		NumEpochs: 50,

		WarmupSteps: 100,
		MinLR:       1e-5,

		Optimizer:   "adam",
		AdamBeta1:   0.9,
		AdamBeta2:   0.999,
		AdamEpsilon: 1e-8,

		LogInterval: 50,
	}
}

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Step performs a single optimization step at learning rate lr.
	Step(params []*Tensor, lr float64)

	// ZeroGrad clears all gradients.
	ZeroGrad(params []*Tensor)
}

// SGDOptimizer implements stochastic gradient descent with weight decay.
type SGDOptimizer struct {
	weightDecay float64
}

// NewSGDOptimizer creates an SGD optimizer.
func NewSGDOptimizer(weightDecay float64) *SGDOptimizer {
	return &SGDOptimizer{weightDecay: weightDecay}
}

// Step updates parameters: param -= lr * (grad + weightDecay * param).
func (opt *SGDOptimizer) Step(params []*Tensor, lr float64) {
	for _, p := range params {
		for i := range p.data {
			grad := p.grad[i] + opt.weightDecay*p.data[i]
			p.data[i] -= lr * grad
		}
	}
}

// ZeroGrad clears gradients.
func (opt *SGDOptimizer) ZeroGrad(params []*Tensor) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// AdamOptimizer implements Adam: momentum plus per-parameter adaptive
// learning rates with bias correction.
//
//	m_t = β1·m + (1-β1)·g        v_t = β2·v + (1-β2)·g²
//	param -= lr · m̂ / (√v̂ + ε)   where m̂, v̂ are bias-corrected
type AdamOptimizer struct {
	beta1       float64
	beta2       float64
	epsilon     float64
	weightDecay float64

	m []*Tensor // first moment, one per parameter
	v []*Tensor // second moment
	t int       // step count for bias correction
}

// NewAdamOptimizer creates an Adam optimizer with moment state matching the
// given parameter shapes.
func NewAdamOptimizer(params []*Tensor, beta1, beta2, epsilon, weightDecay float64) *AdamOptimizer {
	m := make([]*Tensor, len(params))
	v := make([]*Tensor, len(params))
	for i, p := range params {
		m[i] = NewTensor(p.shape...)
		v[i] = NewTensor(p.shape...)
	}

	return &AdamOptimizer{
		beta1:       beta1,
		beta2:       beta2,
		epsilon:     epsilon,
		weightDecay: weightDecay,
		m:           m,
		v:           v,
	}
}

// Step performs an Adam update.
func (opt *AdamOptimizer) Step(params []*Tensor, lr float64) {
	opt.t++

	bias1 := 1.0 - math.Pow(opt.beta1, float64(opt.t))
	bias2 := 1.0 - math.Pow(opt.beta2, float64(opt.t))

	for i, p := range params {
		for j := range p.data {
			grad := p.grad[j] + opt.weightDecay*p.data[j]

			opt.m[i].data[j] = opt.beta1*opt.m[i].data[j] + (1.0-opt.beta1)*grad
			opt.v[i].data[j] = opt.beta2*opt.v[i].data[j] + (1.0-opt.beta2)*grad*grad

			mHat := opt.m[i].data[j] / bias1
			vHat := opt.v[i].data[j] / bias2

			p.data[j] -= lr * mHat / (math.Sqrt(vHat) + opt.epsilon)
		}
	}
}

// ZeroGrad clears gradients.
func (opt *AdamOptimizer) ZeroGrad(params []*Tensor) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// LRScheduler produces the learning rate for each step: linear warmup to the
// base rate, cosine decay to the floor over totalSteps, constant after.
type LRScheduler struct {
	baseLR      float64
	minLR       float64
	warmupSteps int
	totalSteps  int
	step        int
}

// NewLRScheduler creates a warmup+cosine schedule.
func NewLRScheduler(baseLR, minLR float64, warmupSteps, totalSteps int) *LRScheduler {
	return &LRScheduler{
		baseLR:      baseLR,
		minLR:       minLR,
		warmupSteps: warmupSteps,
		totalSteps:  totalSteps,
	}
}

// GetLR advances the schedule one step and returns the learning rate.
func (sched *LRScheduler) GetLR() float64 {
	sched.step++

	if sched.step < sched.warmupSteps {
		return sched.baseLR * float64(sched.step) / float64(sched.warmupSteps)
	}

	if sched.step < sched.totalSteps {
		progress := float64(sched.step-sched.warmupSteps) / float64(sched.totalSteps-sched.warmupSteps)
		cosine := 0.5 * (1.0 + math.Cos(math.Pi*progress))
		return sched.minLR + (sched.baseLR-sched.minLR)*cosine
	}

	return sched.minLR
}

// MSELoss computes mean squared error over all elements of pred vs target.
func MSELoss(pred, target *Tensor) float64 {
	if !shapeEqual(pred.shape, target.shape) {
		panic(fmt.Sprintf("MSELoss: shape mismatch %v vs %v", pred.shape, target.shape))
	}

	sum := 0.0
	for i := range pred.data {
		d := pred.data[i] - target.data[i]
		sum += d * d
	}
	return sum / float64(len(pred.data))
}

// MSEBackward computes ∂MSE/∂pred = 2*(pred-target)/N.
func MSEBackward(pred, target *Tensor) *Tensor {
	if !shapeEqual(pred.shape, target.shape) {
		panic(fmt.Sprintf("MSEBackward: shape mismatch %v vs %v", pred.shape, target.shape))
	}

	grad := NewTensor(pred.shape...)
	n := float64(len(pred.data))
	for i := range pred.data {
		grad.data[i] = 2.0 * (pred.data[i] - target.data[i]) / n
	}
	return grad
}

// MAELoss computes mean absolute error over all elements.
func MAELoss(pred, target *Tensor) float64 {
	if !shapeEqual(pred.shape, target.shape) {
		panic(fmt.Sprintf("MAELoss: shape mismatch %v vs %v", pred.shape, target.shape))
	}

	sum := 0.0
	for i := range pred.data {
		sum += math.Abs(pred.data[i] - target.data[i])
	}
	return sum / float64(len(pred.data))
}

// TrainStep runs one optimization step on a batch and returns its loss.
func TrainStep(model *Forecaster, inputs, targets *Tensor, optimizer Optimizer, clip, lr float64) float64 {
	params := model.Parameters()
	optimizer.ZeroGrad(params)

	pred, cache := model.ForwardWithCache(inputs)
	loss := MSELoss(pred, targets)

	model.Backward(MSEBackward(pred, targets), cache)

	clipGradients(params, clip)
	optimizer.Step(params, lr)

	return loss
}

// clipGradients rescales all gradients when their global L2 norm exceeds
// maxNorm. maxNorm <= 0 disables clipping.
func clipGradients(params []*Tensor, maxNorm float64) {
	if maxNorm <= 0 {
		return
	}

	globalNorm := 0.0
	for _, p := range params {
		for _, g := range p.grad {
			globalNorm += g * g
		}
	}
	globalNorm = math.Sqrt(globalNorm)

	if globalNorm > maxNorm {
		scale := maxNorm / globalNorm
		for _, p := range params {
			for i := range p.grad {
				p.grad[i] *= scale
			}
		}
	}
}

// Train runs the full training loop and returns the final validation loss
// (NaN if no validation windows were provided).
func Train(model *Forecaster, trainWindows, valWindows []Window, config TrainingConfig) float64 {
	fmt.Println("=== Training Started ===")
	fmt.Printf("Windows: %d train, %d validation\n", len(trainWindows), len(valWindows))
	fmt.Printf("Batch size: %d | Epochs: %d | Optimizer: %s | LR: %g\n",
		config.BatchSize, config.NumEpochs, config.Optimizer, config.LearningRate)
	fmt.Println()

	params := model.Parameters()

	var optimizer Optimizer
	if config.Optimizer == "adam" {
		optimizer = NewAdamOptimizer(params, config.AdamBeta1, config.AdamBeta2,
			config.AdamEpsilon, config.WeightDecay)
	} else {
		optimizer = NewSGDOptimizer(config.WeightDecay)
	}

	stepsPerEpoch := (len(trainWindows) + config.BatchSize - 1) / config.BatchSize
	scheduler := NewLRScheduler(config.LearningRate, config.MinLR,
		config.WarmupSteps, stepsPerEpoch*config.NumEpochs)

	seed := config.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	shuffled := make([]Window, len(trainWindows))
	copy(shuffled, trainWindows)

	step := 0
	for epoch := 0; epoch < config.NumEpochs; epoch++ {
		ShuffleWindows(shuffled, rng)

		epochLoss := 0.0
		numBatches := 0

		for i := 0; i < len(shuffled); i += config.BatchSize {
			end := i + config.BatchSize
			if end > len(shuffled) {
				end = len(shuffled)
			}

			inputs, targets := BatchTensors(shuffled[i:end])
			lr := scheduler.GetLR()

			loss := TrainStep(model, inputs, targets, optimizer, config.GradientClipValue, lr)
			epochLoss += loss
			numBatches++
			step++

			if config.LogInterval > 0 && step%config.LogInterval == 0 {
				fmt.Printf("Step %d | Loss: %.6f | LR: %.6f\n", step, loss, lr)
			}
		}

		avgLoss := epochLoss / float64(numBatches)
		if len(valWindows) > 0 {
			valMSE, valMAE := Evaluate(model, valWindows, config.BatchSize)
			fmt.Printf("Epoch %d/%d | Train MSE: %.6f | Val MSE: %.6f | Val MAE: %.6f\n",
				epoch+1, config.NumEpochs, avgLoss, valMSE, valMAE)
		} else {
			fmt.Printf("Epoch %d/%d | Train MSE: %.6f\n", epoch+1, config.NumEpochs, avgLoss)
		}
	}

	fmt.Println("=== Training Complete ===")

	if len(valWindows) == 0 {
		return math.NaN()
	}
	valMSE, _ := Evaluate(model, valWindows, config.BatchSize)
	return valMSE
}

// Evaluate computes forward-only MSE and MAE over a window set.
func Evaluate(model *Forecaster, windows []Window, batchSize int) (mse, mae float64) {
	if len(windows) == 0 {
		return math.NaN(), math.NaN()
	}

	totalSq := 0.0
	totalAbs := 0.0
	totalElems := 0

	for i := 0; i < len(windows); i += batchSize {
		end := i + batchSize
		if end > len(windows) {
			end = len(windows)
		}

		inputs, targets := BatchTensors(windows[i:end])
		pred := model.Forward(inputs)

		for j := range pred.data {
			d := pred.data[j] - targets.data[j]
			totalSq += d * d
			totalAbs += math.Abs(d)
		}
		totalElems += len(pred.data)
	}

	return totalSq / float64(totalElems), totalAbs / float64(totalElems)
}
