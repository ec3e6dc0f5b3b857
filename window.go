package main

import (
	"math/rand"
)

// Window is one training example: a contiguous input slice of the scaled
// feature series and the horizon rows that immediately follow it.
type Window struct {
	Input  *Tensor // (inputSteps, F)
	Target *Tensor // (horizon, F)
}

// MakeWindows slides a fixed-length window over the scaled feature rows with
// stride 1, producing len(rows) - inputSteps - horizon examples. Returns nil
// if the series is too short for even one example.
func MakeWindows(rows [][]float64, inputSteps, horizon int) []Window {
	if inputSteps <= 0 || horizon <= 0 {
		panic("window: inputSteps and horizon must be positive")
	}

	count := len(rows) - inputSteps - horizon
	if count <= 0 {
		return nil
	}

	f := len(rows[0])
	windows := make([]Window, 0, count)
	for i := 0; i < count; i++ {
		input := NewTensor(inputSteps, f)
		for s := 0; s < inputSteps; s++ {
			copy(input.data[s*f:(s+1)*f], rows[i+s])
		}

		target := NewTensor(horizon, f)
		for s := 0; s < horizon; s++ {
			copy(target.data[s*f:(s+1)*f], rows[i+inputSteps+s])
		}

		windows = append(windows, Window{Input: input, Target: target})
	}

	return windows
}

// SplitWindows cuts the window list at trainFrac by contiguous index. The
// split is never shuffled: validation windows come from the chronological
// tail, so the model is always evaluated on data later than anything it
// trained on.
func SplitWindows(windows []Window, trainFrac float64) (train, val []Window) {
	cut := int(float64(len(windows)) * trainFrac)
	if cut < 0 {
		cut = 0
	}
	if cut > len(windows) {
		cut = len(windows)
	}
	return windows[:cut], windows[cut:]
}

// ShuffleWindows permutes windows in place. Train-time only; the split
// itself stays chronological.
func ShuffleWindows(windows []Window, rng *rand.Rand) {
	rng.Shuffle(len(windows), func(i, j int) {
		windows[i], windows[j] = windows[j], windows[i]
	})
}

// BatchTensors stacks a batch of windows into the flattened pair the
// forecaster consumes: inputs (B, inputSteps*F) and targets (B, horizon*F).
func BatchTensors(batch []Window) (inputs, targets *Tensor) {
	if len(batch) == 0 {
		panic("window: empty batch")
	}

	inSize := batch[0].Input.Size()
	outSize := batch[0].Target.Size()

	inputs = NewTensor(len(batch), inSize)
	targets = NewTensor(len(batch), outSize)

	for i, w := range batch {
		copy(inputs.data[i*inSize:(i+1)*inSize], w.Input.data)
		copy(targets.data[i*outSize:(i+1)*outSize], w.Target.data)
	}

	return inputs, targets
}
