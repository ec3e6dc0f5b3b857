package main

import (
	"flag"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// RunEvaluateCommand reports the holdout error of a trained forecaster on a
// CSV: overall MSE/MAE in scaled space, plus per-column MAE converted back
// to original units via the persisted scaler spans. Windows come from the
// chronological tail so the numbers reflect data the optimizer never saw.
func RunEvaluateCommand(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)

	dataPath := fs.String("data", "", "Station CSV file (required)")
	configPath := fs.String("config", "", "Optional YAML config file")
	modelPath := fs.String("model", defaultModelPath(), "Checkpoint path")
	holdoutFrac := fs.Float64("holdout", 0.2, "Fraction of trailing windows to evaluate")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("evaluate: -data is required")
	}
	if *holdoutFrac <= 0 || *holdoutFrac > 1 {
		return fmt.Errorf("evaluate: -holdout must be in (0,1], got %g", *holdoutFrac)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	cp, err := LoadCheckpoint(*modelPath)
	if err != nil {
		return err
	}

	ds, err := LoadWeatherCSV(*dataPath, cfg.Data.TimestampColumn)
	if err != nil {
		return err
	}

	features, err := BuildFeatures(ds, cfg.Data.WindSpeedColumn, cfg.Data.WindDirColumn)
	if err != nil {
		return err
	}
	if err := checkSchema(cp, features); err != nil {
		return err
	}

	modelCfg := cp.Model.Config()
	scaled := cp.Scaler.Transform(features.Rows)
	windows := MakeWindows(scaled, modelCfg.InputSteps, modelCfg.Horizon)
	if len(windows) == 0 {
		return fmt.Errorf("evaluate: need more than %d rows, got %d",
			modelCfg.InputSteps+modelCfg.Horizon, ds.Nrow())
	}

	_, holdout := SplitWindows(windows, 1.0-*holdoutFrac)
	if len(holdout) == 0 {
		holdout = windows
	}

	mse, mae := Evaluate(cp.Model, holdout, 32)

	fmt.Printf("Holdout: %d windows (last %.0f%% of %d)\n",
		len(holdout), *holdoutFrac*100, len(windows))
	fmt.Printf("Scaled MSE: %.6f | Scaled MAE: %.6f | RMSE: %.6f\n",
		mse, mae, math.Sqrt(mse))
	fmt.Println()

	// Per-column MAE across all horizon steps, in original units.
	fmt.Println("Per-column MAE (original units):")
	colErrs := make([][]float64, cp.NumNumeric)

	for _, w := range holdout {
		pred := cp.Model.PredictWindow(tensorRows(w.Input))
		for s := 0; s < modelCfg.Horizon; s++ {
			for c := 0; c < cp.NumNumeric; c++ {
				err := math.Abs(pred[s][c] - w.Target.At(s, c))
				colErrs[c] = append(colErrs[c], err*cp.Scaler.Span(c))
			}
		}
	}

	for c := 0; c < cp.NumNumeric; c++ {
		fmt.Printf("  %-40s %10.3f\n", cp.Columns[c], stat.Mean(colErrs[c], nil))
	}

	return nil
}

// tensorRows converts a 2D tensor back into a slice of rows.
func tensorRows(t *Tensor) [][]float64 {
	rows := make([][]float64, t.Shape()[0])
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}
