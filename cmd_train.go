package main

import (
	"flag"
	"fmt"
	"time"
)

// ===========================================================================
// TRAIN COMMAND
// ===========================================================================
//
// End-to-end training pipeline:
//
//	CSV → engineer features → fit scaler → scale → window → split →
//	train → validate → save checkpoint
//
// The scaler is fitted once here, over the whole training file, and frozen
// into the checkpoint. The 80/20 split is contiguous and chronological; only
// the windows that feed the optimizer are ever shuffled.
// ===========================================================================

// RunTrainCommand implements the train CLI.
func RunTrainCommand(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)

	dataPath := fs.String("data", "", "Station CSV file (required)")
	configPath := fs.String("config", "", "Optional YAML config file")
	modelPath := fs.String("model", defaultModelPath(), "Output checkpoint path")

	// Flag overrides for the most-tuned hyperparameters; everything else
	// comes from the config file or its defaults.
	epochs := fs.Int("epochs", 0, "Training epochs (overrides config)")
	batchSize := fs.Int("batch", 0, "Batch size (overrides config)")
	lr := fs.Float64("lr", 0, "Learning rate (overrides config)")
	optimizer := fs.String("optimizer", "", "Optimizer: sgd or adam (overrides config)")
	seed := fs.Int64("seed", 0, "Shuffle seed for reproducible runs")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("train: -data is required")
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *epochs > 0 {
		cfg.Training.Epochs = *epochs
	}
	if *batchSize > 0 {
		cfg.Training.BatchSize = *batchSize
	}
	if *lr > 0 {
		cfg.Training.LearningRate = *lr
	}
	if *optimizer != "" {
		cfg.Training.Optimizer = *optimizer
	}
	if *seed != 0 {
		cfg.Training.Seed = *seed
	}

	fmt.Println("===========================================================================")
	fmt.Println("TRAINING A WEATHER FORECASTER")
	fmt.Println("===========================================================================")
	fmt.Println()

	// Step 1: Load observations.
	fmt.Println("Step 1: Loading observations from", *dataPath)
	ds, err := LoadWeatherCSV(*dataPath, cfg.Data.TimestampColumn)
	if err != nil {
		return err
	}
	fmt.Printf("  %d rows, %d measurement columns\n", ds.Nrow(), len(ds.Columns))
	fmt.Printf("  %s .. %s\n",
		ds.Times[0].Format("2006-01-02 15:04"),
		ds.Times[len(ds.Times)-1].Format("2006-01-02 15:04"))
	fmt.Println()

	// Step 2: Engineer features.
	fmt.Println("Step 2: Engineering features")
	features, err := BuildFeatures(ds, cfg.Data.WindSpeedColumn, cfg.Data.WindDirColumn)
	if err != nil {
		return err
	}
	fmt.Printf("  %d features per timestep (%d numeric + %d cyclical)\n",
		features.NumFeatures(), features.NumNumeric,
		features.NumFeatures()-features.NumNumeric)
	fmt.Println()

	// Step 3: Fit scaler and scale the numeric block.
	fmt.Println("Step 3: Fitting min-max scaler")
	scaler, err := FitScaler(features.Rows, features.NumNumeric)
	if err != nil {
		return err
	}
	scaled := scaler.Transform(features.Rows)
	fmt.Printf("  %d columns scaled to [0,1]\n", scaler.NumCols())
	fmt.Println()

	// Step 4: Build sliding windows and split.
	fmt.Println("Step 4: Building sliding windows")
	windows := MakeWindows(scaled, cfg.Window.InputSteps, cfg.Window.Horizon)
	if len(windows) == 0 {
		return fmt.Errorf("train: need more than %d rows for a %d+%d window, got %d",
			cfg.Window.InputSteps+cfg.Window.Horizon,
			cfg.Window.InputSteps, cfg.Window.Horizon, ds.Nrow())
	}
	trainWindows, valWindows := SplitWindows(windows, cfg.Window.TrainFrac)
	if len(trainWindows) == 0 {
		return fmt.Errorf("train: %d windows leave an empty training split at train_frac %.2f",
			len(windows), cfg.Window.TrainFrac)
	}
	fmt.Printf("  %d windows (%d train, %d validation)\n",
		len(windows), len(trainWindows), len(valWindows))
	fmt.Println()

	// Step 5: Initialize the model.
	fmt.Println("Step 5: Initializing model")
	modelConfig := ModelConfig{
		InputSteps:  cfg.Window.InputSteps,
		Horizon:     cfg.Window.Horizon,
		NumFeatures: features.NumFeatures(),
		Hidden1:     cfg.Model.Hidden1,
		Hidden2:     cfg.Model.Hidden2,
	}
	model := NewForecaster(modelConfig)
	fmt.Printf("  %d -> %d -> %d -> %d (%d parameters)\n",
		modelConfig.InputSize(), modelConfig.Hidden1, modelConfig.Hidden2,
		modelConfig.OutputSize(), model.NumParameters())
	fmt.Println()

	// Step 6: Train.
	fmt.Println("Step 6: Training")
	valMSE := Train(model, trainWindows, valWindows, cfg.TrainingConfig())
	fmt.Println()

	// Step 7: Save checkpoint (model + scaler + schema).
	fmt.Println("Step 7: Saving checkpoint")
	cp := &Checkpoint{
		Model:      model,
		Columns:    features.Columns,
		NumNumeric: features.NumNumeric,
		Scaler:     scaler,
		TrainedAt:  time.Now().UTC(),
		ValMSE:     valMSE,
	}
	if err := SaveCheckpoint(*modelPath, cp); err != nil {
		return err
	}
	fmt.Printf("  Saved to %s\n", *modelPath)
	fmt.Println()

	fmt.Println("Done. Try:")
	fmt.Printf("  stormcast forecast -data=%s -model=%s\n", *dataPath, *modelPath)
	fmt.Println()

	return nil
}
