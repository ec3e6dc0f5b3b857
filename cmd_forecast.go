package main

import (
	"flag"
	"fmt"
	"time"
)

// ===========================================================================
// FORECAST COMMAND
// ===========================================================================
//
// Inference path: load the checkpoint, re-engineer features for the input
// CSV, scale them with the scaler persisted at training time (never
// refitted), feed the last inputSteps rows through the network, and print
// the inverse-scaled numeric predictions per forecast day.
//
// Forecast dates advance from the last timestamp present in the data, one
// day per horizon step. The wall clock plays no part: forecasting from an
// archived file yields the dates the data actually implies.
// ===========================================================================

// RunForecastCommand implements the forecast CLI.
func RunForecastCommand(args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)

	dataPath := fs.String("data", "", "Station CSV file (required)")
	configPath := fs.String("config", "", "Optional YAML config file")
	modelPath := fs.String("model", defaultModelPath(), "Checkpoint path")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("forecast: -data is required")
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

	inputSteps := cp.Model.Config().InputSteps
	if features.NumFeatures() != cp.Model.Config().NumFeatures {
		return fmt.Errorf("forecast: data has %d features, model expects %d",
			features.NumFeatures(), cp.Model.Config().NumFeatures)
	}
	if len(features.Rows) < inputSteps {
		return fmt.Errorf("forecast: need at least %d rows, got %d", inputSteps, len(features.Rows))
	}

	// Scale with the persisted scaler and take the last input window.
	scaled := cp.Scaler.Transform(features.Rows)
	window := scaled[len(scaled)-inputSteps:]

	pred := cp.Model.PredictWindow(window)

	lastObserved := ds.Times[len(ds.Times)-1]

	fmt.Printf("Forecast from %s (%d observations, model trained %s)\n",
		lastObserved.Format("2006-01-02 15:04"), ds.Nrow(),
		cp.TrainedAt.Format("2006-01-02"))
	fmt.Println()

	dates := forecastDates(lastObserved, len(pred))
	for day, row := range pred {
		fmt.Printf("%s (+%d day)\n", dates[day].Format("Mon 2006-01-02"), day+1)

		// Only the numeric block maps back to physical units; the trailing
		// cyclical columns are calendar features, not measurements.
		values := cp.Scaler.Inverse(row[:cp.NumNumeric])
		for c, v := range values {
			fmt.Printf("  %-40s %10.2f\n", cp.Columns[c], v)
		}
		fmt.Println()
	}

	return nil
}

// checkSchema verifies that the engineered feature columns of the input data
// match the schema the model was trained on, in the same order.
func checkSchema(cp *Checkpoint, features *FeatureSet) error {
	if len(features.Columns) != len(cp.Columns) {
		return fmt.Errorf("schema mismatch: data has %d feature columns, checkpoint has %d",
			len(features.Columns), len(cp.Columns))
	}
	for i, name := range cp.Columns {
		if features.Columns[i] != name {
			return fmt.Errorf("schema mismatch: column %d is %q, checkpoint expects %q",
				i, features.Columns[i], name)
		}
	}
	if features.NumNumeric != cp.NumNumeric {
		return fmt.Errorf("schema mismatch: %d numeric columns, checkpoint has %d",
			features.NumNumeric, cp.NumNumeric)
	}
	return nil
}

// forecastDates returns the dates for each horizon step, advancing one day
// per step from the last observed timestamp.
func forecastDates(lastObserved time.Time, horizon int) []time.Time {
	dates := make([]time.Time, horizon)
	for i := range dates {
		dates[i] = lastObserved.AddDate(0, 0, i+1)
	}
	return dates
}
