package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML run configuration. Every field has a default;
// a config file overrides defaults and command-line flags override both.
type Config struct {
	Data struct {
		TimestampColumn string `yaml:"timestamp_column" validate:"required"`
		WindSpeedColumn string `yaml:"wind_speed_column" validate:"required"`
		WindDirColumn   string `yaml:"wind_direction_column" validate:"required"`
	} `yaml:"data"`

	Window struct {
		InputSteps int     `yaml:"input_steps" validate:"gt=0"`
		Horizon    int     `yaml:"horizon" validate:"gt=0"`
		TrainFrac  float64 `yaml:"train_frac" validate:"gt=0,lt=1"`
	} `yaml:"window"`

	Model struct {
		Hidden1 int `yaml:"hidden1" validate:"gt=0"`
		Hidden2 int `yaml:"hidden2" validate:"gt=0"`
	} `yaml:"model"`

	Training struct {
		Epochs       int     `yaml:"epochs" validate:"gt=0"`
		BatchSize    int     `yaml:"batch_size" validate:"gt=0"`
		LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
		WeightDecay  float64 `yaml:"weight_decay" validate:"gte=0"`
		Optimizer    string  `yaml:"optimizer" validate:"oneof=sgd adam"`
		Seed         int64   `yaml:"seed"`
	} `yaml:"training"`
}

// DefaultConfig returns the built-in configuration: a 30-step window, 3-step
// horizon, and the Basel station's wind column names.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Data.TimestampColumn = "timestamp"
	cfg.Data.WindSpeedColumn = "Basel Wind Speed [10 m]"
	cfg.Data.WindDirColumn = "Basel Wind Direction [10 m]"

	cfg.Window.InputSteps = 30
	cfg.Window.Horizon = 3
	cfg.Window.TrainFrac = 0.8

	cfg.Model.Hidden1 = 256
	cfg.Model.Hidden2 = 128

	cfg.Training.Epochs = 50
	cfg.Training.BatchSize = 32
	cfg.Training.LearningRate = 1e-3
	cfg.Training.WeightDecay = 1e-5
	cfg.Training.Optimizer = "adam"

	return cfg
}

// LoadConfig reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// TrainingConfig converts the file config into the trainer's hyperparameter
// struct, keeping the trainer independent of the YAML layer.
func (c *Config) TrainingConfig() TrainingConfig {
	tc := DefaultTrainingConfig()
	tc.NumEpochs = c.Training.Epochs
	tc.BatchSize = c.Training.BatchSize
	tc.LearningRate = c.Training.LearningRate
	tc.WeightDecay = c.Training.WeightDecay
	tc.Optimizer = c.Training.Optimizer
	tc.Seed = c.Training.Seed
	return tc
}
