package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ===========================================================================
// CHECKPOINT SERIALIZATION
// ===========================================================================
//
// A checkpoint is everything inference needs in one file:
//
//	uint32 header length (little endian)
//	JSON header: model config, feature column schema, fitted scaler state,
//	             training metadata
//	raw little-endian float64 dumps of each parameter tensor, in
//	             Forecaster.Parameters() order
//
// Persisting the scaler is the point of the format: predictions are only
// meaningful when inference normalizes with the exact min/max observed at
// training time. Refitting on the inference file would silently shift every
// feature.
// ===========================================================================

// Checkpoint bundles a trained model with the preprocessing state needed to
// reproduce its input encoding.
type Checkpoint struct {
	Model      *Forecaster
	Columns    []string // engineered feature columns, in order
	NumNumeric int      // width of the scaled block
	Scaler     *MinMaxScaler
	TrainedAt  time.Time
	ValMSE     float64 // validation MSE at save time, scaled space
}

type checkpointHeader struct {
	Model      ModelConfig   `json:"model"`
	Columns    []string      `json:"columns"`
	NumNumeric int           `json:"num_numeric"`
	Scaler     *MinMaxScaler `json:"scaler"`
	TrainedAt  time.Time     `json:"trained_at"`
	ValMSE     float64       `json:"val_mse"`
}

// SaveCheckpoint writes the checkpoint to path.
func SaveCheckpoint(path string, cp *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer f.Close()

	header := checkpointHeader{
		Model:      cp.Model.Config(),
		Columns:    cp.Columns,
		NumNumeric: cp.NumNumeric,
		Scaler:     cp.Scaler,
		TrainedAt:  cp.TrainedAt,
		ValMSE:     cp.ValMSE,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal checkpoint header: %w", err)
	}

	if err := binary.Write(f, binary.LittleEndian, uint32(len(headerJSON))); err != nil {
		return fmt.Errorf("write header length: %w", err)
	}
	if _, err := f.Write(headerJSON); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range cp.Model.Parameters() {
		if err := binary.Write(f, binary.LittleEndian, p.data); err != nil {
			return fmt.Errorf("write parameter %d: %w", i, err)
		}
	}

	return nil
}

// LoadCheckpoint reads a checkpoint from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()

	var headerLen uint32
	if err := binary.Read(f, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("read header length: %w", err)
	}

	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(f, headerJSON); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var header checkpointHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("unmarshal header: %w", err)
	}
	if header.Scaler == nil || header.Scaler.NumCols() != header.NumNumeric {
		return nil, fmt.Errorf("checkpoint: scaler state inconsistent with schema")
	}
	if len(header.Columns) != header.Model.NumFeatures {
		return nil, fmt.Errorf("checkpoint: %d columns but model expects %d features",
			len(header.Columns), header.Model.NumFeatures)
	}

	model := NewForecaster(header.Model)
	for i, p := range model.Parameters() {
		if err := binary.Read(f, binary.LittleEndian, p.data); err != nil {
			return nil, fmt.Errorf("read parameter %d: %w", i, err)
		}
	}

	return &Checkpoint{
		Model:      model,
		Columns:    header.Columns,
		NumNumeric: header.NumNumeric,
		Scaler:     header.Scaler,
		TrainedAt:  header.TrainedAt,
		ValMSE:     header.ValMSE,
	}, nil
}
