package main

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MinMaxScaler linearly rescales each column of the numeric feature block to
// [0, 1] using per-column minima and maxima observed at fit time. The fitted
// state is persisted inside the model checkpoint so that inference reuses the
// training-time statistics instead of refitting on whatever file it is given.
type MinMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// FitScaler computes per-column min/max over the leading numCols columns.
func FitScaler(rows [][]float64, numCols int) (*MinMaxScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("scaler: no rows to fit")
	}
	if numCols <= 0 || numCols > len(rows[0]) {
		return nil, fmt.Errorf("scaler: invalid column count %d for width %d", numCols, len(rows[0]))
	}

	s := &MinMaxScaler{
		Min: make([]float64, numCols),
		Max: make([]float64, numCols),
	}

	col := make([]float64, len(rows))
	for c := 0; c < numCols; c++ {
		for r := range rows {
			col[r] = rows[r][c]
		}
		s.Min[c] = floats.Min(col)
		s.Max[c] = floats.Max(col)
	}

	return s, nil
}

// NumCols returns the width of the scaled block.
func (s *MinMaxScaler) NumCols() int {
	return len(s.Min)
}

// Transform returns a copy of rows with the leading scaled block mapped to
// [0, 1]; trailing columns (the cyclical encodings) pass through untouched.
// Constant columns map to 0 to avoid division by zero.
func (s *MinMaxScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for r, row := range rows {
		scaled := make([]float64, len(row))
		copy(scaled, row)
		for c := 0; c < len(s.Min) && c < len(row); c++ {
			span := s.Max[c] - s.Min[c]
			if span == 0 {
				scaled[c] = 0
				continue
			}
			scaled[c] = (row[c] - s.Min[c]) / span
		}
		out[r] = scaled
	}
	return out
}

// Inverse maps a scaled numeric block back to original units. The input must
// be exactly the scaled block (width NumCols), e.g. one forecast step's
// numeric columns.
func (s *MinMaxScaler) Inverse(scaled []float64) []float64 {
	if len(scaled) != len(s.Min) {
		panic(fmt.Sprintf("scaler: Inverse expects %d values, got %d", len(s.Min), len(scaled)))
	}

	out := make([]float64, len(scaled))
	for c, v := range scaled {
		span := s.Max[c] - s.Min[c]
		if span == 0 {
			out[c] = s.Min[c]
			continue
		}
		out[c] = v*span + s.Min[c]
	}
	return out
}

// Span returns max-min for column c, used to convert scaled-space errors back
// into original units.
func (s *MinMaxScaler) Span(c int) float64 {
	return s.Max[c] - s.Min[c]
}
