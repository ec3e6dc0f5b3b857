package main

import (
	"math"
	"testing"
)

func scalerRows() [][]float64 {
	// Two numeric columns plus one pass-through column.
	return [][]float64{
		{10, 100, 0.5},
		{20, 400, -0.5},
		{15, 250, 1.0},
		{12, 175, -1.0},
	}
}

// TestScalerTransformRange verifies scaled values land in [0,1] and the
// pass-through column is untouched.
func TestScalerTransformRange(t *testing.T) {
	rows := scalerRows()
	s, err := FitScaler(rows, 2)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}

	scaled := s.Transform(rows)
	for r, row := range scaled {
		for c := 0; c < 2; c++ {
			if row[c] < 0 || row[c] > 1 {
				t.Errorf("scaled[%d][%d] = %g out of [0,1]", r, c, row[c])
			}
		}
		if row[2] != rows[r][2] {
			t.Errorf("pass-through column changed: %g -> %g", rows[r][2], row[2])
		}
	}

	// Min and max rows must hit the range endpoints.
	if scaled[0][0] != 0 || scaled[1][0] != 1 {
		t.Errorf("column 0 endpoints: got %g and %g", scaled[0][0], scaled[1][0])
	}
}

// TestScalerRoundTrip verifies transform then inverse restores the numeric
// block within floating-point tolerance.
func TestScalerRoundTrip(t *testing.T) {
	rows := scalerRows()
	s, err := FitScaler(rows, 2)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}

	scaled := s.Transform(rows)
	for r := range rows {
		back := s.Inverse(scaled[r][:2])
		for c := 0; c < 2; c++ {
			if math.Abs(back[c]-rows[r][c]) > 1e-9 {
				t.Errorf("row %d col %d: %g != %g after round trip", r, c, back[c], rows[r][c])
			}
		}
	}
}

// TestScalerConstantColumn verifies constant columns scale to 0 and invert
// back to the constant instead of dividing by zero.
func TestScalerConstantColumn(t *testing.T) {
	rows := [][]float64{{7, 1}, {7, 2}, {7, 3}}
	s, err := FitScaler(rows, 2)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}

	scaled := s.Transform(rows)
	for r := range scaled {
		if scaled[r][0] != 0 {
			t.Errorf("constant column scaled to %g, want 0", scaled[r][0])
		}
		if math.IsNaN(scaled[r][0]) || math.IsInf(scaled[r][0], 0) {
			t.Errorf("constant column produced %g", scaled[r][0])
		}
	}

	back := s.Inverse([]float64{0, 0.5})
	if back[0] != 7 {
		t.Errorf("constant column inverted to %g, want 7", back[0])
	}
}

// TestScalerErrors covers invalid fit arguments.
func TestScalerErrors(t *testing.T) {
	if _, err := FitScaler(nil, 1); err == nil {
		t.Error("expected error for empty rows")
	}
	if _, err := FitScaler([][]float64{{1, 2}}, 3); err == nil {
		t.Error("expected error for numCols > width")
	}
	if _, err := FitScaler([][]float64{{1, 2}}, 0); err == nil {
		t.Error("expected error for numCols = 0")
	}
}
