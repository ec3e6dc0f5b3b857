package main

import (
	"math"
	"testing"
	"time"
)

// TestCyclicalEncodeBounds verifies encodings stay in [-1, 1].
func TestCyclicalEncodeBounds(t *testing.T) {
	for v := 0.0; v <= 48; v++ {
		s, c := CyclicalEncode(v, 24)
		if s < -1 || s > 1 || c < -1 || c > 1 {
			t.Errorf("value %g: encoding (%g, %g) out of [-1,1]", v, s, c)
		}
	}
}

// TestCyclicalEncodePeriodic verifies the encoding repeats exactly every
// period, so hour 0 and hour 24 coincide and December sits next to January.
func TestCyclicalEncodePeriodic(t *testing.T) {
	for v := 0.0; v < 24; v++ {
		s1, c1 := CyclicalEncode(v, 24)
		s2, c2 := CyclicalEncode(v+24, 24)
		if math.Abs(s1-s2) > 1e-9 || math.Abs(c1-c2) > 1e-9 {
			t.Errorf("hour %g: (%g,%g) != (%g,%g) one period later", v, s1, c1, s2, c2)
		}
	}

	// December (12) and January (1) must be close in feature space, unlike
	// their 11-apart raw values.
	dS, dC := CyclicalEncode(12, 12)
	jS, jC := CyclicalEncode(1, 12)
	dist := math.Hypot(dS-jS, dC-jC)
	if dist > 0.6 {
		t.Errorf("december-january distance %g, want boundary adjacency", dist)
	}
}

// TestWindComponents verifies the magnitude invariant sqrt(u²+v²) == speed
// and the sign convention for the cardinal directions.
func TestWindComponents(t *testing.T) {
	for _, tc := range []struct {
		speed, dir float64
	}{
		{0, 0}, {3.2, 0}, {5, 90}, {7.5, 180}, {1.1, 270}, {12, 359}, {4, 45.5},
	} {
		u, v := WindComponents(tc.speed, tc.dir)
		if mag := math.Hypot(u, v); math.Abs(mag-tc.speed) > 1e-9 {
			t.Errorf("speed %g dir %g: |(%g,%g)| = %g", tc.speed, tc.dir, u, v, mag)
		}
	}

	// A northerly (dir=0, blowing from the north) moves air southwards:
	// v negative, u zero.
	u, v := WindComponents(10, 0)
	if math.Abs(u) > 1e-9 || v > -9.99 {
		t.Errorf("northerly: got u=%g v=%g, want u≈0 v≈-10", u, v)
	}

	// An easterly (dir=90) moves air westwards: u negative.
	u, v = WindComponents(10, 90)
	if u > -9.99 || math.Abs(v) > 1e-9 {
		t.Errorf("easterly: got u=%g v=%g, want u≈-10 v≈0", u, v)
	}
}

func testDataset() *Dataset {
	times := []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 6, 2, 12, 0, 0, 0, time.UTC),
	}
	return &Dataset{
		Times:   times,
		Columns: []string{"Basel Temperature [2 m]", "Basel Wind Speed [10 m]", "Basel Wind Direction [10 m]"},
		Rows: [][]float64{
			{5.5, 3.0, 90},
			{21.0, 1.5, 270},
		},
	}
}

// TestBuildFeatures verifies the engineered column layout: remaining
// measurements, then u/v, then the four cyclical columns.
func TestBuildFeatures(t *testing.T) {
	fs, err := BuildFeatures(testDataset(), "Basel Wind Speed [10 m]", "Basel Wind Direction [10 m]")
	if err != nil {
		t.Fatalf("BuildFeatures: %v", err)
	}

	wantCols := []string{
		"Basel Temperature [2 m]", "wind_u", "wind_v",
		"month_sin", "month_cos", "hour_sin", "hour_cos",
	}
	if len(fs.Columns) != len(wantCols) {
		t.Fatalf("columns %v, want %v", fs.Columns, wantCols)
	}
	for i := range wantCols {
		if fs.Columns[i] != wantCols[i] {
			t.Errorf("column %d = %q, want %q", i, fs.Columns[i], wantCols[i])
		}
	}

	if fs.NumNumeric != 3 {
		t.Errorf("NumNumeric = %d, want 3", fs.NumNumeric)
	}

	// Row 0: temperature passes through, wind decomposes, January/midnight
	// encodings.
	row := fs.Rows[0]
	if row[0] != 5.5 {
		t.Errorf("temperature = %g, want 5.5", row[0])
	}
	if mag := math.Hypot(row[1], row[2]); math.Abs(mag-3.0) > 1e-9 {
		t.Errorf("wind magnitude %g, want 3.0", mag)
	}
	ms, mc := CyclicalEncode(1, 12)
	if math.Abs(row[3]-ms) > 1e-12 || math.Abs(row[4]-mc) > 1e-12 {
		t.Errorf("month encoding (%g,%g), want (%g,%g)", row[3], row[4], ms, mc)
	}
}

// TestBuildFeaturesMissingColumns verifies schema errors.
func TestBuildFeaturesMissingColumns(t *testing.T) {
	ds := testDataset()

	if _, err := BuildFeatures(ds, "nope", "Basel Wind Direction [10 m]"); err == nil {
		t.Error("expected error for missing wind speed column")
	}
	if _, err := BuildFeatures(ds, "Basel Wind Speed [10 m]", "nope"); err == nil {
		t.Error("expected error for missing wind direction column")
	}
}
