package main

import (
	"fmt"
	"math"
	"time"
)

// ===========================================================================
// FEATURE ENGINEERING
// ===========================================================================
//
// Two transforms turn raw observations into model features:
//
// 1. Wind decomposition. Wind arrives as (speed, direction°) where direction
//    is the compass bearing the wind blows FROM. That pair is a poor learning
//    target: direction wraps at 360° and its gradient is meaningless near the
//    seam. Decomposing into zonal/meridional components fixes both:
//
//	u = -speed * sin(θ)    (east-west component)
//	v = -speed * cos(θ)    (north-south component)
//
//    with θ in radians. The magnitude invariant sqrt(u²+v²) == speed holds by
//    construction.
//
// 2. Cyclical time encoding. Month and hour are periodic, so each becomes a
//    (sin, cos) pair on its period. December and January end up adjacent in
//    feature space instead of 11 units apart.
//
// Feature layout: the numeric block (all measurements, with speed/direction
// replaced by u/v) comes first and is the only part the min-max scaler
// touches; the four cyclical columns are appended after it and are already
// bounded in [-1, 1].
// ===========================================================================

// Engineered column names.
const (
	colWindU    = "wind_u"
	colWindV    = "wind_v"
	colMonthSin = "month_sin"
	colMonthCos = "month_cos"
	colHourSin  = "hour_sin"
	colHourCos  = "hour_cos"
)

// FeatureSet is the engineered feature table fed to windowing and scaling.
type FeatureSet struct {
	Times      []time.Time
	Columns    []string    // numeric block first, then cyclical columns
	NumNumeric int         // width of the leading min-max-scaled block
	Rows       [][]float64 // len(Times) rows, each len(Columns) wide
}

// NumFeatures returns the full feature vector width.
func (fs *FeatureSet) NumFeatures() int {
	return len(fs.Columns)
}

// BuildFeatures derives the feature table from raw observations. The wind
// speed and direction columns are replaced by u/v components at the end of
// the numeric block; cyclical month/hour encodings are appended after it.
func BuildFeatures(ds *Dataset, windSpeedCol, windDirCol string) (*FeatureSet, error) {
	speedIdx, dirIdx := -1, -1
	for i, name := range ds.Columns {
		switch name {
		case windSpeedCol:
			speedIdx = i
		case windDirCol:
			dirIdx = i
		}
	}
	if speedIdx < 0 {
		return nil, fmt.Errorf("features: missing wind speed column %q", windSpeedCol)
	}
	if dirIdx < 0 {
		return nil, fmt.Errorf("features: missing wind direction column %q", windDirCol)
	}

	// Numeric block: every measurement except speed/direction, then u/v.
	numeric := make([]string, 0, len(ds.Columns))
	keep := make([]int, 0, len(ds.Columns)-2)
	for i, name := range ds.Columns {
		if i == speedIdx || i == dirIdx {
			continue
		}
		numeric = append(numeric, name)
		keep = append(keep, i)
	}
	numeric = append(numeric, colWindU, colWindV)

	columns := append([]string{}, numeric...)
	columns = append(columns, colMonthSin, colMonthCos, colHourSin, colHourCos)

	rows := make([][]float64, len(ds.Rows))
	for r, raw := range ds.Rows {
		row := make([]float64, 0, len(columns))
		for _, i := range keep {
			row = append(row, raw[i])
		}

		u, v := WindComponents(raw[speedIdx], raw[dirIdx])
		row = append(row, u, v)

		t := ds.Times[r]
		ms, mc := CyclicalEncode(float64(t.Month()), 12)
		hs, hc := CyclicalEncode(float64(t.Hour()), 24)
		row = append(row, ms, mc, hs, hc)

		rows[r] = row
	}

	return &FeatureSet{
		Times:      ds.Times,
		Columns:    columns,
		NumNumeric: len(numeric),
		Rows:       rows,
	}, nil
}

// WindComponents converts (speed, meteorological direction in degrees) into
// zonal (u) and meridional (v) components.
func WindComponents(speed, dirDeg float64) (u, v float64) {
	rad := dirDeg * math.Pi / 180.0
	u = -speed * math.Sin(rad)
	v = -speed * math.Cos(rad)
	return u, v
}

// CyclicalEncode maps a periodic value onto the unit circle, returning the
// (sin, cos) pair for value/period of a full turn. Both outputs lie in
// [-1, 1] and repeat exactly every period.
func CyclicalEncode(value, period float64) (sin, cos float64) {
	angle := 2 * math.Pi * value / period
	return math.Sin(angle), math.Cos(angle)
}
