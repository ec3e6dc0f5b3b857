package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// timestampLayout is the observation timestamp format used by the station
// export, e.g. "20100131T0000" (%Y%m%dT%H%M).
const timestampLayout = "20060102T1504"

// Dataset is a station's raw observation table: one timestamp per row plus
// the numeric measurement columns, in CSV order.
type Dataset struct {
	Times   []time.Time
	Columns []string    // measurement column names (timestamp excluded)
	Rows    [][]float64 // len(Times) rows, each len(Columns) wide
}

// Nrow returns the number of observations.
func (d *Dataset) Nrow() int {
	return len(d.Rows)
}

// LoadWeatherCSV reads a station CSV into a Dataset. The file must carry a
// header row with a timestamp column; every other column is coerced to
// float64. Schema problems (missing timestamp column, malformed timestamps,
// non-numeric cells) are reported as errors rather than silently producing
// NaN rows.
func LoadWeatherCSV(path, timestampCol string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		// Keep timestamps as strings; gota would otherwise guess a numeric
		// type for all-digit layouts and destroy leading zeros.
		dataframe.WithTypes(map[string]series.Type{timestampCol: series.String}),
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("read %s: %w", path, df.Error())
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("read %s: no data rows", path)
	}

	names := df.Names()
	hasTimestamp := false
	columns := make([]string, 0, len(names)-1)
	for _, name := range names {
		if name == timestampCol {
			hasTimestamp = true
			continue
		}
		columns = append(columns, name)
	}
	if !hasTimestamp {
		return nil, fmt.Errorf("read %s: missing %q column", path, timestampCol)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("read %s: no measurement columns", path)
	}

	// Parse timestamps.
	records := df.Col(timestampCol).Records()
	times := make([]time.Time, len(records))
	for i, rec := range records {
		ts, err := time.Parse(timestampLayout, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad timestamp %q: %w", i+1, rec, err)
		}
		times[i] = ts
	}

	// Pull each measurement column as float64. gota maps unparsable cells to
	// NaN, which we reject here instead of letting them poison training.
	colData := make([][]float64, len(columns))
	for c, name := range columns {
		vals := df.Col(name).Float()
		for r, v := range vals {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("row %d: non-numeric value in column %q", r+1, name)
			}
		}
		colData[c] = vals
	}

	// Transpose to row-major.
	rows := make([][]float64, df.Nrow())
	for r := range rows {
		row := make([]float64, len(columns))
		for c := range columns {
			row[c] = colData[c][r]
		}
		rows[r] = row
	}

	return &Dataset{Times: times, Columns: columns, Rows: rows}, nil
}
