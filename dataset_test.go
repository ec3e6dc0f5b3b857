package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

const validCSV = `timestamp,Basel Temperature [2 m],Basel Wind Speed [10 m],Basel Wind Direction [10 m]
20200101T0000,4.2,3.1,180
20200102T0000,5.0,2.7,90
20200103T0000,3.8,4.4,270
`

// TestLoadWeatherCSV covers the happy path: timestamps parsed, columns in
// order, values as float64.
func TestLoadWeatherCSV(t *testing.T) {
	path := writeTempCSV(t, validCSV)

	ds, err := LoadWeatherCSV(path, "timestamp")
	if err != nil {
		t.Fatalf("LoadWeatherCSV: %v", err)
	}

	if ds.Nrow() != 3 {
		t.Fatalf("Nrow = %d, want 3", ds.Nrow())
	}
	if len(ds.Columns) != 3 || ds.Columns[0] != "Basel Temperature [2 m]" {
		t.Errorf("columns = %v", ds.Columns)
	}

	if got := ds.Times[0].Format(timestampLayout); got != "20200101T0000" {
		t.Errorf("first timestamp = %s", got)
	}
	if ds.Times[1].Day() != 2 || ds.Times[1].Year() != 2020 {
		t.Errorf("second timestamp = %v", ds.Times[1])
	}

	if ds.Rows[0][0] != 4.2 || ds.Rows[2][2] != 270 {
		t.Errorf("rows = %v", ds.Rows)
	}
}

// TestLoadWeatherCSVErrors covers the schema failure modes.
func TestLoadWeatherCSVErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadWeatherCSV(filepath.Join(t.TempDir(), "absent.csv"), "timestamp"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("missing timestamp column", func(t *testing.T) {
		path := writeTempCSV(t, "time,temp\n20200101T0000,4.2\n")
		if _, err := LoadWeatherCSV(path, "timestamp"); err == nil {
			t.Error("expected error for missing timestamp column")
		}
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		path := writeTempCSV(t, "timestamp,temp\n2020-01-01 00:00,4.2\n")
		if _, err := LoadWeatherCSV(path, "timestamp"); err == nil {
			t.Error("expected error for malformed timestamp")
		}
	})

	t.Run("non-numeric measurement", func(t *testing.T) {
		path := writeTempCSV(t, "timestamp,temp\n20200101T0000,n/a\n")
		if _, err := LoadWeatherCSV(path, "timestamp"); err == nil {
			t.Error("expected error for non-numeric value")
		}
	})

	t.Run("no data rows", func(t *testing.T) {
		path := writeTempCSV(t, "timestamp,temp\n")
		if _, err := LoadWeatherCSV(path, "timestamp"); err == nil {
			t.Error("expected error for empty file")
		}
	})
}
