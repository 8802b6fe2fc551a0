package database

import (
	"database/sql"
	"math"
	"testing"
)

func stdevOf(t *testing.T, db *DB, values []any) sql.NullFloat64 {
	t.Helper()

	if _, err := db.Exec(`CREATE TEMP TABLE IF NOT EXISTS stdev_vals (v REAL)`); err != nil {
		t.Fatalf("Failed to create temp table: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM stdev_vals`); err != nil {
		t.Fatalf("Failed to clear temp table: %v", err)
	}
	for _, v := range values {
		if _, err := db.Exec(`INSERT INTO stdev_vals (v) VALUES (?)`, v); err != nil {
			t.Fatalf("Failed to insert value: %v", err)
		}
	}

	var result sql.NullFloat64
	if err := db.Get(&result, `SELECT trend_stdev(v) FROM stdev_vals`); err != nil {
		t.Fatalf("Failed to run trend_stdev: %v", err)
	}
	return result
}

func TestTrendStdev_ConstantSeries(t *testing.T) {
	db := newTestDB(t)

	result := stdevOf(t, db, []any{2.0, 2.0, 2.0, 2.0})
	if !result.Valid {
		t.Fatal("Expected a defined stdev for 4 samples")
	}
	if result.Float64 != 0 {
		t.Errorf("Expected stdev 0 for a constant series, got %g", result.Float64)
	}
}

func TestTrendStdev_VaryingSeries(t *testing.T) {
	db := newTestDB(t)

	result := stdevOf(t, db, []any{1.0, 2.0, 3.0, 4.0})
	if !result.Valid {
		t.Fatal("Expected a defined stdev for 4 samples")
	}

	// Sum of squared deviations is 5, divided by k-2 = 2.
	expected := math.Sqrt(2.5)
	if math.Abs(result.Float64-expected) > 1e-9 {
		t.Errorf("Expected stdev %g, got %g", expected, result.Float64)
	}
}

func TestTrendStdev_TooFewSamples(t *testing.T) {
	db := newTestDB(t)

	result := stdevOf(t, db, []any{1.0, 5.0})
	if result.Valid {
		t.Errorf("Expected NULL for 2 samples, got %g", result.Float64)
	}

	result = stdevOf(t, db, []any{})
	if result.Valid {
		t.Errorf("Expected NULL for no samples, got %g", result.Float64)
	}
}

func TestTrendStdev_SkipsNulls(t *testing.T) {
	db := newTestDB(t)

	// NULLs do not count toward the sample size.
	result := stdevOf(t, db, []any{1.0, nil, 2.0, nil})
	if result.Valid {
		t.Errorf("Expected NULL with only 2 non-NULL samples, got %g", result.Float64)
	}

	result = stdevOf(t, db, []any{2.0, nil, 2.0, 2.0})
	if !result.Valid {
		t.Fatal("Expected a defined stdev with 3 non-NULL samples")
	}
	if result.Float64 != 0 {
		t.Errorf("Expected stdev 0, got %g", result.Float64)
	}
}
