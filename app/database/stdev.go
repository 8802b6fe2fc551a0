package database

import (
	"database/sql/driver"
	"math"

	"modernc.org/sqlite"
)

// trend_stdev is a custom aggregate used by the trend query. It accumulates
// a single-pass (Welford) mean/variance over the baseline hourly counts and
// returns the sample standard deviation, or NULL when fewer than 3 samples
// were seen. The divisor is k-2, not the textbook k-1: the z-score
// thresholds downstream were calibrated against that divisor, so it is kept.
func init() {
	sqlite.MustRegisterFunction("trend_stdev", &sqlite.FunctionImpl{
		NArgs:         1,
		Deterministic: true,
		MakeAggregate: func(ctx sqlite.FunctionContext) (sqlite.AggregateFunction, error) {
			return &stdevAccumulator{}, nil
		},
	})
}

type stdevAccumulator struct {
	k    int64
	mean float64
	m2   float64
}

func (a *stdevAccumulator) Step(ctx *sqlite.FunctionContext, args []driver.Value) error {
	var x float64
	switch v := args[0].(type) {
	case int64:
		x = float64(v)
	case float64:
		x = v
	default:
		// NULLs (and anything non-numeric) carry no sample.
		return nil
	}

	a.k++
	delta := x - a.mean
	a.mean += delta / float64(a.k)
	a.m2 += delta * (x - a.mean)
	return nil
}

func (a *stdevAccumulator) WindowInverse(ctx *sqlite.FunctionContext, args []driver.Value) error {
	// Not used as a window function.
	return nil
}

func (a *stdevAccumulator) WindowValue(ctx *sqlite.FunctionContext) (driver.Value, error) {
	if a.k < 3 {
		return nil, nil
	}
	return math.Sqrt(a.m2 / float64(a.k-2)), nil
}

func (a *stdevAccumulator) Final(ctx *sqlite.FunctionContext) {}
