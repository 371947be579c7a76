package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the wall-clock render time of a whole run.
type Summary struct {
	Frames int
	Total  time.Duration
	Mean   time.Duration
	StdDev time.Duration
	P50    time.Duration
	P99    time.Duration
	Max    time.Duration
}

// Summarize computes a Summary from per-frame render durations.
func Summarize(durations []time.Duration) Summary {
	n := len(durations)
	if n == 0 {
		return Summary{}
	}

	xs := make([]float64, n)
	var total time.Duration
	for i, d := range durations {
		xs[i] = float64(d)
		total += d
	}
	sort.Float64s(xs)

	s := Summary{
		Frames: n,
		Total:  total,
		P50:    time.Duration(stat.Quantile(0.50, stat.Empirical, xs, nil)),
		P99:    time.Duration(stat.Quantile(0.99, stat.Empirical, xs, nil)),
		Max:    time.Duration(xs[n-1]),
	}
	if n == 1 {
		s.Mean = total
		return s
	}
	mean, std := stat.MeanStdDev(xs, nil)
	s.Mean = time.Duration(mean)
	s.StdDev = time.Duration(std)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int64("total_ms", s.Total.Milliseconds()),
		slog.Int64("mean_us", s.Mean.Microseconds()),
		slog.Int64("std_us", s.StdDev.Microseconds()),
		slog.Int64("p50_us", s.P50.Microseconds()),
		slog.Int64("p99_us", s.P99.Microseconds()),
		slog.Int64("max_us", s.Max.Microseconds()),
	)
}
