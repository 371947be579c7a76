package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated particle statistics for a window of frames.
type WindowStats struct {
	WindowStart  int     `csv:"-"`
	WindowEnd    int     `csv:"window_end"`
	VideoTimeSec float64 `csv:"video_time"`

	// Pool size and resets during the window
	Particles int     `csv:"particles"`
	Resets    int     `csv:"resets"`
	ResetRate float64 `csv:"reset_rate"` // resets per particle per frame

	// Remaining lifetime distribution at window end, in ticks
	LifetimeMean float64 `csv:"lifetime_mean"`
	LifetimeStd  float64 `csv:"lifetime_std"`
	LifetimeP10  float64 `csv:"lifetime_p10"`
	LifetimeP50  float64 `csv:"lifetime_p50"`
	LifetimeP90  float64 `csv:"lifetime_p90"`

	// Fraction of pixels differing from the background in the last frame
	Coverage float64 `csv:"coverage"`
}

// ComputeLifetimeStats returns mean, standard deviation and empirical
// 10th/50th/90th percentiles. values is sorted in place.
func ComputeLifetimeStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sort.Float64s(values)
	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	p10 = stat.Quantile(0.10, stat.Empirical, values, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Float64("video_time", s.VideoTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("resets", s.Resets),
		slog.Float64("reset_rate", s.ResetRate),
		slog.Float64("lifetime_mean", s.LifetimeMean),
		slog.Float64("lifetime_p10", s.LifetimeP10),
		slog.Float64("lifetime_p50", s.LifetimeP50),
		slog.Float64("lifetime_p90", s.LifetimeP90),
		slog.Float64("coverage", s.Coverage),
	)
}
