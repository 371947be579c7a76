package telemetry

import (
	"time"

	"github.com/pthm-cable/drift/frame"
)

// Collector accumulates per-frame events and produces WindowStats every
// windowFrames frames.
type Collector struct {
	windowFrames int
	frameDelay   time.Duration

	windowStart int
	resets      int
}

// NewCollector creates a stats collector.
// windowFrames: frames per window (values below 1 become 1)
// frameDelay: presentation time per frame, used for video time
func NewCollector(windowFrames int, frameDelay time.Duration) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: windowFrames,
		frameDelay:   frameDelay,
	}
}

// RecordResets adds particle resets observed in one frame.
func (c *Collector) RecordResets(n int) {
	c.resets += n
}

// ShouldFlush reports whether the window ending at rendered has filled.
func (c *Collector) ShouldFlush(rendered int) bool {
	return rendered-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// lifetimes is sorted in place.
func (c *Collector) Flush(rendered int, lifetimes []float64, coverage float64) WindowStats {
	frames := rendered - c.windowStart
	mean, std, p10, p50, p90 := ComputeLifetimeStats(lifetimes)

	var rate float64
	if frames > 0 && len(lifetimes) > 0 {
		rate = float64(c.resets) / float64(frames*len(lifetimes))
	}

	stats := WindowStats{
		WindowStart:  c.windowStart,
		WindowEnd:    rendered,
		VideoTimeSec: (time.Duration(rendered) * c.frameDelay).Seconds(),
		Particles:    len(lifetimes),
		Resets:       c.resets,
		ResetRate:    rate,
		LifetimeMean: mean,
		LifetimeStd:  std,
		LifetimeP10:  p10,
		LifetimeP50:  p50,
		LifetimeP90:  p90,
		Coverage:     coverage,
	}

	c.windowStart = rendered
	c.resets = 0
	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}

// Coverage returns the fraction of pixels in f that differ from background.
func Coverage(f *frame.Frame, background [4]uint8) float64 {
	total := f.Width * f.Height
	if total == 0 {
		return 0
	}
	var painted int
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+4*f.Width]
		for i := 0; i < len(row); i += 4 {
			if row[i] != background[0] || row[i+1] != background[1] ||
				row[i+2] != background[2] || row[i+3] != background[3] {
				painted++
			}
		}
	}
	return float64(painted) / float64(total)
}
