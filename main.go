package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/preview"
	"github.com/pthm-cable/drift/recorder"
	"github.com/pthm-cable/drift/renderer"
	"github.com/pthm-cable/drift/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", -1, "Number of frames to render (-1 = use config)")
	flag.IntVar(frames, "f", -1, "Shorthand for -frames")
	resolution := flag.String("resolution", "", "Canvas size as <width>x<height> (empty = use config)")
	flag.StringVar(resolution, "r", "", "Shorthand for -resolution")
	seed := flag.Int64("seed", 0, "Noise and particle seed (0 = use config)")
	flag.Int64Var(seed, "s", 0, "Shorthand for -seed")
	particles := flag.Int("particles", 0, "Particle count (0 = use config)")
	flag.IntVar(particles, "p", 0, "Shorthand for -particles")
	output := flag.String("output", "", "Video output path; a .bgra suffix writes raw frames (empty = use config)")
	flag.StringVar(output, "o", "", "Shorthand for -output")
	saveFrames := flag.Bool("save-frames", false, "Also write every frame as an image")
	previewMode := flag.Bool("preview", false, "Show frames in a window while rendering")
	telemetryDir := flag.String("telemetry-dir", "", "Output directory for CSV telemetry and config snapshot")
	logText := flag.Bool("log-text", false, "Log as text instead of JSON")
	debug := flag.Bool("debug", false, "Log every frame")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if *debug {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if *logText {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	// CLI overrides
	info := cfg.RenderInfo()
	if *frames >= 0 {
		info.FramesToRender = *frames
	}
	if *resolution != "" {
		w, h, err := config.ParseResolution(*resolution)
		if err != nil {
			return err
		}
		info.Width, info.Height = w, h
	}
	if *seed != 0 {
		info.Seed = *seed
	}
	if *particles > 0 {
		info.ParticleCount = *particles
	}
	if *saveFrames {
		info.SaveFrames = true
	}
	if *output != "" {
		cfg.Output.Video = *output
	}
	if *telemetryDir != "" {
		cfg.Telemetry.Dir = *telemetryDir
	}
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid render settings: %w", err)
	}

	// Keep the snapshot consistent with what actually runs.
	cfg.Render.Width, cfg.Render.Height = info.Width, info.Height
	cfg.Render.Frames = info.FramesToRender
	cfg.Render.Particles = info.ParticleCount
	cfg.Render.Seed = info.Seed
	cfg.Render.SaveFrames = info.SaveFrames

	slog.Info(fmt.Sprintf("%s -> %s", info, cfg.Output.Video))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry
	out, err := telemetry.NewOutputManager(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	// Encoder
	dst, err := recorder.Open(ctx, cfg.Output.FFmpeg, cfg.Output.Video, info.Width, info.Height)
	if err != nil {
		return err
	}
	rec := recorder.New(dst, cfg.Output.Queue, nil)
	sinks := renderer.MultiSink{rec}

	var win *preview.Window
	if *previewMode {
		win = preview.Open(info.Width, info.Height, cfg.Preview.MaxWidth, cfg.Preview.MaxHeight, info.FramesToRender, nil)
		defer win.Close()
		sinks = append(sinks, win)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	r, err := newRenderer(cfg, info, sinks, perf, out)
	if err != nil {
		rec.Done()
		return err
	}

	if win != nil {
		return previewLoop(ctx, r, win, rec, perf)
	}
	return headlessLoop(ctx, r, rec)
}

// newRenderer attaches telemetry to a renderer built from cfg.
func newRenderer(cfg *config.Config, info config.RenderInfo, sink renderer.Sink, perf *telemetry.PerfCollector, out *telemetry.OutputManager) (*renderer.Renderer, error) {
	return renderer.NewFromConfig(cfg, info, renderer.Options{
		Sink:      sink,
		Perf:      perf,
		Collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, config.FrameDelay),
		Output:    out,
	})
}

// headlessLoop renders until completion or cancellation.
func headlessLoop(ctx context.Context, r *renderer.Renderer, rec *recorder.Recorder) error {
	for {
		if err := ctx.Err(); err != nil {
			slog.Warn("interrupted", "frames", r.FramesRendered(), "of", r.TargetFrames())
			return errors.Join(err, rec.Done())
		}

		err := r.Render()
		if errors.Is(err, renderer.ErrComplete) {
			return finish(err)
		}
		if err != nil {
			return errors.Join(err, rec.Done())
		}
	}
}

// previewLoop renders one frame per window refresh and keeps the window
// open after completion until the user closes it.
func previewLoop(ctx context.Context, r *renderer.Renderer, win *preview.Window, rec *recorder.Recorder, perf *telemetry.PerfCollector) error {
	var result error
	finished := false

	for !win.ShouldClose() && ctx.Err() == nil {
		if !finished {
			err := r.Render()
			switch {
			case errors.Is(err, renderer.ErrComplete):
				finished = true
				result = finish(err)
			case err != nil:
				finished = true
				result = errors.Join(err, rec.Done())
			}
		}
		win.Draw()
		perf.RecordPresent()
	}

	if !finished {
		slog.Warn("preview closed before completion", "frames", r.FramesRendered(), "of", r.TargetFrames())
		return rec.Done()
	}
	return result
}

// finish strips ErrComplete, leaving only sink errors.
func finish(err error) error {
	if errors.Is(err, renderer.ErrComplete) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			var rest []error
			for _, e := range joined.Unwrap() {
				if !errors.Is(e, renderer.ErrComplete) {
					rest = append(rest, e)
				}
			}
			return errors.Join(rest...)
		}
		return nil
	}
	return err
}
