// Package renderer drives the particle simulation one frame at a time.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/frame"
	"github.com/pthm-cable/drift/systems"
	"github.com/pthm-cable/drift/telemetry"
)

// ErrComplete is returned by Render once every requested frame was produced.
var ErrComplete = errors.New("renderer: all frames rendered")

// State is the renderer lifecycle state.
type State int

const (
	StateInitialized State = iota
	StateRendering
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRendering:
		return "rendering"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options holds the collaborators of a Renderer. Noise and Blender are
// required; everything else may be left nil.
type Options struct {
	Noise      systems.NoiseField
	Blender    *systems.Blender
	NoiseScale float64 // canvas units to noise units
	ZStep      float64 // noise depth advance per frame

	Saver *frame.Saver // required when RenderInfo.SaveFrames is set
	Sink  Sink

	Perf      *telemetry.PerfCollector
	Collector *telemetry.Collector
	Output    *telemetry.OutputManager

	Logger *slog.Logger
}

// Renderer owns the particle pool and produces frames on demand.
// It is not safe for concurrent use.
type Renderer struct {
	info config.RenderInfo

	world      *ecs.World
	motion     *systems.MotionSystem
	compositor *systems.Compositor
	blender    *systems.Blender
	saver      *frame.Saver
	sink       Sink

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	log       *slog.Logger

	state     State
	frame     int
	frameTime time.Duration
	z         float64
	zStep     float64

	durations  []time.Duration
	lifetimes  []float64
	doneLogged bool
}

// New creates a renderer and spawns its particle pool.
// Panics if info is invalid or a required option is missing.
func New(info config.RenderInfo, opts Options) *Renderer {
	if err := info.Validate(); err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	if opts.Noise == nil || opts.Blender == nil {
		panic("renderer: noise field and blender are required")
	}
	if info.SaveFrames && opts.Saver == nil {
		panic("renderer: frame saving requested without a saver")
	}

	sink := opts.Sink
	if sink == nil {
		sink = Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(info.Seed))

	r := &Renderer{
		info:       info,
		world:      world,
		motion:     systems.NewMotionSystem(world, opts.Noise, rng, info.Width, info.Height, opts.NoiseScale),
		compositor: systems.NewCompositor(world, opts.Blender),
		blender:    opts.Blender,
		saver:      opts.Saver,
		sink:       sink,
		perf:       opts.Perf,
		collector:  opts.Collector,
		output:     opts.Output,
		log:        logger.With("component", "renderer"),
		zStep:      opts.ZStep,
	}
	r.motion.Spawn(info.ParticleCount)

	r.log.Info("renderer initialized",
		"run", info.String(),
		"particles", info.ParticleCount,
	)
	return r
}

// NewFromConfig fills the noise field, blender, scale, depth step and
// saver of opts from cfg and creates a renderer for info.
func NewFromConfig(cfg *config.Config, info config.RenderInfo, opts Options) (*Renderer, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	noise, err := systems.NewNoiseField(cfg.Noise.Kind, info.Seed, systems.FBMParams{
		Alpha:   cfg.Noise.FBM.Alpha,
		Beta:    cfg.Noise.FBM.Beta,
		Octaves: cfg.Noise.FBM.Octaves,
	})
	if err != nil {
		return nil, err
	}

	blender, err := systems.NewBlender(cfg.Derived.Particle, cfg.Derived.Background, cfg.Colors.Blend)
	if err != nil {
		return nil, err
	}

	if info.SaveFrames {
		opts.Saver, err = frame.NewSaver(cfg.Output.FramesDir, cfg.Output.FrameFormat)
		if err != nil {
			return nil, err
		}
	}

	opts.Noise = noise
	opts.Blender = blender
	opts.NoiseScale = cfg.Noise.Scale
	opts.ZStep = cfg.Noise.ZStep
	return New(info, opts), nil
}

// Render produces the next frame and hands it to the sink. Once the target
// frame count is reached it calls Sink.Done and returns ErrComplete.
func (r *Renderer) Render() error {
	if r.frame >= r.info.FramesToRender {
		return r.complete()
	}
	r.state = StateRendering

	start := time.Now()
	r.startFrame()

	r.startPhase(telemetry.PhaseComposite)
	f := frame.New(r.info.Width, r.info.Height)
	r.compositor.Draw(f)

	r.startPhase(telemetry.PhaseMotion)
	resets := r.motion.Update(r.z)

	f.Index = r.frame
	f.Start = r.frameTime
	f.End = r.frameTime + config.FrameDelay

	r.frame++
	r.frameTime += config.FrameDelay
	r.z += r.zStep

	if r.info.SaveFrames {
		r.startPhase(telemetry.PhasePersist)
		path, err := r.saver.Save(f)
		if err != nil {
			r.endFrame(start)
			return fmt.Errorf("persisting frame %d: %w", f.Index, err)
		}
		r.log.Debug("frame saved", "frame", f.Index, "path", path)
	}

	r.recordTelemetry(f, resets)

	r.startPhase(telemetry.PhaseEmit)
	err := r.sink.Frame(f)
	elapsed := r.endFrame(start)

	if werr := r.output.WriteFrame(telemetry.FrameRecord{
		Index:      f.Index,
		StartUS:    f.Start.Microseconds(),
		EndUS:      f.End.Microseconds(),
		RenderUS:   elapsed.Microseconds(),
		Resets:     resets,
		SavedFrame: r.info.SaveFrames,
	}); werr != nil {
		r.log.Error("failed to write frame record", "error", werr)
	}

	r.log.Debug("frame rendered",
		"frame", f.Index,
		"of", r.info.FramesToRender,
		"resets", resets,
		"elapsed_us", elapsed.Microseconds(),
	)

	if r.frame == r.info.FramesToRender {
		r.state = StateComplete
	}

	if err != nil {
		return fmt.Errorf("emitting frame %d: %w", f.Index, err)
	}
	return nil
}

// complete finishes the sink and reports ErrComplete.
func (r *Renderer) complete() error {
	r.state = StateComplete
	err := r.sink.Done()

	if !r.doneLogged {
		r.doneLogged = true
		r.log.Info("rendering complete",
			"frames", r.frame,
			"video_time", r.frameTime.String(),
			"summary", r.Summary(),
		)
	}

	if err != nil {
		return errors.Join(ErrComplete, fmt.Errorf("finishing sink: %w", err))
	}
	return ErrComplete
}

// recordTelemetry feeds the stats collector and flushes full windows.
// Coverage is measured before the frame leaves the renderer.
func (r *Renderer) recordTelemetry(f *frame.Frame, resets int) {
	if r.collector == nil {
		return
	}
	r.collector.RecordResets(resets)
	if !r.collector.ShouldFlush(r.frame) {
		return
	}

	r.lifetimes = r.motion.Lifetimes(r.lifetimes[:0])
	stats := r.collector.Flush(r.frame, r.lifetimes, telemetry.Coverage(f, r.blender.Background()))
	r.log.Info("stats", "window", stats)
	if err := r.output.WriteTelemetry(stats); err != nil {
		r.log.Error("failed to write telemetry", "error", err)
	}

	if r.perf == nil {
		return
	}
	perfStats := r.perf.Stats()
	r.log.Info("perf", "stats", perfStats)
	if err := r.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
		r.log.Error("failed to write perf", "error", err)
	}
}

func (r *Renderer) startFrame() {
	if r.perf != nil {
		r.perf.StartFrame()
	}
}

func (r *Renderer) startPhase(phase string) {
	if r.perf != nil {
		r.perf.StartPhase(phase)
	}
}

func (r *Renderer) endFrame(start time.Time) time.Duration {
	var d time.Duration
	if r.perf != nil {
		d = r.perf.EndFrame()
	} else {
		d = time.Since(start)
	}
	r.durations = append(r.durations, d)
	return d
}

// FramesRendered returns the number of frames produced so far.
func (r *Renderer) FramesRendered() int {
	return r.frame
}

// TargetFrames returns the configured number of frames.
func (r *Renderer) TargetFrames() int {
	return r.info.FramesToRender
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Info returns the run description.
func (r *Renderer) Info() config.RenderInfo {
	return r.info
}

// Summary returns wall-clock timing for the frames rendered so far.
func (r *Renderer) Summary() telemetry.Summary {
	return telemetry.Summarize(r.durations)
}
