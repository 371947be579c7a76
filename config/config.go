// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// FrameDelay is the presentation duration of one frame (about 60 fps).
const FrameDelay = 16667 * time.Microsecond

// Config holds all renderer configuration parameters.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Noise     NoiseConfig     `yaml:"noise"`
	Colors    ColorConfig     `yaml:"colors"`
	Output    OutputConfig    `yaml:"output"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Preview   PreviewConfig   `yaml:"preview"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// RenderConfig holds the values that make up a RenderInfo.
type RenderConfig struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Frames     int   `yaml:"frames"`
	Particles  int   `yaml:"particles"`
	Seed       int64 `yaml:"seed"`
	SaveFrames bool  `yaml:"save_frames"`
}

// NoiseConfig selects and tunes the noise field that steers particles.
type NoiseConfig struct {
	Kind  string    `yaml:"kind"`
	Scale float64   `yaml:"scale"`  // canvas units to noise units
	ZStep float64   `yaml:"z_step"` // noise depth advance per frame
	FBM   FBMConfig `yaml:"fbm"`
}

// FBMConfig holds octave Perlin parameters.
type FBMConfig struct {
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Octaves int32   `yaml:"octaves"`
}

// ColorConfig holds hex colors and the blend space.
type ColorConfig struct {
	Background string `yaml:"background"`
	Particle   string `yaml:"particle"`
	Blend      string `yaml:"blend"`
}

// OutputConfig holds encoder and frame persistence settings.
type OutputConfig struct {
	Video       string `yaml:"video"`
	FramesDir   string `yaml:"frames_dir"`
	FrameFormat string `yaml:"frame_format"`
	FFmpeg      string `yaml:"ffmpeg"`
	Queue       int    `yaml:"queue"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	Dir         string `yaml:"dir"`
	StatsWindow int    `yaml:"stats_window"`
	PerfWindow  int    `yaml:"perf_window"`
}

// PreviewConfig bounds the preview window size.
type PreviewConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Background colorful.Color
	Particle   colorful.Color
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	bg, err := colorful.Hex(c.Colors.Background)
	if err != nil {
		return fmt.Errorf("colors.background: %w", err)
	}
	particle, err := colorful.Hex(c.Colors.Particle)
	if err != nil {
		return fmt.Errorf("colors.particle: %w", err)
	}
	c.Derived.Background = bg
	c.Derived.Particle = particle

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 60
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
	if c.Output.Queue < 1 {
		c.Output.Queue = 1
	}
	return nil
}

// Validate checks the settings the renderer cannot run without.
func (c *Config) Validate() error {
	switch c.Noise.Kind {
	case "perlin", "simplex":
	case "fbm":
		if c.Noise.FBM.Octaves < 1 {
			return fmt.Errorf("noise.fbm.octaves must be at least 1, got %d", c.Noise.FBM.Octaves)
		}
	default:
		return fmt.Errorf("noise.kind must be perlin, simplex or fbm, got %q", c.Noise.Kind)
	}

	switch c.Colors.Blend {
	case "hsl", "rgb":
	default:
		return fmt.Errorf("colors.blend must be hsl or rgb, got %q", c.Colors.Blend)
	}

	switch c.Output.FrameFormat {
	case "png", "bmp", "tiff":
	default:
		return fmt.Errorf("output.frame_format must be png, bmp or tiff, got %q", c.Output.FrameFormat)
	}

	return c.RenderInfo().Validate()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
