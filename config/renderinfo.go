package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RenderInfo is the immutable run description handed to the renderer.
type RenderInfo struct {
	Width          int
	Height         int
	FramesToRender int
	ParticleCount  int
	Seed           int64
	SaveFrames     bool
}

// RenderInfo returns the run description from the render section.
func (c *Config) RenderInfo() RenderInfo {
	return RenderInfo{
		Width:          c.Render.Width,
		Height:         c.Render.Height,
		FramesToRender: c.Render.Frames,
		ParticleCount:  c.Render.Particles,
		Seed:           c.Render.Seed,
		SaveFrames:     c.Render.SaveFrames,
	}
}

// Validate reports the first invalid field.
func (r RenderInfo) Validate() error {
	var errs []error
	if r.Width <= 0 || r.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %dx%d", r.Width, r.Height))
	}
	if r.FramesToRender < 0 {
		errs = append(errs, fmt.Errorf("frame count must not be negative, got %d", r.FramesToRender))
	}
	if r.ParticleCount <= 0 {
		errs = append(errs, fmt.Errorf("particle count must be positive, got %d", r.ParticleCount))
	}
	return errors.Join(errs...)
}

// String formats the run as "<frames> frames@<w>x<h>/<seed>, <particles>(<save>)".
func (r RenderInfo) String() string {
	return fmt.Sprintf("%d frames@%dx%d/%d, %d(%t)",
		r.FramesToRender, r.Width, r.Height, r.Seed, r.ParticleCount, r.SaveFrames)
}

// ParseResolution parses "<width>x<height>".
func ParseResolution(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution %q: expected format <width>x<height>", s)
	}
	width, err = strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q: %w", w, err)
	}
	height, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q: %w", h, err)
	}
	return width, height, nil
}
