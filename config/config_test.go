package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	info := cfg.RenderInfo()
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("default resolution = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if info.ParticleCount != 5000 {
		t.Errorf("default particles = %d, want 5000", info.ParticleCount)
	}
	if cfg.Noise.Kind != "perlin" {
		t.Errorf("default noise kind = %q, want perlin", cfg.Noise.Kind)
	}
	if cfg.Derived.Particle.Hex() != "#7fd4ff" {
		t.Errorf("derived particle color = %s, want #7fd4ff", cfg.Derived.Particle.Hex())
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	overlay := "render:\n  width: 64\n  frames: 3\nnoise:\n  kind: simplex\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Width != 64 || cfg.Render.Frames != 3 {
		t.Errorf("overlay not applied: width=%d frames=%d", cfg.Render.Width, cfg.Render.Frames)
	}
	// Untouched fields keep their defaults.
	if cfg.Render.Height != 1080 {
		t.Errorf("height = %d, want default 1080", cfg.Render.Height)
	}
	if cfg.Noise.Kind != "simplex" {
		t.Errorf("noise kind = %q, want simplex", cfg.Noise.Kind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		want    string
	}{
		{"bad color", "colors:\n  particle: blue\n", "colors.particle"},
		{"bad noise", "noise:\n  kind: worley\n", "noise.kind"},
		{"bad blend", "colors:\n  blend: lab\n", "colors.blend"},
		{"bad format", "output:\n  frame_format: gif\n", "frame_format"},
		{"zero particles", "render:\n  particles: 0\n", "particle count"},
		{"negative frames", "render:\n  frames: -1\n", "frame count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Seed = 99

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if back.RenderInfo() != cfg.RenderInfo() {
		t.Errorf("render info changed: got %+v, want %+v", back.RenderInfo(), cfg.RenderInfo())
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1920x1080", 1920, 1080, false},
		{"4x4", 4, 4, false},
		{"1920", 0, 0, true},
		{"ax10", 0, 0, true},
		{"10xb", 0, 0, true},
	}

	for _, tt := range tests {
		w, h, err := ParseResolution(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseResolution(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("ParseResolution(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestRenderInfoString(t *testing.T) {
	info := RenderInfo{Width: 4, Height: 4, FramesToRender: 2, ParticleCount: 1, Seed: 42}
	if got, want := info.String(), "2 frames@4x4/42, 1(false)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRenderInfoValidate(t *testing.T) {
	valid := RenderInfo{Width: 4, Height: 4, FramesToRender: 0, ParticleCount: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid info rejected: %v", err)
	}

	bad := RenderInfo{Width: 0, Height: 4, FramesToRender: -1, ParticleCount: 0}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"resolution", "frame count", "particle count"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
