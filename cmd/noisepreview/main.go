// Noise field preview tool - interactive view of the field that steers particles.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

var backends = []string{systems.NoisePerlin, systems.NoiseSimplex, systems.NoiseFBM}

// NoiseParams holds the tunable field parameters.
type NoiseParams struct {
	Kind   string
	Scale  float32 // canvas units to noise units
	ZStep  float32 // depth advance per frame
	Seed   int64
	Canvas float32 // canvas width represented by the preview
}

func defaultParams(cfg *config.Config) NoiseParams {
	return NoiseParams{
		Kind:   cfg.Noise.Kind,
		Scale:  float32(cfg.Noise.Scale),
		ZStep:  float32(cfg.Noise.ZStep),
		Seed:   cfg.Render.Seed,
		Canvas: float32(cfg.Render.Width),
	}
}

func main() {
	cfg := config.Default()
	fbm := systems.FBMParams{Alpha: cfg.Noise.FBM.Alpha, Beta: cfg.Noise.FBM.Beta, Octaves: cfg.Noise.FBM.Octaves}

	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)
	field, err := systems.NewNoiseField(params.Kind, params.Seed, fbm)
	if err != nil {
		slog.Error("failed to build noise field", "error", err)
		os.Exit(1)
	}

	grid := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var z float64
	animating := false
	needsRegen := true
	rebuild := false

	for !rl.WindowShouldClose() {
		if animating {
			z += float64(params.ZStep)
			needsRegen = true
		}

		if rebuild {
			field, err = systems.NewNoiseField(params.Kind, params.Seed, fbm)
			if err != nil {
				slog.Error("failed to build noise field", "kind", params.Kind, "error", err)
				os.Exit(1)
			}
			rebuild = false
			needsRegen = true
		}

		if needsRegen {
			sampleField(grid, field, params, z)
			updateTexture(texture, grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		minVal, maxVal, mean := gridStats(grid)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("z: %.4f  frame: %d", z, frameAt(z, params.ZStep)), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Backend buttons
		rl.DrawText("Backend", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		for i, kind := range backends {
			label := kind
			if kind == params.Kind {
				label = "[" + kind + "]"
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(i)*110, Y: panelY, Width: 100, Height: 26}, label) && kind != params.Kind {
				params.Kind = kind
				rebuild = true
			}
		}
		panelY += 45

		// Scale slider
		rl.DrawText("Scale (canvas to noise units)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.0005", "0.02",
			params.Scale, 0.0005, 0.02,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRegen = true
		}
		panelY += 35

		// Z speed slider
		rl.DrawText("Z step (depth per frame)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newZStep := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "0.05",
			params.ZStep, 0, 0.05,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.ZStep), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		params.ZStep = newZStep
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			rebuild = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Depth") {
			z = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			rebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			z = 0
			rebuild = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := paramsYAML(params)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// sampleField fills grid with the field over a params.Canvas wide square
// of canvas space at depth z, mapped to [0, 1].
func sampleField(grid []float64, field systems.NoiseField, params NoiseParams, z float64) {
	step := float64(params.Canvas) / gridSize
	scale := float64(params.Scale)
	for y := 0; y < gridSize; y++ {
		cy := (float64(y) + 0.5) * step
		for x := 0; x < gridSize; x++ {
			cx := (float64(x) + 0.5) * step
			grid[y*gridSize+x] = (field.Noise3D(cx*scale, cy*scale, z) + 1) / 2
		}
	}
}

func gridStats(grid []float64) (minVal, maxVal, mean float64) {
	minVal, maxVal = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, v := range grid {
		sum += v
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal, sum / float64(len(grid))
}

func frameAt(z float64, step float32) int {
	if step <= 0 {
		return 0
	}
	return int(z / float64(step))
}

func paramsYAML(p NoiseParams) string {
	return fmt.Sprintf("noise:\n  kind: %s\n  scale: %.4f\n  z_step: %.4f\nrender:\n  seed: %d", p.Kind, p.Scale, p.ZStep, p.Seed)
}

// updateTexture writes the grid as grayscale.
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		g := uint8(math.Round(v * 255))
		pixels[i] = color.RGBA{R: g, G: g, B: g, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
