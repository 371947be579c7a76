// Package preview shows frames in a raylib window while they render.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/frame"
)

const (
	statusHeight = 48
	margin       = 10
)

// Window displays the latest frame with a progress bar. It implements
// renderer.Sink and must be used from the goroutine that opened it.
type Window struct {
	width, height int32 // displayed frame size
	target        int

	scaled  *image.RGBA
	pixels  []color.RGBA
	texture rl.Texture2D
	dirty   bool

	rendered     int
	done         bool
	closeClicked bool

	log *slog.Logger
}

// Open creates a window sized to show frameW x frameH frames, scaled down
// to fit maxW x maxH.
func Open(frameW, frameH, maxW, maxH, target int, logger *slog.Logger) *Window {
	w, h := frame.FitSize(frameW, frameH, maxW, maxH)
	if logger == nil {
		logger = slog.Default()
	}

	rl.InitWindow(int32(w+2*margin), int32(h+statusHeight+2*margin), "drift")
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(w, h, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	win := &Window{
		width:   int32(w),
		height:  int32(h),
		target:  target,
		scaled:  image.NewRGBA(image.Rect(0, 0, w, h)),
		pixels:  make([]color.RGBA, w*h),
		texture: texture,
		log:     logger.With("component", "preview"),
	}
	win.log.Info("preview opened", "width", w, "height", h, "frame_width", frameW, "frame_height", frameH)
	return win
}

// Frame copies f into the preview texture buffer.
func (w *Window) Frame(f *frame.Frame) error {
	frame.ScaleInto(w.scaled, f)
	pix := w.scaled.Pix
	for i := range w.pixels {
		o := i * 4
		w.pixels[i] = color.RGBA{R: pix[o], G: pix[o+1], B: pix[o+2], A: pix[o+3]}
	}
	w.dirty = true
	w.rendered = f.Index + 1
	return nil
}

// Done marks rendering as finished.
func (w *Window) Done() error {
	if !w.done {
		w.log.Info("preview complete", "frames", w.rendered)
	}
	w.done = true
	return nil
}

// ShouldClose reports whether the user closed the window.
func (w *Window) ShouldClose() bool {
	return w.closeClicked || rl.WindowShouldClose()
}

// Draw presents the latest frame and the progress bar.
func (w *Window) Draw() {
	if w.dirty {
		rl.UpdateTexture(w.texture, w.pixels)
		w.dirty = false
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	rl.DrawTexture(w.texture, margin, margin, rl.White)
	rl.DrawRectangleLines(margin, margin, w.width, w.height, rl.DarkGray)

	y := float32(w.height + 2*margin)
	barWidth := float32(w.width) - 110
	gui.ProgressBar(
		rl.Rectangle{X: margin, Y: y, Width: barWidth, Height: 20},
		"", fmt.Sprintf("%d/%d", w.rendered, w.target),
		float32(w.rendered), 0, float32(max(w.target, 1)),
	)

	if w.done {
		rl.DrawText("Rendering done", margin, int32(y)+26, 14, rl.DarkGray)
		if gui.Button(rl.Rectangle{X: margin + barWidth + 10, Y: y, Width: 90, Height: 20}, "Close") {
			w.closeClicked = true
		}
	} else {
		rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), margin, int32(y)+26, 14, rl.Gray)
	}

	rl.EndDrawing()
}

// Close releases the texture and closes the window.
func (w *Window) Close() {
	rl.UnloadTexture(w.texture)
	rl.CloseWindow()
}
