package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/frame"
)

// Compositor rasterizes every particle trail into a frame.
type Compositor struct {
	filter  ecs.Filter1[components.Particle]
	blender *Blender
}

// NewCompositor creates a compositor over the particles in w.
func NewCompositor(w *ecs.World, blender *Blender) *Compositor {
	return &Compositor{
		filter:  *ecs.NewFilter1[components.Particle](w),
		blender: blender,
	}
}

// Draw fills f with the background and paints all trails into it.
// Slots are painted oldest first so newer, more opaque positions land on top.
func (c *Compositor) Draw(f *frame.Frame) {
	bg := c.blender.Background()
	f.Fill(bg[0], bg[1], bg[2], bg[3])

	maxX, maxY := f.Width-1, f.Height-1
	pix := f.Pix

	query := c.filter.Query()
	for query.Next() {
		p := query.Get()

		for slot := components.TrailLength - 1; slot >= 0; slot-- {
			age := ParticleAge(p, slot)
			pos := p.Trail.Get(slot)

			x := clampInt(int(pos.X), 0, maxX)
			y := clampInt(int(pos.Y), 0, maxY)

			off := f.Offset(x, y)
			dst := BGRA{pix[off], pix[off+1], pix[off+2], pix[off+3]}
			out := c.blender.Blend(dst, age)
			pix[off] = out[0]
			pix[off+1] = out[1]
			pix[off+2] = out[2]
			pix[off+3] = out[3]
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
