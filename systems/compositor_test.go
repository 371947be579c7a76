package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/frame"
)

func pixelAt(f *frame.Frame, x, y int) BGRA {
	i := f.Offset(x, y)
	return BGRA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

func TestCompositorDraw(t *testing.T) {
	tests := []struct {
		name string
		pos  components.Vec2
		x, y int
	}{
		{"interior", components.Vec2{X: 1.5, Y: 2.7}, 1, 2},
		{"clamped at far edge", components.Vec2{X: 4, Y: 4}, 3, 3},
		{"origin", components.Vec2{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			mapper := ecs.NewMap1[components.Particle](w)
			p := components.NewParticle(tt.pos, 300)
			mapper.NewEntity(&p)

			b, err := NewBlender(red, black, BlendHSL)
			if err != nil {
				t.Fatal(err)
			}
			f := frame.New(4, 4)
			NewCompositor(w, b).Draw(f)

			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					got := pixelAt(f, x, y)
					want := b.Background()
					if x == tt.x && y == tt.y {
						want = b.Particle()
					}
					if got != want {
						t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestCompositorFadingTrail(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Particle](w)
	p := components.NewParticle(components.Vec2{X: 0.5, Y: 0.5}, 300)
	// Lay the trail along the top row: slot i at x = i.
	for i := components.TrailLength - 1; i >= 0; i-- {
		p.Trail.Push(components.Vec2{X: float64(i), Y: 0.5})
	}
	mapper.NewEntity(&p)

	b, err := NewBlender(white, black, BlendRGB)
	if err != nil {
		t.Fatal(err)
	}
	f := frame.New(components.TrailLength, 1)
	NewCompositor(w, b).Draw(f)

	for slot := 0; slot < components.TrailLength; slot++ {
		age := ParticleAge(&p, slot)
		want := b.Blend(b.Background(), age)
		if got := pixelAt(f, slot, 0); got != want {
			t.Errorf("slot %d (age %d) pixel = %v, want %v", slot, age, got, want)
		}
	}
	if got := pixelAt(f, 0, 0); got != b.Particle() {
		t.Errorf("newest slot pixel = %v, want particle %v", got, b.Particle())
	}
}
