package systems

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/drift/components"
)

// Blend space names.
const (
	BlendHSL = "hsl"
	BlendRGB = "rgb"
)

// BGRA is one pixel in frame byte order.
type BGRA [4]uint8

// ToBGRA converts a colorful color to an opaque pixel.
func ToBGRA(c colorful.Color) BGRA {
	r, g, b := c.Clamped().RGB255()
	return BGRA{b, g, r, 255}
}

// Color returns the pixel as a colorful color.
func (p BGRA) Color() colorful.Color {
	return colorful.Color{
		R: float64(p[2]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[0]) / 255,
	}
}

// Blender interpolates from the particle color toward an existing pixel.
// Blends against the background pixel are precomputed per age.
type Blender struct {
	particle   colorful.Color
	particlePx BGRA
	background BGRA
	mix        func(a, b colorful.Color, t float64) colorful.Color
	bgTable    [components.TrailLength + 1]BGRA
}

// NewBlender builds a blender for the given colors and blend space.
func NewBlender(particle, background colorful.Color, space string) (*Blender, error) {
	b := &Blender{
		particle:   particle,
		particlePx: ToBGRA(particle),
		background: ToBGRA(background),
	}

	switch space {
	case BlendHSL, "":
		b.mix = blendHsl
	case BlendRGB:
		b.mix = func(a, c colorful.Color, t float64) colorful.Color { return a.BlendRgb(c, t) }
	default:
		return nil, fmt.Errorf("unknown blend space %q", space)
	}

	bg := b.background.Color()
	for age := range b.bgTable {
		b.bgTable[age] = b.blend(bg, b.background, age)
	}
	return b, nil
}

// Background returns the background pixel.
func (b *Blender) Background() BGRA {
	return b.background
}

// Particle returns the particle base pixel.
func (b *Blender) Particle() BGRA {
	return b.particlePx
}

// Blend returns the pixel written over dst for a trail slot of the given age.
func (b *Blender) Blend(dst BGRA, age int) BGRA {
	if dst == b.background {
		return b.bgTable[age]
	}
	return b.blend(dst.Color(), dst, age)
}

func (b *Blender) blend(dstColor colorful.Color, dst BGRA, age int) BGRA {
	switch {
	case age <= 0:
		return b.particlePx
	case age >= components.TrailLength:
		return dst
	}
	f := float64(age) / components.TrailLength
	return ToBGRA(b.mix(b.particle, dstColor, f))
}

// blendHsl interpolates hue along the shorter arc, saturation and
// lightness linearly. An achromatic endpoint takes the other's hue.
func blendHsl(c1, c2 colorful.Color, t float64) colorful.Color {
	h1, s1, l1 := c1.Hsl()
	h2, s2, l2 := c2.Hsl()

	if s1 == 0 && s2 != 0 {
		h1 = h2
	} else if s2 == 0 && s1 != 0 {
		h2 = h1
	}

	return colorful.Hsl(interpAngle(h1, h2, t), s1+t*(s2-s1), l1+t*(l2-l1))
}

func interpAngle(a0, a1, t float64) float64 {
	delta := math.Mod(math.Mod(a1-a0, 360.0)+540, 360.0) - 180.0
	return math.Mod(a0+t*delta+360.0, 360.0)
}
