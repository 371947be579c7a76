package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// NoiseField is a seeded coherent noise function over 3D coordinates.
// Values are in [-1, 1] and identical for identical seeds.
type NoiseField interface {
	Noise3D(x, y, z float64) float64
}

// Noise backend names accepted by NewNoiseField.
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
	NoiseFBM     = "fbm"
)

// FBMParams tunes the octave Perlin backend.
type FBMParams struct {
	Alpha   float64 // amplitude divisor per octave
	Beta    float64 // frequency multiplier per octave
	Octaves int32
}

// NewNoiseField builds the named backend for seed.
func NewNoiseField(kind string, seed int64, fbm FBMParams) (NoiseField, error) {
	switch kind {
	case NoisePerlin, "":
		return NewPerlinNoise(seed), nil
	case NoiseSimplex:
		return simplexNoise{opensimplex.New(seed)}, nil
	case NoiseFBM:
		if fbm.Octaves < 1 {
			return nil, fmt.Errorf("fbm noise needs at least one octave, got %d", fbm.Octaves)
		}
		return fbmNoise{perlin.NewPerlin(fbm.Alpha, fbm.Beta, fbm.Octaves, seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

type simplexNoise struct {
	noise opensimplex.Noise
}

func (s simplexNoise) Noise3D(x, y, z float64) float64 {
	return clampUnit(s.noise.Eval3(x, y, z))
}

// fbmNoise sums octaves, which can overshoot [-1, 1] slightly.
type fbmNoise struct {
	p *perlin.Perlin
}

func (f fbmNoise) Noise3D(x, y, z float64) float64 {
	return clampUnit(f.p.Noise3D(x, y, z))
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// PerlinNoise generates coherent noise values.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Noise3D returns a noise value for 3D coordinates.
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	return clampUnit(lerp(w, lerp(v, lerp(u, grad3D(p.perm[AA], x, y, z),
		grad3D(p.perm[BA], x-1, y, z)),
		lerp(u, grad3D(p.perm[AB], x, y-1, z),
			grad3D(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3D(p.perm[AA+1], x, y, z-1),
			grad3D(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3D(p.perm[AB+1], x, y-1, z-1),
				grad3D(p.perm[BB+1], x-1, y-1, z-1)))))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
