package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/drift/components"
)

// AngularStep scales a noise sample in [-1, 1] to a heading in radians.
const AngularStep = 4 * math.Pi

// MotionSystem spawns, reuses and moves particles through the noise field.
type MotionSystem struct {
	mapper *ecs.Map1[components.Particle]
	filter ecs.Filter1[components.Particle]
	noise  NoiseField
	rng    *rand.Rand

	width, height float64
	scale         float64 // canvas-to-noise coordinate scale
}

// NewMotionSystem creates a motion system for a width x height canvas.
// All random draws come from rng, so a seeded rng gives a reproducible run.
func NewMotionSystem(w *ecs.World, noise NoiseField, rng *rand.Rand, width, height int, scale float64) *MotionSystem {
	return &MotionSystem{
		mapper: ecs.NewMap1[components.Particle](w),
		filter: *ecs.NewFilter1[components.Particle](w),
		noise:  noise,
		rng:    rng,
		width:  float64(width),
		height: float64(height),
		scale:  scale,
	}
}

// Spawn creates count particles at fresh random positions and lifetimes.
func (s *MotionSystem) Spawn(count int) {
	for i := 0; i < count; i++ {
		pos, life := s.sample()
		p := components.NewParticle(pos, life)
		s.mapper.NewEntity(&p)
	}
}

// sample draws a position in [0,w) x [0,h) and a lifetime in
// [MinLifetime, MaxLifetime].
func (s *MotionSystem) sample() (components.Vec2, int) {
	pos := components.Vec2{
		X: s.rng.Float64() * s.width,
		Y: s.rng.Float64() * s.height,
	}
	life := components.MinLifetime + s.rng.Intn(components.MaxLifetime-components.MinLifetime+1)
	return pos, life
}

// Update advances every particle one tick at noise depth z. Expired
// particles are reset before they move. Returns the number of resets.
func (s *MotionSystem) Update(z float64) int {
	resets := 0

	query := s.filter.Query()
	for query.Next() {
		p := query.Get()

		if p.Expired() {
			pos, life := s.sample()
			p.Reset(pos, life)
			resets++
		}

		pos := p.Pos()
		direction := s.noise.Noise3D(pos.X*s.scale, pos.Y*s.scale, z) * AngularStep
		p.Tick(direction, s.width, s.height)
	}

	return resets
}

// Lifetimes appends the remaining lifetime of every particle to dst.
func (s *MotionSystem) Lifetimes(dst []float64) []float64 {
	query := s.filter.Query()
	for query.Next() {
		dst = append(dst, float64(query.Get().LifeTime))
	}
	return dst
}
