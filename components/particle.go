package components

// Particle is a single drifting point with its trail history.
// Particles are reused, never destroyed: when LifeTime reaches zero the
// owner resets them in place.
type Particle struct {
	Trail           Trail
	LifeTime        int // remaining ticks
	InitialLifeTime int // LifeTime at the last reset
}

// NewParticle creates a particle at pos whose whole trail sits at pos.
func NewParticle(pos Vec2, lifeTime int) Particle {
	return Particle{
		Trail:           NewTrail(pos),
		LifeTime:        lifeTime,
		InitialLifeTime: lifeTime,
	}
}

// Pos returns the newest trail position.
func (p *Particle) Pos() Vec2 {
	return p.Trail.Get(0)
}

// Expired reports whether the particle is due for reuse.
func (p *Particle) Expired() bool {
	return p.LifeTime == 0
}

// Tick moves the particle one unit along direction (radians), wrapping
// toroidally at the canvas edges, and records the new position.
func (p *Particle) Tick(direction float64, width, height float64) {
	pos := p.Pos().Add(Heading(direction))
	pos.X = Wrap(pos.X, width)
	pos.Y = Wrap(pos.Y, height)

	p.Trail.Push(pos)

	if p.LifeTime > 0 {
		p.LifeTime--
	}
}

// Reset starts a new generation at pos. Only the newest slot is
// overwritten; older slots stay and fade out via the aging policy.
func (p *Particle) Reset(pos Vec2, lifeTime int) {
	p.Trail.Set(0, pos)
	p.LifeTime = lifeTime
	p.InitialLifeTime = lifeTime
}

// Wrap maps v onto the torus [0, limit]: values at or past limit go to 0,
// negative values go to limit.
func Wrap(v, limit float64) float64 {
	if v >= limit {
		return 0
	}
	if v < 0 {
		return limit
	}
	return v
}
