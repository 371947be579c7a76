// Package components defines ECS components for the particle simulation.
package components

import "math"

// Trail and lifetime constants shared by the simulation and the compositor.
const (
	TrailLength = 128    // positions kept per particle (Q)
	MaxLifetime = 8 * 60 // ticks; 8 seconds at 60 fps
	MinLifetime = 2 * TrailLength
)

// Vec2 is a position in canvas space.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Heading returns the unit vector at angle rad.
func Heading(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{X: c, Y: s}
}
