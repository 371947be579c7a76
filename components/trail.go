package components

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is wrapped by the panic raised for an index outside a ring.
var ErrOutOfRange = errors.New("ring index out of range")

// Ring is a fixed-capacity circular buffer addressed by age: index 0 is the
// most recently written slot, Cap()-1 the oldest. Nothing is ever removed;
// Advance rotates the origin so the oldest slot becomes the newest and is
// overwritten by the next Set(0, ...).
type Ring[T any] struct {
	data []T
	head int
	mask int // capacity-1 when capacity is a power of two, else -1
}

// NewRing creates a ring of the given capacity with every slot set to fill.
// Panics if capacity < 1.
func NewRing[T any](capacity int, fill T) Ring[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("components: ring capacity must be at least 1, got %d", capacity))
	}
	r := Ring[T]{
		data: make([]T, capacity),
		mask: -1,
	}
	if capacity&(capacity-1) == 0 {
		r.mask = capacity - 1
	}
	for i := range r.data {
		r.data[i] = fill
	}
	return r
}

// Cap returns the number of slots.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Advance moves the logical origin back by one slot in O(1).
// The slot that was oldest is now index 0.
func (r *Ring[T]) Advance() {
	if r.head == 0 {
		r.head = len(r.data) - 1
		return
	}
	r.head--
}

// Get returns the value at age i.
func (r *Ring[T]) Get(i int) T {
	return r.data[r.index(i)]
}

// Set overwrites the value at age i.
func (r *Ring[T]) Set(i int, v T) {
	r.data[r.index(i)] = v
}

// Push advances the ring and stores v as the newest entry.
func (r *Ring[T]) Push(v T) {
	r.Advance()
	r.data[r.head] = v
}

func (r *Ring[T]) index(i int) int {
	if i < 0 || i >= len(r.data) {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(r.data)))
	}
	if r.mask >= 0 {
		return (r.head + i) & r.mask
	}
	return (r.head + i) % len(r.data)
}

// Trail is the position history of one particle.
type Trail = Ring[Vec2]

// NewTrail returns a full-length trail with every slot at pos.
func NewTrail(pos Vec2) Trail {
	return NewRing(TrailLength, pos)
}
