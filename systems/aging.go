package systems

import "github.com/pthm-cable/drift/components"

// Age maps a trail slot to a fade index in [0, TrailLength]: 0 is the full
// particle color, TrailLength is fully faded into the background.
//
// A trail can hold two generations right after a reset because Reset only
// overwrites the newest slot. Slots older than the current generation fade
// back toward the foreground near the reset point, and the current
// generation fades out during its last TrailLength/2 ticks, so a position
// keeps the same age across the reset instead of jumping.
func Age(slot, lifeTime, initialLifeTime int) int {
	const q = components.TrailLength

	if lifeTime+slot > initialLifeTime {
		return ageInOldTrail(slot, lifeTime, initialLifeTime)
	}

	if lifeTime+slot < q/2 {
		length := q - lifeTime
		return length - slot - lifeTime
	}
	return slot
}

// ageInOldTrail handles slots written before the last reset.
func ageInOldTrail(slot, lifeTime, initialLifeTime int) int {
	const q = components.TrailLength

	offset := initialLifeTime - lifeTime
	length := q - offset
	if slot-offset < length/2 {
		return q - (slot - offset)
	}
	return slot
}

// ParticleAge is Age for slot of p.
func ParticleAge(p *components.Particle, slot int) int {
	return Age(slot, p.LifeTime, p.InitialLifeTime)
}
