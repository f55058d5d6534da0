package motion

import (
	"math"
)

// maxSpringStep is the longest single integration step. Longer frames are
// split into equal sub-steps.
const maxSpringStep = 1.0 / 120

// Spring is a damped harmonic oscillator that smooths a scalar toward a
// target. The target may change at any time; position and velocity carry
// over, so retargeting is continuous.
//
// A Spring is owned by a single consumer and advanced once per frame.
type Spring struct {
	Position  float64
	Velocity  float64
	Target    float64
	Stiffness float64
	Damping   float64
}

// NewSpring creates a spring at rest at initial. Panics if stiffness or
// damping is not positive.
func NewSpring(stiffness, damping, initial float64) *Spring {
	if stiffness <= 0 {
		panic("motion: spring stiffness must be positive")
	}
	if damping <= 0 {
		panic("motion: spring damping must be positive")
	}
	return &Spring{
		Position:  initial,
		Target:    initial,
		Stiffness: stiffness,
		Damping:   damping,
	}
}

// SetTarget moves the equilibrium point without resetting motion.
func (s *Spring) SetTarget(v float64) {
	s.Target = v
}

// Advance integrates the spring forward by dt seconds and returns the new
// position. Uses semi-implicit Euler: velocity first, then position from the
// new velocity.
func (s *Spring) Advance(dt float64) float64 {
	if dt <= 0 {
		return s.Position
	}
	steps := int(math.Ceil(dt / maxSpringStep))
	if steps < 1 {
		steps = 1
	}
	h := dt / float64(steps)
	for i := 0; i < steps; i++ {
		accel := s.Stiffness*(s.Target-s.Position) - s.Damping*s.Velocity
		s.Velocity += accel * h
		s.Position += s.Velocity * h
	}
	return s.Position
}

// Settled reports whether the spring is within eps of its target and moving
// slower than eps per second.
func (s *Spring) Settled(eps float64) bool {
	return math.Abs(s.Target-s.Position) < eps && math.Abs(s.Velocity) < eps
}

// Snap jumps to the target and zeroes velocity.
func (s *Spring) Snap() {
	s.Position = s.Target
	s.Velocity = 0
}

// SpringFromBounce converts a perceptual duration/bounce descriptor into
// stiffness and damping for a unit mass. bounce 0 is critically damped;
// values toward 1 oscillate more. duration is the approximate period in
// seconds.
func SpringFromBounce(duration, bounce float64) (stiffness, damping float64) {
	if duration <= 0 {
		duration = 0.3
	}
	bounce = math.Min(math.Max(bounce, 0), 0.95)
	omega := 2 * math.Pi / duration
	stiffness = omega * omega
	damping = 2 * (1 - bounce) * omega
	return stiffness, damping
}

// Follower smooths a 2D point (usually the pointer) with one spring per axis.
type Follower struct {
	Name string
	x, y *Spring
}

// NewFollower creates a follower resting at origin.
func NewFollower(name string, stiffness, damping float64, origin Vec2) *Follower {
	return &Follower{
		Name: name,
		x:    NewSpring(stiffness, damping, origin.X),
		y:    NewSpring(stiffness, damping, origin.Y),
	}
}

// SetTarget retargets both axes.
func (f *Follower) SetTarget(p Vec2) {
	f.x.SetTarget(p.X)
	f.y.SetTarget(p.Y)
}

// Advance integrates both axes and returns the smoothed point.
func (f *Follower) Advance(dt float64) Vec2 {
	return Vec2{f.x.Advance(dt), f.y.Advance(dt)}
}

// Position returns the current smoothed point.
func (f *Follower) Position() Vec2 {
	return Vec2{f.x.Position, f.y.Position}
}
