package scroll

import "math"

// DefaultLerp is the per-frame (at 60 FPS) fraction of the remaining distance covered
const DefaultLerp = 0.1

const settleThreshold = 0.01

// Smoother eases a scroll position toward its target, frame-rate independent
type Smoother struct {
	Lerp float64

	current float64
	target  float64
}

// NewSmoother creates a smoother at position 0
func NewSmoother(lerp float64) *Smoother {
	return &Smoother{Lerp: lerp}
}

// Current returns the smoothed position
func (s *Smoother) Current() float64 {
	return s.current
}

// Target returns the position being approached
func (s *Smoother) Target() float64 {
	return s.target
}

// SetTarget moves the goal, e.g. after a wheel event
func (s *Smoother) SetTarget(y float64) {
	s.target = y
}

// AddDelta shifts the target by a scroll delta
func (s *Smoother) AddDelta(dy float64) {
	s.target += dy
}

// Jump places both position and target at y
func (s *Smoother) Jump(y float64) {
	s.current = y
	s.target = y
}

// Settled reports whether the position has reached the target
func (s *Smoother) Settled() bool {
	return s.current == s.target
}

// Step advances the position by dt seconds and returns it
func (s *Smoother) Step(dt float64) float64 {
	if s.Lerp <= 0 || s.Lerp >= 1 {
		s.current = s.target
		return s.current
	}
	if dt <= 0 {
		return s.current
	}

	s.current = damp(s.current, s.target, s.Lerp*60, dt)
	if math.Abs(s.target-s.current) < settleThreshold {
		s.current = s.target
	}
	return s.current
}

// damp is an exponential approach of x toward y with rate lambda
func damp(x, y, lambda, dt float64) float64 {
	return x + (y-x)*(1-math.Exp(-lambda*dt))
}
