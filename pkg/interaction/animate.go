package interaction

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Spring tuning for animated resets. Critically damped, so the model settles
// without overshooting the default view.
const (
	resetFrequency = 6.0
	resetDamping   = 1.0
	settleEpsilon  = 1e-4
)

// springValue tracks one animated quantity and its velocity.
type springValue struct {
	pos, vel, target float64
}

func (v *springValue) update(s harmonica.Spring) {
	v.pos, v.vel = s.Update(v.pos, v.vel, v.target)
}

func (v *springValue) settled() bool {
	return math.Abs(v.pos-v.target) < settleEpsilon && math.Abs(v.vel) < settleEpsilon
}

// resetAnimation springs the view back to its defaults.
type resetAnimation struct {
	spring         harmonica.Spring
	rotX, rotY, sc springValue
}

// AnimateReset starts springing rotation and zoom back to their defaults,
// one Step per frame at the given rate. Any gesture start cancels it.
func (s *State) AnimateReset(fps int) {
	if fps <= 0 {
		fps = 60
	}
	s.anim = &resetAnimation{
		spring: harmonica.NewSpring(harmonica.FPS(fps), resetFrequency, resetDamping),
		rotX:   springValue{pos: s.RotationX, target: DefaultRotationX},
		rotY:   springValue{pos: s.RotationY, target: DefaultRotationY},
		sc:     springValue{pos: s.Scale, target: DefaultScale},
	}
}

// Animating reports whether a reset animation is running.
func (s *State) Animating() bool {
	return s.anim != nil
}

// Step advances a running reset animation by one frame and reports whether
// it is still running. Once every value settles it snaps to the defaults.
func (s *State) Step() bool {
	a := s.anim
	if a == nil {
		return false
	}

	a.rotX.update(a.spring)
	a.rotY.update(a.spring)
	a.sc.update(a.spring)

	if a.rotX.settled() && a.rotY.settled() && a.sc.settled() {
		s.anim = nil
		s.RotationX, s.RotationY, s.Scale = DefaultRotationX, DefaultRotationY, DefaultScale
		return false
	}

	s.RotationX = a.rotX.pos
	s.RotationY = a.rotY.pos
	s.SetScale(a.sc.pos)
	return true
}
