package input

import "github.com/taigrr/facet/pkg/interaction"

// Touch rotates with one finger, zooms with two, and taps to pick.
type Touch struct {
	Sensitivity float64
	Threshold   float64
}

// NewTouch creates a touch sink from cfg.
func NewTouch(cfg Config) *Touch {
	return &Touch{Sensitivity: cfg.RotateSensitivity, Threshold: cfg.TapThreshold}
}

// Press starts a drag for one finger or a pinch for two or more.
func (t *Touch) Press(st *interaction.State, p Pointer) {
	switch {
	case len(p.Touches) == 1:
		st.BeginDrag(p.Touches[0].X, p.Touches[0].Y)
	case len(p.Touches) >= 2:
		st.BeginPinch(p.Touches[0].Distance(p.Touches[1]))
	}
}

func (t *Touch) Move(st *interaction.State, p Pointer) {
	switch {
	case st.Pinching && len(p.Touches) >= 2:
		st.PinchTo(p.Touches[0].Distance(p.Touches[1]))
	case st.Dragging && len(p.Touches) == 1:
		st.DragTo(p.Touches[0].X, p.Touches[0].Y, t.Sensitivity)
	}
}

// Release handles fingers lifting. The last finger up is a tap when it was
// the only one lifted, stayed inside the threshold, and no pinch was active.
// Lifting down to one finger from a pinch hands over to a drag that starts
// from the current rotation.
func (t *Touch) Release(st *interaction.State, p Pointer) bool {
	switch {
	case len(p.Touches) == 0:
		tap := p.Changed <= 1 && !st.Pinching && st.DragDistance(p.X, p.Y) < t.Threshold
		st.Cancel()
		return tap
	case len(p.Touches) == 1 && st.Pinching:
		st.BeginDrag(p.Touches[0].X, p.Touches[0].Y)
	}
	return false
}

func (t *Touch) Cancel(st *interaction.State) {
	st.Cancel()
}
