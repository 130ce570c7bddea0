package input

import "github.com/taigrr/facet/pkg/interaction"

// Mouse drags to rotate and clicks to pick.
type Mouse struct {
	Sensitivity float64
	Threshold   float64
}

// NewMouse creates a mouse sink from cfg.
func NewMouse(cfg Config) *Mouse {
	return &Mouse{Sensitivity: cfg.RotateSensitivity, Threshold: cfg.ClickThreshold}
}

func (m *Mouse) Press(st *interaction.State, p Pointer) {
	st.BeginDrag(p.X, p.Y)
}

func (m *Mouse) Move(st *interaction.State, p Pointer) {
	st.DragTo(p.X, p.Y, m.Sensitivity)
}

// Release ends the drag. A release that never left the press threshold is a
// click.
func (m *Mouse) Release(st *interaction.State, p Pointer) bool {
	click := st.Dragging && st.DragDistance(p.X, p.Y) < m.Threshold
	st.EndDrag()
	return click
}

// Cancel handles the pointer leaving the canvas.
func (m *Mouse) Cancel(st *interaction.State) {
	st.EndDrag()
}
