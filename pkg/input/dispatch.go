package input

import (
	"github.com/taigrr/facet/pkg/interaction"
	"github.com/taigrr/facet/pkg/picking"
)

// Dispatcher routes events for one State to its sinks.
type Dispatcher struct {
	State *interaction.State
	Mouse Sink
	Touch Sink

	// OnPick, when set, is called after every pick with the face id (-1 on
	// a miss).
	OnPick func(face int)

	cfg       Config
	showDebug bool
}

// NewDispatcher binds mouse and touch sinks built from cfg to st.
func NewDispatcher(st *interaction.State, cfg Config) *Dispatcher {
	return &Dispatcher{
		State: st,
		Mouse: NewMouse(cfg),
		Touch: NewTouch(cfg),
		cfg:   cfg,
	}
}

// Config returns the tuning the dispatcher was built with.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

func (d *Dispatcher) Press(s Sink, p Pointer) {
	s.Press(d.State, p)
}

func (d *Dispatcher) Move(s Sink, p Pointer) {
	s.Move(d.State, p)
}

// Release forwards to s and picks at p when s reports a click. It returns the
// picked face, or -1 with ok false when the release was not a click.
func (d *Dispatcher) Release(s Sink, p Pointer) (face int, ok bool) {
	if !s.Release(d.State, p) {
		return interaction.NoSelection, false
	}
	return d.Pick(p.X, p.Y), true
}

func (d *Dispatcher) Cancel(s Sink) {
	s.Cancel(d.State)
}

// Pick selects the face under (x, y), clearing the selection on a miss.
func (d *Dispatcher) Pick(x, y float64) int {
	face := picking.PickFace(x, y, d.State)
	d.State.Select(face)
	if d.OnPick != nil {
		d.OnPick(face)
	}
	return face
}

// Wheel zooms by a wheel delta.
func (d *Dispatcher) Wheel(deltaY float64) {
	Wheel(d.State, deltaY, d.cfg.ZoomSpeed)
}

// Key handles a key press and reports whether it was bound:
//
//	/      toggle the debug panel
//	r      spring back to the default view
//	+ =    zoom in
//	-      zoom out
func (d *Dispatcher) Key(key string) bool {
	switch key {
	case "/":
		d.showDebug = !d.showDebug
	case "r", "R":
		d.State.AnimateReset(d.cfg.FPS)
	case "+", "=":
		d.State.Zoom(d.cfg.KeyZoomFactor)
	case "-", "_":
		d.State.Zoom(1 / d.cfg.KeyZoomFactor)
	default:
		return false
	}
	return true
}

// DebugVisible reports whether the debug panel is toggled on.
func (d *Dispatcher) DebugVisible() bool {
	return d.showDebug
}

// SetDebugVisible shows or hides the debug panel.
func (d *Dispatcher) SetDebugVisible(v bool) {
	d.showDebug = v
}
