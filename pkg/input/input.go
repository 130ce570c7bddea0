// Package input turns pointer, wheel and key events into changes of an
// interaction.State.
//
// Each pointer device is a Sink with the same four phases. The Dispatcher
// owns the State, routes events to a Sink, and runs a pick whenever a Sink
// reports that a release was a click rather than the end of a drag.
package input

import (
	"math"

	"github.com/taigrr/facet/pkg/interaction"
)

// Config holds input tuning. Thresholds are in canvas pixels.
type Config struct {
	ClickThreshold    float64 // mouse press-to-release distance that still counts as a click
	TapThreshold      float64 // same for a single-finger tap
	RotateSensitivity float64 // radians per pixel of drag
	ZoomSpeed         float64 // scale change per wheel unit
	KeyZoomFactor     float64 // scale multiplier for one +/- key press
	FPS               int     // frame rate the reset animation is stepped at
}

// DefaultConfig returns the stock thresholds and sensitivities.
func DefaultConfig() Config {
	return Config{
		ClickThreshold:    5,
		TapThreshold:      10,
		RotateSensitivity: 0.01,
		ZoomSpeed:         0.001,
		KeyZoomFactor:     1.1,
		FPS:               60,
	}
}

// Point is a position in canvas pixels, origin top-left, Y down.
type Point struct {
	X, Y float64
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Pointer is one pointer event.
type Pointer struct {
	// Position of the mouse, or of the touch that changed.
	Point

	// Touches still down after the event. Unused by the mouse.
	Touches []Point

	// Changed is how many touches this event started or ended; zero means one.
	Changed int
}

// Sink reacts to the phases of a pointer gesture.
type Sink interface {
	Press(st *interaction.State, p Pointer)
	Move(st *interaction.State, p Pointer)
	// Release reports whether the gesture was a click that should pick.
	Release(st *interaction.State, p Pointer) bool
	Cancel(st *interaction.State)
}

// Wheel zooms by 1 - deltaY*speed. Positive deltas (scrolling down) zoom out.
func Wheel(st *interaction.State, deltaY, speed float64) {
	st.Zoom(1 - deltaY*speed)
}
