// Package interaction holds the mutable view state of a facet session: the
// model's rotation and zoom, gesture bookkeeping, the selected face, and the
// triangles the picker tests against.
//
// A State is owned by one goroutine. Frontends forward their events to that
// goroutine rather than sharing the State.
package interaction

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// View defaults and zoom limits.
const (
	DefaultRotationX = -0.5
	DefaultRotationY = 0.7
	DefaultScale     = 1.0
	ZoomMin          = 0.1
	ZoomMax          = 5.0
)

// NoSelection is the SelectedFace value when no face is picked.
const NoSelection = -1

// State is the interactive transform and selection of the viewer.
type State struct {
	// Transform, in radians and as a uniform scale factor
	RotationX float64
	RotationY float64
	Scale     float64

	// Drag bookkeeping
	Dragging         bool
	DragStartX       float64
	DragStartY       float64
	InitialRotationX float64
	InitialRotationY float64

	// Pinch bookkeeping
	Pinching             bool
	InitialPinchDistance float64
	InitialScale         float64

	SelectedFace int
	Triangles    []models.Triangle

	CanvasWidth  int
	CanvasHeight int

	anim *resetAnimation
}

// New creates a State with the default view for a canvas of the given size.
func New(width, height int) *State {
	return &State{
		RotationX:    DefaultRotationX,
		RotationY:    DefaultRotationY,
		Scale:        DefaultScale,
		InitialScale: DefaultScale,
		SelectedFace: NoSelection,
		CanvasWidth:  width,
		CanvasHeight: height,
	}
}

// ClampScale limits a scale factor to [ZoomMin, ZoomMax].
func ClampScale(s float64) float64 {
	return math.Max(ZoomMin, math.Min(ZoomMax, s))
}

// ModelMatrix returns scale, then rotation about X, then rotation about Y.
// Rendering and picking both use it.
func (s *State) ModelMatrix() math3d.Mat4 {
	return math3d.ScaleUniform(s.Scale).
		Mul(math3d.RotateX(s.RotationX)).
		Mul(math3d.RotateY(s.RotationY))
}

// Aspect returns the canvas width over height, or 1 for a canvas with no
// height.
func (s *State) Aspect() float64 {
	if s.CanvasHeight <= 0 {
		return 1
	}
	return float64(s.CanvasWidth) / float64(s.CanvasHeight)
}

// Resize records a new canvas size.
func (s *State) Resize(width, height int) {
	s.CanvasWidth = width
	s.CanvasHeight = height
}

// SetScale sets the zoom, clamped into range. NaN leaves it unchanged.
func (s *State) SetScale(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.Scale = ClampScale(v)
}

// Zoom multiplies the current scale by factor.
func (s *State) Zoom(factor float64) {
	s.SetScale(s.Scale * factor)
}

// SetRotation sets both rotation angles.
func (s *State) SetRotation(x, y float64) {
	s.RotationX = x
	s.RotationY = y
}

// ResetRotation restores the default rotation immediately.
func (s *State) ResetRotation() {
	s.anim = nil
	s.SetRotation(DefaultRotationX, DefaultRotationY)
}

// ResetZoom restores the default scale immediately.
func (s *State) ResetZoom() {
	s.anim = nil
	s.Scale = DefaultScale
}

// ReplaceTriangles swaps in a new triangle list and clears the selection.
func (s *State) ReplaceTriangles(tris []models.Triangle) {
	s.Triangles = tris
	s.SelectedFace = NoSelection
}

// Select records the result of a pick. Ids outside the triangle list clear
// the selection.
func (s *State) Select(face int) {
	if face < 0 || face >= len(s.Triangles) {
		face = NoSelection
	}
	s.SelectedFace = face
}

// BeginDrag starts a rotation gesture at (x, y), snapshotting the rotation.
func (s *State) BeginDrag(x, y float64) {
	s.anim = nil
	s.Dragging = true
	s.Pinching = false
	s.DragStartX = x
	s.DragStartY = y
	s.InitialRotationX = s.RotationX
	s.InitialRotationY = s.RotationY
}

// DragTo sets the rotation from the pointer offset since BeginDrag.
// Horizontal movement turns about Y, vertical about X.
func (s *State) DragTo(x, y, sensitivity float64) {
	if !s.Dragging {
		return
	}
	s.RotationY = s.InitialRotationY + (x-s.DragStartX)*sensitivity
	s.RotationX = s.InitialRotationX + (y-s.DragStartY)*sensitivity
}

// DragDistance is how far (x, y) lies from where the drag started.
func (s *State) DragDistance(x, y float64) float64 {
	return math.Hypot(x-s.DragStartX, y-s.DragStartY)
}

// EndDrag finishes a rotation gesture.
func (s *State) EndDrag() {
	s.Dragging = false
}

// BeginPinch starts a zoom gesture with the fingers distance apart.
func (s *State) BeginPinch(distance float64) {
	s.anim = nil
	s.Dragging = false
	s.Pinching = true
	s.InitialPinchDistance = distance
	s.InitialScale = s.Scale
}

// PinchTo scales relative to the distance at BeginPinch.
func (s *State) PinchTo(distance float64) {
	if !s.Pinching || s.InitialPinchDistance <= 0 {
		return
	}
	s.SetScale(s.InitialScale * distance / s.InitialPinchDistance)
}

// Cancel abandons any gesture in progress.
func (s *State) Cancel() {
	s.Dragging = false
	s.Pinching = false
}

// Snapshot is a read-only copy of the values a HUD displays.
type Snapshot struct {
	RotationX    float64
	RotationY    float64
	Scale        float64
	SelectedFace int
	Faces        int
	Dragging     bool
	Pinching     bool
	Animating    bool
	Width        int
	Height       int
}

// Snapshot copies the displayable state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		RotationX:    s.RotationX,
		RotationY:    s.RotationY,
		Scale:        s.Scale,
		SelectedFace: s.SelectedFace,
		Faces:        len(s.Triangles),
		Dragging:     s.Dragging,
		Pinching:     s.Pinching,
		Animating:    s.anim != nil,
		Width:        s.CanvasWidth,
		Height:       s.CanvasHeight,
	}
}
