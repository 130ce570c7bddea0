// Package camera describes the fixed viewpoint facet renders and picks from.
//
// The camera never moves: the model rotates and scales in front of it. Both
// the renderer and the picker build their matrices here so a pixel on screen
// and a ray through that pixel always agree.
package camera

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// Viewer defaults.
const (
	FOV  = math.Pi / 4 // 45 degrees, vertical
	Near = 0.1
	Far  = 100.0
)

// DefaultPosition is where the camera sits, looking at the origin.
var DefaultPosition = math3d.V3(0, 0, 3)

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	// Cached matrices
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// New creates the viewer camera for the given aspect ratio.
func New(aspect float64) *Camera {
	return &Camera{
		Position:    DefaultPosition,
		Target:      math3d.Zero3(),
		Up:          math3d.Up(),
		FOV:         FOV,
		AspectRatio: aspect,
		Near:        Near,
		Far:         Far,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns view then projection.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ViewMatrix().Mul(c.ProjectionMatrix())
	}
	return c.viewProjMatrix
}

// RayDirection returns the normalized world-space direction of the ray
// leaving the camera through the given NDC point (x right, y up, both in
// [-1, 1]). It assumes the camera looks down -Z, as the default one does.
func (c *Camera) RayDirection(ndcX, ndcY float64) math3d.Vec3 {
	tanHalf := math.Tan(c.FOV / 2)
	return math3d.V3(
		ndcX*c.AspectRatio*tanHalf,
		ndcY*tanHalf,
		-1,
	).Normalize()
}

// Unproject maps an NDC point back to world space through the inverse
// view-projection matrix.
func (c *Camera) Unproject(ndc math3d.Vec3) math3d.Vec3 {
	inv := c.ViewProjectionMatrix().Inverse()
	return inv.MulVec4(math3d.V4FromV3(ndc, 1)).PerspectiveDivide()
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind the camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x, y = NDCToScreen(ndc.X, ndc.Y, screenWidth, screenHeight)
	return x, y, ndc.Z, true
}

// ScreenToNDC converts canvas pixels (origin top-left, Y down) to NDC.
func ScreenToNDC(x, y float64, width, height int) (ndcX, ndcY float64) {
	return 2*x/float64(width) - 1, 1 - 2*y/float64(height)
}

// NDCToScreen is the inverse of ScreenToNDC.
func NDCToScreen(ndcX, ndcY float64, width, height int) (x, y float64) {
	return (ndcX + 1) * 0.5 * float64(width), (1 - ndcY) * 0.5 * float64(height)
}
