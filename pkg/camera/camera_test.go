package camera

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

func TestNewDefaults(t *testing.T) {
	c := New(1.5)
	if c.Position != math3d.V3(0, 0, 3) {
		t.Errorf("Position = %v, want (0, 0, 3)", c.Position)
	}
	if c.FOV != math.Pi/4 {
		t.Errorf("FOV = %v, want pi/4", c.FOV)
	}
	if c.Near != 0.1 || c.Far != 100 {
		t.Errorf("clip planes = %v..%v, want 0.1..100", c.Near, c.Far)
	}
}

func TestOriginProjectsToCenter(t *testing.T) {
	c := New(2)
	x, y, _, ok := c.WorldToScreen(math3d.Zero3(), 200, 100)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("origin at (%v, %v), want (100, 50)", x, y)
	}
}

func TestBehindCameraInvisible(t *testing.T) {
	c := New(1)
	if _, _, _, ok := c.WorldToScreen(math3d.V3(0, 0, 5), 100, 100); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestRayDirectionMatchesUnproject(t *testing.T) {
	c := New(16.0 / 9.0)

	points := [][2]float64{
		{0, 0},
		{1, 1},
		{-1, 1},
		{0.3, -0.7},
		{-0.95, -0.2},
	}

	for _, p := range points {
		analytic := c.RayDirection(p[0], p[1])

		near := c.Unproject(math3d.V3(p[0], p[1], -1))
		far := c.Unproject(math3d.V3(p[0], p[1], 1))
		unprojected := far.Sub(near).Normalize()

		if !analytic.ApproxEqual(unprojected, 1e-6) {
			t.Errorf("ndc %v: RayDirection = %v, unprojected = %v", p, analytic, unprojected)
		}
	}
}

func TestScreenNDCRoundTrip(t *testing.T) {
	tests := []struct {
		x, y       float64
		ndcX, ndcY float64
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
		{200, 450, -0.5, -0.5},
	}

	for _, tc := range tests {
		nx, ny := ScreenToNDC(tc.x, tc.y, 800, 600)
		if nx != tc.ndcX || ny != tc.ndcY {
			t.Errorf("ScreenToNDC(%v, %v) = (%v, %v), want (%v, %v)", tc.x, tc.y, nx, ny, tc.ndcX, tc.ndcY)
		}
		x, y := NDCToScreen(nx, ny, 800, 600)
		if x != tc.x || y != tc.y {
			t.Errorf("NDCToScreen(%v, %v) = (%v, %v), want (%v, %v)", nx, ny, x, y, tc.x, tc.y)
		}
	}
}

func TestAspectChangeInvalidatesProjection(t *testing.T) {
	c := New(1)
	before := c.ViewProjectionMatrix()
	c.SetAspectRatio(2)
	after := c.ViewProjectionMatrix()
	if before == after {
		t.Error("view-projection should change with the aspect ratio")
	}
	if after.At(0, 0) != before.At(0, 0)/2 {
		t.Errorf("x scale = %v, want %v", after.At(0, 0), before.At(0, 0)/2)
	}
}
