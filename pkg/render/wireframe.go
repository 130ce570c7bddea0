package render

import (
	"github.com/taigrr/facet/pkg/camera"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// LineDepthBias lets overlay lines win the depth test against the face they
// outline. It is in NDC depth units.
const LineDepthBias = 1e-3

// DrawLineList draws pairs of model-space points as lines through mvp. Lines
// are depth tested against what is already drawn but never write depth.
// Each segment is clipped to the near plane and then to the framebuffer, so
// only visible pixels are walked. It returns the number of segments that
// reached the screen.
func (r *Rasterizer) DrawLineList(mvp math3d.Mat4, verts []math3d.Vec3, c Color) int {
	if r.fb.Width <= 0 || r.fb.Height <= 0 {
		return 0
	}
	maxX := float64(r.fb.Width) - 1e-6
	maxY := float64(r.fb.Height) - 1e-6

	drawn := 0
	for i := 0; i+1 < len(verts); i += 2 {
		a := mvp.MulVec4(math3d.V4FromV3(verts[i], 1))
		b := mvp.MulVec4(math3d.V4FromV3(verts[i+1], 1))
		if !clipNear(&a, &b, camera.Near) {
			continue
		}

		x0, y0, z0 := r.toScreen(a)
		x1, y1, z1 := r.toScreen(b)
		t0, t1, ok := clipRect(x0, y0, x1, y1, maxX, maxY)
		if !ok {
			continue
		}

		dx, dy, dz := x1-x0, y1-y0, z1-z0
		sx0, sy0, sz0 := x0+dx*t0, y0+dy*t0, z0+dz*t0
		sx1, sy1, sz1 := x0+dx*t1, y0+dy*t1, z0+dz*t1

		// NDC depth is affine in screen space, so it interpolates linearly
		// along the clipped segment.
		bresenham(int(sx0), int(sy0), int(sx1), int(sy1), func(x, y int, t float64) {
			z := sz0 + (sz1-sz0)*t
			if z <= r.Depth(x, y)+LineDepthBias {
				r.fb.SetPixel(x, y, c)
			}
		})
		drawn++
	}
	return drawn
}

// DrawOverlay outlines the frame's selected face. It reports whether there
// was a valid selection to outline.
func (r *Rasterizer) DrawOverlay(f Frame, tris []models.Triangle, c Color) bool {
	lines, ok := f.Overlay(tris)
	if !ok {
		return false
	}
	r.DrawLineList(f.MVP, lines, c)
	return true
}

// toScreen divides a clip-space point by W and maps it to framebuffer pixels.
func (r *Rasterizer) toScreen(clip math3d.Vec4) (x, y, z float64) {
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(r.fb.Width)
	y = (1 - ndc.Y) * 0.5 * float64(r.fb.Height)
	return x, y, ndc.Z
}

// clipNear cuts the segment a-b to the part with W >= near. It reports false
// when the whole segment lies in front of that plane.
func clipNear(a, b *math3d.Vec4, near float64) bool {
	switch {
	case a.W < near && b.W < near:
		return false
	case a.W < near:
		*a = lerp4(*a, *b, (near-a.W)/(b.W-a.W))
	case b.W < near:
		*b = lerp4(*b, *a, (near-b.W)/(a.W-b.W))
	}
	return true
}

func lerp4(a, b math3d.Vec4, t float64) math3d.Vec4 {
	return math3d.V4(
		a.X+(b.X-a.X)*t,
		a.Y+(b.Y-a.Y)*t,
		a.Z+(b.Z-a.Z)*t,
		a.W+(b.W-a.W)*t,
	)
}

// clipRect clips the segment (x0,y0)-(x1,y1) to [0,maxX] x [0,maxY] with the
// Liang-Barsky test. It returns the parameter range that stays inside.
func clipRect(x0, y0, x1, y1, maxX, maxY float64) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return t0, t1, true
}
