// Package picking maps a pointer position on the canvas to the face of the
// model under it.
//
// A pick casts a ray from the camera through the pixel, transforms every
// triangle by the current model matrix, and keeps the nearest Möller–Trumbore
// hit. The scan is linear in the triangle count, which is fine for the tens to
// hundreds of faces a viewer model carries; meshes with tens of thousands of
// faces would want a bounding volume hierarchy in front of it.
package picking

import (
	"math"

	"github.com/taigrr/facet/pkg/camera"
	"github.com/taigrr/facet/pkg/interaction"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Epsilon rejects near-parallel rays and hits at or behind the ray origin.
const Epsilon = 1e-7

// Ray is a half-line in world space. Dir must be normalized.
type Ray struct {
	Origin math3d.Vec3
	Dir    math3d.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Hit is the nearest intersection found by PickNearest.
type Hit struct {
	Face int     // -1 when nothing was hit
	T    float64 // distance along the ray
}

// ScreenToRay builds the ray through canvas pixel (x, y), origin top-left and
// Y down, for a canvas of the given size.
func ScreenToRay(x, y float64, width, height int) Ray {
	cam := camera.New(float64(width) / float64(height))
	ndcX, ndcY := camera.ScreenToNDC(x, y, width, height)
	return Ray{
		Origin: cam.Position,
		Dir:    cam.RayDirection(ndcX, ndcY),
	}
}

// IntersectTriangle returns the distance along r to the triangle (v0, v1, v2)
// using the Möller–Trumbore algorithm. Both windings are hit.
func IntersectTriangle(r Ray, v0, v1, v2 math3d.Vec3) (t float64, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := r.Dir.Cross(edge2)
	a := edge1.Dot(h)

	// Parallel to the triangle's plane
	if a > -Epsilon && a < Epsilon {
		return 0, false
	}

	f := 1 / a
	s := r.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	// A line intersection behind the origin is not a ray intersection.
	t = f * edge2.Dot(q)
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// PickNearest transforms each triangle by model and returns the closest hit.
// Faces are tested in order and a later face replaces the current best only
// when strictly closer, so the lowest face id wins ties.
func PickNearest(r Ray, tris []models.Triangle, model math3d.Mat4) Hit {
	best := Hit{Face: interaction.NoSelection, T: math.MaxFloat64}

	for id, tri := range tris {
		v0 := model.TransformPoint(tri[0])
		v1 := model.TransformPoint(tri[1])
		v2 := model.TransformPoint(tri[2])

		if t, ok := IntersectTriangle(r, v0, v1, v2); ok && t < best.T {
			best = Hit{Face: id, T: t}
		}
	}

	return best
}

// PickFace returns the id of the face under canvas pixel (x, y) for the
// current view in st, or -1 when the pixel misses the model. A canvas with no
// area never hits. PickFace does not modify st.
func PickFace(x, y float64, st *interaction.State) int {
	if st.CanvasWidth <= 0 || st.CanvasHeight <= 0 {
		return interaction.NoSelection
	}

	r := ScreenToRay(x, y, st.CanvasWidth, st.CanvasHeight)
	return PickNearest(r, st.Triangles, st.ModelMatrix()).Face
}
