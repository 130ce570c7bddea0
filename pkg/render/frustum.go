package render

import "github.com/taigrr/facet/pkg/math3d"

// Plane is Normal·p + D = 0 with the normal pointing into the frustum.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane so its normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance to point, positive inside.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the six clip planes, ordered left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// Plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the clip planes of m (Gribb/Hartmann). Given
// an MVP the planes come out in model space, so a model's own bounds can be
// tested without transforming them.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Clip component j is the dot of (x, y, z, 1) with column j of m.
	col := func(j int) (math3d.Vec3, float64) {
		return math3d.V3(m[j], m[4+j], m[8+j]), m[12+j]
	}
	xn, xd := col(0)
	yn, yd := col(1)
	zn, zd := col(2)
	wn, wd := col(3)

	f := Frustum{Planes: [6]Plane{
		FrustumLeft:   {wn.Add(xn), wd + xd},
		FrustumRight:  {wn.Sub(xn), wd - xd},
		FrustumBottom: {wn.Add(yn), wd + yd},
		FrustumTop:    {wn.Sub(yn), wd - yd},
		FrustumNear:   {wn.Add(zn), wd + zd},
		FrustumFar:    {wn.Sub(zn), wd - zd},
	}}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// IntersectAABB reports whether any part of box is inside the frustum. It
// tests only the corner furthest along each plane normal.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		p := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
