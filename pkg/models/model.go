// Package models provides triangle-mesh loading and representation for facet.
//
// Every loader ends in the same face expansion: each face gets three fresh
// vertices tagged with the face's index, so a face id means the same thing to
// the picker, the renderer and the file it came from.
package models

import (
	"github.com/taigrr/facet/pkg/math3d"
)

// Vertex is one expanded, render-ready vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    math3d.Vec3 // RGB in 0-1 range
	FaceID   int
}

// RawVertex is a vertex as declared in a model source, before expansion.
type RawVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    math3d.Vec3
}

// Face holds three 0-based indices into a RawVertex list.
type Face [3]int

// Triangle is three positions in source winding order.
type Triangle [3]math3d.Vec3

// Model is a loaded mesh in both its source and expanded forms.
type Model struct {
	Name string

	// Source form, kept so a model can be re-encoded.
	Raw   []RawVertex
	Faces []Face

	// Expanded form: three vertices per face, indices 0,1,2, 3,4,5, ...
	Vertices  []Vertex
	Indices   []uint32
	Triangles []Triangle

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// FromFaces validates raw geometry and builds a Model from it.
func FromFaces(name string, raw []RawVertex, faces []Face) (*Model, error) {
	if len(raw) == 0 {
		return nil, ErrNoVertices
	}
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(raw) {
				return nil, &FaceError{Face: i, Index: idx, Count: len(raw)}
			}
		}
	}

	vertices, indices := Expand(raw, faces)
	m := &Model{
		Name:      name,
		Raw:       raw,
		Faces:     faces,
		Vertices:  vertices,
		Indices:   indices,
		Triangles: ExtractTriangles(vertices, indices),
	}
	m.calculateBounds()
	return m, nil
}

// Expand gives each face three fresh vertices carrying the face's index.
// Faces must already be range-checked against raw.
func Expand(raw []RawVertex, faces []Face) ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, len(faces)*3)
	indices := make([]uint32, 0, len(faces)*3)

	for faceID, f := range faces {
		base := uint32(len(vertices))
		for _, idx := range f {
			rv := raw[idx]
			vertices = append(vertices, Vertex{
				Position: rv.Position,
				Normal:   rv.Normal,
				Color:    rv.Color,
				FaceID:   faceID,
			})
		}
		indices = append(indices, base, base+1, base+2)
	}

	return vertices, indices
}

// ExtractTriangles groups indices into consecutive triples and returns one
// triangle per group in order. A trailing partial group is ignored.
func ExtractTriangles(vertices []Vertex, indices []uint32) []Triangle {
	tris := make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tris = append(tris, Triangle{
			vertices[indices[i]].Position,
			vertices[indices[i+1]].Position,
			vertices[indices[i+2]].Position,
		})
	}
	return tris
}

// calculateBounds computes the axis-aligned bounding box.
func (m *Model) calculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Model) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Model) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of faces.
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of expanded vertices.
func (m *Model) VertexCount() int {
	return len(m.Vertices)
}

// Normal returns the geometric normal of a triangle in its winding order.
func (t Triangle) Normal() math3d.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
}

// Centroid returns the average of the triangle's corners.
func (t Triangle) Centroid() math3d.Vec3 {
	return t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3.0)
}

// smoothNormals replaces the normals of raw with the area-weighted average of
// the normals of the faces that share each vertex.
func smoothNormals(raw []RawVertex, faces []Face) {
	for i := range raw {
		raw[i].Normal = math3d.Zero3()
	}

	for _, f := range faces {
		v0 := raw[f[0]].Position
		v1 := raw[f[1]].Position
		v2 := raw[f[2]].Position

		n := v1.Sub(v0).Cross(v2.Sub(v0)) // unnormalized

		for _, idx := range f {
			raw[idx].Normal = raw[idx].Normal.Add(n)
		}
	}

	for i := range raw {
		raw[i].Normal = raw[i].Normal.Normalize()
	}
}
