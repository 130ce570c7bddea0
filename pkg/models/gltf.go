package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/facet/pkg/math3d"
)

// DefaultColor is used for glTF primitives with neither vertex colors nor a
// material base color.
var DefaultColor = math3d.V3(0.8, 0.8, 0.8)

// LoadGLTF loads a glTF or GLB file.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FromGLTF(filepath.Base(path), doc)
}

// FromGLTF converts the triangle primitives of every mesh in doc into a Model.
// Faces are numbered across meshes in document order. Node transforms are not
// applied.
func FromGLTF(name string, doc *gltf.Document) (*Model, error) {
	var (
		raw   []RawVertex
		faces []Face
	)

	for _, m := range doc.Meshes {
		var err error
		raw, faces, err = appendMesh(doc, m, raw, faces)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	return FromFaces(name, raw, faces)
}

// appendMesh extracts geometry from a glTF mesh.
func appendMesh(doc *gltf.Document, m *gltf.Mesh, raw []RawVertex, faces []Face) ([]RawVertex, []Face, error) {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Lines and points have nothing to pick.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acc, err := accessor(doc, posIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("positions: %w", err)
		}
		positions, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			acc, err := accessor(doc, idx)
			if err != nil {
				return nil, nil, fmt.Errorf("normals: %w", err)
			}
			normals, err = modeler.ReadNormal(doc, acc, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("read normals: %w", err)
			}
		}

		var colors [][4]uint8
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			acc, err := accessor(doc, idx)
			if err != nil {
				return nil, nil, fmt.Errorf("colors: %w", err)
			}
			colors, err = modeler.ReadColor(doc, acc, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("read colors: %w", err)
			}
		}

		base := len(raw)
		baseColor := materialColor(doc, prim.Material)
		for i, p := range positions {
			v := RawVertex{
				Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
				Color:    baseColor,
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			if i < len(colors) {
				c := colors[i]
				v.Color = math3d.V3(float64(c[0])/255, float64(c[1])/255, float64(c[2])/255)
			}
			raw = append(raw, v)
		}

		var primFaces []Face
		if prim.Indices != nil {
			acc, err := accessor(doc, *prim.Indices)
			if err != nil {
				return nil, nil, fmt.Errorf("indices: %w", err)
			}
			indices, err := modeler.ReadIndices(doc, acc, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				primFaces = append(primFaces, Face{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				})
			}
		} else {
			// No indices, sequential triangles.
			for i := 0; i+2 < len(positions); i += 3 {
				primFaces = append(primFaces, Face{base + i, base + i + 1, base + i + 2})
			}
		}

		for _, f := range primFaces {
			for _, idx := range f {
				if idx >= len(raw) {
					return nil, nil, fmt.Errorf("primitive index %d: %w", idx-base, ErrIndexRange)
				}
			}
		}

		if len(normals) == 0 {
			smoothNormals(raw[base:], rebase(primFaces, base))
		}
		faces = append(faces, primFaces...)
	}

	return raw, faces, nil
}

// accessor returns the accessor at idx, or ErrAccessorRange when the
// document has no such accessor.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d of %d: %w", idx, len(doc.Accessors), ErrAccessorRange)
	}
	return doc.Accessors[idx], nil
}

// materialColor returns the base color factor of the material at idx.
func materialColor(doc *gltf.Document, idx *int) math3d.Vec3 {
	if idx == nil || *idx >= len(doc.Materials) {
		return DefaultColor
	}
	pbr := doc.Materials[*idx].PBRMetallicRoughness
	if pbr == nil {
		return DefaultColor
	}
	c := pbr.BaseColorFactorOrDefault()
	return math3d.V3(c[0], c[1], c[2])
}

// rebase shifts faces so their indices start at zero.
func rebase(faces []Face, base int) []Face {
	out := make([]Face, len(faces))
	for i, f := range faces {
		out[i] = Face{f[0] - base, f[1] - base, f[2] - base}
	}
	return out
}
