package models

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/taigrr/facet/pkg/math3d"
)

// Text model format, one record per line:
//
//	# comment
//	v x y z nx ny nz r g b        (also "vertex")
//	f i0 i1 i2                    (also "face", "tri", "triangle")
//
// Tokens are whitespace separated, indices are 0-based and may reference
// vertices declared later in the file. Unknown keywords are ignored and
// tokens past the required count are ignored.

// New parses a text model and builds a Model from it.
func New(name, text string) (*Model, error) {
	raw, faces, err := ParseRaw(text)
	if err != nil {
		return nil, err
	}
	return FromFaces(name, raw, faces)
}

// Parse parses a text model into expanded vertices and sequential indices.
// Parsing is all-or-nothing.
func Parse(text string) ([]Vertex, []uint32, error) {
	raw, faces, err := ParseRaw(text)
	if err != nil {
		return nil, nil, err
	}
	vertices, indices := Expand(raw, faces)
	return vertices, indices, nil
}

// ParseRaw parses a text model into its declared vertices and faces without
// expanding them. Every face index is checked against the vertex count.
func ParseRaw(text string) ([]RawVertex, []Face, error) {
	var (
		raw     []RawVertex
		faces   []Face
		sources []faceSource
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "v", "vertex":
			v, err := parseVertex(parts)
			if err != nil {
				return nil, nil, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			raw = append(raw, v)

		case "f", "face", "tri", "triangle":
			f, err := parseFace(parts)
			if err != nil {
				return nil, nil, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			faces = append(faces, f)
			sources = append(sources, faceSource{lineNo, line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	if len(raw) == 0 {
		return nil, nil, ErrNoVertices
	}
	if len(faces) == 0 {
		return nil, nil, ErrNoFaces
	}

	for i, f := range faces {
		for _, idx := range f {
			if idx >= len(raw) {
				return nil, nil, &ParseError{
					Line: sources[i].line,
					Text: sources[i].text,
					Err:  &FaceError{Face: i, Index: idx, Count: len(raw)},
				}
			}
		}
	}

	return raw, faces, nil
}

func parseVertex(parts []string) (RawVertex, error) {
	if len(parts) < 10 {
		return RawVertex{}, errShortVertex
	}

	var f [9]float64
	for i := range f {
		x, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return RawVertex{}, err
		}
		f[i] = x
	}

	return RawVertex{
		Position: math3d.V3(f[0], f[1], f[2]),
		Normal:   math3d.V3(f[3], f[4], f[5]),
		Color:    math3d.V3(f[6], f[7], f[8]),
	}, nil
}

func parseFace(parts []string) (Face, error) {
	if len(parts) < 4 {
		return Face{}, errShortFace
	}

	var f Face
	for i := range f {
		x, err := strconv.ParseUint(parts[i+1], 10, 32)
		if err != nil {
			return Face{}, err
		}
		f[i] = int(x)
	}
	return f, nil
}

type faceSource struct {
	line int
	text string
}
