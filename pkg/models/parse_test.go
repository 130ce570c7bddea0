package models

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

const quadModel = `# two triangles
v 0 0 0  0 0 1  1 0 0
v 1 0 0  0 0 1  0 1 0
v 1 1 0  0 0 1  0 0 1
vertex 0 1 0  0 0 1  1 1 1

f 0 1 2
triangle 0 2 3
`

func TestParseExpandsFaces(t *testing.T) {
	vertices, indices, err := Parse(quadModel)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(vertices) != 6 {
		t.Fatalf("Expected 6 expanded vertices, got %d", len(vertices))
	}
	wantIdx := []uint32{0, 1, 2, 3, 4, 5}
	if len(indices) != len(wantIdx) {
		t.Fatalf("Expected %d indices, got %d", len(wantIdx), len(indices))
	}
	for i := range wantIdx {
		if indices[i] != wantIdx[i] {
			t.Errorf("indices[%d] = %d, want %d", i, indices[i], wantIdx[i])
		}
	}

	for i, v := range vertices {
		if v.FaceID != i/3 {
			t.Errorf("vertex %d FaceID = %d, want %d", i, v.FaceID, i/3)
		}
	}

	// Second face is 0 2 3: its last vertex is the white one.
	if vertices[5].Color != math3d.V3(1, 1, 1) {
		t.Errorf("vertex 5 color = %v, want (1, 1, 1)", vertices[5].Color)
	}
	if vertices[4].Position != math3d.V3(1, 1, 0) {
		t.Errorf("vertex 4 position = %v, want (1, 1, 0)", vertices[4].Position)
	}
}

func TestParseRoundTripTriangles(t *testing.T) {
	vertices, indices, err := Parse(quadModel)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tris := ExtractTriangles(vertices, indices)
	want := []Triangle{
		{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0)},
		{math3d.V3(0, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)},
	}
	if len(tris) != len(want) {
		t.Fatalf("Expected %d triangles, got %d", len(want), len(tris))
	}
	for i := range want {
		if tris[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, tris[i], want[i])
		}
	}
}

func TestExtractTrianglesIgnoresPartialTriple(t *testing.T) {
	vertices, indices, err := Parse(quadModel)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tris := ExtractTriangles(vertices, indices[:5])
	if len(tris) != 1 {
		t.Errorf("Expected 1 triangle from 5 indices, got %d", len(tris))
	}
}

func TestParseIgnoresUnknownAndExtraTokens(t *testing.T) {
	text := `o object
vn 0 0 1
v 0 0 0 0 0 1 1 1 1 extra
v 1 0 0 0 0 1 1 1 1
v 0 1 0 0 0 1 1 1 1
   # indented comment
f 0 1 2 99
`
	vertices, _, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(vertices) != 3 {
		t.Errorf("Expected 3 vertices, got %d", len(vertices))
	}
}

func TestParseForwardReference(t *testing.T) {
	text := `f 0 1 2
v 0 0 0 0 0 1 1 1 1
v 1 0 0 0 0 1 1 1 1
v 0 1 0 0 0 1 1 1 1
`
	if _, _, err := Parse(text); err != nil {
		t.Errorf("faces may precede their vertices, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sentinel error
		line     int
	}{
		{"empty", "", ErrNoVertices, 0},
		{"comments only", "# nothing\n\n", ErrNoVertices, 0},
		{"no faces", "v 0 0 0 0 0 1 1 1 1\n", ErrNoFaces, 0},
		{"faces without vertices", "f 0 1 2\n", ErrNoVertices, 0},
		{"short vertex", "v 0 0 0\nf 0 0 0\n", errShortVertex, 1},
		{"short face", "v 0 0 0 0 0 1 1 1 1\nf 0 0\n", errShortFace, 2},
		{"bad float", "v 0 0 zero 0 0 1 1 1 1\nf 0 0 0\n", strconv.ErrSyntax, 1},
		{"negative index", "v 0 0 0 0 0 1 1 1 1\nf 0 -1 0\n", strconv.ErrSyntax, 2},
		{"index out of range", "v 0 0 0 0 0 1 1 1 1\n\nf 0 0 3\n", ErrIndexRange, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vertices, indices, err := Parse(tc.text)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if vertices != nil || indices != nil {
				t.Error("Parse should return no geometry on error")
			}
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.sentinel)
			}

			var pe *ParseError
			if tc.line == 0 {
				if errors.As(err, &pe) {
					t.Errorf("Did not expect a line error, got %v", pe)
				}
				return
			}
			if !errors.As(err, &pe) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}
			if pe.Line != tc.line {
				t.Errorf("Line = %d, want %d", pe.Line, tc.line)
			}
			if !strings.Contains(err.Error(), "line "+strconv.Itoa(tc.line)) {
				t.Errorf("Error %q should name line %d", err.Error(), tc.line)
			}
		})
	}
}

func TestNewBuildsModel(t *testing.T) {
	m, err := New("quad", quadModel)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", m.TriangleCount())
	}
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
	if m.BoundsMin != math3d.V3(0, 0, 0) || m.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v..%v, want (0,0,0)..(1,1,0)", m.BoundsMin, m.BoundsMax)
	}
	if c := m.Center(); c != math3d.V3(0.5, 0.5, 0) {
		t.Errorf("Center = %v, want (0.5, 0.5, 0)", c)
	}
	if s := m.Size(); s != math3d.V3(1, 1, 0) {
		t.Errorf("Size = %v, want (1, 1, 0)", s)
	}
}

func TestFromFacesRejectsBadIndex(t *testing.T) {
	raw := []RawVertex{{}, {}, {}}
	_, err := FromFaces("bad", raw, []Face{{0, 1, 3}})
	if !errors.Is(err, ErrIndexRange) {
		t.Errorf("Expected ErrIndexRange, got %v", err)
	}

	var fe *FaceError
	if !errors.As(err, &fe) || fe.Index != 3 || fe.Count != 3 {
		t.Errorf("Expected FaceError{Index: 3, Count: 3}, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m, err := New("quad", quadModel)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# quad\n") {
		t.Errorf("Expected name header, got %q", buf.String())
	}

	again, err := New("again", buf.String())
	if err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, buf.String())
	}
	if len(again.Vertices) != len(m.Vertices) {
		t.Fatalf("vertex count %d, want %d", len(again.Vertices), len(m.Vertices))
	}
	for i := range m.Vertices {
		if again.Vertices[i] != m.Vertices[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, again.Vertices[i], m.Vertices[i])
		}
	}
}

func TestEncodeKeepsPrecision(t *testing.T) {
	raw := []RawVertex{
		{Position: math3d.V3(0.1, 1.0/3.0, -2.5e-7), Normal: math3d.V3(0, 0, 1), Color: math3d.V3(0.25, 0.5, 0.75)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, raw, []Face{{0, 1, 2}}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, faces, err := ParseRaw(buf.String())
	if err != nil {
		t.Fatalf("ParseRaw failed: %v", err)
	}
	if got[0] != raw[0] {
		t.Errorf("vertex = %+v, want %+v", got[0], raw[0])
	}
	if faces[0] != (Face{0, 1, 2}) {
		t.Errorf("face = %v, want [0 1 2]", faces[0])
	}
}

func TestTriangleNormalAndCentroid(t *testing.T) {
	tri := Triangle{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}
	if n := tri.Normal(); n != math3d.V3(0, 0, 1) {
		t.Errorf("Normal = %v, want (0, 0, 1)", n)
	}
	if c := tri.Centroid(); !c.ApproxEqual(math3d.V3(1.0/3, 1.0/3, 0), 1e-12) {
		t.Errorf("Centroid = %v", c)
	}
}

func BenchmarkParseCube(b *testing.B) {
	data, err := builtinFS.ReadFile("builtin/cube.txt")
	if err != nil {
		b.Fatal(err)
	}
	text := string(data)

	for b.Loop() {
		_, _, _ = Parse(text)
	}
}
