package render

import (
	"math"
	"strings"
	"testing"

	"github.com/taigrr/facet/pkg/camera"
	"github.com/taigrr/facet/pkg/interaction"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

var background = RGB(10, 10, 20)

// facing is one gray counter-clockwise triangle in the z=0 plane.
const facing = `v -1 -1 0  0 0 1  0.5 0.5 0.5
v 1 -1 0  0 0 1  0.5 0.5 0.5
v 0 1 0  0 0 1  0.5 0.5 0.5
f 0 1 2
`

// stackedBackFirst puts a red triangle in front of a blue one and lists the
// blue one first.
const stackedBackFirst = `v -1 -1 0  0 0 1  0 0 1
v 1 -1 0  0 0 1  0 0 1
v 0 1 0  0 0 1  0 0 1
v -1 -1 0.5  0 0 1  1 0 0
v 1 -1 0.5  0 0 1  1 0 0
v 0 1 0.5  0 0 1  1 0 0
f 0 1 2
f 3 4 5
`

func mustModel(t testing.TB, text string) *models.Model {
	t.Helper()
	m, err := models.New("test", text)
	if err != nil {
		t.Fatalf("models.New failed: %v", err)
	}
	return m
}

// renderState draws m face-on into a size x size framebuffer.
func renderState(t testing.TB, m *models.Model, selected, size int) (*Rasterizer, *Framebuffer, Frame) {
	t.Helper()
	st := interaction.New(size, size)
	st.SetRotation(0, 0)
	st.ReplaceTriangles(m.Triangles)
	st.Select(selected)

	fb := NewFramebuffer(size, size)
	r := NewRasterizer(fb)
	f := NewFrame(st, m, fb.Aspect())
	r.Render(f, st.Triangles, background)
	return r, fb, f
}

func countDrawn(fb *Framebuffer) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != background {
			n++
		}
	}
	return n
}

func TestNewFrame(t *testing.T) {
	st := interaction.New(200, 100)
	st.Select(-1)
	m := mustModel(t, facing)
	f := NewFrame(st, m, 2)

	cam := camera.New(2)
	want := st.ModelMatrix().Mul(cam.ViewMatrix()).Mul(cam.ProjectionMatrix())
	if !f.MVP.ApproxEqual(want, 1e-12) {
		t.Errorf("MVP = %v, want model*view*proj %v", f.MVP, want)
	}
	if !f.Model.ApproxEqual(st.ModelMatrix(), 0) {
		t.Error("frame model matrix differs from the picking model matrix")
	}
	if f.Camera != camera.DefaultPosition {
		t.Errorf("Camera = %v, want %v", f.Camera, camera.DefaultPosition)
	}
	if math.Abs(f.Light.Len()-1) > 1e-12 || f.Light.X != f.Light.Y || f.Light.Y != f.Light.Z {
		t.Errorf("Light = %v, want normalize(1, 1, 1)", f.Light)
	}
	if f.Selected != -1 || f.Mesh != m {
		t.Errorf("Selected = %d, Mesh = %p; want -1 and the model", f.Selected, f.Mesh)
	}
}

func TestFrameOverlay(t *testing.T) {
	tris := []models.Triangle{
		{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{math3d.V3(5, 5, 5), math3d.V3(6, 5, 5), math3d.V3(5, 6, 5)},
	}

	tests := []struct {
		name     string
		selected int
		ok       bool
	}{
		{"none", -1, false},
		{"first", 0, true},
		{"second", 1, true},
		{"out of range", 2, false},
		{"negative", -7, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines, ok := Frame{Selected: tc.selected}.Overlay(tris)
			if ok != tc.ok {
				t.Fatalf("Overlay ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				if lines != nil {
					t.Errorf("expected no lines, got %v", lines)
				}
				return
			}
			tri := tris[tc.selected]
			want := []math3d.Vec3{tri[0], tri[1], tri[1], tri[2], tri[2], tri[0]}
			if len(lines) != 6 {
				t.Fatalf("got %d vertices, want 6", len(lines))
			}
			for i := range want {
				if lines[i] != want[i] {
					t.Errorf("vertex %d = %v, want %v", i, lines[i], want[i])
				}
			}
		})
	}
}

func TestDrawModelFacing(t *testing.T) {
	m := mustModel(t, facing)
	r, fb, _ := renderState(t, m, -1, 100)

	if r.Stats.Drawn != 1 || r.Stats.Culled != 0 {
		t.Errorf("Stats = %+v, want 1 drawn", r.Stats)
	}
	if fb.GetPixel(50, 50) == background {
		t.Error("center pixel should be covered by the triangle")
	}
	if fb.GetPixel(2, 2) != background {
		t.Error("corner pixel should stay background")
	}

	// Gray lit by normalize(1,1,1) on a +Z normal: 0.5 * (0.3 + 0.7/sqrt(3))
	want := 0.5 * (Ambient + (1-Ambient)/math.Sqrt(3)) * 255
	if got := float64(fb.GetPixel(50, 50).R); math.Abs(got-want) > 1.5 {
		t.Errorf("center red = %v, want about %v", got, want)
	}
}

func TestFrameWithLight(t *testing.T) {
	m := mustModel(t, facing)
	st := interaction.New(100, 100)
	st.SetRotation(0, 0)
	st.ReplaceTriangles(m.Triangles)

	fb := NewFramebuffer(100, 100)
	r := NewRasterizer(fb)

	r.Render(NewFrame(st, m, 1), st.Triangles, background)
	oblique := fb.GetPixel(50, 50)

	f := NewFrame(st, m, 1).WithLight(math3d.V3(0, 0, 5))
	if f.Light != math3d.V3(0, 0, 1) {
		t.Fatalf("Light = %v, want the normalized direction", f.Light)
	}
	r.Render(f, st.Triangles, background)
	head := fb.GetPixel(50, 50)

	// Lit head-on the gray face gets full intensity: 0.5 * 255.
	if head.R != 127 || head == oblique {
		t.Errorf("head-on center = %v, oblique center = %v; want 127 and a change", head, oblique)
	}

	if got := f.WithLight(math3d.Zero3()).Light; got != f.Light {
		t.Errorf("zero direction changed the light to %v", got)
	}
}

func TestDrawModelBackfaceCulling(t *testing.T) {
	clockwise := strings.Replace(facing, "f 0 1 2", "f 0 2 1", 1)
	m := mustModel(t, clockwise)

	r, fb, f := renderState(t, m, -1, 100)
	if r.Stats.Culled != 1 || r.Stats.Drawn != 0 {
		t.Errorf("Stats = %+v, want 1 culled", r.Stats)
	}
	if n := countDrawn(fb); n != 0 {
		t.Errorf("back-facing triangle drew %d pixels", n)
	}

	r.CullBackfaces = false
	r.Render(f, m.Triangles, background)
	if r.Stats.Drawn != 1 {
		t.Errorf("with culling off Stats = %+v, want 1 drawn", r.Stats)
	}
	if fb.GetPixel(50, 50) == background {
		t.Error("with culling off the back face should be drawn")
	}
}

func TestDrawModelDepth(t *testing.T) {
	frontFirst := strings.Replace(stackedBackFirst, "f 0 1 2\nf 3 4 5", "f 3 4 5\nf 0 1 2", 1)

	for name, text := range map[string]string{"back first": stackedBackFirst, "front first": frontFirst} {
		t.Run(name, func(t *testing.T) {
			_, fb, _ := renderState(t, mustModel(t, text), -1, 100)
			c := fb.GetPixel(50, 50)
			if c.R == 0 || c.B != 0 {
				t.Errorf("center = %v, want the nearer red triangle", c)
			}
		})
	}
}

func TestDrawModelHighlight(t *testing.T) {
	m := mustModel(t, facing)
	_, plainFB, _ := renderState(t, m, -1, 100)
	_, selFB, _ := renderState(t, m, 0, 100)

	plain := plainFB.GetPixel(50, 50)
	sel := selFB.GetPixel(50, 50)
	if sel.R <= plain.R || sel.B >= plain.B {
		t.Errorf("selected center %v should be tinted toward %v from %v", sel, ColorHighlight, plain)
	}
}

func TestDrawOverlay(t *testing.T) {
	m := mustModel(t, facing)

	r, fb, f := renderState(t, m, -1, 100)
	if r.DrawOverlay(f, m.Triangles, ColorWhite) {
		t.Error("overlay with no selection should report false")
	}
	for _, p := range fb.Pixels {
		if p == ColorWhite {
			t.Fatal("no selection should draw no outline")
		}
	}

	_, fb, f = renderState(t, m, 0, 100)
	x, y, _, ok := camera.New(1).WorldToScreen(m.Triangles[0][0], fb.Width, fb.Height)
	if !ok {
		t.Fatal("first vertex should be on screen")
	}
	found := false
	for dy := -1; dy <= 1 && !found; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if fb.GetPixel(int(x)+dx, int(y)+dy) == ColorWhite {
				found = true
				break
			}
		}
	}
	if !found {
		t.Errorf("expected outline near the first vertex at (%.1f, %.1f)", x, y)
	}
	if f.Selected != 0 {
		t.Errorf("Selected = %d, want 0", f.Selected)
	}
}

func TestDrawLineListSkipsBehindCamera(t *testing.T) {
	fb := NewFramebuffer(50, 50)
	fb.Clear(background)
	r := NewRasterizer(fb)
	r.ClearDepth()

	mvp := camera.New(1).ViewProjectionMatrix()
	lines := []math3d.Vec3{
		math3d.V3(-0.5, 0, 0), math3d.V3(0.5, 0, 0),
		math3d.V3(0, 0, 4), math3d.V3(0, 0, 10),
		math3d.V3(10, 0, 0), math3d.V3(20, 0, 0),
	}
	if n := r.DrawLineList(mvp, lines, ColorWhite); n != 1 {
		t.Errorf("drew %d segments, want 1", n)
	}
}

func TestDrawLineListClipsNearEye(t *testing.T) {
	tests := []struct {
		name string
		end  math3d.Vec3
	}{
		{"just in front of the eye", math3d.V3(0.5, 0, 3-1e-9)},
		{"slightly further", math3d.V3(0.5, 0, 3-1e-7)},
		{"behind the eye", math3d.V3(0.5, 0, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(80, 48)
			fb.Clear(background)
			r := NewRasterizer(fb)
			r.ClearDepth()

			mvp := camera.New(fb.Aspect()).ViewProjectionMatrix()
			n := r.DrawLineList(mvp, []math3d.Vec3{math3d.V3(0, 0, 0), tc.end}, ColorWhite)
			if n != 1 {
				t.Fatalf("drew %d segments, want 1", n)
			}
			if fb.GetPixel(40, 24) != ColorWhite {
				t.Error("segment should start at the canvas center")
			}
			if fb.GetPixel(79, 24) != ColorWhite {
				t.Error("segment should be clipped at the right edge")
			}
			if drawn := countDrawn(fb); drawn > 41 {
				t.Errorf("drew %d pixels, want at most one row to the edge", drawn)
			}
		})
	}
}

func TestClipRect(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		ok             bool
		t0, t1         float64
	}{
		{"inside", 1, 1, 5, 5, true, 0, 1},
		{"crosses right edge", 5, 5, 15, 5, true, 0, 0.5},
		{"enters from left", -10, 5, 10, 5, true, 0.5, 1},
		{"outside", 20, 20, 30, 30, false, 0, 0},
		{"vertical outside", -1, 0, -1, 9, false, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t0, t1, ok := clipRect(tc.x0, tc.y0, tc.x1, tc.y1, 10, 10)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && (math.Abs(t0-tc.t0) > 1e-12 || math.Abs(t1-tc.t1) > 1e-12) {
				t.Errorf("range = [%v, %v], want [%v, %v]", t0, t1, tc.t0, tc.t1)
			}
		})
	}
}

func TestDrawModelOutsideFrustum(t *testing.T) {
	m := mustModel(t, facing)
	fb := NewFramebuffer(40, 40)
	r := NewRasterizer(fb)

	cam := camera.New(1)
	behind := math3d.Translate(math3d.V3(0, 0, 10))
	f := Frame{
		Model: behind,
		MVP:   behind.Mul(cam.ViewProjectionMatrix()),
		Light: DefaultLight,
		Mesh:  m,
	}
	r.Render(f, m.Triangles, background)
	if !r.Stats.Hidden || r.Stats.Faces != 0 {
		t.Errorf("Stats = %+v, want the whole model culled", r.Stats)
	}
	if n := countDrawn(fb); n != 0 {
		t.Errorf("culled model drew %d pixels", n)
	}
}

func TestDrawModelNil(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	r := NewRasterizer(fb)
	r.Render(Frame{Selected: -1}, nil, background)
	if n := countDrawn(fb); n != 0 {
		t.Errorf("nil mesh drew %d pixels", n)
	}
}

func TestBuiltinCubeRenders(t *testing.T) {
	m, err := models.Builtin("cube")
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	st := interaction.New(80, 80)
	st.ReplaceTriangles(m.Triangles)
	fb := NewFramebuffer(80, 80)
	r := NewRasterizer(fb)
	r.Render(NewFrame(st, m, fb.Aspect()), st.Triangles, background)

	if r.Stats.Faces != 12 {
		t.Errorf("Faces = %d, want 12", r.Stats.Faces)
	}
	// A closed cube shows at most three sides.
	if r.Stats.Drawn == 0 || r.Stats.Drawn > 6 {
		t.Errorf("Drawn = %d, want 1-6 front triangles", r.Stats.Drawn)
	}
	if fb.GetPixel(40, 40) == background {
		t.Error("cube should cover the canvas center")
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	r := NewRasterizer(fb)
	r.ClearDepth()
	r.zbuffer[5*10+5] = 1.0
	if r.Depth(5, 5) != 1.0 {
		t.Error("Depth should read the stored value")
	}

	r.ClearDepth()
	if r.Depth(5, 5) != math.MaxFloat64 {
		t.Error("ClearDepth should reset to MaxFloat64")
	}
	if r.Depth(-1, 0) != math.MaxFloat64 || r.Depth(100, 0) != math.MaxFloat64 {
		t.Error("out of bounds Depth should return MaxFloat64")
	}

	fb.Resize(20, 5)
	r.ClearDepth()
	if len(r.zbuffer) != 100 {
		t.Errorf("zbuffer len = %d after resize, want 100", len(r.zbuffer))
	}
}

func TestEdgeCoeffs(t *testing.T) {
	A, B, C := edgeCoeffs(0, 0, 10, 0)
	tests := []struct {
		x, y float64
		sign int
	}{
		{5, 5, 1},
		{5, -5, -1},
		{3, 0, 0},
	}
	for _, tc := range tests {
		got := A*tc.x + B*tc.y + C
		if (tc.sign > 0 && got <= 0) || (tc.sign < 0 && got >= 0) || (tc.sign == 0 && got != 0) {
			t.Errorf("edge(%v, %v) = %v, want sign %d", tc.x, tc.y, got, tc.sign)
		}
	}
}

func BenchmarkRenderCube(b *testing.B) {
	m, err := models.Builtin("cube")
	if err != nil {
		b.Fatalf("Builtin failed: %v", err)
	}
	st := interaction.New(160, 96)
	st.ReplaceTriangles(m.Triangles)
	fb := NewFramebuffer(160, 96)
	r := NewRasterizer(fb)
	f := NewFrame(st, m, fb.Aspect())

	for b.Loop() {
		r.Render(f, st.Triangles, background)
	}
}
