package render

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Lighting and highlight tuning.
const (
	Ambient        = 0.3 // light every face receives regardless of orientation
	HighlightBlend = 0.5 // how far the selected face moves toward the highlight color
)

// Rasterizer fills triangles into a framebuffer with a depth test and
// Gouraud shading.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)

	Highlight     Color // tint for the selected face
	CullBackfaces bool  // skip triangles wound clockwise on screen
	Stats         Stats
}

// Stats counts what the last DrawModel call did.
type Stats struct {
	Faces  int // faces considered
	Culled int // faces skipped: back-facing, behind the camera, or degenerate
	Drawn  int // faces rasterized
	Hidden bool // whole model outside the view frustum
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		fb:            fb,
		Highlight:     ColorHighlight,
		CullBackfaces: true,
	}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	if n := r.fb.Width * r.fb.Height; len(r.zbuffer) != n {
		r.zbuffer = make([]float64, n)
	}
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	r.Resize()
	for i := range r.zbuffer {
		r.zbuffer[i] = math.MaxFloat64
	}
}

// Depth returns the stored depth at (x, y), MaxFloat64 where nothing was
// drawn or out of bounds.
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.fb.Width+x]
}

// Render clears to bg, draws the model, and outlines the selected face in
// white on top.
func (r *Rasterizer) Render(f Frame, tris []models.Triangle, bg Color) {
	r.fb.Clear(bg)
	r.ClearDepth()
	r.DrawModel(f)
	r.DrawOverlay(f, tris, ColorWhite)
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y    float64 // Screen coordinates
	Z       float64 // NDC depth
	R, G, B float64 // Lit color, 0-255
}

// DrawModel rasterizes every face of f.Mesh, lit from f.Light, with the
// selected face tinted toward the highlight color.
func (r *Rasterizer) DrawModel(f Frame) {
	r.Stats = Stats{}
	m := f.Mesh
	if m == nil || len(m.Vertices) < 3 {
		return
	}

	bounds := AABB{Min: m.BoundsMin, Max: m.BoundsMax}
	if !NewFrustumFromMatrix(f.MVP).IntersectAABB(bounds) {
		r.Stats.Hidden = true
		return
	}

	light := f.Light.Normalize()
	var sv [3]screenVertex
	for face := range len(m.Vertices) / 3 {
		r.Stats.Faces++
		visible := true
		for i := range 3 {
			v := m.Vertices[face*3+i]
			clip := f.MVP.MulVec4(math3d.V4FromV3(v.Position, 1))
			if clip.W <= 0 {
				visible = false
				break
			}
			invW := 1 / clip.W
			sv[i].X = (clip.X*invW + 1) * 0.5 * float64(r.fb.Width)
			sv[i].Y = (1 - clip.Y*invW) * 0.5 * float64(r.fb.Height)
			sv[i].Z = clip.Z * invW

			// Per-vertex lighting
			n := f.Model.TransformDir(v.Normal).Normalize()
			intensity := Ambient + (1-Ambient)*math.Max(0, n.Dot(light))
			c := v.Color.Max(math3d.Zero3()).Min(math3d.V3(1, 1, 1)).Scale(intensity)
			if v.FaceID == f.Selected {
				h := math3d.V3(float64(r.Highlight.R), float64(r.Highlight.G), float64(r.Highlight.B)).Scale(1.0 / 255)
				c = c.Lerp(h, HighlightBlend)
			}
			sv[i].R, sv[i].G, sv[i].B = c.X*255, c.Y*255, c.Z*255
		}
		if !visible || !r.fillTriangle(&sv) {
			r.Stats.Culled++
			continue
		}
		r.Stats.Drawn++
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, which is
// twice the signed area of the triangle (x0,y0), (x1,y1), (x,y).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// fillTriangle rasterizes with incremental edge functions. It reports false
// when the triangle was culled or has no area.
func (r *Rasterizer) fillTriangle(sv *[3]screenVertex) bool {
	// Twice the signed screen area. Y points down, so a counter-clockwise
	// triangle in NDC has a negative area here.
	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 {
		return false
	}
	if area2 > 0 && r.CullBackfaces {
		return false
	}
	invArea := 1.0 / area2

	// Bounding box (clamped to screen)
	minX := int(math.Max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return true
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	width := r.fb.Width
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			bc0 := w0 * invArea
			bc1 := w1 * invArea
			bc2 := w2 * invArea

			if bc0 >= 0 && bc1 >= 0 && bc2 >= 0 {
				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z
				idx := rowOffset + x
				if z < r.zbuffer[idx] {
					r.zbuffer[idx] = z
					r.fb.Pixels[idx] = RGB(
						to8(bc0*sv[0].R+bc1*sv[1].R+bc2*sv[2].R),
						to8(bc0*sv[0].G+bc1*sv[1].G+bc2*sv[2].G),
						to8(bc0*sv[0].B+bc1*sv[1].B+bc2*sv[2].B),
					)
				}
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
	return true
}

func to8(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, v)))
}
