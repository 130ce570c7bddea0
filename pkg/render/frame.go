package render

import (
	"github.com/taigrr/facet/pkg/camera"
	"github.com/taigrr/facet/pkg/interaction"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// DefaultLight is the direction toward the light, normalize(1, 1, 1).
var DefaultLight = math3d.V3(1, 1, 1).Normalize()

// Frame is everything one draw needs, captured from the session at the
// start of the frame.
type Frame struct {
	Model      math3d.Mat4 // scale, then rotate X, then rotate Y
	View       math3d.Mat4
	Projection math3d.Mat4
	MVP        math3d.Mat4 // Model.Mul(View).Mul(Projection)

	Light    math3d.Vec3 // unit direction toward the light, world space
	Camera   math3d.Vec3 // eye position
	Selected int         // face to highlight, or -1

	Mesh *models.Model
}

// NewFrame builds the matrices for st and mesh at the given aspect ratio.
// The model matrix is the same one the picker tests rays against.
func NewFrame(st *interaction.State, mesh *models.Model, aspect float64) Frame {
	cam := camera.New(aspect)
	model := st.ModelMatrix()
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	return Frame{
		Model:      model,
		View:       view,
		Projection: proj,
		MVP:        model.Mul(view).Mul(proj),
		Light:      DefaultLight,
		Camera:     cam.Position,
		Selected:   st.SelectedFace,
		Mesh:       mesh,
	}
}

// Overlay returns the selected triangle's outline as a line list: the three
// edges v0-v1, v1-v2, v2-v0 in model space. It returns false when nothing
// valid is selected.
func (f Frame) Overlay(tris []models.Triangle) ([]math3d.Vec3, bool) {
	if f.Selected < 0 || f.Selected >= len(tris) {
		return nil, false
	}
	t := tris[f.Selected]
	return []math3d.Vec3{
		t[0], t[1],
		t[1], t[2],
		t[2], t[0],
	}, true
}

// WithLight returns f lit from direction dir. A zero direction keeps the
// current light.
func (f Frame) WithLight(dir math3d.Vec3) Frame {
	if dir.Len() == 0 {
		return f
	}
	f.Light = dir.Normalize()
	return f
}
