package render

import (
	"fmt"
	"math"

	"github.com/taigrr/facet/pkg/interaction"
	"github.com/taigrr/facet/pkg/math3d"
)

const rule = "───────────────────"

// Controls lists the key and pointer bindings shown in the debug panel.
var Controls = [][2]string{
	{"/", "Toggle debug panel"},
	{"Drag", "Rotate model"},
	{"Scroll", "Zoom in/out"},
	{"Pinch", "Zoom (touch)"},
	{"Click", "Select face"},
	{"r", "Reset view"},
	{"+ -", "Zoom"},
	{"q Esc", "Quit"},
}

// HUDLines formats the debug panel for a snapshot of the view.
func HUDLines(s interaction.Snapshot, name string, cam math3d.Vec3) []string {
	selected := "none"
	if s.SelectedFace >= 0 {
		selected = fmt.Sprintf("face %d", s.SelectedFace)
	}

	lines := []string{
		"Debug Panel",
		rule,
		fmt.Sprintf("Model: %s (%d faces)", name, s.Faces),
		fmt.Sprintf("Rotation X: %.1f°", degrees(s.RotationX)),
		fmt.Sprintf("Rotation Y: %.1f°", degrees(s.RotationY)),
		fmt.Sprintf("Zoom: %.2fx", s.Scale),
		fmt.Sprintf("Camera: (%g, %g, %g)", cam.X, cam.Y, cam.Z),
		fmt.Sprintf("Selected: %s", selected),
		"",
		"Controls",
		rule,
	}
	for _, c := range Controls {
		lines = append(lines, fmt.Sprintf("%-7s%s", c[0], c[1]))
	}
	return lines
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
