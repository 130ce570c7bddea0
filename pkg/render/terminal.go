package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// CellSize returns the framebuffer size that fills a terminal of cols x rows:
// one pixel per column and two per row.
func CellSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// CellToPixel maps a terminal cell to the center of its upper pixel, in the
// canvas coordinates picking expects.
func CellToPixel(col, row int) (x, y float64) {
	return float64(col) + 0.5, float64(row*2) + 0.5
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row shows 2 framebuffer rows: ▀ with fg=top, bg=bottom
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			})
		}
	}
}

// DrawText writes one line of text starting at (col, row), clipped to the
// screen width.
func DrawText(scr uv.Screen, col, row int, text string, fg, bg color.RGBA) {
	width := scr.Bounds().Max.X
	for _, r := range text {
		if col >= width {
			return
		}
		scr.SetCell(col, row, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: rgbaToColor(fg), Bg: rgbaToColor(bg)},
		})
		col++
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
