package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/taigrr/facet/pkg/config"
	"github.com/taigrr/facet/pkg/input"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/session"
)

// runWindow shows s in a resizable desktop window. It blocks until the
// window closes.
func runWindow(cfg *config.Config, s *session.Session, log *zap.Logger) error {
	g := newWindowGame(cfg, s, log)

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.View.FPS)

	log.Info("window viewer started",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)
	err := ebiten.RunGame(g)
	log.Info("window viewer stopped")
	return err
}

type windowGame struct {
	s   *session.Session
	log *zap.Logger

	fb    *render.Framebuffer
	rast  *render.Rasterizer
	bg    render.Color
	light math3d.Vec3
	fbImg *ebiten.Image
	pix   []byte

	// last seen positions, so a lifted finger still has a place
	touches map[ebiten.TouchID]input.Point
	lastX   int
	lastY   int
}

func newWindowGame(cfg *config.Config, s *session.Session, log *zap.Logger) *windowGame {
	fb := render.NewFramebuffer(cfg.Window.Width, cfg.Window.Height)
	s.Resize(fb.Width, fb.Height)
	return &windowGame{
		s:       s,
		log:     log,
		fb:      fb,
		rast:    render.NewRasterizer(fb),
		bg:      render.FromVec3(cfg.BackgroundColor()),
		light:   cfg.LightDir(),
		touches: make(map[ebiten.TouchID]input.Point),
	}
}

func (g *windowGame) Update() error {
	if g.quitPressed() {
		return ebiten.Termination
	}
	g.updateKeys()
	g.updateMouse()
	g.updateTouch()
	g.updateWheel()
	g.s.Tick()
	return nil
}

func (g *windowGame) quitPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ)
}

func (g *windowGame) updateKeys() {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.s.Input.Key(string(r))
	}
}

func (g *windowGame) updateMouse() {
	d := g.s.Input
	x, y := ebiten.CursorPosition()
	p := input.Pointer{Point: input.Point{X: float64(x), Y: float64(y)}}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		d.Press(d.Mouse, p)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		d.Release(d.Mouse, p)
	case x < 0 || y < 0 || x >= g.fb.Width || y >= g.fb.Height:
		d.Cancel(d.Mouse)
	case x != g.lastX || y != g.lastY:
		d.Move(d.Mouse, p)
	}
	g.lastX, g.lastY = x, y
}

func (g *windowGame) updateTouch() {
	d := g.s.Input
	pressed := inpututil.AppendJustPressedTouchIDs(nil)
	released := inpututil.AppendJustReleasedTouchIDs(nil)

	ids := ebiten.AppendTouchIDs(nil)
	current := make([]input.Point, 0, len(ids))
	moved := false
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		pt := input.Point{X: float64(x), Y: float64(y)}
		if prev, ok := g.touches[id]; ok && prev != pt {
			moved = true
		}
		g.touches[id] = pt
		current = append(current, pt)
	}

	switch {
	case len(released) > 0:
		d.Release(d.Touch, input.Pointer{
			Point:   g.touches[released[0]],
			Touches: current,
			Changed: len(released),
		})
		for _, id := range released {
			delete(g.touches, id)
		}
	case len(pressed) > 0:
		d.Press(d.Touch, input.Pointer{
			Point:   g.touches[pressed[0]],
			Touches: current,
			Changed: len(pressed),
		})
	case moved:
		d.Move(d.Touch, input.Pointer{Point: current[0], Touches: current})
	}
}

func (g *windowGame) updateWheel() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		// ebiten reports scrolling up as positive, the opposite of a DOM
		// wheel delta.
		g.s.Input.Wheel(-dy * wheelDelta)
	}
}

// frame captures the session for one draw, lit from the configured light.
func (g *windowGame) frame() render.Frame {
	return render.NewFrame(g.s.State, g.s.Model(), g.fb.Aspect()).WithLight(g.light)
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	st := g.s.State
	f := g.frame()
	g.rast.Render(f, st.Triangles, g.bg)

	if n := g.fb.Width * g.fb.Height * 4; len(g.pix) != n {
		g.pix = make([]byte, n)
	}
	g.fb.CopyRGBA(g.pix)

	if g.fbImg == nil || g.fbImg.Bounds().Dx() != g.fb.Width || g.fbImg.Bounds().Dy() != g.fb.Height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(g.fb.Width, g.fb.Height)
	}
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)

	if g.s.Input.DebugVisible() {
		name := ""
		if m := g.s.Model(); m != nil {
			name = m.Name
		}
		ebitenutil.DebugPrint(screen, strings.Join(render.HUDLines(st.Snapshot(), name, f.Camera), "\n"))
	}
}

// Layout keeps one framebuffer pixel per window pixel and resizes the canvas
// with the window.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(outsideWidth, 1), max(outsideHeight, 1)
	if g.fb.Resize(w, h) {
		g.rast.Resize()
		g.s.Resize(w, h)
		g.log.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
	}
	return w, h
}
