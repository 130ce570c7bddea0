package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/facet/pkg/config"
	"github.com/taigrr/facet/pkg/input"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/session"
)

// wheelDelta is the wheel delta one terminal scroll notch stands for, in the
// same units as a browser wheel event.
const wheelDelta = 100

// runTerminal shows s in the terminal until the user quits or ctx ends.
// Terminal events are read on their own goroutine and handed to this one, so
// the session is only ever touched here.
func runTerminal(ctx context.Context, cfg *config.Config, s *session.Session, log *zap.Logger) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Any-event mouse tracking with SGR coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background()) //nolint:errcheck
	}()

	v := newTermView(cfg, s, cols, rows)
	log.Info("terminal viewer started", zap.Int("cols", cols), zap.Int("rows", rows))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.View.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("terminal viewer stopped")
			return nil

		case ev := <-events:
			if quit := v.handle(term, ev); quit {
				cancel()
			}

		case <-ticker.C:
			s.Tick()
			v.draw(term)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// termView is the terminal frontend's drawing state.
type termView struct {
	s     *session.Session
	fb    *render.Framebuffer
	rast  *render.Rasterizer
	bg    render.Color
	light math3d.Vec3

	cols, rows int
}

func newTermView(cfg *config.Config, s *session.Session, cols, rows int) *termView {
	w, h := render.CellSize(cols, rows)
	fb := render.NewFramebuffer(w, h)
	rast := render.NewRasterizer(fb)
	s.Resize(w, h)
	return &termView{
		s:     s,
		fb:    fb,
		rast:  rast,
		bg:    render.FromVec3(cfg.BackgroundColor()),
		light: cfg.LightDir(),
		cols:  cols,
		rows:  rows,
	}
}

// handle applies one terminal event and reports whether the viewer should
// quit.
func (v *termView) handle(term *uv.Terminal, ev uv.Event) bool {
	d := v.s.Input

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.cols, v.rows = ev.Width, ev.Height
		term.Erase()
		term.Resize(ev.Width, ev.Height)
		w, h := render.CellSize(ev.Width, ev.Height)
		v.fb.Resize(w, h)
		v.rast.Resize()
		v.s.Resize(w, h)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("q", "escape", "ctrl+c"):
			return true
		case ev.MatchString("up"):
			d.Key("+")
		case ev.MatchString("down"):
			d.Key("-")
		default:
			d.Key(ev.Text)
		}

	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft {
			d.Press(d.Mouse, cellPointer(ev.X, ev.Y))
		}

	case uv.MouseMotionEvent:
		d.Move(d.Mouse, cellPointer(ev.X, ev.Y))

	case uv.MouseReleaseEvent:
		d.Release(d.Mouse, cellPointer(ev.X, ev.Y))

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			d.Wheel(-wheelDelta)
		case uv.MouseWheelDown:
			d.Wheel(wheelDelta)
		}
	}
	return false
}

// cellPointer converts a terminal cell to a canvas pointer at the center of
// the cell's upper pixel.
func cellPointer(col, row int) input.Pointer {
	x, y := render.CellToPixel(col, row)
	return input.Pointer{Point: input.Point{X: x, Y: y}}
}

// frame captures the session for one draw, lit from the configured light.
func (v *termView) frame() render.Frame {
	return render.NewFrame(v.s.State, v.s.Model(), v.fb.Aspect()).WithLight(v.light)
}

func (v *termView) draw(scr uv.Screen) {
	st := v.s.State
	f := v.frame()
	v.rast.Render(f, st.Triangles, v.bg)

	area := uv.Rect(0, 0, v.cols, v.rows)
	v.fb.Draw(scr, area)

	if !v.s.Input.DebugVisible() {
		return
	}
	name := ""
	if m := v.s.Model(); m != nil {
		name = m.Name
	}
	for i, line := range render.HUDLines(st.Snapshot(), name, f.Camera) {
		if i >= v.rows {
			break
		}
		render.DrawText(scr, 1, i, line, render.ColorWhite, render.ColorBlack)
	}
}
