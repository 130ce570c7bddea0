// Package session ties one interaction.State to the model it shows and the
// input dispatcher that drives it. A Session is owned by a single goroutine;
// frontends forward events to that goroutine instead of sharing it.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/facet/pkg/config"
	"github.com/taigrr/facet/pkg/input"
	"github.com/taigrr/facet/pkg/interaction"
	"github.com/taigrr/facet/pkg/models"
)

// Session is one viewer: view state, current model, and input routing.
type Session struct {
	State *interaction.State
	Input *input.Dispatcher

	model *models.Model
	log   *zap.Logger
}

// New creates an empty session sized to the configured window. A nil logger
// discards output.
func New(cfg *config.Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	st := interaction.New(cfg.Window.Width, cfg.Window.Height)
	s := &Session{
		State: st,
		Input: input.NewDispatcher(st, cfg.InputTuning()),
		log:   log,
	}
	s.Input.SetDebugVisible(cfg.View.ShowHUD)
	s.Input.OnPick = s.logPick
	return s
}

// Model returns the model on screen, or nil before the first load.
func (s *Session) Model() *models.Model {
	return s.model
}

// Show makes m the displayed model and clears the selection.
func (s *Session) Show(m *models.Model) {
	s.model = m
	s.State.ReplaceTriangles(m.Triangles)
	s.log.Info("model loaded",
		zap.String("name", m.Name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.TriangleCount()),
	)
}

// LoadText parses a text model and shows it. On error the previous model
// stays active.
func (s *Session) LoadText(name, text string) error {
	m, err := models.New(name, text)
	if err != nil {
		return s.loadFailed(name, err)
	}
	s.Show(m)
	return nil
}

// LoadFile loads a text or glTF model from disk and shows it.
func (s *Session) LoadFile(path string) error {
	m, err := models.Load(path)
	if err != nil {
		return s.loadFailed(path, err)
	}
	s.Show(m)
	return nil
}

// LoadBuiltin shows one of the embedded models.
func (s *Session) LoadBuiltin(name string) error {
	m, err := models.Builtin(name)
	if err != nil {
		return s.loadFailed(name, err)
	}
	s.Show(m)
	return nil
}

// Open resolves ref as a built-in name or a path and shows it.
func (s *Session) Open(ref string) error {
	m, err := models.Resolve(ref)
	if err != nil {
		return s.loadFailed(ref, err)
	}
	s.Show(m)
	return nil
}

func (s *Session) loadFailed(name string, err error) error {
	s.log.Warn("model load failed", zap.String("name", name), zap.Error(err))
	return fmt.Errorf("load %s: %w", name, err)
}

func (s *Session) logPick(face int) {
	if face == interaction.NoSelection {
		s.log.Debug("pick missed")
		return
	}
	s.log.Info("face picked", zap.Int("face", face))
}

// Tick advances per-frame animation and reports whether the view changed.
func (s *Session) Tick() bool {
	return s.State.Step()
}

// Resize updates the canvas size used for picking and projection.
func (s *Session) Resize(width, height int) {
	if width == s.State.CanvasWidth && height == s.State.CanvasHeight {
		return
	}
	s.State.Resize(width, height)
	s.log.Debug("canvas resized", zap.Int("width", width), zap.Int("height", height))
}
