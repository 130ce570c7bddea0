package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"
)

// Command types accepted by Apply.
const (
	CmdLoadModel     = "load_model"
	CmdLoadBuiltin   = "load_builtin"
	CmdResetZoom     = "reset_zoom"
	CmdResetRotation = "reset_rotation"
	CmdSetRotation   = "set_rotation"
	CmdSetZoom       = "set_zoom"
)

// AckType is the Type of every Ack.
const AckType = "ack"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingField   = errors.New("missing field")
	ErrBadValue       = errors.New("value is not finite")
)

// Command is one remote-control request, encoded as a single JSON object
// per line.
type Command struct {
	Type  string   `json:"type"`
	Data  string   `json:"data,omitempty"`
	Name  string   `json:"name,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Scale *float64 `json:"scale,omitempty"`
}

// Ack answers a Command.
type Ack struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Apply runs one command against the session. A failed load keeps the
// previous model.
func (s *Session) Apply(cmd Command) Ack {
	err := s.apply(cmd)
	ack := Ack{Type: AckType, Command: cmd.Type, Success: err == nil}
	if err != nil {
		ack.Error = err.Error()
		s.log.Warn("command failed", zap.String("type", cmd.Type), zap.Error(err))
	}
	return ack
}

func (s *Session) apply(cmd Command) error {
	switch cmd.Type {
	case CmdLoadModel:
		name := cmd.Name
		if name == "" {
			name = "remote"
		}
		return s.LoadText(name, cmd.Data)
	case CmdLoadBuiltin:
		name := cmd.Name
		if name == "" {
			name = cmd.Data
		}
		return s.LoadBuiltin(name)
	case CmdResetZoom:
		s.State.ResetZoom()
	case CmdResetRotation:
		s.State.ResetRotation()
	case CmdSetRotation:
		if cmd.X == nil || cmd.Y == nil {
			return fmt.Errorf("%s: %w x/y", cmd.Type, ErrMissingField)
		}
		if !finite(*cmd.X) || !finite(*cmd.Y) {
			return fmt.Errorf("%s: %w", cmd.Type, ErrBadValue)
		}
		s.State.SetRotation(*cmd.X, *cmd.Y)
	case CmdSetZoom:
		if cmd.Scale == nil {
			return fmt.Errorf("%s: %w scale", cmd.Type, ErrMissingField)
		}
		if !finite(*cmd.Scale) {
			return fmt.Errorf("%s: %w", cmd.Type, ErrBadValue)
		}
		s.State.SetScale(*cmd.Scale)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// maxLine bounds one command line; load_model carries a whole model inline.
const maxLine = 16 << 20

// ReadCommands applies JSON command lines from r until EOF or ctx is done.
// Each line gets an ack written to w when w is non-nil. Blank lines are
// skipped and malformed lines are acked as failures without stopping.
//
// Lines are read on a separate goroutine so that cancelling ctx returns
// promptly even while r is blocked, as stdin is. That goroutine exits once
// the pending read on r returns.
func (s *Session) ReadCommands(ctx context.Context, r io.Reader, w io.Writer) error {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := scanLines(r, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("read commands: %w", err)
				}
				return nil
			}
			line = l
		}

		var ack Ack
		var cmd Command
		if err := json.Unmarshal(line, &cmd); err != nil {
			s.log.Warn("bad command line", zap.Error(err))
			ack = Ack{Type: AckType, Error: fmt.Sprintf("decode command: %v", err)}
		} else {
			ack = s.Apply(cmd)
		}

		if enc != nil {
			if err := enc.Encode(ack); err != nil {
				return fmt.Errorf("write ack: %w", err)
			}
		}
	}
}

// scanLines reads non-blank lines from r on its own goroutine until EOF, a
// read error, or done closing. The lines channel is closed when reading
// stops, after which readErr yields the error (nil at EOF).
func scanLines(r io.Reader, done <-chan struct{}) (lines <-chan []byte, readErr <-chan error) {
	out := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			select {
			case out <- bytes.Clone(line):
			case <-done:
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return out, errc
}
