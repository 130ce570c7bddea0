package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVertices is returned when a model declares no vertices.
	ErrNoVertices = errors.New("no vertices found in model")
	// ErrNoFaces is returned when a model declares no faces.
	ErrNoFaces = errors.New("no faces found in model")
	// ErrIndexRange is matched by every FaceError.
	ErrIndexRange = errors.New("face index out of range")
	// ErrAccessorRange is returned when a glTF primitive names an accessor
	// the document does not have.
	ErrAccessorRange = errors.New("gltf accessor index out of range")

	errShortVertex = errors.New("invalid vertex line: want 9 numbers")
	errShortFace   = errors.New("invalid face line: want 3 indices")
)

// ParseError reports the line of a text model that could not be parsed.
type ParseError struct {
	Line int    // 1-based
	Text string // trimmed line content
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FaceError reports a face that references a vertex that does not exist.
type FaceError struct {
	Face  int
	Index int
	Count int
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("face %d: vertex index %d out of range (have %d vertices)", e.Face, e.Index, e.Count)
}

func (e *FaceError) Is(target error) bool { return target == ErrIndexRange }
