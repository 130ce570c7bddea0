package models

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.txt
var builtinFS embed.FS

// ErrUnknownBuiltin is returned by Builtin for names it does not ship.
var ErrUnknownBuiltin = errors.New("unknown built-in model")

// Builtin returns one of the models compiled into the binary.
func Builtin(name string) (*Model, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownBuiltin, name, strings.Join(BuiltinNames(), ", "))
		}
		return nil, err
	}
	return New(name, string(data))
}

// BuiltinNames lists the built-in models in sorted order.
func BuiltinNames() []string {
	matches, _ := fs.Glob(builtinFS, "builtin/*.txt")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".txt"))
	}
	sort.Strings(names)
	return names
}

// Load reads a model from disk, choosing the loader by file extension:
// .glb and .gltf go through the glTF importer, anything else is text.
func Load(file string) (*Model, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".glb", ".gltf":
		return LoadGLTF(file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return New(filepath.Base(file), string(data))
}

// Resolve loads a built-in model when ref names one, otherwise a file.
func Resolve(ref string) (*Model, error) {
	if ref == "" {
		return Builtin("cube")
	}
	if _, err := os.Stat(ref); err != nil {
		for _, name := range BuiltinNames() {
			if name == ref {
				return Builtin(name)
			}
		}
	}
	return Load(ref)
}
