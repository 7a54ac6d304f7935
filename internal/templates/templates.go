// Package templates provides the static files of an agent export: the intent
// and entity documents every generated artifact starts from, and the files
// that are copied into the export as they are.
package templates

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
)

//go:embed files/*.json
var embedded embed.FS

const (
	intentFile = "intent.json"
	entityFile = "entity.json"
)

// Set is a directory of template files.
type Set struct {
	fsys fs.FS
}

// Default returns the templates compiled into the binary.
func Default() *Set {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(fmt.Errorf("templates: embedded directory missing: %w", err))
	}
	return &Set{fsys: sub}
}

// Dir returns a template set read from a directory on disk.
func Dir(dir string) *Set {
	return &Set{fsys: os.DirFS(dir)}
}

// FromFS wraps an arbitrary file system.
func FromFS(fsys fs.FS) *Set {
	return &Set{fsys: fsys}
}

// Intent returns the intent template document.
func (s *Set) Intent() ([]byte, error) {
	return s.read(intentFile)
}

// Entity returns the entity template document.
func (s *Set) Entity() ([]byte, error) {
	return s.read(entityFile)
}

func (s *Set) read(name string) ([]byte, error) {
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, exporterr.New(exporterr.IO, "read template "+name, err)
	}
	return b, nil
}

// Static returns the names of the files copied verbatim into an export:
// every top-level file except the intent and entity templates.
func (s *Set) Static() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, exporterr.New(exporterr.IO, "list templates", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "intent") || strings.HasPrefix(e.Name(), "entity") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// CopyStatic copies the static files into dir and returns their names.
func (s *Set) CopyStatic(ctx context.Context, dir string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	names, err := s.Static()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := s.copyFile(name, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		logger.Debug("Copied template file.", "file", name)
	}
	return names, nil
}

func (s *Set) copyFile(name, dst string) error {
	src, err := s.fsys.Open(path.Clean(name))
	if err != nil {
		return exporterr.New(exporterr.IO, "open template "+name, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return exporterr.New(exporterr.IO, "create "+dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return exporterr.New(exporterr.IO, "copy "+dst, err)
	}
	if err := out.Close(); err != nil {
		return exporterr.New(exporterr.IO, "close "+dst, err)
	}
	return nil
}
