package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/flow"
	"gopkg.in/yaml.v3"
)

// Snapshot formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// File reads a snapshot document from disk.
type File struct {
	Path string
	// Format is json or yaml. When empty it is taken from the file extension.
	Format string
}

// Load implements Source.
func (f *File) Load(ctx context.Context) (*flow.Project, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, exporterr.New(exporterr.IO, "read snapshot", err)
	}
	format := f.format()
	if format == FormatYAML {
		if data, err = yamlToJSON(data); err != nil {
			return nil, exporterr.New(exporterr.IO, "decode snapshot "+f.Path, err)
		}
	}

	var project flow.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, exporterr.New(exporterr.IO, "decode snapshot "+f.Path, err)
	}
	ctxlog.FromContext(ctx).Info("Loaded snapshot.",
		"path", f.Path,
		"format", format,
		"messages", len(project.Board.Messages),
		"intents", len(project.Intents),
		"entities", len(project.Entities),
	)
	return &project, nil
}

func (f *File) format() string {
	if f.Format != "" {
		return strings.ToLower(f.Format)
	}
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// yamlToJSON re-encodes a YAML document as JSON so that the snapshot goes
// through the same decoders whatever its format.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(jsonable(doc))
}

// jsonable converts the non-string map keys yaml.v3 may produce.
func jsonable(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = jsonable(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = jsonable(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = jsonable(e)
		}
		return t
	default:
		return v
	}
}
