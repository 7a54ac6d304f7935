package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_JSON(t *testing.T) {
	project, err := (&File{Path: "testdata/project.json"}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "facebook", project.Platform)
	assert.Equal(t, []string{"m0"}, project.Board.RootMessages)
	require.Len(t, project.Board.Messages, 2)
	m0 := project.Board.Messages[0]
	assert.Equal(t, "Start", m0.Payload.NodeName)
	require.Len(t, m0.Next, 1)
	assert.Equal(t, "i1", m0.Next[0].Intent.Value)
	assert.JSONEq(t, `{"nodeName": "Menu", "text": "Pick one", "quick_replies": [{"title": "Pizza"}]}`,
		project.Board.Messages[1].Payload.Raw())

	require.Len(t, project.Intents, 1)
	assert.Equal(t, int64(1557426331000), project.Intents[0].UpdatedAt.EpochMillis())
	require.Len(t, project.Entities, 1)
	assert.JSONEq(t, `[{"value": "pizza", "synonyms": ["pie"]}]`, string(project.Entities[0].Data))
}

func TestFile_YAML(t *testing.T) {
	project, err := (&File{Path: "testdata/project.yaml"}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "google-actions", project.Platform)
	require.Len(t, project.Board.Messages, 2)
	assert.Equal(t, "i1", project.Board.Messages[0].Next[0].Intent.Value, "bare string intent tags are accepted")
	assert.Equal(t, "m0", project.Board.Messages[1].Previous[0].MessageID)

	require.Len(t, project.Intents, 1)
	in := project.Intents[0]
	assert.Equal(t, int64(1557426331000), in.UpdatedAt.EpochMillis())
	require.Len(t, in.Utterances, 1)
	require.Len(t, in.Utterances[0].Variables, 1)
	assert.Equal(t, 6, in.Utterances[0].Variables[0].StartIndex)
	assert.Empty(t, project.Entities)
}

func TestFile_FormatOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.txt")
	require.NoError(t, os.WriteFile(path, []byte("platform: slack\nboard: {messages: []}\n"), 0o644))

	project, err := (&File{Path: path, Format: "YAML"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slack", project.Platform)
}

func TestFile_Errors(t *testing.T) {
	_, err := (&File{Path: "testdata/missing.json"}).Load(context.Background())
	assert.ErrorIs(t, err, exporterr.ErrIO)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = (&File{Path: path}).Load(context.Background())
	assert.ErrorIs(t, err, exporterr.ErrIO)
}
