package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(env ...string) *Loader {
	return &Loader{Environ: func() []string { return env }}
}

func TestParse_Full(t *testing.T) {
	src := `
platform      = "google-actions"
output_dir    = "build/agent"
workers       = 4
templates_dir = "templates"
error_report  = "err.json"

source "api" {
  token      = env.BOTMOCK_TOKEN
  team_id    = env.BOTMOCK_TEAM_ID
  project_id = "p1"
  board_id   = "b1"
  timeout    = "45s"
}

archive {
  path        = "build/agent.zip"
  keep_output = true
}

publish "s3" {
  bucket      = "exports"
  region      = "eu-west-1"
  prefix      = "agents/${env.STAGE}"
  max_retries = 5
  backoff     = "2s"
}
`
	l := testLoader("BOTMOCK_TOKEN=secret", "BOTMOCK_TEAM_ID=t1", "STAGE=prod")
	cfg, err := l.Parse(context.Background(), []byte(src), "export.hcl")
	require.NoError(t, err)

	assert.Equal(t, "google-actions", cfg.Platform)
	assert.Equal(t, "build/agent", cfg.OutputDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, "err.json", cfg.ErrorReport)

	assert.Equal(t, &Source{
		Type:      SourceAPI,
		Token:     "secret",
		TeamID:    "t1",
		ProjectID: "p1",
		BoardID:   "b1",
		Timeout:   45 * time.Second,
	}, cfg.Source)
	assert.Equal(t, &Archive{Path: "build/agent.zip", KeepDir: true}, cfg.Archive)
	assert.Equal(t, &Publish{
		Type:       PublishS3,
		Bucket:     "exports",
		Region:     "eu-west-1",
		Prefix:     "agents/prod",
		MaxRetries: 5,
		Backoff:    2 * time.Second,
	}, cfg.Publish)
}

func TestParse_Minimal(t *testing.T) {
	cfg, err := testLoader().Parse(context.Background(), []byte(`source "file" { path = "snapshot.json" }`), "min.hcl")
	require.NoError(t, err)
	assert.Empty(t, cfg.Platform)
	assert.Zero(t, cfg.Workers)
	assert.Nil(t, cfg.Archive)
	assert.Nil(t, cfg.Publish)
	require.NotNil(t, cfg.Source)
	assert.Equal(t, "snapshot.json", cfg.Source.Path)
}

func TestParse_PublishDefaultsRetries(t *testing.T) {
	cfg, err := testLoader().Parse(context.Background(), []byte(`publish "s3" { bucket = "b" }`), "p.hcl")
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Publish.MaxRetries, "unset retries are left to the publisher default")
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":           `platform = `,
		"unknown attr":     `colour = "red"`,
		"missing env":      `platform = env.NOPE`,
		"two sources":      "source \"file\" { path = \"a\" }\nsource \"file\" { path = \"b\" }",
		"unknown source":   `source "ftp" {}`,
		"file needs path":  `source "file" {}`,
		"bad timeout":      `source "api" { timeout = "soon" }`,
		"unknown publish":  `publish "gcs" { bucket = "b" }`,
		"publish bucket":   `publish "s3" {}`,
		"negative workers": `workers = -1`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := testLoader().Parse(context.Background(), []byte(src), "bad.hcl")
			require.Error(t, err)
			assert.ErrorIs(t, err, exporterr.ErrConfig)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`platform = "slack"`), 0o644))

	cfg, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "slack", cfg.Platform)

	_, err = testLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorIs(t, err, exporterr.ErrConfig)
}
