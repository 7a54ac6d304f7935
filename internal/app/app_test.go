package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/specialistvlad/flowexport/internal/config"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()
	project := testutil.NewProject(t, "facebook").
		Text("m0", "Start", "Hello").
		Text("m1", "Menu", "What would you like?").
		Root("m0").
		Edge("m0", "m1", "i1").
		Intent("i1", "greet", "2020-02-02 10:00:00", testutil.Utterance("hi")).
		Entity("e1", "food", `[{"value":"pizza"}]`).
		Build()
	data, err := json.Marshal(project)
	require.NoError(t, err)
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func noEnv(string) string { return "" }

// setupAppTest creates an app writing debug logs into a buffer.
func setupAppTest(t *testing.T, cfg *Config, opts ...Option) (*App, *testutil.SafeBuffer) {
	t.Helper()
	logs := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	a, err := NewApp(logs, cfg, nil, append([]Option{WithGetenv(noEnv)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if os.Getenv("FLOWEXPORT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}

func TestRun_SnapshotToArchive(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "output")
	a, logs := setupAppTest(t, &Config{
		SnapshotPath: writeSnapshot(t, dir),
		OutputDir:    out,
		Archive:      true,
	})

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out+".zip", res.Archive)
	assert.Equal(t, 1, res.Report.Intents)
	assert.Equal(t, "facebook", res.Report.Platform)
	assert.NoDirExists(t, out)

	zr, err := zip.OpenReader(res.Archive)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"agent.json",
		"package.json",
		"intents/greet_menu.json",
		"intents/greet_menu_usersays_en.json",
		"entities/food.json",
		"entities/food_entries_en.json",
	}, names)
	assert.Contains(t, logs.String(), "Export written.")
}

func TestNewApp_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "export.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
platform   = "slack"
output_dir = "from-file"
workers    = 3
source "file" { path = "file-snapshot.json" }
`), 0o644))

	a, _ := setupAppTest(t, &Config{ConfigPath: cfgPath, Platform: "skype", SnapshotPath: "cli.json"})
	s := a.Settings()
	assert.Equal(t, "skype", s.Platform, "flags override the file")
	assert.Equal(t, "from-file", s.OutputDir)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, &config.Source{Type: config.SourceFile, Path: "cli.json"}, s.Source)
}

func TestNewApp_OutputDirFromEnvironment(t *testing.T) {
	a, _ := setupAppTest(t, &Config{}, WithGetenv(func(k string) string {
		if k == "OUTPUT_DIR" {
			return "env-output"
		}
		return ""
	}))
	assert.Equal(t, "env-output", a.Settings().OutputDir)

	b, _ := setupAppTest(t, &Config{})
	assert.Equal(t, "output", b.Settings().OutputDir)
}

func TestNewApp_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`platform = `), 0o644))
	_, err := NewApp(&testutil.SafeBuffer{}, &Config{ConfigPath: path}, config.NewLoader())
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrConfig)
}

func TestRun_MissingCredentials(t *testing.T) {
	a, _ := setupAppTest(t, &Config{OutputDir: filepath.Join(t.TempDir(), "out")})
	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrConfig)
}

func TestRun_ErrorReport(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "err.json")
	cfgPath := filepath.Join(dir, "export.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`error_report = "`+filepath.ToSlash(report)+`"`), 0o644))

	a, _ := setupAppTest(t, &Config{ConfigPath: cfgPath, SnapshotPath: filepath.Join(dir, "missing.json")})
	_, err := a.Run(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "IOError", doc["kind"])
	assert.Contains(t, doc["message"], "read snapshot")
}

func TestNewApp_PublishRequiresArchive(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "export.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`publish "s3" { bucket = "b" }`), 0o644))
	out := filepath.Join(dir, "out")

	_, err := NewApp(&testutil.SafeBuffer{}, &Config{
		ConfigPath:   cfgPath,
		SnapshotPath: writeSnapshot(t, dir),
		OutputDir:    out,
	}, config.NewLoader(), WithGetenv(noEnv))
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrConfig)
	assert.NoDirExists(t, out, "nothing is written for an invalid configuration")
}

func TestNewApp_ArchiveInsideOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "export.hcl")
	hcl := fmt.Sprintf("archive {\n  path = %q\n}\n", filepath.Join(out, "export.zip"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(hcl), 0o644))

	_, err := NewApp(&testutil.SafeBuffer{}, &Config{ConfigPath: cfgPath, OutputDir: out}, config.NewLoader(), WithGetenv(noEnv))
	require.Error(t, err)
	assert.ErrorIs(t, err, exporterr.ErrConfig)
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{Workers: -2})
	assert.Error(t, err)
	_, err = NewConfig(Config{ConfigPath: "a", SnapshotPath: "a"})
	assert.Error(t, err)
	cfg, err := NewConfig(Config{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}
