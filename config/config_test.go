package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Zero(t, cfg.Output.DPI)
	assert.GreaterOrEqual(t, cfg.Render.Jobs, 1)
	assert.Equal(t, "Go", cfg.Font.Family)
	assert.Equal(t, 10.0, cfg.Font.Size)
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
[output]
dir = "cards"
format = "PDF"
dpi = 150

[render]
jobs = 3

[font]
family = "Latin Modern"
`)
	t.Setenv("CARDCRAFT_RENDER_JOBS", "7")
	t.Setenv("CARDCRAFT_OUTPUT_DIR", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output.Dir, "env beats file")
	assert.Equal(t, "pdf", cfg.Output.Format)
	assert.Equal(t, 150.0, cfg.Output.DPI)
	assert.Equal(t, 7, cfg.Render.Jobs)
	assert.Equal(t, "Latin Modern", cfg.Font.Family, "file beats defaults")
	assert.Equal(t, 10.0, cfg.Font.Size)
}

func TestLoadExplicitPath(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, t.TempDir(), "[log]\nverbosity = 2\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Log.Verbosity)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeConfig(t, dir, "[output]\nformat = \"svg\"\n")
	_, err := Load("")
	assert.ErrorContains(t, err, "output.format")

	writeConfig(t, dir, "[font]\nsize = -1\n")
	_, err = Load("")
	assert.ErrorContains(t, err, "font.size")

	writeConfig(t, dir, "not toml ===")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidateClampsJobs(t *testing.T) {
	cfg := Config{Output: OutputConfig{Format: "png"}, Font: FontConfig{Size: 8}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Render.Jobs)
}
