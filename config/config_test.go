package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
removal:
  engine: http
  http:
    url: http://rembg:7000/api/remove
sinks: [log, uploads]
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Removal.Engine)
	assert.Equal(t, "http://rembg:7000/api/remove", cfg.Removal.HTTP.URL)
	assert.Equal(t, []string{"log", "uploads"}, cfg.Sinks)

	assert.Equal(t, 400, cfg.Surface.Width)
	assert.Equal(t, 500, cfg.Surface.Height)
	assert.Equal(t, "#f0f0f0", cfg.Surface.FallbackFill)
	assert.Equal(t, "image/png", cfg.Removal.OutputFormat)
	assert.Equal(t, 1.0, cfg.Removal.Quality)
	assert.Equal(t, "isnet_fp16", cfg.Removal.Model)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("surface: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"log"}, cfg.Sinks)
	assert.Equal(t, "none", cfg.Removal.Engine)
	assert.Equal(t, 100, cfg.Sessions.MaxSessions)
}
