package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig([]string{"myturn-devproxy"})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "http://localhost:3000", cfg.LocalOrigin())
}

func TestLoadConfigPositionals(t *testing.T) {
	cfg, err := loadConfig([]string{"myturn-devproxy", "192.168.1.20", "8080", "--watch", "-r"})
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.RenderPatches)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestLoadConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "devproxy.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("upstream: https://other.myturn.com/\nport: 4000\nscripts: [admin-footer]\n"), 0o644))

	cfg, err := loadConfig([]string{"myturn-devproxy", "localhost", "5000", "-c", filename})
	require.NoError(t, err)
	assert.Equal(t, "https://other.myturn.com", cfg.Upstream)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, []string{"admin-footer"}, cfg.Registry().Names())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig([]string{"myturn-devproxy", "-u", "capitolhill.myturn.com"})
	assert.Error(t, err)

	_, err = loadConfig([]string{"myturn-devproxy", "-c", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = loadConfig([]string{"myturn-devproxy", "localhost", "seventy"})
	assert.Error(t, err)
}

func TestPatchSet(t *testing.T) {
	patches, err := patchSet(config.Default(), nil)
	require.NoError(t, err)
	assert.Nil(t, patches)

	cfg := config.Merge(config.Default(), config.Config{RenderPatches: true})
	patches, err = patchSet(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, patches)
	assert.NotSame(t, patches(), patches())

	cfg.LocationsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = patchSet(cfg, nil)
	assert.Error(t, err)
}
