package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "http://localhost:3000", c.LocalOrigin())
	assert.Equal(t, ":3000", c.ListenAddr())
	assert.Equal(t, "capitolhill.myturn.com", c.UpstreamHost())
	assert.Equal(t, []string{"public-footer", "admin-footer"}, c.Registry().Names())
}

func TestMergeOverridesNonZero(t *testing.T) {
	cli := Config{Host: "192.168.1.20", Port: 8080, Watch: true}
	c := Merge(Default(), cli)

	assert.Equal(t, "http://192.168.1.20:8080", c.LocalOrigin())
	assert.Equal(t, DefaultUpstream, c.Upstream)
	assert.Equal(t, DefaultScriptsDir, c.ScriptsDir)
	assert.True(t, c.Watch)
	assert.False(t, c.RenderPatches)
}

func TestMergeOrder(t *testing.T) {
	file := Config{Port: 4000, Upstream: "https://example.myturn.com/"}
	cli := Config{Port: 5000}
	c := Merge(Default(), file, cli)

	assert.Equal(t, 5000, c.Port)
	assert.Equal(t, "https://example.myturn.com", c.Upstream)
}

func TestMergeDoesNotAliasScripts(t *testing.T) {
	base := Default()
	c := Merge(base)
	c.Scripts[0] = "changed"
	assert.Equal(t, "public-footer", base.Scripts[0])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "devproxy.yaml")
	err := os.WriteFile(filename, []byte(`
port: 3100
scripts_dir: ./scripts
scripts:
  - admin-footer
render_patches: true
`), 0o644)
	require.NoError(t, err)

	file, err := LoadFile(filename)
	require.NoError(t, err)

	c := Merge(Default(), file)
	assert.Equal(t, 3100, c.Port)
	assert.Equal(t, "./scripts", c.ScriptsDir)
	assert.Equal(t, []string{"admin-footer"}, c.Registry().Names())
	assert.True(t, c.RenderPatches)
	assert.Equal(t, DefaultHost, c.Host)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	filename := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("port: [1, 2"), 0o644))
	_, err = LoadFile(filename)
	assert.ErrorContains(t, err, "syntax error")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.Host = "" }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"relative upstream", func(c *Config) { c.Upstream = "capitolhill.myturn.com" }},
		{"ftp upstream", func(c *Config) { c.Upstream = "ftp://capitolhill.myturn.com" }},
		{"no scripts", func(c *Config) { c.Scripts = []string{" "} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
