package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := New()
	require.NoError(t, Load(v, ""))

	cfg := From(v)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Empty(t, cfg.Server.Token)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "tada.db", cfg.Store.Path)
	assert.Equal(t, "http://localhost:3000", cfg.Client.URL)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "classic", cfg.UI.Theme)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tada.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
store:
  backend: JSON
  path: /tmp/todos.json
client:
  url: http://todo.example:8080/
  timeout: 2s
`), 0o644))

	v := New()
	require.NoError(t, Load(v, path))
	cfg := From(v)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Store.Backend)
	assert.Equal(t, "/tmp/todos.json", cfg.Store.Path)
	assert.Equal(t, "http://todo.example:8080", cfg.Client.URL)
	assert.Equal(t, 2*time.Second, cfg.Client.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v := New()
	err := Load(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	created, err := WriteDefault(filepath.Join(home, ".tada", "config.yaml"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = WriteDefault(filepath.Join(home, ".tada", "config.yaml"))
	require.NoError(t, err)
	assert.False(t, created, "existing file is left alone")

	v := New()
	require.NoError(t, Load(v, ""))
	assert.Equal(t, filepath.Join(home, ".tada", "config.yaml"), v.ConfigFileUsed())
	assert.Equal(t, "sqlite", From(v).Store.Backend)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tada.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  url: http://file\n"), 0o644))
	t.Setenv("TADA_CLIENT_URL", "http://env")
	t.Setenv("TADA_LOG_LEVEL", "debug")

	v := New()
	require.NoError(t, Load(v, path))
	cfg := From(v)
	assert.Equal(t, "http://env", cfg.Client.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
