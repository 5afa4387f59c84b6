package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLoader returns a Loader isolated from the real environment.
func testLoader(t *testing.T, env map[string]string) (l *Loader, home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	l = NewLoader(nil)
	l.getenv = func(k string) string { return env[k] }
	l.homeDir = func() (string, error) { return home, nil }
	l.workDir = func() (string, error) { return work, nil }
	return l, home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoader_DefaultsOnly(t *testing.T) {
	l, _, _ := testLoader(t, nil)

	cfg, watch, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, watch)
}

func TestLoader_Layering(t *testing.T) {
	l, home, work := testLoader(t, map[string]string{EnvLogFormat: "json"})

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "log:\n  level: debug\nserver:\n  addr: 127.0.0.1:6000\n")
	projectPath := filepath.Join(work, ProjectConfigFile)
	writeFile(t, projectPath, "server:\n  addr: 127.0.0.1:7000\n")

	cfg, watch, err := l.Load("")
	require.NoError(t, err)

	// User sets level, project overrides addr without resetting level.
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	// Env wins over every file.
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, projectPath, watch)
}

func TestLoader_ExplicitPath(t *testing.T) {
	l, _, work := testLoader(t, nil)
	writeFile(t, filepath.Join(work, ProjectConfigFile), "log:\n  level: error\n")

	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "log:\n  level: warn\n")

	cfg, watch, err := l.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level, "explicit file replaces the project file")
	assert.Equal(t, explicit, watch)
}

func TestLoader_ExplicitPathMissing(t *testing.T) {
	l, _, _ := testLoader(t, nil)

	_, _, err := l.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_InvalidResult(t *testing.T) {
	l, _, _ := testLoader(t, map[string]string{EnvLogLevel: "chatty"})

	_, _, err := l.Load("")
	assert.Error(t, err)
}

func TestLoader_BrokenProjectConfigIsSkipped(t *testing.T) {
	l, _, work := testLoader(t, nil)
	writeFile(t, filepath.Join(work, ProjectConfigFile), "server: [")

	cfg, watch, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, watch)
}

func TestLoader_NoHomeDir(t *testing.T) {
	l, _, _ := testLoader(t, nil)
	l.homeDir = func() (string, error) { return "", errors.New("no home") }

	cfg, _, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_Reload(t *testing.T) {
	l, _, work := testLoader(t, map[string]string{EnvAddr: "127.0.0.1:9999"})
	path := filepath.Join(work, ProjectConfigFile)
	writeFile(t, path, "log:\n  level: info\n")

	cfg, _, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)

	writeFile(t, path, "log:\n  level: debug\nserver:\n  cors_origins: [\"http://localhost:3000\"]\n")
	cfg, err = l.Reload(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr, "env still applies on reload")

	writeFile(t, path, "log:\n  format: yaml\n")
	_, err = l.Reload(path)
	assert.Error(t, err)
}
