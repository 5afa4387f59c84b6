package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, filepath.Join("/project", ".unitconv"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".unitconv", "usage.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".unitconv", "run"), p.RunDir)
	assert.Equal(t, filepath.Join("/project", ".unitconv", "run", "serve.pid"), p.PIDFile)
	assert.Equal(t, filepath.Join("/project", ".unitconv", "run", "http.port"), p.PortFile)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.RunDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
}

func TestPIDAndPortFiles(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, p.EnsureDirs())

	_, err := p.ReadPID()
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, p.WritePID())
	pid, err := p.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, os.WriteFile(p.PortFile, []byte("5001\n"), 0644))
	port, err := p.ReadPort()
	require.NoError(t, err)
	assert.Equal(t, 5001, port)

	p.CleanEphemeral()
	_, err = os.Stat(p.PIDFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(p.PortFile)
	assert.True(t, os.IsNotExist(err))

	// Cleaning twice is harmless.
	p.CleanEphemeral()
}

func TestReadPort_Garbage(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, p.EnsureDirs())
	require.NoError(t, os.WriteFile(p.PortFile, []byte("not-a-port"), 0644))

	_, err := p.ReadPort()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.port")
}
