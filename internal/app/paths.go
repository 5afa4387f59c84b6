package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DataDirName is the per-project state directory.
const DataDirName = ".unitconv"

// Paths holds all resolved filesystem paths for the .unitconv/ directory.
// All fields are pre-computed strings.
type Paths struct {
	Root string // .unitconv/
	DB   string // .unitconv/usage.db

	RunDir   string // .unitconv/run/
	PIDFile  string // .unitconv/run/serve.pid
	PortFile string // .unitconv/run/http.port
}

// NewPaths constructs all resolved paths from a base directory.
func NewPaths(baseDir string) *Paths {
	root := filepath.Join(baseDir, DataDirName)
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "usage.db"),

		RunDir:   filepath.Join(root, "run"),
		PIDFile:  filepath.Join(root, "run", "serve.pid"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .unitconv/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// WritePID records the current process id for lock diagnosis.
func (p *Paths) WritePID() error {
	return os.WriteFile(p.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// ReadPID returns the pid recorded by a running server.
func (p *Paths) ReadPID() (int, error) {
	return readInt(p.PIDFile)
}

// ReadPort returns the HTTP port recorded by a running server.
func (p *Paths) ReadPort() (int, error) {
	return readInt(p.PortFile)
}

// CleanEphemeral removes ephemeral runtime files (PID file and port file).
// Called on clean server shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
	os.Remove(p.PortFile)
}

func readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return n, nil
}
