package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Nicolas2912/UnitConverter/internal/adapters/web"
	"github.com/Nicolas2912/UnitConverter/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns ErrTimeout when it cannot acquire the file lock within the
// configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, bolt.ErrTimeout) || strings.Contains(err.Error(), "timeout")
}

// probeClient is used for discovery requests to a local server.
var probeClient = &http.Client{Timeout: time.Second}

// probeServer looks for a running server via the port file and returns its
// base URL and health if it answers.
func probeServer(p *app.Paths) (string, *web.HealthResult, bool) {
	port, err := p.ReadPort()
	if err != nil {
		return "", nil, false
	}
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	resp, err := probeClient.Get(base + "/api/health")
	if err != nil {
		return base, nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return base, nil, false
	}
	var h web.HealthResult
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return base, nil, false
	}
	return base, &h, true
}

// diagnoseDBLock checks the server state and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: server running, stale port file, and unknown lock holder.
func diagnoseDBLock(p *app.Paths) string {
	pid := "<PID>"
	if n, err := p.ReadPID(); err == nil {
		pid = fmt.Sprint(n)
	}

	if base, _, ok := probeServer(p); ok {
		return fmt.Sprintf("database is locked by the running server at %s\n"+
			"  → read stats from it:  curl %s/api/stats\n"+
			"  → or stop it first:    kill %s", base, base, pid)
	}

	if _, err := os.Stat(p.PortFile); err == nil {
		return fmt.Sprintf("database is locked: server port file exists but the server is not responding\n"+
			"  → a previous server may have crashed\n"+
			"  → find the process:  ps aux | grep 'unitconv serve'\n"+
			"  → kill it:           kill %s\n"+
			"  → clean up:          rm %s", pid, p.PortFile)
	}

	return "database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'unitconv'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
