package ports

// Watcher monitors a single file (the config file) and reports changes.
// The adapter (fsnotify) watches the parent directory so editors that
// replace the file by rename are still seen, and coalesces bursts of events
// into one callback. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called after a burst of
	// writes/creates/renames settles. The callback may be invoked from any
	// goroutine. Returns an error if the parent directory can't be watched.
	Watch(path string, onChange func()) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
