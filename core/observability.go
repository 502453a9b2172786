package core

import (
	"io"
	"sync"
	"time"
)

// IterationRecord captures one completed workload iteration.
type IterationRecord struct {
	Thread     int
	Iteration  int
	StartedAt  time.Time
	FinishedAt time.Time
	Chunks     uint64
}

// Duration returns the wall-clock length of the iteration.
func (r IterationRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// LauncherStats represents runtime observability state for a launcher.
type LauncherStats struct {
	State   LauncherState
	Threads int
	Created int
	Joined  int
	Err     error
}

// lockedWriter serializes writes so each progress line reaches the output whole.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newLockedWriter(w io.Writer) *lockedWriter {
	if lw, ok := w.(*lockedWriter); ok {
		return lw
	}
	return &lockedWriter{w: w}
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
