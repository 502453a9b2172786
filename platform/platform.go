// Package platform implements core.Platform on top of the host kernel.
//
// Each thread is a goroutine locked to its own OS thread. The goroutine never
// unlocks, so when the body returns the runtime terminates the OS thread
// instead of handing it, with a modified scheduling class, to other goroutines.
package platform

import (
	"sync"

	"github.com/Swind/go-sched-launcher/core"
	"github.com/pkg/errors"
)

// ErrUnsupported is returned on systems without per-thread scheduling control.
var ErrUnsupported = errors.New("per-thread scheduling is not supported on this platform")

// OS is the host implementation of core.Platform.
type OS struct{}

var _ core.Platform = (*OS)(nil)

// New returns the host platform.
func New() *OS {
	return &OS{}
}

// thread is the handle returned by OS.CreateThread.
type thread struct {
	tid  int
	done chan struct{}

	mu     sync.Mutex
	joined bool
}

func (t *thread) ID() int {
	return t.tid
}

func (t *thread) Join() error {
	t.mu.Lock()
	if t.joined {
		t.mu.Unlock()
		return core.ErrAlreadyJoined
	}
	t.joined = true
	t.mu.Unlock()

	<-t.done
	return nil
}
