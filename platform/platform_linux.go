//go:build linux

package platform

import (
	"runtime"

	"github.com/Swind/go-sched-launcher/core"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// CreateThread starts body on a dedicated OS thread whose scheduling class is
// set from attr before CreateThread returns.
func (p *OS) CreateThread(attr *core.ThreadAttr, body func()) (core.Thread, error) {
	if attr == nil || attr.Destroyed() {
		return nil, errors.Wrap(core.ErrInvalidAttr, "create thread")
	}
	a := attr.Snapshot()

	t := &thread{done: make(chan struct{})}
	created := make(chan error, 1)

	go func() {
		defer close(t.done)
		// Never unlocked: the thread exits with this goroutine.
		runtime.LockOSThread()

		t.tid = unix.Gettid()
		if err := applySched(&a); err != nil {
			created <- err
			return
		}
		created <- nil
		body()
	}()

	if err := <-created; err != nil {
		<-t.done
		return nil, err
	}
	return t, nil
}

// SetAffinity pins the calling OS thread to cpu.
func (p *OS) SetAffinity(cpu int) error {
	if cpu < 0 {
		return errors.Errorf("invalid cpu %d", cpu)
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrapf(err, "sched_setaffinity cpu %d", cpu)
	}
	return nil
}

// applySched sets the calling thread's policy and priority.
// An inherited descriptor leaves the thread as created.
func applySched(a *core.ThreadAttr) error {
	if a.InheritSched() == core.InheritSchedInherit {
		return nil
	}
	// sched_setattr also writes nice; keep the current value.
	cur, err := unix.SchedGetAttr(0, 0)
	if err != nil {
		return errors.Wrap(err, "sched_getattr")
	}
	sa := unix.SchedAttr{
		Size:   unix.SizeofSchedAttr,
		Policy: kernelPolicy(a.Policy()),
		Nice:   cur.Nice,
	}
	// Without an explicit param the kernel default priority (0) applies.
	if prio, ok := a.Priority(); ok {
		sa.Priority = uint32(prio)
	}
	if err := unix.SchedSetAttr(0, &sa, 0); err != nil {
		return errors.Wrapf(err, "sched_setattr policy=%s priority=%d", a.Policy().Name(), sa.Priority)
	}
	return nil
}

func kernelPolicy(p core.SchedPolicy) uint32 {
	if p == core.PolicyRealtimeFIFO {
		return unix.SCHED_FIFO
	}
	return unix.SCHED_NORMAL
}
