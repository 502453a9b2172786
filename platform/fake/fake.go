// Package fake provides an in-memory core.Platform for tests and demos.
//
// Threads are plain goroutines. Every applied descriptor and affinity request
// is recorded, and the Linux parameter rules are enforced so that invalid
// policy/priority pairs fail the way the kernel would reject them.
package fake

import (
	"fmt"
	"sync"

	"github.com/Swind/go-sched-launcher/core"
	"github.com/pkg/errors"
)

// Linux priority range for SCHED_FIFO.
const (
	MinFIFOPriority = 1
	MaxFIFOPriority = 99
)

// ErrInjected is the error returned by injected failures.
var ErrInjected = errors.New("injected failure")

// Platform is a fake core.Platform.
type Platform struct {
	// FailCreateAt makes the Nth CreateThread call (0-based) fail. -1 disables it.
	FailCreateAt int

	// FailAffinityAt makes the Nth SetAffinity call (0-based) fail. -1 disables it.
	FailAffinityAt int

	// FailJoinAt makes Join of the Nth created thread fail. -1 disables it.
	FailJoinAt int

	mu            sync.Mutex
	createCalls   int
	affinityCalls int
	attrs         []core.ThreadAttr
	affinity      []int
	threads       []*Thread
}

var _ core.Platform = (*Platform)(nil)

// New returns a fake platform with no injected failures.
func New() *Platform {
	return &Platform{FailCreateAt: -1, FailAffinityAt: -1, FailJoinAt: -1}
}

// Thread is a fake thread handle.
type Thread struct {
	id       int
	done     chan struct{}
	failJoin bool

	mu     sync.Mutex
	joined bool
}

func (t *Thread) ID() int {
	return t.id
}

func (t *Thread) Join() error {
	t.mu.Lock()
	if t.joined {
		t.mu.Unlock()
		return core.ErrAlreadyJoined
	}
	t.joined = true
	t.mu.Unlock()

	<-t.done
	if t.failJoin {
		return ErrInjected
	}
	return nil
}

// Done is closed when the thread body returns.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// CreateThread validates attr like the kernel would and runs body on a goroutine.
func (p *Platform) CreateThread(attr *core.ThreadAttr, body func()) (core.Thread, error) {
	p.mu.Lock()
	n := p.createCalls
	p.createCalls++
	p.mu.Unlock()

	if n == p.FailCreateAt {
		return nil, ErrInjected
	}
	if attr == nil || attr.Destroyed() {
		return nil, errors.Wrap(core.ErrInvalidAttr, "create thread")
	}
	if err := checkParam(attr); err != nil {
		return nil, err
	}

	p.mu.Lock()
	t := &Thread{id: 1000 + len(p.threads), done: make(chan struct{}), failJoin: len(p.threads) == p.FailJoinAt}
	p.threads = append(p.threads, t)
	p.attrs = append(p.attrs, attr.Snapshot())
	p.mu.Unlock()

	go func() {
		defer close(t.done)
		body()
	}()
	return t, nil
}

// SetAffinity records the request.
func (p *Platform) SetAffinity(cpu int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.affinityCalls
	p.affinityCalls++
	if n == p.FailAffinityAt {
		return ErrInjected
	}
	p.affinity = append(p.affinity, cpu)
	return nil
}

// checkParam mirrors sched_setattr's EINVAL rules for the two supported policies.
func checkParam(attr *core.ThreadAttr) error {
	if attr.InheritSched() != core.InheritSchedExplicit {
		return nil
	}
	prio, _ := attr.Priority()
	switch attr.Policy() {
	case core.PolicyRealtimeFIFO:
		if prio < MinFIFOPriority || prio > MaxFIFOPriority {
			return fmt.Errorf("fifo priority %d outside [%d, %d]: invalid argument", prio, MinFIFOPriority, MaxFIFOPriority)
		}
	case core.PolicyTimeShared:
		if prio > 0 {
			return fmt.Errorf("time-shared priority %d must be 0: invalid argument", prio)
		}
	}
	return nil
}

// Attrs returns the descriptors applied to created threads, in creation order.
func (p *Platform) Attrs() []core.ThreadAttr {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.ThreadAttr, len(p.attrs))
	copy(out, p.attrs)
	return out
}

// Affinity returns the CPUs requested by successful SetAffinity calls.
func (p *Platform) Affinity() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.affinity))
	copy(out, p.affinity)
	return out
}

// Threads returns the created threads, in creation order.
func (p *Platform) Threads() []*Thread {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Thread, len(p.threads))
	copy(out, p.threads)
	return out
}

// Created returns the number of successfully created threads.
func (p *Platform) Created() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// WaitAll blocks until every created thread body has returned.
func (p *Platform) WaitAll() {
	for _, t := range p.Threads() {
		<-t.done
	}
}
