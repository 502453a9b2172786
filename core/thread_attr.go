package core

import (
	"github.com/pkg/errors"
)

// ThreadSpec describes one worker. It is immutable after construction.
type ThreadSpec struct {
	Index    int
	Policy   SchedPolicy
	Priority int // PriorityUnset when no explicit priority is requested
	CPU      int
}

// HasPriority reports whether an explicit priority was requested.
func (s ThreadSpec) HasPriority() bool {
	return s.Priority != PriorityUnset
}

// =============================================================================
// ThreadAttr: scheduling-attribute descriptor used when creating a thread
// =============================================================================

// InheritSched selects whether a new thread takes its scheduling class from
// the creating thread or from the descriptor.
type InheritSched int

const (
	InheritSchedInherit InheritSched = iota
	InheritSchedExplicit
)

func (m InheritSched) String() string {
	if m == InheritSchedExplicit {
		return "explicit"
	}
	return "inherit"
}

// ThreadAttr carries the scheduling attributes applied to a thread at creation.
// A descriptor belongs to exactly one thread: build it, create the thread, destroy it.
type ThreadAttr struct {
	inherit   InheritSched
	policy    SchedPolicy
	priority  int
	hasParam  bool
	destroyed bool
}

// NewThreadAttr returns a descriptor with platform defaults:
// inherited scheduling, time-shared policy, no explicit priority.
func NewThreadAttr() *ThreadAttr {
	return &ThreadAttr{
		inherit:  InheritSchedInherit,
		policy:   PolicyTimeShared,
		priority: PriorityUnset,
	}
}

func (a *ThreadAttr) checkLive() error {
	if a == nil {
		return errors.Wrap(ErrInvalidAttr, "nil descriptor")
	}
	if a.destroyed {
		return errors.Wrap(ErrInvalidAttr, "descriptor already destroyed")
	}
	return nil
}

// SetInheritSched sets the inherit mode.
func (a *ThreadAttr) SetInheritSched(mode InheritSched) error {
	if err := a.checkLive(); err != nil {
		return err
	}
	if mode != InheritSchedInherit && mode != InheritSchedExplicit {
		return errors.Wrapf(ErrInvalidAttr, "inherit mode %d", mode)
	}
	a.inherit = mode
	return nil
}

// SetSchedPolicy sets the scheduling class.
func (a *ThreadAttr) SetSchedPolicy(policy SchedPolicy) error {
	if err := a.checkLive(); err != nil {
		return err
	}
	if !policy.Valid() {
		return errors.Wrapf(ErrInvalidAttr, "policy %d", policy)
	}
	a.policy = policy
	return nil
}

// SetSchedParam attaches an explicit priority. Whether the priority is valid
// for the selected policy is left to the platform at thread creation.
func (a *ThreadAttr) SetSchedParam(priority int) error {
	if err := a.checkLive(); err != nil {
		return err
	}
	if priority < 0 {
		return errors.Wrapf(ErrInvalidAttr, "priority %d", priority)
	}
	a.priority = priority
	a.hasParam = true
	return nil
}

// Destroy releases the descriptor. It cannot be used afterwards.
func (a *ThreadAttr) Destroy() error {
	if err := a.checkLive(); err != nil {
		return err
	}
	a.destroyed = true
	return nil
}

func (a *ThreadAttr) InheritSched() InheritSched { return a.inherit }
func (a *ThreadAttr) Policy() SchedPolicy        { return a.policy }

// Priority returns the explicit priority and whether one was set.
func (a *ThreadAttr) Priority() (int, bool) {
	return a.priority, a.hasParam
}

// Destroyed reports whether Destroy has been called.
func (a *ThreadAttr) Destroyed() bool {
	return a.destroyed
}

// Snapshot returns a copy that outlives the original descriptor.
func (a *ThreadAttr) Snapshot() ThreadAttr {
	return *a
}
