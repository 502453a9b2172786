package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidConfig    = errors.New("invalid launch configuration")
	ErrInvalidAttr      = errors.New("invalid thread attribute")
	ErrBarrierBroken    = errors.New("barrier broken")
	ErrBarrierBusy      = errors.New("barrier has blocked waiters")
	ErrBarrierDestroyed = errors.New("barrier destroyed")
	ErrAlreadyRun       = errors.New("launcher already run")
	ErrAlreadyJoined    = errors.New("thread already joined")
)

// Operation names carried by OpError. Each one names a single setup or
// synchronization step whose failure aborts the launch.
const (
	OpBarrierInit    = "barrier init"
	OpAttrSetInherit = "thread attr set inherit"
	OpAttrSetPolicy  = "thread attr set policy"
	OpAttrSetParam   = "thread attr set param"
	OpThreadCreate   = "thread create"
	OpAttrDestroy    = "thread attr destroy"
	OpSetAffinity    = "set affinity"
	OpBarrierWait    = "barrier wait"
	OpThreadJoin     = "thread join"
	OpBarrierDestroy = "barrier destroy"
)

const noThread = -1

// OpError reports which operation failed, and for which thread.
type OpError struct {
	Op     string
	Thread int // -1 when the operation is not tied to a thread
	Err    error
}

func newOpError(op string, thread int, err error) *OpError {
	return &OpError{Op: op, Thread: thread, Err: err}
}

func (e *OpError) Error() string {
	if e.Thread >= 0 {
		return fmt.Sprintf("%s (thread %d): %v", e.Op, e.Thread, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
