package core

import (
	"strings"

	"github.com/pkg/errors"
)

// =============================================================================
// SchedPolicy: CPU scheduling class requested for a worker thread
// =============================================================================

type SchedPolicy int

const (
	// PolicyTimeShared: the default fairness-oriented class (SCHED_OTHER).
	// Priority has no influence on ordering; only 0 is accepted by the kernel.
	PolicyTimeShared SchedPolicy = iota

	// PolicyRealtimeFIFO: real-time first-in first-out class (SCHED_FIFO).
	// A runnable thread with a higher priority preempts lower ones on the same core.
	PolicyRealtimeFIFO
)

const (
	// PriorityUnset means "do not attach an explicit priority", the platform default applies.
	PriorityUnset = -1

	// DesignatedCPU is the single core every worker is pinned to.
	DesignatedCPU = 0

	// WorkerIterations is the fixed number of workload rounds per worker.
	WorkerIterations = 3
)

// String returns the command-line token for the policy.
func (p SchedPolicy) String() string {
	switch p {
	case PolicyTimeShared:
		return "N"
	case PolicyRealtimeFIFO:
		return "F"
	default:
		return "?"
	}
}

// Name returns a human readable policy name, used for logs and metric labels.
func (p SchedPolicy) Name() string {
	switch p {
	case PolicyTimeShared:
		return "time-shared"
	case PolicyRealtimeFIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the known policies.
func (p SchedPolicy) Valid() bool {
	return p == PolicyTimeShared || p == PolicyRealtimeFIFO
}

// ParsePolicyToken maps a single policy token to a SchedPolicy.
//
//	N -> PolicyTimeShared
//	F -> PolicyRealtimeFIFO
func ParsePolicyToken(tok string) (SchedPolicy, error) {
	switch strings.TrimSpace(tok) {
	case "N":
		return PolicyTimeShared, nil
	case "F":
		return PolicyRealtimeFIFO, nil
	default:
		return 0, errors.Errorf("unknown policy token %q (want N or F)", tok)
	}
}
