package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// LaunchConfig is parsed once and read-only afterwards.
type LaunchConfig struct {
	// ThreadCount is the number of workers (N).
	ThreadCount int

	// WorkloadSeconds is the busy-wait duration of each workload iteration.
	WorkloadSeconds float64

	// Policies holds one scheduling policy per worker, in index order.
	Policies []SchedPolicy

	// Priorities holds one priority per worker; PriorityUnset means "platform default".
	Priorities []int
}

// Validate checks the configuration and reports every problem at once.
// The returned error wraps ErrInvalidConfig.
func (c LaunchConfig) Validate() error {
	var errs error
	if c.ThreadCount < 0 {
		errs = multierr.Append(errs, fmt.Errorf("thread count %d is negative", c.ThreadCount))
	}
	if math.IsNaN(c.WorkloadSeconds) || math.IsInf(c.WorkloadSeconds, 0) || c.WorkloadSeconds < 0 {
		errs = multierr.Append(errs, fmt.Errorf("workload duration %v must be a finite number >= 0", c.WorkloadSeconds))
	}
	if c.ThreadCount >= 0 {
		if len(c.Policies) != c.ThreadCount {
			errs = multierr.Append(errs, fmt.Errorf("got %d policies for %d threads", len(c.Policies), c.ThreadCount))
		}
		if len(c.Priorities) != c.ThreadCount {
			errs = multierr.Append(errs, fmt.Errorf("got %d priorities for %d threads", len(c.Priorities), c.ThreadCount))
		}
	}
	for i, p := range c.Policies {
		if !p.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("thread %d: unknown policy %d", i, p))
		}
	}
	for i, p := range c.Priorities {
		if p < PriorityUnset {
			errs = multierr.Append(errs, fmt.Errorf("thread %d: priority %d (use %d for the platform default)", i, p, PriorityUnset))
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, errs)
	}
	return nil
}

// Workload returns the per-iteration busy-wait duration.
func (c LaunchConfig) Workload() time.Duration {
	return SecondsToDuration(c.WorkloadSeconds)
}

// ThreadSpecs builds one ThreadSpec per worker. The config must be valid.
func (c LaunchConfig) ThreadSpecs() []ThreadSpec {
	specs := make([]ThreadSpec, c.ThreadCount)
	for i := range specs {
		specs[i] = ThreadSpec{
			Index:    i,
			Policy:   c.Policies[i],
			Priority: c.Priorities[i],
			CPU:      DesignatedCPU,
		}
	}
	return specs
}

// SecondsToDuration converts seconds to a Duration, handling the whole and
// fractional parts separately so large values keep nanosecond precision.
// Sub-nanosecond remainders are truncated.
func SecondsToDuration(sec float64) time.Duration {
	whole, frac := math.Modf(sec)
	return time.Duration(whole)*time.Second + time.Duration(frac*float64(time.Second))
}

// =============================================================================
// List parsing
// =============================================================================

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ParsePolicyList parses a comma-separated policy list such as "N,F,N".
func ParsePolicyList(s string) ([]SchedPolicy, error) {
	toks := splitList(s)
	policies := make([]SchedPolicy, 0, len(toks))
	for i, tok := range toks {
		p, err := ParsePolicyToken(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: policy %d: %v", ErrInvalidConfig, i, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// ParsePriorityList parses a comma-separated priority list such as "-1,10".
func ParsePriorityList(s string) ([]int, error) {
	toks := splitList(s)
	priorities := make([]int, 0, len(toks))
	for i, tok := range toks {
		p, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("%w: priority %d: %q is not an integer", ErrInvalidConfig, i, tok)
		}
		priorities = append(priorities, p)
	}
	return priorities, nil
}

// ParseLaunchConfig builds and validates a LaunchConfig from raw option values.
// Lists are interpreted only after every option is known, so option order does not matter.
func ParseLaunchConfig(threads int, seconds float64, policies, priorities string) (LaunchConfig, error) {
	pols, err := ParsePolicyList(policies)
	if err != nil {
		return LaunchConfig{}, err
	}
	prios, err := ParsePriorityList(priorities)
	if err != nil {
		return LaunchConfig{}, err
	}
	cfg := LaunchConfig{
		ThreadCount:     threads,
		WorkloadSeconds: seconds,
		Policies:        pols,
		Priorities:      prios,
	}
	if err := cfg.Validate(); err != nil {
		return LaunchConfig{}, err
	}
	return cfg, nil
}
