package core

import (
	"io"
	"os"
	"time"
)

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting launch metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods are called from worker threads while they compete for one CPU,
// so they should be non-blocking and fast.
type Metrics interface {
	// RecordThreadCreated records that a worker thread was created with its attributes applied.
	RecordThreadCreated(spec ThreadSpec)

	// RecordBarrierWait records how long the launcher waited at the start barrier.
	RecordBarrierWait(wait time.Duration)

	// RecordIteration records one workload iteration of a worker.
	//
	// Parameters:
	// - spec: The worker's thread spec
	// - elapsed: Wall-clock time of the iteration, including time spent preempted
	// - chunks: Number of spin chunks executed by the busy-wait
	RecordIteration(spec ThreadSpec, elapsed time.Duration, chunks uint64)

	// RecordFailure records a fatal failure of the named operation (one of the Op* constants).
	RecordFailure(op string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordThreadCreated is a no-op.
func (m *NilMetrics) RecordThreadCreated(spec ThreadSpec) {
}

// RecordBarrierWait is a no-op.
func (m *NilMetrics) RecordBarrierWait(wait time.Duration) {
}

// RecordIteration is a no-op.
func (m *NilMetrics) RecordIteration(spec ThreadSpec, elapsed time.Duration, chunks uint64) {
}

// RecordFailure is a no-op.
func (m *NilMetrics) RecordFailure(op string) {
}

// =============================================================================
// LauncherOptions: Configuration for Launcher
// =============================================================================

// LauncherOptions holds the collaborators of a Launcher.
// Platform is required; the rest fall back to defaults when nil.
type LauncherOptions struct {
	// Platform creates and places the worker threads.
	Platform Platform

	// Logger receives lifecycle logs. Defaults to NoOpLogger.
	Logger Logger

	// Metrics receives launch metrics. Defaults to NilMetrics.
	Metrics Metrics

	// Output receives the workers' progress lines. Defaults to os.Stdout.
	Output io.Writer
}

// DefaultLauncherOptions returns options with default handlers and the given platform.
func DefaultLauncherOptions(platform Platform) *LauncherOptions {
	return &LauncherOptions{
		Platform: platform,
		Logger:   NewNoOpLogger(),
		Metrics:  &NilMetrics{},
		Output:   os.Stdout,
	}
}

func (o *LauncherOptions) withDefaults() LauncherOptions {
	var out LauncherOptions
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = NewNoOpLogger()
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	if out.Output == nil {
		out.Output = os.Stdout
	}
	return out
}
