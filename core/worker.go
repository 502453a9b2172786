package core

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Worker is the body of one launched thread: pin to the designated CPU,
// wait for the start signal, then run the fixed workload.
type Worker struct {
	spec     ThreadSpec
	workload time.Duration
	barrier  *Barrier
	platform Platform
	out      io.Writer
	logger   Logger
	metrics  Metrics

	mu      sync.Mutex
	err     error
	records []IterationRecord
}

func newWorker(spec ThreadSpec, workload time.Duration, barrier *Barrier, opts LauncherOptions) *Worker {
	return &Worker{
		spec:     spec,
		workload: workload,
		barrier:  barrier,
		platform: opts.Platform,
		out:      opts.Output,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Spec returns the worker's thread spec.
func (w *Worker) Spec() ThreadSpec {
	return w.spec
}

// Run executes the worker on the calling thread.
//
// Affinity failure is fatal for the whole launch: the barrier is broken with
// the error so every other party is released without running its workload.
func (w *Worker) Run() error {
	if err := w.platform.SetAffinity(w.spec.CPU); err != nil {
		opErr := newOpError(OpSetAffinity, w.spec.Index, err)
		w.barrier.Break(opErr)
		return w.finish(opErr)
	}

	if err := w.barrier.Wait(); err != nil {
		// Someone else failed; the launcher reports it.
		return w.finish(err)
	}

	w.RunWorkload()
	return w.finish(nil)
}

// RunWorkload prints a progress line and busy-waits, WorkerIterations times.
func (w *Worker) RunWorkload() {
	for i := 0; i < WorkerIterations; i++ {
		started := time.Now()
		fmt.Fprintf(w.out, "Thread %d is running\n", w.spec.Index)
		chunks := BusyWait(w.workload)
		finished := time.Now()

		w.mu.Lock()
		w.records = append(w.records, IterationRecord{
			Thread:     w.spec.Index,
			Iteration:  i,
			StartedAt:  started,
			FinishedAt: finished,
			Chunks:     chunks,
		})
		w.mu.Unlock()
		w.metrics.RecordIteration(w.spec, finished.Sub(started), chunks)
	}
	w.logger.Debug("worker finished", F("thread", w.spec.Index), F("policy", w.spec.Policy.Name()))
}

func (w *Worker) finish(err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
	return err
}

// Err returns the error the worker stopped with, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Iterations returns the completed workload iterations.
func (w *Worker) Iterations() []IterationRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]IterationRecord, len(w.records))
	copy(out, w.records)
	return out
}
