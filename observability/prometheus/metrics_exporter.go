package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Swind/go-sched-launcher/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	threadsCreatedTotal      *prom.CounterVec
	barrierWaitSeconds       prom.Histogram
	iterationDurationSeconds *prom.HistogramVec
	spinChunksTotal          *prom.CounterVec
	failuresTotal            *prom.CounterVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "schedlauncher"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	createdVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "threads_created_total",
		Help:      "Total number of worker threads created.",
	}, []string{"policy"})
	barrierWait := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "barrier_wait_seconds",
		Help:      "Time the launcher waited at the start barrier.",
		Buckets:   buckets,
	})
	iterationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "iteration_duration_seconds",
		Help:      "Wall-clock duration of one workload iteration, including preemption.",
		Buckets:   buckets,
	}, []string{"thread", "policy"})
	spinVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "spin_chunks_total",
		Help:      "Total number of busy-wait spin chunks executed.",
	}, []string{"thread"})
	failuresVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "failures_total",
		Help:      "Total number of fatal launch failures by operation.",
	}, []string{"op"})

	var err error
	if createdVec, err = registerCollector(reg, createdVec); err != nil {
		return nil, err
	}
	if barrierWait, err = registerCollector(reg, barrierWait); err != nil {
		return nil, err
	}
	if iterationVec, err = registerCollector(reg, iterationVec); err != nil {
		return nil, err
	}
	if spinVec, err = registerCollector(reg, spinVec); err != nil {
		return nil, err
	}
	if failuresVec, err = registerCollector(reg, failuresVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		threadsCreatedTotal:      createdVec,
		barrierWaitSeconds:       barrierWait,
		iterationDurationSeconds: iterationVec,
		spinChunksTotal:          spinVec,
		failuresTotal:            failuresVec,
	}, nil
}

// RecordThreadCreated counts created threads per policy.
func (m *MetricsExporter) RecordThreadCreated(spec core.ThreadSpec) {
	if m == nil {
		return
	}
	m.threadsCreatedTotal.WithLabelValues(policyLabel(spec.Policy)).Inc()
}

// RecordBarrierWait records the launcher's wait at the start barrier.
func (m *MetricsExporter) RecordBarrierWait(wait time.Duration) {
	if m == nil {
		return
	}
	m.barrierWaitSeconds.Observe(wait.Seconds())
}

// RecordIteration records one workload iteration.
func (m *MetricsExporter) RecordIteration(spec core.ThreadSpec, elapsed time.Duration, chunks uint64) {
	if m == nil {
		return
	}
	thread := strconv.Itoa(spec.Index)
	m.iterationDurationSeconds.WithLabelValues(thread, policyLabel(spec.Policy)).Observe(elapsed.Seconds())
	m.spinChunksTotal.WithLabelValues(thread).Add(float64(chunks))
}

// RecordFailure counts fatal failures per operation.
func (m *MetricsExporter) RecordFailure(op string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(normalizeLabel(op, "unknown")).Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func policyLabel(policy core.SchedPolicy) string {
	switch policy {
	case core.PolicyTimeShared:
		return "time_shared"
	case core.PolicyRealtimeFIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
