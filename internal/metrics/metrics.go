// Package metrics defines the coordinator's Prometheus collectors.
//
// All metrics are registered on a dedicated prometheus.Registry rather than
// the global default, so embedding the coordinator in another process never
// collides with that process's own collectors.
//
// Metric naming convention: angzarr_<subsystem>_<name>_<unit>
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector exported by the coordinator.
type Metrics struct {
	registry *prometheus.Registry

	// ─── Aggregate append path ────────────────────────────────────────────

	// AppendAttemptsTotal counts every attempted append, by domain and outcome.
	AppendAttemptsTotal *prometheus.CounterVec

	// SequenceConflictsTotal counts optimistic-concurrency collisions, by domain.
	SequenceConflictsTotal *prometheus.CounterVec

	// AppendLatency records end-to-end append latency (load+invoke+append), by domain.
	AppendLatency *prometheus.HistogramVec

	// ─── Publisher fan-out ─────────────────────────────────────────────────

	// PublisherQueueDepth is the current depth of the fan-out bus's per-handler queue.
	PublisherQueueDepth *prometheus.GaugeVec

	// PublisherDeliveriesTotal counts events delivered to a handler, by handler and outcome.
	PublisherDeliveriesTotal *prometheus.CounterVec

	// PublisherCheckpointLag is the number of undelivered events behind a handler's checkpoint.
	PublisherCheckpointLag *prometheus.GaugeVec

	// ─── Saga / process manager dispatch ──────────────────────────────────

	// DispatchLatency records Prepare+Execute round-trip latency, by component name.
	DispatchLatency *prometheus.HistogramVec

	// DispatchFailuresTotal counts failed Prepare/Execute calls, by component and phase.
	DispatchFailuresTotal *prometheus.CounterVec

	// ─── Rejection / compensation ──────────────────────────────────────────

	// RejectionNotificationsTotal counts rejection notifications routed, by domain.
	RejectionNotificationsTotal *prometheus.CounterVec

	// ─── Lock table ─────────────────────────────────────────────────────────

	// LockWaitDuration records time spent waiting to acquire a per-aggregate lock.
	LockWaitDuration prometheus.Histogram

	// LockTableSize is the current number of keyed locks held in the LRU table.
	LockTableSize prometheus.Gauge
}

// New creates and registers all coordinator Prometheus metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		AppendAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angzarr",
			Subsystem: "append",
			Name:      "attempts_total",
			Help:      "Total append attempts, by domain and outcome (committed, conflict, rejected).",
		}, []string{"domain", "outcome"}),

		SequenceConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angzarr",
			Subsystem: "append",
			Name:      "sequence_conflicts_total",
			Help:      "Total optimistic-concurrency sequence conflicts, by domain.",
		}, []string{"domain"}),

		AppendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "angzarr",
			Subsystem: "append",
			Name:      "latency_seconds",
			Help:      "End-to-end latency of load+invoke+append, by domain.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"domain"}),

		PublisherQueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "angzarr",
			Subsystem: "publisher",
			Name:      "queue_depth",
			Help:      "Current depth of the fan-out bus's per-handler delivery queue.",
		}, []string{"handler"}),

		PublisherDeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angzarr",
			Subsystem: "publisher",
			Name:      "deliveries_total",
			Help:      "Total events delivered to a handler, by handler and outcome.",
		}, []string{"handler", "outcome"}),

		PublisherCheckpointLag: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "angzarr",
			Subsystem: "publisher",
			Name:      "checkpoint_lag",
			Help:      "Events behind a handler's last acknowledged checkpoint.",
		}, []string{"handler"}),

		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "angzarr",
			Subsystem: "dispatch",
			Name:      "latency_seconds",
			Help:      "Prepare+Execute round-trip latency, by component name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"component"}),

		DispatchFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angzarr",
			Subsystem: "dispatch",
			Name:      "failures_total",
			Help:      "Failed Prepare/Execute calls, by component and phase.",
		}, []string{"component", "phase"}),

		RejectionNotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angzarr",
			Subsystem: "rejection",
			Name:      "notifications_total",
			Help:      "Rejection notifications routed up the causal chain, by domain.",
		}, []string{"domain"}),

		LockWaitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "angzarr",
			Subsystem: "lock",
			Name:      "wait_seconds",
			Help:      "Time spent waiting to acquire a per-aggregate lock.",
			Buckets:   prometheus.DefBuckets,
		}),

		LockTableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "angzarr",
			Subsystem: "lock",
			Name:      "table_size",
			Help:      "Current number of keyed locks resident in the lock table (held or awaited).",
		}),
	}

	reg.MustRegister(
		m.AppendAttemptsTotal,
		m.SequenceConflictsTotal,
		m.AppendLatency,
		m.PublisherQueueDepth,
		m.PublisherDeliveriesTotal,
		m.PublisherCheckpointLag,
		m.DispatchLatency,
		m.DispatchFailuresTotal,
		m.RejectionNotificationsTotal,
		m.LockWaitDuration,
		m.LockTableSize,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// Serve starts the Prometheus HTTP metrics server on addr. Blocks until ctx
// is cancelled or the server fails.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
	return nil
}
