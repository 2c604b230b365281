// Package metrics exports service telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/storage"
)

// StorageObserver records attachment storage operations.
type StorageObserver struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	bytes    *prometheus.CounterVec
}

// NewStorageObserver registers the storage metrics on reg (the default
// registerer when nil). Registering twice reuses the existing collectors.
func NewStorageObserver(namespace string, reg prometheus.Registerer) (*StorageObserver, error) {
	if namespace == "" {
		namespace = "folio"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "operation_duration_seconds",
		Help:      "Latency of attachment storage operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "operation"}))
	if err != nil {
		return nil, fmt.Errorf("register storage histogram: %w", err)
	}

	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "operation_errors_total",
		Help:      "Failed attachment storage operations by error kind.",
	}, []string{"backend", "operation", "kind"}))
	if err != nil {
		return nil, fmt.Errorf("register storage error counter: %w", err)
	}

	bytes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "stored_bytes_total",
		Help:      "Bytes successfully written by attachment storage.",
	}, []string{"backend"}))
	if err != nil {
		return nil, fmt.Errorf("register stored bytes counter: %w", err)
	}

	return &StorageObserver{
		duration: duration,
		failures: failures,
		bytes:    bytes,
	}, nil
}

func (o *StorageObserver) RecordStore(backend string, duration time.Duration, sizeBytes int64, err error) {
	o.duration.WithLabelValues(backend, "store").Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues(backend, "store", string(apperr.KindOf(err))).Inc()
		return
	}
	o.bytes.WithLabelValues(backend).Add(float64(sizeBytes))
}

func (o *StorageObserver) RecordDelete(backend string, duration time.Duration, err error) {
	o.duration.WithLabelValues(backend, "delete").Observe(duration.Seconds())
	if err != nil {
		o.failures.WithLabelValues(backend, "delete", string(apperr.KindOf(err))).Inc()
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		existing, ok := are.ExistingCollector.(C)
		if ok {
			return existing, nil
		}
	}
	return c, err
}

var _ storage.Observer = (*StorageObserver)(nil)
