package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliokit/folio/internal/apperr"
)

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func TestStorageObserverRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewStorageObserver("test", reg)
	require.NoError(t, err)

	obs.RecordStore("local", 10*time.Millisecond, 512, nil)
	obs.RecordStore("local", time.Millisecond, 0, apperr.E(apperr.KindPayloadTooLarge, "too big", nil))
	obs.RecordDelete("local", time.Millisecond, errors.New("disk gone"))

	stored := family(t, reg, "test_storage_stored_bytes_total")
	require.Len(t, stored.GetMetric(), 1)
	assert.Equal(t, 512.0, stored.GetMetric()[0].GetCounter().GetValue())

	failures := family(t, reg, "test_storage_operation_errors_total")
	kinds := map[string]float64{}
	for _, m := range failures.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "kind" {
				kinds[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, kinds["payload_too_large"])
	assert.Equal(t, 1.0, kinds["internal"])

	durations := family(t, reg, "test_storage_operation_duration_seconds")
	assert.Len(t, durations.GetMetric(), 2)
}

func TestStorageObserverReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewStorageObserver("test", reg)
	require.NoError(t, err)
	second, err := NewStorageObserver("test", reg)
	require.NoError(t, err)

	first.RecordStore("s3", time.Millisecond, 100, nil)
	second.RecordStore("s3", time.Millisecond, 100, nil)

	stored := family(t, reg, "test_storage_stored_bytes_total")
	assert.Equal(t, 200.0, stored.GetMetric()[0].GetCounter().GetValue())
}
