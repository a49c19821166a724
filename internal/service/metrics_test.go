package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFusion("soft_kernel", time.Millisecond, nil)
		m.RecordDegenerate("2")
		m.RecordUnstable(3)
		m.RecordLookup("map")
		m.RecordCache(true, 1)
	})
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordFusion("soft_kernel", time.Millisecond, nil)
	m.RecordFusion("soft_kernel", time.Millisecond, errors.New("boom"))
	m.RecordDegenerate("6")
	m.RecordUnstable(0)
	m.RecordUnstable(2)
	m.RecordCache(false, 4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FusionsTotal.WithLabelValues("soft_kernel", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FusionsTotal.WithLabelValues("soft_kernel", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DegenerateHarmonics.WithLabelValues("6")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UnstableMappings))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EngineCacheMissesTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.EngineCacheSize))

	n, err := testutil.GatherAndCount(reg, "bazodiac_fusion_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
