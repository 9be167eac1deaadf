package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetch(t *testing.T) {
	m := New()

	m.ObserveFetch("direct", "ok", 20*time.Millisecond)
	m.ObserveFetch("direct", "ok", 30*time.Millisecond)
	m.ObserveFetch("proxy:api.allorigins.win", "timeout", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchAttemptsTotal.WithLabelValues("direct", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchAttemptsTotal.WithLabelValues("proxy:api.allorigins.win", "timeout")))
}

func TestIncExtraction(t *testing.T) {
	m := New()

	m.IncExtraction("success")
	m.IncExtraction("fallback")
	m.IncExtraction("fallback")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("fallback")))
}

func TestIncWrite(t *testing.T) {
	m := New()

	m.IncWrite("gift", nil)
	m.IncWrite("gift", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryWrites.WithLabelValues("gift", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryWrites.WithLabelValues("gift", "error")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveFetch("direct", "ok", time.Millisecond)
		m.IncExtraction("success")
		m.IncWrite("item", nil)
	})
}
