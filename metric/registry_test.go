package metric

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	require.NotNil(t, r.Metrics)
	require.NotNil(t, r.PrometheusRegistry())

	r.Metrics.RowsIngested.WithLabelValues("stops").Add(3)
	r.Metrics.ClassificationPasses.Set(2)
	r.Metrics.ConsistencyViolations.WithLabelValues("domain").Inc()

	families, err := r.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["semtransit_ingest_rows_total"])
	assert.True(t, names["semtransit_classify_passes"])
	assert.True(t, names["semtransit_classify_consistency_violations_total"])
}

func TestMetricsRegisterRejectsDuplicates(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg))
}

func TestHandlerServesExposition(t *testing.T) {
	r := NewRegistry()
	r.Metrics.EdgesInferred.WithLabelValues("connectedTo").Add(5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "semtransit_classify_edges_inferred_total")
}
