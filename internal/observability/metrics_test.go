package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveUploadRow("parsed")
	m.ObserveAPI("GET", "/api/shipments/", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAddressValidation("usps", "valid", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics_CountsUploadRows(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ObserveUploadRow("parsed")
	m.ObserveUploadRow("parsed")
	m.ObserveUploadRow("skipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploadRows.WithLabelValues("parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploadRows.WithLabelValues("skipped")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.ObserveAPI("POST", "/api/shipments/upload_csv/", "201", 30*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `shiplabel_api_requests_total{method="POST",route="/api/shipments/upload_csv/",status="201"} 1`))
}
