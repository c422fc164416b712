package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/hcmaqi/aqidash/internal/api/middleware"
)

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				return sum.DataPoints
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return nil
}

func attrString(set attribute.Set, key attribute.Key) string {
	v, _ := set.Value(key)
	return v.AsString()
}

func TestMetrics_CountsByRouteAndStatus(t *testing.T) {
	reader := setupTestMeter(t)

	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/v1/stations/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	for _, path := range []string{"/v1/stations/1", "/v1/stations/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	points := collectSum(t, reader, "http.server.request.total")
	require.Len(t, points, 1)
	assert.Equal(t, int64(2), points[0].Value)
	assert.Equal(t, "/v1/stations/{id}", attrString(points[0].Attributes, "http.route"))
	assert.Equal(t, "200", attrString(points[0].Attributes, "http.status_code"))
	assert.False(t, points[0].Attributes.HasValue("error"))
}

func TestMetrics_FlagsErrors(t *testing.T) {
	reader := setupTestMeter(t)

	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)

	handler := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/dashboard/forecast", http.NoBody))

	points := collectSum(t, reader, "http.server.request.total")
	require.Len(t, points, 1)
	assert.Equal(t, "400", attrString(points[0].Attributes, "http.status_code"))
	assert.True(t, points[0].Attributes.HasValue("error"))
}

func TestMetrics_InFlightReturnsToZero(t *testing.T) {
	reader := setupTestMeter(t)

	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)

	handler := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	points := collectSum(t, reader, "http.server.requests_in_flight")
	require.Len(t, points, 1)
	assert.Equal(t, int64(0), points[0].Value)
}
