package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcmaqi/aqidash/internal/api/handler"
	"github.com/hcmaqi/aqidash/internal/api/models"
	"github.com/hcmaqi/aqidash/internal/provider/resilience"
)

func passing(context.Context) error { return nil }

func TestHealthCheck(t *testing.T) {
	h := handler.NewOpsHandler(handler.OpsConfig{Version: "1.2.3", BuildTime: "2026-10-19"})

	rec := get(t, h.HealthCheck, "/v1/ops/health")
	require.Equal(t, http.StatusOK, rec.Code)

	health := decode[models.Health](t, rec)
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
	assert.Equal(t, "2026-10-19", health.Details["buildTime"])
}

func TestReadinessCheck(t *testing.T) {
	h := handler.NewOpsHandler(handler.OpsConfig{
		Checks: []handler.ReadinessCheck{{Name: "postgres", Check: passing}},
	})

	rec := get(t, h.ReadinessCheck, "/v1/ops/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.HealthStatusOK, decode[models.Health](t, rec).Status)
}

func TestReadinessCheck_FailingDependency(t *testing.T) {
	h := handler.NewOpsHandler(handler.OpsConfig{
		Checks: []handler.ReadinessCheck{
			{Name: "postgres", Check: func(context.Context) error { return errors.New("connection refused") }},
			{Name: "other", Check: passing},
		},
	})

	rec := get(t, h.ReadinessCheck, "/v1/ops/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	health := decode[models.Health](t, rec)
	assert.Equal(t, models.HealthStatusFail, health.Status)
	assert.Equal(t, "connection refused", health.Details["postgres"])
	assert.NotContains(t, health.Details, "other")
}

func TestReadinessCheck_TimesOut(t *testing.T) {
	h := handler.NewOpsHandler(handler.OpsConfig{
		CheckTimeout: 1,
		Checks: []handler.ReadinessCheck{{Name: "slow", Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}},
	})

	rec := get(t, h.ReadinessCheck, "/v1/ops/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "deadline exceeded")
}

func TestSystemStatus_ReportsProviders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	registry := resilience.NewRegistry()
	cfg := resilience.DefaultClientConfig("forecast")
	cfg.Registry = registry
	client := resilience.NewClient(cfg)

	req, err := http.NewRequest(http.MethodGet, upstream.URL, http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err, "an exhausted 5xx is handed back as a response")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	h := handler.NewOpsHandler(handler.OpsConfig{
		Registry: registry,
		Checks:   []handler.ReadinessCheck{{Name: "postgres", Check: passing}},
	})

	rec := get(t, h.SystemStatus, "/v1/ops/status")
	require.Equal(t, http.StatusOK, rec.Code)

	status := decode[models.SystemStatus](t, rec)
	assert.Equal(t, models.HealthStatusOK, status.Status, "one failure does not trip the breaker")
	require.Len(t, status.Subsystems, 1)
	assert.Equal(t, models.HealthStatusOK, status.Subsystems[0].Status)

	require.Len(t, status.Providers, 1)
	p := status.Providers[0]
	assert.Equal(t, "forecast", p.Provider)
	assert.Equal(t, "closed", p.CircuitState)
	assert.Equal(t, uint32(1), p.Requests)
	assert.Equal(t, uint32(1), p.Failures)
	assert.NotNil(t, p.LastFailureAt)
	assert.Nil(t, p.LastSuccessAt)
	require.NotNil(t, p.Message)
	assert.Contains(t, *p.Message, "Bad Gateway")
}

func TestSystemStatus_FailingSubsystem(t *testing.T) {
	h := handler.NewOpsHandler(handler.OpsConfig{
		Checks: []handler.ReadinessCheck{{Name: "postgres", Check: func(context.Context) error { return errors.New("down") }}},
	})

	status := decode[models.SystemStatus](t, get(t, h.SystemStatus, "/v1/ops/status"))
	assert.Equal(t, models.HealthStatusFail, status.Status)
	assert.Empty(t, status.Providers)
	require.NotNil(t, status.Subsystems[0].Detail)
	assert.Equal(t, "down", *status.Subsystems[0].Detail)
}
