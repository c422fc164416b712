// Package handler provides the HTTP handlers of the dashboard API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hcmaqi/aqidash/internal/api/models"
	"github.com/hcmaqi/aqidash/internal/api/response"
	"github.com/hcmaqi/aqidash/internal/provider/resilience"
)

const defaultCheckTimeout = 2 * time.Second

// ReadinessCheck probes one dependency.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// OpsConfig configures an OpsHandler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Registry supplies upstream provider health; nil means no providers.
	Registry *resilience.Registry

	Checks       []ReadinessCheck
	CheckTimeout time.Duration
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version      string
	buildTime    string
	registry     *resilience.Registry
	checks       []ReadinessCheck
	checkTimeout time.Duration
	now          func() time.Time
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &OpsHandler{
		version:      cfg.Version,
		buildTime:    cfg.BuildTime,
		registry:     cfg.Registry,
		checks:       cfg.Checks,
		checkTimeout: timeout,
		now:          time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. It answers 503 when any dependency check fails.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	subsystems := h.runChecks(r.Context())

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
	}
	status := http.StatusOK
	for _, s := range subsystems {
		if s.Status != models.HealthStatusFail {
			continue
		}
		if health.Details == nil {
			health.Details = make(map[string]interface{})
		}
		health.Details[s.Name] = *s.Detail
		health.Status = models.HealthStatusFail
		status = http.StatusServiceUnavailable
	}

	response.JSON(w, r, status, health)
}

// SystemStatus handles GET /v1/ops/status - dependency and provider status.
// The overall status is FAIL when a dependency fails and DEGRADED when any
// provider circuit is not closed.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	subsystems := h.runChecks(r.Context())
	providers := h.providerStatuses()

	overall := models.HealthStatusOK
	for _, p := range providers {
		if p.Status != models.HealthStatusOK {
			overall = models.HealthStatusDegraded
		}
	}
	for _, s := range subsystems {
		if s.Status == models.HealthStatusFail {
			overall = models.HealthStatusFail
		}
	}

	response.OK(w, r, models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(h.now()),
		Subsystems: subsystems,
		Providers:  providers,
	})
}

func (h *OpsHandler) runChecks(ctx context.Context) []models.SubsystemStatus {
	out := make([]models.SubsystemStatus, 0, len(h.checks))
	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
		err := c.Check(checkCtx)
		cancel()

		s := models.SubsystemStatus{Name: c.Name, Status: models.HealthStatusOK}
		if err != nil {
			detail := err.Error()
			s.Status = models.HealthStatusFail
			s.Detail = &detail
		}
		out = append(out, s)
	}
	return out
}

func (h *OpsHandler) providerStatuses() []models.ProviderStatus {
	out := []models.ProviderStatus{}
	if h.registry == nil {
		return out
	}

	for _, ph := range h.registry.GetAllHealth() {
		status := models.ProviderStatus{
			Provider:      ph.Name,
			Status:        models.HealthStatusOK,
			CircuitState:  ph.CircuitState.String(),
			Requests:      ph.Counts.Requests,
			Failures:      ph.Counts.TotalFailures,
			LastSuccessAt: models.TimestampPtr(ph.LastSuccessAt),
			LastFailureAt: models.TimestampPtr(ph.LastFailureAt),
		}
		switch {
		case ph.IsUnhealthy():
			status.Status = models.HealthStatusFail
		case ph.IsDegraded():
			status.Status = models.HealthStatusDegraded
		}
		if ph.LastError != "" {
			msg := ph.LastError
			status.Message = &msg
		}
		out = append(out, status)
	}
	return out
}
