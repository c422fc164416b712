package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcmaqi/aqidash/internal/airquality"
	"github.com/hcmaqi/aqidash/internal/api/models"
	"github.com/hcmaqi/aqidash/internal/api/response"
	"github.com/hcmaqi/aqidash/internal/dashboard"
)

// maxContainerWidth bounds the width query parameter.
const maxContainerWidth = 10000

// DashboardConfig configures a DashboardHandler.
type DashboardConfig struct {
	Overview   airquality.OverviewProvider
	Forecast   dashboard.Source
	Normalizer *airquality.Normalizer
	Formatter  *dashboard.TimeFormatter

	Stations       []int
	DefaultStation int

	// Clock defaults to time.Now.
	Clock func() time.Time

	Logger zerolog.Logger
}

// DashboardHandler serves the view models of the dashboard pages. Every request
// builds its own page state; nothing is shared between requests.
type DashboardHandler struct {
	cfg DashboardConfig
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(cfg DashboardConfig) *DashboardHandler {
	if cfg.DefaultStation == 0 {
		cfg.DefaultStation = dashboard.DefaultStation
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &DashboardHandler{cfg: cfg}
}

// GetNav handles GET /v1/dashboard/nav?page=main|forecast.
func (h *DashboardHandler) GetNav(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		response.BadRequest(w, r, "unknown page", []models.FieldError{
			{Field: "page", Message: "must be main or forecast", Code: models.CodeInvalid},
		})
		return
	}

	shell := dashboard.NewShell()
	shell.Select(page)

	nav := models.Nav{Current: string(shell.Current())}
	for _, item := range shell.Nav() {
		nav.Items = append(nav.Items, models.NavItem{
			Label:  item.Label,
			Icon:   item.Icon,
			Page:   string(item.Page),
			Href:   item.Href,
			Active: item.Active,
		})
	}
	response.OK(w, r, nav)
}

// GetMainPage handles GET /v1/dashboard/main.
func (h *DashboardHandler) GetMainPage(w http.ResponseWriter, r *http.Request) {
	overview, err := h.cfg.Overview.FetchOverview(r.Context())
	if err != nil {
		if errors.Is(err, airquality.ErrOverviewNotFound) {
			response.NotFound(w, r, "no overview is configured for this area")
			return
		}
		h.cfg.Logger.Error().Err(err).Msg("failed to load overview")
		response.ServiceUnavailable(w, r, "overview temporarily unavailable")
		return
	}

	response.OK(w, r, dashboard.BuildMainPage(overview))
}

// GetForecastPage handles GET /v1/dashboard/forecast?station={id}&width={px}.
// The page is mounted on the requested station and answered once its fetch
// has settled, in either the ready or the error state.
func (h *DashboardHandler) GetForecastPage(w http.ResponseWriter, r *http.Request) {
	station, width, fieldErrs := h.parseForecastQuery(r)
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid forecast query", fieldErrs)
		return
	}

	page := dashboard.NewForecastPage(dashboard.ForecastPageConfig{
		Source:         h.cfg.Forecast,
		Normalizer:     h.cfg.Normalizer,
		Formatter:      h.cfg.Formatter,
		Stations:       h.cfg.Stations,
		DefaultStation: station,
		Viewport:       dashboard.NewViewport(width),
		Clock:          h.cfg.Clock,
		Logger:         h.cfg.Logger,
	})
	defer page.Close()

	select {
	case <-page.Mount(r.Context()):
	case <-r.Context().Done():
		return
	}

	response.OK(w, r, page.Snapshot())
}

func (h *DashboardHandler) parseForecastQuery(r *http.Request) (station, width int, errs []models.FieldError) {
	q := r.URL.Query()

	station = h.cfg.DefaultStation
	if raw := q.Get("station"); raw != "" {
		id, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, models.FieldError{Field: "station", Message: "must be an integer", Code: models.CodeInvalid})
		case !h.isForecastStation(id):
			errs = append(errs, models.FieldError{Field: "station", Message: "unknown forecast station", Code: models.CodeOutOfRange})
		default:
			station = id
		}
	}

	if raw := q.Get("width"); raw != "" {
		px, err := strconv.Atoi(raw)
		if err != nil || px < 0 || px > maxContainerWidth {
			errs = append(errs, models.FieldError{
				Field:   "width",
				Message: "must be an integer between 0 and " + strconv.Itoa(maxContainerWidth),
				Code:    models.CodeOutOfRange,
			})
		} else {
			width = px
		}
	}

	return station, width, errs
}

func (h *DashboardHandler) isForecastStation(id int) bool {
	stations := h.cfg.Stations
	if len(stations) == 0 {
		stations = []int{1, 2, 3, 4}
	}
	for _, s := range stations {
		if s == id {
			return true
		}
	}
	return false
}
