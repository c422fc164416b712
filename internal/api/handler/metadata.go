package handler

import (
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/hcmaqi/aqidash/internal/airquality"
	"github.com/hcmaqi/aqidash/internal/api/models"
	"github.com/hcmaqi/aqidash/internal/api/response"
	"github.com/hcmaqi/aqidash/internal/dashboard"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	overview       airquality.OverviewProvider
	stations       []int
	defaultStation int
	logger         zerolog.Logger
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(overview airquality.OverviewProvider, stations []int, defaultStation int, logger zerolog.Logger) *MetadataHandler {
	return &MetadataHandler{
		overview:       overview,
		stations:       stations,
		defaultStation: defaultStation,
		logger:         logger,
	}
}

// ListStations handles GET /v1/metadata/stations. Overview stations come first
// in display order, followed by forecast-only stations. When the overview is
// unavailable only the forecast stations are listed.
func (h *MetadataHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	var items []models.StationInfo

	overview, err := h.overview.FetchOverview(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("station metadata without overview")
	} else {
		for _, s := range overview.Stations {
			items = append(items, models.StationInfo{
				ID:         s.ID,
				Name:       s.Name,
				Forecast:   slices.Contains(h.stations, s.ID),
				HasReading: s.HasAQI(),
			})
		}
	}

	for _, id := range h.stations {
		if !slices.ContainsFunc(items, func(s models.StationInfo) bool { return s.ID == id }) {
			items = append(items, models.StationInfo{ID: id, Forecast: true})
		}
	}

	response.OK(w, r, models.Stations{
		Items:          items,
		DefaultStation: h.defaultStation,
	})
}

// GetEnums handles GET /v1/metadata/enums.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		Pages: []string{string(dashboard.PageMain), string(dashboard.PageForecast)},
		Statuses: []string{
			string(dashboard.StatusLoading),
			string(dashboard.StatusError),
			string(dashboard.StatusReady),
		},
	}

	for _, b := range airquality.Bands() {
		band := models.AQIBand{Label: b.Label(), Slug: b.Slug()}
		if b != airquality.BandHazardous {
			upper := b.UpperBound()
			band.UpperBound = &upper
		}
		enums.Bands = append(enums.Bands, band)
	}

	for _, code := range airquality.KnownPollutants() {
		enums.Pollutants = append(enums.Pollutants, models.PollutantInfo{
			Code: float64(code),
			Name: code.Name(),
		})
	}

	response.OK(w, r, enums)
}
