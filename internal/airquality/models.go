// Package airquality provides AQI classification, pollutant naming, forecast
// normalization, and access to the station overview shown on the main page.
package airquality

import "errors"

// Provider errors.
var (
	ErrOverviewNotFound    = errors.New("overview not found")
	ErrProviderUnavailable = errors.New("overview provider unavailable")
)

// Station represents an air quality monitoring station as listed on the main page.
// AQI and MainPollutant are nil when the station has no current reading.
type Station struct {
	ID            int
	Name          string
	AQI           *float64
	MainPollutant *string
}

// HasAQI reports whether the station carries a current AQI reading.
func (s *Station) HasAQI() bool {
	return s.AQI != nil
}

// HasPollutant reports whether the station carries a dominant pollutant.
func (s *Station) HasPollutant() bool {
	return s.MainPollutant != nil && *s.MainPollutant != ""
}

// Overview is the aggregate reading for an area plus its station list.
type Overview struct {
	// Location is the display name of the aggregate area (e.g. "HCM AQI").
	Location string

	// AQI is the aggregate AQI for the area.
	AQI float64

	// MainPollutant is the dominant pollutant for the area.
	MainPollutant string

	// Stations are listed in display order.
	Stations []Station
}
