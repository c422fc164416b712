package models

// StationInfo describes one monitoring station.
type StationInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`

	// Forecast is true when the station can be selected on the forecast page.
	Forecast bool `json:"forecast"`

	// HasReading is true when the overview carries a current AQI for the station.
	HasReading bool `json:"hasReading"`
}

// Stations lists the known stations.
type Stations struct {
	Items          []StationInfo `json:"items"`
	DefaultStation int           `json:"defaultStation"`
}

// AQIBand describes one severity band. UpperBound is omitted for the open-ended top band.
type AQIBand struct {
	Label      string   `json:"label"`
	Slug       string   `json:"slug"`
	UpperBound *float64 `json:"upperBound,omitempty"`
}

// PollutantInfo maps a model pollutant code to its display name.
type PollutantInfo struct {
	Code float64 `json:"code"`
	Name string  `json:"name"`
}

// Enums lists the closed vocabularies used by the API.
type Enums struct {
	Bands      []AQIBand       `json:"bands"`
	Pollutants []PollutantInfo `json:"pollutants"`
	Pages      []string        `json:"pages"`
	Statuses   []string        `json:"statuses"`
}
