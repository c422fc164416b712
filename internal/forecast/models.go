// Package forecast fetches per-station AQI predictions from the hosted forecast endpoint.
package forecast

// Record is one forecast entry; the upstream returns one per hour offset,
// starting at offset 0. Fields missing from the payload decode as zero.
type Record struct {
	// AQIPred is the raw (model-scale) AQI prediction.
	AQIPred float64 `json:"aqi_pred"`

	// PollutantPred is the raw predicted dominant-pollutant code.
	PollutantPred float64 `json:"aqi_pollutant_pred"`
}
