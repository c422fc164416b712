package airquality

import "github.com/hcmaqi/aqidash/internal/forecast"

// Scaler converts a raw model output into a display-scale value.
type Scaler interface {
	Scale(v float64) float64
}

// ScalerFunc adapts a plain function to Scaler.
type ScalerFunc func(float64) float64

// Scale calls f(v).
func (f ScalerFunc) Scale(v float64) float64 {
	return f(v)
}

// Identity returns its input unchanged.
var Identity Scaler = ScalerFunc(func(v float64) float64 { return v })

// MinMax reverses min-max normalization: a model output in [0,1] maps to
// Min + v*(Max-Min). Values outside [0,1] are extrapolated, not clamped.
type MinMax struct {
	Min float64
	Max float64
}

// Scale implements Scaler.
func (m MinMax) Scale(v float64) float64 {
	return m.Min + v*(m.Max-m.Min)
}

// Normalized is a display-ready forecast entry.
type Normalized struct {
	// Hour is the hour offset, 0 being the soonest.
	Hour int

	// AQI is the scaled AQI prediction.
	AQI float64

	// PollutantLevel is the scaled pollutant prediction.
	PollutantLevel float64

	// Pollutant is the display name of the predicted dominant pollutant.
	Pollutant string
}

// Normalizer applies the AQI and pollutant scalers uniformly to a forecast sequence.
type Normalizer struct {
	AQI       Scaler
	Pollutant Scaler
}

// NewNormalizer creates a Normalizer. Nil scalers default to Identity.
func NewNormalizer(aqi, pollutant Scaler) *Normalizer {
	if aqi == nil {
		aqi = Identity
	}
	if pollutant == nil {
		pollutant = Identity
	}
	return &Normalizer{AQI: aqi, Pollutant: pollutant}
}

// NormalizeRecord converts a single raw record at the given hour offset.
func (n *Normalizer) NormalizeRecord(hour int, rec forecast.Record) Normalized {
	return Normalized{
		Hour:           hour,
		AQI:            n.AQI.Scale(rec.AQIPred),
		PollutantLevel: n.Pollutant.Scale(rec.PollutantPred),
		Pollutant:      PollutantName(rec.PollutantPred),
	}
}

// Normalize converts every record, pairing each with its index as hour offset.
func (n *Normalizer) Normalize(records []forecast.Record) []Normalized {
	out := make([]Normalized, len(records))
	for i, rec := range records {
		out[i] = n.NormalizeRecord(i, rec)
	}
	return out
}

// TrendingPollutant returns the pollutant name of the soonest record, or "" when
// there are no records.
func TrendingPollutant(records []forecast.Record) string {
	if len(records) == 0 {
		return ""
	}
	return PollutantName(records[0].PollutantPred)
}
