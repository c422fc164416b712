package airquality

import (
	"math"
	"strings"
)

// Band is one of the six ordered AQI severity bands. The zero value is BandGood.
type Band int

const (
	BandGood Band = iota
	BandModerate
	BandUnhealthySensitive
	BandUnhealthy
	BandVeryUnhealthy
	BandHazardous
)

type bandInfo struct {
	upper float64
	label string
}

// bandTable is ordered by severity; upper bounds are inclusive.
var bandTable = [...]bandInfo{
	BandGood:               {upper: 50, label: "Good"},
	BandModerate:           {upper: 100, label: "Moderate"},
	BandUnhealthySensitive: {upper: 150, label: "Unhealthy for Sensitive Groups"},
	BandUnhealthy:          {upper: 200, label: "Unhealthy"},
	BandVeryUnhealthy:      {upper: 300, label: "Very Unhealthy"},
	BandHazardous:          {upper: math.Inf(1), label: "Hazardous"},
}

// Classify returns the band whose inclusive upper bound is the smallest
// threshold not below aqi. Values above 300 are Hazardous.
// Negative and NaN inputs are not meaningful and must be guarded by callers.
func Classify(aqi float64) Band {
	for b, info := range bandTable {
		if aqi <= info.upper {
			return Band(b)
		}
	}
	return BandHazardous
}

// Bands returns all bands in increasing severity.
func Bands() []Band {
	bands := make([]Band, len(bandTable))
	for i := range bandTable {
		bands[i] = Band(i)
	}
	return bands
}

// Label returns the human-readable severity label.
func (b Band) Label() string {
	if b < BandGood || b > BandHazardous {
		return ""
	}
	return bandTable[b].label
}

// Slug returns the style identifier derived from the label,
// e.g. "unhealthy-for-sensitive-groups".
func (b Band) Slug() string {
	return strings.ReplaceAll(strings.ToLower(b.Label()), " ", "-")
}

// UpperBound returns the inclusive upper AQI bound of the band (+Inf for Hazardous).
func (b Band) UpperBound() float64 {
	if b < BandGood || b > BandHazardous {
		return math.NaN()
	}
	return bandTable[b].upper
}

func (b Band) String() string {
	return b.Label()
}

// CategoryClass returns the card/table style class for aqi, e.g. "aqi-moderate".
func CategoryClass(aqi float64) string {
	return "aqi-" + Classify(aqi).Slug()
}

// StyleClass returns the style class for aqi with a caller-supplied prefix,
// e.g. StyleClass(42, "forecast") == "forecast-aqi-good".
func StyleClass(aqi float64, prefix string) string {
	return prefix + "-aqi-" + Classify(aqi).Slug()
}
