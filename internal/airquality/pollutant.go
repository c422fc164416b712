package airquality

import "strconv"

// Pollutant display names.
const (
	PollutantPM25 = "PM2.5"
	PollutantO3   = "O₃"
	PollutantCO   = "CO"
	PollutantNO2  = "NO₂"
)

// PollutantCode is the numeric dominant-pollutant code emitted by the forecast model.
type PollutantCode float64

var pollutantNames = map[PollutantCode]string{
	0: PollutantPM25,
	1: PollutantO3,
	2: PollutantCO,
	3: PollutantNO2,
}

// Name returns the display name for the code. Unknown codes are returned
// unchanged as their textual value.
func (c PollutantCode) Name() string {
	if name, ok := pollutantNames[c]; ok {
		return name
	}
	return strconv.FormatFloat(float64(c), 'f', -1, 64)
}

// PollutantName is shorthand for PollutantCode(code).Name().
func PollutantName(code float64) string {
	return PollutantCode(code).Name()
}

// KnownPollutants returns the code table in code order.
func KnownPollutants() []PollutantCode {
	return []PollutantCode{0, 1, 2, 3}
}
