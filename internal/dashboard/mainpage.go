package dashboard

import (
	"strconv"

	"github.com/hcmaqi/aqidash/internal/airquality"
)

// StationMapPath is the static station map shown on the main page.
const StationMapPath = "/static/station_map.svg"

// OverviewCard is the aggregate AQI card.
type OverviewCard struct {
	AQI           float64 `json:"aqi"`
	Location      string  `json:"location"`
	MainPollutant string  `json:"mainPollutant"`
	Status        string  `json:"status"`
	Category      string  `json:"category"`
	Class         string  `json:"class"`
}

// StationRow is one row of the station table. Absent readings render as empty
// text and carry no severity class.
type StationRow struct {
	Index          int    `json:"index"`
	StationID      int    `json:"stationId"`
	Name           string `json:"name"`
	AQI            string `json:"aqi"`
	AQIClass       string `json:"aqiClass"`
	Pollutant      string `json:"pollutant"`
	PollutantClass string `json:"pollutantClass"`
}

// MainPageView is everything the main page renders.
type MainPageView struct {
	Breadcrumb string       `json:"breadcrumb"`
	Title      string       `json:"title"`
	MapImage   string       `json:"mapImage"`
	Overview   OverviewCard `json:"overview"`
	Stations   []StationRow `json:"stations"`
}

// BuildMainPage derives the main page view from an overview.
func BuildMainPage(o *airquality.Overview) MainPageView {
	band := airquality.Classify(o.AQI)

	view := MainPageView{
		Breadcrumb: "Pages/Main Page",
		Title:      "Main Page",
		MapImage:   StationMapPath,
		Overview: OverviewCard{
			AQI:           o.AQI,
			Location:      o.Location,
			MainPollutant: o.MainPollutant,
			Status:        band.Label(),
			Category:      band.Slug(),
			Class:         "aqi-overview " + airquality.CategoryClass(o.AQI),
		},
		Stations: make([]StationRow, len(o.Stations)),
	}

	for i := range o.Stations {
		view.Stations[i] = buildStationRow(i+1, &o.Stations[i])
	}

	return view
}

func buildStationRow(index int, s *airquality.Station) StationRow {
	row := StationRow{
		Index:          index,
		StationID:      s.ID,
		Name:           s.Name,
		AQIClass:       "aqi-cell",
		PollutantClass: "pollutant-cell",
	}

	if s.HasAQI() {
		row.AQI = strconv.FormatFloat(*s.AQI, 'f', -1, 64)
		row.AQIClass += " " + airquality.CategoryClass(*s.AQI)
	}

	if s.HasPollutant() {
		row.Pollutant = *s.MainPollutant
		row.PollutantClass += " pollutant-" + *s.MainPollutant
	}

	return row
}
