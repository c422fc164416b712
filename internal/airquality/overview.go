package airquality

import "context"

// OverviewProvider supplies the main page's aggregate reading and station list.
type OverviewProvider interface {
	// FetchOverview returns the current overview.
	FetchOverview(ctx context.Context) (*Overview, error)
}

// StaticOverviewProvider serves a fixed overview.
type StaticOverviewProvider struct {
	overview Overview
}

// NewStaticOverviewProvider creates a provider that always returns overview.
func NewStaticOverviewProvider(overview Overview) *StaticOverviewProvider {
	return &StaticOverviewProvider{overview: overview}
}

// FetchOverview returns a copy of the fixed overview.
func (p *StaticOverviewProvider) FetchOverview(_ context.Context) (*Overview, error) {
	o := p.overview
	o.Stations = append([]Station(nil), p.overview.Stations...)
	return &o, nil
}

func float64Ptr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }

// DefaultOverview returns the Ho Chi Minh City overview used until a live source is configured.
func DefaultOverview() Overview {
	return Overview{
		Location:      "HCM AQI",
		AQI:           110,
		MainPollutant: "PM2.5",
		Stations: []Station{
			{ID: 1, Name: "Urban Area of Viet Nam National University, Thu Duc City"},
			{ID: 2, Name: "Department of Education and Training of Binh Tan District", AQI: float64Ptr(110), MainPollutant: stringPtr("PM2.5")},
			{ID: 3, Name: "MobiFone Transmission Station, Tan Binh District", AQI: float64Ptr(77), MainPollutant: stringPtr("PM2.5")},
			{ID: 4, Name: "Cu Chinh Lan School, Thanh Da, Binh Thanh District", AQI: float64Ptr(71), MainPollutant: stringPtr("PM2.5")},
			{ID: 5, Name: "Thanh Nien Newspaper Headquarters, D3"},
			{ID: 6, Name: "MobiFone Thanh Thai, District 10", AQI: float64Ptr(78), MainPollutant: stringPtr("NO2")},
		},
	}
}

// Ensure StaticOverviewProvider implements OverviewProvider.
var _ OverviewProvider = (*StaticOverviewProvider)(nil)
