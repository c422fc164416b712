package airquality_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcmaqi/aqidash/internal/airquality"
)

func TestDefaultOverview(t *testing.T) {
	o := airquality.DefaultOverview()

	assert.Equal(t, "HCM AQI", o.Location)
	assert.Equal(t, 110.0, o.AQI)
	assert.Equal(t, "PM2.5", o.MainPollutant)
	require.Len(t, o.Stations, 6)

	assert.False(t, o.Stations[0].HasAQI())
	assert.False(t, o.Stations[0].HasPollutant())
	assert.True(t, o.Stations[1].HasAQI())
	assert.Equal(t, 110.0, *o.Stations[1].AQI)
	assert.Equal(t, "NO2", *o.Stations[5].MainPollutant)
}

func TestStaticOverviewProvider_ReturnsCopy(t *testing.T) {
	provider := airquality.NewStaticOverviewProvider(airquality.DefaultOverview())

	first, err := provider.FetchOverview(context.Background())
	require.NoError(t, err)
	first.Stations[0].Name = "changed"
	first.AQI = 1

	second, err := provider.FetchOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 110.0, second.AQI)
	assert.NotEqual(t, "changed", second.Stations[0].Name)
}

func TestStation_HasPollutant_EmptyString(t *testing.T) {
	empty := ""
	s := airquality.Station{MainPollutant: &empty}
	assert.False(t, s.HasPollutant())
}
