package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stylistapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonFor(t *testing.T) {
	cases := []struct {
		month    time.Month
		latitude float64
		expected models.Season
	}{
		{time.January, 52.52, models.SeasonWinter},
		{time.April, 52.52, models.SeasonSpring},
		{time.July, 52.52, models.SeasonSummer},
		{time.October, 52.52, models.SeasonAutumn},
		// southern hemisphere flips the seasons
		{time.January, -33.87, models.SeasonSummer},
		{time.July, -33.87, models.SeasonWinter},
		{time.April, -33.87, models.SeasonAutumn},
		{time.October, -33.87, models.SeasonSpring},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, SeasonFor(c.month, c.latitude), "month %v latitude %v", c.month, c.latitude)
	}
}

func TestWeatherCodes(t *testing.T) {
	assert.True(t, isSunnyCode(0))
	assert.True(t, isSunnyCode(2))
	assert.False(t, isSunnyCode(3))
	assert.False(t, isPrecipitationCode(45)) // fog
	assert.True(t, isPrecipitationCode(51))  // drizzle
	assert.True(t, isPrecipitationCode(73))  // snow
}

func TestBuildWeatherContext(t *testing.T) {
	mean := func(v float64) *float64 { return &v }
	payload := &openMeteoResponse{
		Current: openMeteoCurrent{
			TemperatureC:  4.5,
			HumidityPct:   70,
			Precipitation: 0,
			WeatherCode:   61, // rain
			WindSpeedKmh:  22,
		},
		Daily: openMeteoDaily{
			TemperatureMeanC: []*float64{mean(6), nil, mean(8), mean(10)},
		},
	}
	now := time.Date(2026, time.January, 15, 8, 0, 0, 0, time.UTC)

	weather := buildWeatherContext(payload, 52.52, now)

	assert.InDelta(t, 4.5, weather.TemperatureC, 0.001)
	assert.InDelta(t, 22, weather.WindKph, 0.001)
	assert.True(t, weather.Precipitation)
	assert.False(t, weather.Sunny)
	assert.Equal(t, models.SeasonWinter, weather.Season)
	require.NotNil(t, weather.AcclimatizationTempC)
	assert.InDelta(t, 8, *weather.AcclimatizationTempC, 0.001)
}

func TestBuildWeatherContextNoHistory(t *testing.T) {
	payload := &openMeteoResponse{
		Current: openMeteoCurrent{TemperatureC: 24, WeatherCode: 1},
	}
	weather := buildWeatherContext(payload, 52.52, time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC))

	assert.True(t, weather.Sunny)
	assert.False(t, weather.Precipitation)
	assert.Nil(t, weather.AcclimatizationTempC)
}

func TestFetchWeatherOk(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current": {"temperature_2m": 18.3, "relative_humidity_2m": 55, "precipitation": 0, "weather_code": 1, "wind_speed_10m": 9.7},
			"daily": {"time": ["2026-08-17"], "temperature_2m_mean": [17.0]}
		}`))
	}))
	defer server.Close()

	service := OpenMeteoWeatherService{BaseURL: server.URL}
	weather, err := service.FetchWeather(context.Background(), 52.52, 13.405)
	require.NoError(t, err)

	assert.InDelta(t, 18.3, weather.TemperatureC, 0.001)
	assert.InDelta(t, 9.7, weather.WindKph, 0.001)
	assert.True(t, weather.Sunny)
	require.NotNil(t, weather.AcclimatizationTempC)
	assert.InDelta(t, 17.0, *weather.AcclimatizationTempC, 0.001)

	assert.Contains(t, requestedPath, "/v1/forecast")
	assert.Contains(t, requestedPath, "latitude=52.5200")
	assert.Contains(t, requestedPath, "past_days=14")
	assert.Contains(t, requestedPath, "wind_speed_unit=kmh")
}

func TestFetchWeatherServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	service := OpenMeteoWeatherService{BaseURL: server.URL}
	_, err := service.FetchWeather(context.Background(), 52.52, 13.405)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
