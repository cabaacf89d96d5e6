package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stylistapi/models"
)

// WeatherServiceProvider resolves the weather snapshot a generation runs
// against. The production implementation calls Open-Meteo, tests swap in
// a canned one.
type WeatherServiceProvider interface {
	FetchWeather(ctx context.Context, latitude float64, longitude float64) (*models.WeatherContext, error)
}

type OpenMeteoWeatherService struct {
	// BaseURL overrides the API host, empty means the real service.
	BaseURL string
}

const openMeteoBaseURL = "https://api.open-meteo.com"

// acclimatization window, in days of daily-mean history
const acclimatizationDays = 14

type openMeteoCurrent struct {
	TemperatureC  float64 `json:"temperature_2m"`
	HumidityPct   float64 `json:"relative_humidity_2m"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weather_code"`
	WindSpeedKmh  float64 `json:"wind_speed_10m"`
}

type openMeteoDaily struct {
	Time             []string   `json:"time"`
	TemperatureMeanC []*float64 `json:"temperature_2m_mean"`
}

type openMeteoResponse struct {
	Current openMeteoCurrent `json:"current"`
	Daily   openMeteoDaily   `json:"daily"`
}

// SeasonFor derives the meteorological season from the month, flipped for
// the southern hemisphere.
func SeasonFor(month time.Month, latitude float64) models.Season {
	var season models.Season
	switch month {
	case time.December, time.January, time.February:
		season = models.SeasonWinter
	case time.March, time.April, time.May:
		season = models.SeasonSpring
	case time.June, time.July, time.August:
		season = models.SeasonSummer
	default:
		season = models.SeasonAutumn
	}
	if latitude >= 0 {
		return season
	}
	switch season {
	case models.SeasonWinter:
		return models.SeasonSummer
	case models.SeasonSummer:
		return models.SeasonWinter
	case models.SeasonSpring:
		return models.SeasonAutumn
	default:
		return models.SeasonSpring
	}
}

// WMO weather codes: 0 clear, 1 mainly clear, 2 partly cloudy.
func isSunnyCode(code int) bool {
	return code <= 2
}

// Codes 51 and above cover drizzle, rain, snow and showers.
func isPrecipitationCode(code int) bool {
	return code >= 51
}

func buildWeatherContext(payload *openMeteoResponse, latitude float64, now time.Time) *models.WeatherContext {
	weather := &models.WeatherContext{
		TemperatureC:  payload.Current.TemperatureC,
		WindKph:       payload.Current.WindSpeedKmh,
		HumidityPct:   payload.Current.HumidityPct,
		Precipitation: payload.Current.Precipitation > 0 || isPrecipitationCode(payload.Current.WeatherCode),
		Sunny:         isSunnyCode(payload.Current.WeatherCode),
		Season:        SeasonFor(now.Month(), latitude),
	}

	var sum float64
	var count int
	for _, mean := range payload.Daily.TemperatureMeanC {
		if mean == nil {
			continue
		}
		sum += *mean
		count++
	}
	if count > 0 {
		avg := sum / float64(count)
		weather.AcclimatizationTempC = &avg
	}
	return weather
}

func (service OpenMeteoWeatherService) FetchWeather(ctx context.Context, latitude float64, longitude float64) (*models.WeatherContext, error) {
	baseURL := service.BaseURL
	if baseURL == "" {
		baseURL = openMeteoBaseURL
	}
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m&daily=temperature_2m_mean&past_days=%d&forecast_days=1&wind_speed_unit=kmh",
		baseURL, latitude, longitude, acclimatizationDays,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %v", err)
	}
	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Println("Weather API error response:", resp.StatusCode, string(body))
		return nil, fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %v", err)
	}

	return buildWeatherContext(&payload, latitude, time.Now()), nil
}
