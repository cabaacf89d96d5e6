package models

// WeatherContext is the immutable weather snapshot one generation request
// runs against. AcclimatizationTempC is the 14-day average the user is used
// to, when history is available.
type WeatherContext struct {
	TemperatureC         float64  `json:"temperature_c"`
	WindKph              float64  `json:"wind_kph"`
	HumidityPct          float64  `json:"humidity_pct"`
	Precipitation        bool     `json:"precipitation"`
	Sunny                bool     `json:"sunny"`
	Season               Season   `json:"season"`
	AcclimatizationTempC *float64 `json:"acclimatization_temp_c,omitempty"`
}

type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// ActivityLevel comes from the optional user context, defaults to normal.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityNormal ActivityLevel = "normal"
	ActivityHigh   ActivityLevel = "high"
)

type UserContext struct {
	Activity ActivityLevel `json:"activity"`
}
