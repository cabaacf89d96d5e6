package physics

import (
	"math"

	"stylistapi/models"
)

// ApparentTemperature converts raw air temperature into the perceived one.
// Wind chill applies in cold wind, a heat-index approximation in humid
// heat, otherwise the raw reading passes through.
func ApparentTemperature(w models.WeatherContext) float64 {
	t := w.TemperatureC
	if t <= 10 && w.WindKph > 4.8 {
		v := math.Pow(w.WindKph, 0.16)
		return 13.12 + 0.6215*t - 11.37*v + 0.3965*t*v
	}
	if t >= 27 && w.HumidityPct > 40 {
		// Steadman-style approximation from vapour pressure
		e := w.HumidityPct / 100.0 * 6.105 * math.Exp(17.27*t/(237.7+t))
		return t + 0.33*e - 4.0
	}
	return t
}

// SeasonalBias models acclimatization: a positive bias means the weather
// feels colder than the thermometer suggests. When the 14-day average is
// known it wins; otherwise a calendar heuristic applies (autumn feels
// colder than the same reading in spring).
func SeasonalBias(w models.WeatherContext) float64 {
	if w.AcclimatizationTempC != nil {
		diff := *w.AcclimatizationTempC - w.TemperatureC
		if diff > 5 {
			return 0.2
		}
		if diff < -5 {
			return -0.2
		}
		return 0
	}
	switch w.Season {
	case models.SeasonAutumn:
		return 0.15
	case models.SeasonSpring:
		return -0.15
	}
	return 0
}

// LogicTemperature is the working temperature all garment rules run
// against: apparent temperature shifted by the acclimatization bias.
func LogicTemperature(w models.WeatherContext) float64 {
	return ApparentTemperature(w) - SeasonalBias(w)*10
}
