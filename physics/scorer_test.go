package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylistapi/models"
)

func f64(v float64) *float64 { return &v }

func weave(w models.FabricWeave) *models.FabricWeave { return &w }

func coldWindyDay() models.WeatherContext {
	return models.WeatherContext{TemperatureC: -2, WindKph: 25, HumidityPct: 60, Season: models.SeasonWinter}
}

func TestEstimateCloCombinesArchetypeMaterialWeave(t *testing.T) {
	s := NewDefaultScorer()
	blazer := models.Garment{
		Category:    "outerwear",
		Subcategory: "Blazer",
		Materials:   []string{"wool"},
		FabricWeave: weave(models.WeaveTweed),
		LayerType:   models.LayerMid,
	}
	clo, archetype, mod := s.EstimateClo(blazer)
	assert.Equal(t, "blazer", archetype.Name)
	assert.Equal(t, 1.25, mod)
	assert.InDelta(t, 0.35*1.25*1.25, clo, 0.0001)
}

func TestEstimateCloToleratesPercentagePrefix(t *testing.T) {
	s := NewDefaultScorer()
	tee := models.Garment{
		Category:    "tops",
		Subcategory: "T-Shirt",
		Materials:   []string{"100% Cotton"},
		LayerType:   models.LayerBase,
	}
	clo, _, _ := s.EstimateClo(tee)
	assert.InDelta(t, 0.1, clo, 0.0001)
}

func TestWindbreakerBelowComfortFloorScoresExactlyZero(t *testing.T) {
	s := NewDefaultScorer()
	windbreaker := models.Garment{
		Category:    "outerwear",
		Subcategory: "Windbreaker",
		Materials:   []string{"nylon"},
		LayerType:   models.LayerOuter,
		ComfortMinC: f64(5),
	}
	report := s.Score(windbreaker, coldWindyDay(), models.UserContext{})
	assert.False(t, report.IsSuitable)
	assert.Equal(t, 0.0, report.Score)
	require.NotEmpty(t, report.Adjustments)
	last := report.Adjustments[len(report.Adjustments)-1]
	assert.True(t, last.ForceZero)
	assert.Equal(t, "below_comfort_min_exposed", last.Rule)
}

func TestShearlingWinsTheColdWindyDay(t *testing.T) {
	s := NewDefaultScorer()
	shearling := models.Garment{
		Category:    "outerwear",
		Subcategory: "Shearling Coat",
		Materials:   []string{"shearling"},
		LayerType:   models.LayerOuter,
		ComfortMinC: f64(-20),
		ComfortMaxC: f64(8),
	}
	report := s.Score(shearling, coldWindyDay(), models.UserContext{})
	assert.True(t, report.IsSuitable)
	rules := make([]string, 0, len(report.Adjustments))
	for _, adj := range report.Adjustments {
		rules = append(rules, adj.Rule)
	}
	assert.Contains(t, rules, "shearling_cold")
	assert.Contains(t, rules, "wind_resistant_shell")
}

func TestShearlingAboveFiveDegreesIsHardDisqualified(t *testing.T) {
	s := NewDefaultScorer()
	shearling := models.Garment{
		Category:    "outerwear",
		Subcategory: "Shearling Coat",
		Materials:   []string{"shearling"},
		LayerType:   models.LayerOuter,
	}
	w := models.WeatherContext{TemperatureC: 12, Season: models.SeasonSummer}
	report := s.Score(shearling, w, models.UserContext{})
	assert.Equal(t, 0.0, report.Score)
	assert.False(t, report.IsSuitable)
}

func TestHeavyInsulationInMildWeatherIsHardDisqualified(t *testing.T) {
	s := NewDefaultScorer()
	puffer := models.Garment{
		Category:    "outerwear",
		Subcategory: "Puffer Jacket",
		Materials:   []string{"polyester"},
		LayerType:   models.LayerOuter,
	}
	w := models.WeatherContext{TemperatureC: 18, Season: models.SeasonSummer}
	report := s.Score(puffer, w, models.UserContext{})
	assert.Equal(t, 0.0, report.Score)
	require.NotEmpty(t, report.Adjustments)
	assert.Equal(t, "heavy_insulation_mild_weather", report.Adjustments[0].Rule)
}

func TestHydrophilicFillPenalizedInWetCold(t *testing.T) {
	s := NewDefaultScorer()
	downPuffer := models.Garment{
		Category:    "outerwear",
		Subcategory: "Puffer Jacket",
		Materials:   []string{"down"},
		LayerType:   models.LayerOuter,
	}
	w := models.WeatherContext{TemperatureC: 2, Precipitation: true, Season: models.SeasonWinter}
	report := s.Score(downPuffer, w, models.UserContext{})
	require.NotEmpty(t, report.Adjustments)
	assert.Equal(t, "wet_cold_hydrophilic", report.Adjustments[0].Rule)
	assert.Equal(t, -25.0, report.Adjustments[0].Delta)
}

func TestWoolKeepsInsulatingWhileDamp(t *testing.T) {
	s := NewDefaultScorer()
	overcoat := models.Garment{
		Category:    "outerwear",
		Subcategory: "Overcoat",
		Materials:   []string{"wool"},
		LayerType:   models.LayerOuter,
	}
	w := models.WeatherContext{TemperatureC: 4, Precipitation: true, Season: models.SeasonWinter}
	report := s.Score(overcoat, w, models.UserContext{})
	rules := make([]string, 0, len(report.Adjustments))
	for _, adj := range report.Adjustments {
		rules = append(rules, adj.Rule)
	}
	assert.NotContains(t, rules, "wet_cold_hydrophilic")
	assert.Contains(t, rules, "moisture_sorption")
}

func TestLowBreathabilityPenalizedAtHighActivity(t *testing.T) {
	s := NewDefaultScorer()
	shell := models.Garment{
		Category:    "outerwear",
		Subcategory: "Windbreaker",
		Materials:   []string{"nylon"},
		LayerType:   models.LayerOuter,
	}
	w := models.WeatherContext{TemperatureC: 14, Season: models.SeasonSummer}
	relaxed := s.Score(shell, w, models.UserContext{Activity: models.ActivityNormal})
	sweaty := s.Score(shell, w, models.UserContext{Activity: models.ActivityHigh})
	assert.Equal(t, relaxed.Score-15, sweaty.Score)
}

func TestSandalsInRainAreHardDisqualified(t *testing.T) {
	s := NewDefaultScorer()
	sandals := models.Garment{
		Category:    "shoes",
		Subcategory: "Sandals",
		Materials:   []string{"leather"},
		LayerType:   models.LayerShoes,
	}
	w := models.WeatherContext{TemperatureC: 26, Precipitation: true, Season: models.SeasonSummer}
	report := s.Score(sandals, w, models.UserContext{})
	assert.Equal(t, 0.0, report.Score)

	w.Precipitation = false
	dry := s.Score(sandals, w, models.UserContext{})
	assert.True(t, dry.IsSuitable)
}

func TestWindPermeableOuterPenalizedInStrongWind(t *testing.T) {
	s := NewDefaultScorer()
	chore := models.Garment{
		Category:    "outerwear",
		Subcategory: "Chore Jacket",
		Materials:   []string{"cotton"},
		LayerType:   models.LayerOuter,
	}
	calm := models.WeatherContext{TemperatureC: 12, WindKph: 5, Season: models.SeasonSummer}
	gusty := models.WeatherContext{TemperatureC: 12, WindKph: 30, Season: models.SeasonSummer}
	assert.Greater(t, s.Score(chore, calm, models.UserContext{}).Score, s.Score(chore, gusty, models.UserContext{}).Score)
}

func TestBreathableWeaveRewardedInHeat(t *testing.T) {
	s := NewDefaultScorer()
	plain := models.Garment{
		Category:    "tops",
		Subcategory: "Shirt",
		Materials:   []string{"cotton"},
		LayerType:   models.LayerBase,
		FabricWeave: weave(models.WeaveStandard),
	}
	seersucker := plain
	seersucker.FabricWeave = weave(models.WeaveSeersucker)

	w := models.WeatherContext{TemperatureC: 30, HumidityPct: 30, Season: models.SeasonSummer}
	assert.Greater(t, s.Score(seersucker, w, models.UserContext{}).Score, s.Score(plain, w, models.UserContext{}).Score)
}

func TestSyntheticLowBreathabilityPenalizedInHeat(t *testing.T) {
	s := NewDefaultScorer()
	polyTee := models.Garment{
		Category:    "tops",
		Subcategory: "T-Shirt",
		Materials:   []string{"polyester"},
		LayerType:   models.LayerBase,
	}
	w := models.WeatherContext{TemperatureC: 30, HumidityPct: 30, Season: models.SeasonSummer}
	report := s.Score(polyTee, w, models.UserContext{})
	rules := make([]string, 0, len(report.Adjustments))
	for _, adj := range report.Adjustments {
		rules = append(rules, adj.Rule)
	}
	assert.Contains(t, rules, "hot_weather_synthetic")
}

func TestScoreDropsStrictlyAsHeatOvershootGrows(t *testing.T) {
	s := NewDefaultScorer()
	tee := models.Garment{
		Category:    "tops",
		Subcategory: "T-Shirt",
		Materials:   []string{"cotton"},
		LayerType:   models.LayerBase,
		ComfortMaxC: f64(20),
	}
	prev := s.Score(tee, models.WeatherContext{TemperatureC: 26, HumidityPct: 30, Season: models.SeasonSummer}, models.UserContext{}).Score
	for _, temp := range []float64{27, 28, 29, 30} {
		got := s.Score(tee, models.WeatherContext{TemperatureC: temp, HumidityPct: 30, Season: models.SeasonSummer}, models.UserContext{}).Score
		assert.Less(t, got, prev, "score must keep falling as the overshoot grows")
		prev = got
	}
}

func TestBaseLayerUnderComfortFloorIsForgivenWhenLayered(t *testing.T) {
	s := NewDefaultScorer()
	tee := models.Garment{
		Category:    "tops",
		Subcategory: "T-Shirt",
		Materials:   []string{"cotton"},
		LayerType:   models.LayerBase,
		ComfortMinC: f64(15),
	}
	// cold enough that the outfit will carry mid and outer layers on top
	w := models.WeatherContext{TemperatureC: 4, Season: models.SeasonWinter}
	report := s.Score(tee, w, models.UserContext{})
	for _, adj := range report.Adjustments {
		assert.False(t, adj.ForceZero)
		assert.NotEqual(t, "below_comfort_min_layered", adj.Rule)
	}
}

func TestSweaterPrefersColdOverMild(t *testing.T) {
	s := NewDefaultScorer()
	sweater := models.Garment{
		Category:    "tops",
		Subcategory: "Sweater",
		Materials:   []string{"wool"},
		LayerType:   models.LayerMid,
	}
	cold := s.Score(sweater, models.WeatherContext{TemperatureC: 5, Season: models.SeasonWinter}, models.UserContext{})
	mild := s.Score(sweater, models.WeatherContext{TemperatureC: 22, Season: models.SeasonSummer}, models.UserContext{})
	assert.True(t, cold.IsSuitable)
	assert.Greater(t, cold.Score, mild.Score)
}

func TestScoreStaysWithinBounds(t *testing.T) {
	s := NewDefaultScorer()
	shearling := models.Garment{
		Category:    "outerwear",
		Subcategory: "Shearling Coat",
		Materials:   []string{"shearling"},
		LayerType:   models.LayerOuter,
	}
	report := s.Score(shearling, coldWindyDay(), models.UserContext{})
	assert.LessOrEqual(t, report.Score, 100.0)
	assert.GreaterOrEqual(t, report.Score, 0.0)
}
