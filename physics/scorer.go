package physics

import (
	"fmt"
	"math"

	"stylistapi/models"
)

const SuitabilityThreshold = 50.0

// Config carries the tunable magic numbers. The comfort margin and the
// layering cutoff come straight from the product rules; keep them as
// configuration so behavior stays adjustable without code changes.
type Config struct {
	ComfortMarginC  float64
	LayeringCutoffC float64
	OutfitBatchSize int
}

func DefaultConfig() Config {
	return Config{
		ComfortMarginC:  5,
		LayeringCutoffC: 15,
		OutfitBatchSize: 3,
	}
}

// ScoreAdjustment is the outcome of a single rule. ForceZero marks a hard
// disqualifier: the fold stops and the score becomes exactly 0, no bonus
// can resurrect the garment.
type ScoreAdjustment struct {
	Rule      string  `json:"rule"`
	Delta     float64 `json:"delta"`
	ForceZero bool    `json:"force_zero"`
	Reason    string  `json:"reason"`
}

// SuitabilityReport is the per-garment verdict plus the debug trace the
// generation record stores.
type SuitabilityReport struct {
	GarmentID     uint              `json:"garment_id"`
	IsSuitable    bool              `json:"is_suitable"`
	Score         float64           `json:"score"`
	Reasons       []string          `json:"reasons"`
	EstimatedClo  float64           `json:"estimated_clo"`
	WeaveModifier float64           `json:"weave_modifier"`
	ApparentTempC float64           `json:"apparent_temp_c"`
	LogicTempC    float64           `json:"logic_temp_c"`
	Adjustments   []ScoreAdjustment `json:"adjustments"`
}

// ruleInput bundles what every rule sees. Rules are pure functions over it.
type ruleInput struct {
	garment   models.Garment
	weather   models.WeatherContext
	user      models.UserContext
	material  MaterialProfile
	archetype Archetype
	clo       float64
	apparent  float64
	logicTemp float64
	cfg       Config
}

type rule func(in ruleInput) *ScoreAdjustment

// share of the whole-ensemble insulation a garment in this role carries
var layerCloShare = map[models.LayerType]float64{
	models.LayerOuter:     0.45,
	models.LayerMid:       0.30,
	models.LayerBase:      0.15,
	models.LayerBottom:    0.25,
	models.LayerShoes:     0.15,
	models.LayerAccessory: 0.08,
}

// Scorer evaluates a garment's physical fitness for a weather snapshot.
// All lookup tables are injected, immutable values.
type Scorer struct {
	Materials  MaterialTable
	Weaves     WeaveModifiers
	Archetypes ArchetypeTable
	Config     Config
	rules      []rule
}

func NewScorer(materials MaterialTable, weaves WeaveModifiers, archetypes ArchetypeTable, cfg Config) *Scorer {
	s := &Scorer{
		Materials:  materials,
		Weaves:     weaves,
		Archetypes: archetypes,
		Config:     cfg,
	}
	// fixed precedence, the order is part of the contract
	s.rules = []rule{
		wetColdHydrophilicRule,
		heavyInsulationMildWeatherRule,
		lowBreathabilityHighActivityRule,
		archetypeOverrideRule,
		windExposureRule,
		moistureSorptionRule,
		hotWeatherRule,
		maxTempRule,
		minTempRule,
	}
	return s
}

func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultMaterials(), DefaultWeaves(), DefaultArchetypes(), DefaultConfig())
}

// EstimateClo is archetype base value x material factor x weave modifier.
func (s *Scorer) EstimateClo(g models.Garment) (float64, Archetype, float64) {
	archetype := s.Archetypes.For(g)
	material := s.Materials.Dominant(g)
	weaveMod := s.Weaves.For(g)
	return archetype.BaseClo * material.CloFactor * weaveMod, archetype, weaveMod
}

// neededClo approximates the whole-ensemble insulation demand at a given
// working temperature.
func neededClo(logicTemp float64) float64 {
	return clamp((25-logicTemp)*0.08, 0.05, 3.0)
}

func (s *Scorer) Score(g models.Garment, w models.WeatherContext, user models.UserContext) SuitabilityReport {
	apparent := ApparentTemperature(w)
	logicTemp := LogicTemperature(w)
	clo, archetype, weaveMod := s.EstimateClo(g)
	material := s.Materials.Dominant(g)

	share, ok := layerCloShare[g.LayerType]
	if !ok {
		share = 0.2
	}
	target := neededClo(logicTemp) * share
	score := 100 - math.Abs(clo-target)*120

	report := SuitabilityReport{
		GarmentID:     g.ID,
		EstimatedClo:  clo,
		WeaveModifier: weaveMod,
		ApparentTempC: apparent,
		LogicTempC:    logicTemp,
		Reasons: []string{
			fmt.Sprintf("estimated %.2f clo against a %.2f clo demand for this layer at %.1f°C", clo, target, logicTemp),
		},
	}

	in := ruleInput{
		garment:   g,
		weather:   w,
		user:      user,
		material:  material,
		archetype: archetype,
		clo:       clo,
		apparent:  apparent,
		logicTemp: logicTemp,
		cfg:       s.Config,
	}
	for _, apply := range s.rules {
		adj := apply(in)
		if adj == nil {
			continue
		}
		report.Adjustments = append(report.Adjustments, *adj)
		report.Reasons = append(report.Reasons, adj.Reason)
		if adj.ForceZero {
			report.Score = 0
			report.IsSuitable = false
			return report
		}
		score += adj.Delta
	}

	report.Score = clamp(score, 0, 100)
	report.IsSuitable = report.Score >= SuitabilityThreshold
	return report
}

func wetColdHydrophilicRule(in ruleInput) *ScoreAdjustment {
	if !in.weather.Precipitation || in.logicTemp >= 10 {
		return nil
	}
	if in.material.Hydrophilic && !in.material.InsulatesWhenWet && in.garment.LayerType != models.LayerBase {
		return &ScoreAdjustment{
			Rule:   "wet_cold_hydrophilic",
			Delta:  -25,
			Reason: fmt.Sprintf("%s soaks through and stops insulating in wet cold", in.material.Name),
		}
	}
	return nil
}

func heavyInsulationMildWeatherRule(in ruleInput) *ScoreAdjustment {
	if in.clo >= 0.7 && in.logicTemp > 15 {
		return &ScoreAdjustment{
			Rule:      "heavy_insulation_mild_weather",
			ForceZero: true,
			Reason:    fmt.Sprintf("%.2f clo is far too warm for %.1f°C", in.clo, in.logicTemp),
		}
	}
	return nil
}

func lowBreathabilityHighActivityRule(in ruleInput) *ScoreAdjustment {
	if in.user.Activity == models.ActivityHigh && in.material.Breathability < 0.5 {
		return &ScoreAdjustment{
			Rule:   "low_breathability_high_activity",
			Delta:  -15,
			Reason: fmt.Sprintf("%s traps sweat during high activity", in.material.Name),
		}
	}
	return nil
}

func archetypeOverrideRule(in ruleInput) *ScoreAdjustment {
	switch in.archetype.Name {
	case "shearling coat":
		if in.logicTemp < 5 {
			return &ScoreAdjustment{
				Rule:   "shearling_cold",
				Delta:  30,
				Reason: "shearling shines below 5°C",
			}
		}
		return &ScoreAdjustment{
			Rule:      "shearling_warm",
			ForceZero: true,
			Reason:    "shearling is only ever suitable below 5°C",
		}
	case "sandals":
		if in.weather.Precipitation {
			return &ScoreAdjustment{
				Rule:      "sandals_rain",
				ForceZero: true,
				Reason:    "open footwear in precipitation",
			}
		}
	}
	return nil
}

func windExposureRule(in ruleInput) *ScoreAdjustment {
	if in.garment.LayerType != models.LayerOuter || in.weather.WindKph <= 20 {
		return nil
	}
	if in.material.WindResistance >= 0.7 {
		return &ScoreAdjustment{
			Rule:   "wind_resistant_shell",
			Delta:  10,
			Reason: fmt.Sprintf("%s blocks %.0f kph wind", in.material.Name, in.weather.WindKph),
		}
	}
	if in.material.WindResistance < 0.4 {
		return &ScoreAdjustment{
			Rule:   "wind_permeable_shell",
			Delta:  -10 - in.weather.WindKph*0.2,
			Reason: fmt.Sprintf("%s lets %.0f kph wind straight through", in.material.Name, in.weather.WindKph),
		}
	}
	return nil
}

func moistureSorptionRule(in ruleInput) *ScoreAdjustment {
	if in.weather.Precipitation && in.logicTemp < 10 && in.material.MoistureSorption >= 0.7 {
		return &ScoreAdjustment{
			Rule:   "moisture_sorption",
			Delta:  10,
			Reason: fmt.Sprintf("%s keeps insulating while damp", in.material.Name),
		}
	}
	return nil
}

func hotWeatherRule(in ruleInput) *ScoreAdjustment {
	if in.logicTemp <= 24 {
		return nil
	}
	if isBreathableWeave(in.garment) || in.material.Breathability >= 0.9 {
		return &ScoreAdjustment{
			Rule:   "hot_weather_breathable",
			Delta:  10,
			Reason: "open weave moves air in the heat",
		}
	}
	if in.material.Synthetic && in.material.Breathability < 0.5 {
		return &ScoreAdjustment{
			Rule:   "hot_weather_synthetic",
			Delta:  -20,
			Reason: fmt.Sprintf("%s is clammy in the heat", in.material.Name),
		}
	}
	return nil
}

// max-temp violations penalize every layer type; the penalty grows with the
// overshoot so a hotter day always scores strictly lower.
func maxTempRule(in ruleInput) *ScoreAdjustment {
	if in.garment.ComfortMaxC == nil {
		return nil
	}
	over := in.apparent - (*in.garment.ComfortMaxC + in.cfg.ComfortMarginC)
	if over <= 0 {
		return nil
	}
	return &ScoreAdjustment{
		Rule:   "above_comfort_max",
		Delta:  -10 - over*6,
		Reason: fmt.Sprintf("%.1f°C exceeds the comfort ceiling of %.1f°C", in.apparent, *in.garment.ComfortMaxC),
	}
}

// min-temp violations are a hard disqualifier only for garments directly
// exposed to the elements. Base and mid layers sit under something warmer,
// so below the layering cutoff they take no penalty at all.
func minTempRule(in ruleInput) *ScoreAdjustment {
	if in.garment.ComfortMinC == nil {
		return nil
	}
	under := (*in.garment.ComfortMinC - in.cfg.ComfortMarginC) - in.apparent
	if under <= 0 {
		return nil
	}
	if in.garment.LayerType == models.LayerOuter || in.garment.LayerType == models.LayerShoes {
		return &ScoreAdjustment{
			Rule:      "below_comfort_min_exposed",
			ForceZero: true,
			Reason:    fmt.Sprintf("exposed layer rated to %.1f°C cannot face %.1f°C", *in.garment.ComfortMinC, in.apparent),
		}
	}
	if in.logicTemp < in.cfg.LayeringCutoffC {
		return nil
	}
	return &ScoreAdjustment{
		Rule:   "below_comfort_min_layered",
		Delta:  -10,
		Reason: "slightly under its comfort floor but wearable layered",
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
