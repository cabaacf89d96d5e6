package outfits

import (
	"stylistapi/models"
	"stylistapi/physics"
	"stylistapi/taxonomy"
)

// GenerationDebug is the diagnostic artifact persisted before and after
// the external generation call. Intended for diagnosis, never shown to
// end users.
type GenerationDebug struct {
	StyleContext     string                      `json:"style_context"`
	Verdicts         []TemplateVerdict           `json:"templates_considered"`
	SelectedTemplate string                      `json:"selected_template"`
	UsedEmergency    bool                        `json:"used_emergency,omitempty"`
	SuitableGarments []uint                      `json:"suitable_garments"`
	ExcludedGarments []uint                      `json:"excluded_garments"`
	Reports          []physics.SuitabilityReport `json:"reports,omitempty"`
	Buckets          []SlotBucket                `json:"buckets"`
	Rejections       []Rejection                 `json:"rejections,omitempty"`
	AcceptedOutfits  []ComposedOutfit            `json:"accepted_outfits,omitempty"`
}

// Engine is the stateless composition core: scoring, template selection
// and validation behind one façade. It holds only immutable configuration
// so concurrent requests share nothing mutable.
type Engine struct {
	Scorer    *physics.Scorer
	Builder   *Builder
	Validator *Validator
}

func NewEngine(scorer *physics.Scorer, resolver *taxonomy.Resolver, batchSize int) *Engine {
	if scorer == nil {
		scorer = physics.NewDefaultScorer()
	}
	if resolver == nil {
		resolver = taxonomy.NewResolver(nil)
	}
	return &Engine{
		Scorer:    scorer,
		Builder:   NewBuilder(resolver, batchSize),
		Validator: NewValidator(resolver),
	}
}

// FilterWardrobe scores every garment and splits the wardrobe into
// weather-suitable items and the rest, keeping each report for the trace.
func (e *Engine) FilterWardrobe(wardrobe []models.Garment, w models.WeatherContext, user models.UserContext) ([]models.Garment, []physics.SuitabilityReport) {
	suitable := make([]models.Garment, 0, len(wardrobe))
	reports := make([]physics.SuitabilityReport, 0, len(wardrobe))
	for _, g := range wardrobe {
		report := e.Scorer.Score(g, w, user)
		reports = append(reports, report)
		if report.IsSuitable {
			suitable = append(suitable, g)
		}
	}
	return suitable, reports
}

// Prepare runs everything up to the external generation call: filter the
// wardrobe, select a template, build buckets, assemble the pre-call trace.
func (e *Engine) Prepare(wardrobe []models.Garment, w models.WeatherContext, user models.UserContext, templates []LayeringTemplate, styleContext string) (Selection, []models.Garment, *GenerationDebug) {
	suitable, reports := e.FilterWardrobe(wardrobe, w, user)
	selection := e.Builder.SelectTemplate(suitable, physics.ApparentTemperature(w), templates)

	debug := &GenerationDebug{
		StyleContext:     styleContext,
		Verdicts:         selection.Verdicts,
		SelectedTemplate: selection.Template.Name,
		UsedEmergency:    selection.UsedEmergency,
		Buckets:          selection.Buckets,
		Reports:          reports,
	}
	for _, r := range reports {
		if r.IsSuitable {
			debug.SuitableGarments = append(debug.SuitableGarments, r.GarmentID)
		} else {
			debug.ExcludedGarments = append(debug.ExcludedGarments, r.GarmentID)
		}
	}
	return selection, suitable, debug
}

// ValidateAll gates a batch of proposed outfits independently; one
// rejection never sinks its siblings. The debug trace collects both
// outcomes.
func (e *Engine) ValidateAll(candidates []OutfitCandidate, selection Selection, wardrobe []models.Garment, debug *GenerationDebug) []ComposedOutfit {
	accepted := make([]ComposedOutfit, 0, len(candidates))
	source := WardrobeSource(wardrobe)
	for _, candidate := range candidates {
		outfit, rejection := e.Validator.Validate(candidate, selection.Template, source, wardrobe)
		if rejection != nil {
			if debug != nil {
				debug.Rejections = append(debug.Rejections, *rejection)
			}
			continue
		}
		accepted = append(accepted, outfit)
	}
	if debug != nil {
		debug.AcceptedOutfits = accepted
	}
	return accepted
}
