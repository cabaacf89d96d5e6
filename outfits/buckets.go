package outfits

import (
	"strings"

	"stylistapi/models"
	"stylistapi/taxonomy"
)

const (
	SlotBottoms = "bottoms"
	SlotShoes   = "shoes"
	SlotBelt    = "belt"
)

// SlotBucket pairs a template slot with every wardrobe garment that can
// fill it. Built fresh per request, discarded after use.
type SlotBucket struct {
	SlotName   string           `json:"slot_name"`
	Required   bool             `json:"required"`
	Candidates []models.Garment `json:"-"`
	// candidate ids only, for the debug trace
	CandidateIDs []uint `json:"candidate_ids"`
}

// TemplateVerdict records one template's feasibility decision for the
// debug report.
type TemplateVerdict struct {
	TemplateName string   `json:"template_name"`
	InRange      bool     `json:"in_range"`
	Feasible     bool     `json:"feasible"`
	Relaxed      bool     `json:"relaxed,omitempty"`
	MissingSlots []string `json:"missing_slots,omitempty"`
}

// Selection is the builder's final answer: one template plus its buckets,
// with the verdict trail that led there.
type Selection struct {
	Template      LayeringTemplate
	Buckets       []SlotBucket
	Verdicts      []TemplateVerdict
	UsedEmergency bool
}

// Builder picks a layering template against a wardrobe and materializes
// its slot buckets. BatchSize is how many distinct outfits one generation
// round should support without repeating a garment in the same slot.
type Builder struct {
	Resolver  *taxonomy.Resolver
	BatchSize int
}

func NewBuilder(resolver *taxonomy.Resolver, batchSize int) *Builder {
	if resolver == nil {
		resolver = taxonomy.NewResolver(nil)
	}
	if batchSize <= 0 {
		batchSize = 3
	}
	return &Builder{Resolver: resolver, BatchSize: batchSize}
}

func (b *Builder) bucketFor(slot TemplateSlot, wardrobe []models.Garment) SlotBucket {
	bucket := SlotBucket{SlotName: slot.Name, Required: slot.Required}
	for _, g := range wardrobe {
		for _, allowed := range slot.Allowed {
			if b.Resolver.MatchesAllowed(g.Subcategory, allowed) {
				bucket.Candidates = append(bucket.Candidates, g)
				bucket.CandidateIDs = append(bucket.CandidateIDs, g.ID)
				break
			}
		}
	}
	return bucket
}

func categoryBucket(name, category string, wardrobe []models.Garment) SlotBucket {
	bucket := SlotBucket{SlotName: name, Required: true}
	for _, g := range wardrobe {
		if strings.EqualFold(g.Category, category) {
			bucket.Candidates = append(bucket.Candidates, g)
			bucket.CandidateIDs = append(bucket.CandidateIDs, g.ID)
		}
	}
	return bucket
}

func beltBucket(wardrobe []models.Garment) SlotBucket {
	bucket := SlotBucket{SlotName: SlotBelt, Required: false}
	for _, g := range wardrobe {
		if IsBelt(g) {
			bucket.Candidates = append(bucket.Candidates, g)
			bucket.CandidateIDs = append(bucket.CandidateIDs, g.ID)
		}
	}
	return bucket
}

func IsBelt(g models.Garment) bool {
	return strings.Contains(strings.ToLower(g.Subcategory), "belt")
}

// BuildBuckets materializes every slot of a template against the wardrobe.
func (b *Builder) BuildBuckets(tpl LayeringTemplate, wardrobe []models.Garment) []SlotBucket {
	buckets := make([]SlotBucket, 0, len(tpl.Slots))
	for _, slot := range tpl.Slots {
		buckets = append(buckets, b.bucketFor(slot, wardrobe))
	}
	return buckets
}

// feasibility: every required slot must have at least one candidate.
// comfortable: every required slot can fill BatchSize outfits without
// repeating a garment.
func (b *Builder) inspect(tpl LayeringTemplate, wardrobe []models.Garment) ([]SlotBucket, []string, bool) {
	buckets := b.BuildBuckets(tpl, wardrobe)
	var missing []string
	comfortable := true
	for _, bucket := range buckets {
		if !bucket.Required {
			continue
		}
		if len(bucket.Candidates) == 0 {
			missing = append(missing, bucket.SlotName)
		}
		if len(bucket.Candidates) < b.BatchSize {
			comfortable = false
		}
	}
	return buckets, missing, comfortable
}

// SelectTemplate walks the candidate templates in the given order and
// returns the first feasible one, preferring templates whose required
// slots can fill a whole batch without garment repeats. When nothing is
// feasible the built-in emergency template takes over instead of failing
// the request. Bottoms and shoes slots are always appended from wardrobe
// category, and a belt slot joins them when any template slot tucks and
// the wardrobe owns a belt.
func (b *Builder) SelectTemplate(wardrobe []models.Garment, apparentTemp float64, candidates []LayeringTemplate) Selection {
	type inspected struct {
		tpl     LayeringTemplate
		buckets []SlotBucket
	}
	var firstComfortable *inspected
	var firstFeasible *inspected
	verdicts := make([]TemplateVerdict, 0, len(candidates))

	for _, tpl := range candidates {
		verdict := TemplateVerdict{TemplateName: tpl.Name, InRange: tpl.InRange(apparentTemp)}
		if !verdict.InRange {
			verdicts = append(verdicts, verdict)
			continue
		}
		buckets, missing, comfortable := b.inspect(tpl, wardrobe)
		verdict.Feasible = len(missing) == 0
		verdict.MissingSlots = missing
		verdict.Relaxed = verdict.Feasible && !comfortable
		verdicts = append(verdicts, verdict)
		if !verdict.Feasible {
			continue
		}
		if comfortable && firstComfortable == nil {
			firstComfortable = &inspected{tpl: tpl, buckets: buckets}
		}
		if firstFeasible == nil {
			firstFeasible = &inspected{tpl: tpl, buckets: buckets}
		}
	}

	selection := Selection{Verdicts: verdicts}
	switch {
	case firstComfortable != nil:
		selection.Template = firstComfortable.tpl
		selection.Buckets = firstComfortable.buckets
	case firstFeasible != nil:
		selection.Template = firstFeasible.tpl
		selection.Buckets = firstFeasible.buckets
	default:
		selection.UsedEmergency = true
		selection.Template = EmergencyTemplate()
		selection.Buckets = b.BuildBuckets(selection.Template, wardrobe)
	}

	selection.Buckets = append(selection.Buckets,
		categoryBucket(SlotBottoms, "bottoms", wardrobe),
		categoryBucket(SlotShoes, "shoes", wardrobe),
	)
	if templateTucks(selection.Template) {
		if belts := beltBucket(wardrobe); len(belts.Candidates) > 0 {
			belts.Required = true
			selection.Buckets = append(selection.Buckets, belts)
		}
	}
	return selection
}

func templateTucks(tpl LayeringTemplate) bool {
	for _, slot := range tpl.Slots {
		if slot.TuckedIn == TuckAlways || slot.TuckedIn == TuckOptional {
			return true
		}
	}
	return false
}
