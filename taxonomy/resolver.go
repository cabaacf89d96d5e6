package taxonomy

import "strings"

// Group names template slots may use instead of a concrete subcategory.
const (
	GroupWinterOuterwear = "Winter Outerwear"
	GroupLightOuterwear  = "Light Outerwear"
)

// Resolver canonicalizes free-text garment subcategories against the
// controlled vocabulary. It is pure: no caches, no side effects.
type Resolver struct {
	vocab *Vocabulary
}

func NewResolver(vocab *Vocabulary) *Resolver {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Resolver{vocab: vocab}
}

// Matches reports whether a garment's free-text subcategory satisfies an
// allowed canonical name from a template slot. Precedence, first hit wins:
//  1. case-insensitive exact match
//  2. synonym table lookup, checked in both directions
//  3. smart partial match: a multi-word allowed name matches when the
//     garment subcategory contains its first word as a whole token
//     ("Chambray" fills a "Chambray Shirt" slot)
func (r *Resolver) Matches(garmentSubcategory, allowed string) bool {
	garment := fold(strings.TrimSpace(garmentSubcategory))
	want := fold(strings.TrimSpace(allowed))
	if garment == "" || want == "" {
		return false
	}
	if garment == want {
		return true
	}
	if r.canonicalOf(garment) == r.canonicalOf(want) {
		return true
	}

	// partially specified subcategories: match the allowed name's leading
	// word as a whole token only, so "Chambray" matches "Chambray Shirt"
	// but "Rain" never matches "Training Shorts"
	wantWords := strings.Fields(fold(allowed))
	if len(wantWords) > 1 {
		for _, token := range strings.Fields(garment) {
			if token == wantWords[0] {
				return true
			}
		}
	}
	return false
}

// MatchesAllowed extends Matches with the curated broad groups a slot may
// name instead of a specific subcategory.
func (r *Resolver) MatchesAllowed(garmentSubcategory, allowed string) bool {
	switch fold(allowed) {
	case fold(GroupWinterOuterwear):
		return r.IsWinterOuterwear(garmentSubcategory)
	case fold(GroupLightOuterwear):
		return r.IsLightOuterwear(garmentSubcategory)
	}
	return r.Matches(garmentSubcategory, allowed)
}

func (r *Resolver) IsWinterOuterwear(subcategory string) bool {
	for _, name := range r.vocab.WinterOuterwear {
		if r.Matches(subcategory, name) {
			return true
		}
	}
	return false
}

func (r *Resolver) IsLightOuterwear(subcategory string) bool {
	for _, name := range r.vocab.LightOuterwear {
		if r.Matches(subcategory, name) {
			return true
		}
	}
	return false
}

// canonicalOf maps a folded name to its folded canonical form. Names
// already canonical map to themselves, so synonym matching is symmetric:
// the garment may carry the canonical name while the slot uses a synonym,
// or the other way around.
func (r *Resolver) canonicalOf(folded string) string {
	if canonical, ok := r.vocab.Synonyms[folded]; ok {
		return fold(canonical)
	}
	return folded
}
