package outfits

import (
	"fmt"
	"strconv"
	"strings"

	"stylistapi/models"
	"stylistapi/taxonomy"
)

// BaselineStyle is assumed for garments carrying no style tags.
const BaselineStyle = "casual"

// RoleVariant is one wearable role of a physical garment. A flannel shirt
// produces a base variant and a mid variant; both point at the same
// garment id, and the validator's dedup keys on that id.
type RoleVariant struct {
	GarmentID uint
	Role      models.LayerType
}

func (v RoleVariant) Ref() string {
	return fmt.Sprintf("%d#%s", v.GarmentID, v.Role)
}

// ExpandRoleVariants lists every role a garment can play. Most garments
// have exactly one; shirts warm enough to layer also count as mid.
func ExpandRoleVariants(g models.Garment) []RoleVariant {
	variants := []RoleVariant{{GarmentID: g.ID, Role: g.LayerType}}
	if g.LayerType == models.LayerBase && layersAsMid(g) {
		variants = append(variants, RoleVariant{GarmentID: g.ID, Role: models.LayerMid})
	}
	return variants
}

func layersAsMid(g models.Garment) bool {
	sub := strings.ToLower(g.Subcategory)
	if strings.Contains(sub, "flannel") || strings.Contains(sub, "overshirt") {
		return true
	}
	if g.FabricWeave != nil && *g.FabricWeave == models.WeaveFlannel {
		return true
	}
	return false
}

// ParseGarmentRef normalizes a garment reference back to its base id.
// References may carry a "#role" suffix from role-variant expansion.
func ParseGarmentRef(ref string) (uint, error) {
	base, _, _ := strings.Cut(strings.TrimSpace(ref), "#")
	id, err := strconv.ParseUint(base, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("bad garment reference %q", ref)
	}
	return uint(id), nil
}

// GarmentSource resolves garment ids to full records during hydration.
// The wardrobe slice form used in the pipeline satisfies it via
// WardrobeSource; tests plug fixtures straight in.
type GarmentSource interface {
	GarmentsByIDs(ids []uint) ([]models.Garment, error)
}

// WardrobeSource serves hydration from an in-memory wardrobe snapshot.
type WardrobeSource []models.Garment

func (w WardrobeSource) GarmentsByIDs(ids []uint) ([]models.Garment, error) {
	byID := make(map[uint]models.Garment, len(w))
	for _, g := range w {
		byID[g.ID] = g
	}
	out := make([]models.Garment, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// OutfitCandidate is what the generation step proposes: a name, garment
// references (possibly role-suffixed) and a style label.
type OutfitCandidate struct {
	Name        string   `json:"name"`
	GarmentRefs []string `json:"garment_ids"`
	Style       string   `json:"style"`
}

// SlotStyling is the per-slot contract handed to any downstream rendering
// step: which garment fills the slot and how it is worn.
type SlotStyling struct {
	SlotName  string       `json:"slot_name"`
	GarmentID uint         `json:"garment_id"`
	TuckedIn  TuckPolicy   `json:"tucked_in"`
	Buttoning ButtonPolicy `json:"buttoning"`
}

type OutfitStatus string

const (
	OutfitAccepted OutfitStatus = "accepted"
	OutfitRejected OutfitStatus = "rejected"
)

// ComposedOutfit is an accepted outfit: deduplicated garments plus the
// styling metadata extracted from the template.
type ComposedOutfit struct {
	Name         string           `json:"name"`
	TemplateUsed string           `json:"template_used"`
	Style        string           `json:"style"`
	Garments     []models.Garment `json:"-"`
	GarmentIDs   []uint           `json:"garment_ids"`
	Styling      []SlotStyling    `json:"styling"`
	Status       OutfitStatus     `json:"status"`
	BeltRepaired bool             `json:"belt_repaired,omitempty"`
}

type RejectionReason string

const (
	RejectMissingBottoms      RejectionReason = "missing-bottoms"
	RejectMissingShoes        RejectionReason = "missing-shoes"
	RejectTooFewItems         RejectionReason = "too-few-items"
	RejectMissingRequiredSlot RejectionReason = "missing-required-slot"
	RejectSleeveLayerConflict RejectionReason = "sleeve-layer-conflict"
	RejectStyleMismatch       RejectionReason = "style-mismatch"
	RejectUnresolvable        RejectionReason = "unresolvable-garments"
)

// Rejection explains exactly which gate dropped a candidate.
type Rejection struct {
	Reason       RejectionReason `json:"reason"`
	Detail       string          `json:"detail"`
	MissingSlots []string        `json:"missing_slots,omitempty"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("outfit rejected: %s (%s)", r.Reason, r.Detail)
}

// Validator runs the gate sequence over one proposed outfit. It is pure:
// all wardrobe access goes through the injected GarmentSource and the
// explicit wardrobe slice used for belt repair.
type Validator struct {
	Resolver *taxonomy.Resolver
}

func NewValidator(resolver *taxonomy.Resolver) *Validator {
	if resolver == nil {
		resolver = taxonomy.NewResolver(nil)
	}
	return &Validator{Resolver: resolver}
}

// Validate takes a candidate through hydration, dedup, the mandatory
// gates, belt auto-repair and slot fulfillment. wardrobe is the user's
// full wardrobe, consulted only by belt repair.
func (v *Validator) Validate(candidate OutfitCandidate, tpl LayeringTemplate, source GarmentSource, wardrobe []models.Garment) (ComposedOutfit, *Rejection) {
	outfit := ComposedOutfit{
		Name:         candidate.Name,
		TemplateUsed: tpl.Name,
		Style:        candidate.Style,
		Status:       OutfitRejected,
	}
	if outfit.Style == "" {
		outfit.Style = BaselineStyle
	}

	ids := make([]uint, 0, len(candidate.GarmentRefs))
	seen := make(map[uint]bool, len(candidate.GarmentRefs))
	for _, ref := range candidate.GarmentRefs {
		id, err := ParseGarmentRef(ref)
		if err != nil {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return outfit, &Rejection{Reason: RejectUnresolvable, Detail: "no garment reference could be parsed"}
	}

	garments, err := source.GarmentsByIDs(ids)
	if err != nil {
		return outfit, &Rejection{Reason: RejectUnresolvable, Detail: err.Error()}
	}

	if !containsCategory(garments, "bottoms") {
		return outfit, &Rejection{Reason: RejectMissingBottoms, Detail: "no bottoms item in the outfit"}
	}
	if !containsCategory(garments, "shoes") {
		return outfit, &Rejection{Reason: RejectMissingShoes, Detail: "no shoes item in the outfit"}
	}
	if len(garments) < 2 {
		return outfit, &Rejection{Reason: RejectTooFewItems, Detail: fmt.Sprintf("only %d distinct garments", len(garments))}
	}

	if tpl.LayerCount >= 3 && !containsBelt(garments) {
		if belt, ok := findMatchingBelt(garments, wardrobe); ok {
			garments = append(garments, belt)
			outfit.BeltRepaired = true
		}
	}

	if tpl.LayerCount >= 3 {
		if short := shortSleeveBases(garments); len(short) > 0 {
			return outfit, &Rejection{
				Reason: RejectSleeveLayerConflict,
				Detail: fmt.Sprintf("garments %v are short-sleeved under a %d-layer template", short, tpl.LayerCount),
			}
		}
	}

	var unmet []string
	for _, slot := range tpl.Slots {
		if !slot.Required {
			continue
		}
		if v.slotGarment(slot, garments) == nil {
			unmet = append(unmet, slot.Name)
		}
	}
	if len(unmet) > 0 {
		return outfit, &Rejection{
			Reason:       RejectMissingRequiredSlot,
			Detail:       fmt.Sprintf("unmet slots: %s", strings.Join(unmet, ", ")),
			MissingSlots: unmet,
		}
	}

	if mismatched := styleMismatches(garments, outfit.Style); len(mismatched) > 0 {
		return outfit, &Rejection{
			Reason: RejectStyleMismatch,
			Detail: fmt.Sprintf("garments %v do not fit the %q style", mismatched, outfit.Style),
		}
	}

	for _, slot := range tpl.Slots {
		if g := v.slotGarment(slot, garments); g != nil {
			outfit.Styling = append(outfit.Styling, SlotStyling{
				SlotName:  slot.Name,
				GarmentID: g.ID,
				TuckedIn:  slot.TuckedIn,
				Buttoning: slot.Buttoning,
			})
		}
	}

	outfit.Garments = garments
	outfit.GarmentIDs = make([]uint, 0, len(garments))
	for _, g := range garments {
		outfit.GarmentIDs = append(outfit.GarmentIDs, g.ID)
	}
	outfit.Status = OutfitAccepted
	return outfit, nil
}

// slotGarment finds the first outfit garment satisfying a template slot.
func (v *Validator) slotGarment(slot TemplateSlot, garments []models.Garment) *models.Garment {
	for i := range garments {
		for _, allowed := range slot.Allowed {
			if v.Resolver.MatchesAllowed(garments[i].Subcategory, allowed) {
				return &garments[i]
			}
		}
	}
	return nil
}

func containsCategory(garments []models.Garment, category string) bool {
	for _, g := range garments {
		if strings.EqualFold(g.Category, category) {
			return true
		}
	}
	return false
}

func containsBelt(garments []models.Garment) bool {
	for _, g := range garments {
		if IsBelt(g) {
			return true
		}
	}
	return false
}

var brownFamily = map[string]bool{
	"brown": true, "tan": true, "cognac": true, "chestnut": true, "camel": true,
}

func colorFamily(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if brownFamily[c] {
		return "brown"
	}
	if c == "black" {
		return "black"
	}
	return ""
}

// findMatchingBelt searches the full wardrobe for a belt whose color
// family matches the outfit's shoes. An unrecognized shoe color accepts
// any belt.
func findMatchingBelt(garments []models.Garment, wardrobe []models.Garment) (models.Garment, bool) {
	shoeFamily := ""
	for _, g := range garments {
		if strings.EqualFold(g.Category, "shoes") {
			shoeFamily = colorFamily(g.MainColorName)
			break
		}
	}
	var fallback *models.Garment
	for i, g := range wardrobe {
		if !IsBelt(g) {
			continue
		}
		if shoeFamily == "" || colorFamily(g.MainColorName) == shoeFamily {
			return g, true
		}
		if fallback == nil {
			fallback = &wardrobe[i]
		}
	}
	if shoeFamily != "" && fallback != nil {
		// no family match, any belt beats none
		return *fallback, true
	}
	return models.Garment{}, false
}

// shortSleeveBases lists base-layer garments that cannot sit under a
// stacked template because their sleeves are short.
func shortSleeveBases(garments []models.Garment) []uint {
	var out []uint
	for _, g := range garments {
		if g.LayerType == models.LayerBase && g.SleeveLength == models.SleeveShort {
			out = append(out, g.ID)
		}
	}
	return out
}

// styleMismatches returns ids of garments whose tags exclude the outfit
// style. Untagged garments count as the baseline style.
func styleMismatches(garments []models.Garment, style string) []uint {
	var out []uint
	for _, g := range garments {
		if len(g.StyleContext) == 0 {
			if !strings.EqualFold(style, BaselineStyle) {
				out = append(out, g.ID)
			}
			continue
		}
		matched := false
		for _, tag := range g.StyleContext {
			if strings.EqualFold(tag, style) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, g.ID)
		}
	}
	return out
}
