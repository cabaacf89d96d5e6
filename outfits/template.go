package outfits

import (
	"encoding/json"
	"fmt"

	"stylistapi/models"
	"stylistapi/taxonomy"
)

type TuckPolicy string

const (
	TuckAlways   TuckPolicy = "always"
	TuckNever    TuckPolicy = "never"
	TuckOptional TuckPolicy = "optional"
)

type ButtonPolicy string

const (
	ButtonClosed   ButtonPolicy = "buttoned"
	ButtonOpen     ButtonPolicy = "unbuttoned"
	ButtonOptional ButtonPolicy = "optional"
	ButtonNone     ButtonPolicy = "n/a"
)

// TemplateSlot names one position in a layering template. Allowed holds
// canonical subcategory names or one of the taxonomy group names.
type TemplateSlot struct {
	Name      string       `json:"name"`
	Allowed   []string     `json:"allowed"`
	Required  bool         `json:"required"`
	TuckedIn  TuckPolicy   `json:"tucked_in"`
	Buttoning ButtonPolicy `json:"buttoning"`
}

// LayeringTemplate is read-only reference data: selected per request,
// never mutated.
type LayeringTemplate struct {
	Name       string         `json:"name"`
	Slots      []TemplateSlot `json:"slots"`
	LayerCount int            `json:"layer_count"`
	MinTempC   float64        `json:"min_temp_c"`
	MaxTempC   float64        `json:"max_temp_c"`
}

func (t LayeringTemplate) InRange(apparentTemp float64) bool {
	return apparentTemp >= t.MinTempC && apparentTemp <= t.MaxTempC
}

// ParseTemplateRecord decodes a stored template row into the in-memory
// form the builder works with.
func ParseTemplateRecord(record models.LayeringTemplateRecord) (LayeringTemplate, error) {
	var slots []TemplateSlot
	if err := json.Unmarshal([]byte(record.SlotsJSON), &slots); err != nil {
		return LayeringTemplate{}, fmt.Errorf("template %v has unreadable slots: %w", record.Name, err)
	}
	return LayeringTemplate{
		Name:       record.Name,
		Slots:      slots,
		LayerCount: record.LayerCount,
		MinTempC:   record.MinTempC,
		MaxTempC:   record.MaxTempC,
	}, nil
}

// EmergencyTemplate is the most conservative fallback, used when nothing
// else is feasible against the current wardrobe. Only the base layer is
// required so a thin wardrobe still produces something.
func EmergencyTemplate() LayeringTemplate {
	return LayeringTemplate{
		Name:       "emergency_basic",
		LayerCount: 2,
		MinTempC:   -50,
		MaxTempC:   50,
		Slots: []TemplateSlot{
			{Name: "base_layer", Allowed: []string{"T-Shirt", "Shirt", "Polo Shirt", "Henley", "Turtleneck"}, Required: true, TuckedIn: TuckOptional, Buttoning: ButtonOptional},
			{Name: "mid_layer", Allowed: []string{"Sweater", "Cardigan", "Hoodie", "Sweatshirt", "Gilet"}, Required: false, TuckedIn: TuckNever, Buttoning: ButtonOptional},
			{Name: "outer_layer", Allowed: []string{taxonomy.GroupWinterOuterwear, taxonomy.GroupLightOuterwear}, Required: false, TuckedIn: TuckNever, Buttoning: ButtonOptional},
		},
	}
}

// DefaultTemplates is the built-in template library, also used to seed the
// knowledge tables on first migration.
func DefaultTemplates() []LayeringTemplate {
	return []LayeringTemplate{
		{
			Name:       "summer_single_layer",
			LayerCount: 1,
			MinTempC:   22,
			MaxTempC:   50,
			Slots: []TemplateSlot{
				{Name: "base_layer", Allowed: []string{"T-Shirt", "Polo Shirt", "Linen Shirt", "Tank Top", "Henley"}, Required: true, TuckedIn: TuckOptional, Buttoning: ButtonOptional},
			},
		},
		{
			Name:       "mild_shirt_only",
			LayerCount: 1,
			MinTempC:   16,
			MaxTempC:   26,
			Slots: []TemplateSlot{
				{Name: "base_layer", Allowed: []string{"Shirt", "Oxford Shirt", "Chambray Shirt", "Flannel Shirt", "Polo Shirt"}, Required: true, TuckedIn: TuckOptional, Buttoning: ButtonClosed},
			},
		},
		{
			Name:       "light_shell",
			LayerCount: 2,
			MinTempC:   12,
			MaxTempC:   20,
			Slots: []TemplateSlot{
				{Name: "base_layer", Allowed: []string{"T-Shirt", "Shirt", "Oxford Shirt", "Polo Shirt", "Henley"}, Required: true, TuckedIn: TuckOptional, Buttoning: ButtonOptional},
				{Name: "outer_layer", Allowed: []string{taxonomy.GroupLightOuterwear}, Required: true, TuckedIn: TuckNever, Buttoning: ButtonOpen},
			},
		},
		{
			Name:       "knit_over_shirt",
			LayerCount: 2,
			MinTempC:   8,
			MaxTempC:   16,
			Slots: []TemplateSlot{
				{Name: "base_layer", Allowed: []string{"Shirt", "Oxford Shirt", "T-Shirt", "Turtleneck"}, Required: true, TuckedIn: TuckAlways, Buttoning: ButtonClosed},
				{Name: "mid_layer", Allowed: []string{"Sweater", "Cardigan", "Sweater Vest", "Sweatshirt"}, Required: true, TuckedIn: TuckNever, Buttoning: ButtonOptional},
			},
		},
		{
			Name:       "cold_three_layer",
			LayerCount: 3,
			MinTempC:   -2,
			MaxTempC:   10,
			Slots: []TemplateSlot{
				{Name: "base_layer", Allowed: []string{"Shirt", "T-Shirt", "Turtleneck", "Henley"}, Required: true, TuckedIn: TuckAlways, Buttoning: ButtonClosed},
				{Name: "mid_layer", Allowed: []string{"Sweater", "Cardigan", "Hoodie", "Gilet"}, Required: true, TuckedIn: TuckNever, Buttoning: ButtonOptional},
				{Name: "outer_layer", Allowed: []string{taxonomy.GroupWinterOuterwear, taxonomy.GroupLightOuterwear}, Required: true, TuckedIn: TuckNever, Buttoning: ButtonOptional},
			},
		},
		{
			Name:       "deep_winter",
			LayerCount: 3,
			MinTempC:   -50,
			MaxTempC:   2,
			Slots: []TemplateSlot{
				{Name: "base_layer", Allowed: []string{"Turtleneck", "Shirt", "Henley", "T-Shirt"}, Required: true, TuckedIn: TuckAlways, Buttoning: ButtonClosed},
				{Name: "mid_layer", Allowed: []string{"Sweater", "Hoodie", "Cardigan"}, Required: true, TuckedIn: TuckNever, Buttoning: ButtonClosed},
				{Name: "outer_layer", Allowed: []string{taxonomy.GroupWinterOuterwear}, Required: true, TuckedIn: TuckNever, Buttoning: ButtonClosed},
				{Name: "accessory", Allowed: []string{"Scarf", "Beanie", "Gloves"}, Required: false, TuckedIn: TuckNever, Buttoning: ButtonNone},
			},
		},
	}
}
