package outfits

import (
	"fmt"
	"strings"

	"stylistapi/models"
)

// PromptInput is everything the generation prompt is rendered from. The
// engine fills Selection, the task layer adds the knowledge-table text.
type PromptInput struct {
	Weather      models.WeatherContext
	Style        string
	StyleContext string
	HardRules    []string
	Selection    Selection
	OutfitCount  int
}

// BuildGenerationPrompt renders the wardrobe into the stylist prompt.
// Every candidate is listed under its slot with its role-qualified
// reference; the model must answer with those references only.
func BuildGenerationPrompt(input PromptInput) string {
	var b strings.Builder

	count := input.OutfitCount
	if count <= 0 {
		count = 3
	}

	fmt.Fprintf(&b, "Compose %d distinct outfits named after their vibe.\n\n", count)

	fmt.Fprintf(&b, "Weather: %.1fC, wind %.0f km/h, humidity %.0f%%, season %s", input.Weather.TemperatureC, input.Weather.WindKph, input.Weather.HumidityPct, input.Weather.Season)
	if input.Weather.Precipitation {
		b.WriteString(", precipitation expected")
	}
	if input.Weather.Sunny {
		b.WriteString(", sunny")
	}
	b.WriteString(".\n")

	style := input.Style
	if style == "" {
		style = BaselineStyle
	}
	fmt.Fprintf(&b, "Target style: %s.\n", style)
	if input.StyleContext != "" {
		fmt.Fprintf(&b, "Style notes: %s\n", input.StyleContext)
	}

	if len(input.HardRules) > 0 {
		b.WriteString("\nTailoring rules, never break them:\n")
		for _, rule := range input.HardRules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
	}

	fmt.Fprintf(&b, "\nLayering template: %s. Pick at most one garment per slot, reuse nothing across slots within one outfit.\n", input.Selection.Template.Name)

	for _, bucket := range input.Selection.Buckets {
		required := "optional"
		if bucket.Required {
			required = "required"
		}
		fmt.Fprintf(&b, "\nSlot %q (%s):\n", bucket.SlotName, required)
		if len(bucket.Candidates) == 0 {
			b.WriteString("- no candidates, leave this slot empty\n")
			continue
		}
		for _, garment := range bucket.Candidates {
			for _, variant := range ExpandRoleVariants(garment) {
				fmt.Fprintf(&b, "- ref %s: %s", variant.Ref(), describeGarment(garment))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\nAnswer with JSON only: {\"outfits\": [{\"name\", \"garment_ids\", \"style\"}]}. garment_ids must be the ref strings listed above, verbatim.\n")
	return b.String()
}

func describeGarment(g models.Garment) string {
	parts := []string{g.Subcategory}
	if g.MainColorName != "" {
		parts = append(parts, g.MainColorName)
	}
	if len(g.Materials) > 0 {
		parts = append(parts, strings.Join(g.Materials, "/"))
	}
	if g.FabricWeave != nil && *g.FabricWeave != models.WeaveStandard {
		parts = append(parts, string(*g.FabricWeave)+" weave")
	}
	if len(g.StyleContext) > 0 {
		parts = append(parts, "styles: "+strings.Join(g.StyleContext, ","))
	}
	return strings.Join(parts, ", ")
}
