package taxonomy

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.English)

// Vocabulary is the controlled set of canonical subcategory names plus the
// many-to-one synonym table mapping alternate phrasings onto them. It is
// immutable reference data; tests inject their own fixture instead of
// mutating the default.
type Vocabulary struct {
	Canonical []string
	// alternate phrasing (folded) -> canonical name
	Synonyms map[string]string
	// curated broad groups, referenced by template slots
	WinterOuterwear []string
	LightOuterwear  []string
}

func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Canonical: []string{
			"T-Shirt", "Shirt", "Polo Shirt", "Chambray Shirt", "Oxford Shirt",
			"Flannel Shirt", "Linen Shirt", "Henley", "Tank Top", "Turtleneck",
			"Sweater", "Cardigan", "Sweatshirt", "Hoodie", "Sweater Vest",
			"Blazer", "Suit Jacket", "Leather Jacket", "Denim Jacket",
			"Bomber Jacket", "Harrington Jacket", "Chore Jacket", "Windbreaker",
			"Puffer Jacket", "Parka", "Overcoat", "Trench Coat",
			"Shearling Coat", "Raincoat", "Gilet",
			"Jeans", "Chinos", "Trousers", "Cargo Pants", "Shorts", "Joggers",
			"Sneakers", "Boots", "Loafers", "Derbies", "Oxfords", "Sandals",
			"Belt", "Scarf", "Beanie", "Cap", "Gloves",
		},
		Synonyms: map[string]string{
			"tee":            "T-Shirt",
			"tshirt":         "T-Shirt",
			"t shirt":        "T-Shirt",
			"polo":           "Polo Shirt",
			"button down":    "Oxford Shirt",
			"flannel":        "Flannel Shirt",
			"rollneck":       "Turtleneck",
			"polo neck":      "Turtleneck",
			"jumper":         "Sweater",
			"pullover":       "Sweater",
			"knit":           "Sweater",
			"crewneck":       "Sweatshirt",
			"hoody":          "Hoodie",
			"vest":           "Gilet",
			"body warmer":    "Gilet",
			"sport coat":     "Blazer",
			"sports jacket":  "Blazer",
			"moto jacket":    "Leather Jacket",
			"biker jacket":   "Leather Jacket",
			"trucker jacket": "Denim Jacket",
			"jean jacket":    "Denim Jacket",
			"puffer":         "Puffer Jacket",
			"puffa":          "Puffer Jacket",
			"down jacket":    "Puffer Jacket",
			"quilted jacket": "Puffer Jacket",
			"anorak":         "Windbreaker",
			"shell jacket":   "Windbreaker",
			"topcoat":        "Overcoat",
			"wool coat":      "Overcoat",
			"mac":            "Raincoat",
			"rain jacket":    "Raincoat",
			"trench":         "Trench Coat",
			"shearling":      "Shearling Coat",
			"sheepskin coat": "Shearling Coat",
			"denim":          "Jeans",
			"slacks":         "Trousers",
			"dress pants":    "Trousers",
			"cargos":         "Cargo Pants",
			"sweatpants":     "Joggers",
			"trainers":       "Sneakers",
			"kicks":          "Sneakers",
			"chelsea boots":  "Boots",
			"combat boots":   "Boots",
			"penny loafers":  "Loafers",
			"derby shoes":    "Derbies",
			"woolly hat":     "Beanie",
			"baseball cap":   "Cap",
		},
		WinterOuterwear: []string{
			"Puffer Jacket", "Parka", "Overcoat", "Trench Coat", "Shearling Coat",
		},
		LightOuterwear: []string{
			"Windbreaker", "Denim Jacket", "Bomber Jacket", "Harrington Jacket",
			"Leather Jacket", "Chore Jacket", "Raincoat", "Gilet",
		},
	}
}

func fold(s string) string {
	return lowerCaser.String(s)
}
