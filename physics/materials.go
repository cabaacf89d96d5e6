package physics

import (
	"strings"

	"stylistapi/models"
)

// MaterialProfile holds the physical behavior of a textile. CloFactor is a
// multiplier over a garment archetype's base insulation, the rest feed the
// weather rules (0..1 scales).
type MaterialProfile struct {
	Name             string
	CloFactor        float64
	Hydrophilic      bool
	Breathability    float64
	WindResistance   float64
	MoistureSorption float64
	InsulatesWhenWet bool
	Synthetic        bool
}

// MaterialTable is immutable lookup data, injected into the scorer so tests
// can substitute fixtures without touching process state.
type MaterialTable map[string]MaterialProfile

func DefaultMaterials() MaterialTable {
	return MaterialTable{
		"cotton":    {Name: "cotton", CloFactor: 1.0, Hydrophilic: true, Breathability: 0.8, WindResistance: 0.3, MoistureSorption: 0.3},
		"linen":     {Name: "linen", CloFactor: 0.8, Hydrophilic: true, Breathability: 0.95, WindResistance: 0.2, MoistureSorption: 0.3},
		"wool":      {Name: "wool", CloFactor: 1.25, Breathability: 0.7, WindResistance: 0.4, MoistureSorption: 0.9, InsulatesWhenWet: true},
		"merino":    {Name: "merino", CloFactor: 1.2, Breathability: 0.85, WindResistance: 0.35, MoistureSorption: 0.9, InsulatesWhenWet: true},
		"cashmere":  {Name: "cashmere", CloFactor: 1.35, Breathability: 0.75, WindResistance: 0.3, MoistureSorption: 0.85, InsulatesWhenWet: true},
		"fleece":    {Name: "fleece", CloFactor: 1.2, Breathability: 0.6, WindResistance: 0.3, MoistureSorption: 0.1, Synthetic: true},
		"polyester": {Name: "polyester", CloFactor: 0.9, Breathability: 0.4, WindResistance: 0.6, MoistureSorption: 0.05, Synthetic: true},
		"nylon":     {Name: "nylon", CloFactor: 0.85, Breathability: 0.3, WindResistance: 0.85, MoistureSorption: 0.05, Synthetic: true},
		"acrylic":   {Name: "acrylic", CloFactor: 1.0, Breathability: 0.4, WindResistance: 0.4, MoistureSorption: 0.1, Synthetic: true},
		"viscose":   {Name: "viscose", CloFactor: 0.85, Hydrophilic: true, Breathability: 0.65, WindResistance: 0.25, MoistureSorption: 0.4},
		"silk":      {Name: "silk", CloFactor: 0.9, Breathability: 0.8, WindResistance: 0.3, MoistureSorption: 0.5},
		"down":      {Name: "down", CloFactor: 1.6, Hydrophilic: true, Breathability: 0.5, WindResistance: 0.5, MoistureSorption: 0.1},
		"leather":   {Name: "leather", CloFactor: 1.1, Breathability: 0.2, WindResistance: 0.95, MoistureSorption: 0.1},
		"suede":     {Name: "suede", CloFactor: 1.05, Hydrophilic: true, Breathability: 0.3, WindResistance: 0.7, MoistureSorption: 0.2},
		"denim":     {Name: "denim", CloFactor: 1.05, Hydrophilic: true, Breathability: 0.5, WindResistance: 0.55, MoistureSorption: 0.3},
		"shearling": {Name: "shearling", CloFactor: 1.5, Breathability: 0.5, WindResistance: 0.9, MoistureSorption: 0.7, InsulatesWhenWet: true},
		"elastane":  {Name: "elastane", CloFactor: 0.9, Breathability: 0.5, WindResistance: 0.4, MoistureSorption: 0.05, Synthetic: true},
		"rubber":    {Name: "rubber", CloFactor: 0.9, Breathability: 0.05, WindResistance: 1.0, MoistureSorption: 0.0, Synthetic: true},
	}
}

// neutral profile for materials we don't know
var unknownMaterial = MaterialProfile{Name: "unknown", CloFactor: 1.0, Breathability: 0.6, WindResistance: 0.4, MoistureSorption: 0.3}

// Dominant returns the profile for the garment's first listed material.
func (t MaterialTable) Dominant(g models.Garment) MaterialProfile {
	if len(g.Materials) == 0 {
		return unknownMaterial
	}
	name := strings.ToLower(strings.TrimSpace(g.Materials[0]))
	// tolerate entries like "100% cotton"
	for key, profile := range t {
		if strings.Contains(name, key) {
			return profile
		}
	}
	return unknownMaterial
}

// WeaveModifiers scales insulation by fabric construction.
type WeaveModifiers map[models.FabricWeave]float64

func DefaultWeaves() WeaveModifiers {
	return WeaveModifiers{
		models.WeaveStandard:   1.0,
		models.WeaveSeersucker: 0.85,
		models.WeaveFresco:     0.8,
		models.WeaveFlannel:    1.15,
		models.WeaveTweed:      1.25,
		models.WeavePoplin:     0.9,
		models.WeaveKnitChunky: 1.3,
	}
}

func (w WeaveModifiers) For(g models.Garment) float64 {
	if g.FabricWeave == nil {
		return 1.0
	}
	if mod, ok := w[*g.FabricWeave]; ok {
		return mod
	}
	return 1.0
}

// open, 3-D structured weaves that move air in heat
func isBreathableWeave(g models.Garment) bool {
	if g.FabricWeave == nil {
		return false
	}
	return *g.FabricWeave == models.WeaveSeersucker || *g.FabricWeave == models.WeaveFresco
}

// Archetype maps a garment class to its base insulation value before
// material and weave modifiers. First keyword hit wins, like the layer
// classifier cascade.
type Archetype struct {
	Name     string
	Keywords []string
	BaseClo  float64
}

type ArchetypeTable []Archetype

func DefaultArchetypes() ArchetypeTable {
	return ArchetypeTable{
		{Name: "shearling coat", Keywords: []string{"shearling", "sheepskin"}, BaseClo: 1.0},
		{Name: "parka", Keywords: []string{"parka"}, BaseClo: 1.0},
		{Name: "puffer", Keywords: []string{"puffer", "puffa", "down jacket", "quilted"}, BaseClo: 0.9},
		{Name: "overcoat", Keywords: []string{"overcoat", "topcoat", "wool coat"}, BaseClo: 0.7},
		{Name: "trench coat", Keywords: []string{"trench"}, BaseClo: 0.5},
		{Name: "raincoat", Keywords: []string{"raincoat", "rain jacket", "mac"}, BaseClo: 0.3},
		{Name: "windbreaker", Keywords: []string{"windbreaker", "anorak", "shell"}, BaseClo: 0.25},
		{Name: "leather jacket", Keywords: []string{"leather jacket", "moto", "biker"}, BaseClo: 0.5},
		{Name: "bomber", Keywords: []string{"bomber"}, BaseClo: 0.45},
		{Name: "denim jacket", Keywords: []string{"denim jacket", "trucker", "jean jacket"}, BaseClo: 0.4},
		{Name: "harrington", Keywords: []string{"harrington", "chore"}, BaseClo: 0.35},
		{Name: "suit jacket", Keywords: []string{"suit jacket"}, BaseClo: 0.4},
		{Name: "blazer", Keywords: []string{"blazer", "sport coat", "sports jacket"}, BaseClo: 0.35},
		{Name: "gilet", Keywords: []string{"gilet", "vest", "body warmer"}, BaseClo: 0.3},
		{Name: "hoodie", Keywords: []string{"hoodie", "hoody", "sweatshirt", "crewneck"}, BaseClo: 0.35},
		{Name: "sweater", Keywords: []string{"sweater", "jumper", "pullover", "cardigan", "knit"}, BaseClo: 0.35},
		{Name: "turtleneck", Keywords: []string{"turtleneck", "rollneck"}, BaseClo: 0.3},
		{Name: "shirt", Keywords: []string{"shirt", "henley", "blouse", "flannel", "chambray", "oxford"}, BaseClo: 0.2},
		{Name: "polo", Keywords: []string{"polo"}, BaseClo: 0.15},
		{Name: "t-shirt", Keywords: []string{"tee", "t-shirt", "tshirt"}, BaseClo: 0.1},
		{Name: "tank top", Keywords: []string{"tank"}, BaseClo: 0.08},
		{Name: "jeans", Keywords: []string{"jean", "denim"}, BaseClo: 0.25},
		{Name: "trousers", Keywords: []string{"trouser", "slacks", "cargo"}, BaseClo: 0.25},
		{Name: "joggers", Keywords: []string{"jogger", "sweatpant"}, BaseClo: 0.25},
		{Name: "chinos", Keywords: []string{"chino", "pant"}, BaseClo: 0.2},
		{Name: "shorts", Keywords: []string{"shorts"}, BaseClo: 0.1},
		{Name: "boots", Keywords: []string{"boot"}, BaseClo: 0.3},
		{Name: "sneakers", Keywords: []string{"sneaker", "trainer", "shoe", "loafer", "derby", "derbies", "oxfords"}, BaseClo: 0.1},
		{Name: "sandals", Keywords: []string{"sandal"}, BaseClo: 0.02},
		{Name: "scarf", Keywords: []string{"scarf"}, BaseClo: 0.15},
		{Name: "beanie", Keywords: []string{"beanie", "hat"}, BaseClo: 0.1},
		{Name: "gloves", Keywords: []string{"glove"}, BaseClo: 0.1},
		{Name: "cap", Keywords: []string{"cap"}, BaseClo: 0.05},
		{Name: "belt", Keywords: []string{"belt"}, BaseClo: 0.02},
	}
}

func (t ArchetypeTable) For(g models.Garment) Archetype {
	text := strings.ToLower(g.Subcategory + " " + g.Category)
	for _, a := range t {
		for _, kw := range a.Keywords {
			if strings.Contains(text, kw) {
				return a
			}
		}
	}
	return Archetype{Name: "generic", BaseClo: 0.2}
}
