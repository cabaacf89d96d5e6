package taxonomy

import (
	"strings"

	"stylistapi/models"
)

var footwearKeywords = []string{
	"sneaker", "trainer", "shoe", "boot", "loafer", "derby", "derbies",
	"oxford shoe", "oxfords", "sandal", "slipper", "footwear", "moccasin",
}

var bottomKeywords = []string{
	"jean", "trouser", "chino", "pant", "shorts", "jogger", "sweatpant",
	"skirt", "legging", "cargo",
}

var accessoryKeywords = []string{
	"belt", "scarf", "beanie", "hat", "cap", "glove", "watch", "bag",
	"sock", "tie", "sunglasses",
}

// true outerwear regardless of construction
var outerwearKeywords = []string{
	"coat", "parka", "puffer", "puffa", "shearling", "raincoat",
	"windbreaker", "anorak", "trench", "overcoat", "down jacket",
}

// jacket/blazer family that still reads as a mid layer
var tailoredKeywords = []string{"blazer", "suit jacket", "sport coat", "sports jacket"}

// exception list: these jacket constructions are shells, not mid layers
var shellJacketKeywords = []string{
	"leather", "bomber", "denim jacket", "jean jacket", "trucker",
	"harrington", "moto", "biker",
}

var knitKeywords = []string{
	"sweater", "jumper", "pullover", "cardigan", "hoodie", "hoody",
	"sweatshirt", "crewneck", "vest", "gilet", "turtleneck", "rollneck",
	"knit", "fleece",
}

var shirtKeywords = []string{
	"shirt", "tee", "t-shirt", "tshirt", "polo", "henley", "top", "tank",
	"blouse",
}

// LayerTypeFor assigns the coarse layering role from category/subcategory
// text. The cascade order matters: the same garment class plays different
// structural roles depending on fabric and construction, and the layering
// rules downstream (sleeve length, tuck policy) depend on this role.
func LayerTypeFor(category, subcategory string) models.LayerType {
	text := fold(strings.TrimSpace(category + " " + subcategory))

	if containsAny(text, footwearKeywords) {
		return models.LayerShoes
	}
	if containsAny(text, bottomKeywords) {
		return models.LayerBottom
	}
	if containsAny(text, accessoryKeywords) {
		return models.LayerAccessory
	}
	if containsAny(text, outerwearKeywords) {
		return models.LayerOuter
	}
	if containsAny(text, tailoredKeywords) {
		// a leather or bomber blazer reads as a shell
		if containsAny(text, shellJacketKeywords) {
			return models.LayerOuter
		}
		return models.LayerMid
	}
	if containsAny(text, shellJacketKeywords) {
		return models.LayerOuter
	}
	if containsAny(text, knitKeywords) {
		return models.LayerMid
	}
	if containsAny(text, shirtKeywords) {
		return models.LayerBase
	}
	// any remaining "jacket" is a shell of unknown construction
	if strings.Contains(text, "jacket") {
		return models.LayerOuter
	}
	return models.LayerBase
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
