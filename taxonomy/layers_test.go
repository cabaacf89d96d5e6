package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stylistapi/models"
)

func TestLayerTypeForBasics(t *testing.T) {
	cases := []struct {
		category    string
		subcategory string
		want        models.LayerType
	}{
		{"shoes", "Sneakers", models.LayerShoes},
		{"shoes", "Chelsea Boots", models.LayerShoes},
		{"bottoms", "Jeans", models.LayerBottom},
		{"bottoms", "Cargo Pants", models.LayerBottom},
		{"accessories", "Belt", models.LayerAccessory},
		{"accessories", "Scarf", models.LayerAccessory},
		{"tops", "T-Shirt", models.LayerBase},
		{"tops", "Oxford Shirt", models.LayerBase},
		{"tops", "Sweater", models.LayerMid},
		{"tops", "Hoodie", models.LayerMid},
		{"outerwear", "Parka", models.LayerOuter},
		{"outerwear", "Puffer Jacket", models.LayerOuter},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LayerTypeFor(tc.category, tc.subcategory), "%s/%s", tc.category, tc.subcategory)
	}
}

func TestLayerTypeForJacketFamilySplit(t *testing.T) {
	// tailored jackets layer over a shirt and under a coat
	assert.Equal(t, models.LayerMid, LayerTypeFor("outerwear", "Blazer"))
	assert.Equal(t, models.LayerMid, LayerTypeFor("outerwear", "Suit Jacket"))
	// shell constructions are the outermost piece even when called jackets
	assert.Equal(t, models.LayerOuter, LayerTypeFor("outerwear", "Leather Jacket"))
	assert.Equal(t, models.LayerOuter, LayerTypeFor("outerwear", "Denim Jacket"))
	assert.Equal(t, models.LayerOuter, LayerTypeFor("outerwear", "Bomber Jacket"))
	// a leather blazer reads as a shell, not a mid layer
	assert.Equal(t, models.LayerOuter, LayerTypeFor("outerwear", "Leather Blazer"))
}

func TestLayerTypeForShortSleeveIsNotABottom(t *testing.T) {
	// "short sleeve" must not trip the shorts keyword
	assert.Equal(t, models.LayerBase, LayerTypeFor("tops", "Short Sleeve Shirt"))
	assert.Equal(t, models.LayerBottom, LayerTypeFor("bottoms", "Shorts"))
}

func TestLayerTypeForUnknownJacketDefaultsToShell(t *testing.T) {
	assert.Equal(t, models.LayerOuter, LayerTypeFor("outerwear", "Softshell Jacket"))
}

func TestLayerTypeForUnclassifiedDefaultsToBase(t *testing.T) {
	assert.Equal(t, models.LayerBase, LayerTypeFor("tops", "Tunic"))
}

func TestLayerTypeForVestAndGilet(t *testing.T) {
	assert.Equal(t, models.LayerMid, LayerTypeFor("tops", "Sweater Vest"))
	assert.Equal(t, models.LayerMid, LayerTypeFor("outerwear", "Gilet"))
}
