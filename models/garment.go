package models

import (
	"regexp"

	"github.com/go-playground/validator"
	"github.com/lib/pq"
)

// LayerType is the structural role a garment plays inside an outfit.
type LayerType string

const (
	LayerBase      LayerType = "base"
	LayerMid       LayerType = "mid"
	LayerOuter     LayerType = "outer"
	LayerBottom    LayerType = "bottom"
	LayerShoes     LayerType = "shoes"
	LayerAccessory LayerType = "accessory"
)

func (l *LayerType) Scan(value interface{}) error {
	*l = LayerType(value.(string))
	return nil
}

func (l LayerType) Value() (string, error) {
	return string(l), nil
}

type FabricWeave string

const (
	WeaveStandard   FabricWeave = "standard"
	WeaveSeersucker FabricWeave = "seersucker"
	WeaveFresco     FabricWeave = "fresco"
	WeaveFlannel    FabricWeave = "flannel"
	WeaveTweed      FabricWeave = "tweed"
	WeavePoplin     FabricWeave = "poplin"
	WeaveKnitChunky FabricWeave = "knit_chunky"
)

func (w *FabricWeave) Scan(value interface{}) error {
	*w = FabricWeave(value.(string))
	return nil
}

func (w FabricWeave) Value() (string, error) {
	return string(w), nil
}

func ValidateFabricWeave(fl validator.FieldLevel) bool {
	return ValidateFabricWeaveRaw(fl.Field().String())
}

func ValidateFabricWeaveRaw(value string) bool {
	matched, _ := regexp.MatchString("^(standard|seersucker|fresco|flannel|tweed|poplin|knit_chunky)$", value)
	return matched
}

type SleeveLength string

const (
	SleeveShort SleeveLength = "short"
	SleeveLong  SleeveLength = "long"
	SleeveNone  SleeveLength = "none"
)

func (s *SleeveLength) Scan(value interface{}) error {
	*s = SleeveLength(value.(string))
	return nil
}

func (s SleeveLength) Value() (string, error) {
	return string(s), nil
}

// Garment is the single explicit wardrobe item shape every engine stage
// works with. LayerType is derived from Category/Subcategory and recomputed
// on every edit that touches them, never set by hand.
type Garment struct {
	JsonModel
	Name        string      `json:"name"`
	Owner       UserAccount `json:"-"`
	OwnerID     uint        `json:"-"`
	Category    string      `json:"category"`    // tops, bottoms, outerwear, shoes, accessories
	Subcategory string      `json:"subcategory"` // free text, e.g. "Puffer Jacket"
	// dominant material first
	Materials    pq.StringArray `gorm:"type:text[]" json:"materials"`
	FabricWeave  *FabricWeave   `sql:"type:ENUM('standard', 'seersucker', 'fresco', 'flannel', 'tweed', 'poplin', 'knit_chunky')" json:"fabric_weave"`
	LayerType    LayerType      `sql:"type:ENUM('base', 'mid', 'outer', 'bottom', 'shoes', 'accessory')" json:"layer_type"`
	SleeveLength SleeveLength   `sql:"type:ENUM('short', 'long', 'none')" json:"sleeve_length"`
	// optional user overrides for the comfortable wearing range
	ComfortMinC   *float64       `json:"comfort_min_c"`
	ComfortMaxC   *float64       `json:"comfort_max_c"`
	MainColorName string         `json:"main_color_name"`
	StyleContext  pq.StringArray `gorm:"type:text[]" json:"style_context"`

	Status           string  `json:"status"`            // temporary, in_closet
	ImageStatus      string  `json:"image_status"`      // draft, uploaded
	ProcessingStatus string  `json:"processing_status"` // idle, generating, completed, failed
	ImageURL         *string `json:"image_url"`
}

func ValidateGarmentCategory(fl validator.FieldLevel) bool {
	return ValidateGarmentCategoryRaw(fl.Field().String())
}

func ValidateGarmentCategoryRaw(value string) bool {
	matched, _ := regexp.MatchString("^(tops|bottoms|outerwear|shoes|accessories)$", value)
	return matched
}
