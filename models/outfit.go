package models

// OutfitGeneration tracks one "generate outfits" request end to end,
// including the LLM usage numbers and the debug trace from the engine.
type OutfitGeneration struct {
	JsonModel
	UserAccountID uint        `json:"-"`
	UserAccount   UserAccount `json:"user_account"`

	RequestedStyle string   `json:"requested_style"`
	Status         string   `json:"status"`   // pending, completed, failed
	Duration       *float64 `json:"duration"` // in seconds

	// weather snapshot the engine ran against
	WeatherJSON *string `gorm:"type:text" json:"-"`
	// engine trace: filtered wardrobe, template verdicts, selection.
	// Written before the LLM call and updated after, so a failed call
	// still leaves the pre-call decisions on record.
	DebugTraceJSON *string `gorm:"type:text" json:"-"`
	// accepted outfits as returned to the client
	OutfitsJSON *string `gorm:"type:text" json:"-"`

	LLMModel              *string `json:"llm_model"`
	LLMInputTokenCount    *int32  `json:"llm_input_token_count"`
	LLMOutputTokenCount   *int32  `json:"llm_output_token_count"`
	LLMThoughtsTokenCount *int32  `json:"llm_thoughts_token_count"`
	LLMTotalTokenCount    *int32  `json:"llm_total_token_count"`

	GenerationRetryTimes   int     `json:"generation_retry_times"`
	GenerationErrorMessage *string `json:"generation_error_message"`
}

// LayeringTemplateRecord is knowledge data: the engine only cares about the
// parsed payload shape, not where it came from. SlotsJSON holds the ordered
// slot list as JSON.
type LayeringTemplateRecord struct {
	JsonModel
	Name       string  `gorm:"unique" json:"name"`
	LayerCount int     `json:"layer_count"`
	MinTempC   float64 `json:"min_temp_c"`
	MaxTempC   float64 `json:"max_temp_c"`
	SlotsJSON  string  `gorm:"type:text" json:"-"`
	Active     bool    `gorm:"default:true" json:"-"`
}

// StyleContextRecord carries the per-style prompt context blob.
type StyleContextRecord struct {
	JsonModel
	Style       string `gorm:"unique" json:"style"`
	ContextText string `gorm:"type:text" json:"context_text"`
}

// HardRuleRecord is the tailoring rules text handed to the generator prompt.
type HardRuleRecord struct {
	JsonModel
	Name     string `json:"name"`
	RuleText string `gorm:"type:text" json:"rule_text"`
	Active   bool   `gorm:"default:true" json:"-"`
}
