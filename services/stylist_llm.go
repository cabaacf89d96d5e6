package services

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// LLMModelName is the Gemini model to use for outfit composition.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

type LLMResponse struct {
	Response           string `json:"response"`
	InputTokenCount    int32  `json:"input_token_count"`
	Thoughts           string `json:"thoughts"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
	IsTest             bool   `json:"is_test"`
}

// OutfitLLMProcessor composes outfits from a prepared wardrobe prompt.
type OutfitLLMProcessor interface {
	GenerateOutfits(prompt string, modelName LLMModelName) (*LLMResponse, error)
}

type GoogleOutfitStylist struct{}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	var thinkingContent string
	for _, c := range result.Candidates {
		fmt.Println("Finish reason: ", c.FinishReason, " Finish message: ", c.FinishMessage)

		if len(c.SafetyRatings) > 0 {
			fmt.Println("[Safety] Safety ratings present:", len(c.SafetyRatings))
			for _, rating := range c.SafetyRatings {
				fmt.Println("[Safety] rating:", rating.Category, "Score:", rating.Probability, "Severity score:", rating.SeverityScore, " Blocked:", rating.Blocked)
				if rating.Blocked {
					return nil, fmt.Errorf("content violation: couldn't compose outfits, response contains %s,", rating.Category)
				}
			}
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				if result.UsageMetadata != nil && result.UsageMetadata.ThoughtsTokenCount > 25000 {
					fmt.Println("Warning: Thought content is too long:", result.UsageMetadata.ThoughtsTokenCount, part.Text)
				}
				thinkingContent = part.Text
				continue
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}

var outfitResponseSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"outfits": {
			Type: "array",
			Items: &genai.Schema{
				Type: "object",
				Properties: map[string]*genai.Schema{
					"name": {Type: "string"},
					"garment_ids": {
						Type:  "array",
						Items: &genai.Schema{Type: "string"},
					},
					"style": {Type: "string"},
				},
				Required: []string{"name", "garment_ids"},
			},
		},
	},
	Required: []string{"outfits"},
}

const stylistSystemInstruction = `You are a personal stylist composing full outfits from the user's own wardrobe.
You receive layering slots with candidate garments per slot. Each candidate has a reference id.
Compose outfits strictly from the listed candidates: pick at most one garment per slot, never invent garments, never reuse a reference outside its slot.
Every outfit must cover every required slot, must include bottoms and shoes, and garments within one outfit should share a coherent style and color story.
Return JSON only.`

func (GoogleOutfitStylist) GenerateOutfits(prompt string, modelName LLMModelName) (*LLMResponse, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Println("Error creating genai client:", err)
		return nil, fmt.Errorf("%v", err)
	}

	parts := []*genai.Part{
		{Text: prompt},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  20000,
		Temperature:      floatPointer(0.7),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: stylistSystemInstruction},
			},
		},
		ResponseSchema: outfitResponseSchema,
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}
	inputTokenCount := result.UsageMetadata.PromptTokenCount
	thoughtsTokenCount := result.UsageMetadata.ThoughtsTokenCount
	outpuTokenCount := result.UsageMetadata.CandidatesTokenCount
	totalTokenCount := result.UsageMetadata.TotalTokenCount
	fmt.Println("Input token count:", inputTokenCount)
	fmt.Println("Output token count:", outpuTokenCount)
	fmt.Println("Thoughts token count:", thoughtsTokenCount)
	fmt.Println("Total token count:", totalTokenCount)
	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		fmt.Println(result.PromptFeedback.SafetyRatings)
		return nil, fmt.Errorf("content violation: %s ", result.PromptFeedback.BlockReasonMessage)
	}
	fmt.Println("Number of candidates received:", len(result.Candidates))
	llmResponseText, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		fmt.Println("Error getting first candidate text: ", err)
		fmt.Println(result.Candidates)
		return nil, fmt.Errorf("error getting first candidate text: %v", err)
	}
	return &LLMResponse{
		Response:           llmResponseText.Text,
		Thoughts:           llmResponseText.Thoughts,
		InputTokenCount:    inputTokenCount,
		ThoughtsTokenCount: thoughtsTokenCount,
		OutputTokenCount:   outpuTokenCount,
		TotalTokenCount:    totalTokenCount,
		IsTest:             false,
	}, nil
}
