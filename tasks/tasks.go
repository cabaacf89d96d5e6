package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"stylistapi/models"
	"stylistapi/outfits"
	"stylistapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type OutfitGenerationPayload struct {
	GenerationID uint `json:"generation_id"`
}

// Client initializes an asynq client for enqueuing tasks
func NewClient() (*asynq.Client, error) {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}), nil
}

func NewOutfitGenerationTask(generationID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OutfitGenerationPayload{GenerationID: generationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("generate:outfits", payload), nil
}

func cleanAIResponseText(text string) string {
	cleanContent := strings.ReplaceAll(text, "```json", "")
	cleanContent = strings.TrimSuffix(strings.TrimSpace(cleanContent), "```")
	return cleanContent
}

// extractJSONObject recovers the largest {...} substructure when the model
// wrapped its JSON in prose despite the response schema.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}

type outfitBatchResponse struct {
	Outfits []outfits.OutfitCandidate `json:"outfits"`
}

func loadTemplates(db *gorm.DB) []outfits.LayeringTemplate {
	var records []models.LayeringTemplateRecord
	result := db.Where("active = true").Order("min_temp_c asc").Find(&records)
	if result.Error != nil || len(records) == 0 {
		if result.Error != nil {
			sentry.CaptureException(fmt.Errorf("[Templates] Error loading layering templates: %v", result.Error))
		}
		fmt.Println("[Templates] Falling back to built-in layering templates")
		return outfits.DefaultTemplates()
	}
	var templates []outfits.LayeringTemplate
	for _, record := range records {
		template, err := outfits.ParseTemplateRecord(record)
		if err != nil {
			sentry.CaptureException(fmt.Errorf("[Templates] Bad slots payload for template %s: %v", record.Name, err))
			continue
		}
		templates = append(templates, template)
	}
	if len(templates) == 0 {
		return outfits.DefaultTemplates()
	}
	return templates
}

func loadStyleContext(db *gorm.DB, style string) string {
	if style == "" {
		return ""
	}
	var record models.StyleContextRecord
	result := db.Limit(1).Find(&record, "style = ?", style)
	if result.Error != nil || result.RowsAffected == 0 {
		return ""
	}
	return record.ContextText
}

func loadHardRules(db *gorm.DB) []string {
	var records []models.HardRuleRecord
	result := db.Where("active = true").Order("id asc").Find(&records)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Rules] Error loading hard rules: %v", result.Error))
		return nil
	}
	var rules []string
	for _, record := range records {
		rules = append(rules, record.RuleText)
	}
	return rules
}

func marshalToString(value interface{}) *string {
	bytes, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return services.StrPointer(string(bytes))
}

func saveGenerationFail(db *gorm.DB, generation models.OutfitGeneration, msg string, shouldRetry bool) error {
	generation.GenerationRetryTimes = generation.GenerationRetryTimes + 1
	generation.GenerationErrorMessage = &msg
	if !shouldRetry || generation.GenerationRetryTimes >= 3 {

		generation.Status = "failed"
	}
	tx := db.Save(&generation)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Generation %v] Error on saving generation for failed status", generation.ID))
		return tx.Error
	}
	return nil
}

// HandleOutfitGenerationTask runs one generation end to end: weather,
// wardrobe filter, template selection, the LLM call and validation.
func HandleOutfitGenerationTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.OutfitLLMProcessor,
	weatherService services.WeatherServiceProvider, fbApp *firebase.App) error {
	googleKey := os.Getenv("GOOGLE_API_KEY")
	if googleKey == "" {
		sentry.CaptureException(fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload())))
		return fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload()))
	}
	var payload OutfitGenerationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Generation: %v] Start Processing\n", payload.GenerationID)
	startedAt := time.Now()

	var generation models.OutfitGeneration
	res := db.Joins("UserAccount").First(&generation, payload.GenerationID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving generation for processing %v", payload.GenerationID))
		return res.Error
	}
	user := generation.UserAccount
	if user.Latitude == nil || user.Longitude == nil {
		saveGenerationFail(db, generation, "Set your location first so we can check the weather", false)
		sentry.CaptureException(fmt.Errorf("[Generation: %v] User %v has no location set", payload.GenerationID, user.ID))
		return nil
	}

	weather, err := weatherService.FetchWeather(ctx, *user.Latitude, *user.Longitude)
	if err != nil {
		fmt.Printf("[Generation: %v] Error fetching weather: %v\n", payload.GenerationID, err)
		saveGenerationFail(db, generation, "Failed to fetch the weather for your location, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error fetching weather: %v", payload.GenerationID, err))
		return err
	}
	fmt.Printf("[Generation: %v] Weather: %.1fC wind %.0f precipitation %v season %s\n", payload.GenerationID, weather.TemperatureC, weather.WindKph, weather.Precipitation, weather.Season)

	var wardrobe []models.Garment
	result := db.Where("owner_id = ? and status = ?", user.ID, "in_closet").Order("id asc").Find(&wardrobe)
	if result.Error != nil {
		saveGenerationFail(db, generation, "Failed to load your wardrobe, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error loading wardrobe: %v", payload.GenerationID, result.Error))
		return result.Error
	}
	if len(wardrobe) == 0 {
		saveGenerationFail(db, generation, "Your wardrobe is empty, add a few garments first", false)
		return nil
	}
	fmt.Printf("[Generation: %v] Wardrobe size: %d\n", payload.GenerationID, len(wardrobe))

	style := generation.RequestedStyle
	if style == "" && user.PreferredStyle != nil {
		style = *user.PreferredStyle
	}
	if style == "" {
		style = outfits.BaselineStyle
	}
	styleContext := loadStyleContext(db, style)
	templates := loadTemplates(db)

	engine := outfits.NewEngine(nil, nil, 3)
	selection, suitable, debug := engine.Prepare(wardrobe, *weather, models.UserContext{Activity: models.ActivityNormal}, templates, styleContext)
	fmt.Printf("[Generation: %v] Template: %s, suitable garments: %d of %d\n", payload.GenerationID, selection.Template.Name, len(suitable), len(wardrobe))

	// Persist the pre-call trace so a failed LLM call still leaves the
	// engine decisions on record.
	generation.WeatherJSON = marshalToString(weather)
	generation.DebugTraceJSON = marshalToString(debug)
	if tx := db.Save(&generation); tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error saving pre-call trace: %v", payload.GenerationID, tx.Error))
		return tx.Error
	}

	if len(suitable) == 0 {
		saveGenerationFail(db, generation, "Nothing in your wardrobe fits this weather, consider adding seasonal garments", false)
		return nil
	}

	prompt := outfits.BuildGenerationPrompt(outfits.PromptInput{
		Weather:      *weather,
		Style:        style,
		StyleContext: styleContext,
		HardRules:    loadHardRules(db),
		Selection:    selection,
		OutfitCount:  3,
	})

	model := services.Flash25
	modelString := model.String()
	if user.EnforcedLLMModel != nil {
		model = services.LLMModelName(*user.EnforcedLLMModel)
		modelString = model.String()
		fmt.Printf("[Generation: %v] [ENFORCE MODEL] Using enforced model: %s\n", payload.GenerationID, model.String())
	}
	fmt.Printf("[Generation: %v] Model: %s\n", payload.GenerationID, modelString)

	llmResponse, err := stylist.GenerateOutfits(prompt, model)
	if err != nil {
		if strings.Contains(err.Error(), "content violation") {
			saveGenerationFail(db, generation, "Sorry, we could not compose outfits for this request.", false)
			sentry.CaptureException(fmt.Errorf("[Generation: %v] Content violation on composing outfits: %v", payload.GenerationID, err))
			return nil
		}
		fmt.Printf("[Generation: %v] Error on composing outfits: %v\n", payload.GenerationID, err)
		saveGenerationFail(db, generation, "Failed to compose outfits, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error on composing outfits: %v", payload.GenerationID, err))
		return err
	}
	if llmResponse == nil {
		saveGenerationFail(db, generation, "Failed to compose outfits, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Response is nil but no error provided on composing outfits", payload.GenerationID))
		return fmt.Errorf("[Generation: %v] Response is nil but no error provided on composing outfits", payload.GenerationID)
	}

	cleanContent := cleanAIResponseText(llmResponse.Response)
	fmt.Printf("[Generation: %v] LLM Processed: %q, IT: %d, OT: %d, TT: %d, TOT: %d\n", payload.GenerationID, cleanContent, llmResponse.InputTokenCount, llmResponse.OutputTokenCount, llmResponse.ThoughtsTokenCount, llmResponse.TotalTokenCount)
	var batch outfitBatchResponse
	if err := json.Unmarshal([]byte(cleanContent), &batch); err != nil {
		if err := json.Unmarshal([]byte(extractJSONObject(cleanContent)), &batch); err != nil {
			fmt.Printf("[Generation: %v] Error on parsing Gemini %s AI json %s\n", payload.GenerationID, model.String(), llmResponse.Response)
			saveGenerationFail(db, generation, "Failed to read the composed outfits, please try again", true)
			sentry.CaptureException(fmt.Errorf("[Generation: %v] Error on parsing Gemini %s AI json %s", payload.GenerationID, model.String(), llmResponse.Response))
			return err
		}
	}

	accepted := engine.ValidateAll(batch.Outfits, selection, wardrobe, debug)
	fmt.Printf("[Generation: %v] Accepted %d of %d proposed outfits\n", payload.GenerationID, len(accepted), len(batch.Outfits))
	if len(accepted) == 0 {
		generation.DebugTraceJSON = marshalToString(debug)
		saveGenerationFail(db, generation, "The composed outfits did not pass validation, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Generation: %v] All %d proposed outfits rejected", payload.GenerationID, len(batch.Outfits)))
		return fmt.Errorf("[Generation: %v] All proposed outfits rejected", payload.GenerationID)
	}

	duration := time.Since(startedAt).Seconds()
	generation.OutfitsJSON = marshalToString(accepted)
	generation.DebugTraceJSON = marshalToString(debug)
	generation.LLMModel = &modelString
	generation.LLMInputTokenCount = &llmResponse.InputTokenCount
	generation.LLMOutputTokenCount = &llmResponse.OutputTokenCount
	generation.LLMThoughtsTokenCount = &llmResponse.ThoughtsTokenCount
	generation.LLMTotalTokenCount = &llmResponse.TotalTokenCount
	generation.Duration = &duration
	generation.Status = "completed"
	generation.GenerationErrorMessage = nil
	tx := db.Save(&generation)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on saving generation %v", payload.GenerationID))
		return tx.Error
	}
	fmt.Printf("[Generation: %v] Finished succesfully in %.1fs\n", payload.GenerationID, duration)
	if user.ReceiveNotifications {
		fmt.Printf("[Generation: %v] Sending notification to user %v\n", payload.GenerationID, user.ID)
		services.SendNotification(fbApp, db, user.ID, "Your outfits are ready", fmt.Sprintf("We composed %d outfits for today's weather", len(accepted)), map[string]string{"generation_id": fmt.Sprintf("%d", generation.ID), "type": "outfits_ready"})
	} else {
		fmt.Printf("[Generation: %v] ReceiveNotifications is false, not sending notification to user %v\n", payload.GenerationID, user.ID)
	}
	return nil
}

// ScheduledDailyOutfitTask creates a morning generation for every user who
// opted in to daily outfit alerts.
func ScheduledDailyOutfitTask(ctx context.Context, t *asynq.Task, db *gorm.DB, asynqClient *asynq.Client) error {

	fmt.Printf("[Daily Outfits] Processing for all users\n")

	var users []models.UserAccount
	result := db.Where("banned = ? and daily_outfit_alerts = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Daily Outfits] Error fetching users: %v", result.Error))
		return result.Error
	}

	fmt.Printf("[Daily Outfits] Found %d users to generate for\n", len(users))

	for _, user := range users {
		err := enqueueDailyGeneration(db, asynqClient, user)
		if err != nil {
			fmt.Printf("[Daily Outfits] Failed to enqueue for user %d: %v\n", user.ID, err)
			sentry.CaptureException(fmt.Errorf("[Daily Outfits] Failed to enqueue for user %d: %v", user.ID, err))
			continue
		}
		fmt.Printf("[Daily Outfits] Successfully enqueued generation for user %d\n", user.ID)
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}

	return nil
}

func enqueueDailyGeneration(db *gorm.DB, asynqClient *asynq.Client, user models.UserAccount) error {
	if user.Latitude == nil || user.Longitude == nil {
		fmt.Printf("[Daily Outfits] User %d has no location set, skipping\n", user.ID)
		return nil
	}
	style := outfits.BaselineStyle
	if user.PreferredStyle != nil && *user.PreferredStyle != "" {
		style = *user.PreferredStyle
	}
	generation := models.OutfitGeneration{
		UserAccountID:  user.ID,
		RequestedStyle: style,
		Status:         "pending",
	}
	if err := db.Create(&generation).Error; err != nil {
		return fmt.Errorf("error creating daily generation: %v", err)
	}
	task, err := NewOutfitGenerationTask(generation.ID)
	if err != nil {
		return fmt.Errorf("error building generation task: %v", err)
	}
	_, err = asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
	if err != nil {
		return fmt.Errorf("error enqueueing generation task: %v", err)
	}
	return nil
}
