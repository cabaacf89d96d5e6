package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stylistapi/models"
	"stylistapi/outfits"
	"stylistapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Free plan daily generation cap.
const freePlanDailyGenerationLimit = 3

type GenerateOutfitsIn struct {
	Style string `json:"style" validate:"omitempty,max=50"`
}

type GenerationCreatedResponse struct {
	GenerationID uint   `json:"generation_id"`
	Status       string `json:"status"`
}

type GenerationResponse struct {
	GenerationID uint                     `json:"generation_id"`
	Status       string                   `json:"status"`
	Style        string                   `json:"requested_style"`
	Weather      *models.WeatherContext   `json:"weather,omitempty"`
	Outfits      []outfits.ComposedOutfit `json:"outfits,omitempty"`
	ErrorMessage *string                  `json:"error_message,omitempty"`
	CreatedAt    string                   `json:"created_at"`
}

type OutfitsController struct {
	FirebaseApp *firebase.App
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/generate", controller.GenerateOutfits)
	g.GET("/generations/:generationId", controller.GetGeneration)
	g.GET("/generations", controller.ListGenerations)
}

func (controller *OutfitsController) GenerateOutfits(c echo.Context) error {
	var req GenerateOutfitsIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	if user.Latitude == nil || user.Longitude == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Set your location first so we can check the weather"})
	}

	dailyLimit := int64(freePlanDailyGenerationLimit)
	if user.EnforcedDailyGenerationLimit != nil {
		dailyLimit = int64(*user.EnforcedDailyGenerationLimit)
	} else if user.Subscription.IsPaid() {
		dailyLimit = 0
	}
	if dailyLimit > 0 {
		var dailyGenerationCount int64
		today := time.Now().UTC().Format("2006-01-02")
		if err := db.Model(&models.OutfitGeneration{}).Where("user_account_id = ? AND DATE(created_at) = ?", user.ID, today).Count(&dailyGenerationCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get generation data"})
		}
		fmt.Printf("[User %v] Daily generation count: %v of %v", user.ID, dailyGenerationCount, dailyLimit)
		if dailyGenerationCount >= dailyLimit {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the limit of %v daily generations. Please wait for the next day.", dailyLimit)})
		}
	}

	style := req.Style
	if style == "" && user.PreferredStyle != nil {
		style = *user.PreferredStyle
	}
	generation := models.OutfitGeneration{
		UserAccountID:  user.ID,
		RequestedStyle: style,
		Status:         "pending",
	}
	if err := db.Create(&generation).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start generation, please try again"})
	}

	task, err := tasks.NewOutfitGenerationTask(generation.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start generation, please try again"})
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start generation, please try again"})
	}
	fmt.Println("[Queue] Outfit generation task submitted, Generation ID: ", generation.ID, " Task ID: ", info.ID)

	return c.JSON(http.StatusCreated, GenerationCreatedResponse{
		GenerationID: generation.ID,
		Status:       generation.Status,
	})
}

func generationToResponse(generation models.OutfitGeneration) GenerationResponse {
	response := GenerationResponse{
		GenerationID: generation.ID,
		Status:       generation.Status,
		Style:        generation.RequestedStyle,
		ErrorMessage: generation.GenerationErrorMessage,
		CreatedAt:    generation.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if generation.WeatherJSON != nil {
		var weather models.WeatherContext
		if err := json.Unmarshal([]byte(*generation.WeatherJSON), &weather); err == nil {
			response.Weather = &weather
		}
	}
	if generation.OutfitsJSON != nil {
		var composed []outfits.ComposedOutfit
		if err := json.Unmarshal([]byte(*generation.OutfitsJSON), &composed); err == nil {
			response.Outfits = composed
		} else {
			sentry.CaptureException(fmt.Errorf("[Generation: %v] Stored outfits payload unreadable: %v", generation.ID, err))
		}
	}
	return response
}

func (controller *OutfitsController) GetGeneration(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var generationId uint
	if err := echo.PathParamsBinder(c).Uint("generationId", &generationId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var generation models.OutfitGeneration
	result := db.Limit(1).Find(&generation, "id = ? AND user_account_id = ?", generationId, user.ID)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch generation"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Generation not found"})
	}
	return c.JSON(http.StatusOK, generationToResponse(generation))
}

func (controller *OutfitsController) ListGenerations(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var generations []models.OutfitGeneration
	if err := db.Where("user_account_id = ?", user.ID).Order("id desc").Limit(20).Find(&generations).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch generations"})
	}
	responses := make([]GenerationResponse, 0, len(generations))
	for _, generation := range generations {
		responses = append(responses, generationToResponse(generation))
	}
	return c.JSON(http.StatusOK, responses)
}
