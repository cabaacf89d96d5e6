package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stylistapi/models"
	"stylistapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type UserLocationIn struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type UserPreferencesIn struct {
	PreferredStyle *string `json:"preferred_style" validate:"omitempty,max=50"`
}

type UserInfoOut struct {
	Id             uint     `json:"id,omitempty"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Status         string   `json:"status"`
	AvatarUrl      string   `json:"avatar_url"`
	Subscription   string   `json:"subscription"`
	PreferredStyle *string  `json:"preferred_style"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	DailyAlerts    bool     `json:"daily_outfit_alerts"`
}

type UserDataController struct {
	Google      services.GoogleServiceProvider
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
}

func (controller *UserDataController) UserDataRoutes(g *echo.Group) {
	g.GET("/me", controller.Me)
	g.POST("/push-token", controller.RegisterPushToken)
	g.POST("/subscription/refresh", controller.RefreshSubscription)
	g.PUT("/settings", controller.UpdateSettings)
	g.PUT("/location", controller.UpdateLocation)
	g.PUT("/preferences", controller.UpdatePreferences)
}

func (controller *UserDataController) Me(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)

	return c.JSON(http.StatusOK, UserInfoOut{
		Id:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Status:         user.Status,
		AvatarUrl:      user.AvatarUrl,
		Subscription:   string(user.Subscription),
		PreferredStyle: user.PreferredStyle,
		Latitude:       user.Latitude,
		Longitude:      user.Longitude,
		DailyAlerts:    user.DailyOutfitAlerts,
	})
}

// RefreshSubscription pulls the user's entitlements from the billing
// provider and updates the stored plan. The plan feeds the free tier gates
// on garment count and daily generations.
func (controller *UserDataController) RefreshSubscription(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	b, err := controller.Google.GetUserSubscriptionStatus(context.Background(), fmt.Sprint(user.ID))
	if err != nil {
		fmt.Println(err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Could not fetch subscription status"})
	}

	var subData map[string]interface{}
	if err := json.Unmarshal(b, &subData); err != nil {
		fmt.Println("Error decoding user subscription status", err)
		sentry.CaptureException(err)
		return echo.ErrInternalServerError
	}
	subscriber, ok := subData["subscriber"].(map[string]interface{})
	if !ok {
		fmt.Println("Error reading sub status of user ", user.ID)
		return echo.ErrInternalServerError
	}
	entitlements, ok := subscriber["entitlements"].(map[string]interface{})
	if !ok {
		fmt.Println("Error reading sub status of user ", user.ID)
		return echo.ErrInternalServerError
	}

	timeLayout := "2006-01-02T15:04:05Z"
	plan := models.Free
	var expiration *time.Time
	for name, raw := range entitlements {
		entitlement, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		expiresStr, ok := entitlement["expires_date"].(string)
		if !ok {
			continue
		}
		expires, err := time.Parse(timeLayout, expiresStr)
		if err != nil || expires.Before(time.Now()) {
			continue
		}
		if strings.Contains(strings.ToLower(name), "plus") {
			plan = models.ProPlus
		} else if plan != models.ProPlus {
			plan = models.Pro
		}
		if expiration == nil || expires.After(*expiration) {
			expiration = &expires
		}
	}

	user.Subscription = plan
	user.ExpirationDate = expiration
	if err := db.Save(&user).Error; err != nil {
		sentry.CaptureException(err)
		return echo.ErrInternalServerError
	}
	fmt.Printf("[User %v] Subscription refreshed to %v\n", user.ID, plan)

	return c.JSON(http.StatusOK, map[string]string{"subscription": string(plan)})
}

func (controller *UserDataController) RegisterPushToken(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req models.UserPushIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Token is required"})
	}

	var existing models.UserPushToken
	result := db.Limit(1).Find(&existing, "user_account_id = ? AND token = ?", user.ID, req.Token)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save push token"})
	}
	if result.RowsAffected > 0 {
		existing.Active = true
		existing.Platform = models.Platform(req.Platform)
		if err := db.Save(&existing).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save push token"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Push token refreshed"})
	}

	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      models.Platform(req.Platform),
		Token:         req.Token,
		Active:        true,
	}
	if err := db.Create(&tokenDb).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save push token"})
	}
	fmt.Printf("[User %v] Registered push token for platform %s\n", user.ID, req.Platform)
	return c.JSON(http.StatusCreated, map[string]string{"message": "Push token registered"})
}

func (controller *UserDataController) UpdateSettings(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req models.UserSettingsIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	user.ReceiveNotifications = req.ReceiveNotifications
	user.DailyOutfitAlerts = req.DailyOutfitAlerts
	if err := db.Select("receive_notifications", "daily_outfit_alerts").Updates(&user).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update settings"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Settings updated"})
}

func (controller *UserDataController) UpdateLocation(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req UserLocationIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user.Latitude = req.Latitude
	user.Longitude = req.Longitude
	if err := db.Select("latitude", "longitude").Updates(&user).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update location"})
	}
	fmt.Printf("[User %v] Location updated\n", user.ID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Location updated"})
}

func (controller *UserDataController) UpdatePreferences(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req UserPreferencesIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user.PreferredStyle = req.PreferredStyle
	if err := db.Select("preferred_style").Updates(&user).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update preferences"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Preferences updated"})
}
