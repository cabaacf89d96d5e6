package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"stylistapi/models"
	"stylistapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthController struct {
	Google services.GoogleServiceProvider
}

// AuthRoutes is mounted without the JWT middleware: these endpoints mint the
// tokens everything else requires.
func (m *AuthController) AuthRoutes(g *echo.Group) {
	g.POST("/google", func(c echo.Context) (err error) {
		creds := new(models.GoogleSignInRequest)
		if err := c.Bind(creds); err != nil {
			return err
		}
		if err = c.Validate(creds); err != nil {
			return err
		}

		payload, err := m.Google.ValidateIdToken(context.Background(), creds.IdToken, os.Getenv("GOOGLE_CLIENT_ID"))
		if err != nil {
			fmt.Println(err)
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}
		sub, ok := payload.Claims["sub"]
		if !ok {
			sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data %s", payload.Claims))
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}
		googleId := sub.(string)
		googleEmail, ok := payload.Claims["email"].(string)
		if !ok {
			sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data email %s", payload.Claims))
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}
		pictureUrl, _ := payload.Claims["picture"].(string)
		googleName, _ := payload.Claims["name"].(string)

		db := c.Get("__db").(*gorm.DB)
		var user models.UserAccount
		r := db.Where("google_id = ?", googleId).Limit(1).Find(&user)
		if r.Error != nil {
			sentry.CaptureException(r.Error)
			return echo.ErrInternalServerError
		}
		isNew := false
		if r.RowsAffected == 0 {
			// accounts created before google linking match on email
			r = db.Where("email = ?", googleEmail).Limit(1).Find(&user)
			if r.Error != nil {
				sentry.CaptureException(r.Error)
				return echo.ErrInternalServerError
			}
			if r.RowsAffected > 0 {
				user.GoogleID = googleId
				user.AvatarUrl = pictureUrl
			} else {
				isNew = true
				user = models.UserAccount{
					Name:         googleName,
					Email:        googleEmail,
					GoogleID:     googleId,
					AvatarUrl:    pictureUrl,
					Status:       "FINISHED_AUTH",
					Subscription: models.Free,
				}
			}
		}
		if user.Banned {
			return echo.ErrForbidden
		}
		user.LastIp = c.RealIP()
		user.Platform = models.Platform(creds.Platform)
		if err := db.Save(&user).Error; err != nil {
			sentry.CaptureException(err)
			return echo.ErrInternalServerError
		}
		fmt.Printf("[User %v] Signed in via google, new: %v\n", user.ID, isNew)

		refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
		if err != nil {
			fmt.Println(err)
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, models.SignInOut{
			Id:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Avatar:       user.AvatarUrl,
			New:          isNew,
			Subscription: string(user.Subscription),
			AccessToken:  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
			RefreshToken: refreshToken,
		})
	})

	g.POST("/refresh", func(c echo.Context) error {
		tokenReq := new(models.RefreshTokenIn)
		if err := c.Bind(tokenReq); err != nil {
			return echo.ErrBadRequest
		}
		if tokenReq.RefreshToken == "" {
			return echo.ErrBadRequest
		}
		token, err := jwt.Parse(tokenReq.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil {
			fmt.Println(err)
			return echo.ErrBadRequest
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			return echo.ErrUnauthorized
		}
		data, ok := claims["sub"].(string)
		if !ok {
			return echo.ErrBadRequest
		}
		userId, err := strconv.Atoi(data)
		if err != nil || userId < 1 {
			return echo.ErrBadRequest
		}

		db := c.Get("__db").(*gorm.DB)
		var user models.UserAccount
		result := db.First(&user, userId)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return echo.ErrForbidden
		}
		if result.Error != nil {
			sentry.CaptureException(result.Error)
			return echo.ErrInternalServerError
		}
		if user.Banned {
			return echo.ErrUnauthorized
		}

		refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
		if err != nil {
			fmt.Println("Error refreshing token ", err)
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, echo.Map{
			"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
			"refresh_token": refreshToken,
		})
	})
}
