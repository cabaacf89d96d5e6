package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"stylistapi/models"
	"stylistapi/services"

	"github.com/golang-jwt/jwt/v4"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	log.Println(JsonString(param))
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewJSONAuthRequestRaw(method string, target string, userPk string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func Float64Pointer(f float64) *float64 {
	return &f
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	user := &models.UserAccount{
		Name:         "OurName",
		Email:        "email@example.com",
		GoogleID:     "12232",
		Platform:     models.PlatformIOS,
		LastIp:       "123.122.122.122",
		Status:       "FINISHED_AUTH",
		AvatarUrl:    "pictureurl",
		Subscription: "free",
		Latitude:     Float64Pointer(52.52),
		Longitude:    Float64Pointer(13.405),
	}
	db.Create(&user)

	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU-rqG1sxS8_WCF5cGZchf",
		Active:        true,
	}
	db.Save(&tokenDb)
	db.First(&user, user.ID)

	return user
}

func FakeUserV2(db *gorm.DB, userName string, email string) *models.UserAccount {

	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{
		Name:         userName,
		Email:        email,
		GoogleID:     "12232",
		Platform:     models.PlatformIOS,
		LastIp:       "123.122.122.122",
		Status:       "FINISHED_AUTH",
		AvatarUrl:    "pictureurl",
		Subscription: "free",
	}
	db.Create(&user)
	db.First(&user, user.ID)
	return user
}

func Contains(items []string, lookFor string) bool {

	for i := 0; i < len(items); i++ {

		if items[i] == lookFor {
			return true
		}
	}
	return false
}

func NewRefString(data string) *string {
	return &data
}

type GoogleServiceMock struct{}

func (gsm GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {

	return &idtoken.Payload{Issuer: "Issue", Audience: "AAA", Expires: 119919191919, IssuedAt: 12312321321, Subject: "fake@example.com", Claims: map[string]interface{}{
		"email":   "fake@example.com",
		"picture": "pictureurl",
		"sub":     "123googleid",
	}}, nil

}

func (gsm GoogleServiceMock) GetUserSubscriptionStatus(ctx context.Context, appUserId string) ([]byte, error) {
	data := `
	{
		"request_date": "2026-05-11T06:50:56Z",
		"subscriber": {
		  "entitlements": {
			"Pro": {
			  "expires_date": "2029-05-11T06:51:15Z",
			  "product_identifier": "prostandard",
			  "purchase_date": "2026-05-11T06:49:05Z"
			}
		  },
		  "management_url": "https://play.google.com/store/account/subscriptions"
		}
	  }
	  `

	return []byte(data), nil
}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignUploadURL(ctx context.Context, bucketName string, objectKey string) (string, error) {

	return fmt.Sprintf("https://fakebucketurl.com/%s", objectKey), nil
}

func (awsService AWSProviderMock) PresignReadURL(ctx context.Context, bucketName, objectKey string) (string, error) {
	return awsService.MockUrl, nil
}

type URLCacheMock struct {
	MockUrl string
}

func (m *URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if m.MockUrl != "" {
		return m.MockUrl, nil
	}
	return fmt.Sprintf("https://fakebucketurl.com/%s", objectKey), nil
}

// MockWeatherService returns a fixed snapshot, defaulting to a mild clear
// day when Weather is nil.
type MockWeatherService struct {
	Weather *models.WeatherContext
	Err     error
}

func (m MockWeatherService) FetchWeather(ctx context.Context, latitude float64, longitude float64) (*models.WeatherContext, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Weather != nil {
		return m.Weather, nil
	}
	return &models.WeatherContext{
		TemperatureC: 18,
		WindKph:      8,
		HumidityPct:  55,
		Sunny:        true,
		Season:       models.SeasonSpring,
	}, nil
}

// MockOutfitStylist plays the LLM: it answers with a canned response and
// records the prompt it was called with.
type MockOutfitStylist struct {
	Response   string
	Err        error
	LastPrompt *string
	LastModel  *services.LLMModelName
}

func (m MockOutfitStylist) GenerateOutfits(prompt string, modelName services.LLMModelName) (*services.LLMResponse, error) {
	if m.LastPrompt != nil {
		*m.LastPrompt = prompt
	}
	if m.LastModel != nil {
		*m.LastModel = modelName
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.LLMResponse{
		Response:           m.Response,
		InputTokenCount:    10,
		TotalTokenCount:    11,
		ThoughtsTokenCount: 12,
		OutputTokenCount:   13,
		IsTest:             true,
	}, nil
}
