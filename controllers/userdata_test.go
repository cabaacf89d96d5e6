package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"stylistapi/dbhelper"
	"stylistapi/models"
	"stylistapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/profile/me", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response UserInfoOut
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, user.ID, response.Id)
	assert.Equal(t, user.Email, response.Email)
	assert.Equal(t, "free", response.Subscription)
	require.NotNil(t, response.Latitude)
	assert.InDelta(t, 52.52, *response.Latitude, 0.001)
}

func TestRegisterPushTokenNew(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := models.UserPushIn{Token: "brand-new-token", Platform: "ios"}
	req := test.NewJSONAuthRequest("POST", "/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var stored models.UserPushToken
	result := db.Limit(1).Find(&stored, "user_account_id = ? AND token = ?", user.ID, "brand-new-token")
	require.NoError(t, result.Error)
	require.Equal(t, int64(1), result.RowsAffected)
	assert.True(t, stored.Active)
	assert.Equal(t, models.PlatformIOS, stored.Platform)
}

func TestRegisterPushTokenRefreshesExisting(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	existing := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "stale-token",
		Active:        false,
	}
	require.NoError(t, db.Create(&existing).Error)

	reqBody := models.UserPushIn{Token: "stale-token", Platform: "android"}
	req := test.NewJSONAuthRequest("POST", "/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stored models.UserPushToken
	require.NoError(t, db.First(&stored, existing.ID).Error)
	assert.True(t, stored.Active)

	var count int64
	db.Model(&models.UserPushToken{}).Where("user_account_id = ? AND token = ?", user.ID, "stale-token").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterPushTokenMissingToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := models.UserPushIn{Platform: "android"}
	req := test.NewJSONAuthRequest("POST", "/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettingsOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := models.UserSettingsIn{ReceiveNotifications: true, DailyOutfitAlerts: true}
	req := test.NewJSONAuthRequest("PUT", "/profile/settings", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stored models.UserAccount
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.ReceiveNotifications)
	assert.True(t, stored.DailyOutfitAlerts)
}

func TestUpdateLocationOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := UserLocationIn{Latitude: Float64Pointer(-33.87), Longitude: Float64Pointer(151.21)}
	req := test.NewJSONAuthRequest("PUT", "/profile/location", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stored models.UserAccount
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.Latitude)
	assert.InDelta(t, -33.87, *stored.Latitude, 0.001)
	assert.InDelta(t, 151.21, *stored.Longitude, 0.001)
}

func TestUpdateLocationOutOfRange(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := UserLocationIn{Latitude: Float64Pointer(120), Longitude: Float64Pointer(10)}
	req := test.NewJSONAuthRequest("PUT", "/profile/location", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePreferencesOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := UserPreferencesIn{PreferredStyle: StrPointer("streetwear")}
	req := test.NewJSONAuthRequest("PUT", "/profile/preferences", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stored models.UserAccount
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.PreferredStyle)
	assert.Equal(t, "streetwear", *stored.PreferredStyle)
}

func TestRefreshSubscriptionUpgradesPlan(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)
	require.Equal(t, models.Free, user.Subscription)

	req := test.NewJSONAuthRequest("POST", "/profile/subscription/refresh", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "pro", response["subscription"])

	var stored models.UserAccount
	db.First(&stored, user.ID)
	assert.Equal(t, models.Pro, stored.Subscription)
	require.NotNil(t, stored.ExpirationDate)
	assert.Equal(t, 2029, stored.ExpirationDate.Year())
}

func TestRefreshSubscriptionUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	req := test.NewJSONRequest("POST", "/profile/subscription/refresh", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
