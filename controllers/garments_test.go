package controllers

import (
	"encoding/json"
	"fmt"
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

func TestCreateGarmentOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreateGarmentIn{
		Name:          "Rain Shell",
		FileName:      StrPointer("shell.jpg"),
		Category:      "outerwear",
		Subcategory:   "raincoat",
		Materials:     []string{"polyester"},
		MainColorName: "navy",
		AddToCloset:   BoolPointer(true),
	}

	req := test.NewJSONAuthRequest("POST", "/wardrobe/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "Expected status code 201 Created, got %d", rec.Code)

	var response GarmentCreatedResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, reqBody.Name, response.Garment.Name)
	require.Equal(t, reqBody.Category, response.Garment.Category)
	require.Equal(t, "outer", response.Garment.LayerType)
	require.Equal(t, "in_closet", response.Garment.Status)
	require.Equal(t, "draft", response.Garment.ImageStatus)
	require.Equal(t, "https://fakebucketurl.com/garments/shell.jpg", response.FileUploadUrl)
}

func TestCreateGarmentNameDefaultsToSubcategory(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreateGarmentIn{
		FileName:    StrPointer("tee.png"),
		Category:    "tops",
		Subcategory: "t-shirt",
		AddToCloset: BoolPointer(false),
	}

	req := test.NewJSONAuthRequest("POST", "/wardrobe/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var response GarmentCreatedResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "t-shirt", response.Garment.Name)
	assert.Equal(t, "base", response.Garment.LayerType)
	assert.Equal(t, "temporary", response.Garment.Status)
}

func TestCreateGarmentInvalidInput(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	// Category missing
	reqBody := CreateGarmentIn{
		Name:        "Mystery Item",
		FileName:    StrPointer("item.jpg"),
		Subcategory: "t-shirt",
		AddToCloset: BoolPointer(false),
	}

	req := test.NewJSONAuthRequest("POST", "/wardrobe/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "Category")
}

func TestCreateGarmentBadImageExtension(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreateGarmentIn{
		Name:        "Weird file",
		FileName:    StrPointer("garment.pdf"),
		Category:    "tops",
		Subcategory: "shirt",
		AddToCloset: BoolPointer(false),
	}

	req := test.NewJSONAuthRequest("POST", "/wardrobe/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "Unsupported image format")
}

func TestCreateGarmentInvalidComfortRange(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreateGarmentIn{
		Name:        "Impossible sweater",
		FileName:    StrPointer("sweater.jpg"),
		Category:    "tops",
		Subcategory: "sweater",
		ComfortMinC: Float64Pointer(20),
		ComfortMaxC: Float64Pointer(5),
		AddToCloset: BoolPointer(true),
	}

	req := test.NewJSONAuthRequest("POST", "/wardrobe/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGarmentFreePlanLimit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	for i := 0; i < freePlanGarmentLimit; i++ {
		garment := models.Garment{
			Name:        fmt.Sprintf("Shirt %v", i),
			OwnerID:     user.ID,
			Category:    "tops",
			Subcategory: "shirt",
			LayerType:   models.LayerBase,
			Status:      "in_closet",
		}
		require.NoError(t, db.Create(&garment).Error)
	}

	reqBody := CreateGarmentIn{
		Name:        "One too many",
		FileName:    StrPointer("extra.jpg"),
		Category:    "tops",
		Subcategory: "shirt",
		AddToCloset: BoolPointer(true),
	}

	req := test.NewJSONAuthRequest("POST", "/wardrobe/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateGarmentUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	test.FakeUser(db)

	reqBody := CreateGarmentIn{
		Name:        "No token",
		FileName:    StrPointer("none.jpg"),
		Category:    "tops",
		Subcategory: "shirt",
		AddToCloset: BoolPointer(false),
	}

	req := test.NewJSONRequest("POST", "/wardrobe/create", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListGarmentsOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	top := models.Garment{
		Name:        "White tee",
		OwnerID:     user.ID,
		Category:    "tops",
		Subcategory: "t-shirt",
		LayerType:   models.LayerBase,
		Status:      "in_closet",
		ImageURL:    StrPointer("garments/tee.jpg"),
	}
	bottom := models.Garment{
		Name:        "Blue jeans",
		OwnerID:     user.ID,
		Category:    "bottoms",
		Subcategory: "jeans",
		LayerType:   models.LayerBottom,
		Status:      "in_closet",
		ImageURL:    StrPointer("garments/jeans.jpg"),
	}
	require.NoError(t, db.Create(&top).Error)
	require.NoError(t, db.Create(&bottom).Error)

	req := test.NewJSONAuthRequest("GET", "/wardrobe/list", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response WardrobeListResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response.Tops, 1)
	require.Len(t, response.Bottoms, 1)
	assert.Len(t, response.Outerwear, 0)
	assert.Equal(t, "White tee", response.Tops[0].Name)
	require.NotNil(t, response.Tops[0].Uri)
	assert.Equal(t, "https://fakebucketurl.com/garments/tee.jpg", *response.Tops[0].Uri)
}

func TestListGarmentsDoesNotLeakOtherWardrobes(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")

	garment := models.Garment{
		Name:        "Not yours",
		OwnerID:     other.ID,
		Category:    "tops",
		Subcategory: "shirt",
		LayerType:   models.LayerBase,
		Status:      "in_closet",
	}
	require.NoError(t, db.Create(&garment).Error)

	req := test.NewJSONAuthRequest("GET", "/wardrobe/list", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response WardrobeListResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Len(t, response.Tops, 0)
}

func TestUpdateGarmentRecomputesLayerType(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	garment := models.Garment{
		Name:        "Misfiled item",
		OwnerID:     user.ID,
		Category:    "tops",
		Subcategory: "t-shirt",
		LayerType:   models.LayerBase,
		Status:      "in_closet",
	}
	require.NoError(t, db.Create(&garment).Error)

	reqBody := UpdateGarmentIn{
		Subcategory: StrPointer("leather jacket"),
	}
	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/wardrobe/%v", garment.ID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response GarmentResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "outer", response.LayerType)

	var stored models.Garment
	require.NoError(t, db.First(&stored, garment.ID).Error)
	assert.Equal(t, models.LayerOuter, stored.LayerType)
}

func TestUpdateGarmentNotFound(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := UpdateGarmentIn{Name: StrPointer("Ghost")}
	req := test.NewJSONAuthRequest("PUT", "/wardrobe/999999", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateGarmentOtherUsersGarment(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")

	garment := models.Garment{
		Name:        "Not yours",
		OwnerID:     other.ID,
		Category:    "tops",
		Subcategory: "shirt",
		LayerType:   models.LayerBase,
		Status:      "in_closet",
	}
	require.NoError(t, db.Create(&garment).Error)

	reqBody := UpdateGarmentIn{Name: StrPointer("Stolen")}
	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/wardrobe/%v", garment.ID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmImageUploadOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	garment := models.Garment{
		Name:        "Pending upload",
		OwnerID:     user.ID,
		Category:    "shoes",
		Subcategory: "sneakers",
		LayerType:   models.LayerShoes,
		Status:      "in_closet",
		ImageStatus: "draft",
	}
	require.NoError(t, db.Create(&garment).Error)

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/wardrobe/%v/image-uploaded", garment.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stored models.Garment
	require.NoError(t, db.First(&stored, garment.ID).Error)
	assert.Equal(t, "uploaded", stored.ImageStatus)
}

func TestDeleteGarmentOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	garment := models.Garment{
		Name:        "Short lived",
		OwnerID:     user.ID,
		Category:    "accessories",
		Subcategory: "belt",
		LayerType:   models.LayerAccessory,
		Status:      "in_closet",
	}
	require.NoError(t, db.Create(&garment).Error)

	req := test.NewJSONAuthRequest("DELETE", fmt.Sprintf("/wardrobe/%v", garment.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var count int64
	db.Model(&models.Garment{}).Where("id = ?", garment.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
