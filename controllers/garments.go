package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"stylistapi/models"
	"stylistapi/services"
	"stylistapi/taxonomy"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Free plan wardrobe cap, paid plans are unlimited.
const freePlanGarmentLimit = 20

type CreateGarmentIn struct {
	Name          string   `json:"name" validate:"omitempty,max=100"`
	FileName      *string  `json:"file_name" validate:"required,max=200"`
	Category      string   `json:"category" validate:"required,garment_category"`
	Subcategory   string   `json:"subcategory" validate:"required,max=100"`
	Materials     []string `json:"materials" validate:"omitempty,max=10"`
	FabricWeave   *string  `json:"fabric_weave" validate:"omitempty,fabric_weave"`
	SleeveLength  string   `json:"sleeve_length" validate:"omitempty,oneof=short long none"`
	ComfortMinC   *float64 `json:"comfort_min_c"`
	ComfortMaxC   *float64 `json:"comfort_max_c"`
	MainColorName string   `json:"main_color_name" validate:"omitempty,max=50"`
	StyleContext  []string `json:"style_context" validate:"omitempty,max=10"`
	AddToCloset   *bool    `json:"add_to_closet" validate:"required"`
}

type UpdateGarmentIn struct {
	Name          *string  `json:"name" validate:"omitempty,max=100"`
	Category      *string  `json:"category" validate:"omitempty,garment_category"`
	Subcategory   *string  `json:"subcategory" validate:"omitempty,max=100"`
	Materials     []string `json:"materials" validate:"omitempty,max=10"`
	FabricWeave   *string  `json:"fabric_weave" validate:"omitempty,fabric_weave"`
	SleeveLength  *string  `json:"sleeve_length" validate:"omitempty,oneof=short long none"`
	ComfortMinC   *float64 `json:"comfort_min_c"`
	ComfortMaxC   *float64 `json:"comfort_max_c"`
	MainColorName *string  `json:"main_color_name" validate:"omitempty,max=50"`
	StyleContext  []string `json:"style_context" validate:"omitempty,max=10"`
	Status        *string  `json:"status" validate:"omitempty,oneof=temporary in_closet"`
}

type GarmentResponse struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	LayerType     string   `json:"layer_type"`
	Materials     []string `json:"materials"`
	FabricWeave   *string  `json:"fabric_weave"`
	SleeveLength  string   `json:"sleeve_length"`
	ComfortMinC   *float64 `json:"comfort_min_c"`
	ComfortMaxC   *float64 `json:"comfort_max_c"`
	MainColorName string   `json:"main_color_name"`
	StyleContext  []string `json:"style_context"`
	Status        string   `json:"status"`
	ImageStatus   string   `json:"image_status"`
	Uri           *string  `json:"uri,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type GarmentCreatedResponse struct {
	Garment       GarmentResponse `json:"garment"`
	FileUploadUrl string          `json:"file_upload_url"`
}

type WardrobeListResponse struct {
	Tops        []GarmentResponse `json:"tops"`
	Bottoms     []GarmentResponse `json:"bottoms"`
	Outerwear   []GarmentResponse `json:"outerwear"`
	Shoes       []GarmentResponse `json:"shoes"`
	Accessories []GarmentResponse `json:"accessories"`
}

type GarmentsController struct {
	Google      services.GoogleServiceProvider
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *GarmentsController) GarmentRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateGarment)
	g.GET("/list", controller.ListGarments)
	g.PUT("/:garmentId", controller.UpdateGarment)
	g.POST("/:garmentId/image-uploaded", controller.ConfirmImageUpload)
	g.DELETE("/:garmentId", controller.DeleteGarment)
}

func garmentToResponse(item models.Garment, uri *string) GarmentResponse {
	var weave *string
	if item.FabricWeave != nil {
		weave = StrPointer(string(*item.FabricWeave))
	}
	return GarmentResponse{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		Subcategory:   item.Subcategory,
		LayerType:     string(item.LayerType),
		Materials:     item.Materials,
		FabricWeave:   weave,
		SleeveLength:  string(item.SleeveLength),
		ComfortMinC:   item.ComfortMinC,
		ComfortMaxC:   item.ComfortMaxC,
		MainColorName: item.MainColorName,
		StyleContext:  item.StyleContext,
		Status:        item.Status,
		ImageStatus:   item.ImageStatus,
		Uri:           uri,
		CreatedAt:     item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (controller *GarmentsController) CreateGarment(c echo.Context) error {
	var req CreateGarmentIn
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

	if req.FileName == nil || *req.FileName == "" {
		sentry.CaptureException(fmt.Errorf("Image was not provided when creating garment %s, user %v", req.Name, user.ID))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sorry, it seems image was not provided, please try again"})
	}
	if !services.IsAllowedImageExtension(*req.FileName) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image format"})
	}
	if req.ComfortMinC != nil && req.ComfortMaxC != nil && *req.ComfortMinC >= *req.ComfortMaxC {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Comfort range minimum must be below the maximum"})
	}

	if !user.Subscription.IsPaid() {
		var totalGarmentCount int64
		if err := db.Model(&models.Garment{}).Where("owner_id = ?", user.ID).Count(&totalGarmentCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get wardrobe data"})
		}
		fmt.Printf("[User %v] Free plan, garment count: %v", user.ID, totalGarmentCount)
		if totalGarmentCount >= freePlanGarmentLimit {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the free limit of %v garments, please subscribe", freePlanGarmentLimit)})
		}
	}

	if user.EnforcedDailyGarmentLimit != nil {
		var dailyGarmentCount int64
		today := time.Now().UTC().Format("2006-01-02")
		if err := db.Model(&models.Garment{}).Where("owner_id = ? AND DATE(created_at) = ?", user.ID, today).Count(&dailyGarmentCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get wardrobe data"})
		}
		fmt.Printf("[User %v] Enforced daily limit, garment count: %v", user.ID, dailyGarmentCount)
		if dailyGarmentCount >= int64(*user.EnforcedDailyGarmentLimit) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the limit of %v daily garments. Please wait for the next day.", *user.EnforcedDailyGarmentLimit)})
		}
	}

	name := req.Name
	if name == "" {
		name = req.Subcategory
	}
	status := "temporary"
	if req.AddToCloset != nil && *req.AddToCloset {
		status = "in_closet"
	}
	var weave *models.FabricWeave
	if req.FabricWeave != nil {
		w := models.FabricWeave(*req.FabricWeave)
		weave = &w
	}
	garment := models.Garment{
		Name:             name,
		OwnerID:          user.ID,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
		Materials:        pq.StringArray(req.Materials),
		FabricWeave:      weave,
		LayerType:        taxonomy.LayerTypeFor(req.Category, req.Subcategory),
		SleeveLength:     models.SleeveLength(req.SleeveLength),
		ComfortMinC:      req.ComfortMinC,
		ComfortMaxC:      req.ComfortMaxC,
		MainColorName:    req.MainColorName,
		StyleContext:     pq.StringArray(req.StyleContext),
		Status:           status,
		ImageStatus:      "draft",
		ProcessingStatus: "idle",
	}

	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	safeFileName := fmt.Sprintf("garments/%s", *req.FileName)
	uploadUrl, presignErr := controller.AWSService.PresignUploadURL(context.Background(), bucketName, safeFileName)
	garment.ImageURL = &safeFileName
	if presignErr != nil {
		log.Printf("Unable to presign generate for %s!, %s", garment.Name, presignErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Error while creating garment with attachment",
		})
	}
	if err := db.Create(&garment).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	response := GarmentCreatedResponse{
		Garment:       garmentToResponse(garment, nil),
		FileUploadUrl: uploadUrl,
	}
	return c.JSON(http.StatusCreated, response)
}

// populatePresignedGarmentImages enriches raw garments with presigned read
// URLs concurrently, with a direct R2 fallback when the cache layer fails.
func (controller *GarmentsController) populatePresignedGarmentImages(ctx context.Context, garments []models.Garment) []GarmentResponse {
	if len(garments) == 0 {
		return []GarmentResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]GarmentResponse, len(garments))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, garmentItem := range garments {
		wg.Add(1)
		go func(index int, item models.Garment) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.PresignReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processedResponses[index] = garmentToResponse(item, &imageUrl)
		}(i, garmentItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *GarmentsController) ListGarments(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var garments []models.Garment
	if err := db.Where("owner_id = ?", user.ID).Order("id asc").Find(&garments).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}
	processedResponses := controller.populatePresignedGarmentImages(c.Request().Context(), garments)

	response := WardrobeListResponse{
		Tops:        []GarmentResponse{},
		Bottoms:     []GarmentResponse{},
		Outerwear:   []GarmentResponse{},
		Shoes:       []GarmentResponse{},
		Accessories: []GarmentResponse{},
	}

	for _, resp := range processedResponses {
		switch resp.Category {
		case "tops":
			response.Tops = append(response.Tops, resp)
		case "bottoms":
			response.Bottoms = append(response.Bottoms, resp)
		case "outerwear":
			response.Outerwear = append(response.Outerwear, resp)
		case "shoes":
			response.Shoes = append(response.Shoes, resp)
		case "accessories":
			response.Accessories = append(response.Accessories, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *GarmentsController) fetchOwnGarment(c echo.Context) (*models.Garment, *gorm.DB, error) {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return nil, nil, c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var garmentId uint
	if err := echo.PathParamsBinder(c).Uint("garmentId", &garmentId).BindError(); err != nil {
		return nil, nil, echo.ErrBadRequest
	}
	var garment models.Garment
	result := db.Limit(1).Find(&garment, "id = ? AND owner_id = ?", garmentId, user.ID)
	if result.Error != nil {
		return nil, nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch garment"})
	}
	if result.RowsAffected == 0 {
		return nil, nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Garment not found"})
	}
	return &garment, db, nil
}

func (controller *GarmentsController) UpdateGarment(c echo.Context) error {
	garment, db, err := controller.fetchOwnGarment(c)
	if garment == nil {
		return err
	}
	var req UpdateGarmentIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if req.Name != nil {
		garment.Name = *req.Name
	}
	taxonomyChanged := false
	if req.Category != nil {
		garment.Category = *req.Category
		taxonomyChanged = true
	}
	if req.Subcategory != nil {
		garment.Subcategory = *req.Subcategory
		taxonomyChanged = true
	}
	if taxonomyChanged {
		garment.LayerType = taxonomy.LayerTypeFor(garment.Category, garment.Subcategory)
		fmt.Printf("[Garment %v] Recomputed layer type: %s\n", garment.ID, garment.LayerType)
	}
	if req.Materials != nil {
		garment.Materials = pq.StringArray(req.Materials)
	}
	if req.FabricWeave != nil {
		weave := models.FabricWeave(*req.FabricWeave)
		garment.FabricWeave = &weave
	}
	if req.SleeveLength != nil {
		garment.SleeveLength = models.SleeveLength(*req.SleeveLength)
	}
	if req.ComfortMinC != nil {
		garment.ComfortMinC = req.ComfortMinC
	}
	if req.ComfortMaxC != nil {
		garment.ComfortMaxC = req.ComfortMaxC
	}
	if garment.ComfortMinC != nil && garment.ComfortMaxC != nil && *garment.ComfortMinC >= *garment.ComfortMaxC {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Comfort range minimum must be below the maximum"})
	}
	if req.MainColorName != nil {
		garment.MainColorName = *req.MainColorName
	}
	if req.StyleContext != nil {
		garment.StyleContext = pq.StringArray(req.StyleContext)
	}
	if req.Status != nil {
		garment.Status = *req.Status
	}

	if err := db.Save(garment).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update garment"})
	}
	return c.JSON(http.StatusOK, garmentToResponse(*garment, nil))
}

func (controller *GarmentsController) ConfirmImageUpload(c echo.Context) error {
	garment, db, err := controller.fetchOwnGarment(c)
	if garment == nil {
		return err
	}
	garment.ImageStatus = "uploaded"
	if err := db.Select("image_status").Updates(garment).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update garment"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Image marked as uploaded"})
}

func (controller *GarmentsController) DeleteGarment(c echo.Context) error {
	garment, db, err := controller.fetchOwnGarment(c)
	if garment == nil {
		return err
	}
	if err := db.Delete(garment).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete garment"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Garment deleted"})
}
