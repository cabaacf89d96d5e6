package dbhelper

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"stylistapi/models"
	"stylistapi/outfits"
	"stylistapi/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDB() *gorm.DB {

	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			services.GetEnv("DB_USERNAME", ""),
			services.GetEnv("DB_PASSWORD", ""),
			services.GetEnv("DB_HOST", ""),
			services.GetEnv("DB_PORT", ""),
			services.GetEnv("DB_NAME", ""),
		),
	), &gorm.Config{})
	sqlDB, err := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	db.Logger.LogMode(logger.LogLevel(logger.Info))
	if err != nil {
		panic(err)
	}
	db.Raw("CREATE EXTENSION if not exists pgcrypto;")
	Migrate(db, &models.UserAccount{})
	Migrate(db, &models.UserPushToken{})
	Migrate(db, &models.Garment{})
	Migrate(db, &models.OutfitGeneration{})
	Migrate(db, &models.LayeringTemplateRecord{})
	Migrate(db, &models.StyleContextRecord{})
	Migrate(db, &models.HardRuleRecord{})

	SeedKnowledgeTables(db)

	return db
}

// SeedKnowledgeTables inserts the built-in layering templates and tailoring
// rules when the knowledge tables are empty. Existing rows are never touched,
// so edits made through the database survive restarts.
func SeedKnowledgeTables(db *gorm.DB) {
	var templateCount int64
	db.Model(&models.LayeringTemplateRecord{}).Count(&templateCount)
	if templateCount == 0 {
		for _, template := range outfits.DefaultTemplates() {
			slotsBytes, err := json.Marshal(template.Slots)
			if err != nil {
				fmt.Println("Error marshaling template slots for seed:", template.Name, err)
				continue
			}
			record := models.LayeringTemplateRecord{
				Name:       template.Name,
				LayerCount: template.LayerCount,
				MinTempC:   template.MinTempC,
				MaxTempC:   template.MaxTempC,
				SlotsJSON:  string(slotsBytes),
				Active:     true,
			}
			if err := db.Create(&record).Error; err != nil {
				fmt.Println("Error seeding layering template:", template.Name, err)
			}
		}
	}

	var ruleCount int64
	db.Model(&models.HardRuleRecord{}).Count(&ruleCount)
	if ruleCount == 0 {
		rules := []models.HardRuleRecord{
			{Name: "belt_with_tuck", RuleText: "When a shirt is tucked in, prefer a belt that matches the shoe color family.", Active: true},
			{Name: "one_statement_piece", RuleText: "At most one statement piece per outfit, everything else stays neutral.", Active: true},
			{Name: "no_double_denim", RuleText: "Never combine a denim top layer with denim bottoms.", Active: true},
			{Name: "long_sleeves_under_layers", RuleText: "Outfits stacking three or more layers need a long-sleeved base layer, never a short-sleeved one.", Active: true},
		}
		for _, rule := range rules {
			if err := db.Create(&rule).Error; err != nil {
				fmt.Println("Error seeding hard rule:", rule.Name, err)
			}
		}
	}

	var styleCount int64
	db.Model(&models.StyleContextRecord{}).Count(&styleCount)
	if styleCount == 0 {
		styles := []models.StyleContextRecord{
			{Style: "casual", ContextText: "Relaxed everyday wear. Comfort first, muted colors, sneakers welcome."},
			{Style: "business", ContextText: "Office appropriate. Collared shirts, tailored trousers, leather shoes, no athletic pieces."},
			{Style: "streetwear", ContextText: "Bold silhouettes, layered fits, statement sneakers and graphic pieces are fine."},
		}
		for _, style := range styles {
			if err := db.Create(&style).Error; err != nil {
				fmt.Println("Error seeding style context:", style.Style, err)
			}
		}
	}
}

func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", "fastpos")
	os.Setenv("DB_PASSWORD", "fastpos")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_NAME", "fastpos")
	os.Setenv("DB_PORT", "5432")
	return SetupDB()
}
