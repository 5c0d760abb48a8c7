// services/settings.go
package services

import (
	"errors"
	"log"

	"familypoints/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsService manages per-family settings. Parents get defaults created
// lazily; children read their parent's settings.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// PointsPerDollar resolves the family's conversion rate, falling back to the
// default when no settings row exists yet.
func (s *SettingsService) PointsPerDollar(parentID string) int {
	var settings models.ParentSettings
	if err := s.DB.Where("parent_id = ?", parentID).First(&settings).Error; err != nil {
		return models.DefaultPointsPerDollar
	}
	return settings.PointsPerDollar
}

// GetSettings returns the family's settings, creating defaults for a parent
// on first read.
func (s *SettingsService) GetSettings(c *fiber.Ctx) error {
	parentID := familyID(c)
	if parentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No family found for caller"})
	}

	var settings models.ParentSettings
	err := s.DB.Where("parent_id = ?", parentID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if currentRole(c) != models.RoleParent {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Settings not found"})
		}
		settings = models.ParentSettings{
			ID:                       uuid.NewString(),
			ParentID:                 parentID,
			PointsPerDollar:          models.DefaultPointsPerDollar,
			MonthlyDollarCapPerChild: 10.0,
			ShowMoneyToChildren:      true,
		}
		if err := s.DB.Create(&settings).Error; err != nil {
			log.Printf("DB Error creating default settings: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create settings"})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(settings)
}

// UpdateSettings patches the parent's settings field-by-field; absent fields
// are left untouched.
func (s *SettingsService) UpdateSettings(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can update settings"})
	}

	var settings models.ParentSettings
	err := s.DB.Where("parent_id = ?", currentUserID(c)).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.ParentSettings{
			ID:                       uuid.NewString(),
			ParentID:                 currentUserID(c),
			PointsPerDollar:          models.DefaultPointsPerDollar,
			MonthlyDollarCapPerChild: 10.0,
			ShowMoneyToChildren:      true,
		}
		if err := s.DB.Create(&settings).Error; err != nil {
			log.Printf("DB Error creating settings: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create settings"})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		PointsPerDollar          *int     `json:"points_per_dollar"`
		MonthlyDollarCapPerChild *float64 `json:"monthly_dollar_cap_per_child"`
		ShowMoneyToChildren      *bool    `json:"show_money_to_children"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.PointsPerDollar != nil {
		if *req.PointsPerDollar <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "points_per_dollar must be positive"})
		}
		settings.PointsPerDollar = *req.PointsPerDollar
	}
	if req.MonthlyDollarCapPerChild != nil {
		settings.MonthlyDollarCapPerChild = *req.MonthlyDollarCapPerChild
	}
	if req.ShowMoneyToChildren != nil {
		settings.ShowMoneyToChildren = *req.ShowMoneyToChildren
	}

	if err := s.DB.Save(&settings).Error; err != nil {
		log.Printf("DB Error updating settings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update settings"})
	}
	return c.JSON(settings)
}
