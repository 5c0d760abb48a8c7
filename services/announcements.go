// services/announcements.go
package services

import (
	"errors"
	"log"
	"time"

	"familypoints/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnnouncementService handles parent announcements and the child-side
// read/dismiss flow. A child may dismiss an announcement only after reading
// it.
type AnnouncementService struct {
	DB *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{DB: db}
}

// CreateAnnouncement posts a message to the family (parent only). An optional
// expires_at hands the announcement to the expiry sweeper.
func (s *AnnouncementService) CreateAnnouncement(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can create announcements"})
	}

	var req struct {
		Message   string     `json:"message"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	ann := &models.Announcement{
		ID:        uuid.NewString(),
		ParentID:  currentUserID(c),
		Message:   req.Message,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.DB.Create(ann).Error; err != nil {
		log.Printf("DB Error creating announcement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}
	return c.Status(fiber.StatusCreated).JSON(ann)
}

// ListAnnouncements: parents see all of their own; children see active ones
// from their parent, minus anything they dismissed.
func (s *AnnouncementService) ListAnnouncements(c *fiber.Ctx) error {
	var anns []models.Announcement

	if currentRole(c) == models.RoleParent {
		if err := s.DB.Where("parent_id = ?", currentUserID(c)).
			Order("created_at DESC").
			Find(&anns).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(anns)
	}

	parentID := currentParentID(c)
	if parentID == "" {
		return c.JSON([]models.Announcement{})
	}
	err := s.DB.
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Where("id NOT IN (?)", s.DB.Model(&models.AnnouncementDismissal{}).
			Select("announcement_id").
			Where("child_id = ?", currentUserID(c))).
		Order("created_at DESC").
		Find(&anns).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(anns)
}

// MarkRead records that the calling child has seen the announcement.
// Idempotent.
func (s *AnnouncementService) MarkRead(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleChild {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Children only"})
	}
	id := c.Params("id")

	var ann models.Announcement
	if err := s.DB.Where("id = ?", id).First(&ann).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	read := models.AnnouncementRead{
		ID:             uuid.NewString(),
		AnnouncementID: id,
		ChildID:        currentUserID(c),
	}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&read).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark read"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// DeleteAnnouncement: a parent deletes their own announcement outright; a
// child dismisses it from their feed, but only after having read it.
func (s *AnnouncementService) DeleteAnnouncement(c *fiber.Ctx) error {
	id := c.Params("id")

	var ann models.Announcement
	if err := s.DB.Where("id = ?", id).First(&ann).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	switch currentRole(c) {
	case models.RoleParent:
		if ann.ParentID != currentUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your announcement"})
		}
		if err := s.DB.Delete(&ann).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete"})
		}
		return c.JSON(fiber.Map{"status": "deleted"})

	case models.RoleChild:
		var hasRead int64
		if err := s.DB.Model(&models.AnnouncementRead{}).
			Where("announcement_id = ? AND child_id = ?", id, currentUserID(c)).
			Count(&hasRead).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if hasRead == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Read the announcement before dismissing it"})
		}
		dismissal := models.AnnouncementDismissal{
			ID:             uuid.NewString(),
			AnnouncementID: id,
			ChildID:        currentUserID(c),
		}
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&dismissal).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to dismiss"})
		}
		return c.JSON(fiber.Map{"status": "dismissed"})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unknown role"})
}
