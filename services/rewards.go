// services/rewards.go
package services

import (
	"errors"
	"log"

	"familypoints/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardService is the parent-facing reward catalog. Handlers double as the
// service methods; the redemption workflow lives in RedemptionService.
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// CreateReward creates a new reward (parent only).
func (s *RewardService) CreateReward(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can create rewards"})
	}

	var req struct {
		Name        string            `json:"name"`
		Type        models.RewardType `json:"type"`
		CostPoints  int               `json:"cost_points"`
		Description string            `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.CostPoints <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and a positive cost are required"})
	}
	switch req.Type {
	case models.RewardTypeMoney, models.RewardTypePrivilege, models.RewardTypeGift:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Type must be MONEY, PRIVILEGE or GIFT"})
	}

	reward := &models.Reward{
		ID:          uuid.NewString(),
		ParentID:    currentUserID(c),
		Name:        req.Name,
		Type:        req.Type,
		CostPoints:  req.CostPoints,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.DB.Create(reward).Error; err != nil {
		log.Printf("DB Error creating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reward"})
	}
	return c.Status(fiber.StatusCreated).JSON(reward)
}

// ListRewards returns the family's active rewards. Parents see their own
// catalog; children see their parent's.
func (s *RewardService) ListRewards(c *fiber.Ctx) error {
	parentID := familyID(c)
	if parentID == "" {
		return c.JSON([]models.Reward{})
	}

	var rewards []models.Reward
	if err := s.DB.
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("created_at DESC").
		Find(&rewards).Error; err != nil {
		log.Printf("DB Error fetching rewards: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch rewards"})
	}
	return c.JSON(rewards)
}

// UpdateReward patches an existing reward (parent only). Only fields present
// in the body are applied; an absent field is left untouched.
func (s *RewardService) UpdateReward(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can update rewards"})
	}
	id := c.Params("id")

	var existing models.Reward
	if err := s.DB.Where("id = ? AND parent_id = ?", id, currentUserID(c)).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name        *string            `json:"name"`
		Type        *models.RewardType `json:"type"`
		CostPoints  *int               `json:"cost_points"`
		Description *string            `json:"description"`
		IsActive    *bool              `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Type != nil {
		existing.Type = *req.Type
	}
	if req.CostPoints != nil {
		if *req.CostPoints <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cost must be positive"})
		}
		existing.CostPoints = *req.CostPoints
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&existing).Error; err != nil {
		log.Printf("DB Error updating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update reward"})
	}
	return c.JSON(existing)
}

// DeleteReward soft-deletes by flipping IsActive, so past redemptions keep
// their reference.
func (s *RewardService) DeleteReward(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can delete rewards"})
	}
	id := c.Params("id")

	var reward models.Reward
	if err := s.DB.Where("id = ? AND parent_id = ?", id, currentUserID(c)).First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Model(&reward).Update("is_active", false).Error; err != nil {
		log.Printf("DB Error deleting reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete reward"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
