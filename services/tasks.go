// services/tasks.go
package services

import (
	"errors"
	"log"

	"familypoints/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService is the parent-facing task catalog. Deletion delegates to
// ApprovalService so the ledger-detach sequence stays in one place.
type TaskService struct {
	DB       *gorm.DB
	Approval *ApprovalService
}

func NewTaskService(db *gorm.DB, approval *ApprovalService) *TaskService {
	return &TaskService{DB: db, Approval: approval}
}

// CreateTask creates a task (parent only).
func (s *TaskService) CreateTask(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can create tasks"})
	}

	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Category    models.Category `json:"category"`
		Points      int             `json:"points"`
		IsActive    *bool           `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}
	switch req.Category {
	case models.CategoryFaith, models.CategorySchool, models.CategoryHome, models.CategoryKindness, models.CategoryOther:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown category"})
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		ParentID:    currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Points:      req.Points,
		IsActive:    true,
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}
	if err := s.DB.Create(task).Error; err != nil {
		log.Printf("DB Error creating task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// ListTasks returns the family's tasks, optionally filtered by category and
// active flag. Children see their parent's catalog.
func (s *TaskService) ListTasks(c *fiber.Ctx) error {
	parentID := familyID(c)
	if parentID == "" {
		return c.JSON([]models.Task{})
	}

	query := s.DB.Where("parent_id = ?", parentID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		log.Printf("DB Error fetching tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

// GetTask returns one task from the caller's family.
func (s *TaskService) GetTask(c *fiber.Ctx) error {
	var task models.Task
	if err := s.DB.Where("id = ? AND parent_id = ?", c.Params("id"), familyID(c)).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(task)
}

// DeleteTask removes a task through the detach-then-delete sequence.
func (s *TaskService) DeleteTask(c *fiber.Ctx) error {
	if currentRole(c) != models.RoleParent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only parents can delete tasks"})
	}

	if err := s.Approval.DeleteTask(c.Params("id"), currentUserID(c)); err != nil {
		status := statusForError(err)
		if status == fiber.StatusInternalServerError {
			log.Printf("DB Error deleting task %s: %v", c.Params("id"), err)
			return c.Status(status).JSON(fiber.Map{"error": "Failed to delete task"})
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
