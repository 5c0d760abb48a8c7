// handlers/points_routes.go
package handlers

import (
	"errors"

	"familypoints/middleware"
	"familypoints/models"
	"familypoints/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupPointsRoutes wires the accounting core: points summaries, the
// redemption workflow, submissions and badges.
func SetupPointsRoutes(
	app *fiber.App,
	ledgerService *services.LedgerService,
	redemptionService *services.RedemptionService,
	badgeService *services.BadgeService,
	approvalService *services.ApprovalService,
	settingsService *services.SettingsService,
) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	respondErr := func(c *fiber.Ctx, err error) error {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientPoints):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
			"cause": err.Error(),
		})
	}

	// loadChild resolves a child the caller may view: themselves, or one of
	// the parent's own children.
	loadChild := func(c *fiber.Ctx, childID string) (*models.User, error) {
		userID := c.Locals("user_id").(string)
		role := c.Locals("user_role").(string)

		var child models.User
		if err := ledgerService.DB.
			Where("id = ? AND role = ?", childID, models.RoleChild).
			First(&child).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, services.ErrNotFound
			}
			return nil, err
		}
		if role == string(models.RoleChild) && childID != userID {
			return nil, services.ErrForbidden
		}
		if role == string(models.RoleParent) && (child.ParentID == nil || *child.ParentID != userID) {
			return nil, services.ErrForbidden
		}
		return &child, nil
	}

	// --- Points ---

	secured.Get("/points/:childID", func(c *fiber.Ctx) error {
		child, err := loadChild(c, c.Params("childID"))
		if err != nil {
			return respondErr(c, err)
		}

		pointsPerDollar := models.DefaultPointsPerDollar
		if child.ParentID != nil {
			pointsPerDollar = settingsService.PointsPerDollar(*child.ParentID)
		}
		summary, err := ledgerService.PointsSummary(child.ID, pointsPerDollar)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(summary)
	})

	secured.Get("/points/:childID/history", func(c *fiber.Ctx) error {
		child, err := loadChild(c, c.Params("childID"))
		if err != nil {
			return respondErr(c, err)
		}
		entries, err := ledgerService.ListEntries(child.ID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(entries)
	})

	// --- Redemptions ---

	secured.Post("/rewards/:id/redeem", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleChild) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only children can redeem rewards"})
		}
		redemption, err := redemptionService.Request(c.Locals("user_id").(string), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(redemption)
	})

	secured.Get("/redemptions/pending", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleParent) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Parent only"})
		}
		redemptions, err := redemptionService.ListPending(c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(redemptions)
	})

	secured.Get("/redemptions/my", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleChild) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Children only"})
		}
		redemptions, err := redemptionService.ListForChild(c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(redemptions)
	})

	secured.Post("/redemptions/:id/approve", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleParent) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Parent only"})
		}
		redemption, err := redemptionService.Approve(c.Params("id"), c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"status": "approved", "redemption": redemption})
	})

	secured.Post("/redemptions/:id/reject", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleParent) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Parent only"})
		}
		redemption, err := redemptionService.Reject(c.Params("id"), c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"status": "rejected", "redemption": redemption})
	})

	// --- Submissions ---

	secured.Post("/submissions", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleChild) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only children can submit tasks"})
		}
		var in services.SubmissionInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		submission, err := approvalService.CreateSubmission(c.Locals("user_id").(string), in)
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(submission)
	})

	secured.Get("/submissions/my", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleChild) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Children only"})
		}
		submissions, err := approvalService.ListForChild(c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(submissions)
	})

	secured.Get("/submissions/pending", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleParent) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Parent only"})
		}
		submissions, err := approvalService.ListPending(c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(submissions)
	})

	secured.Post("/submissions/:id/approve", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleParent) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Parent only"})
		}
		submission, err := approvalService.Approve(c.Params("id"), c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"status": "approved", "submission": submission})
	})

	secured.Post("/submissions/:id/reject", func(c *fiber.Ctx) error {
		if c.Locals("user_role").(string) != string(models.RoleParent) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Parent only"})
		}
		submission, err := approvalService.Reject(c.Params("id"), c.Locals("user_id").(string))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"status": "rejected", "submission": submission})
	})

	// --- Badges & child summary ---

	secured.Get("/children/:id/badges", func(c *fiber.Ctx) error {
		child, err := loadChild(c, c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		badges, err := badgeService.ListChildBadges(child.ID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(badges)
	})

	secured.Get("/children/:id/summary", func(c *fiber.Ctx) error {
		child, err := loadChild(c, c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}

		pointsPerDollar := models.DefaultPointsPerDollar
		if child.ParentID != nil {
			pointsPerDollar = settingsService.PointsPerDollar(*child.ParentID)
		}
		points, err := ledgerService.PointsSummary(child.ID, pointsPerDollar)
		if err != nil {
			return respondErr(c, err)
		}
		badges, err := badgeService.ListChildBadges(child.ID)
		if err != nil {
			return respondErr(c, err)
		}
		level, err := ledgerService.ComputeLevel(child.ID)
		if err != nil {
			return respondErr(c, err)
		}
		streaks, err := services.ComputeAllStreaks(ledgerService.DB, child.ID, ledgerService.Now())
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(fiber.Map{
			"user":    child,
			"points":  points,
			"badges":  badges,
			"level":   level,
			"streaks": streaks,
		})
	})
}
