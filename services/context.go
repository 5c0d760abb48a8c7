package services

import (
	"errors"

	"familypoints/models"

	"github.com/gofiber/fiber/v2"
)

// Identity is resolved upstream by the gateway and trusted here; these
// helpers just read what the middleware stashed in locals.

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func currentRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("user_role").(string)
	return models.Role(role)
}

func currentParentID(c *fiber.Ctx) string {
	id, _ := c.Locals("parent_id").(string)
	return id
}

// familyID resolves the parent that owns the caller's family: the caller
// themselves for a parent, their parent for a child.
func familyID(c *fiber.Ctx) string {
	if currentRole(c) == models.RoleParent {
		return currentUserID(c)
	}
	return currentParentID(c)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrInsufficientPoints):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
