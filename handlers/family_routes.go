// handlers/family_routes.go
package handlers

import (
	"familypoints/middleware"
	"familypoints/services"

	"github.com/gofiber/fiber/v2"
)

// SetupFamilyRoutes wires the catalog and household surfaces: tasks, rewards,
// settings and announcements. All routes require user context from the
// gateway.
func SetupFamilyRoutes(
	app *fiber.App,
	taskService *services.TaskService,
	rewardService *services.RewardService,
	settingsService *services.SettingsService,
	announcementService *services.AnnouncementService,
) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/tasks", taskService.CreateTask)
	secured.Get("/tasks", taskService.ListTasks)
	secured.Get("/tasks/:id", taskService.GetTask)
	secured.Delete("/tasks/:id", taskService.DeleteTask)

	secured.Post("/rewards", rewardService.CreateReward)
	secured.Get("/rewards", rewardService.ListRewards)
	secured.Put("/rewards/:id", rewardService.UpdateReward)
	secured.Patch("/rewards/:id", rewardService.UpdateReward)
	secured.Delete("/rewards/:id", rewardService.DeleteReward)

	secured.Get("/settings", settingsService.GetSettings)
	secured.Put("/settings", settingsService.UpdateSettings)

	secured.Post("/announcements", announcementService.CreateAnnouncement)
	secured.Get("/announcements", announcementService.ListAnnouncements)
	secured.Post("/announcements/:id/read", announcementService.MarkRead)
	secured.Delete("/announcements/:id", announcementService.DeleteAnnouncement)
}
