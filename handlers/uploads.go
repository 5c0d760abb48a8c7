// handlers/uploads.go
package handlers

import (
	"log"

	"familypoints/middleware"
	"familypoints/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupUploadRoutes wires evidence file uploads. Files go to R2 when
// configured, otherwise to the local uploads directory served under /uploads.
func SetupUploadRoutes(app *fiber.App) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/uploads", func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid multipart form"})
		}
		files := form.File["files"]
		if len(files) == 0 {
			if single, err := c.FormFile("file"); err == nil {
				files = append(files, single)
			}
		}
		if len(files) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No files provided"})
		}

		var uploaded []fiber.Map
		for _, fileHeader := range files {
			key := utils.EvidenceKey(fileHeader.Filename)

			var url string
			if utils.R2Configured() {
				url, err = utils.UploadFileToR2(fileHeader, key)
				if err != nil {
					log.Printf("❌ R2 upload failed for %s: %v", fileHeader.Filename, err)
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "File upload failed"})
				}
			} else {
				destPath := utils.GetUploadPath(key)
				if err := utils.SaveFile(fileHeader, destPath); err != nil {
					log.Printf("❌ Local save failed for %s: %v", fileHeader.Filename, err)
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "File upload failed"})
				}
				url = "/uploads/" + key
			}

			uploaded = append(uploaded, fiber.Map{
				"filename": fileHeader.Filename,
				"key":      key,
				"url":      url,
			})
		}
		return c.JSON(fiber.Map{"files": uploaded})
	})
}
