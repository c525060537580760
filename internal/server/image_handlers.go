package server

import (
	"io"

	"tidepool/internal/models"
	"tidepool/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const maxImageBytes = 10 << 20 // 10 MiB

// UploadImage handles POST /api/images/upload. The returned reference is
// stored on a post or profile via the regular update endpoints.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}
	if file.Size > maxImageBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the 10 MiB limit"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	kind := storage.KindPost
	if c.Query("kind") == "user" {
		kind = storage.KindUser
	}

	ref, err := s.images.Store(kind, file.Filename, content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"image_url": ref,
	})
}
