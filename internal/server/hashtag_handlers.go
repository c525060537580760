package server

import (
	"tidepool/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetHashtags handles GET /api/hashtags
func (s *Server) GetHashtags(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	hashtags, err := s.hashtagRepo.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(hashtags)
}

// CreateHashtag handles POST /api/hashtags. Creating an existing tag
// returns the existing row; names are normalized with a leading #.
func (s *Server) CreateHashtag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	hashtag, err := s.hashtagRepo.GetOrCreate(c.UserContext(), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(hashtag)
}

// GetHashtag handles GET /api/hashtags/:id, returning the tag with its posts.
func (s *Server) GetHashtag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	hashtag, err := s.hashtagRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(hashtag)
}
