package server

import (
	"time"

	"tidepool/internal/models"
	"tidepool/internal/service"

	"github.com/gofiber/fiber/v2"
)

// scheduledPostRequest is the request body shared by create and update.
// PublishAt is the moment the post becomes due for promotion.
type scheduledPostRequest struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Hashtags  []string  `json:"hashtags"`
	PublishAt time.Time `json:"publish_at"`
}

// GetScheduledPosts handles GET /api/scheduled-posts, listing only the
// caller's rows.
func (s *Server) GetScheduledPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.scheduledService.List(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// CreateScheduledPost handles POST /api/scheduled-posts
func (s *Server) CreateScheduledPost(c *fiber.Ctx) error {
	var req scheduledPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.scheduledService.Create(c.UserContext(), service.CreateScheduledPostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Hashtags: req.Hashtags,
		DueAt:    req.PublishAt,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetScheduledPost handles GET /api/scheduled-posts/:id
func (s *Server) GetScheduledPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.scheduledService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// UpdateScheduledPost handles PUT /api/scheduled-posts/:id
func (s *Server) UpdateScheduledPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req scheduledPostRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.scheduledService.Update(c.UserContext(), service.UpdateScheduledPostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Hashtags: req.Hashtags,
		DueAt:    req.PublishAt,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeleteScheduledPost handles DELETE /api/scheduled-posts/:id
func (s *Server) DeleteScheduledPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.scheduledService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
