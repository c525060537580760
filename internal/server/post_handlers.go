package server

import (
	"tidepool/internal/models"
	"tidepool/internal/repository"
	"tidepool/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts with optional filters:
// ?hashtag= and ?title= narrow by substring, ?authors=me|followings narrows
// the author scope, ?liked=true keeps only posts the caller liked.
// Every listing is bounded by the visibility rule regardless of filters.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	scope := c.Query("authors")
	switch scope {
	case "", repository.AuthorScopeMe, repository.AuthorScopeFollowings:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid authors filter"))
	}

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		ViewerID: currentUserID(c),
		Filters: repository.PostFilters{
			Hashtag:     c.Query("hashtag"),
			Title:       c.Query("title"),
			AuthorScope: scope,
			LikedOnly:   c.QueryBool("liked", false),
		},
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts. The author is always the caller;
// any author field in the body is ignored.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		ImageURL string   `json:"image_url,omitempty"`
		Hashtags []string `json:"hashtags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Hashtags: req.Hashtags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		ImageURL string   `json:"image_url,omitempty"`
		Hashtags []string `json:"hashtags"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Hashtags: req.Hashtags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like. Liking an already liked
// post unlikes it; the response names the outcome and carries the
// refreshed post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	outcome, post, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": outcome,
		"post":   post,
	})
}
