package server

import (
	"threadline/internal/models"
	"threadline/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/v1/posts/create
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.UserID = currentUserID(c)

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, "Post created successfully", post)
}

// GetFeed handles GET /api/v1/posts?limit=&cursor=
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := s.postService.Feed(c.UserContext(), service.FeedInput{
		ViewerID: currentUserID(c),
		Limit:    c.QueryInt("limit", 0),
		Cursor:   c.Query("cursor"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "", page)
}
