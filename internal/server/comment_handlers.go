package server

import (
	"threadline/internal/models"
	"threadline/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/v1/posts/:postId/create-comment
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId", "Invalid post ID")
	if err != nil {
		return nil
	}

	var req service.CreateCommentInput
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return invalidBody(c)
	}
	req.UserID = currentUserID(c)
	req.PostID = postID

	comment, err := s.commentService.CreateComment(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, "Comment created successfully", comment)
}

// GetComments handles GET /api/v1/posts/:postId/comments?limit=&cursor=
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId", "Invalid post ID")
	if err != nil {
		return nil
	}

	page, err := s.commentService.ListComments(c.UserContext(), service.ListCommentsInput{
		PostID: postID,
		Limit:  c.QueryInt("limit", 0),
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "", page)
}
