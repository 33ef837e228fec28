package server

import (
	"context"

	"threadline/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/v1/posts/:postId/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.togglePostLike(c, s.likeService.LikePost)
}

// UnlikePost handles DELETE /api/v1/posts/:postId/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	return s.togglePostLike(c, s.likeService.UnlikePost)
}

// LikeComment handles POST /api/v1/posts/:postId/comments/:commentId/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	return s.toggleCommentLike(c, s.likeService.LikeComment)
}

// UnlikeComment handles DELETE /api/v1/posts/:postId/comments/:commentId/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	return s.toggleCommentLike(c, s.likeService.UnlikeComment)
}

func (s *Server) togglePostLike(c *fiber.Ctx, fn func(ctx context.Context, userID, postID uint) (*models.LikeState, error)) error {
	postID, err := s.parseID(c, "postId", "Invalid post ID")
	if err != nil {
		return nil
	}

	state, err := fn(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "", state)
}

func (s *Server) toggleCommentLike(c *fiber.Ctx, fn func(ctx context.Context, userID, postID, commentID uint) (*models.LikeState, error)) error {
	postID, err := s.parseID(c, "postId", "Invalid post ID")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId", "Invalid comment ID")
	if err != nil {
		return nil
	}

	state, err := fn(c.UserContext(), currentUserID(c), postID, commentID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "", state)
}
