package service

import (
	"context"

	"threadline/internal/models"
	"threadline/internal/repository"
)

// LikeService toggles likes on posts and comments. Both directions are idempotent.
type LikeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

func (s *LikeService) LikePost(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	return s.setPostLike(ctx, userID, postID, true)
}

func (s *LikeService) UnlikePost(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	return s.setPostLike(ctx, userID, postID, false)
}

func (s *LikeService) LikeComment(ctx context.Context, userID, postID, commentID uint) (*models.LikeState, error) {
	return s.setCommentLike(ctx, userID, postID, commentID, true)
}

func (s *LikeService) UnlikeComment(ctx context.Context, userID, postID, commentID uint) (*models.LikeState, error) {
	return s.setCommentLike(ctx, userID, postID, commentID, false)
}

// visiblePost loads postID and hides it from users the feed would hide it from.
func (s *LikeService) visiblePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID && post.Visibility != models.VisibilityPublic {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

func (s *LikeService) setPostLike(ctx context.Context, userID, postID uint, liked bool) (*models.LikeState, error) {
	if _, err := s.visiblePost(ctx, userID, postID); err != nil {
		return nil, err
	}

	var err error
	if liked {
		err = s.likeRepo.LikePost(ctx, userID, postID)
	} else {
		err = s.likeRepo.UnlikePost(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.likeRepo.CountPostLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.LikeState{Liked: liked, TotalLikes: total}, nil
}

func (s *LikeService) setCommentLike(ctx context.Context, userID, postID, commentID uint, liked bool) (*models.LikeState, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	// The comment must belong to the post named in the route.
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if _, err := s.visiblePost(ctx, userID, postID); err != nil {
		return nil, err
	}

	if liked {
		err = s.likeRepo.LikeComment(ctx, userID, commentID)
	} else {
		err = s.likeRepo.UnlikeComment(ctx, userID, commentID)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.likeRepo.CountCommentLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &models.LikeState{Liked: liked, TotalLikes: total}, nil
}
