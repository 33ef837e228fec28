package repository

import (
	"context"

	"threadline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository stores post and comment likes. Likes are idempotent: a
// repeated like is absorbed by the unique index through ON CONFLICT DO NOTHING.
type LikeRepository interface {
	LikePost(ctx context.Context, userID, postID uint) error
	UnlikePost(ctx context.Context, userID, postID uint) error
	CountPostLikes(ctx context.Context, postID uint) (int64, error)
	LikeComment(ctx context.Context, userID, commentID uint) error
	UnlikeComment(ctx context.Context, userID, commentID uint) error
	CountCommentLikes(ctx context.Context, commentID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) LikePost(ctx context.Context, userID, postID uint) error {
	like := &models.PostLike{PostID: postID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) UnlikePost(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) CountPostLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) LikeComment(ctx context.Context, userID, commentID uint) error {
	like := &models.CommentLike{CommentID: commentID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) UnlikeComment(ctx context.Context, userID, commentID uint) error {
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) CountCommentLikes(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
