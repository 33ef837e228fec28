package repository

import (
	"context"
	"errors"

	"threadline/internal/models"

	"gorm.io/gorm"
)

// CommentQuery selects one page of a post's comments.
type CommentQuery struct {
	PostID uint
	Limit  int
	Cursor *Cursor
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.PostComment) error
	GetByID(ctx context.Context, id uint) (*models.PostComment, error)
	ListByPost(ctx context.Context, q CommentQuery) ([]*models.PostComment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.PostComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.PostComment, error) {
	var comment models.PostComment
	err := r.db.WithContext(ctx).
		Model(&models.PostComment{}).
		Select("post_comments.*, "+commentTotalLikesSelect).
		Preload("User", omitPassword).
		First(&comment, "post_comments.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByPost returns a post's comments newest first. The cursor predicate is
// only added when a cursor is present.
func (r *commentRepository) ListByPost(ctx context.Context, q CommentQuery) ([]*models.PostComment, error) {
	var comments []*models.PostComment

	tx := r.db.WithContext(ctx).
		Model(&models.PostComment{}).
		Select("post_comments.*, "+commentTotalLikesSelect).
		Preload("User", omitPassword).
		Where("post_comments.post_id = ?", q.PostID)
	tx = q.Cursor.Apply(tx, "post_comments")

	err := tx.Order("post_comments.created_at DESC").
		Order("post_comments.id DESC").
		Limit(q.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
