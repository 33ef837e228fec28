package service

import (
	"context"

	"threadline/internal/models"
	"threadline/internal/observability"
	"threadline/internal/repository"
	"threadline/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID      uint   `json:"-"`
	PostID      uint   `json:"-"`
	CommentText string `json:"commentText" validate:"required,min=1,max=1000"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url,max=255"`
}

type ListCommentsInput struct {
	PostID uint
	Limit  int
	Cursor string
}

type CommentPage struct {
	Comments []*models.PostComment `json:"comments"`
	Cursor   string                `json:"cursor,omitempty"`
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.PostComment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.PostComment{
		CommentText: in.CommentText,
		PostID:      in.PostID,
		UserID:      in.UserID,
	}
	if in.ImageURL != "" {
		comment.ImageURL = &in.ImageURL
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments pages through a post's comments. The parent post's visibility
// is not checked and an unknown post yields an empty page.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) (page *CommentPage, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService.ListComments",
		attribute.Int("post.id", int(in.PostID)),
		attribute.Int("comments.limit", in.Limit),
	)
	defer func() { observability.EndSpan(span, err) }()

	cursor, err := parseCursor(in.Cursor)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, repository.CommentQuery{
		PostID: in.PostID,
		Limit:  NormalizeLimit(in.Limit),
		Cursor: cursor,
	})
	if err != nil {
		return nil, err
	}

	observability.ObservePage("comments", len(comments))
	page = &CommentPage{Comments: comments}
	if n := len(comments); n > 0 {
		last := comments[n-1]
		page.Cursor = repository.NewCursor(last.CreatedAt, last.ID).Encode()
	}
	return page, nil
}
