package service

import (
	"context"
	"errors"

	"threadline/internal/models"
	"threadline/internal/observability"
	"threadline/internal/repository"
	"threadline/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID     uint   `json:"-"`
	Text       string `json:"text" validate:"max=1000"`
	ImageURL   string `json:"imageUrl" validate:"omitempty,url,max=255"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private friends"`
}

type FeedInput struct {
	ViewerID uint
	Limit    int
	Cursor   string
}

// FeedPage is one page of the feed. Cursor is empty when the page is empty.
type FeedPage struct {
	Posts  []*models.Post `json:"posts"`
	Cursor string         `json:"cursor,omitempty"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// NormalizeLimit applies the default for missing or non-positive limits and caps the rest.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func parseCursor(raw string) (*repository.Cursor, error) {
	cursor, err := repository.ParseCursor(raw)
	if errors.Is(err, repository.ErrInvalidCursor) {
		return nil, models.NewValidationError("Invalid cursor")
	}
	return cursor, err
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	visibility := models.Visibility(in.Visibility)
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	post := &models.Post{
		Text:       in.Text,
		Visibility: visibility,
		UserID:     in.UserID,
	}
	if in.ImageURL != "" {
		post.ImageURL = &in.ImageURL
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Feed returns the viewer's feed page: their own posts plus everyone's public
// posts, newest first.
func (s *PostService) Feed(ctx context.Context, in FeedInput) (page *FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.Feed",
		attribute.Int("feed.limit", in.Limit),
		attribute.Bool("feed.has_cursor", in.Cursor != ""),
	)
	defer func() { observability.EndSpan(span, err) }()

	cursor, err := parseCursor(in.Cursor)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.Feed(ctx, repository.FeedQuery{
		ViewerID: in.ViewerID,
		Limit:    NormalizeLimit(in.Limit),
		Cursor:   cursor,
	})
	if err != nil {
		return nil, err
	}

	observability.ObservePage("posts", len(posts))
	page = &FeedPage{Posts: posts}
	if n := len(posts); n > 0 {
		last := posts[n-1]
		page.Cursor = repository.NewCursor(last.CreatedAt, last.ID).Encode()
	}
	return page, nil
}
