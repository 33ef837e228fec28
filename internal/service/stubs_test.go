package service

import (
	"context"
	"errors"
	"testing"

	"threadline/internal/models"
	"threadline/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	feedFn    func(context.Context, repository.FeedQuery) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Feed(ctx context.Context, q repository.FeedQuery) ([]*models.Post, error) {
	return s.feedFn(ctx, q)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id, Visibility: models.VisibilityPublic}, nil },
		feedFn:    func(_ context.Context, _ repository.FeedQuery) ([]*models.Post, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.PostComment) error
	getByIDFn    func(context.Context, uint) (*models.PostComment, error)
	listByPostFn func(context.Context, repository.CommentQuery) ([]*models.PostComment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.PostComment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.PostComment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, q repository.CommentQuery) ([]*models.PostComment, error) {
	return s.listByPostFn(ctx, q)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.PostComment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.PostComment, error) { return &models.PostComment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ repository.CommentQuery) ([]*models.PostComment, error) {
			return nil, nil
		},
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	likePostFn          func(context.Context, uint, uint) error
	unlikePostFn        func(context.Context, uint, uint) error
	countPostLikesFn    func(context.Context, uint) (int64, error)
	likeCommentFn       func(context.Context, uint, uint) error
	unlikeCommentFn     func(context.Context, uint, uint) error
	countCommentLikesFn func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) LikePost(ctx context.Context, userID, postID uint) error {
	return s.likePostFn(ctx, userID, postID)
}
func (s *likeRepoStub) UnlikePost(ctx context.Context, userID, postID uint) error {
	return s.unlikePostFn(ctx, userID, postID)
}
func (s *likeRepoStub) CountPostLikes(ctx context.Context, postID uint) (int64, error) {
	return s.countPostLikesFn(ctx, postID)
}
func (s *likeRepoStub) LikeComment(ctx context.Context, userID, commentID uint) error {
	return s.likeCommentFn(ctx, userID, commentID)
}
func (s *likeRepoStub) UnlikeComment(ctx context.Context, userID, commentID uint) error {
	return s.unlikeCommentFn(ctx, userID, commentID)
}
func (s *likeRepoStub) CountCommentLikes(ctx context.Context, commentID uint) (int64, error) {
	return s.countCommentLikesFn(ctx, commentID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		likePostFn:          func(_ context.Context, _, _ uint) error { return nil },
		unlikePostFn:        func(_ context.Context, _, _ uint) error { return nil },
		countPostLikesFn:    func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		likeCommentFn:       func(_ context.Context, _, _ uint) error { return nil },
		unlikeCommentFn:     func(_ context.Context, _, _ uint) error { return nil },
		countCommentLikesFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized)
}
