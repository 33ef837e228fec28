package service

import (
	"context"
	"testing"

	"threadline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_PostLikes(t *testing.T) {
	t.Parallel()

	likes := map[uint]bool{}
	likeRepo := noopLikeRepo()
	likeRepo.likePostFn = func(_ context.Context, userID, _ uint) error {
		likes[userID] = true
		return nil
	}
	likeRepo.unlikePostFn = func(_ context.Context, userID, _ uint) error {
		delete(likes, userID)
		return nil
	}
	likeRepo.countPostLikesFn = func(_ context.Context, _ uint) (int64, error) {
		return int64(len(likes)), nil
	}

	svc := NewLikeService(likeRepo, noopPostRepo(), noopCommentRepo())
	ctx := context.Background()

	state, err := svc.LikePost(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: true, TotalLikes: 1}, *state)

	state, err = svc.LikePost(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.TotalLikes)

	state, err = svc.UnlikePost(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: false, TotalLikes: 0}, *state)
}

func TestLikeService_PostNotFound(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewLikeService(noopLikeRepo(), postRepo, noopCommentRepo())

	_, err := svc.LikePost(context.Background(), 1, 99)
	assertAppError(t, err, models.CodeNotFound)
}

func TestLikeService_CommentMustBelongToPost(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.PostComment, error) {
		return &models.PostComment{ID: id, PostID: 5}, nil
	}
	liked := false
	likeRepo := noopLikeRepo()
	likeRepo.likeCommentFn = func(_ context.Context, _, _ uint) error {
		liked = true
		return nil
	}
	likeRepo.countCommentLikesFn = func(_ context.Context, _ uint) (int64, error) { return 1, nil }

	svc := NewLikeService(likeRepo, noopPostRepo(), commentRepo)
	ctx := context.Background()

	_, err := svc.LikeComment(ctx, 1, 6, 3)
	assertAppError(t, err, models.CodeNotFound)
	assert.False(t, liked)

	state, err := svc.LikeComment(ctx, 1, 5, 3)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, models.LikeState{Liked: true, TotalLikes: 1}, *state)

	state, err = svc.UnlikeComment(ctx, 1, 5, 3)
	require.NoError(t, err)
	assert.False(t, state.Liked)
}

func TestLikeService_HiddenPosts(t *testing.T) {
	t.Parallel()

	posts := map[uint]*models.Post{
		1: {ID: 1, UserID: 7, Visibility: models.VisibilityPrivate},
		2: {ID: 2, UserID: 7, Visibility: models.VisibilityFriends},
		3: {ID: 3, UserID: 7, Visibility: models.VisibilityPublic},
	}
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return posts[id], nil
	}
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.PostComment, error) {
		return &models.PostComment{ID: id, PostID: 1}, nil
	}
	writes := 0
	likeRepo := noopLikeRepo()
	likeRepo.likePostFn = func(_ context.Context, _, _ uint) error {
		writes++
		return nil
	}
	likeRepo.likeCommentFn = func(_ context.Context, _, _ uint) error {
		writes++
		return nil
	}
	svc := NewLikeService(likeRepo, postRepo, commentRepo)
	ctx := context.Background()

	_, err := svc.LikePost(ctx, 8, 1)
	assertAppError(t, err, models.CodeNotFound)
	_, err = svc.LikePost(ctx, 8, 2)
	assertAppError(t, err, models.CodeNotFound)
	_, err = svc.UnlikePost(ctx, 8, 1)
	assertAppError(t, err, models.CodeNotFound)
	_, err = svc.LikeComment(ctx, 8, 1, 4)
	assertAppError(t, err, models.CodeNotFound)
	assert.Zero(t, writes)

	// The author and public posts are unaffected.
	_, err = svc.LikePost(ctx, 7, 1)
	require.NoError(t, err)
	_, err = svc.LikeComment(ctx, 7, 1, 4)
	require.NoError(t, err)
	_, err = svc.LikePost(ctx, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, writes)
}
