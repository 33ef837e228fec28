package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"threadline/internal/auth"
	"threadline/internal/models"
	"threadline/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokens() *auth.Manager {
	return auth.NewManager("service-test-secret-long-enough-0000", time.Hour, 24*time.Hour, nil)
}

func validRegister() RegisterInput {
	return RegisterInput{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "secret1"}
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(noopUserRepo(), newTestTokens(), bcrypt.MinCost)
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(*RegisterInput)
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = "" }},
		{"long last name", func(in *RegisterInput) { in.LastName = fmt.Sprintf("%051d", 0) }},
		{"bad email", func(in *RegisterInput) { in.Email = "ann" }},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validRegister()
			tt.modify(&in)
			_, err := svc.Register(ctx, in)
			assertValidationError(t, err)
		})
	}
}

func TestAuthService_Register_ExistingEmail(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1}, nil
	}
	created := false
	repo.createFn = func(_ context.Context, _ *models.User) error {
		created = true
		return nil
	}

	svc := NewAuthService(repo, newTestTokens(), bcrypt.MinCost)
	_, err := svc.Register(context.Background(), validRegister())
	assertValidationError(t, err)
	assert.EqualError(t, err, "User already exists")
	assert.False(t, created)
}

func TestAuthService_Register_DuplicateOnInsert(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		return fmt.Errorf("user %s: %w", u.Email, repository.ErrDuplicate)
	}

	svc := NewAuthService(repo, newTestTokens(), bcrypt.MinCost)
	_, err := svc.Register(context.Background(), validRegister())
	assertValidationError(t, err)
}

func TestAuthService_Register_Success(t *testing.T) {
	t.Parallel()

	var stored *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 9
		stored = u
		return nil
	}

	tokens := newTestTokens()
	svc := NewAuthService(repo, tokens, bcrypt.MinCost)
	session, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.Equal(t, uint(9), session.User.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	claims, err := tokens.Parse(session.AccessToken, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "9", claims.Subject)
	_, err = tokens.Parse(session.RefreshToken, auth.TypeRefresh)
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == "ann@example.com" {
			return &models.User{ID: 3, Email: email, Password: string(hash)}, nil
		}
		return nil, nil
	}
	svc := NewAuthService(repo, newTestTokens(), bcrypt.MinCost)
	ctx := context.Background()

	session, err := svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)

	_, err = svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "wrong1"})
	assertUnauthorizedError(t, err)
	assert.EqualError(t, err, "Invalid credentials")

	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "secret1"})
	assertUnauthorizedError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "", Password: "secret1"})
	assertValidationError(t, err)
}

func TestAuthService_Login_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := models.NewInternalError(errors.New("db down"))
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return nil, repoErr }

	svc := NewAuthService(repo, newTestTokens(), bcrypt.MinCost)
	_, err := svc.Login(context.Background(), LoginInput{Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, repoErr)
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens()
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == 5 {
			return &models.User{ID: 5}, nil
		}
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewAuthService(repo, tokens, bcrypt.MinCost)
	ctx := context.Background()

	refresh, err := tokens.IssueRefresh(5)
	require.NoError(t, err)
	access, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	_, err = tokens.Parse(access, auth.TypeAccess)
	assert.NoError(t, err)

	// An access token cannot be used as a refresh token.
	_, err = svc.Refresh(ctx, access)
	assertUnauthorizedError(t, err)

	_, err = svc.Refresh(ctx, "")
	assertUnauthorizedError(t, err)

	gone, err := tokens.IssueRefresh(6)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, gone)
	assertUnauthorizedError(t, err)
}

func TestAuthService_Profile(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id != 2 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: 2, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "hash", CreatedAt: created}, nil
	}
	svc := NewAuthService(repo, newTestTokens(), bcrypt.MinCost)

	profile, err := svc.Profile(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.Profile{ID: 2, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", CreatedAt: created}, *profile)

	_, err = svc.Profile(context.Background(), 3)
	assertAppError(t, err, models.CodeNotFound)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	t.Parallel()

	var deleted uint
	repo := noopUserRepo()
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewAuthService(repo, newTestTokens(), bcrypt.MinCost)

	require.NoError(t, svc.DeleteAccount(context.Background(), 4, nil))
	assert.Equal(t, uint(4), deleted)
}
