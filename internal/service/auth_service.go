package service

import (
	"context"
	"errors"

	"threadline/internal/auth"
	"threadline/internal/middleware"
	"threadline/internal/models"
	"threadline/internal/repository"
	"threadline/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and the session lifecycle.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.Manager
	bcryptCost int
}

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the outcome of a successful register or login.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.Manager, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same address.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewValidationError("User already exists")
		}
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.newSession(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return s.newSession(user)
}

// Refresh exchanges a refresh token for a new access token. The user must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", models.NewUnauthorizedError("Refresh token required")
	}
	claims, err := s.tokens.Parse(refreshToken, auth.TypeRefresh)
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid refresh token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid refresh token")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return "", models.NewUnauthorizedError("Invalid refresh token")
		}
		return "", err
	}

	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return access, nil
}

// Logout revokes the access token. A revocation failure is logged, not returned,
// so the client can always drop its session.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to revoke access token", "error", err)
	}
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.ToProfile()
	return &profile, nil
}

// DeleteAccount removes the user and, through cascading foreign keys, everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint, claims *auth.Claims) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "account deleted")
	s.Logout(ctx, claims)
	return nil
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}
