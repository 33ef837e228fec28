package server

import (
	"time"

	"threadline/internal/models"
	"threadline/internal/service"

	"github.com/gofiber/fiber/v2"
)

const refreshCookie = "refreshToken"

type sessionResponse struct {
	User        models.Profile `json:"user"`
	AccessToken string         `json:"accessToken"`
}

// Register handles POST /api/v1/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	s.setRefreshCookie(c, session.RefreshToken)
	return models.RespondWithData(c, fiber.StatusCreated, "User registered successfully", sessionResponse{
		User:        session.User.ToProfile(),
		AccessToken: session.AccessToken,
	})
}

// Login handles POST /api/v1/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	s.setRefreshCookie(c, session.RefreshToken)
	return models.RespondWithData(c, fiber.StatusOK, "Login successful", sessionResponse{
		User:        session.User.ToProfile(),
		AccessToken: session.AccessToken,
	})
}

// Refresh handles POST /api/v1/auth/refresh using the refresh cookie.
func (s *Server) Refresh(c *fiber.Ctx) error {
	access, err := s.authService.Refresh(c.UserContext(), c.Cookies(refreshCookie))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "Token refreshed", fiber.Map{
		"accessToken": access,
	})
}

// Logout handles POST /api/v1/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	s.authService.Logout(c.UserContext(), currentClaims(c))
	s.clearRefreshCookie(c)
	return models.RespondWithData(c, fiber.StatusOK, "Logout successful", nil)
}

// GetProfile handles GET /api/v1/auth/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.authService.Profile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "", profile)
}

// DeleteProfile handles DELETE /api/v1/auth/profile
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	if err := s.authService.DeleteAccount(c.UserContext(), currentUserID(c), currentClaims(c)); err != nil {
		return respondError(c, err)
	}
	s.clearRefreshCookie(c)
	return models.RespondWithData(c, fiber.StatusOK, "Account deleted", nil)
}

func (s *Server) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.RefreshTTL() / time.Second),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
