package server

import (
	"errors"

	"threadline/internal/auth"
	"threadline/internal/middleware"
	"threadline/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID reads route parameter param as a positive id. Otherwise it writes
// a 400 with msg and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param, msg string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(msg))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError writes err with the status its code maps to. Internal causes
// are logged here because the envelope hides them.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"path", c.Path(),
			"error", err,
		)
	}
	return models.RespondWithError(c, status, err)
}

// invalidBody answers a request whose body could not be decoded.
func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

// currentUserID returns the id AuthRequired stored for the request.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// currentClaims returns the verified access token claims, or nil.
func currentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}
