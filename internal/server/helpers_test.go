package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/posts/:postId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "postId", "Invalid post ID")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/posts/7", http.StatusOK},
		{"/posts/0", http.StatusBadRequest},
		{"/posts/-3", http.StatusBadRequest},
		{"/posts/abc", http.StatusBadRequest},
		{"/posts/1.5", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusBadRequest {
				var env envelope
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
				assert.Equal(t, "Invalid post ID", env.Message)
			}
		})
	}
}
