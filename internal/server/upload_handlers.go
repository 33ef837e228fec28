package server

import (
	"threadline/internal/models"
	"threadline/internal/service"

	"github.com/gofiber/fiber/v2"
)

const uploadField = "file"

// UploadSingle handles POST /api/v1/files/upload-single with a multipart "file" field.
func (s *Server) UploadSingle(c *fiber.Ctx) error {
	// A missing field is reported by the service as a validation error.
	fh, _ := c.FormFile(uploadField)

	res, err := s.uploadService.Upload(c.UserContext(), service.UploadInput{
		FieldName: uploadField,
		File:      fh,
		BaseURL:   c.BaseURL(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, "Upload successful", res)
}
