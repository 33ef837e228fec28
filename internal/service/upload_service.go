package service

import (
	"context"
	"mime/multipart"

	"threadline/internal/middleware"
	"threadline/internal/models"
	"threadline/internal/observability"
	"threadline/internal/storage"
)

// UploadService stores a single uploaded file with the configured provider.
type UploadService struct {
	provider storage.Provider
}

type UploadInput struct {
	FieldName string
	File      *multipart.FileHeader
	BaseURL   string
}

func NewUploadService(provider storage.Provider) *UploadService {
	return &UploadService{provider: provider}
}

// Provider returns the active storage provider.
func (s *UploadService) Provider() storage.Provider {
	return s.provider
}

func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*storage.Result, error) {
	if in.File == nil {
		return nil, models.NewValidationError("No file uploaded or file failed to process.")
	}

	src, err := in.File.Open()
	if err != nil {
		return nil, models.NewValidationError("No file uploaded or file failed to process.")
	}
	defer func() { _ = src.Close() }()

	res, err := s.provider.Save(ctx, storage.File{
		FieldName:   in.FieldName,
		Name:        in.File.Filename,
		ContentType: in.File.Header.Get("Content-Type"),
		Size:        in.File.Size,
		Body:        src,
	}, in.BaseURL)
	observability.ObserveUpload(s.provider.Name(), err)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "file uploaded",
		"provider", res.Provider,
		"filename", res.Filename,
		"size", in.File.Size,
	)
	return res, nil
}
