// Package storage saves uploaded files to local disk or to an S3-compatible
// bucket (Cloudflare R2).
package storage

import (
	"context"
	"io"

	"threadline/internal/config"
)

const (
	ProviderLocal = "local"
	ProviderR2    = "r2"
)

// File is an uploaded file as received from a multipart form.
type File struct {
	FieldName   string
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// Result describes where a saved file can be fetched.
type Result struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Provider string `json:"provider"`
}

// Provider persists uploaded files. baseURL is the scheme and host of the
// current request, used by providers that serve files from this process.
type Provider interface {
	Name() string
	Save(ctx context.Context, f File, baseURL string) (*Result, error)
}

// New selects the provider named by STORAGE_PROVIDER. Anything other than
// "r2" falls back to local disk.
func New(cfg *config.Config) Provider {
	if cfg.StorageProvider == ProviderR2 {
		return NewR2Provider(R2Config{
			Region:          cfg.R2Region,
			Endpoint:        cfg.R2Endpoint,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Bucket:          cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
	}
	return NewLocalProvider(cfg.LocalUploadPath)
}
