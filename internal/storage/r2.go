package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds the bucket coordinates and credentials.
type R2Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

// R2Provider uploads files to an S3-compatible bucket.
type R2Provider struct {
	client    *s3.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewR2Provider builds an S3 client against the configured endpoint.
func NewR2Provider(cfg R2Config) *R2Provider {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		UsePathStyle:               true,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})
	return &R2Provider{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
		now:       time.Now,
	}
}

func (p *R2Provider) Name() string { return ProviderR2 }

// Save uploads the file under <unixMillis>-<originalName>. No retries.
func (p *R2Provider) Save(ctx context.Context, f File, _ string) (*Result, error) {
	key := strconv.FormatInt(p.now().UnixMilli(), 10) + "-" + f.Name

	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   f.Body,
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	}
	if f.Size > 0 {
		input.ContentLength = aws.Int64(f.Size)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Result{
		URL:      p.publicURL + "/" + key,
		Filename: key,
		Provider: ProviderR2,
	}, nil
}
