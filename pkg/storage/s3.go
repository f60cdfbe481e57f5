package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config is the environment-driven object storage configuration. Endpoint
// and ForcePathStyle support S3-compatible services like MinIO.
type Config struct {
	Bucket         string        `env:"S3_BUCKET,required"`                     // Bucket holds all uploaded objects.
	Region         string        `env:"S3_REGION" envDefault:"us-east-1"`       // Region for request signing.
	AccessKeyID    string        `env:"S3_ACCESS_KEY_ID"`                       // AccessKeyID; empty falls back to the default credential chain.
	SecretKey      string        `env:"S3_SECRET_KEY"`                          // SecretKey paired with AccessKeyID.
	Endpoint       string        `env:"S3_ENDPOINT"`                            // Endpoint overrides AWS for MinIO and friends.
	ForcePathStyle bool          `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // ForcePathStyle is required by most S3-compatible services.
	UploadTTL      time.Duration `env:"S3_UPLOAD_TTL" envDefault:"1h"`          // UploadTTL is the presigned URL lifetime.
}

// UploadURL is a presigned PUT the client performs directly against object
// storage, bypassing the gateway.
type UploadURL struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Key     string            `json:"object_key"`
}

// Presigner issues time-limited upload URLs.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*UploadURL, error)
}

// PresignAPI is the slice of the S3 presign client used by S3Presigner.
// Tests substitute a fake.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Presigner implements Presigner on the AWS SDK presign client.
// It is safe for concurrent use.
type S3Presigner struct {
	presign PresignAPI
	bucket  string
}

// Option configures the presigner.
type Option func(*S3Presigner)

// WithPresignAPI sets a custom presign client. Useful for testing.
func WithPresignAPI(api PresignAPI) Option {
	return func(p *S3Presigner) { p.presign = api }
}

// NewS3Presigner creates a presigner for the configured bucket.
func NewS3Presigner(ctx context.Context, cfg Config, opts ...Option) (*S3Presigner, error) {
	if cfg.Bucket == "" {
		return nil, ErrInvalidConfig
	}

	p := &S3Presigner{bucket: cfg.Bucket}
	for _, opt := range opts {
		opt(p)
	}
	if p.presign != nil {
		return p, nil
	}

	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	p.presign = s3.NewPresignClient(client)
	return p, nil
}

// PresignUpload issues a presigned PUT for the given object key. The
// content type is baked into the signature, so the client must send it
// unchanged.
func (p *S3Presigner) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*UploadURL, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPresignFailed, err)
	}

	return &UploadURL{
		URL:     req.URL,
		Method:  req.Method,
		Headers: map[string]string{"Content-Type": contentType},
		Key:     key,
	}, nil
}
