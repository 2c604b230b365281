package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/validation"
)

// S3Storage implements Backend for S3-compatible storage
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
//
// References are absolute public URLs. Object lifecycle is managed outside
// this service, so Delete is a no-op and SupportsDelete reports false.
type S3Storage struct {
	client      *s3.Client
	bucket      string
	publicURL   string // Base URL for generating references
	keyPrefix   string
	constraints validation.FileConstraints
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region      string
	Bucket      string
	AccessKey   string
	SecretKey   string
	Endpoint    string // Optional: for S3-compatible services
	PublicURL   string // Optional: CDN or custom domain in front of the bucket
	KeyPrefix   string
	PathStyle   bool
	Constraints validation.FileConstraints
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	storage := &S3Storage{
		client:      client,
		bucket:      cfg.Bucket,
		publicURL:   publicBaseURL(cfg),
		keyPrefix:   strings.Trim(cfg.KeyPrefix, "/"),
		constraints: cfg.Constraints,
	}

	// Auto-create bucket if it doesn't exist
	err = storage.ensureBucket(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return storage, nil
}

func publicBaseURL(cfg S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimSuffix(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		// Custom endpoint (MinIO, DO Spaces, etc.)
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		// Standard AWS S3 URL
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Storage) Name() string {
	return "s3"
}

func (s *S3Storage) SupportsDelete() bool {
	return false
}

// Store streams the payload to the bucket under a random key and returns
// the object's public URL.
func (s *S3Storage) Store(ctx context.Context, upload Upload) (*Asset, error) {
	file, err := inspect(upload, s.constraints)
	if err != nil {
		return nil, err
	}

	body := file.Body
	size := file.Size
	if size < 0 {
		// Unknown length: buffer so the ceiling is enforced before anything
		// reaches the bucket and the SDK gets a content length.
		buf, err := s.buffer(body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
		size = int64(len(buf))
	}

	key := path.Join(s.keyPrefix, uuid.New().String()+file.Extension)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, apperr.E(apperr.KindStorageFailure, "failed to upload file", fmt.Errorf("failed to upload to S3: %w", err))
	}

	return &Asset{
		Ref:         s.publicURL + "/" + key,
		ContentType: file.ContentType,
		Size:        size,
	}, nil
}

func (s *S3Storage) buffer(body io.Reader) ([]byte, error) {
	reader := body
	if s.constraints.MaxSize > 0 {
		reader = io.LimitReader(body, s.constraints.MaxSize+1)
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperr.E(apperr.KindStorageFailure, "failed to read upload", err)
	}
	if s.constraints.MaxSize > 0 && int64(len(buf)) > s.constraints.MaxSize {
		return nil, classify(fmt.Errorf("%w: exceeds %d bytes", validation.ErrFileTooLarge, s.constraints.MaxSize))
	}
	return buf, nil
}

// Delete is a no-op: remote objects are never removed by this service.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	slog.Debug("remote storage delete skipped", "ref", ref)
	return nil
}
