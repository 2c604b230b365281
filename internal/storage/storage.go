// Package storage persists uploaded attachments and hands back an opaque
// reference (a path or URL) that records keep. Two variants exist: local
// disk and an S3-compatible remote object store. One is selected at start
// and injected into the services; callers never inspect reference shapes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/config"
	"github.com/foliokit/folio/internal/validation"
)

var (
	// ErrUnmanagedReference is returned by Delete for references this
	// backend did not issue.
	ErrUnmanagedReference = errors.New("reference not managed by this storage")
)

// Backend stores and removes attachment payloads.
type Backend interface {
	// Store persists the upload. It either returns a usable reference or
	// fails without leaving anything behind.
	Store(ctx context.Context, upload Upload) (*Asset, error)

	// Delete removes a previously stored payload. Deleting something that
	// no longer exists is not an error.
	Delete(ctx context.Context, ref string) error

	// SupportsDelete reports whether Delete actually removes payloads.
	SupportsDelete() bool

	// Name identifies the variant in logs and metrics.
	Name() string
}

// Upload is an incoming file part.
type Upload struct {
	Filename  string    // Original client filename, used for the extension only
	Size      int64     // -1 when unknown
	Body      io.Reader // Payload
	Thumbnail bool      // Derive a square thumbnail for images when supported
}

// Asset describes a stored payload.
type Asset struct {
	Ref          string `json:"ref"`
	ThumbnailRef string `json:"thumbnailRef,omitempty"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}

// New creates the backend selected by STORAGE_DRIVER.
func New(c *config.Config) (Backend, error) {
	constraints := validation.AttachmentConstraints(c.UploadMaxBytes)

	switch c.StorageDriver {
	case config.StorageDriverLocal:
		slog.Info("initializing local storage", "dir", c.UploadDir, "url_prefix", c.UploadURLPrefix)
		return NewLocalStorage(LocalConfig{
			Root:          c.UploadDir,
			URLPrefix:     c.UploadURLPrefix,
			Constraints:   constraints,
			ThumbnailSize: c.ThumbnailSize,
		})
	case config.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(context.Background(), S3Config{
			Region:      c.S3Region,
			Bucket:      c.S3Bucket,
			AccessKey:   c.S3AccessKey,
			SecretKey:   c.S3SecretKey,
			Endpoint:    c.S3Endpoint,
			PublicURL:   c.S3PublicURL,
			KeyPrefix:   c.S3KeyPrefix,
			PathStyle:   c.S3PathStyle,
			Constraints: constraints,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// inspect validates an upload and converts constraint violations into
// caller-facing errors.
func inspect(upload Upload, constraints validation.FileConstraints) (*validation.InspectedFile, error) {
	if upload.Body == nil {
		return nil, apperr.Validation("file is empty")
	}

	file, err := validation.InspectUpload(upload.Body, upload.Filename, upload.Size, constraints)
	if err != nil {
		return nil, classify(err)
	}
	return file, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, validation.ErrFileTooLarge):
		return apperr.E(apperr.KindPayloadTooLarge, "file too large", err)
	case errors.Is(err, validation.ErrUnsupportedType):
		return apperr.E(apperr.KindUnsupportedMediaType, "unsupported file type", err)
	default:
		return apperr.E(apperr.KindStorageFailure, "failed to read upload", err)
	}
}
