package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/storage"
)

// Attachments wraps the storage backend with the lifecycle rules records
// rely on: store before persist, roll back on persist failure, discard
// replaced assets only after the record points at the new one.
type Attachments struct {
	backend storage.Backend
}

func NewAttachments(backend storage.Backend) *Attachments {
	return &Attachments{backend: backend}
}

// Store saves an upload. A nil upload stores nothing and returns nil.
func (a *Attachments) Store(ctx context.Context, upload *storage.Upload) (*storage.Asset, error) {
	if upload == nil {
		return nil, nil
	}

	asset, err := a.backend.Store(ctx, *upload)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.E(apperr.KindStorageFailure, "Error uploading file", err)
	}

	slog.Debug("stored asset", "backend", a.backend.Name(), "ref", asset.Ref, "size", asset.Size)
	return asset, nil
}

// Rollback removes an asset stored for a write that did not persist.
func (a *Attachments) Rollback(ctx context.Context, asset *storage.Asset, cause error) {
	if asset == nil {
		return
	}

	slog.Warn("rolling back stored asset", "backend", a.backend.Name(), "ref", asset.Ref, "cause", cause)
	if !a.backend.SupportsDelete() {
		slog.Warn("rollback skipped, backend cannot delete", "backend", a.backend.Name(), "ref", asset.Ref)
		return
	}

	// The request context may already be cancelled; the cleanup must still run.
	ctx = context.WithoutCancel(ctx)
	for _, ref := range []string{asset.Ref, asset.ThumbnailRef} {
		if ref == "" {
			continue
		}
		err := a.backend.Delete(ctx, ref)
		if err != nil {
			slog.Error("rollback failed", "backend", a.backend.Name(), "ref", ref, "error", err)
		}
	}
}

// Discard deletes assets a record no longer references. Failures and
// missing files are logged and never surface to the caller.
func (a *Attachments) Discard(ctx context.Context, refs ...string) {
	if !a.backend.SupportsDelete() {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		err := a.backend.Delete(ctx, ref)
		if err != nil {
			slog.Warn("failed to delete old asset", "backend", a.backend.Name(), "ref", ref, "error", err)
		}
	}
}
