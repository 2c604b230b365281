package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/db"
	"github.com/foliokit/folio/internal/storage"
	"github.com/foliokit/folio/internal/validation"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func newLocalBackend(t *testing.T, maxSize int64) *storage.LocalStorage {
	t.Helper()
	backend, err := storage.NewLocalStorage(storage.LocalConfig{
		Root:          t.TempDir(),
		URLPrefix:     "/uploads",
		Constraints:   validation.AttachmentConstraints(maxSize),
		ThumbnailSize: 16,
	})
	require.NoError(t, err)
	return backend
}

// storedFiles lists payloads in the managed root, ignoring the temp dir.
func storedFiles(t *testing.T, backend *storage.LocalStorage) []string {
	t.Helper()
	des, err := os.ReadDir(backend.Root())
	require.NoError(t, err)
	var names []string
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		names = append(names, de.Name())
	}
	return names
}

func pngData(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < size; i++ {
		img.Set(i, i, color.RGBA{R: 180, B: 90, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngUpload(t *testing.T, name string) *storage.Upload {
	data := pngData(t, 64)
	return &storage.Upload{Filename: name, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func ptr[T any](v T) *T {
	return &v
}

// scriptedBackend wraps a backend and fails Store calls whose index is in
// failStores. Deletes are recorded.
type scriptedBackend struct {
	storage.Backend

	mu         sync.Mutex
	stores     int
	failStores map[int]bool
	deletes    []string
}

func (b *scriptedBackend) Store(ctx context.Context, upload storage.Upload) (*storage.Asset, error) {
	b.mu.Lock()
	n := b.stores
	b.stores++
	b.mu.Unlock()

	if b.failStores[n] {
		return nil, errors.New("disk full")
	}
	return b.Backend.Store(ctx, upload)
}

func (b *scriptedBackend) Delete(ctx context.Context, ref string) error {
	b.mu.Lock()
	b.deletes = append(b.deletes, ref)
	b.mu.Unlock()
	return b.Backend.Delete(ctx, ref)
}

// remoteBackend stores through a local backend but reports it cannot delete.
type remoteBackend struct {
	storage.Backend
	deleted int
}

func (b *remoteBackend) SupportsDelete() bool { return false }

func (b *remoteBackend) Delete(ctx context.Context, ref string) error {
	b.deleted++
	return nil
}

func TestAttachmentsStoreNilUpload(t *testing.T) {
	attachments := NewAttachments(newLocalBackend(t, 1<<20))

	asset, err := attachments.Store(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, asset)
}

func TestAttachmentsStoreWrapsBackendFailures(t *testing.T) {
	backend := &scriptedBackend{Backend: newLocalBackend(t, 1<<20), failStores: map[int]bool{0: true}}
	attachments := NewAttachments(backend)

	_, err := attachments.Store(context.Background(), pngUpload(t, "a.png"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorageFailure, apperr.KindOf(err))
}

func TestAttachmentsRollbackSurvivesCancelledContext(t *testing.T) {
	local := newLocalBackend(t, 1<<20)
	attachments := NewAttachments(local)

	upload := pngUpload(t, "a.png")
	upload.Thumbnail = true
	asset, err := attachments.Store(context.Background(), upload)
	require.NoError(t, err)
	require.NotEmpty(t, asset.ThumbnailRef)
	assert.Len(t, storedFiles(t, local), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attachments.Rollback(ctx, asset, errors.New("insert failed"))

	assert.Empty(t, storedFiles(t, local))
}

func TestAttachmentsSkipDeletesOnRemoteBackend(t *testing.T) {
	remote := &remoteBackend{Backend: newLocalBackend(t, 1<<20)}
	attachments := NewAttachments(remote)

	asset, err := attachments.Store(context.Background(), pngUpload(t, "a.png"))
	require.NoError(t, err)

	attachments.Rollback(context.Background(), asset, errors.New("insert failed"))
	attachments.Discard(context.Background(), asset.Ref)
	assert.Zero(t, remote.deleted)
}

func TestAttachmentsDiscardToleratesMissingAndForeignRefs(t *testing.T) {
	attachments := NewAttachments(newLocalBackend(t, 1<<20))

	assert.NotPanics(t, func() {
		attachments.Discard(context.Background(), "", "/uploads/gone.png", "https://cdn.example.com/x.png")
	})
}
