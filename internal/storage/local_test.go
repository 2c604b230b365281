package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/validation"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLocal(t *testing.T, maxSize int64) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(LocalConfig{
		Root:          t.TempDir(),
		URLPrefix:     "/uploads",
		Constraints:   validation.AttachmentConstraints(maxSize),
		ThumbnailSize: 16,
	})
	require.NoError(t, err)
	return s
}

func upload(data []byte, name string) Upload {
	return Upload{Filename: name, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

// entries lists files in the managed root, ignoring the temp dir.
func entries(t *testing.T, s *LocalStorage) []string {
	t.Helper()
	des, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	var names []string
	for _, de := range des {
		if de.Name() == localTmpDir {
			continue
		}
		names = append(names, de.Name())
	}
	return names
}

func TestLocalStoreAndDelete(t *testing.T) {
	s := newLocal(t, 1<<20)
	ctx := context.Background()
	data := pngBytes(t, 8, 8)

	asset, err := s.Store(ctx, upload(data, "cover.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.Ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(asset.Ref, ".png"))
	assert.Equal(t, "image/png", asset.ContentType)
	assert.Equal(t, int64(len(data)), asset.Size)
	assert.Empty(t, asset.ThumbnailRef)

	stored, err := os.ReadFile(filepath.Join(s.Root(), strings.TrimPrefix(asset.Ref, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	require.NoError(t, s.Delete(ctx, asset.Ref))
	assert.Empty(t, entries(t, s))

	// Deleting again is not an error.
	require.NoError(t, s.Delete(ctx, asset.Ref))
}

func TestLocalStoreNamesNeverCollide(t *testing.T) {
	s := newLocal(t, 1<<20)
	data := pngBytes(t, 4, 4)

	a, err := s.Store(context.Background(), upload(data, "same.png"))
	require.NoError(t, err)
	b, err := s.Store(context.Background(), upload(data, "same.png"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Ref, b.Ref)
	assert.Len(t, entries(t, s), 2)
}

func TestLocalStoreRejectsOversize(t *testing.T) {
	s := newLocal(t, 64)
	data := pngBytes(t, 64, 64)

	_, err := s.Store(context.Background(), upload(data, "big.png"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindPayloadTooLarge, apperr.KindOf(err))
	assert.Empty(t, entries(t, s))
}

func TestLocalStoreEnforcesCeilingWhenSizeUnknown(t *testing.T) {
	s := newLocal(t, 64)
	data := pngBytes(t, 64, 64)
	require.Greater(t, len(data), 64)

	_, err := s.Store(context.Background(), Upload{Filename: "big.png", Size: -1, Body: bytes.NewReader(data)})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPayloadTooLarge, apperr.KindOf(err))
	assert.Empty(t, entries(t, s))

	tmp, err := os.ReadDir(filepath.Join(s.Root(), localTmpDir))
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestLocalStoreRejectsUnsupportedType(t *testing.T) {
	s := newLocal(t, 1<<20)

	_, err := s.Store(context.Background(), upload([]byte("#!/bin/sh\necho hi\n"), "run.png"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnsupportedMediaType, apperr.KindOf(err))
	assert.Empty(t, entries(t, s))
}

func TestLocalStoreRejectsImageNamedAsDocument(t *testing.T) {
	s := newLocal(t, 1<<20)

	_, err := s.Store(context.Background(), upload(pngBytes(t, 4, 4), "resume.pdf"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnsupportedMediaType, apperr.KindOf(err))
	assert.Empty(t, entries(t, s))
}

func TestLocalStoreThumbnail(t *testing.T) {
	s := newLocal(t, 1<<20)
	ctx := context.Background()
	data := pngBytes(t, 64, 32)

	u := upload(data, "avatar.png")
	u.Thumbnail = true
	asset, err := s.Store(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, asset.ThumbnailRef)
	assert.True(t, strings.HasSuffix(asset.ThumbnailRef, "-thumb.png"))

	f, err := os.Open(filepath.Join(s.Root(), strings.TrimPrefix(asset.ThumbnailRef, "/uploads/")))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(f)
	_ = f.Close()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 16, cfg.Height)

	// Deleting the asset also removes its thumbnail.
	require.NoError(t, s.Delete(ctx, asset.Ref))
	assert.Empty(t, entries(t, s))
}

func TestLocalDeleteRejectsForeignReferences(t *testing.T) {
	s := newLocal(t, 1<<20)
	ctx := context.Background()

	for _, ref := range []string{
		"https://cdn.example.com/uploads/a.png",
		"/uploads/../secret.txt",
		"/uploads/.tmp",
		"/other/a.png",
	} {
		err := s.Delete(ctx, ref)
		assert.ErrorIs(t, err, ErrUnmanagedReference, ref)
	}
}

func TestLocalHandlerServesStoredFiles(t *testing.T) {
	s := newLocal(t, 1<<20)
	data := pngBytes(t, 4, 4)

	asset, err := s.Store(context.Background(), upload(data, "a.png"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, asset.Ref, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/.tmp/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type recordingObserver struct {
	stores  int
	deletes int
	lastErr error
}

func (o *recordingObserver) RecordStore(_ string, _ time.Duration, _ int64, err error) {
	o.stores++
	o.lastErr = err
}

func (o *recordingObserver) RecordDelete(_ string, _ time.Duration, err error) {
	o.deletes++
	o.lastErr = err
}

func TestInstrumentedReportsAndUnwraps(t *testing.T) {
	s := newLocal(t, 1<<20)
	obs := &recordingObserver{}
	b := Instrumented(s, obs)

	asset, err := b.Store(context.Background(), upload(pngBytes(t, 4, 4), "a.png"))
	require.NoError(t, err)
	require.NoError(t, b.Delete(context.Background(), asset.Ref))

	assert.Equal(t, 1, obs.stores)
	assert.Equal(t, 1, obs.deletes)
	assert.Equal(t, "local", b.Name())
	assert.True(t, b.SupportsDelete())

	prefix, handler, ok := FileServer(b)
	assert.True(t, ok)
	assert.Equal(t, "/uploads/", prefix)
	assert.NotNil(t, handler)
}
