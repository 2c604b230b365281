package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/validation"
)

const (
	localTmpDir   = ".tmp"
	thumbSuffix   = "-thumb"
	defaultPrefix = "/uploads"
)

// LocalConfig holds configuration for local disk storage
type LocalConfig struct {
	Root          string // Managed directory
	URLPrefix     string // Path prefix the files are served under
	Constraints   validation.FileConstraints
	ThumbnailSize int // Edge length in pixels, 0 disables thumbnails
}

// LocalStorage writes uploads into a flat managed directory. Every payload
// gets a random uuid name that keeps the original extension, so concurrent
// uploads never collide and need no locking.
type LocalStorage struct {
	root          string
	urlPrefix     string
	constraints   validation.FileConstraints
	thumbnailSize int
}

// NewLocalStorage creates the managed directory if needed.
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	err = os.MkdirAll(filepath.Join(abs, localTmpDir), 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	prefix := "/" + strings.Trim(cfg.URLPrefix, "/")
	if prefix == "/" {
		prefix = defaultPrefix
	}

	return &LocalStorage{
		root:          abs,
		urlPrefix:     prefix,
		constraints:   cfg.Constraints,
		thumbnailSize: cfg.ThumbnailSize,
	}, nil
}

func (s *LocalStorage) Name() string {
	return "local"
}

func (s *LocalStorage) SupportsDelete() bool {
	return true
}

// Root returns the absolute managed directory.
func (s *LocalStorage) Root() string {
	return s.root
}

// URLPrefix returns the path prefix references start with.
func (s *LocalStorage) URLPrefix() string {
	return s.urlPrefix
}

// Store writes the payload to a temp file and renames it into place, so a
// failed copy never leaves a half-written asset under a public name.
func (s *LocalStorage) Store(ctx context.Context, upload Upload) (*Asset, error) {
	err := ctx.Err()
	if err != nil {
		return nil, apperr.E(apperr.KindStorageFailure, "upload cancelled", err)
	}

	file, err := inspect(upload, s.constraints)
	if err != nil {
		return nil, err
	}

	name := uuid.New().String() + file.Extension

	tmp, err := os.CreateTemp(filepath.Join(s.root, localTmpDir), "upload-*")
	if err != nil {
		return nil, apperr.E(apperr.KindStorageFailure, "failed to store file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	reader := file.Body
	if s.constraints.MaxSize > 0 {
		reader = io.LimitReader(file.Body, s.constraints.MaxSize+1)
	}

	n, err := io.Copy(tmp, reader)
	if err != nil {
		cleanup()
		return nil, apperr.E(apperr.KindStorageFailure, "failed to store file", err)
	}
	if s.constraints.MaxSize > 0 && n > s.constraints.MaxSize {
		cleanup()
		return nil, classify(fmt.Errorf("%w: exceeds %d bytes", validation.ErrFileTooLarge, s.constraints.MaxSize))
	}
	err = tmp.Close()
	if err != nil {
		cleanup()
		return nil, apperr.E(apperr.KindStorageFailure, "failed to store file", err)
	}

	dst := filepath.Join(s.root, name)
	err = os.Rename(tmpPath, dst)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, apperr.E(apperr.KindStorageFailure, "failed to store file", err)
	}

	asset := &Asset{
		Ref:         s.ref(name),
		ContentType: file.ContentType,
		Size:        n,
	}

	if upload.Thumbnail && s.thumbnailSize > 0 && validation.IsImage(file.ContentType) {
		thumbName := thumbnailName(name)
		err = writeThumbnail(dst, filepath.Join(s.root, thumbName), filepath.Join(s.root, localTmpDir), s.thumbnailSize)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "ref", asset.Ref)
		} else {
			asset.ThumbnailRef = s.ref(thumbName)
		}
	}

	return asset, nil
}

// Delete removes the payload behind ref and its thumbnail, if any. Missing
// files are ignored.
func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	name, err := s.resolve(ref)
	if err != nil {
		return err
	}

	for _, candidate := range []string{name, thumbnailName(name)} {
		err = os.Remove(filepath.Join(s.root, candidate))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperr.E(apperr.KindStorageFailure, "failed to delete file", err)
		}
	}

	return nil
}

// Handler serves stored files. Requests for anything outside the flat
// managed directory (including the temp dir) get a 404.
func (s *LocalStorage) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.root))
	return http.StripPrefix(s.urlPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if !validName(name) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

func (s *LocalStorage) ref(name string) string {
	return s.urlPrefix + "/" + name
}

// resolve maps a reference back to a file name under the managed root.
func (s *LocalStorage) resolve(ref string) (string, error) {
	name, ok := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !ok || !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrUnmanagedReference, ref)
	}
	return name, nil
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func thumbnailName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + thumbSuffix + ext
}
