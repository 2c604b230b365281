package routes_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliokit/folio/internal/app"
	"github.com/foliokit/folio/internal/config"
	"github.com/foliokit/folio/internal/db"
	"github.com/foliokit/folio/internal/routes"
	"github.com/foliokit/folio/internal/storage"
	"github.com/foliokit/folio/internal/validation"
)

type server struct {
	handler http.Handler
	backend *storage.LocalStorage
}

func newServer(t *testing.T, maxUpload int64) *server {
	t.Helper()

	cfg := &config.Config{
		AppName:            "folio",
		AppEnv:             "test",
		JWTSecret:          "routes-test-secret",
		JWTExpiry:          time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		UploadMaxBytes:     maxUpload,
	}

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	backend, err := storage.NewLocalStorage(storage.LocalConfig{
		Root:        t.TempDir(),
		URLPrefix:   "/uploads",
		Constraints: validation.AttachmentConstraints(maxUpload),
	})
	require.NoError(t, err)

	return &server{
		handler: routes.SetupRoutes(app.Assemble(cfg, database, backend)),
		backend: backend,
	}
}

func (s *server) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *server) files(t *testing.T) []string {
	t.Helper()
	des, err := os.ReadDir(s.backend.Root())
	require.NoError(t, err)
	var names []string
	for _, de := range des {
		if !de.IsDir() {
			names = append(names, de.Name())
		}
	}
	return names
}

// token registers the admin and returns a bearer token.
func (s *server) token(t *testing.T) string {
	t.Helper()
	body := `{"username":"ada","email":"ada@example.com","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func pngData(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < size; i++ {
		img.Set(i, size-1-i, color.RGBA{R: 30, G: 120, B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func projectForm(t *testing.T, technologies string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Folio"))
	require.NoError(t, mw.WriteField("description", "Portfolio backend"))
	require.NoError(t, mw.WriteField("category", "Web"))
	require.NoError(t, mw.WriteField("technologies", technologies))
	if image != nil {
		part, err := mw.CreateFormFile("image", "cover.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

type projectBody struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Technologies []string `json:"technologies"`
	Image        string   `json:"image"`
}

type errorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func TestCreateProjectWithImage(t *testing.T) {
	for _, technologies := range []string{"React, Node", `["React","Node"]`} {
		t.Run(technologies, func(t *testing.T) {
			s := newServer(t, 1<<20)
			token := s.token(t)

			body, contentType := projectForm(t, technologies, pngData(t, 32))
			req := httptest.NewRequest(http.MethodPost, "/projects", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := s.do(t, req)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var created projectBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
			assert.Equal(t, []string{"React", "Node"}, created.Technologies)
			require.True(t, strings.HasPrefix(created.Image, "/uploads/"))

			rec = s.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+created.ID, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			var fetched projectBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
			assert.Equal(t, created.Image, fetched.Image)
			assert.Equal(t, []string{"React", "Node"}, fetched.Technologies)

			// The reference is servable.
			rec = s.do(t, httptest.NewRequest(http.MethodGet, created.Image, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteWithoutTokenHasNoSideEffects(t *testing.T) {
	s := newServer(t, 1<<20)

	body, contentType := projectForm(t, "React, Node", pngData(t, 32))
	req := httptest.NewRequest(http.MethodPost, "/projects", body)
	req.Header.Set("Content-Type", contentType)
	rec := s.do(t, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var e errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "unauthorized", e.Kind)
	assert.Empty(t, s.files(t))

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestInvalidTokenIsRejected(t *testing.T) {
	s := newServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.token(t)
	req = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ada"`)
}

func TestOversizeImageCreatesNothing(t *testing.T) {
	s := newServer(t, 64)
	token := s.token(t)

	body, contentType := projectForm(t, "React, Node", pngData(t, 64))
	req := httptest.NewRequest(http.MethodPost, "/projects", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(t, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	assert.Empty(t, s.files(t))
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/projects", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRegistrationClosesAfterFirstAdmin(t *testing.T) {
	s := newServer(t, 1<<20)
	s.token(t)

	body := `{"username":"grace","email":"grace@example.com","password":"another long password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(t, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDraftBlogPostIsForbidden(t *testing.T) {
	s := newServer(t, 1<<20)
	token := s.token(t)

	req := httptest.NewRequest(http.MethodPost, "/blog", strings.NewReader(`{"title":"Draft","content":"*soon*","tags":"go, http"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var post struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, []string{"go", "http"}, post.Tags)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/blog/"+post.ID, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	s := newServer(t, 1<<20)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var e errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "not_found", e.Kind)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHealthz(t *testing.T) {
	s := newServer(t, 1<<20)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"local"`)
}
