package routes

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foliokit/folio/internal/app"
	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/handler"
	"github.com/foliokit/folio/internal/middleware"
	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	maxUpload := app.Cfg.UploadMaxBytes

	// Handlers
	health := handler.NewHealthHandler(app.DB, app.Storage.Name())
	auth := handler.NewAuthHandler(app.AuthService)
	projects := handler.NewProjectHandler(app.ProjectService, maxUpload)
	blog := handler.NewBlogHandler(app.BlogService, maxUpload)
	skills := handler.NewSkillHandler(app.SkillService)
	experience := handler.NewExperienceHandler(app.ExperienceService)
	contact := handler.NewContactHandler(app.ContactService)
	profile := handler.NewProfileHandler(app.ProfileService, maxUpload)

	requireAuth := middleware.RequireAuth(app.AuthService)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Uploaded files (local storage only, remote references are absolute URLs)
	prefix, files, ok := storage.FileServer(app.Storage)
	if ok {
		mux.Handle("GET "+prefix, files)
	}

	// ============================================================================
	// AUTH
	// ============================================================================

	proxies := middleware.ParseTrustedProxies(app.Cfg.TrustedProxies)
	authLimiter := middleware.RateLimitAuth(proxies)

	mux.HandleFunc("POST /auth/login", authLimiter(auth.Login))
	mux.HandleFunc("POST /auth/register", authLimiter(auth.Register))
	mux.HandleFunc("GET /auth/verify", requireAuth(auth.Verify))

	// ============================================================================
	// CONTENT (public reads, admin writes)
	// ============================================================================

	// Projects
	mux.HandleFunc("GET /projects", projects.List)
	mux.HandleFunc("GET /projects/{id}", projects.Get)
	mux.HandleFunc("POST /projects", requireAuth(projects.Create))
	mux.HandleFunc("PUT /projects/{id}", requireAuth(projects.Update))
	mux.HandleFunc("DELETE /projects/{id}", requireAuth(projects.Delete))

	// Blog
	mux.HandleFunc("GET /blog", blog.List)
	mux.HandleFunc("GET /blog/admin/all", requireAuth(blog.ListAll))
	mux.HandleFunc("GET /blog/{id}", blog.Get)
	mux.HandleFunc("POST /blog", requireAuth(blog.Create))
	mux.HandleFunc("PUT /blog/{id}", requireAuth(blog.Update))
	mux.HandleFunc("DELETE /blog/{id}", requireAuth(blog.Delete))

	// Skills
	mux.HandleFunc("GET /skills", skills.List)
	mux.HandleFunc("GET /skills/{id}", skills.Get)
	mux.HandleFunc("POST /skills", requireAuth(skills.Create))
	mux.HandleFunc("PUT /skills/{id}", requireAuth(skills.Update))
	mux.HandleFunc("DELETE /skills/{id}", requireAuth(skills.Delete))

	// Experience
	mux.HandleFunc("GET /experience", experience.List)
	mux.HandleFunc("GET /experience/{id}", experience.Get)
	mux.HandleFunc("POST /experience", requireAuth(experience.Create))
	mux.HandleFunc("PUT /experience/{id}", requireAuth(experience.Update))
	mux.HandleFunc("DELETE /experience/{id}", requireAuth(experience.Delete))

	// Contact (public submit, admin inbox)
	contactLimiter := middleware.RateLimit(10, 15*time.Minute, proxies)
	mux.HandleFunc("POST /contact", contactLimiter(contact.Submit))
	mux.HandleFunc("GET /contact", requireAuth(contact.List))
	mux.HandleFunc("GET /contact/{id}", requireAuth(contact.Get))
	mux.HandleFunc("PATCH /contact/{id}", requireAuth(contact.MarkRead))
	mux.HandleFunc("DELETE /contact/{id}", requireAuth(contact.Delete))

	// Profile
	mux.HandleFunc("GET /profile", profile.Get)
	mux.HandleFunc("PUT /profile", requireAuth(profile.Save))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, apperr.NotFound("Route not found"))
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.SecurityHeaders,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
	)

	return handler
}
