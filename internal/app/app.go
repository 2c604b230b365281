package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/foliokit/folio/internal/config"
	"github.com/foliokit/folio/internal/db"
	"github.com/foliokit/folio/internal/metrics"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/service"
	"github.com/foliokit/folio/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Storage           storage.Backend
	AuthService       *service.AuthService
	ProjectService    *service.ProjectService
	BlogService       *service.BlogService
	SkillService      *service.SkillService
	ExperienceService *service.ExperienceService
	ContactService    *service.ContactService
	ProfileService    *service.ProfileService
	EmailService      *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Storage
	backend, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}
	observer, err := metrics.NewStorageObserver("folio", prometheus.DefaultRegisterer)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize metrics: %v", err)
	}

	return Assemble(cfg, database, storage.Instrumented(backend, observer)), nil
}

// Assemble wires repositories and services around an open database and a
// storage backend.
func Assemble(cfg *config.Config, database *sqlx.DB, backend storage.Backend) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	projectRepository := repository.NewProjectRepository(database)
	blogPostRepository := repository.NewBlogPostRepository(database)
	skillRepository := repository.NewSkillRepository(database)
	experienceRepository := repository.NewExperienceRepository(database)
	contactRepository := repository.NewContactRepository(database)
	profileRepository := repository.NewProfileRepository(database)

	// Services
	attachments := service.NewAttachments(backend)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ContactNotifyEmail,
		cfg.AppName,
		cfg.IsDevelopment(),
	)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Storage:           backend,
		AuthService:       service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry),
		ProjectService:    service.NewProjectService(projectRepository, attachments),
		BlogService:       service.NewBlogService(blogPostRepository, attachments),
		SkillService:      service.NewSkillService(skillRepository),
		ExperienceService: service.NewExperienceService(experienceRepository),
		ContactService:    service.NewContactService(contactRepository, emailService),
		ProfileService:    service.NewProfileService(profileRepository, attachments),
		EmailService:      emailService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
