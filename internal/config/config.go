package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// CORS (comma separated origins of the front-end)
	CORSAllowedOrigins []string
	// TrustedProxies lists reverse proxy addresses or CIDRs whose
	// X-Forwarded-For headers identify the client for rate limiting.
	TrustedProxies []string

	// Email (contact notifications)
	EmailFrom          string
	ResendAPIKey       string
	ContactNotifyEmail string

	// Observability (optional)
	SentryDSN string

	// Uploads
	StorageDriver   string // "local" or "s3"
	UploadDir       string // Local: managed root directory
	UploadURLPrefix string // Local: path prefix the files are served under
	UploadMaxBytes  int64
	ThumbnailSize   int

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PublicURL string // Optional: base URL objects are reachable at (CDN)
	S3KeyPrefix string
	S3PathStyle bool // Required for MinIO and some S3-compatible services
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Folio"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/folio.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustedProxies:     envList("TRUSTED_PROXIES", nil),

		// Email (RESEND_API_KEY optional, notifications are logged without it)
		EmailFrom:          envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:       envString("RESEND_API_KEY", ""),
		ContactNotifyEmail: envString("CONTACT_NOTIFY_EMAIL", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Uploads
		StorageDriver:   envString("STORAGE_DRIVER", StorageDriverLocal),
		UploadDir:       envString("UPLOAD_DIR", "./data/uploads"),
		UploadURLPrefix: envString("UPLOAD_URL_PREFIX", "/uploads"),
		UploadMaxBytes:  envInt64("UPLOAD_MAX_BYTES", 10<<20), // 10 MiB
		ThumbnailSize:   int(envInt64("THUMBNAIL_SIZE", 200)),

		// Storage (only read when STORAGE_DRIVER=s3)
		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
		S3KeyPrefix: envString("S3_KEY_PREFIX", "uploads"),
		S3PathStyle: envBool("S3_PATH_STYLE", true),
	}

	if cfg.StorageDriver == StorageDriverS3 {
		validateS3(cfg)
	}

	return cfg
}

// validateS3 ensures the remote object store is fully configured before the
// server starts accepting uploads.
func validateS3(cfg *Config) {
	missing := []string{}
	if cfg.S3Region == "" {
		missing = append(missing, "S3_REGION")
	}
	if cfg.S3Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if cfg.S3AccessKey == "" {
		missing = append(missing, "S3_ACCESS_KEY")
	}
	if cfg.S3SecretKey == "" {
		missing = append(missing, "S3_SECRET_KEY")
	}
	if len(missing) > 0 {
		slog.Error("s3 storage requires configuration", "missing", missing,
			"hint", "set STORAGE_DRIVER=local to store uploads on disk")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,

		DBDriver: c.DBDriver,

		CORSAllowedOrigins: c.CORSAllowedOrigins,
		TrustedProxies:     c.TrustedProxies,

		EmailFrom: c.EmailFrom,

		StorageDriver:   c.StorageDriver,
		UploadURLPrefix: c.UploadURLPrefix,
		UploadMaxBytes:  c.UploadMaxBytes,
		ThumbnailSize:   c.ThumbnailSize,

		S3Region:    c.S3Region,
		S3Bucket:    c.S3Bucket,
		S3Endpoint:  c.S3Endpoint,
		S3PublicURL: c.S3PublicURL,
		S3PathStyle: c.S3PathStyle,
	}
}
