package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backend selectors.
const (
	BackendPostgres = "postgres"
	BackendLocal    = "local"
)

type Config struct {
	Port               string
	StoreBackend       string
	DatabaseURL        string
	DataDir            string
	CorsAllowedOrigins []string
	PageSize           int

	JWTSecret          string
	AdminUsername      string
	AdminPasswordHash  string
	AdminPasswordSalt  string
	LoginMaxAttempts   int
	LoginLockout       time.Duration

	UploadURL    string
	UploadPreset string

	MailURL        string
	MailServiceID  string
	MailTemplateID string
	MailUserID     string
	MailTo         string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		StoreBackend:       getEnv("STORE_BACKEND", BackendLocal),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DataDir:            getEnv("DATA_DIR", "data"),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PageSize:           getEnvInt("PAGE_SIZE", 6),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminPasswordSalt:  getEnv("ADMIN_PASSWORD_SALT", ""),
		LoginMaxAttempts:   getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockout:       time.Duration(getEnvInt("LOGIN_LOCKOUT_MINUTES", 15)) * time.Minute,
		UploadURL:          getEnv("UPLOAD_URL", ""),
		UploadPreset:       getEnv("UPLOAD_PRESET", "blog_uploads"),
		MailURL:            getEnv("MAIL_URL", ""),
		MailServiceID:      getEnv("MAIL_SERVICE_ID", ""),
		MailTemplateID:     getEnv("MAIL_TEMPLATE_ID", ""),
		MailUserID:         getEnv("MAIL_USER_ID", ""),
		MailTo:             getEnv("MAIL_TO", ""),
	}

	if cfg.StoreBackend != BackendPostgres && cfg.StoreBackend != BackendLocal {
		log.Fatalf("STORE_BACKEND must be %q or %q", BackendPostgres, BackendLocal)
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required when STORE_BACKEND=postgres")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" || cfg.AdminPasswordSalt == "" {
		log.Fatal("ADMIN_USERNAME, ADMIN_PASSWORD_HASH and ADMIN_PASSWORD_SALT are required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
