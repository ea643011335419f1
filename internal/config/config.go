package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minProductionSecretLength = 32

// S3Config holds the object storage settings for CV uploads.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

// Configured reports whether enough settings are present to reach a bucket.
func (c S3Config) Configured() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration
	ResetTTL  time.Duration

	CORSOrigins    []string
	MaxUploadBytes int64

	StorageDriver string
	S3            S3Config

	RedisAddr     string
	RedisPassword string

	SMTP SMTPConfig

	QuestionProvider string
	GeminiAPIKey     string
	GeminiModel      string

	TokenCleanupSchedule string

	DBConnectAttempts int
	DBConnectDelay    time.Duration
}

// LoadDotEnv loads variables from the given files (".env" by default) without
// overriding values already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Env:         strings.ToLower(getEnv("APP_ENV", "development")),
		Port:        getEnv("PORT", "5001"),
		DatabaseURL: databaseURL(),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", 7*24*time.Hour),
		ResetTTL:  getEnvDuration("RESET_TOKEN_TTL", time.Hour),

		CORSOrigins:    splitList(getEnv("CORS_ORIGIN", "http://localhost:5173")),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "s3")),
		S3: S3Config{
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Bucket:        getEnv("S3_BUCKET", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
			UseSSL:        getEnvBool("S3_USE_SSL", true),
			PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port: getEnv("SMTP_PORT", "587"),
			User: getEnv("SMTP_USER", ""),
			Pass: getEnv("SMTP_PASS", ""),
			From: getEnv("SMTP_FROM", ""),
		},

		QuestionProvider: strings.ToLower(getEnv("QUESTION_PROVIDER", "template")),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		TokenCleanupSchedule: getEnv("TOKEN_CLEANUP_SCHEDULE", "@hourly"),

		DBConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		DBConnectDelay:    getEnvDuration("DB_CONNECT_DELAY", 2*time.Second),
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("database configuration missing: set DATABASE_URL or POSTGRES_USER/POSTGRES_PASSWORD/POSTGRES_DB")
	}
	if cfg.IsProduction() && len(cfg.JWTSecret) < minProductionSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minProductionSecretLength)
	}
	if cfg.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	switch cfg.StorageDriver {
	case "s3", "memory":
	default:
		return errors.New("unsupported STORAGE_DRIVER: " + cfg.StorageDriver + ". Currently supported: s3, memory")
	}
	switch cfg.QuestionProvider {
	case "template":
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required when QUESTION_PROVIDER=gemini")
		}
	default:
		return errors.New("unsupported QUESTION_PROVIDER: " + cfg.QuestionProvider + ". Currently supported: template, gemini")
	}
	if cfg.DBConnectAttempts < 1 {
		return errors.New("DB_CONNECT_ATTEMPTS must be at least 1")
	}
	return nil
}

// databaseURL prefers DATABASE_URL and falls back to the POSTGRES_* parts.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	user := os.Getenv("POSTGRES_USER")
	name := os.Getenv("POSTGRES_DB")
	if user == "" || name == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, os.Getenv("POSTGRES_PASSWORD")),
		Host:     getEnv("POSTGRES_HOST", "localhost") + ":" + getEnv("POSTGRES_PORT", "5432"),
		Path:     "/" + name,
		RawQuery: "sslmode=" + getEnv("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
