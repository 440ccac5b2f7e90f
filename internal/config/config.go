package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
// It is resolved once in main and handed to every component that needs it.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	JWTIssuer       string
	TokenTTLSeconds int64
	UploadDir       string
	MaxUploadBytes  int64
	S3Bucket        string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BaseEndpoint  string
	CorsOrigins     []string
}

func Load() Config {
	return Config{
		DatabaseURL:     mustEnv("DATABASE_URL"),
		JWTSecret:       mustEnv("JWT_SECRET"),
		JWTIssuer:       envOr("JWT_ISSUER", "dashboard"),
		TokenTTLSeconds: int64(envOrInt("TOKEN_TTL_SECONDS", 604800)),
		UploadDir:       envOr("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:  int64(envOrInt("MAX_UPLOAD_MB", 20)) << 20,
		S3Bucket:        envOr("S3_BUCKET_NAME", ""),
		S3Region:        envOr("S3_REGION", ""),
		S3AccessKey:     envOr("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:     envOr("AWS_SECRET_ACCESS_KEY", ""),
		S3BaseEndpoint:  envOr("S3_BASE_ENDPOINT", ""),
		CorsOrigins:     parseCSV(envOr("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// S3Configured reports whether the object-storage backend has everything it
// needs. Evaluated per upload, not cached.
func (c Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3Region != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
