package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for tests; a missing .env file is not an error.
var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays settings from the process environment. A .env file in
// the working directory is loaded first; it never overrides variables that
// are already set.
func parseEnv(config *Config) {
	loadDotEnv()

	if port, ok := getEnv("PORT"); ok {
		if strings.Contains(port, ":") {
			config.EndpointAddrHTTP = port
		} else {
			config.EndpointAddrHTTP = ":" + port
		}
	}

	envString(&config.DatabaseDSN, "DATABASE_URL")
	envDuration(&config.DBConnectTimeout, "DB_CONNECT_TIMEOUT")
	envString(&config.SecretKey, "JWT_SECRET")
	envDuration(&config.TokenValidityDuration, "TOKEN_VALIDITY")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envString(&config.Env, "APP_ENV")
	envBool(&config.Listen, "LISTEN")

	envString(&config.StorageBackend, "STORAGE_BACKEND")
	envString(&config.UploadDir, "UPLOAD_DIR")
	envInt(&config.ImageMaxDimension, "IMAGE_MAX_DIMENSION")
	envString(&config.S3AccessKey, "S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "S3_SECRET_KEY")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_ENDPOINT")

	envString(&config.SMTPHost, "SMTP_HOST")
	envString(&config.SMTPPort, "SMTP_PORT")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPass, "SMTP_PASS")
	envString(&config.QuotationRecipient, "QUOTATION_RECIPIENT")

	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envInt(&config.LoginRateLimit, "LOGIN_RATE_LIMIT")
	envDuration(&config.LoginRateWindow, "LOGIN_RATE_WINDOW")
}

func getEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func envString(dst *string, key string) {
	if v, ok := getEnv(key); ok {
		*dst = v
	}
}

// Malformed numeric values are ignored and the previous setting kept.
func envInt(dst *int, key string) {
	if v, ok := getEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(dst *bool, key string) {
	if v, ok := getEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, ok := getEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
