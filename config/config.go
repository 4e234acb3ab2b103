package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the application.
type Config struct {
	ServerPort   int
	JWTSecretKey string

	// MongoURL empty means the server starts on the in-memory store.
	MongoURL string
	DBName   string

	CORSOrigins []string

	ReferentSecretCode string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// EmailFallbackDir receives outbound mail bodies when no SMTP transport
	// is configured or delivery fails.
	EmailFallbackDir string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// AdminEmail and AdminPassword seed the initial admin account. Both must
	// be set or no account is created.
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		smtpPort, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT environment variable: %w", err)
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "volley_club"
	}

	fallbackDir := os.Getenv("EMAIL_FALLBACK_DIR")
	if fallbackDir == "" {
		fallbackDir = "outbox"
	}

	cfg := &Config{
		ServerPort:         port,
		JWTSecretKey:       jwtKey,
		MongoURL:           os.Getenv("MONGO_URL"),
		DBName:             dbName,
		CORSOrigins:        origins,
		ReferentSecretCode: os.Getenv("REFERENT_SECRET_CODE"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           smtpPort,
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		SMTPFrom:           os.Getenv("SMTP_FROM"),
		EmailFallbackDir:   fallbackDir,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}

	return cfg, nil
}
