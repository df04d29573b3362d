package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port           string
	DatabaseDriver string // "mongo" (default) or "postgres"
	MongoURI       string
	MongoDatabase  string
	DatabaseURL    string // Postgres connection string
	RedisURL       string // Optional place cache

	JWTSecret      string // Secret key for API token signing
	CookieName     string
	CookiePassword string // Secret key for session cookie signing
	CookieSecure   bool

	S3Endpoint  string // S3-compatible image host (MinIO, AWS)
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string // Base URL images are served from
	UploadDir   string // Temporary storage for incoming uploads

	MapsAPIKey string
	LogLevel   string
	LogFormat  string

	RateLimitRPS       float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst     int     // Burst size for rate limiting
	RateLimitAuthRPS   float64 // Rate limit for login/authenticate endpoints (stricter)
	RateLimitAuthBurst int     // Burst size for auth endpoints
}

// ErrNoDatabase is returned by Validate when the selected driver has no connection string.
var ErrNoDatabase = errors.New("no database connection string configured")

func Load() *Config {
	// A missing .env is fine, the process environment is used instead.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverMongo)),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDatabase:  getEnv("MONGO_DATABASE", "explorer"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		CookieName:     getEnv("COOKIE_NAME", "explorer"),
		CookiePassword: getEnv("COOKIE_PASSWORD", ""),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "pois-images"),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),

		MapsAPIKey: getEnv("MAPS_API_KEY", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),

		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:   getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst: getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
	}
}

// Validate reports configuration that makes startup impossible.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return ErrNoDatabase
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return ErrNoDatabase
		}
	default:
		return errors.New("unknown database driver: " + c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.CookiePassword == "" {
		return errors.New("COOKIE_PASSWORD is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
