package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration, read from the environment
// with an optional .env file for local development.
type Config struct {
	Port                    string
	MongoURI                string
	MongoDB                 string
	JWTSecret               string
	TokenExpiry             time.Duration
	FirebaseCredentialsPath string
	ResetTimezone           string
	PushDryRun              bool
}

// LoadConfig reads configuration from .env / environment variables.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	expiryHours := 72
	if raw := os.Getenv("TOKEN_EXPIRY_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			expiryHours = parsed
		} else {
			logrus.WithField("TOKEN_EXPIRY_HOURS", raw).Warn("Invalid token expiry, using default")
		}
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "madmed"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		TokenExpiry:             time.Duration(expiryHours) * time.Hour,
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		ResetTimezone:           getEnv("RESET_TIMEZONE", "America/Vancouver"),
		PushDryRun:              os.Getenv("PUSH_DRY_RUN") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
