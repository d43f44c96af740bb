package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	FirebaseProject   string
	DatabaseURL       string
	Environment       string
	ShadowCleanupWait time.Duration
	ReconcileInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		FirebaseProject:   getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseURL:       getEnv("FIREBASE_DATABASE_URL", ""),
		Environment:       getEnv("ENVIRONMENT", "development"),
		ShadowCleanupWait: time.Duration(getEnvAsInt64("SHADOW_CLEANUP_DELAY_SECONDS", 300)) * time.Second,
		ReconcileInterval: time.Duration(getEnvAsInt64("RECONCILE_INTERVAL_SECONDS", 60)) * time.Second,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
