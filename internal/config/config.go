package config

import (
	"os"
	"time"
)

type Config struct {
	Environment       string
	DatabaseURL       string
	Port              string
	CORSOrigins       string
	FCMServiceAccount string
	FCMDeviceToken    string
	ReminderInterval  time.Duration
	LogLevel          string
	LogFile           string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", "goalsetter.db"),
		Port:              getEnv("PORT", "3000"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:4200"),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		FCMDeviceToken:    getEnv("FCM_DEVICE_TOKEN", ""),
		ReminderInterval:  getDuration("REMINDER_INTERVAL", time.Minute),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getDuration accepts Go duration strings ("90s", "5m"); bad values fall back.
func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
