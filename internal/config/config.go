package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	// Timezone used to evaluate reminder send windows (lead local time).
	Timezone string

	// Reminder sweep cadence for the cron scheduler.
	SweepInterval time.Duration

	TwilioAccountSID      string
	TwilioAuthToken       string
	TwilioWhatsAppFrom    string
	GoogleCredentialsJSON string
	AgentCalendarID       string
	AdvisorCalendarID     string

	AdminJWTSecret string

	// Per-IP request rate limiting for the API surface.
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Timezone:      getEnv("TIMEZONE", "America/Mexico_City"),
		SweepInterval: getEnvAsDuration("SWEEP_INTERVAL", 5*time.Minute),

		TwilioAccountSID:      getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:       getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:    getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		AgentCalendarID:       getEnv("AGENT_CALENDAR_ID", ""),
		AdvisorCalendarID:     getEnv("ADVISOR_CALENDAR_ID", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		RateLimitPerSecond: getEnvAsInt("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
