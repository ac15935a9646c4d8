package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	SLA      SLAConfig
	Worker   WorkerConfig
	Auth     AuthConfig
	Files    FileConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// SLAConfig holds the SLA clock parameters
type SLAConfig struct {
	DefaultSLAHours     int // DEFAULT_SLA_HOURS: hours from submission to breach
	EscalationLeadHours int // ESCALATION_LEAD_HOURS: escalate this long before breach
}

// WorkerConfig holds background worker intervals
type WorkerConfig struct {
	EscalationSweepIntervalSeconds int // ESCALATION_SWEEP_INTERVAL_SECONDS
	ReminderPollIntervalSeconds    int // REMINDER_POLL_INTERVAL_SECONDS
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	JWTSecret        string
	TokenExpiryHours int
}

// FileConfig holds file storage settings
type FileConfig struct {
	UploadBasePath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "grievance"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		},
		SLA: SLAConfig{
			DefaultSLAHours:     getEnvInt("DEFAULT_SLA_HOURS", 72),
			EscalationLeadHours: getEnvInt("ESCALATION_LEAD_HOURS", 48),
		},
		Worker: WorkerConfig{
			EscalationSweepIntervalSeconds: getEnvInt("ESCALATION_SWEEP_INTERVAL_SECONDS", 3600),
			ReminderPollIntervalSeconds:    getEnvInt("REMINDER_POLL_INTERVAL_SECONDS", 30),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			TokenExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		},
		Files: FileConfig{
			UploadBasePath: getEnv("UPLOAD_BASE_PATH", "uploads"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
