package environments

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Solapi   SolapiConfig
	Send     SendConfig
	Template TemplateConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// SessionConfig configures the valkey-backed session store.
type SessionConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type SolapiConfig struct {
	APIKey      string
	APISecret   string
	SenderPhone string
	BaseURL     string
	Timeout     time.Duration
}

type SendConfig struct {
	// MaxConcurrent bounds how many recipients are dispatched in parallel
	// during a bulk send.
	MaxConcurrent int
}

type TemplateConfig struct {
	MaxTemplates int
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "solapi"),
			Password: GetEnv("DB_PASSWORD", "solapi123"),
			DBName:   GetEnv("DB_NAME", "solapi_sms"),
		},
		Session: SessionConfig{
			Host:     GetEnv("SESSION_REDIS_HOST", "localhost"),
			Port:     GetEnv("SESSION_REDIS_PORT", "6379"),
			Password: GetEnv("SESSION_REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("SESSION_REDIS_DB", 0),
			TTL:      time.Duration(GetEnvAsInt("SESSION_EXPIRE_HOURS", 24)) * time.Hour,
		},
		Solapi: SolapiConfig{
			APIKey:      GetEnv("SOLAPI_API_KEY", ""),
			APISecret:   GetEnv("SOLAPI_API_SECRET", ""),
			SenderPhone: GetEnv("SOLAPI_SENDER_PHONE", ""),
			BaseURL:     GetEnv("SOLAPI_BASE_URL", "https://api.solapi.com"),
			Timeout:     time.Duration(GetEnvAsInt("SOLAPI_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Send: SendConfig{
			MaxConcurrent: GetEnvAsInt("SEND_MAX_CONCURRENT", 5),
		},
		Template: TemplateConfig{
			MaxTemplates: GetEnvAsInt("MAX_TEMPLATES", 10),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
