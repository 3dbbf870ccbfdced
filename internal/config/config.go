package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis
	RedisURL string

	// Sessions
	JWTSecret       string
	SessionTTLHours int

	// Gemini AI
	GeminiModel string

	// Static content
	DocsPath     string
	MetadataPath string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		RedisURL:        mustGetEnv("REDIS_URL"),
		JWTSecret:       mustGetEnv("JWT_SECRET"),
		SessionTTLHours: getEnvAsIntOrDefault("SESSION_TTL_HOURS", 72),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		DocsPath:        getEnvOrDefault("DOCS_PATH", "./docs/HELP.md"),
		MetadataPath:    getEnvOrDefault("METADATA_PATH", "./metadata.json"),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
