package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// MongoDB Configuration
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Worker Pool Configuration
	WorkerPoolSize int
	JobQueueSize   int

	// Pipeline Configuration
	ScratchDir        string
	MediaDir          string
	TruncateWordLimit int
	DefaultModel      string
	CacheTTL          time.Duration
	JobTTL            time.Duration

	// Summarizer / Transcriber Backend
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	TranscribeModel string
	BackendTimeout  time.Duration

	// Remote Media Fetch
	FetchTimeout  time.Duration
	MaxFetchBytes int64

	// Maintenance Configuration
	MaintenanceEnabled  bool
	MaintenanceSchedule string

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		// MongoDB
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/briefd?authSource=admin"),
		MongoDatabase: getEnv("MONGO_DATABASE", "briefd"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 60) * time.Second,

		// Worker Pool
		WorkerPoolSize: getIntEnv("WORKER_POOL_SIZE", 4),
		JobQueueSize:   getIntEnv("JOB_QUEUE_SIZE", 64),

		// Pipeline
		ScratchDir:        getEnv("SCRATCH_DIR", os.TempDir()),
		MediaDir:          getEnv("MEDIA_DIR", "./media"),
		TruncateWordLimit: getIntEnv("TRUNCATE_WORD_LIMIT", 400),
		DefaultModel:      getEnv("DEFAULT_MODEL", "t5-small"),
		CacheTTL:          getDurationEnv("CACHE_TTL_SEC", 172800) * time.Second,
		JobTTL:            getDurationEnv("JOB_TTL_SEC", 86400) * time.Second,

		// Backend
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		TranscribeModel: getEnv("TRANSCRIBE_MODEL", "whisper-1"),
		BackendTimeout:  getDurationEnv("BACKEND_TIMEOUT_SEC", 120) * time.Second,

		// Remote media fetch
		FetchTimeout:  getDurationEnv("FETCH_TIMEOUT_SEC", 60) * time.Second,
		MaxFetchBytes: getInt64Env("MAX_FETCH_BYTES", 512*1024*1024),

		// Maintenance
		MaintenanceEnabled:  getBoolEnv("MAINTENANCE_ENABLED", true),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@every 10m"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
