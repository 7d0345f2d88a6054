package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Search    SearchConfig
	Session   SessionConfig
	Timeouts  TimeoutConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name               string
	Port               string
	Environment        string
	LogFilePath        string
	HistoryLogPath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventTopic         string // in-process topic for turn events
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string
}

type AIConfig struct {
	EmbeddingProvider   string // "ollama" or "openai"
	EmbeddingModel      string
	EmbeddingDimensions int
	OllamaBaseURL       string
	LLMProvider         string // "ollama" or "openai"
	LLMModel            string
	OpenAIKey           string
	OpenAIBaseURL       string
	RouterMode          string // "keyword", "llm" or "chain"
	NarrationEnabled    bool
}

type SearchConfig struct {
	ScoreThreshold   float64
	DefaultLimit     int
	DefaultShowCount int
	PageSize         int
	PaginationMode   string // "shown" or "cursor"
	WorldlyFilter    bool
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type TimeoutConfig struct {
	Embed  time.Duration
	Search time.Duration
	LLM    time.Duration
	Router time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	Insecure     bool
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "bayan-ai-be"),
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			HistoryLogPath:     getEnv("HISTORY_LOG_PATH", "logs/history.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EventTopic:         getEnv("TURN_EVENT_TOPIC", "CHAT_TURN_COMPLETED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		Ai: AIConfig{
			EmbeddingProvider:   strings.ToLower(getEnv("EMBEDDING_PROVIDER", "ollama")),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:         strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			LLMModel:            getEnv("LLM_MODEL", "llama3"),
			OpenAIKey:           getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			RouterMode:          strings.ToLower(getEnv("ROUTER_MODE", "chain")),
			NarrationEnabled:    getEnvAsBool("NARRATION_ENABLED", true),
		},
		Search: SearchConfig{
			ScoreThreshold:   getEnvAsFloat("SCORE_THRESHOLD", 0.70),
			DefaultLimit:     getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			DefaultShowCount: getEnvAsInt("SEARCH_DEFAULT_SHOW_COUNT", 10),
			PageSize:         getEnvAsInt("PAGE_SIZE", 5),
			PaginationMode:   strings.ToLower(getEnv("PAGINATION_MODE", "shown")),
			WorldlyFilter:    getEnvAsBool("WORLDLY_FILTER", true),
		},
		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		},
		Timeouts: TimeoutConfig{
			Embed:  getEnvAsDuration("EMBED_TIMEOUT", 15*time.Second),
			Search: getEnvAsDuration("SEARCH_TIMEOUT", 15*time.Second),
			LLM:    getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			Router: getEnvAsDuration("ROUTER_TIMEOUT", 20*time.Second),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			Insecure:     getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
