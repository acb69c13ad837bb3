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
	App          AppConfig
	Database     DatabaseConfig
	Session      SessionConfig
	Router       RouterConfig
	Integrations IntegrationConfig
	Admin        AdminConfig
	Bus          BusConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LogLevel           string
	CorsAllowedOrigins string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	// Empty disables persisted intentions and turn history.
	Connection string
}

// SessionConfig selects where caller sessions live.
type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type RouterConfig struct {
	MinConfidence  float64
	AmbiguityFloor float64
	SingleIntent   float64
	CloseMargin    float64
	MaxCandidates  int
}

type IntegrationConfig struct {
	PrefeituraBaseURL string
	PrefeituraToken   string
	CalendarBaseURL   string
	CalendarToken     string
	Timeout           time.Duration
}

type AdminConfig struct {
	Username     string
	PasswordHash string // bcrypt
	JWTSecret    string
	TokenTTL     time.Duration
}

type BusConfig struct {
	NatsURL        string
	InboundSubject string
	Durable        string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/attendant.log"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Store: strings.ToLower(getEnv("SESSION_STORE", "memory")),
			TTL:   getEnvAsDuration("SESSION_TTL", time.Hour),
		},
		Router: RouterConfig{
			MinConfidence:  getEnvAsFloat("ROUTER_MIN_CONFIDENCE", 30),
			AmbiguityFloor: getEnvAsFloat("ROUTER_AMBIGUITY_FLOOR", 50),
			SingleIntent:   getEnvAsFloat("ROUTER_SINGLE_INTENT", 70),
			CloseMargin:    getEnvAsFloat("ROUTER_CLOSE_MARGIN", 20),
			MaxCandidates:  getEnvAsInt("ROUTER_MAX_CANDIDATES", 3),
		},
		Integrations: IntegrationConfig{
			PrefeituraBaseURL: getEnv("PREFEITURA_BASE_URL", "http://localhost:8081"),
			PrefeituraToken:   getEnv("PREFEITURA_TOKEN", ""),
			CalendarBaseURL:   getEnv("CALENDAR_BASE_URL", "http://localhost:8082"),
			CalendarToken:     getEnv("CALENDAR_TOKEN", ""),
			Timeout:           getEnvAsDuration("INTEGRATION_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", "default_secret"),
			TokenTTL:     getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Bus: BusConfig{
			NatsURL:        getEnv("NATS_URL", ""),
			InboundSubject: getEnv("NATS_INBOUND_SUBJECT", "events.INBOUND_MESSAGE"),
			Durable:        getEnv("NATS_DURABLE", "attendant-inbound"),
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
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
