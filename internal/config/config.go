package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port        string
	DatabaseURL string // postgres://, sqlite:// (or file:) and MySQL DSNs are accepted
	AutoMigrate bool   // Create store tables on startup
	Version     string
	LogLevel    string

	// OpenAI platform (primary when Azure is not configured, fallback otherwise)
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout int     // Per-call timeout in seconds
	OpenAIRate    float64 // Max model calls per second, 0 disables the limiter

	// Azure OpenAI
	AzureOpenAIKey           string
	AzureOpenAIEndpoint      string
	AzureOpenAIGPTDeployment string

	GenerationTimeout int // Timeout in seconds for a whole reply workflow run
	SummaryCacheTTL   int // Summary cache TTL in minutes

	SendGridAPIKey string // SendGrid API key for auto-sending approved replies
	ReplyFromEmail string // From address used for auto-sent replies
	ReplyFromName  string

	AdminUsername string // Thread browsing routes require a token when AdminPassword is set
	AdminPassword string
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:                     getEnv("PORT", "8080"),
		DatabaseURL:              getEnv("DATABASE_URL", "sqlite://mailreply.db"),
		AutoMigrate:              getEnvBool("AUTO_MIGRATE", true),
		Version:                  getEnv("VERSION", "1.0.0"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:              getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAITimeout:            getEnvInt("OPENAI_TIMEOUT", 60),
		OpenAIRate:               getEnvFloat("OPENAI_RATE_LIMIT", 5),
		AzureOpenAIKey:           os.Getenv("AZURE_OPENAI_KEY"),
		AzureOpenAIEndpoint:      os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIGPTDeployment: getEnv("AZURE_OPENAI_GPT_DEPLOYMENT", "gpt-4o"),
		GenerationTimeout:        getEnvInt("GENERATION_TIMEOUT", 180),
		SummaryCacheTTL:          getEnvInt("SUMMARY_CACHE_TTL_MINUTES", 30),
		SendGridAPIKey:           os.Getenv("SENDGRID_API_KEY"),
		ReplyFromEmail:           os.Getenv("REPLY_FROM_EMAIL"),
		ReplyFromName:            getEnv("REPLY_FROM_NAME", "Support Team"),
		AdminUsername:            getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:            os.Getenv("ADMIN_PASSWORD"),
	}

	return config
}

// UseAzureOpenAI reports whether the Azure deployment is fully configured
func (c *Config) UseAzureOpenAI() bool {
	return c.AzureOpenAIEndpoint != "" && c.AzureOpenAIKey != ""
}

// HasOpenAIFallback reports whether an OpenAI platform key is available
func (c *Config) HasOpenAIFallback() bool {
	return c.OpenAIKey != ""
}

// AuthEnabled reports whether browsing routes are protected
func (c *Config) AuthEnabled() bool {
	return c.AdminPassword != ""
}

// ModelTimeout returns the per-call model timeout
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.OpenAITimeout) * time.Second
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as boolean with a default fallback
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "mailreply").
		Str("version", c.Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
