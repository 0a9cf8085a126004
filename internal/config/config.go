package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	Generation GenerationConfig
	Prompt     PromptConfig
	CTA        CTAConfig
	Mail       MailConfig
	Database   DatabaseConfig
	Sealing    SealingConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	MaxFileSize int64
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

type GenerationConfig struct {
	MaxAttempts       int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	Timeout           time.Duration
}

type PromptConfig struct {
	// MaxDocumentChars bounds the résumé text placed in the prompt. 0 disables the bound.
	MaxDocumentChars int
}

type CTAConfig struct {
	Label string
	URL   string
}

type MailConfig struct {
	Provider  string
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	SESRegion string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SealingConfig struct {
	Key string
	TTL time.Duration
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("ENV", "development"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.2),
		},
		Generation: GenerationConfig{
			MaxAttempts:       getEnvAsInt("GENERATION_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("GENERATION_RETRY_INITIAL_DELAY", "1s"),
			RetryMaxDelay:     getEnvAsDuration("GENERATION_RETRY_MAX_DELAY", "8s"),
			Timeout:           getEnvAsDuration("GENERATION_TIMEOUT", "120s"),
		},
		Prompt: PromptConfig{
			MaxDocumentChars: getEnvAsInt("PROMPT_MAX_DOCUMENT_CHARS", 40000),
		},
		CTA: CTAConfig{
			Label: getEnv("DAP_CTA_LABEL", "Découvrir mon plan de formation DAP"),
			URL:   getEnv("DAP_CTA_URL", "https://exemple.com/dap"),
		},
		Mail: MailConfig{
			Provider:  strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			User:      getEnv("SMTP_USER", ""),
			Password:  getEnv("SMTP_PASS", ""),
			From:      getEnv("SMTP_FROM", "no-reply@dap-declic-pro.local"),
			SESRegion: getEnv("SES_REGION", ""),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "declic_pro"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Sealing: SealingConfig{
			Key: getEnv("RESULT_SEALING_KEY", ""),
			TTL: getEnvAsDuration("RESULT_TTL", "2h"),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 10),
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// MailConfigured reports whether the selected mail transport has everything it needs.
func (c *Config) MailConfigured() bool {
	switch c.Mail.Provider {
	case "ses":
		return c.Mail.SESRegion != ""
	default:
		return c.Mail.Host != "" && c.Mail.User != "" && c.Mail.Password != ""
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
