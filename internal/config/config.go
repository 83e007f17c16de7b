package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// GitHub App configuration
	GitHub GitHubConfig

	// LLM provider configuration
	LLM LLMConfig

	// Documentation run configuration
	Docs DocsConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int
}

// GitHubConfig holds GitHub App credentials and API settings
type GitHubConfig struct {
	AppID             int64
	PrivateKey        []byte
	WebhookSecret     string
	Token             string // Static token; replaces App auth for local development
	APIURL            string
	RequestsPerSecond float64
}

// LLMConfig holds documentation generator settings
type LLMConfig struct {
	Provider string // "openai" or "gemini"
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// DocsConfig holds per-run limits and the commit identity
type DocsConfig struct {
	CommitActor            string
	MaxConcurrentFileReads int
	MaxFiles               int
	MaxFileChars           int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	// Try to load .env file (ignore errors - it's optional)
	_ = godotenv.Load(".env")

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "openai"))

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", ""),
			Port:               getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 3000)),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		GitHub: GitHubConfig{
			AppID:             getEnvAsInt64("GITHUB_APP_ID", 0),
			WebhookSecret:     getEnv("GITHUB_WEBHOOK_SECRET", ""),
			Token:             getEnv("GITHUB_TOKEN", ""),
			APIURL:            getEnv("GITHUB_API_URL", ""),
			RequestsPerSecond: getEnvAsFloat("GITHUB_REQUESTS_PER_SECOND", 10),
		},
		LLM: LLMConfig{
			Provider: provider,
			Timeout:  getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Docs: DocsConfig{
			CommitActor:            strings.TrimSpace(getEnv("COMMIT_ACTOR", "doc-agent-github-app")),
			MaxConcurrentFileReads: getEnvAsInt("MAX_CONCURRENT_FILE_READS", 8),
			MaxFiles:               getEnvAsInt("DOCS_MAX_FILES", 80),
			MaxFileChars:           getEnvAsInt("DOCS_MAX_FILE_CHARS", 9000),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	switch provider {
	case "gemini":
		cfg.LLM.APIKey = getEnv("GEMINI_API_KEY", "")
		cfg.LLM.Model = getEnv("GEMINI_MODEL", "gemini-2.5-flash")
		cfg.LLM.BaseURL = getEnv("GEMINI_BASE_URL", "")
	default:
		cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", "")
		cfg.LLM.Model = getEnv("OPENAI_MODEL", "gpt-4.1-mini")
		cfg.LLM.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	}

	key, err := loadPrivateKey()
	if err != nil {
		return nil, err
	}
	cfg.GitHub.PrivateKey = key

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.GitHub.WebhookSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET is required")
	}

	if c.GitHub.Token == "" {
		if c.GitHub.AppID <= 0 {
			return fmt.Errorf("GITHUB_APP_ID is required")
		}
		if len(c.GitHub.PrivateKey) == 0 {
			return fmt.Errorf("GITHUB_PRIVATE_KEY or GITHUB_PRIVATE_KEY_PATH is required")
		}
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %q", c.LLM.Provider)
	}

	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	if c.Docs.MaxConcurrentFileReads < 1 {
		return fmt.Errorf("MAX_CONCURRENT_FILE_READS must be at least 1")
	}

	if c.Docs.MaxFiles < 1 || c.Docs.MaxFileChars < 1 {
		return fmt.Errorf("DOCS_MAX_FILES and DOCS_MAX_FILE_CHARS must be positive")
	}

	if strings.TrimSpace(c.Docs.CommitActor) == "" {
		return fmt.Errorf("COMMIT_ACTOR must not be blank")
	}

	return nil
}

// UsesAppAuth reports whether runs authenticate as a GitHub App installation
func (g *GitHubConfig) UsesAppAuth() bool {
	return g.Token == ""
}

// Address returns the server address in the format host:port
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// loadPrivateKey prefers the inline key, expanding escaped newlines
func loadPrivateKey() ([]byte, error) {
	if inline := os.Getenv("GITHUB_PRIVATE_KEY"); inline != "" {
		return []byte(strings.ReplaceAll(inline, `\n`, "\n")), nil
	}

	path := os.Getenv("GITHUB_PRIVATE_KEY_PATH")
	if path == "" {
		return nil, nil
	}

	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read GITHUB_PRIVATE_KEY_PATH: %w", err)
	}
	return key, nil
}

// Helper functions to get environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
