package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration. Priority: defaults -> config
// file(s) -> OMEN_* environment variables -> CLI flags.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Scan    ScanConfig    `toml:"scan"`
	Report  ReportConfig  `toml:"report"`
	Claude  ClaudeConfig  `toml:"claude"`
	Gemini  GeminiConfig  `toml:"gemini"`
	LLM     LLMConfig     `toml:"llm"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
	// MaxUploadBytes bounds the multipart upload size.
	MaxUploadBytes int64 `toml:"max_upload_bytes" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// ScanConfig sets pipeline defaults; per-request options override them.
type ScanConfig struct {
	TopTickers          int     `toml:"top_tickers" validate:"gte=0,lte=50"`
	TopTrades           int     `toml:"top_trades" validate:"gte=0,lte=50"`
	NeutralBand         float64 `toml:"neutral_band" validate:"gte=0,lte=1"`
	LongTermHorizonDays int     `toml:"long_term_horizon_days" validate:"gte=0"`
}

type ReportConfig struct {
	Title string `toml:"title"`
}

// ClaudeConfig holds the Anthropic collaborator settings for AI summaries.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens" validate:"gt=0"`
	Timeout     string  `toml:"timeout"`
	RateLimit   string  `toml:"rate_limit"`
	Temperature float32 `toml:"temperature"`
}

// GeminiConfig holds the Google Gemini collaborator settings.
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	RateLimit   string  `toml:"rate_limit"`
	Temperature float32 `toml:"temperature"`
}

// LLMProvider selects the AI provider for generated summaries.
type LLMProvider string

const (
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderGemini LLMProvider = "gemini"
)

type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=claude gemini"`
}

// NewDefaultConfig creates a configuration with default values. Only
// user-facing settings are exposed in omen.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "localhost",
			MaxUploadBytes: 25 * 1024 * 1024, // 25MB
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Scan: ScanConfig{
			TopTickers:          0, // scope default: 3, or 5 for Long Term
			TopTrades:           3,
			NeutralBand:         0,
			LongTermHorizonDays: 60,
		},
		Report: ReportConfig{
			Title: "OMEN Smart Money Report",
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   1024,
			Timeout:     "30s",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-3-flash-preview",
			Timeout:     "30s",
			RateLimit:   "4s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
	}
}

// LoadFromFiles loads configuration from zero or more TOML files; later
// files override earlier ones, and environment variables override all
// files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("OMEN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("OMEN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("OMEN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if topTickers := os.Getenv("OMEN_SCAN_TOP_TICKERS"); topTickers != "" {
		if n, err := strconv.Atoi(topTickers); err == nil {
			config.Scan.TopTickers = n
		}
	}
	if topTrades := os.Getenv("OMEN_SCAN_TOP_TRADES"); topTrades != "" {
		if n, err := strconv.Atoi(topTrades); err == nil {
			config.Scan.TopTrades = n
		}
	}
	if band := os.Getenv("OMEN_SCAN_NEUTRAL_BAND"); band != "" {
		if b, err := strconv.ParseFloat(band, 64); err == nil {
			config.Scan.NeutralBand = b
		}
	}

	// Claude configuration; the standard ANTHROPIC_API_KEY is honored,
	// with the OMEN_ prefix taking priority.
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("OMEN_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("OMEN_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Gemini configuration
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("OMEN_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("OMEN_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	if provider := os.Getenv("OMEN_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
