package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Database     DatabaseConfig     `mapstructure:"database"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	OAuth        OAuthConfig        `mapstructure:"oauth"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// OpenAIConfig configures the LLM collaborator
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ConversationConfig bounds prompt assembly
type ConversationConfig struct {
	// ContextSize is the number of recent messages handed to the LLM
	ContextSize int `mapstructure:"context_size"`
	// MemoryLimit is the number of relevant memories added to the prompt
	MemoryLimit int `mapstructure:"memory_limit"`
}

// OAuthConfig configures the token vault
type OAuthConfig struct {
	// EncryptionKey is the base64-encoded 32-byte vault key. Empty enables
	// the plaintext development mode.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// LoggingConfig configures the shared logger
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Load reads configuration from config.yaml (optional) and the environment.
// Environment variables use the MAJORDOME_ prefix, e.g.
// MAJORDOME_DATABASE_DSN, MAJORDOME_OPENAI_API_KEY.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MAJORDOME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=majordome port=5432 sslmode=disable")
	v.SetDefault("openai.model", "gpt-4-turbo")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("conversation.context_size", 20)
	v.SetDefault("conversation.memory_limit", 5)
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
