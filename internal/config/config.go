package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "MOOD_RECOMMENDER_CONFIG"
	serverAddrEnv   = "SERVER_ADDR"
	logLevelEnv     = "LOG_LEVEL"
	tmdbAPIKeyEnv   = "TMDB_API_KEY"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	TMDB    TMDBConfig    `yaml:"tmdb"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TMDBConfig defines how to contact the movie metadata provider.
// The API key comes from the environment, never from source.
type TMDBConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	ImageBaseURL string `yaml:"imageBaseUrl"`
	Language     string `yaml:"language"`
	APIKey       string `yaml:"apiKey"`
}

// OpenAIConfig defines how to contact the language-model provider.
type OpenAIConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	Model        string  `yaml:"model"`
	APIKey       string  `yaml:"apiKey"`
	SystemPrompt string  `yaml:"systemPrompt"`
	Temperature  float64 `yaml:"temperature"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(tmdbAPIKeyEnv); v != "" {
		c.TMDB.APIKey = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.TMDB.BaseURL != "" {
		base.TMDB.BaseURL = override.TMDB.BaseURL
	}
	if override.TMDB.ImageBaseURL != "" {
		base.TMDB.ImageBaseURL = override.TMDB.ImageBaseURL
	}
	if override.TMDB.Language != "" {
		base.TMDB.Language = override.TMDB.Language
	}
	if override.TMDB.APIKey != "" {
		base.TMDB.APIKey = override.TMDB.APIKey
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.SystemPrompt != "" {
		base.OpenAI.SystemPrompt = override.OpenAI.SystemPrompt
	}
	if override.OpenAI.Temperature != 0 {
		base.OpenAI.Temperature = override.OpenAI.Temperature
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
			APIKey:       "",
		},
		OpenAI: OpenAIConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You are a concise movie recommendation assistant.",
			Temperature:  0.6,
		},
	}
}
