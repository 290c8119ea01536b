package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the MedicAssist server.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Redis  RedisConfig
	Places PlacesConfig
	AI     AIConfig
}

type ServerConfig struct {
	Port            int
	Env             string
	RateLimitPerMin int
}

type StoreConfig struct {
	DataFile string
}

type RedisConfig struct {
	// URL is optional. When empty the server uses an in-process cache,
	// which scopes audio memoization to the server session.
	URL string
}

type PlacesConfig struct {
	BaseURL      string
	APIKey       string
	RadiusMeters int
	Timeout      time.Duration
}

type AIConfig struct {
	Provider         string
	InferenceTimeout time.Duration
	OpenAI           OpenAIConfig
}

type OpenAIConfig struct {
	APIKey   string
	Model    string
	TTSModel string
	TTSVoice string
}

var validProviders = map[string]bool{
	"openai": true,
	"mock":   true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            envInt("MEDICASSIST_PORT", 8080),
			Env:             envString("MEDICASSIST_ENV", "development"),
			RateLimitPerMin: envInt("RATE_LIMIT_PER_MIN", 60),
		},
		Store: StoreConfig{
			DataFile: envString("MEDICASSIST_DATA_FILE", "patients.json"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Places: PlacesConfig{
			BaseURL:      envString("PLACES_BASE_URL", "https://maps.googleapis.com"),
			APIKey:       os.Getenv("PLACES_API_KEY"),
			RadiusMeters: envInt("PLACES_RADIUS_METERS", 5000),
			Timeout:      envDuration("PLACES_TIMEOUT", 10*time.Second),
		},
		AI: AIConfig{
			Provider:         os.Getenv("AI_PROVIDER"),
			InferenceTimeout: envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 60*time.Second),
			OpenAI: OpenAIConfig{
				APIKey:   os.Getenv("OPENAI_API_KEY"),
				Model:    envString("OPENAI_MODEL", "gpt-4o-mini"),
				TTSModel: envString("OPENAI_TTS_MODEL", "tts-1"),
				TTSVoice: envString("OPENAI_TTS_VOICE", "alloy"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Store.DataFile == "" {
		return fmt.Errorf("MEDICASSIST_DATA_FILE must not be empty")
	}

	if !strings.HasPrefix(c.Places.BaseURL, "http://") && !strings.HasPrefix(c.Places.BaseURL, "https://") {
		return fmt.Errorf("PLACES_BASE_URL must start with http:// or https://, got %q", c.Places.BaseURL)
	}
	if c.Places.APIKey == "" {
		return fmt.Errorf("PLACES_API_KEY is required")
	}
	if c.Places.RadiusMeters <= 0 {
		return fmt.Errorf("PLACES_RADIUS_METERS must be positive, got %d", c.Places.RadiusMeters)
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of openai, mock; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
