// Package config loads quizgen settings from a YAML file and QUIZGEN_*
// environment variables. Provider API keys are read from the environment
// only.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizgen/internal/endpoint"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Config is the full application configuration.
type Config struct {
	// DB is the SQLite database path. Empty uses store.DefaultDBPath.
	DB string `yaml:"db"`

	Endpoint   EndpointConfig   `yaml:"endpoint"`
	Generation GenerationConfig `yaml:"generation"`
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Estimate   EstimateConfig   `yaml:"estimate"`
}

// EndpointConfig locates the remote generation endpoint. With no URL the
// generator runs the endpoint in-process against the configured provider.
type EndpointConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GenerationConfig tunes the client-side generator.
type GenerationConfig struct {
	MaxContentChars  int `yaml:"max_content_chars"`
	MaxAttempts      int `yaml:"max_attempts"`
	BackoffMs        int `yaml:"backoff_ms"`
	DefaultQuestions int `yaml:"default_questions"`
	AuditQueueSize   int `yaml:"audit_queue_size"`
}

// ServerConfig configures `quizgen serve`.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	Token             string  `yaml:"token"`
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

// LLMConfig selects the provider used by the in-process endpoint.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// EstimateConfig sets the model priced by `quizgen estimate`.
type EstimateConfig struct {
	Model string `yaml:"model"`
}

// Default returns the built-in configuration.
func Default() Config {
	gen := questiongen.DefaultConfig()
	handler := endpoint.DefaultHandlerConfig()
	return Config{
		Endpoint: EndpointConfig{TimeoutSeconds: 120},
		Generation: GenerationConfig{
			MaxContentChars:  gen.MaxContentChars,
			MaxAttempts:      gen.MaxAttempts,
			BackoffMs:        int(gen.BackoffUnit / time.Millisecond),
			DefaultQuestions: 10,
			AuditQueueSize:   64,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerMinute: handler.RequestsPerMinute,
			Burst:             handler.Burst,
		},
		Estimate: EstimateConfig{Model: llm.DefaultPricingModel},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/quizgen/config.yaml, falling back
// to ~/.config/quizgen/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "quizgen", "config.yaml"), nil
}

// Load reads the configuration. path is the --config flag; when empty
// QUIZGEN_CONFIG and then DefaultPath are tried. An explicitly named file
// must exist; the default file is optional. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("QUIZGEN_CONFIG")
	}
	if path == "" {
		explicit = false
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"QUIZGEN_DB", &cfg.DB},
		{"QUIZGEN_ENDPOINT_URL", &cfg.Endpoint.URL},
		{"QUIZGEN_ENDPOINT_TOKEN", &cfg.Endpoint.Token},
		{"QUIZGEN_SERVER_ADDR", &cfg.Server.Addr},
		{"QUIZGEN_SERVER_TOKEN", &cfg.Server.Token},
		{"QUIZGEN_ESTIMATE_MODEL", &cfg.Estimate.Model},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"QUIZGEN_MAX_CONTENT_CHARS", &cfg.Generation.MaxContentChars},
		{"QUIZGEN_MAX_ATTEMPTS", &cfg.Generation.MaxAttempts},
		{"QUIZGEN_BACKOFF_MS", &cfg.Generation.BackoffMs},
	}
	for _, i := range ints {
		v := os.Getenv(i.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = n
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	g := c.Generation
	if g.MaxContentChars < 1 {
		return fmt.Errorf("generation.max_content_chars must be positive")
	}
	if g.MaxAttempts < 1 {
		return fmt.Errorf("generation.max_attempts must be at least 1")
	}
	if g.BackoffMs < 0 {
		return fmt.Errorf("generation.backoff_ms must not be negative")
	}
	if g.DefaultQuestions < quiz.MinQuestions || g.DefaultQuestions > quiz.MaxQuestions {
		return fmt.Errorf("generation.default_questions must be between %d and %d", quiz.MinQuestions, quiz.MaxQuestions)
	}
	if c.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("server.requests_per_minute must not be negative")
	}
	return nil
}

// GeneratorConfig returns the questiongen settings.
func (c Config) GeneratorConfig() questiongen.Config {
	return questiongen.Config{
		MaxContentChars: c.Generation.MaxContentChars,
		MaxAttempts:     c.Generation.MaxAttempts,
		BackoffUnit:     time.Duration(c.Generation.BackoffMs) * time.Millisecond,
	}
}

// ClientConfig returns the endpoint client settings.
func (c Config) ClientConfig() endpoint.ClientConfig {
	return endpoint.ClientConfig{
		URL:     c.Endpoint.URL,
		Token:   c.Endpoint.Token,
		Timeout: time.Duration(c.Endpoint.TimeoutSeconds) * time.Second,
	}
}

// HandlerConfig returns the server handler settings.
func (c Config) HandlerConfig() endpoint.HandlerConfig {
	h := endpoint.DefaultHandlerConfig()
	h.Token = c.Server.Token
	h.RequestsPerMinute = c.Server.RequestsPerMinute
	h.Burst = c.Server.Burst
	return h
}

// LLMProviderConfig merges the file's llm section into the provider
// defaults and then applies the provider environment variables.
func (c Config) LLMProviderConfig() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	if m := c.LLM.Model; m != "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.Anthropic.Model = m
		case "openai":
			cfg.OpenAI.Model = m
		case "gemini":
			cfg.Gemini.Model = m
		case "openrouter":
			cfg.OpenRouter.Model = m
		}
	}
	if u := c.LLM.BaseURL; u != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.BaseURL = u
		case "openrouter":
			cfg.OpenRouter.BaseURL = u
		}
	}
	return llm.ApplyEnv(cfg)
}
