package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Config selects and configures the lesson-authoring model.
type Config struct {
	Provider string

	Anthropic  Credentials
	OpenAI     Credentials
	Gemini     Credentials
	OpenRouter Credentials

	Retry RetryConfig

	// Timeout bounds a whole Generate call, retries included.
	Timeout time.Duration
}

// Credentials holds what one provider needs to authenticate.
type Credentials struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff with jitter.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses the cheapest model of each vendor.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  Credentials{Model: "claude-haiku"},
		OpenAI:     Credentials{Model: "gpt-4o-mini"},
		Gemini:     Credentials{Model: "gemini-flash"},
		OpenRouter: Credentials{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv overlays COINQUEST_LLM_* and COINQUEST_<VENDOR>_* variables
// on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("COINQUEST_LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(p)
	}
	if t := os.Getenv("COINQUEST_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	overlay := func(c *Credentials, vendor string) {
		prefix := "COINQUEST_" + vendor + "_"
		if v := os.Getenv(prefix + "API_KEY"); v != "" {
			c.APIKey = v
		}
		if v := os.Getenv(prefix + "MODEL"); v != "" {
			c.Model = v
		}
		if v := os.Getenv(prefix + "BASE_URL"); v != "" {
			c.BaseURL = v
		}
	}
	overlay(&cfg.Anthropic, "ANTHROPIC")
	overlay(&cfg.OpenAI, "OPENAI")
	overlay(&cfg.Gemini, "GEMINI")
	overlay(&cfg.OpenRouter, "OPENROUTER")
	return cfg
}

// DiscoverConfig looks for a vendor's own API key variable, in the order
// Gemini, OpenAI, Anthropic, OpenRouter, and selects the first found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		creds    *Credentials
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			p.creds.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Credentials returns the block for the selected provider.
func (c Config) Credentials() (Credentials, error) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic, nil
	case ProviderOpenAI:
		return c.OpenAI, nil
	case ProviderGemini:
		return c.Gemini, nil
	case ProviderOpenRouter:
		return c.OpenRouter, nil
	case ProviderMock:
		return Credentials{Model: "mock"}, nil
	}
	return Credentials{}, fmt.Errorf("unknown LLM provider %q", c.Provider)
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	creds, err := c.Credentials()
	if err != nil {
		return err
	}
	if c.Provider != ProviderMock && creds.APIKey == "" {
		return fmt.Errorf("COINQUEST_%s_API_KEY is required for provider %s",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
