package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/store"
)

// NewProvider builds the configured vendor adapter and wraps it so that
// calls flow retry -> recording -> vendor. repo and log may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	creds, _ := cfg.Credentials()

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(creds)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(creds)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(creds)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, creds)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, cfg.Provider, repo, log)
	return WithTimeout(WithRetry(recorded, cfg.Retry), cfg.Timeout), nil
}

// NewProviderFromEnv prefers explicit COINQUEST_ settings and falls back
// to the vendors' standard key variables.
func NewProviderFromEnv(ctx context.Context, repo store.EventRepo, log *logger.Logger) (Provider, error) {
	cfg := ConfigFromEnv()
	if cfg.Validate() != nil {
		found, ok := DiscoverConfig()
		if !ok {
			return nil, ErrNoProvider
		}
		cfg = found
	}
	return NewProvider(ctx, cfg, repo, log)
}
