package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockReplaysInOrder(t *testing.T) {
	m := NewMockProvider(ok(`{"n":1}`))
	m.Push(ok(`{"n":2}`))

	for want := 1; want <= 2; want++ {
		resp, err := m.Generate(context.Background(), UserPrompt("", "go"))
		if err != nil {
			t.Fatal(err)
		}
		var v struct{ N int }
		if err := resp.Decode(&v); err != nil || v.N != want {
			t.Fatalf("reply %d decoded to %d (%v)", want, v.N, err)
		}
	}

	_, err := m.Generate(context.Background(), Request{})
	var down *UnavailableError
	if !errors.As(err, &down) {
		t.Fatalf("empty queue err = %v", err)
	}
	if m.CallCount() != 3 || m.Calls[0].Messages[0].Content != "go" {
		t.Errorf("calls not recorded: %+v", m.Calls)
	}
}

func TestValidateResponse(t *testing.T) {
	schema := &Schema{
		Name: "validate-test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"options": map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
			},
			"required": []string{"options"},
		},
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"options":["a","b"]}`, false},
		{"too few", `{"options":["a"]}`, true},
		{"missing", `{}`, true},
		{"wrong type", `{"options":"a"}`, true},
		{"not json", `options: a`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(schema, json.RawMessage(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			var bad *InvalidOutputError
			if err != nil && !errors.As(err, &bad) {
				t.Errorf("want InvalidOutputError, got %T", err)
			}
		})
	}
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Errorf("nil schema rejected text: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("COINQUEST_LLM_PROVIDER", "OpenRouter")
	t.Setenv("COINQUEST_OPENROUTER_API_KEY", "or-key")
	t.Setenv("COINQUEST_OPENROUTER_MODEL", "meta/llama")
	t.Setenv("COINQUEST_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	creds, _ := cfg.Credentials()
	if creds.APIKey != "or-key" || creds.Model != "meta/llama" || creds.BaseURL != defaultOpenRouterURL {
		t.Errorf("creds = %+v", creds)
	}
	if cfg.Timeout.Seconds() != 5 {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("anthropic without key accepted")
	}
	cfg.Provider = ProviderMock
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock rejected: %v", err)
	}
	cfg.Provider = "llama.cpp"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, found := DiscoverConfig(); found {
		t.Fatal("discovered without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, found := DiscoverConfig()
	if !found || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Errorf("discovered %+v", cfg)
	}
}

func TestNewProviderMock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
}

func TestNewProviderFromEnvWithoutKeys(t *testing.T) {
	for _, k := range []string{
		"COINQUEST_LLM_PROVIDER", "COINQUEST_ANTHROPIC_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	if _, err := NewProviderFromEnv(context.Background(), nil, nil); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v", err)
	}
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	if !ok || math.Abs(cost-0.75) > 1e-9 {
		t.Errorf("cost = %v %v", cost, ok)
	}
	if _, ok := EstimateCost("unknown-model", 1, 1); ok {
		t.Error("unknown model priced")
	}
}

func TestPurpose(t *testing.T) {
	if PurposeFrom(context.Background()) != "unknown" {
		t.Error("default purpose")
	}
	if PurposeFrom(WithPurpose(context.Background(), "lesson-draft")) != "lesson-draft" {
		t.Error("purpose lost")
	}
}
