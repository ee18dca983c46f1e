package ai

import (
	"context"
	"net/http"
	"time"
)

// mistralProvider implements the Provider interface against Mistral's
// chat completions API, which is OpenAI-compatible.
type mistralProvider struct {
	chatClient
}

func newMistral(cfg ProviderConfig) *mistralProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	return &mistralProvider{chatClient{
		name:   "mistral",
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}}
}

func (p *mistralProvider) Name() string { return "mistral" }

func (p *mistralProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.generate(ctx, systemPrompt, userPrompt)
}
