package ai

import (
	"github.com/notabase/notabase/internal/profile"
)

// Embedding providers.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Provider   string // local, openai (or any OpenAI-compatible endpoint)
	Model      string
	Dimensions int
	APIKey     string
	BaseURL    string
}

// NewEmbeddingConfigFromProfile creates embedding config from the profile.
func NewEmbeddingConfigFromProfile(p *profile.Profile) *EmbeddingConfig {
	cfg := &EmbeddingConfig{
		Provider:   p.EmbeddingProvider,
		Model:      p.EmbeddingModel,
		Dimensions: p.EmbeddingDimensions,
	}

	if cfg.Provider == ProviderOpenAI {
		cfg.APIKey = p.OpenAIAPIKey
		cfg.BaseURL = p.OpenAIBaseURL
	}

	// The local provider needs no credentials and works offline; fall back to
	// it when the external provider is selected but unconfigured.
	if cfg.Provider == ProviderOpenAI && cfg.APIKey == "" {
		cfg.Provider = ProviderLocal
	}

	return cfg
}
