package capture

import (
	"fmt"

	"zoom-attendance-llm/config"
	"zoom-attendance-llm/extract"
	"zoom-attendance-llm/gemini"
	"zoom-attendance-llm/llm"
)

// NewExtractor builds a backend by provider name. The credential comes from
// the session (web) or from the environment (desktop), never from disk.
func NewExtractor(provider, apiKey, model string, routing []string) (extract.Extractor, error) {
	switch provider {
	case "openrouter", "":
		return llm.New(llm.Config{APIKey: apiKey, Model: model, Providers: routing})
	case "gemini":
		return gemini.New(gemini.Config{APIKey: apiKey, Model: model})
	case "mock":
		return extract.NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown extractor provider %q", provider)
	}
}

// ExtractorFromConfig builds the backend selected by the environment.
func ExtractorFromConfig(cfg *config.Config) (extract.Extractor, error) {
	switch cfg.Extractor {
	case "gemini":
		return NewExtractor("gemini", cfg.GeminiAPIKey, cfg.GeminiModel, nil)
	case "mock":
		return NewExtractor("mock", "", "", nil)
	default:
		return NewExtractor("openrouter", cfg.OpenRouterAPIKey, cfg.Model, cfg.Providers)
	}
}

// CredentialFromConfig returns the credential matching the selected backend.
func CredentialFromConfig(cfg *config.Config) string {
	if cfg.Extractor == "gemini" {
		return cfg.GeminiAPIKey
	}
	return cfg.OpenRouterAPIKey
}
