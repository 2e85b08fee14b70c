package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/proctrim/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider
// name means section extraction is disabled; both return values are nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config. A missing API
// key falls back to the OPENAI_API_KEY environment variable.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	apiKey := modelConfig.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    apiKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
