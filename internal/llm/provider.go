package llm

import (
	"context"
	"fmt"
	"strings"
)

// SectionNames lists the extracted sections in artifact order.
var SectionNames = []string{
	"clinical_presentation",
	"diagnostics",
	"treatment",
	"outcome",
	"limitations",
}

// Provider is an LLM backend that extracts labeled sections from
// trimmed abstract text.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ExtractSections pulls verbatim section snippets from the request text.
	ExtractSections(ctx context.Context, req SectionsRequest) (*SectionsResponse, error)

	// IsAvailable checks whether the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// SectionsRequest is the input for section extraction.
type SectionsRequest struct {
	// PaperID identifies the paper, for error messages only.
	PaperID string

	// Title is the matched abstract title, given as context.
	Title string

	// Text is the trimmed abstract text. Snippets must be quoted from it.
	Text string

	// Model overrides the configured model when non-empty.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SectionsResponse holds the extracted sections.
type SectionsResponse struct {
	// Sections maps section name to the quoted snippet. Sections the
	// text does not cover are absent or empty.
	Sections map[string]string

	// Model is the model that produced the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for the provider.
	APIKey string

	// BaseURL for custom endpoints.
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns the defaults. Extraction is disabled until a
// provider is named.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// BuildPrompt constructs the section-extraction prompt. The prompt demands
// verbatim quotes so every snippet can be located back in the source text.
func BuildPrompt(title, text string) string {
	return fmt.Sprintf(`Extract the following sections from a conference abstract about a clinical case or case series.

Sections to extract:
%s

RULES:
1. Every snippet MUST be an exact, contiguous quote from the abstract text below. Do not paraphrase, summarize, or merge sentences.
2. If the abstract does not cover a section, use an empty string for it.
3. Respond with a single JSON object whose keys are exactly the section names above.

Abstract title: %s

Abstract text:
%s`, "- "+strings.Join(SectionNames, "\n- "), title, text)
}
