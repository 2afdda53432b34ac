// Package translate provides translation providers for the page translation
// pipeline. Providers translate ordered fragment lists and declare the request
// ceilings the batch adapter must respect.
package translate

import (
	"context"
	"fmt"
)

// Provider is a translation backend.
type Provider interface {
	// Name identifies the provider for logging and reports.
	Name() string

	// Limits returns the provider's hard request ceilings: maximum items
	// per request and maximum total characters per request.
	Limits() (maxItems, maxChars int)

	// Translate translates texts to targetLang. The result has the same
	// length as texts, aligned by index. Elements may be empty when an
	// individual translation is unavailable.
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// New constructs a provider by name. Supported names are "libre" and "llm".
func New(name string, opts Options) (Provider, error) {
	switch name {
	case "libre", "":
		return NewLibreProvider(opts.LibreURL, nil), nil
	case "llm":
		return NewLLMProvider(context.Background(), LLMConfig{
			APIKey:  opts.OpenAIAPIKey,
			BaseURL: opts.OpenAIBaseURL,
			Model:   opts.OpenAIModel,
		})
	default:
		return nil, fmt.Errorf("unknown translation provider %q", name)
	}
}

// Options carries the backend settings needed to construct a provider.
type Options struct {
	LibreURL      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}
