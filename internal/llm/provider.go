package llm

import "context"

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the model used when none is configured
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces a completion for the prompt
	Generate(ctx context.Context, prompt string) (string, error)
}
