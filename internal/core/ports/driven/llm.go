package driven

import "context"

// LLMService generates answer text from an assembled context and a user
// question. The core's only contribution is assembling the context;
// response generation belongs to the implementation.
//
// Implementations may include:
//   - Google Gemini
//   - Anthropic (Claude)
//   - OpenAI (GPT-4)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
