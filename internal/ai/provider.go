package ai

import "context"

// LLMProvider sends a prompt to an LLM and returns the raw text response.
// Implementations are asked for structured output shaped like matchedJobs.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
