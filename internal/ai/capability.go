// Package ai wraps the text-completion and embedding capabilities the
// backend depends on. Callers hold the interfaces only; whether a remote
// model or the hashing fallback sits behind them is resolved once at startup.
package ai

import "context"

// SampleOptions is pass-through sampling configuration for a completion call.
type SampleOptions struct {
	MaxTokens     int
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// Completion is the result of a text-completion call.
type Completion struct {
	Text       string
	TokensUsed int
}

// Completer generates a text completion for a fully rendered prompt.
type Completer interface {
	Model() string
	Complete(ctx context.Context, prompt string, opts SampleOptions) (*Completion, error)
}

// Embedder converts a batch of texts into one vector per text.
type Embedder interface {
	Model() string
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}
