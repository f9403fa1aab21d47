package ports

import (
	"context"

	"github.com/seu-repo/voicebook/internal/domain"
)

// IntentMatcher classifies an utterance offline. The bool is false when no
// local rule applies.
type IntentMatcher interface {
	Match(utterance string) (domain.ResolvedCommand, bool)
}

// LLMClient sends one classification request to a hosted model and returns
// the raw response text.
type LLMClient interface {
	GenerateJSON(ctx context.Context, systemInstruction, utterance string) (string, error)
}

// ImageGenerator returns the image bytes and their MIME type.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// IntentResolver always yields a command; failures degrade to unknown.
type IntentResolver interface {
	Resolve(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) domain.ResolvedCommand
}
