package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
)

// ImageScreen generates a picture for the prompt it was opened with.
type ImageScreen struct {
	deps   Deps
	nav    Navigator
	prompt string

	mu       sync.Mutex
	image    []byte
	mimeType string
}

func NewImageScreen(frame domain.Frame, deps Deps, nav Navigator) *ImageScreen {
	return &ImageScreen{deps: deps, nav: nav, prompt: frame.Param(domain.ParamPrompt)}
}

func (s *ImageScreen) View() domain.View { return domain.ViewImageGeneration }

func (s *ImageScreen) Mount(ctx context.Context) error {
	if s.prompt != "" {
		s.generate(ctx, s.prompt)
	}
	return nil
}

func (s *ImageScreen) Unmount() {}

// Image returns the last generated image and its MIME type.
func (s *ImageScreen) Image() ([]byte, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image, s.mimeType
}

func (s *ImageScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	switch cmd.Intent {
	case domain.IntentGenerateImage:
		p, _ := cmd.Payload().(domain.PromptPayload)
		if p.Prompt != "" {
			s.generate(ctx, p.Prompt)
		}
	case domain.IntentClearImage:
		s.mu.Lock()
		s.image, s.mimeType = nil, ""
		s.mu.Unlock()
		s.deps.Notifier.Say("Image cleared.")
	default:
		handleGlobal(ctx, s.deps, s.nav, cmd)
	}
}

func (s *ImageScreen) generate(ctx context.Context, prompt string) {
	s.deps.Notifier.Say("Generating your image...")
	data, mime, err := s.deps.Images.GenerateImage(ctx, prompt)
	if err != nil {
		s.deps.Log.Error("Image generation failed", zap.String("prompt", prompt), zap.Error(err))
		s.deps.Notifier.Say("Sorry, I couldn't create that image.")
		return
	}
	s.mu.Lock()
	s.image, s.mimeType = data, mime
	s.mu.Unlock()
	s.deps.Notifier.Say("Your image is ready.")
}
