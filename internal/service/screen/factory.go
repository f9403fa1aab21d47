package screen

import "github.com/seu-repo/voicebook/internal/domain"

// Factory builds the screen for a navigation frame.
type Factory struct {
	deps Deps
}

func NewFactory(deps Deps) *Factory {
	return &Factory{deps: deps}
}

func (f *Factory) Build(frame domain.Frame, nav Navigator) Screen {
	switch frame.View {
	case domain.ViewFeed:
		return NewFeedScreen(f.deps, nav)
	case domain.ViewPostDetails:
		return NewPostDetailScreen(frame, f.deps, nav)
	case domain.ViewCreateComment:
		return NewCreateCommentScreen(frame, f.deps, nav)
	case domain.ViewMessages:
		return NewMessageScreen(frame, f.deps, nav)
	case domain.ViewAdsCenter:
		return NewAdsCenterScreen(f.deps, nav)
	case domain.ViewImageGeneration:
		return NewImageScreen(frame, f.deps, nav)
	default:
		return NewNavScreen(frame.View, f.deps, nav)
	}
}
