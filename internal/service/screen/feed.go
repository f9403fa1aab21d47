package screen

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
)

const feedPageSize = 50

type ScrollState string

const (
	ScrollNone ScrollState = "none"
	ScrollUp   ScrollState = "up"
	ScrollDown ScrollState = "down"
)

// FeedScreen walks the newest posts one at a time.
type FeedScreen struct {
	deps Deps
	nav  Navigator

	mu      sync.Mutex
	posts   []domain.Post
	cursor  int
	playing bool
	scroll  ScrollState
}

func NewFeedScreen(deps Deps, nav Navigator) *FeedScreen {
	return &FeedScreen{deps: deps, nav: nav, scroll: ScrollNone}
}

func (s *FeedScreen) View() domain.View { return domain.ViewFeed }

func (s *FeedScreen) Mount(ctx context.Context) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	n := len(s.posts)
	s.mu.Unlock()
	if n == 0 {
		s.deps.Notifier.Say("Your feed is empty.")
	}
	return nil
}

func (s *FeedScreen) load(ctx context.Context) error {
	posts, err := s.deps.Social.FeedPosts(ctx, feedPageSize)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}
	s.mu.Lock()
	s.posts = posts
	s.cursor = 0
	s.playing = false
	s.mu.Unlock()
	return nil
}

func (s *FeedScreen) Unmount() {}

// Current returns the post under the cursor.
func (s *FeedScreen) Current() (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.posts) {
		return domain.Post{}, false
	}
	return s.posts[s.cursor], true
}

func (s *FeedScreen) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *FeedScreen) Scroll() ScrollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll
}

func (s *FeedScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	switch cmd.Intent {
	case domain.IntentNextPost:
		s.move(1)
	case domain.IntentPreviousPost:
		s.move(-1)
	case domain.IntentPlayPost:
		s.setPlaying(true)
	case domain.IntentPausePost:
		s.setPlaying(false)
	case domain.IntentScrollUp:
		s.setScroll(ScrollUp)
	case domain.IntentScrollDown:
		s.setScroll(ScrollDown)
	case domain.IntentStopScroll:
		s.setScroll(ScrollNone)
	case domain.IntentReloadPage:
		if err := s.load(ctx); err != nil {
			s.deps.Log.Error("Feed reload failed", zap.Error(err))
			s.deps.Notifier.Say("Sorry, I couldn't refresh the feed.")
			return
		}
		s.deps.Notifier.Say("Feed refreshed.")
	case domain.IntentLike:
		post, ok := s.Current()
		if !ok {
			return
		}
		if err := s.deps.Social.ReactToPost(ctx, post.ID, s.deps.User.ID, likeGlyph); err != nil {
			s.deps.Log.Error("Failed to react to post", zap.String("post_id", post.ID), zap.Error(err))
			s.deps.Notifier.Say("Sorry, I couldn't like this post.")
			return
		}
		s.deps.Notifier.Say(fmt.Sprintf("Liked %s's post.", post.Author.Name))
	case domain.IntentComment:
		if post, ok := s.Current(); ok {
			s.nav.Navigate(ctx, domain.ViewCreateComment, map[string]string{domain.ParamPostID: post.ID})
		}
	case domain.IntentViewComments:
		if post, ok := s.Current(); ok {
			s.nav.Navigate(ctx, domain.ViewPostDetails, map[string]string{domain.ParamPostID: post.ID})
		}
	default:
		handleGlobal(ctx, s.deps, s.nav, cmd)
	}
}

func (s *FeedScreen) move(delta int) {
	s.mu.Lock()
	next := s.cursor + delta
	if next < 0 || next >= len(s.posts) {
		s.mu.Unlock()
		if delta > 0 {
			s.deps.Notifier.Say("You've reached the end of your feed.")
		} else {
			s.deps.Notifier.Say("This is the first post.")
		}
		return
	}
	s.cursor = next
	s.playing = true
	author := s.posts[next].Author.Name
	s.mu.Unlock()
	s.deps.Notifier.Say(fmt.Sprintf("Playing post from %s.", author))
}

func (s *FeedScreen) setPlaying(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < len(s.posts) {
		s.playing = on
	}
}

func (s *FeedScreen) setScroll(st ScrollState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = st
}
