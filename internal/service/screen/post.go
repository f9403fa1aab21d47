package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
)

const likeGlyph = "👍"

// PostDetailScreen shows one post with its comments, kept current by a
// live subscription.
type PostDetailScreen struct {
	deps         Deps
	nav          Navigator
	postID       string
	newCommentID string

	mu          sync.Mutex
	post        *domain.Post
	playingID   string
	unsubscribe ports.Unsubscribe
}

func NewPostDetailScreen(frame domain.Frame, deps Deps, nav Navigator) *PostDetailScreen {
	return &PostDetailScreen{
		deps:         deps,
		nav:          nav,
		postID:       frame.Param(domain.ParamPostID),
		newCommentID: frame.Param(domain.ParamNewComment),
	}
}

func (s *PostDetailScreen) View() domain.View { return domain.ViewPostDetails }

func (s *PostDetailScreen) Mount(ctx context.Context) error {
	unsub, err := s.deps.Social.SubscribePost(ctx, s.postID, s.onPost)
	if err != nil {
		return fmt.Errorf("subscribe post %s: %w", s.postID, err)
	}
	s.mu.Lock()
	s.unsubscribe = unsub
	post := s.post
	if post != nil && s.newCommentID != "" {
		for _, c := range post.Comments {
			if c.ID == s.newCommentID && c.Type == domain.CommentAudio {
				s.playingID = c.ID
			}
		}
	}
	s.mu.Unlock()

	if post == nil {
		s.deps.Notifier.Say("Sorry, this post is no longer available.")
		return nil
	}
	s.deps.Notifier.Say("Post details loaded. You can say like, comment, or play a comment by someone.")
	return nil
}

func (s *PostDetailScreen) onPost(p *domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post = p
}

func (s *PostDetailScreen) Unmount() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *PostDetailScreen) Post() *domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.post
}

// Playing returns the ID of the comment being played, if any.
func (s *PostDetailScreen) Playing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playingID
}

func (s *PostDetailScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	post := s.Post()
	if post == nil {
		if cmd.Intent == domain.IntentGoBack {
			s.nav.GoBack(ctx)
		}
		return
	}

	switch cmd.Intent {
	case domain.IntentGoBack:
		s.nav.GoBack(ctx)
	case domain.IntentLike:
		if err := s.deps.Social.ReactToPost(ctx, post.ID, s.deps.User.ID, likeGlyph); err != nil {
			s.deps.Log.Error("Failed to react to post", zap.String("post_id", post.ID), zap.Error(err))
			s.deps.Notifier.Say("Sorry, I couldn't like this post.")
			return
		}
		s.deps.Notifier.Say("Liked.")
	case domain.IntentShare:
		s.deps.Notifier.Say(fmt.Sprintf("Sharing the post by %s.", post.Author.Name))
	case domain.IntentComment:
		s.nav.Navigate(ctx, domain.ViewCreateComment, map[string]string{domain.ParamPostID: post.ID})
	case domain.IntentPlayCommentByAuthor:
		p, _ := cmd.Payload().(domain.TargetPayload)
		if p.TargetName == "" {
			return
		}
		s.playCommentBy(post, p.TargetName)
	case domain.IntentVotePoll:
		p, _ := cmd.Payload().(domain.PollVotePayload)
		s.vote(ctx, post, p)
	}
}

func (s *PostDetailScreen) playCommentBy(post *domain.Post, name string) {
	target := strings.ToLower(name)
	for _, c := range post.Comments {
		if c.Type == domain.CommentAudio && strings.Contains(strings.ToLower(c.Author.Name), target) {
			s.mu.Lock()
			if s.playingID == c.ID {
				s.playingID = ""
			} else {
				s.playingID = c.ID
			}
			s.mu.Unlock()
			s.deps.Notifier.Say(fmt.Sprintf("Playing comment from %s.", c.Author.Name))
			return
		}
	}
	s.deps.Notifier.Say(fmt.Sprintf("Sorry, I couldn't find an audio comment from %s on this post.", target))
}

func (s *PostDetailScreen) vote(ctx context.Context, post *domain.Post, p domain.PollVotePayload) {
	if post.Poll == nil {
		s.deps.Notifier.Say("This post doesn't have a poll.")
		return
	}
	index := p.OptionNumber - 1
	if p.OptionNumber == 0 {
		index = post.Poll.OptionIndex(p.OptionText)
	}
	if index < 0 || index >= len(post.Poll.Options) {
		s.deps.Notifier.Say("That option isn't in the poll.")
		return
	}

	_, err := s.deps.Social.VoteOnPoll(ctx, post.ID, s.deps.User.ID, index)
	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		s.deps.Notifier.Say("You have already voted on this poll.")
	case err != nil:
		s.deps.Log.Error("Failed to vote", zap.String("post_id", post.ID), zap.Error(err))
		s.deps.Notifier.Say("Sorry, your vote could not be recorded.")
	default:
		s.deps.Notifier.Say(fmt.Sprintf("Voted for %s.", post.Poll.Options[index].Text))
	}
}
