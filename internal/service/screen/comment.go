package screen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/service/social"
)

type CommentMode string

const (
	CommentModeAudio CommentMode = "audio"
	CommentModeText  CommentMode = "text"
	CommentModeImage CommentMode = "image"
)

// CreateCommentScreen records or collects a comment for one post. Audio mode
// starts recording as soon as the screen mounts.
type CreateCommentScreen struct {
	deps     Deps
	nav      Navigator
	postID   string
	parentID string
	mode     CommentMode
	recorder *Recorder

	mu        sync.Mutex
	text      string
	image     []byte
	imageType string
	posting   bool
}

func NewCreateCommentScreen(frame domain.Frame, deps Deps, nav Navigator) *CreateCommentScreen {
	mode := CommentMode(frame.Param(domain.ParamCommentMode))
	switch mode {
	case CommentModeText, CommentModeImage:
	default:
		mode = CommentModeAudio
	}
	return &CreateCommentScreen{
		deps:     deps,
		nav:      nav,
		postID:   frame.Param(domain.ParamPostID),
		parentID: frame.Param(domain.ParamParentID),
		mode:     mode,
		recorder: NewRecorder(deps.Audio),
	}
}

func (s *CreateCommentScreen) View() domain.View { return domain.ViewCreateComment }

func (s *CreateCommentScreen) Mode() CommentMode { return s.mode }

func (s *CreateCommentScreen) RecordingState() domain.RecordingState { return s.recorder.State() }

// SetText sets the draft of a text comment.
func (s *CreateCommentScreen) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// SetImage sets the picture of an image comment.
func (s *CreateCommentScreen) SetImage(data []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = data
	s.imageType = contentType
}

func (s *CreateCommentScreen) Mount(ctx context.Context) error {
	if s.mode != CommentModeAudio {
		return nil
	}
	if err := s.recorder.Start(ctx); err != nil {
		s.deps.Log.Warn("Microphone unavailable", zap.Error(err))
		s.deps.Notifier.Say("I couldn't access the microphone. Please check your permissions.")
		return err
	}
	s.deps.Notifier.Say("Recording your comment. Say stop when you're done.")
	return nil
}

func (s *CreateCommentScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	if cmd.Intent == domain.IntentGoBack {
		s.nav.GoBack(ctx)
		return
	}

	if s.mode != CommentModeAudio {
		if cmd.Intent == domain.IntentPostComment {
			s.post(ctx)
		}
		return
	}

	switch s.recorder.State() {
	case domain.RecordingActive:
		if cmd.Intent == domain.IntentStopRecording {
			s.stop(ctx)
		}
	case domain.RecordingPreview:
		switch cmd.Intent {
		case domain.IntentPostComment, domain.IntentPostConfirm:
			s.post(ctx)
		case domain.IntentReRecord:
			if err := s.recorder.Start(ctx); err != nil {
				s.deps.Log.Warn("Re-record failed", zap.Error(err))
				s.deps.Notifier.Say("I couldn't access the microphone. Please check your permissions.")
				return
			}
			s.deps.Notifier.Say("Recording again.")
		}
	}
}

func (s *CreateCommentScreen) stop(ctx context.Context) {
	clip, err := s.recorder.Stop(ctx)
	if err != nil {
		s.deps.Log.Warn("Stop recording failed", zap.Error(err))
		s.deps.Notifier.Say("Sorry, the recording failed.")
		return
	}
	s.deps.Notifier.Say(fmt.Sprintf("Recorded %d seconds. Say post comment or re-record.", int(math.Round(clip.Duration))))
}

func (s *CreateCommentScreen) post(ctx context.Context) {
	s.mu.Lock()
	if s.posting {
		s.mu.Unlock()
		return
	}
	in := social.CommentInput{ParentID: s.parentID}
	switch s.mode {
	case CommentModeText:
		in.Text = strings.TrimSpace(s.text)
	case CommentModeImage:
		in.Image, in.ImageType = s.image, s.imageType
	}
	s.posting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.posting = false
		s.mu.Unlock()
	}()

	switch s.mode {
	case CommentModeAudio:
		clip, ok := s.recorder.Confirm()
		if !ok {
			s.deps.Notifier.Say("Please add content to your comment.")
			return
		}
		if clip.Duration <= 0 {
			s.recorder.Fail()
			s.deps.Notifier.Say("Please add content to your comment.")
			return
		}
		in.Audio = &clip
		s.deps.Notifier.Say("Posting voice comment...")
	case CommentModeText:
		if in.Text == "" {
			s.deps.Notifier.Say("Please add content to your comment.")
			return
		}
		s.deps.Notifier.Say("Posting text comment...")
	case CommentModeImage:
		if len(in.Image) == 0 {
			s.deps.Notifier.Say("Please add content to your comment.")
			return
		}
		s.deps.Notifier.Say("Uploading image comment...")
	}

	c, err := s.deps.Social.CreateComment(ctx, s.deps.User, s.postID, in)
	if err != nil {
		s.recorder.Fail()
		if errors.Is(err, domain.ErrCommentingSuspended) {
			s.deps.Notifier.Say("You are currently suspended from commenting.")
			s.nav.GoBack(ctx)
			return
		}
		s.deps.Log.Error("Failed to post comment",
			zap.String("post_id", s.postID),
			zap.Error(err),
		)
		s.deps.Notifier.Say("Sorry, there was an error posting your comment.")
		return
	}

	s.recorder.Succeed()
	s.deps.Notifier.Say("Your comment has been posted.")
	s.nav.ReplaceTop(ctx, domain.ViewPostDetails, map[string]string{
		domain.ParamPostID:     s.postID,
		domain.ParamNewComment: c.ID,
	})
}

func (s *CreateCommentScreen) Unmount() {
	s.recorder.Abort(context.Background())
}
