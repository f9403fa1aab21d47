// Package screen holds the per-view command dispatchers. A Screen receives
// resolved commands for the frame it was built for and reports outcomes
// through the session Notifier.
package screen

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/social"
)

// ErrMicUnavailable is returned by Mount when a screen that records on
// entry cannot open the microphone.
var ErrMicUnavailable = errors.New("microphone unavailable")

// Screen dispatches commands for one navigation frame. HandleCommand ignores
// intents it does not handle, tolerates repeated delivery and never panics.
// Unmount must release every subscription taken by Mount.
type Screen interface {
	View() domain.View
	Mount(ctx context.Context) error
	HandleCommand(ctx context.Context, cmd domain.ResolvedCommand)
	Unmount()
}

// Navigator is the part of the session a screen may drive. Screens must not
// hold their own locks while calling it.
type Navigator interface {
	Navigate(ctx context.Context, view domain.View, params map[string]string)
	GoBack(ctx context.Context)
	ReplaceTop(ctx context.Context, view domain.View, params map[string]string)
	Reset(ctx context.Context, view domain.View)
}

// Social is the data access the screens use.
type Social interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	FindUserByName(ctx context.Context, name string) (*domain.User, error)
	FeedPosts(ctx context.Context, limit int) ([]domain.Post, error)
	SubscribePost(ctx context.Context, id string, fn func(*domain.Post)) (ports.Unsubscribe, error)
	ReactToPost(ctx context.Context, postID, userID, emoji string) error
	CreateComment(ctx context.Context, user *domain.User, postID string, in social.CommentInput) (*domain.Comment, error)
	VoteOnPoll(ctx context.Context, postID, userID string, optionIndex int) (*domain.Post, error)
	SubscribeMessages(ctx context.Context, chatID string, fn func([]domain.Message)) (ports.Unsubscribe, error)
	SendText(ctx context.Context, senderID, recipientID, text string, replyTo *domain.ReplySnippet) (*domain.Message, error)
	SendAudio(ctx context.Context, senderID, recipientID string, clip domain.AudioClip, replyTo *domain.ReplySnippet) (*domain.Message, error)
	ReactToMessage(ctx context.Context, chatID, messageID, userID, emoji string) (*domain.Message, error)
	DeleteChat(ctx context.Context, chatID string) error
	GetChatSettings(ctx context.Context, chatID string) (domain.ChatSettings, error)
	UpdateChatSettings(ctx context.Context, chatID string, settings domain.ChatSettings) error
	SubmitCampaign(ctx context.Context, c domain.Campaign, transactionID string) (*domain.Campaign, error)
}

var _ Social = (*social.Service)(nil)

// Deps are the collaborators shared by every screen of a session.
type Deps struct {
	User     *domain.User
	Social   Social
	Audio    ports.AudioRecorder
	Images   ports.ImageGenerator
	Payments ports.PaymentGateway
	Notifier ports.Notifier
	Currency string
	Log      *zap.Logger
}
