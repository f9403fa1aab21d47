// Package social wraps the document store with the reads and writes the
// voice screens need: posts, comments, polls, chats and ad campaigns.
package social

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/pkg/docmap"
)

const (
	colUsers        = "users"
	colPosts        = "posts"
	colChatSettings = "chatSettings"
	colCampaigns    = "campaigns"
)

func messagesCollection(chatID string) string {
	return "chats/" + chatID + "/messages"
}

// ChatID is the conversation key for two users, independent of order.
func ChatID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

type Service struct {
	store    ports.DocumentStore
	uploader ports.MediaUploader
	now      func() time.Time
	log      *zap.Logger
}

func NewService(store ports.DocumentStore, uploader ports.MediaUploader, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		uploader: uploader,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	doc, err := s.store.Get(ctx, colUsers, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	var u domain.User
	if err := doc.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// KnownNames returns up to limit display names, other than the user's own,
// for the remote classifier to match spoken names against.
func (s *Service) KnownNames(ctx context.Context, selfID string, limit int) []string {
	docs, err := s.store.Query(ctx, colUsers, []docmap.Filter{docmap.Where(docmap.FieldID, docmap.OpNotEqual, selfID)}, &docmap.Order{Field: "name"}, limit)
	if err != nil {
		s.log.Warn("Known names unavailable", zap.Error(err))
		return nil
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		if name, ok := d.Data["name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FindUserByName looks a user up by spoken name. An exact match on name or
// username wins over a prefix match; ErrNotFound when nothing matches.
func (s *Service) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, domain.ErrNotFound
	}
	docs, err := s.store.Query(ctx, colUsers, nil, &docmap.Order{Field: "name"}, 0)
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", name, err)
	}

	var prefix *domain.User
	for _, d := range docs {
		var u domain.User
		if err := d.Decode(&u); err != nil {
			s.log.Warn("Skipping undecodable user", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		lname, luser := strings.ToLower(u.Name), strings.ToLower(u.Username)
		if lname == name || luser == name {
			return &u, nil
		}
		if prefix == nil && (strings.HasPrefix(lname, name) || strings.HasPrefix(luser, name)) {
			found := u
			prefix = &found
		}
	}
	if prefix != nil {
		return prefix, nil
	}
	return nil, fmt.Errorf("user %q: %w", name, domain.ErrNotFound)
}

func (s *Service) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	doc, err := s.store.Get(ctx, colPosts, id)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return decodePost(*doc)
}

// SubscribePost calls fn with the post on every change, and with nil once
// the post is gone.
func (s *Service) SubscribePost(ctx context.Context, id string, fn func(*domain.Post)) (ports.Unsubscribe, error) {
	filters := []docmap.Filter{docmap.Where(docmap.FieldID, docmap.OpEqual, id)}
	return s.store.Subscribe(ctx, colPosts, filters, nil, func(docs []docmap.Document) {
		if len(docs) == 0 {
			fn(nil)
			return
		}
		p, err := decodePost(docs[0])
		if err != nil {
			s.log.Error("Failed to decode post snapshot", zap.String("post_id", id), zap.Error(err))
			return
		}
		fn(p)
	})
}

// FeedPosts returns the newest posts first.
func (s *Service) FeedPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	docs, err := s.store.Query(ctx, colPosts, nil, &docmap.Order{Field: "createdAt", Desc: true}, limit)
	if err != nil {
		return nil, fmt.Errorf("feed posts: %w", err)
	}
	out := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		p, err := decodePost(d)
		if err != nil {
			s.log.Warn("Skipping undecodable post", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// ReactToPost sets the user's reaction. Reacting again with the same emoji
// removes it.
func (s *Service) ReactToPost(ctx context.Context, postID, userID, emoji string) error {
	return s.store.RunTransaction(ctx, func(ctx context.Context, tx ports.Txn) error {
		doc, err := tx.Get(colPosts, postID)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
		}
		reactions, _ := doc.Data["reactions"].(map[string]any)
		field := "reactions." + userID
		if prev, _ := reactions[userID].(string); prev == emoji {
			return tx.Update(colPosts, postID, map[string]any{field: docmap.Delete{}})
		}
		return tx.Update(colPosts, postID, map[string]any{field: emoji})
	})
}

// CommentInput carries the content of a new comment. Audio wins over an
// image, an image over text.
type CommentInput struct {
	Text      string
	Image     []byte
	ImageType string
	Audio     *domain.AudioClip
	ParentID  string
}

func (s *Service) CreateComment(ctx context.Context, user *domain.User, postID string, in CommentInput) (*domain.Comment, error) {
	if user.CommentingSuspended(s.now()) {
		s.log.Warn("User is suspended from commenting", zap.String("user_id", user.ID))
		return nil, domain.ErrCommentingSuspended
	}

	c := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		ParentID:  in.ParentID,
		Author:    user.Author(),
		Reactions: map[string]string{},
		CreatedAt: s.now(),
	}

	switch {
	case in.Audio != nil && len(in.Audio.Data) > 0 && in.Audio.Duration > 0:
		up, err := s.uploader.Upload(ctx, in.Audio.Data, "comment_audio_"+c.ID+".webm", in.Audio.MimeType)
		if err != nil {
			return nil, fmt.Errorf("upload comment audio: %w", err)
		}
		c.Type = domain.CommentAudio
		c.AudioURL = up.URL
		c.Duration = in.Audio.Duration
	case len(in.Image) > 0:
		up, err := s.uploader.Upload(ctx, in.Image, "comment_image_"+c.ID+".jpeg", in.ImageType)
		if err != nil {
			return nil, fmt.Errorf("upload comment image: %w", err)
		}
		c.Type = domain.CommentImage
		c.ImageURL = up.URL
	case strings.TrimSpace(in.Text) != "":
		c.Type = domain.CommentText
		c.Text = in.Text
	default:
		return nil, domain.ErrNoContent
	}

	data, err := docmap.Encode(c)
	if err != nil {
		return nil, err
	}
	data["id"] = c.ID

	err = s.store.Update(ctx, colPosts, postID, map[string]any{
		"comments":     docmap.ArrayUnion{data},
		"commentCount": docmap.Increment(1),
	})
	if err != nil {
		return nil, fmt.Errorf("save comment on post %s: %w", postID, err)
	}

	s.log.Info("Comment created",
		zap.String("post_id", postID),
		zap.String("comment_id", c.ID),
		zap.String("type", string(c.Type)),
	)
	return c, nil
}

// ReactToComment toggles the user's reaction on one comment of a post.
func (s *Service) ReactToComment(ctx context.Context, postID, commentID, userID, emoji string) error {
	return s.store.RunTransaction(ctx, func(ctx context.Context, tx ports.Txn) error {
		doc, err := tx.Get(colPosts, postID)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
		}
		comments, _ := doc.Data["comments"].([]any)
		for i, raw := range comments {
			c, ok := raw.(map[string]any)
			if !ok || c["id"] != commentID {
				continue
			}
			reactions, _ := c["reactions"].(map[string]any)
			if reactions == nil {
				reactions = map[string]any{}
			}
			toggle(reactions, userID, emoji)
			c["reactions"] = reactions
			comments[i] = c
			return tx.Update(colPosts, postID, map[string]any{"comments": comments})
		}
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	})
}

// VoteOnPoll records one vote per user. A repeated vote returns the post
// unchanged together with ErrAlreadyVoted.
func (s *Service) VoteOnPoll(ctx context.Context, postID, userID string, optionIndex int) (*domain.Post, error) {
	var result *domain.Post
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx ports.Txn) error {
		doc, err := tx.Get(colPosts, postID)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
		}
		post, err := decodePost(*doc)
		if err != nil {
			return err
		}
		if post.Poll == nil {
			return domain.ErrNoPoll
		}
		if post.Poll.HasVoted(userID) {
			result = post
			return domain.ErrAlreadyVoted
		}
		if optionIndex < 0 || optionIndex >= len(post.Poll.Options) {
			return domain.ErrInvalidOption
		}

		opt := &post.Poll.Options[optionIndex]
		opt.Votes++
		opt.VotedBy = append(opt.VotedBy, userID)

		poll, err := docmap.Encode(post.Poll)
		if err != nil {
			return err
		}
		if err := tx.Update(colPosts, postID, map[string]any{"poll": poll}); err != nil {
			return err
		}
		result = post
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrAlreadyVoted) {
		return nil, fmt.Errorf("vote on post %s: %w", postID, err)
	}
	return result, err
}

// SubscribeMessages streams the conversation oldest first.
func (s *Service) SubscribeMessages(ctx context.Context, chatID string, fn func([]domain.Message)) (ports.Unsubscribe, error) {
	return s.store.Subscribe(ctx, messagesCollection(chatID), nil, &docmap.Order{Field: "createdAt"}, func(docs []docmap.Document) {
		msgs := make([]domain.Message, 0, len(docs))
		for _, d := range docs {
			var m domain.Message
			if err := d.Decode(&m); err != nil {
				s.log.Warn("Skipping undecodable message", zap.String("id", d.ID), zap.Error(err))
				continue
			}
			msgs = append(msgs, m)
		}
		fn(msgs)
	})
}

// ReplySnippetFor quotes m for a reply.
func ReplySnippetFor(m *domain.Message, senderName string) *domain.ReplySnippet {
	if m == nil {
		return nil
	}
	return &domain.ReplySnippet{MessageID: m.ID, SenderName: senderName, Content: m.Snippet()}
}

// SendMessage stores msg in the chat between its sender and recipient and
// returns it with ID and timestamp set.
func (s *Service) SendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	msg.CreatedAt = s.now()
	data, err := docmap.Encode(msg)
	if err != nil {
		return nil, err
	}
	id, err := s.store.Add(ctx, messagesCollection(ChatID(msg.SenderID, msg.RecipientID)), data)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	msg.ID = id
	return &msg, nil
}

func (s *Service) SendText(ctx context.Context, senderID, recipientID, text string, replyTo *domain.ReplySnippet) (*domain.Message, error) {
	return s.SendMessage(ctx, domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Type:        domain.MessageText,
		Text:        text,
		ReplyTo:     replyTo,
	})
}

func (s *Service) SendAudio(ctx context.Context, senderID, recipientID string, clip domain.AudioClip, replyTo *domain.ReplySnippet) (*domain.Message, error) {
	up, err := s.uploader.Upload(ctx, clip.Data, fmt.Sprintf("message_audio_%s_%d.webm", senderID, s.now().UnixMilli()), clip.MimeType)
	if err != nil {
		return nil, fmt.Errorf("upload message audio: %w", err)
	}
	return s.SendMessage(ctx, domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Type:        domain.MessageAudio,
		AudioURL:    up.URL,
		Duration:    clip.Duration,
		ReplyTo:     replyTo,
	})
}

// ReactToMessage toggles the user's reaction and returns the updated
// message.
func (s *Service) ReactToMessage(ctx context.Context, chatID, messageID, userID, emoji string) (*domain.Message, error) {
	col := messagesCollection(chatID)
	var result *domain.Message
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx ports.Txn) error {
		doc, err := tx.Get(col, messageID)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
		}
		reactions, _ := doc.Data["reactions"].(map[string]any)
		if reactions == nil {
			reactions = map[string]any{}
		}
		toggle(reactions, userID, emoji)
		if err := tx.Update(col, messageID, map[string]any{"reactions": reactions}); err != nil {
			return err
		}
		doc.Data["reactions"] = reactions
		var m domain.Message
		if err := doc.Decode(&m); err != nil {
			return err
		}
		result = &m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("react to message: %w", err)
	}
	return result, nil
}

// DeleteChat removes every message of the conversation and its settings.
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	col := messagesCollection(chatID)
	docs, err := s.store.Query(ctx, col, nil, nil, 0)
	if err != nil {
		return fmt.Errorf("delete chat %s: %w", chatID, err)
	}
	for _, d := range docs {
		if err := s.store.Delete(ctx, col, d.ID); err != nil {
			return fmt.Errorf("delete chat %s: %w", chatID, err)
		}
	}
	if err := s.store.Delete(ctx, colChatSettings, chatID); err != nil {
		return fmt.Errorf("delete chat settings %s: %w", chatID, err)
	}
	s.log.Info("Chat deleted", zap.String("chat_id", chatID), zap.Int("messages", len(docs)))
	return nil
}

func (s *Service) GetChatSettings(ctx context.Context, chatID string) (domain.ChatSettings, error) {
	settings := domain.ChatSettings{Theme: "default"}
	doc, err := s.store.Get(ctx, colChatSettings, chatID)
	if err != nil {
		return settings, fmt.Errorf("get chat settings %s: %w", chatID, err)
	}
	if doc == nil {
		return settings, nil
	}
	if err := doc.Decode(&settings); err != nil {
		return settings, err
	}
	if settings.Theme == "" {
		settings.Theme = "default"
	}
	return settings, nil
}

func (s *Service) UpdateChatSettings(ctx context.Context, chatID string, settings domain.ChatSettings) error {
	if _, ok := domain.ChatThemes[settings.Theme]; !ok {
		return domain.ErrUnknownTheme
	}
	data, err := docmap.Encode(settings)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, colChatSettings, chatID, data)
}

// SubmitCampaign stores a validated campaign as pending approval.
func (s *Service) SubmitCampaign(ctx context.Context, c domain.Campaign, transactionID string) (*domain.Campaign, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Status = domain.CampaignPending
	c.TransactionID = transactionID
	c.Views, c.Clicks = 0, 0
	c.CreatedAt = s.now()

	data, err := docmap.Encode(c)
	if err != nil {
		return nil, err
	}
	id, err := s.store.Add(ctx, colCampaigns, data)
	if err != nil {
		return nil, fmt.Errorf("submit campaign: %w", err)
	}
	c.ID = id
	s.log.Info("Campaign submitted for approval",
		zap.String("campaign_id", id),
		zap.String("sponsor", c.SponsorName),
		zap.Float64("budget", c.Budget),
	)
	return &c, nil
}

func toggle(reactions map[string]any, userID, emoji string) {
	if prev, _ := reactions[userID].(string); prev == emoji {
		delete(reactions, userID)
		return
	}
	reactions[userID] = emoji
}

func decodePost(d docmap.Document) (*domain.Post, error) {
	var p domain.Post
	if err := d.Decode(&p); err != nil {
		return nil, err
	}
	sort.SliceStable(p.Comments, func(i, j int) bool {
		return p.Comments[i].CreatedAt.Before(p.Comments[j].CreatedAt)
	})
	return &p, nil
}
