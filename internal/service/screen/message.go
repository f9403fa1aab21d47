package screen

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/nlu"
	"github.com/seu-repo/voicebook/internal/service/social"
)

// MessageScreen is a conversation with one recipient.
type MessageScreen struct {
	deps        Deps
	nav         Navigator
	recipientID string
	recorder    *Recorder

	mu          sync.Mutex
	recipient   *domain.User
	chatID      string
	messages    []domain.Message
	activeID    string
	replyingTo  *domain.Message
	theme       domain.ChatTheme
	draft       string
	unsubscribe ports.Unsubscribe
}

func NewMessageScreen(frame domain.Frame, deps Deps, nav Navigator) *MessageScreen {
	return &MessageScreen{
		deps:        deps,
		nav:         nav,
		recipientID: frame.Param(domain.ParamRecipientID),
		recorder:    NewRecorder(deps.Audio),
		theme:       "default",
	}
}

func (s *MessageScreen) View() domain.View { return domain.ViewMessages }

func (s *MessageScreen) Mount(ctx context.Context) error {
	recipient, err := s.deps.Social.GetUser(ctx, s.recipientID)
	if err != nil {
		s.deps.Notifier.Say("I couldn't open that conversation.")
		return fmt.Errorf("open chat with %s: %w", s.recipientID, err)
	}
	chatID := social.ChatID(s.deps.User.ID, recipient.ID)

	settings, err := s.deps.Social.GetChatSettings(ctx, chatID)
	if err != nil {
		s.deps.Log.Warn("Chat settings unavailable", zap.String("chat_id", chatID), zap.Error(err))
	}

	s.mu.Lock()
	s.recipient = recipient
	s.chatID = chatID
	if err == nil {
		s.theme = settings.Theme
	}
	s.mu.Unlock()

	unsub, err := s.deps.Social.SubscribeMessages(ctx, chatID, s.onMessages)
	if err != nil {
		return fmt.Errorf("subscribe chat %s: %w", chatID, err)
	}
	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()

	s.deps.Notifier.Say(fmt.Sprintf("Chat with %s.", recipient.Name))
	return nil
}

func (s *MessageScreen) onMessages(msgs []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = msgs
}

func (s *MessageScreen) Unmount() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	s.recorder.Abort(context.Background())
}

// SetActiveMessage marks the message the user played or tapped.
func (s *MessageScreen) SetActiveMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

// SetDraft sets the typed message sent by intent_send_chat_message.
func (s *MessageScreen) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *MessageScreen) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

func (s *MessageScreen) Theme() domain.ChatTheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *MessageScreen) ReplyingTo() *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replyingTo
}

func (s *MessageScreen) RecordingState() domain.RecordingState { return s.recorder.State() }

func (s *MessageScreen) lastReceived() *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].SenderID == s.recipientID {
			m := s.messages[i]
			return &m
		}
	}
	return nil
}

func (s *MessageScreen) active() *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return nil
	}
	for i := range s.messages {
		if s.messages[i].ID == s.activeID {
			m := s.messages[i]
			return &m
		}
	}
	return nil
}

func (s *MessageScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	s.mu.Lock()
	mounted := s.recipient != nil
	s.mu.Unlock()
	if !mounted {
		return
	}

	switch cmd.Intent {
	case domain.IntentReplyToLastMessage:
		p, _ := cmd.Payload().(domain.MessagePayload)
		last := s.lastReceived()
		if last == nil || p.Content == "" {
			s.deps.Notifier.Say("Couldn't find a message to reply to.")
			return
		}
		s.deps.Notifier.Say("Sending reply...")
		s.sendText(ctx, p.Content, last)

	case domain.IntentReactToLastMessage:
		p, _ := cmd.Payload().(domain.EmojiPayload)
		last := s.lastReceived()
		if last == nil || p.EmojiType == "" {
			s.deps.Notifier.Say("Couldn't find a message to react to.")
			return
		}
		glyph, ok := nlu.EmojiGlyph(p.EmojiType)
		if !ok {
			s.deps.Notifier.Say(fmt.Sprintf("Sorry, I don't know the %q reaction.", p.EmojiType))
			return
		}
		if s.react(ctx, last.ID, glyph) {
			s.deps.Notifier.Say("Reacted to the last message with " + glyph)
		}

	case domain.IntentReplyToMessage:
		m := s.active()
		if m == nil {
			s.deps.Notifier.Say("Please select a message to reply to by playing it or tapping it.")
			return
		}
		s.mu.Lock()
		s.replyingTo = m
		s.activeID = ""
		name := s.recipient.Name
		s.mu.Unlock()
		if m.SenderID == s.deps.User.ID {
			name = "your message"
		}
		s.deps.Notifier.Say(fmt.Sprintf("Replying to %s. Say or type your message.", name))

	case domain.IntentReactToMessage:
		p, _ := cmd.Payload().(domain.EmojiPayload)
		m := s.active()
		if m == nil || p.EmojiType == "" {
			s.deps.Notifier.Say("Please select a message to react to by playing it or tapping it.")
			return
		}
		glyph, ok := nlu.EmojiGlyph(p.EmojiType)
		if !ok {
			s.deps.Notifier.Say(fmt.Sprintf("Sorry, I don't know the %q reaction.", p.EmojiType))
			return
		}
		if s.react(ctx, m.ID, glyph) {
			s.SetActiveMessage("")
			s.deps.Notifier.Say("Reacted with " + glyph)
		}

	case domain.IntentGoBack:
		s.nav.GoBack(ctx)

	case domain.IntentRecordMessage:
		if s.recorder.State() != domain.RecordingIdle {
			return
		}
		if err := s.recorder.Start(ctx); err != nil {
			s.deps.Log.Warn("Microphone unavailable", zap.Error(err))
			s.deps.Notifier.Say("I couldn't access the microphone. Please check your permissions.")
			return
		}
		s.deps.Notifier.Say("Recording your message. Say stop when you're done.")

	case domain.IntentStopRecording:
		if s.recorder.State() != domain.RecordingActive {
			return
		}
		clip, err := s.recorder.Stop(ctx)
		if err != nil {
			s.deps.Log.Warn("Stop recording failed", zap.Error(err))
			s.deps.Notifier.Say("Sorry, the recording failed.")
			return
		}
		s.deps.Notifier.Say(fmt.Sprintf("Recorded %d seconds. Say send or re-record.", int(math.Round(clip.Duration))))

	case domain.IntentReRecord:
		if s.recorder.State() != domain.RecordingPreview {
			return
		}
		if err := s.recorder.Start(ctx); err != nil {
			s.deps.Notifier.Say("I couldn't access the microphone. Please check your permissions.")
			return
		}
		s.deps.Notifier.Say("Recording again.")

	case domain.IntentSendChatMessage:
		if s.recorder.State() == domain.RecordingPreview {
			s.sendAudio(ctx)
			return
		}
		s.mu.Lock()
		draft := strings.TrimSpace(s.draft)
		s.mu.Unlock()
		if draft != "" {
			s.deps.Notifier.Say("Sending...")
			if s.sendText(ctx, draft, s.ReplyingTo()) {
				s.SetDraft("")
			}
		}

	case domain.IntentSendTextMessageWithContent:
		p, _ := cmd.Payload().(domain.MessagePayload)
		if p.Content == "" {
			return
		}
		s.deps.Notifier.Say("Sending...")
		s.sendText(ctx, p.Content, s.ReplyingTo())

	case domain.IntentSendVoiceEmoji:
		p, _ := cmd.Payload().(domain.EmojiPayload)
		if p.EmojiType == "" {
			return
		}
		glyph, ok := nlu.EmojiGlyph(p.EmojiType)
		if !ok {
			s.deps.Notifier.Say(fmt.Sprintf("Sorry, I don't know the %q emoji.", p.EmojiType))
			return
		}
		s.deps.Notifier.Say("Sending " + glyph + "...")
		if s.sendText(ctx, glyph, s.ReplyingTo()) {
			s.deps.Notifier.Say("Sent " + glyph + " emoji.")
		}

	case domain.IntentDeleteChat:
		s.mu.Lock()
		chatID := s.chatID
		s.mu.Unlock()
		if err := s.deps.Social.DeleteChat(ctx, chatID); err != nil {
			s.deps.Log.Error("Failed to delete chat", zap.String("chat_id", chatID), zap.Error(err))
			s.deps.Notifier.Say("Sorry, I couldn't delete this chat.")
			return
		}
		s.deps.Notifier.Say("Chat history deleted.")
		s.nav.GoBack(ctx)

	case domain.IntentChangeChatTheme:
		p, _ := cmd.Payload().(domain.ThemePayload)
		theme, ok := domain.ParseChatTheme(p.ThemeName)
		if !ok {
			s.deps.Notifier.Say(fmt.Sprintf("Sorry, there is no %q theme.", p.ThemeName))
			return
		}
		s.mu.Lock()
		chatID := s.chatID
		s.mu.Unlock()
		if err := s.deps.Social.UpdateChatSettings(ctx, chatID, domain.ChatSettings{Theme: theme}); err != nil {
			s.deps.Log.Error("Failed to change chat theme", zap.String("chat_id", chatID), zap.Error(err))
			s.deps.Notifier.Say("Sorry, I couldn't change the theme.")
			return
		}
		s.mu.Lock()
		s.theme = theme
		s.mu.Unlock()
		s.deps.Notifier.Say(fmt.Sprintf("Chat theme changed to %s.", domain.ChatThemes[theme]))
	}
}

func (s *MessageScreen) snippet(m *domain.Message) *domain.ReplySnippet {
	if m == nil {
		return nil
	}
	name := s.deps.User.Name
	if m.SenderID != s.deps.User.ID {
		s.mu.Lock()
		name = s.recipient.Name
		s.mu.Unlock()
	}
	return social.ReplySnippetFor(m, name)
}

func (s *MessageScreen) sendText(ctx context.Context, text string, replyTo *domain.Message) bool {
	_, err := s.deps.Social.SendText(ctx, s.deps.User.ID, s.recipientID, text, s.snippet(replyTo))
	if err != nil {
		s.deps.Log.Error("Failed to send message", zap.Error(err))
		s.deps.Notifier.Say("Sorry, the message could not be sent.")
		return false
	}
	s.clearReply()
	s.deps.Notifier.Say("Message sent.")
	return true
}

func (s *MessageScreen) sendAudio(ctx context.Context) {
	clip, ok := s.recorder.Confirm()
	if !ok {
		return
	}
	s.deps.Notifier.Say("Sending...")
	_, err := s.deps.Social.SendAudio(ctx, s.deps.User.ID, s.recipientID, clip, s.snippet(s.ReplyingTo()))
	if err != nil {
		s.recorder.Fail()
		s.deps.Log.Error("Failed to send voice message", zap.Error(err))
		s.deps.Notifier.Say("Sorry, the message could not be sent.")
		return
	}
	s.recorder.Succeed()
	s.clearReply()
	s.deps.Notifier.Say("Message sent.")
}

func (s *MessageScreen) clearReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyingTo = nil
	s.activeID = ""
}

func (s *MessageScreen) react(ctx context.Context, messageID, glyph string) bool {
	s.mu.Lock()
	chatID := s.chatID
	s.mu.Unlock()
	if _, err := s.deps.Social.ReactToMessage(ctx, chatID, messageID, s.deps.User.ID, glyph); err != nil {
		s.deps.Log.Error("Failed to react to message", zap.String("message_id", messageID), zap.Error(err))
		s.deps.Notifier.Say("Sorry, I couldn't add that reaction.")
		return false
	}
	return true
}
