package domain

import (
	"strings"
	"time"
)

type User struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Username                 string     `json:"username"`
	AvatarURL                string     `json:"avatarUrl,omitempty"`
	Bio                      string     `json:"bio,omitempty"`
	BlockedUserIDs           []string   `json:"blockedUserIds,omitempty"`
	CommentingSuspendedUntil *time.Time `json:"commentingSuspendedUntil,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
}

// CommentingSuspended reports whether the user may not comment at now.
func (u *User) CommentingSuspended(now time.Time) bool {
	return u.CommentingSuspendedUntil != nil && u.CommentingSuspendedUntil.After(now)
}

func (u *User) Author() Author {
	return Author{ID: u.ID, Name: u.Name, Username: u.Username, AvatarURL: u.AvatarURL}
}

// Author is the denormalised copy of a user stored on posts and comments.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type CommentType string

const (
	CommentText  CommentType = "text"
	CommentImage CommentType = "image"
	CommentAudio CommentType = "audio"
)

type Comment struct {
	ID        string            `json:"id"`
	PostID    string            `json:"postId"`
	ParentID  string            `json:"parentId,omitempty"`
	Author    Author            `json:"author"`
	Type      CommentType       `json:"type"`
	Text      string            `json:"text,omitempty"`
	ImageURL  string            `json:"imageUrl,omitempty"`
	AudioURL  string            `json:"audioUrl,omitempty"`
	Duration  float64           `json:"duration,omitempty"`
	Reactions map[string]string `json:"reactions,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type PollOption struct {
	Text    string   `json:"text"`
	Votes   int      `json:"votes"`
	VotedBy []string `json:"votedBy"`
}

type Poll struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// HasVoted reports whether userID voted for any option.
func (p *Poll) HasVoted(userID string) bool {
	for _, o := range p.Options {
		for _, id := range o.VotedBy {
			if id == userID {
				return true
			}
		}
	}
	return false
}

// OptionIndex finds an option by case-insensitive text.
func (p *Poll) OptionIndex(text string) int {
	text = strings.ToLower(strings.TrimSpace(text))
	for i, o := range p.Options {
		if strings.ToLower(o.Text) == text {
			return i
		}
	}
	return -1
}

type Post struct {
	ID           string            `json:"id"`
	Author       Author            `json:"author"`
	Caption      string            `json:"caption,omitempty"`
	AudioURL     string            `json:"audioUrl,omitempty"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	Duration     float64           `json:"duration,omitempty"`
	Reactions    map[string]string `json:"reactions,omitempty"`
	Comments     []Comment         `json:"comments,omitempty"`
	CommentCount int               `json:"commentCount"`
	Poll         *Poll             `json:"poll,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageAudio MessageType = "audio"
	MessageImage MessageType = "image"
	MessageVideo MessageType = "video"
)

// ReplySnippet is the quoted part of a message being replied to.
type ReplySnippet struct {
	MessageID  string `json:"messageId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

type Message struct {
	ID          string            `json:"id"`
	SenderID    string            `json:"senderId"`
	RecipientID string            `json:"recipientId"`
	Type        MessageType       `json:"type"`
	Text        string            `json:"text,omitempty"`
	MediaURL    string            `json:"mediaUrl,omitempty"`
	AudioURL    string            `json:"audioUrl,omitempty"`
	Duration    float64           `json:"duration,omitempty"`
	ReplyTo     *ReplySnippet     `json:"replyTo,omitempty"`
	Reactions   map[string]string `json:"reactions,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Snippet returns the text quoted when replying to m.
func (m *Message) Snippet() string {
	if m.Text != "" {
		return m.Text
	}
	return "Media"
}

type ChatTheme string

// ChatThemes lists the selectable chat themes and their display names.
var ChatThemes = map[ChatTheme]string{
	"default":  "Default",
	"sunset":   "Sunset",
	"ocean":    "Ocean",
	"forest":   "Forest",
	"midnight": "Midnight",
	"rose":     "Rose",
}

// ParseChatTheme matches a spoken theme name against ChatThemes.
func ParseChatTheme(s string) (ChatTheme, bool) {
	t := ChatTheme(strings.ToLower(strings.TrimSpace(s)))
	_, ok := ChatThemes[t]
	return t, ok
}

type ChatSettings struct {
	Theme ChatTheme `json:"theme"`
}

type MediaType string

const (
	MediaNone  MediaType = ""
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "photo", "picture", "chobi", "ছবি":
		return MediaImage
	case "video", "ভিডিও":
		return MediaVideo
	case "audio", "voice", "অডিও":
		return MediaAudio
	}
	return MediaNone
}

type CampaignStatus string

const (
	CampaignPending  CampaignStatus = "pending"
	CampaignActive   CampaignStatus = "active"
	CampaignRejected CampaignStatus = "rejected"
)

type Campaign struct {
	ID            string         `json:"id"`
	SponsorID     string         `json:"sponsorId"`
	SponsorName   string         `json:"sponsorName"`
	Caption       string         `json:"caption"`
	Budget        float64        `json:"budget"`
	MediaType     MediaType      `json:"mediaType,omitempty"`
	MediaURL      string         `json:"mediaUrl,omitempty"`
	Status        CampaignStatus `json:"status"`
	TransactionID string         `json:"transactionId,omitempty"`
	Views         int            `json:"views"`
	Clicks        int            `json:"clicks"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Validate checks a campaign draft before submission.
func (c *Campaign) Validate() error {
	switch {
	case strings.TrimSpace(c.SponsorName) == "":
		return ErrInvalidCampaign
	case strings.TrimSpace(c.Caption) == "":
		return ErrInvalidCampaign
	case c.Budget <= 0:
		return ErrInvalidCampaign
	}
	return nil
}

// Upload is the result of storing a media blob.
type Upload struct {
	URL          string `json:"url"`
	ResourceType string `json:"resourceType"`
}

// AudioClip is a finished recording.
type AudioClip struct {
	Data     []byte
	MimeType string
	Duration float64
}

// Resolution sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
	SourceNone   = "none"
)

// CommandLogEntry records one processed voice command.
type CommandLogEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	Utterance string    `json:"utterance"`
	Intent    Intent    `json:"intent" gorm:"index"`
	Slots     string    `json:"slots,omitempty"`
	Source    string    `json:"source"`
	View      View      `json:"view"`
	FrameID   string    `json:"frame_id"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}
