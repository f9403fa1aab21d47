package domain

import (
	"strconv"
	"strings"
)

// Payload is the strongly typed view of a command's slots. Each slot-bearing
// intent decodes into exactly one variant; slot-less intents have none.
type Payload interface {
	isPayload()
}

type TargetPayload struct {
	TargetName string
}

type MessagePayload struct {
	Content string
}

type EmojiPayload struct {
	EmojiType string
}

type ProfileFieldPayload struct {
	Field string
	Value string
}

type SettingPayload struct {
	Setting string
	Value   string
}

type PromptPayload struct {
	Prompt string
}

type TextPayload struct {
	Text string
}

type SelectPayload struct {
	// Index is 1-based; zero means no index was given.
	Index int
}

type ThemePayload struct {
	ThemeName string
}

type GroupPayload struct {
	GroupName string
}

type SearchPayload struct {
	Query string
}

type CategoryPayload struct {
	Category string
}

type PollVotePayload struct {
	// OptionNumber is 1-based; zero means the option was given as text.
	OptionNumber int
	OptionText   string
}

type SponsorPayload struct {
	Name string
}

type CaptionPayload struct {
	Caption string
}

type BudgetPayload struct {
	Amount float64
	Valid  bool
}

type MediaTypePayload struct {
	MediaType MediaType
}

type StoryPrivacyPayload struct {
	Level string
}

func (TargetPayload) isPayload()       {}
func (MessagePayload) isPayload()      {}
func (EmojiPayload) isPayload()        {}
func (ProfileFieldPayload) isPayload() {}
func (SettingPayload) isPayload()      {}
func (PromptPayload) isPayload()       {}
func (TextPayload) isPayload()         {}
func (SelectPayload) isPayload()       {}
func (ThemePayload) isPayload()        {}
func (GroupPayload) isPayload()        {}
func (SearchPayload) isPayload()       {}
func (CategoryPayload) isPayload()     {}
func (PollVotePayload) isPayload()     {}
func (SponsorPayload) isPayload()      {}
func (CaptionPayload) isPayload()      {}
func (BudgetPayload) isPayload()       {}
func (MediaTypePayload) isPayload()    {}
func (StoryPrivacyPayload) isPayload() {}

// Payload decodes the slots into the variant declared for the intent. It
// returns nil for intents without slots. Missing slots decode to zero values,
// since any intent may arrive with or without its slots.
func (c ResolvedCommand) Payload() Payload {
	get := func(name string) string {
		v, _ := c.Slots.Get(name)
		return v
	}

	switch c.Intent {
	case IntentSearchUser, IntentOpenProfile, IntentAddFriend, IntentAcceptRequest,
		IntentDeclineRequest, IntentBlockUser, IntentUnblockUser, IntentOpenChat,
		IntentComment, IntentLike, IntentViewComments, IntentViewCommentsByAuthor,
		IntentPlayCommentByAuthor:
		return TargetPayload{TargetName: get(SlotTargetName)}
	case IntentSendTextMessageWithContent, IntentReplyToLastMessage, IntentSendAnnouncement:
		return MessagePayload{Content: get(SlotMessageContent)}
	case IntentSendVoiceEmoji, IntentReactToMessage, IntentReactToLastMessage:
		return EmojiPayload{EmojiType: get(SlotEmojiType)}
	case IntentUpdateProfile:
		return ProfileFieldPayload{Field: get(SlotField), Value: get(SlotValueName)}
	case IntentUpdatePrivacy, IntentUpdateNotificationSetting:
		return SettingPayload{Setting: get(SlotSetting), Value: get(SlotValueName)}
	case IntentGenerateImage:
		return PromptPayload{Prompt: get(SlotPrompt)}
	case IntentAddTextToStory:
		return TextPayload{Text: get(SlotText)}
	case IntentSelectResult:
		n, _ := c.Slots.Int(SlotIndex)
		return SelectPayload{Index: n}
	case IntentChangeChatTheme:
		return ThemePayload{ThemeName: get(SlotThemeName)}
	case IntentJoinGroup, IntentLeaveGroup, IntentCreateGroup, IntentViewGroupByName:
		return GroupPayload{GroupName: get(SlotGroupName)}
	case IntentSearchGroup:
		return SearchPayload{Query: get(SlotSearchQuery)}
	case IntentFilterGroupsByCategory:
		return CategoryPayload{Category: get(SlotCategoryName)}
	case IntentVotePoll:
		return decodePollVote(c.Slots)
	case IntentSetSponsorName:
		return SponsorPayload{Name: get(SlotSponsorName)}
	case IntentSetCampaignCaption:
		return CaptionPayload{Caption: get(SlotCaptionText)}
	case IntentSetCampaignBudget:
		v, ok := c.Slots[SlotBudgetAmount]
		if !ok {
			return BudgetPayload{}
		}
		n, ok := v.Number()
		return BudgetPayload{Amount: n, Valid: ok && n > 0}
	case IntentSetMediaType:
		return MediaTypePayload{MediaType: ParseMediaType(get(SlotMediaType))}
	case IntentSetStoryPrivacy:
		return StoryPrivacyPayload{Level: get(SlotPrivacyLevel)}
	}
	return nil
}

func decodePollVote(s Slots) PollVotePayload {
	if n, ok := s.Int(SlotOptionNumber); ok && n > 0 {
		return PollVotePayload{OptionNumber: n}
	}
	text, _ := s.Get(SlotOptionText)
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil && n > 0 {
		return PollVotePayload{OptionNumber: n}
	}
	return PollVotePayload{OptionText: text}
}
