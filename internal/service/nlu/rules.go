package nlu

import "github.com/seu-repo/voicebook/internal/domain"

type slotRule struct {
	name    string
	intent  domain.Intent
	pattern string
	slots   []string
}

// ruleTable is evaluated top to bottom and the first match wins. Capture
// groups map positionally onto slots. view_group_by_name must stay ahead
// of open_profile since both accept a trailing name.
var ruleTable = []slotRule{
	{
		name:    "reply_to_last_message",
		intent:  domain.IntentReplyToLastMessage,
		pattern: `^(?:reply to last message|last message reply|sesh message er reply koro je|last message er reply koro je|last message a reply koro)\s+(.+)$`,
		slots:   []string{domain.SlotMessageContent},
	},
	{
		name:    "send_text_with_content",
		intent:  domain.IntentSendTextMessageWithContent,
		pattern: `^(?:text|message|likho|lekho|pathao)\s+(?:(?:him|her|them)\s+)?(?:that\s+)?(.+)$`,
		slots:   []string{domain.SlotMessageContent},
	},
	{
		name:    "add_text_to_story",
		intent:  domain.IntentAddTextToStory,
		pattern: `^(?:story te likho|write on story|story te lekho|story likho|add text)\s+(.+)$`,
		slots:   []string{domain.SlotText},
	},
	{
		name:    "open_chat",
		intent:  domain.IntentOpenChat,
		pattern: `^(?:open chat with|chat with|message pathao|message|chat koro)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "search_user",
		intent:  domain.IntentSearchUser,
		pattern: `^(?:search for|find|look up|khojo|search)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "search_user_suffix",
		intent:  domain.IntentSearchUser,
		pattern: `^(.+?)\s+(?:ke|k)\s+(?:khojo|khujo|khuje dao|search koro)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "add_friend",
		intent:  domain.IntentAddFriend,
		pattern: `^(?:add|friend request|bondhu banaw)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "accept_request",
		intent:  domain.IntentAcceptRequest,
		pattern: `^(?:accept request from|accept)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "decline_request",
		intent:  domain.IntentDeclineRequest,
		pattern: `^(?:decline request from|decline)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "block_user",
		intent:  domain.IntentBlockUser,
		pattern: `^(?:block)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "unblock_user",
		intent:  domain.IntentUnblockUser,
		pattern: `^(?:unblock)\s+(.+)$`,
		slots:   []string{domain.SlotTargetName},
	},
	{
		name:    "generate_image",
		intent:  domain.IntentGenerateImage,
		pattern: `^(?:generate|create|make|draw)\s+(?:an image of\s+)?(.+)$`,
		slots:   []string{domain.SlotPrompt},
	},
	{
		name:    "update_profile",
		intent:  domain.IntentUpdateProfile,
		pattern: `^(?:set|change|update)\s+(?:my\s+)?(name|bio|work|education|hometown|current city|relationship status)\s+to\s+(.+)$`,
		slots:   []string{domain.SlotField, domain.SlotValueName},
	},
	{
		name:    "vote_poll",
		intent:  domain.IntentVotePoll,
		pattern: `^(?:vote for|select|choose)\s+(?:option\s+)?(.+)$`,
		slots:   []string{domain.SlotOptionText},
	},
	{
		name:    "set_campaign_budget",
		intent:  domain.IntentSetCampaignBudget,
		pattern: `^(?:set\s+)?(?:the\s+)?(?:campaign\s+)?(?:budget|বাজেট)\s+(?:to\s+|is\s+)?(\d+(?:\.\d+)?)(?:\s*(?:taka|tk|bdt|dollars?|usd|টাকা))?$`,
		slots:   []string{domain.SlotBudgetAmount},
	},
	{
		name:    "set_sponsor_name",
		intent:  domain.IntentSetSponsorName,
		pattern: `^(?:set\s+)?sponsor\s+name\s+(?:to\s+|is\s+)?(.+)$`,
		slots:   []string{domain.SlotSponsorName},
	},
	{
		name:    "set_campaign_caption",
		intent:  domain.IntentSetCampaignCaption,
		pattern: `^(?:set\s+)?(?:campaign\s+|ad\s+)?caption\s+(?:to\s+|is\s+)?(.+)$`,
		slots:   []string{domain.SlotCaptionText},
	},
	{
		name:    "set_media_type",
		intent:  domain.IntentSetMediaType,
		pattern: `^(?:set\s+)?media(?:\s+type)?\s+(?:to\s+)?(image|photo|video|audio)$`,
		slots:   []string{domain.SlotMediaType},
	},
	{
		name:    "set_story_privacy",
		intent:  domain.IntentSetStoryPrivacy,
		pattern: `^(?:set\s+)?story\s+privacy\s+(?:to\s+)?(public|friends|only me)$`,
		slots:   []string{domain.SlotPrivacyLevel},
	},
	{
		name:    "change_chat_theme",
		intent:  domain.IntentChangeChatTheme,
		pattern: `^(?:change|set|switch)\s+(?:the\s+)?(?:chat\s+)?theme\s+to\s+(.+)$`,
		slots:   []string{domain.SlotThemeName},
	},
	{
		name:    "filter_groups_by_category",
		intent:  domain.IntentFilterGroupsByCategory,
		pattern: `(?:go to|open|show|dekhaw|যাও|খুলো|দেখাও)?\s*(general|food|gaming|music|technology|travel|art & culture|sports)\s*(?:group|groups|গ্রুপে|গ্রুপ|ফিড|খুলো|খোলো|যাও|e jao|a jao)`,
		slots:   []string{domain.SlotCategoryName},
	},
	{
		name:    "view_group_by_name",
		intent:  domain.IntentViewGroupByName,
		pattern: `^(?:go to|open|view|show|jao)?\s*(.+?)\s+(?:group|groups)(?:\s+a jao)?$`,
		slots:   []string{domain.SlotGroupName},
	},
	{
		name:    "open_profile",
		intent:  domain.IntentOpenProfile,
		pattern: `^(?:go to|open|show|view|jao|dekhao)\s+(.+?)(?:'s)?(?:\s+profile|\s+er profile|\s+a jao)?$`,
		slots:   []string{domain.SlotTargetName},
	},
}

// reservedNavWords never name a profile; "open settings" is navigation.
var reservedNavWords = map[string]struct{}{
	"message": {}, "messages": {},
	"friend": {}, "friends": {},
	"room": {}, "rooms": {},
	"setting": {}, "settings": {},
	"home": {}, "feed": {},
	"group": {}, "groups": {},
}

var profileFields = map[string]string{
	"current city":        "currentCity",
	"relationship status": "relationshipStatus",
}
