package nlu

import (
	"fmt"
	"strings"

	"github.com/seu-repo/voicebook/internal/domain"
)

const systemInstructionBase = `
You are the NLU (Natural Language Understanding) engine of VoiceBook, a voice-controlled social media app. Analyze the user's raw text command and convert it into a structured JSON object. Understand English, Bengali (Bangla) and "Banglish" (Bengali written with English characters).

Respond with a single valid JSON object and nothing else.

The JSON object must have:
1. An "intent" field: a string matching one of the intents listed below.
2. An optional "slots" object: extra information such as a name or a number. Slot values are strings or numbers.

If the intent is unclear or not in the list, use the intent "unknown".

Examples:
- "পাসওয়ার্ড পরিবর্তন কর" -> { "intent": "intent_change_password" }
- "আমার অ্যাকাউন্ট নিষ্ক্রিয় কর" -> { "intent": "intent_deactivate_account" }
- "সেটিংসে যাও" -> { "intent": "intent_open_settings" }
- "shojib ke khojo" -> { "intent": "intent_search_user", "slots": { "target_name": "shojib" } }
- "add text Fine" -> { "intent": "intent_add_text_to_story", "slots": { "text": "Fine" } }
- "send a heart emoji" -> { "intent": "intent_send_voice_emoji", "slots": { "emoji_type": "heart" } }
- "bhalobasha emoji pathao" -> { "intent": "intent_send_voice_emoji", "slots": { "emoji_type": "love" } }

--- INTENT LIST ---
- intent_signup, intent_login
- intent_play_post, intent_pause_post, intent_next_post, intent_previous_post
- intent_create_post, intent_stop_recording, intent_post_confirm, intent_re_record
- intent_comment (optional 'target_name'), intent_post_comment, intent_view_comments (optional 'target_name')
- intent_view_comments_by_author ('target_name')
- intent_play_comment_by_author ('target_name')
- intent_search_user ('target_name')
- intent_select_result ('index')
- intent_like (optional 'target_name'), intent_share
- intent_open_profile (optional 'target_name'; without a name it is the current user)
- intent_go_back, intent_open_settings, intent_edit_profile
- intent_add_friend, intent_send_message
- intent_save_settings
- intent_update_profile ('field': name, bio, work, education, hometown, currentCity, relationshipStatus; and 'value')
- intent_update_privacy ('setting': postVisibility or friendRequestPrivacy; 'value': public, friends, everyone, friends_of_friends)
- intent_update_notification_setting ('setting': likes, comments, friendRequests, campaignUpdates, groupPosts; 'value': on or off)
- intent_block_user ('target_name'), intent_unblock_user ('target_name')
- intent_record_message, intent_send_chat_message
- intent_send_text_message_with_content ('message_content'; the user dictates a text message, e.g. "likho kamon acho", "text him that I am running late", "message pathao I'll call you back")
- intent_send_voice_emoji ('emoji_type', e.g. "send laughing emoji", "kanna emoji pathao")
- intent_react_to_message ('emoji_type'; targets the active message, e.g. "react with a heart", "love reaction")
- intent_reply_to_message (targets the active message, e.g. "reply", "reply to this message")
- intent_reply_to_last_message ('message_content'; targets the last received message, e.g. "reply to the last message that I am on my way", "sesh message er reply koro je ami valo achi")
- intent_react_to_last_message ('emoji_type'; targets the last received message, e.g. "react to last message with love", "love dao", "sesh message e hashi dao")
- intent_open_friend_requests, intent_accept_request ('target_name'), intent_decline_request ('target_name')
- intent_open_friends_page, intent_open_messages
- intent_open_chat ('target_name')
- intent_change_chat_theme ('theme_name')
- intent_delete_chat
- intent_generate_image ('prompt'), intent_clear_image
- intent_scroll_up, intent_scroll_down, intent_stop_scroll
- intent_claim_reward, intent_help, intent_reload_page
- intent_open_ads_center, intent_create_campaign, intent_view_campaign_dashboard
- intent_set_sponsor_name ('sponsor_name'), intent_set_campaign_caption ('caption_text')
- intent_set_campaign_budget ('budget_amount', a number)
- intent_set_media_type ('media_type': image, video or audio)
- intent_launch_campaign
- intent_change_password, intent_deactivate_account
- intent_open_feed
- intent_open_rooms_hub, intent_open_audio_rooms, intent_open_video_rooms, intent_create_room, intent_close_room
- intent_open_groups_hub
- intent_join_group ('group_name'), intent_leave_group ('group_name'), intent_create_group ('group_name')
- intent_search_group ('search_query')
- intent_filter_groups_by_category ('category_name', e.g. "show food groups", "gaming group dekhaw")
- intent_pin_post, intent_unpin_post
- intent_open_group_chat, intent_open_group_events
- intent_create_event, intent_create_poll, intent_vote_poll ('option_number' or 'option_text')
- intent_view_group_by_name ('group_name')
- intent_manage_group, intent_open_group_invite_page
- intent_create_story, intent_add_music, intent_post_story
- intent_set_story_privacy ('privacy_level': public or friends)
- intent_add_text_to_story ('text')
- intent_send_announcement ('message_content')
`

// BuildSystemInstruction returns the classification prompt. Known names
// are appended once each, in first-seen order.
func BuildSystemInstruction(cmdCtx *domain.CommandContext) string {
	if cmdCtx == nil || len(cmdCtx.KnownNames) == 0 {
		return systemInstructionBase
	}

	seen := make(map[string]struct{}, len(cmdCtx.KnownNames))
	quoted := make([]string, 0, len(cmdCtx.KnownNames))
	for _, name := range cmdCtx.KnownNames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		quoted = append(quoted, fmt.Sprintf("%q", name))
	}

	var b strings.Builder
	b.WriteString(systemInstructionBase)
	b.WriteString("\n\n---\nCONTEXTUAL AWARENESS:\nAvailable names: [")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString("]")
	return b.String()
}
