package domain

import "sort"

// Intent names a user action recognised by the command pipeline.
type Intent string

const (
	IntentUnknown Intent = "unknown"

	// Auth
	IntentSignup Intent = "intent_signup"
	IntentLogin  Intent = "intent_login"

	// Feed playback
	IntentPlayPost     Intent = "intent_play_post"
	IntentPausePost    Intent = "intent_pause_post"
	IntentNextPost     Intent = "intent_next_post"
	IntentPreviousPost Intent = "intent_previous_post"

	// Recording / composing
	IntentCreatePost    Intent = "intent_create_post"
	IntentStopRecording Intent = "intent_stop_recording"
	IntentPostConfirm   Intent = "intent_post_confirm"
	IntentReRecord      Intent = "intent_re_record"

	// Comments
	IntentComment              Intent = "intent_comment"
	IntentPostComment          Intent = "intent_post_comment"
	IntentViewComments         Intent = "intent_view_comments"
	IntentViewCommentsByAuthor Intent = "intent_view_comments_by_author"
	IntentPlayCommentByAuthor  Intent = "intent_play_comment_by_author"

	// People
	IntentSearchUser   Intent = "intent_search_user"
	IntentSelectResult Intent = "intent_select_result"
	IntentLike         Intent = "intent_like"
	IntentShare        Intent = "intent_share"
	IntentOpenProfile  Intent = "intent_open_profile"
	IntentAddFriend    Intent = "intent_add_friend"
	IntentSendMessage  Intent = "intent_send_message"
	IntentBlockUser    Intent = "intent_block_user"
	IntentUnblockUser  Intent = "intent_unblock_user"

	// Navigation
	IntentGoBack             Intent = "intent_go_back"
	IntentOpenSettings       Intent = "intent_open_settings"
	IntentEditProfile        Intent = "intent_edit_profile"
	IntentOpenFeed           Intent = "intent_open_feed"
	IntentOpenFriendRequests Intent = "intent_open_friend_requests"
	IntentOpenFriendsPage    Intent = "intent_open_friends_page"
	IntentOpenMessages       Intent = "intent_open_messages"
	IntentOpenChat           Intent = "intent_open_chat"
	IntentReloadPage         Intent = "intent_reload_page"
	IntentScrollUp           Intent = "intent_scroll_up"
	IntentScrollDown         Intent = "intent_scroll_down"
	IntentStopScroll         Intent = "intent_stop_scroll"
	IntentHelp               Intent = "intent_help"
	IntentClaimReward        Intent = "intent_claim_reward"

	// Settings
	IntentSaveSettings              Intent = "intent_save_settings"
	IntentUpdateProfile             Intent = "intent_update_profile"
	IntentUpdatePrivacy             Intent = "intent_update_privacy"
	IntentUpdateNotificationSetting Intent = "intent_update_notification_setting"
	IntentChangePassword            Intent = "intent_change_password"
	IntentDeactivateAccount         Intent = "intent_deactivate_account"

	// Messaging
	IntentRecordMessage              Intent = "intent_record_message"
	IntentSendChatMessage            Intent = "intent_send_chat_message"
	IntentSendTextMessageWithContent Intent = "intent_send_text_message_with_content"
	IntentSendVoiceEmoji             Intent = "intent_send_voice_emoji"
	IntentReactToMessage             Intent = "intent_react_to_message"
	IntentReplyToMessage             Intent = "intent_reply_to_message"
	IntentReplyToLastMessage         Intent = "intent_reply_to_last_message"
	IntentReactToLastMessage         Intent = "intent_react_to_last_message"
	IntentAcceptRequest              Intent = "intent_accept_request"
	IntentDeclineRequest             Intent = "intent_decline_request"
	IntentChangeChatTheme            Intent = "intent_change_chat_theme"
	IntentDeleteChat                 Intent = "intent_delete_chat"

	// Images
	IntentGenerateImage Intent = "intent_generate_image"
	IntentClearImage    Intent = "intent_clear_image"

	// Ads
	IntentOpenAdsCenter         Intent = "intent_open_ads_center"
	IntentCreateCampaign        Intent = "intent_create_campaign"
	IntentViewCampaignDashboard Intent = "intent_view_campaign_dashboard"
	IntentSetSponsorName        Intent = "intent_set_sponsor_name"
	IntentSetCampaignCaption    Intent = "intent_set_campaign_caption"
	IntentSetCampaignBudget     Intent = "intent_set_campaign_budget"
	IntentSetMediaType          Intent = "intent_set_media_type"
	IntentLaunchCampaign        Intent = "intent_launch_campaign"

	// Rooms
	IntentOpenRoomsHub   Intent = "intent_open_rooms_hub"
	IntentOpenAudioRooms Intent = "intent_open_audio_rooms"
	IntentOpenVideoRooms Intent = "intent_open_video_rooms"
	IntentCreateRoom     Intent = "intent_create_room"
	IntentCloseRoom      Intent = "intent_close_room"

	// Groups
	IntentOpenGroupsHub          Intent = "intent_open_groups_hub"
	IntentJoinGroup              Intent = "intent_join_group"
	IntentLeaveGroup             Intent = "intent_leave_group"
	IntentCreateGroup            Intent = "intent_create_group"
	IntentSearchGroup            Intent = "intent_search_group"
	IntentFilterGroupsByCategory Intent = "intent_filter_groups_by_category"
	IntentPinPost                Intent = "intent_pin_post"
	IntentUnpinPost              Intent = "intent_unpin_post"
	IntentOpenGroupChat          Intent = "intent_open_group_chat"
	IntentOpenGroupEvents        Intent = "intent_open_group_events"
	IntentCreateEvent            Intent = "intent_create_event"
	IntentCreatePoll             Intent = "intent_create_poll"
	IntentVotePoll               Intent = "intent_vote_poll"
	IntentViewGroupByName        Intent = "intent_view_group_by_name"
	IntentManageGroup            Intent = "intent_manage_group"
	IntentOpenGroupInvitePage    Intent = "intent_open_group_invite_page"
	IntentSendAnnouncement       Intent = "intent_send_announcement"

	// Stories
	IntentCreateStory     Intent = "intent_create_story"
	IntentAddMusic        Intent = "intent_add_music"
	IntentPostStory       Intent = "intent_post_story"
	IntentSetStoryPrivacy Intent = "intent_set_story_privacy"
	IntentAddTextToStory  Intent = "intent_add_text_to_story"
)

var catalog = map[Intent]struct{}{}

func init() {
	for _, i := range []Intent{
		IntentUnknown,
		IntentSignup, IntentLogin,
		IntentPlayPost, IntentPausePost, IntentNextPost, IntentPreviousPost,
		IntentCreatePost, IntentStopRecording, IntentPostConfirm, IntentReRecord,
		IntentComment, IntentPostComment, IntentViewComments, IntentViewCommentsByAuthor, IntentPlayCommentByAuthor,
		IntentSearchUser, IntentSelectResult, IntentLike, IntentShare, IntentOpenProfile,
		IntentAddFriend, IntentSendMessage, IntentBlockUser, IntentUnblockUser,
		IntentGoBack, IntentOpenSettings, IntentEditProfile, IntentOpenFeed, IntentOpenFriendRequests,
		IntentOpenFriendsPage, IntentOpenMessages, IntentOpenChat, IntentReloadPage,
		IntentScrollUp, IntentScrollDown, IntentStopScroll, IntentHelp, IntentClaimReward,
		IntentSaveSettings, IntentUpdateProfile, IntentUpdatePrivacy, IntentUpdateNotificationSetting,
		IntentChangePassword, IntentDeactivateAccount,
		IntentRecordMessage, IntentSendChatMessage, IntentSendTextMessageWithContent, IntentSendVoiceEmoji,
		IntentReactToMessage, IntentReplyToMessage, IntentReplyToLastMessage, IntentReactToLastMessage,
		IntentAcceptRequest, IntentDeclineRequest, IntentChangeChatTheme, IntentDeleteChat,
		IntentGenerateImage, IntentClearImage,
		IntentOpenAdsCenter, IntentCreateCampaign, IntentViewCampaignDashboard, IntentSetSponsorName,
		IntentSetCampaignCaption, IntentSetCampaignBudget, IntentSetMediaType, IntentLaunchCampaign,
		IntentOpenRoomsHub, IntentOpenAudioRooms, IntentOpenVideoRooms, IntentCreateRoom, IntentCloseRoom,
		IntentOpenGroupsHub, IntentJoinGroup, IntentLeaveGroup, IntentCreateGroup, IntentSearchGroup,
		IntentFilterGroupsByCategory, IntentPinPost, IntentUnpinPost, IntentOpenGroupChat, IntentOpenGroupEvents,
		IntentCreateEvent, IntentCreatePoll, IntentVotePoll, IntentViewGroupByName, IntentManageGroup,
		IntentOpenGroupInvitePage, IntentSendAnnouncement,
		IntentCreateStory, IntentAddMusic, IntentPostStory, IntentSetStoryPrivacy, IntentAddTextToStory,
	} {
		catalog[i] = struct{}{}
	}
}

// Valid reports whether the intent belongs to the catalog.
func (i Intent) Valid() bool {
	_, ok := catalog[i]
	return ok
}

func (i Intent) String() string {
	return string(i)
}

// ParseIntent maps a raw string onto the catalog. Anything unrecognised
// becomes IntentUnknown.
func ParseIntent(s string) Intent {
	i := Intent(s)
	if i.Valid() {
		return i
	}
	return IntentUnknown
}

// Intents returns the catalog sorted by name.
func Intents() []Intent {
	out := make([]Intent, 0, len(catalog))
	for i := range catalog {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
