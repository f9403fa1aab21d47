package domain

// View identifies a screen of the client.
type View string

const (
	ViewAuth            View = "auth"
	ViewFeed            View = "feed"
	ViewExplore         View = "explore"
	ViewProfile         View = "profile"
	ViewPostDetails     View = "post_details"
	ViewCreateComment   View = "create_comment"
	ViewCreatePost      View = "create_post"
	ViewCreateStory     View = "create_story"
	ViewConversations   View = "conversations"
	ViewMessages        View = "messages"
	ViewSettings        View = "settings"
	ViewFriends         View = "friends"
	ViewFriendRequests  View = "friend_requests"
	ViewSearchResults   View = "search_results"
	ViewAdsCenter       View = "ads_center"
	ViewCampaigns       View = "campaign_dashboard"
	ViewRoomsHub        View = "rooms_hub"
	ViewAudioRooms      View = "audio_rooms"
	ViewVideoRooms      View = "video_rooms"
	ViewGroupsHub       View = "groups_hub"
	ViewGroupPage       View = "group_page"
	ViewManageGroup     View = "manage_group"
	ViewGroupChat       View = "group_chat"
	ViewGroupEvents     View = "group_events"
	ViewGroupInvite     View = "group_invite"
	ViewImageGeneration View = "image_generation"
)

// Frame parameter keys.
const (
	ParamPostID      = "post_id"
	ParamRecipientID = "recipient_id"
	ParamCommentMode = "comment_mode"
	ParamUsername    = "username"
	ParamGroupName   = "group_name"
	ParamCategory    = "category"
	ParamQuery       = "query"
	ParamPrompt      = "prompt"
	ParamParentID    = "parent_id"
	ParamNewComment  = "new_comment_id"
)

// Frame is one entry of the navigation stack. ID is unique per push so a
// command issued on one frame is never applied to another.
type Frame struct {
	ID     string            `json:"id"`
	View   View              `json:"view"`
	Params map[string]string `json:"params,omitempty"`
}

func (f Frame) Param(key string) string {
	if f.Params == nil {
		return ""
	}
	return f.Params[key]
}
