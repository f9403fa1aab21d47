package nlu

import "github.com/seu-repo/voicebook/internal/domain"

type phraseGroup struct {
	intent  domain.Intent
	phrases []string
}

// phraseTable is matched by whole-utterance equality. Order matters: a
// phrase listed under two intents resolves to the earlier one.
var phraseTable = []phraseGroup{
	{domain.IntentLogin, []string{
		"log in", "login", "login koro", "লগ ইন", "লগইন",
	}},
	{domain.IntentSignup, []string{
		"sign up", "signup", "register", "create account", "নতুন অ্যাকাউন্ট", "সাইন আপ",
	}},

	// Navigation
	{domain.IntentGoBack, []string{
		"go back", "back", "return", "exit", "nevermind", "cancel", "phire jao", "pechone jao",
		"back koro", "ফিরে যাও", "পেছনে যাও", "ব্যাক কর", "আগের পেজে যাও", "পেছনে যাও", "ফিরে যাও",
		"আগের পেজে যাও", "ব্যাক করো", "আগের দিকে ফিরে যাও", "previous page", "back page khulo",
		"back to previous", "go previous", "page back khulo", "move back", "previous khulo",
	}},
	{domain.IntentOpenFeed, []string{
		"go home", "show feed", "open feed", "amar feed", "হোম", "ফিড", "আমার ফিড", "হোমে যাও",
		"হোম এ যাও", "হোম খুলো", "শুরুতে যাও", "মেইন পেজে যাও", "প্রথম পেজ খোলো", "hom e jao", "hom jao",
		"home jao", "open home", "back to home", "take me home", "open main page", "show home page",
	}},
	{domain.IntentOpenFriendsPage, []string{
		"open friends", "show friends", "friends", "friend list", "বন্ধু", "ফ্রেন্ডস", "বন্ধুদের দেখাও",
		"friends a jao", "ফ্রেন্ডসে যাও", "ফ্রেন্ড এ যাও", "ফ্রেন্ড লিস্ট খোলো", "আমার ফ্রেন্ডস দেখাও",
		"বন্ধুদের লিস্ট খোলো", "বন্ধুদের কাছে যাও", "amar friends dekhte chai", "friend e jao",
		"friends open", "go to friends", "open friends list", "see my friends", "friends section khulo",
		"all friends list open", "ফ্রেন্ড সাজেশন খোলো", "ফ্রেন্ড সাজেশন দেখাও",
		"সাজেস্টেড ফ্রেন্ডস খোলো", "সাজেস্টেড লিস্ট দেখাও", "বন্ধু সাজেশন দেখাও",
		"amar friend suggestion dekhte chai", "suggestion e jao", "friend suggestion open",
		"show suggestions", "open friend suggestions", "see suggested friends", "friend recommend page",
		"check suggestions", "recommended friends list", "সব বন্ধু দেখাও", "আমার সব বন্ধু দেখাও",
		"অল ফ্রেন্ডস খোলো", "সব বন্ধু লিস্ট দেখাও", "complete friends list দেখাও",
		"amar all friends dekhte chai", "all friends e jao", "show all friends", "open all friends list",
		"see all friends", "friends list khulo", "friends section open", "check all friends",
		"all my friends", "full friends list open",
	}},
	{domain.IntentOpenFriendRequests, []string{
		"ফ্রেন্ড রিকোয়েস্ট খোলো", "ফ্রেন্ড রিকোয়েস্ট দেখাও", "নতুন ফ্রেন্ড রিকোয়েস্ট",
		"রিকোয়েস্ট গুলো দেখাও", "pending request খোলো", "amar friend request dekhte chai",
		"friend request e jao", "request list open", "check requests", "show friend requests",
		"open requests", "see all requests", "friend requests page", "requests dekhao",
		"add request list",
	}},
	{domain.IntentOpenMessages, []string{
		"open messages", "show messages", "messages", "inbox", "go to message", "মেসেজ", "message a jao",
		"message box on koro", "মেসেজ খোলো", "চ্যাট খোলো", "নতুন মেসেজ দেখাও", "মেসেজ লিস্ট খোলো",
		"আমার মেসেজ দেখাও", "message khulo", "go to messages", "see messages", "message section khulo",
		"check messages", "view messages", "my messages",
	}},
	{domain.IntentOpenSettings, []string{
		"open settings", "go to settings", "settings", "সেটিংস", "সেটিংসে যাও", "setting a jao",
	}},
	{domain.IntentOpenAdsCenter, []string{
		"open ads center", "ads center", "my ads", "my campaigns", "sponsor center", "amar campaign",
		"অ্যাডস সেন্টারে যাও", "অ্যাডস সেন্টার", "বিজ্ঞাপন", "আমার বিজ্ঞাপন",
	}},
	{domain.IntentViewCampaignDashboard, []string{
		"অ্যাড ড্যাশবোর্ড খোলো", "বিজ্ঞাপন প্যানেল দেখাও", "অ্যাডের তথ্য দেখাও", "প্রচার প্যানেল খোলো",
		"আমার অ্যাড ড্যাশবোর্ড দেখাও", "ads dashboard khulo", "open ads dashboard", "show ads dashboard",
		"go to ads dashboard", "dashboard section khulo", "my ads panel khulo", "ads stats khulo",
		"check ads dashboard", "view ads dashboard", "ads analytics khulo",
	}},
	{domain.IntentCreateCampaign, []string{
		"নতুন ক্যাম্পেইন তৈরি করো", "নতুন প্রচারণা খোলো", "নতুন অ্যাড ক্যাম্পেইন করো",
		"নতুন প্রচার শুরু করো", "create new campaign", "open new campaign", "start new campaign",
		"add new campaign", "launch campaign", "campaign setup khulo", "new campaign khulo",
		"initiate campaign", "begin new campaign", "generate campaign", "campaign create khulo",
	}},
	{domain.IntentOpenProfile, []string{
		"my profile", "show my profile", "amar profile", "আমার প্রোফাইল", "profile a jao",
	}},
	{domain.IntentOpenRoomsHub, []string{
		"rooms", "live rooms", "go to rooms", "রুম", "রুমস", "লাইভ রুম", "rooms er vitore jaa",
		"রুম খোলো", "রুমে যাও", "রুম দেখাও", "রুম লিস্ট খোলো", "আমার রুম দেখাও", "room khulo",
		"open room", "show rooms", "go to room", "see rooms", "room section khulo", "all rooms khulo",
		"my rooms dekhte chai", "room list open", "enter room",
	}},
	{domain.IntentOpenAudioRooms, []string{
		"audio rooms", "voice rooms", "অডিও রুম", "অডিও রুম খোলো", "অডিও রুমে যাও", "অডিও রুম দেখাও",
		"সাউন্ড রুম খোলো", "আমার অডিও রুম দেখাও", "audio room khulo", "open audio room",
		"show audio rooms", "go to audio room", "audio section khulo", "join audio room",
		"audio rooms open", "my audio room dekhte chai", "audio room list khulo", "enter audio room",
	}},
	{domain.IntentOpenVideoRooms, []string{
		"video rooms", "video calls", "ভিডিও রুম",
	}},
	{domain.IntentCreateRoom, []string{
		"রুম তৈরি করো", "নতুন রুম খোলো", "রুম ক্রিয়েট করো", "নতুন রুম তৈরি করো", "create room khulo",
		"create new room", "make room", "open new room", "room add karo", "add new room",
		"generate room", "start new room", "room setup khulo", "build room", "create my room",
		"রুম শুরু করো", "রুম চালু করো", "রুম স্টার্ট করো", "রুম চালু দাও", "নতুন রুম শুরু করো",
		"start room", "start rooms", "begin room", "launch room", "room start khulo", "start this room",
		"start all rooms", "initiate room", "activate room",
	}},
	{domain.IntentCloseRoom, []string{
		"রুম বাতিল করো", "রুম বন্ধ করো", "রুম ক্যান্সেল করো", "রুম বন্ধ দাও", "রুম বন্ধ খোলো",
		"cancel room", "cancel rooms", "close room", "delete room", "stop room", "room cancel khulo",
		"cancel this room", "cancel all rooms", "remove room", "abort room",
	}},
	{domain.IntentOpenGroupsHub, []string{
		"groups", "open groups", "show groups", "গ্রুপ", "গ্রুপস", "গ্রুপগুলো দেখাও", "go to groups",
		"groups a jao", "গ্রুপসে যাও", "গ্রুপ খোলো", "গ্রুপ দেখাও", "গ্রুপ লিস্ট খোলো",
		"গ্রুপ প্যানেল খোলো", "amar groups dekhte chai", "group e jao", "group section open",
		"group dashboard khulo", "my groups dekhabo", "check groups", "all groups open",
	}},
	{domain.IntentSearchGroup, []string{
		"search groups", "find groups", "group search", "search for a group", "গ্রুপ খোঁজ",
		"গ্রুপ সার্চ", "group khujo", "group search koro",
	}},

	// In-group commands
	{domain.IntentManageGroup, []string{
		"manage group", "group settings", "groups setting a jao", "manage a jao", "গ্রুপ সেটিংস",
		"গ্রুপ ম্যানেজ খোলো", "গ্রুপ ম্যানেজে যাও", "গ্রুপ কন্ট্রোল খোলো", "গ্রুপ প্রশাসন দেখাও",
		"গ্রুপ সেটিংস ম্যানেজ করো", "group manage e jao", "open group manage", "group admin khulo",
		"grp controls khulo", "group dashboard khulo", "group owner khulo", "group edit khulo",
		"grp permission dekhte chai", "control group settings", "গ্রুপ সেটিংস খোলো", "গ্রুপ সেটিংসে যাও",
		"গ্রুপ কনফিগারেশন খোলো", "সেটিংস দেখাও", "গ্রুপ প্রেফারেন্স খোলো", "group settings e jao",
		"open group settings", "grp settings khulo", "settings in group", "group option khulo",
		"grp control khulo", "edit group settings", "admin settings khulo", "grp details khulo",
		"group setup khulo",
	}},
	{domain.IntentOpenGroupInvitePage, []string{
		"invite to group", "invite friends", "invite", "বন্ধুদের আমন্ত্রণ", "groups invite a jao",
		"গ্রুপে আমন্ত্রণ করো", "গ্রুপে বন্ধু যোগ করো", "গ্রুপে ইনভাইট করো", "বন্ধুদের গ্রুপে নাও",
		"নতুন সদস্য যোগ করো", "group invite", "send invite", "add to group", "grp invite",
		"invite members", "grp add", "send group invite", "grp sharing",
	}},
	{domain.IntentOpenGroupChat, []string{
		"group chat", "chat", "চ্যাট", "groups chat a jao", "গ্রুপ চ্যাট খোলো", "গ্রুপ চ্যাটে যাও",
		"গ্রুপ মেসেজ দেখাও", "মেসেজ খোলো", "group chat e jao", "open group chat", "show group chat",
		"go to group chat", "grp message khulo", "group inbox khulo", "see group chat",
		"grp chatroom khulo", "open grp messenger", "group dm dekhte chai",
	}},
	{domain.IntentOpenGroupEvents, []string{
		"group events", "events", "ইভেন্ট", "groups events a jao",
	}},
	{domain.IntentLeaveGroup, []string{
		"গ্রুপ ছাড়ো", "গ্রুপ ত্যাগ করো", "গ্রুপ থেকে বের হও", "গ্রুপে না যাও", "গ্রুপ লিভ করো",
		"leave group", "grp exit", "exit this group", "quit group", "grp leave", "remove from group",
		"grp quit", "group out khulo", "grp escape", "grp disconnect",
	}},

	// Feed Actions
	{domain.IntentNextPost, []string{
		"next post", "next", "porer post", "porerta", "পরেরটা", "পরের পোস্ট",
	}},
	{domain.IntentPreviousPost, []string{
		"previous post", "previous", "ager post", "agerta", "আগেরটা", "আগের পোস্ট", "আগেরটা দেখাও",
		"আগের ট্যাবে যাও", "পূর্বের কন্টেন্ট দেখাও", "আগের পেজ দেখাও", "পূর্বের আইটেমে যাও",
		"ager tai jao", "previous one", "go previous", "show previous", "previous item khulo",
		"back to previous", "previous page khulo", "show last", "move to previous", "open previous",
	}},
	{domain.IntentPlayPost, []string{
		"play", "play post", "start playing", "chalu koro", "play koro", "চালু কর", "প্লে কর",
	}},
	{domain.IntentPausePost, []string{
		"pause", "pause post", "stop playing", "bondho koro", "thamaw", "পজ কর", "বন্ধ কর", "থামাও",
	}},
	{domain.IntentLike, []string{
		"like this", "like post", "like", "লাইক", "like dao",
	}},
	{domain.IntentComment, []string{
		"comment", "leave a comment", "add comment", "কমেন্ট", "comment koro",
	}},
	{domain.IntentCreatePost, []string{
		"create a post", "new post", "make a post", "পোস্ট কর", "নতুন পোস্ট", "voice post",
		"voice status", "status dao", "গ্রুপে পোস্ট করো", "নতুন পোস্ট খোলো", "পোস্ট শেয়ার করো",
		"গ্রুপে লিখো", "পোস্ট তৈরি করো", "group post", "post in group", "grp post", "add post group",
		"new post group", "share in group", "publish group", "grp publish", "grp add post",
		"post something group",
	}},

	// Recording
	{domain.IntentStopRecording, []string{
		"stop recording", "finish recording", "রেকর্ডিং বন্ধ কর", "stop koro", "sesh koro", "stop",
	}},
	{domain.IntentPostConfirm, []string{
		"post it", "confirm post", "post", "publish", "পোস্ট কর", "হ্যাঁ পোস্ট কর",
	}},
	{domain.IntentReRecord, []string{
		"rerecord", "re-record", "record again", "abar record koro", "আবার রেকর্ড কর",
	}},
	{domain.IntentPostComment, []string{
		"post comment", "send comment", "comment post koro",
	}},

	// Messaging
	{domain.IntentRecordMessage, []string{
		"record message", "new message", "মেসেজ রেকর্ড কর",
	}},
	{domain.IntentSendChatMessage, []string{
		"send message", "send", "pathao", "মেসেজ পাঠাও", "পাঠাও",
	}},
	{domain.IntentReplyToMessage, []string{
		"reply", "reply to this", "reply koro", "uttor dao", "রিপ্লাই কর", "উত্তর দাও",
	}},
	{domain.IntentDeleteChat, []string{
		"চ্যাট মুছে দাও", "মেসেজ মুছে ফেলো", "এই চ্যাট ডিলিট করো", "মেসেজ লিস্ট খালি করো",
		"চ্যাট রিমুভ করো", "delete chat", "remove chat", "delete message", "clear chat",
		"erase messages", "chat delete khulo", "remove messages", "wipe chat", "delete conversation",
		"chat erase khulo",
	}},
	{domain.IntentChangeChatTheme, []string{
		"থিম পরিবর্তন করো", "চ্যাট থিম বদলো", "রঙ পরিবর্তন করো", "নতুন থিম খোলো", "থিম সেটিংস দেখাও",
		"change theme", "theme change khulo", "open theme settings", "switch theme", "set new theme",
		"theme option khulo", "apply theme", "theme customize khulo", "pick new theme", "update theme",
	}},

	// Scrolling
	{domain.IntentScrollDown, []string{
		"scroll down", "go down", "scroll koro", "niche jao", "নিচে যাও", "নিচে নামো", "নিচে স্ক্রল করো",
		"স্ক্রল করে নিচে যাও", "নিচের দিকে যাও", "নিচে দেখাও", "niche namo", "scroll niche", "move down",
		"scroll lower", "go to bottom", "scroll to bottom", "downward scroll khulo", "scroll page down",
	}},
	{domain.IntentScrollUp, []string{
		"scroll up", "go up", "upore jao", "উপরে যাও", "উপরে যাও", "উপরে স্ক্রল করো",
		"স্ক্রল করে উপরে যাও", "উপরের দিকে দেখাও", "উপরে উঠাও", "opore scroll koro", "move up",
		"scroll top", "scroll higher", "top e jao", "scroll page up", "upward scroll khulo",
		"scroll to top",
	}},
	{domain.IntentStopScroll, []string{
		"stop scrolling", "stop scroll", "scrolling bondho koro", "scrolling thamaw", "স্ক্রল বন্ধ করো",
		"স্ক্রল অফ করো", "স্ক্রল নিস্ক্রিয় করো", "স্ক্রল ডিএক্টিভেট করো", "স্ক্রল রুখো", "scroll off",
		"turn off scroll", "disable scroll", "scroll stop khulo", "scroll deactivate",
		"scroll disable khulo", "scroll off page", "scroll off now", "scroll cancel khulo",
	}},

	// Account Management
	{domain.IntentChangePassword, []string{
		"change password", "password change", "update password", "পাসওয়ার্ড পরিবর্তন",
		"পাসওয়ার্ড চেঞ্জ",
	}},
	{domain.IntentDeactivateAccount, []string{
		"deactivate account", "deactivate my account", "অ্যাকাউন্ট নিষ্ক্রিয়", "অ্যাকাউন্ট ডিএক্টিভেট",
		"amar account deactivate koro",
	}},

	// General
	{domain.IntentHelp, []string{
		"help", "help me", "what can i say", "সাহায্য",
	}},
	{domain.IntentReloadPage, []string{
		"reload", "refresh", "reload page", "refresh page", "রিফ্রেশ", "রিফ্রেশ কর", "রিলোড",
		"reload koro", "reload dao", "রিফ্রেশ করো", "পেজ রিফ্রেশ করো", "পুনরায় লোড করো", "লোড আবার করো",
		"পুনরায় দেখাও", "update page", "refresh khulo", "reload now", "refresh content",
		"update content", "page refresh khulo",
	}},

	// New Group Engagement
	{domain.IntentPinPost, []string{
		"pin post", "pin this post", "এই পোস্টটি পিন কর",
	}},
	{domain.IntentUnpinPost, []string{
		"unpin post", "unpin this post", "পোস্ট আনপিন কর",
	}},
	{domain.IntentCreateEvent, []string{
		"create event", "new event", "নতুন ইভেন্ট তৈরি কর",
	}},
	{domain.IntentCreatePoll, []string{
		"create a poll", "add poll", "পোল তৈরি কর",
	}},

	// Story Creation
	{domain.IntentCreateStory, []string{
		"create story", "add story", "new story", "story banao", "create a story", "স্টোরি বানাও",
	}},
	{domain.IntentAddMusic, []string{
		"add music", "set music", "music lagao", "gaan add koro", "মিউজিক অ্যাড কর",
	}},
	{domain.IntentPostStory, []string{
		"post story", "share story", "story share koro", "publish story", "স্টোরি শেয়ার কর",
		"post koro",
	}},
}
