package nlu

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func slots(kv ...string) domain.Slots {
	s := domain.Slots{}
	for i := 0; i+1 < len(kv); i += 2 {
		s[kv[i]] = domain.StringSlot(kv[i+1])
	}
	return s
}

func TestMatch_Table(t *testing.T) {
	m := NewLocalMatcher(newTestLogger())

	tests := []struct {
		name      string
		utterance string
		want      domain.ResolvedCommand
	}{
		{"search suffix form", "shojib ke khojo",
			domain.ResolvedCommand{Intent: domain.IntentSearchUser, Slots: slots("target_name", "shojib")}},
		{"search prefix form", "search for Rahim Uddin",
			domain.ResolvedCommand{Intent: domain.IntentSearchUser, Slots: slots("target_name", "rahim uddin")}},
		{"go back english", "go back", domain.ResolvedCommand{Intent: domain.IntentGoBack}},
		{"go back bengali", "ফিরে যাও", domain.ResolvedCommand{Intent: domain.IntentGoBack}},
		{"go back romanized", "back koro", domain.ResolvedCommand{Intent: domain.IntentGoBack}},
		{"phrase is case and space insensitive", "  Go   BACK ", domain.ResolvedCommand{Intent: domain.IntentGoBack}},
		{"react to active message", "please react to this message with love",
			domain.ResolvedCommand{Intent: domain.IntentReactToMessage, Slots: slots("emoji_type", "love")}},
		{"react to last message", "react to last message with love",
			domain.ResolvedCommand{Intent: domain.IntentReactToLastMessage, Slots: slots("emoji_type", "love")}},
		{"short reaction targets last message", "love dao",
			domain.ResolvedCommand{Intent: domain.IntentReactToLastMessage, Slots: slots("emoji_type", "love")}},
		{"category beats group name", "open Travel Group",
			domain.ResolvedCommand{Intent: domain.IntentFilterGroupsByCategory, Slots: slots("category_name", "travel")}},
		{"group by name", "go to Dhaka Foodies group",
			domain.ResolvedCommand{Intent: domain.IntentViewGroupByName, Slots: slots("group_name", "dhaka foodies")}},
		{"open profile possessive", "go to Rahim's profile",
			domain.ResolvedCommand{Intent: domain.IntentOpenProfile, Slots: slots("target_name", "rahim")}},
		{"open profile bare name", "open Shojib",
			domain.ResolvedCommand{Intent: domain.IntentOpenProfile, Slots: slots("target_name", "shojib")}},
		{"current city canonicalised", "set my current city to Dhaka",
			domain.ResolvedCommand{Intent: domain.IntentUpdateProfile, Slots: slots("field", "currentCity", "value", "dhaka")}},
		{"relationship status canonicalised", "change relationship status to single",
			domain.ResolvedCommand{Intent: domain.IntentUpdateProfile, Slots: slots("field", "relationshipStatus", "value", "single")}},
		{"plain profile field", "update bio to hello world",
			domain.ResolvedCommand{Intent: domain.IntentUpdateProfile, Slots: slots("field", "bio", "value", "hello world")}},
		{"dictated text", "text him that I am running late",
			domain.ResolvedCommand{Intent: domain.IntentSendTextMessageWithContent, Slots: slots("message_content", "i am running late")}},
		{"reply to last message", "reply to last message I am on my way",
			domain.ResolvedCommand{Intent: domain.IntentReplyToLastMessage, Slots: slots("message_content", "i am on my way")}},
		{"image prompt", "generate an image of a red fox",
			domain.ResolvedCommand{Intent: domain.IntentGenerateImage, Slots: slots("prompt", "a red fox")}},
		{"accept takes the longer prefix", "accept request from Karim",
			domain.ResolvedCommand{Intent: domain.IntentAcceptRequest, Slots: slots("target_name", "karim")}},
		{"vote by option number", "vote for option 2",
			domain.ResolvedCommand{Intent: domain.IntentVotePoll, Slots: slots("option_text", "2")}},
		{"campaign budget", "set budget to 500",
			domain.ResolvedCommand{Intent: domain.IntentSetCampaignBudget, Slots: slots("budget_amount", "500")}},
		{"chat theme", "change theme to ocean",
			domain.ResolvedCommand{Intent: domain.IntentChangeChatTheme, Slots: slots("theme_name", "ocean")}},
		{"story text", "add text Fine",
			domain.ResolvedCommand{Intent: domain.IntentAddTextToStory, Slots: slots("text", "fine")}},
		{"bare stop", "stop", domain.ResolvedCommand{Intent: domain.IntentStopRecording}},
		{"rule claims a registered phrase", "add comment",
			domain.ResolvedCommand{Intent: domain.IntentAddFriend, Slots: slots("target_name", "comment")}},
		{"reaction claims a registered phrase", "like dao",
			domain.ResolvedCommand{Intent: domain.IntentReactToLastMessage, Slots: slots("emoji_type", "like")}},
		{"image rule claims create a post", "create a post",
			domain.ResolvedCommand{Intent: domain.IntentGenerateImage, Slots: slots("prompt", "a post")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.utterance)
			require.True(t, ok, "expected a local match for %q", tt.utterance)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match(%q) mismatch (-want +got):\n%s", tt.utterance, diff)
			}
		})
	}
}

func TestMatch_NoMatch(t *testing.T) {
	m := NewLocalMatcher(newTestLogger())

	for _, u := range []string{
		"xyzzy unknown gibberish",
		"",
		"   ",
		// open_profile guard: reserved navigation word
		"view friends",
	} {
		_, ok := m.Match(u)
		assert.False(t, ok, "expected no match for %q", u)
	}
}

func TestMatch_SearchGuardFallsThrough(t *testing.T) {
	// Arrange
	m := NewLocalMatcher(newTestLogger())

	// Act
	got, ok := m.Match("find food groups")

	// Assert
	require.True(t, ok)
	assert.Equal(t, domain.IntentFilterGroupsByCategory, got.Intent)
	v, _ := got.Slot(domain.SlotCategoryName)
	assert.Equal(t, "food", v)
}

func TestMatch_EveryPhraseResolvesToItsIntent(t *testing.T) {
	m := NewLocalMatcher(newTestLogger())

	first := map[string]domain.Intent{}
	for _, g := range phraseTable {
		for _, p := range g.phrases {
			key := Normalize(p)
			if _, ok := first[key]; !ok {
				first[key] = g.intent
			}
		}
	}

	for phrase, want := range first {
		// earlier tiers own these
		if _, ok := m.matchRules(phrase); ok {
			continue
		}
		if _, ok := matchReaction(phrase); ok {
			continue
		}
		for _, variant := range []string{phrase, strings.ToUpper(phrase)} {
			got, ok := m.Match(variant)
			if !ok {
				t.Errorf("Match(%q): no match", variant)
				continue
			}
			if got.Intent != want || got.Slots != nil {
				t.Errorf("Match(%q) = %+v, want intent %s without slots", variant, got, want)
			}
		}
	}
}

func TestMatch_RegexSlotsAreTrimmed(t *testing.T) {
	m := NewLocalMatcher(newTestLogger())

	got, ok := m.Match("block    Shojib   ")
	require.True(t, ok)
	assert.Equal(t, domain.IntentBlockUser, got.Intent)
	v, _ := got.Slot(domain.SlotTargetName)
	assert.Equal(t, "shojib", v)
}

func TestMatch_RoundTrip(t *testing.T) {
	m := NewLocalMatcher(newTestLogger())

	for _, u := range []string{
		"shojib ke khojo",
		"go back",
		"please react to this message with love",
		"set my current city to Dhaka",
		"vote for option 2",
		"open Travel Group",
		"change theme to ocean",
	} {
		cmd, ok := m.Match(u)
		require.True(t, ok, u)

		raw, err := json.Marshal(cmd)
		require.NoError(t, err)

		var back domain.ResolvedCommand
		require.NoError(t, json.Unmarshal(raw, &back))

		if diff := cmp.Diff(cmd, back); diff != "" {
			t.Errorf("round trip of %q changed the command (-before +after):\n%s", u, diff)
		}
	}
}

func TestEmojiGlyph(t *testing.T) {
	tests := map[string]string{
		"love":      "❤️",
		"Hearts":    "❤️",
		"thumbs up": "👍",
		"laughing":  "😂",
		"kanna":     "😭",
		"🔥":         "🔥",
	}
	for word, want := range tests {
		got, ok := EmojiGlyph(word)
		assert.True(t, ok, word)
		assert.Equal(t, want, got, word)
	}

	_, ok := EmojiGlyph("spaceship")
	assert.False(t, ok)
}
