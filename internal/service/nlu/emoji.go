package nlu

import "strings"

type emojiEntry struct {
	word  string
	glyph string
}

// emojiTable maps spoken reaction words to glyphs. The reaction heuristic
// picks the first word contained in the utterance, so order matters.
var emojiTable = []emojiEntry{
	{"like", "👍"},
	{"love", "❤️"},
	{"heart", "❤️"},
	{"haha", "😂"},
	{"laugh", "😂"},
	{"wow", "😮"},
	{"sad", "😢"},
	{"cry", "😭"},
	{"angry", "😡"},
	{"fire", "🔥"},
	{"clap", "👏"},
	{"pray", "🙏"},
	{"party", "🎉"},
	{"bhalobasha", "❤️"},
	{"hashi", "😂"},
	{"kanna", "😭"},
	{"raag", "😡"},
	{"লাইক", "👍"},
	{"ভালোবাসা", "❤️"},
	{"হাসি", "😂"},
	{"কান্না", "😭"},
	{"রাগ", "😡"},
}

// emojiAliases covers spoken forms the remote model tends to return.
var emojiAliases = map[string]string{
	"thumbsup": "👍",
	"laughing": "😂",
	"crying":   "😭",
	"lol":      "😂",
}

var reactionTriggers = []string{"react", "reaction", "dao"}

var lastMessageMarkers = []string{"last message", "sesh message", "শেষ মেসেজ"}

var emojiGlyphs = func() map[string]string {
	m := make(map[string]string, len(emojiTable)+len(emojiAliases))
	for _, e := range emojiTable {
		if _, ok := m[e.word]; !ok {
			m[e.word] = e.glyph
		}
	}
	for k, v := range emojiAliases {
		m[k] = v
	}
	return m
}()

// EmojiGlyph maps an emoji_type slot to a glyph. The word is lower-cased,
// a trailing plural "s" and inner spaces are dropped before lookup.
func EmojiGlyph(word string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	w = strings.TrimSuffix(w, "s")
	w = strings.Join(strings.Fields(w), "")
	if g, ok := emojiGlyphs[w]; ok {
		return g, true
	}
	// The word may already be a glyph.
	for _, e := range emojiTable {
		if e.glyph == word {
			return e.glyph, true
		}
	}
	return "", false
}
