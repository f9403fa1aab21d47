package nlu

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
)

type compiledRule struct {
	slotRule
	re *regexp.Regexp
}

// LocalMatcher resolves utterances against the static rule tables. It is
// safe for concurrent use.
type LocalMatcher struct {
	rules   []compiledRule
	phrases map[string]domain.Intent
	log     *zap.Logger
}

// NewLocalMatcher compiles the rule tables. It panics on an invalid
// pattern, which is a programming error in the tables.
func NewLocalMatcher(log *zap.Logger) *LocalMatcher {
	m := &LocalMatcher{
		rules:   make([]compiledRule, 0, len(ruleTable)),
		phrases: make(map[string]domain.Intent),
		log:     log,
	}
	for _, r := range ruleTable {
		m.rules = append(m.rules, compiledRule{slotRule: r, re: regexp.MustCompile(`(?i)` + r.pattern)})
	}
	for _, g := range phraseTable {
		for _, p := range g.phrases {
			key := Normalize(p)
			if _, taken := m.phrases[key]; taken {
				continue
			}
			m.phrases[key] = g.intent
		}
	}
	return m
}

var _ ports.IntentMatcher = (*LocalMatcher)(nil)

// Normalize prepares an utterance for matching: NFC composition,
// whitespace collapsed and trimmed, Unicode lower case. Scripts without
// case pass through unchanged.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Lower(language.Und).String(s)
}

// Match runs the regex rules, then the reaction heuristic, then the exact
// phrase table. The first tier to answer wins, so a rule can claim an
// utterance that is also a registered phrase.
func (m *LocalMatcher) Match(utterance string) (domain.ResolvedCommand, bool) {
	text := Normalize(utterance)
	if text == "" {
		return domain.ResolvedCommand{}, false
	}
	if cmd, ok := m.matchRules(text); ok {
		return cmd, true
	}
	if cmd, ok := matchReaction(text); ok {
		return cmd, true
	}
	if intent, ok := m.phrases[text]; ok {
		return domain.ResolvedCommand{Intent: intent}, true
	}
	return domain.ResolvedCommand{}, false
}

func (m *LocalMatcher) matchRules(text string) (domain.ResolvedCommand, bool) {
	for _, r := range m.rules {
		groups := r.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		slots := domain.Slots{}
		for i, name := range r.slots {
			if i+1 >= len(groups) {
				break
			}
			v := strings.TrimSpace(groups[i+1])
			if v == "" {
				continue
			}
			if name == domain.SlotField {
				if canon, ok := profileFields[v]; ok {
					v = canon
				}
			}
			slots[name] = domain.StringSlot(v)
		}
		if suppressed(r.intent, slots) {
			m.log.Debug("rule suppressed by guard",
				zap.String("rule", r.name),
				zap.String("utterance", text))
			continue
		}
		cmd := domain.ResolvedCommand{Intent: r.intent}
		if len(slots) > 0 {
			cmd.Slots = slots
		}
		return cmd, true
	}
	return domain.ResolvedCommand{}, false
}

func suppressed(intent domain.Intent, slots domain.Slots) bool {
	target, ok := slots.Get(domain.SlotTargetName)
	if !ok {
		return false
	}
	switch intent {
	case domain.IntentOpenProfile:
		_, reserved := reservedNavWords[target]
		return reserved
	case domain.IntentSearchUser:
		return strings.Contains(target, "group")
	}
	return false
}

func matchReaction(text string) (domain.ResolvedCommand, bool) {
	emoji := ""
	for _, e := range emojiTable {
		if strings.Contains(text, e.word) {
			emoji = e.word
			break
		}
	}
	if emoji == "" || !containsAny(text, reactionTriggers) {
		return domain.ResolvedCommand{}, false
	}

	cmd := domain.ResolvedCommand{
		Intent: domain.IntentReactToMessage,
		Slots:  domain.Slots{domain.SlotEmojiType: domain.StringSlot(emoji)},
	}
	if containsAny(text, lastMessageMarkers) || isShortReaction(text) {
		cmd.Intent = domain.IntentReactToLastMessage
	}
	return cmd, true
}

// isShortReaction matches constructions like "love react" or "haha dao":
// at most three words, one of them exactly an emoji word and one exactly a
// trigger word.
func isShortReaction(text string) bool {
	words := strings.Fields(text)
	if len(words) > 3 {
		return false
	}
	var hasEmoji, hasTrigger bool
	for _, w := range words {
		for _, e := range emojiTable {
			if w == e.word {
				hasEmoji = true
			}
		}
		for _, t := range reactionTriggers {
			if w == t {
				hasTrigger = true
			}
		}
	}
	return hasEmoji && hasTrigger
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
