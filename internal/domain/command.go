package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SlotValue holds either a string or a number extracted from an utterance.
type SlotValue struct {
	str   string
	num   float64
	isNum bool
}

func StringSlot(s string) SlotValue {
	return SlotValue{str: s}
}

func NumberSlot(n float64) SlotValue {
	return SlotValue{num: n, isNum: true}
}

func (v SlotValue) IsNumber() bool {
	return v.isNum
}

func (v SlotValue) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Number returns the numeric value. String slots holding a number parse too.
func (v SlotValue) Number() (float64, bool) {
	if v.isNum {
		return v.num, true
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v SlotValue) Equal(o SlotValue) bool {
	return v.isNum == o.isNum && v.str == o.str && v.num == o.num
}

func (v SlotValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

func (v *SlotValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("slot value: empty input")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringSlot(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberSlot(n)
		return nil
	default:
		return fmt.Errorf("slot value: expected string or number, got %s", data)
	}
}

// Slots maps slot names to extracted values. Keys are intent specific.
type Slots map[string]SlotValue

func (s Slots) Get(name string) (string, bool) {
	v, ok := s[name]
	if !ok {
		return "", false
	}
	return v.String(), true
}

func (s Slots) Int(name string) (int, bool) {
	v, ok := s[name]
	if !ok {
		return 0, false
	}
	n, ok := v.Number()
	if !ok {
		return 0, false
	}
	return int(n), true
}

// ResolvedCommand is the output of the classification pipeline.
type ResolvedCommand struct {
	Intent Intent `json:"intent"`
	Slots  Slots  `json:"slots,omitempty"`
}

func Unknown() ResolvedCommand {
	return ResolvedCommand{Intent: IntentUnknown}
}

func (c ResolvedCommand) IsUnknown() bool {
	return c.Intent == IntentUnknown || c.Intent == ""
}

func (c ResolvedCommand) Slot(name string) (string, bool) {
	return c.Slots.Get(name)
}

// CommandContext carries optional hints for remote classification.
type CommandContext struct {
	KnownNames []string `json:"known_names,omitempty"`
}

// Slot names shared between the rule tables, the remote prompt and the
// payload decoder.
const (
	SlotTargetName     = "target_name"
	SlotMessageContent = "message_content"
	SlotEmojiType      = "emoji_type"
	SlotField          = "field"
	SlotValueName      = "value"
	SlotSetting        = "setting"
	SlotPrompt         = "prompt"
	SlotText           = "text"
	SlotIndex          = "index"
	SlotThemeName      = "theme_name"
	SlotGroupName      = "group_name"
	SlotSearchQuery    = "search_query"
	SlotCategoryName   = "category_name"
	SlotOptionNumber   = "option_number"
	SlotOptionText     = "option_text"
	SlotSponsorName    = "sponsor_name"
	SlotCaptionText    = "caption_text"
	SlotBudgetAmount   = "budget_amount"
	SlotMediaType      = "media_type"
	SlotPrivacyLevel   = "privacy_level"
)
