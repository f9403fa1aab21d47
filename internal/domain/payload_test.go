package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayload(t *testing.T) {
	tests := []struct {
		name string
		cmd  ResolvedCommand
		want Payload
	}{
		{
			name: "target",
			cmd:  ResolvedCommand{Intent: IntentOpenChat, Slots: Slots{SlotTargetName: StringSlot("karim")}},
			want: TargetPayload{TargetName: "karim"},
		},
		{
			name: "missing slot decodes to zero value",
			cmd:  ResolvedCommand{Intent: IntentSearchUser},
			want: TargetPayload{},
		},
		{
			name: "select index from string",
			cmd:  ResolvedCommand{Intent: IntentSelectResult, Slots: Slots{SlotIndex: StringSlot("2")}},
			want: SelectPayload{Index: 2},
		},
		{
			name: "poll vote by number",
			cmd:  ResolvedCommand{Intent: IntentVotePoll, Slots: Slots{SlotOptionNumber: NumberSlot(3)}},
			want: PollVotePayload{OptionNumber: 3},
		},
		{
			name: "poll vote by numeric text",
			cmd:  ResolvedCommand{Intent: IntentVotePoll, Slots: Slots{SlotOptionText: StringSlot(" 1 ")}},
			want: PollVotePayload{OptionNumber: 1},
		},
		{
			name: "poll vote by text",
			cmd:  ResolvedCommand{Intent: IntentVotePoll, Slots: Slots{SlotOptionText: StringSlot("Biryani")}},
			want: PollVotePayload{OptionText: "Biryani"},
		},
		{
			name: "budget",
			cmd:  ResolvedCommand{Intent: IntentSetCampaignBudget, Slots: Slots{SlotBudgetAmount: StringSlot("500")}},
			want: BudgetPayload{Amount: 500, Valid: true},
		},
		{
			name: "negative budget is invalid",
			cmd:  ResolvedCommand{Intent: IntentSetCampaignBudget, Slots: Slots{SlotBudgetAmount: NumberSlot(-5)}},
			want: BudgetPayload{Amount: -5},
		},
		{
			name: "media type",
			cmd:  ResolvedCommand{Intent: IntentSetMediaType, Slots: Slots{SlotMediaType: StringSlot("Photo")}},
			want: MediaTypePayload{MediaType: MediaImage},
		},
		{
			name: "slot-less intent",
			cmd:  ResolvedCommand{Intent: IntentGoBack},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Payload())
		})
	}
}
