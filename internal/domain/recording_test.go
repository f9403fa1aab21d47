package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordingState_Next(t *testing.T) {
	tests := []struct {
		from   RecordingState
		event  RecordingEvent
		to     RecordingState
		wantOK bool
	}{
		{RecordingIdle, EventStart, RecordingActive, true},
		{RecordingActive, EventStop, RecordingPreview, true},
		{RecordingPreview, EventConfirm, RecordingUploading, true},
		{RecordingPreview, EventReRecord, RecordingActive, true},
		{RecordingUploading, EventSucceed, RecordingIdle, true},
		{RecordingUploading, EventFail, RecordingPreview, true},

		{RecordingIdle, EventStop, RecordingIdle, false},
		{RecordingIdle, EventConfirm, RecordingIdle, false},
		{RecordingActive, EventConfirm, RecordingActive, false},
		{RecordingUploading, EventStart, RecordingUploading, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			to, ok := tt.from.Next(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestCampaignValidate(t *testing.T) {
	ok := Campaign{SponsorName: "Dhaka Tea", Caption: "Fresh", Budget: 10}
	assert.NoError(t, ok.Validate())

	for _, c := range []Campaign{
		{Caption: "Fresh", Budget: 10},
		{SponsorName: "Dhaka Tea", Caption: "  ", Budget: 10},
		{SponsorName: "Dhaka Tea", Caption: "Fresh"},
	} {
		assert.ErrorIs(t, c.Validate(), ErrInvalidCampaign)
	}
}

func TestPoll(t *testing.T) {
	p := Poll{Options: []PollOption{
		{Text: "Biryani", VotedBy: []string{"u1"}},
		{Text: "Khichuri"},
	}}

	assert.True(t, p.HasVoted("u1"))
	assert.False(t, p.HasVoted("u2"))
	assert.Equal(t, 1, p.OptionIndex(" khichuri "))
	assert.Equal(t, -1, p.OptionIndex("pizza"))
}
