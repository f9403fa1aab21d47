package nlu

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/mocks"
)

func newFallback(llm *mocks.MockLLMClient) *RemoteFallback {
	cfg := DefaultFallbackConfig()
	cfg.Timeout = time.Second
	return NewRemoteFallback(llm, cfg, zap.NewNop())
}

func TestRemoteFallback_LLMErrorDegradesToUnknown(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, sys, utterance string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	fb := newFallback(llm)

	// Act
	res := fb.Classify(context.Background(), "xyzzy unknown gibberish", nil)
	cmd := fb.Resolve(context.Background(), "xyzzy unknown gibberish", nil)

	// Assert
	assert.False(t, res.OK())
	assert.Equal(t, domain.ResolvedCommand{Intent: domain.IntentUnknown}, cmd)
}

func TestRemoteFallback_ParsesFencedJSON(t *testing.T) {
	llm := &mocks.MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, sys, utterance string) (string, error) {
			return "```json\n{\"intent\": \"intent_open_chat\", \"slots\": {\"target_name\": \"Rahim\"}}\n```", nil
		},
	}

	res := newFallback(llm).Classify(context.Background(), "chat e jao rahim er sathe", nil)

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, domain.IntentOpenChat, res.Command.Intent)
	name, _ := res.Command.Slot(domain.SlotTargetName)
	assert.Equal(t, "Rahim", name)
}

func TestRemoteFallback_PassesKnownNames(t *testing.T) {
	llm := &mocks.MockLLMClient{}
	fb := newFallback(llm)

	fb.Resolve(context.Background(), "ekta kichu", &domain.CommandContext{KnownNames: []string{"Rahim", "Karim", "Rahim"}})

	assert.Equal(t, 1, llm.CallCount())
	assert.True(t, strings.HasSuffix(llm.LastInstruction, `Available names: ["Rahim", "Karim"]`), llm.LastInstruction)
}

func TestRemoteFallback_BreakerOpensAfterFailures(t *testing.T) {
	llm := &mocks.MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, sys, utterance string) (string, error) {
			return "", errors.New("unavailable")
		},
	}
	fb := newFallback(llm)

	for i := 0; i < 5; i++ {
		cmd := fb.Resolve(context.Background(), "anything", nil)
		assert.True(t, cmd.IsUnknown())
	}

	assert.Equal(t, 3, llm.CallCount(), "open breaker must stop calling the model")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.ResolvedCommand
		wantErr bool
	}{
		{
			name:  "plain object",
			input: `{"intent": "intent_go_back"}`,
			want:  domain.ResolvedCommand{Intent: domain.IntentGoBack},
		},
		{
			name:  "bare fence",
			input: "```\n{\"intent\": \"intent_help\"}\n```",
			want:  domain.ResolvedCommand{Intent: domain.IntentHelp},
		},
		{
			name:  "upper case json fence",
			input: "```JSON\n{\"intent\": \"intent_help\"}\n```",
			want:  domain.ResolvedCommand{Intent: domain.IntentHelp},
		},
		{
			name:  "numeric slot",
			input: `{"intent": "intent_select_result", "slots": {"index": 2}}`,
			want: domain.ResolvedCommand{
				Intent: domain.IntentSelectResult,
				Slots:  domain.Slots{"index": domain.NumberSlot(2)},
			},
		},
		{
			name:  "intent outside the catalog",
			input: `{"intent": "intent_fly_to_moon", "slots": {"x": "y"}}`,
			want:  domain.ResolvedCommand{Intent: domain.IntentUnknown},
		},
		{
			name:  "empty slots dropped",
			input: `{"intent": "intent_like", "slots": {}}`,
			want:  domain.ResolvedCommand{Intent: domain.IntentLike},
		},
		{name: "not json", input: "I think you want to go back", wantErr: true},
		{name: "missing intent", input: `{"slots": {"a": "b"}}`, wantErr: true},
		{name: "boolean slot", input: `{"intent": "intent_like", "slots": {"a": true}}`, wantErr: true},
		{name: "null slot", input: `{"intent": "intent_like", "slots": {"a": null}}`, wantErr: true},
		{name: "empty", input: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Intent, got.Intent)
			assert.Equal(t, len(tt.want.Slots), len(got.Slots))
			for k, v := range tt.want.Slots {
				assert.True(t, v.Equal(got.Slots[k]), "slot %s", k)
			}
		})
	}
}

func TestBuildSystemInstruction_NoNames(t *testing.T) {
	assert.Equal(t, systemInstructionBase, BuildSystemInstruction(nil))
	assert.Equal(t, systemInstructionBase, BuildSystemInstruction(&domain.CommandContext{}))
	assert.NotContains(t, BuildSystemInstruction(nil), "CONTEXTUAL AWARENESS")
}
