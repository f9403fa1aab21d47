package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/mocks"
)

func TestRecorder_FullCycle(t *testing.T) {
	ctx := context.Background()
	audio := &mocks.MockAudioRecorder{}
	r := NewRecorder(audio)

	require.NoError(t, r.Start(ctx))
	assert.Equal(t, domain.RecordingActive, r.State())

	clip, err := r.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(4), clip.Duration)
	assert.Equal(t, domain.RecordingPreview, r.State())

	got, ok := r.Confirm()
	require.True(t, ok)
	assert.Equal(t, clip, got)
	assert.Equal(t, domain.RecordingUploading, r.State())

	r.Fail()
	assert.Equal(t, domain.RecordingPreview, r.State())

	_, ok = r.Confirm()
	require.True(t, ok)
	r.Succeed()
	assert.Equal(t, domain.RecordingIdle, r.State())
	assert.Equal(t, 1, audio.Starts)
	assert.Equal(t, 1, audio.Stops)
}

func TestRecorder_IllegalTransitionsKeepState(t *testing.T) {
	ctx := context.Background()
	audio := &mocks.MockAudioRecorder{}
	r := NewRecorder(audio)

	_, err := r.Stop(ctx)
	assert.Error(t, err)
	_, ok := r.Confirm()
	assert.False(t, ok)
	r.Succeed()
	assert.Equal(t, domain.RecordingIdle, r.State())

	require.NoError(t, r.Start(ctx))
	assert.Error(t, r.Start(ctx))
	assert.Equal(t, domain.RecordingActive, r.State())
	assert.Equal(t, 1, audio.Starts)
}

func TestRecorder_ReRecordFromPreview(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(&mocks.MockAudioRecorder{})
	require.NoError(t, r.Start(ctx))
	_, err := r.Stop(ctx)
	require.NoError(t, err)

	require.NoError(t, r.Start(ctx))

	assert.Equal(t, domain.RecordingActive, r.State())
	_, ok := r.Confirm()
	assert.False(t, ok, "old clip must be discarded")
}

func TestRecorder_MicFailure(t *testing.T) {
	audio := &mocks.MockAudioRecorder{
		StartFunc: func(ctx context.Context) error { return errors.New("permission denied") },
	}
	r := NewRecorder(audio)

	err := r.Start(context.Background())

	assert.ErrorIs(t, err, ErrMicUnavailable)
	assert.Equal(t, domain.RecordingIdle, r.State())
}

func TestRecorder_Fire(t *testing.T) {
	r := NewRecorder(&mocks.MockAudioRecorder{})

	st, ok := r.Fire(domain.EventConfirm)
	assert.False(t, ok)
	assert.Equal(t, domain.RecordingIdle, st)

	st, ok = r.Fire(domain.EventStart)
	assert.True(t, ok)
	assert.Equal(t, domain.RecordingActive, st)
}

func TestRecorder_AbortReleasesMic(t *testing.T) {
	audio := &mocks.MockAudioRecorder{}
	r := NewRecorder(audio)
	require.NoError(t, r.Start(context.Background()))

	r.Abort(context.Background())

	assert.Equal(t, domain.RecordingIdle, r.State())
	assert.Equal(t, 1, audio.Stops)
}
