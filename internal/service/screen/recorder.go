package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
)

// Recorder couples the recording state machine with the microphone. Every
// method checks the transition first and leaves the state unchanged when it
// is not allowed.
type Recorder struct {
	mu    sync.Mutex
	state domain.RecordingState
	audio ports.AudioRecorder
	clip  *domain.AudioClip
}

func NewRecorder(audio ports.AudioRecorder) *Recorder {
	return &Recorder{state: domain.RecordingIdle, audio: audio}
}

func (r *Recorder) State() domain.RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Fire applies e to the state machine without touching the microphone.
func (r *Recorder) Fire(e domain.RecordingEvent) (domain.RecordingState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fire(e)
}

func (r *Recorder) fire(e domain.RecordingEvent) (domain.RecordingState, bool) {
	next, ok := r.state.Next(e)
	if ok {
		r.state = next
	}
	return r.state, ok
}

// Start begins a recording from Idle, or a re-recording from Preview. The
// previous clip is discarded.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := domain.EventStart
	if r.state == domain.RecordingPreview {
		event = domain.EventReRecord
	}
	if _, ok := r.state.Next(event); !ok {
		return fmt.Errorf("start recording in state %s", r.state)
	}
	if err := r.audio.Start(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}
	r.clip = nil
	r.fire(event)
	return nil
}

// Stop ends the recording and moves to Preview.
func (r *Recorder) Stop(ctx context.Context) (domain.AudioClip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.state.Next(domain.EventStop); !ok {
		return domain.AudioClip{}, fmt.Errorf("stop recording in state %s", r.state)
	}
	clip, err := r.audio.Stop(ctx)
	if err != nil {
		return domain.AudioClip{}, fmt.Errorf("stop recording: %w", err)
	}
	r.clip = &clip
	r.fire(domain.EventStop)
	return clip, nil
}

// Confirm moves Preview to Uploading and hands out the clip to upload.
func (r *Recorder) Confirm() (domain.AudioClip, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clip == nil {
		return domain.AudioClip{}, false
	}
	if _, ok := r.fire(domain.EventConfirm); !ok {
		return domain.AudioClip{}, false
	}
	return *r.clip, true
}

// Succeed finishes an upload and forgets the clip.
func (r *Recorder) Succeed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fire(domain.EventSucceed); ok {
		r.clip = nil
	}
}

// Fail returns to Preview with the clip kept for another attempt.
func (r *Recorder) Fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fire(domain.EventFail)
}

// Abort releases the microphone if it is open and returns to Idle.
func (r *Recorder) Abort(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == domain.RecordingActive {
		_, _ = r.audio.Stop(ctx)
	}
	r.state = domain.RecordingIdle
	r.clip = nil
}
