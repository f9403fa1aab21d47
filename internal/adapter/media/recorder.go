package media

import (
	"context"
	"errors"

	"github.com/seu-repo/voicebook/internal/domain"
)

// ErrNoMicrophone is returned by recorders on hosts without audio capture.
var ErrNoMicrophone = errors.New("no microphone attached")

// DetachedRecorder is the recorder of a headless server. Screens that try
// to record report the microphone as unavailable.
type DetachedRecorder struct{}

func (DetachedRecorder) Start(context.Context) error {
	return ErrNoMicrophone
}

func (DetachedRecorder) Stop(context.Context) (domain.AudioClip, error) {
	return domain.AudioClip{}, ErrNoMicrophone
}
