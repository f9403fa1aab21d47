// Package navigation owns the view stack of a session.
package navigation

import (
	"sync"

	"github.com/google/uuid"

	"github.com/seu-repo/voicebook/internal/domain"
)

// Stack is a navigation history. The bottom frame is the root and is never
// popped. Stack is safe for concurrent use.
type Stack struct {
	mu     sync.RWMutex
	frames []domain.Frame
}

func NewStack(root domain.View) *Stack {
	return &Stack{frames: []domain.Frame{newFrame(root, nil)}}
}

func newFrame(view domain.View, params map[string]string) domain.Frame {
	var p map[string]string
	if len(params) > 0 {
		p = make(map[string]string, len(params))
		for k, v := range params {
			p[k] = v
		}
	}
	return domain.Frame{ID: uuid.NewString(), View: view, Params: p}
}

// Push adds a frame on top and returns it.
func (s *Stack) Push(view domain.View, params map[string]string) domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := newFrame(view, params)
	s.frames = append(s.frames, f)
	return f
}

// Pop removes the top frame and returns the new top. It reports false and
// leaves the stack untouched when only the root remains.
func (s *Stack) Pop() (domain.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) <= 1 {
		return s.frames[0], false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return s.frames[len(s.frames)-1], true
}

// Replace swaps the top frame for a new one. Replacing the root is allowed.
func (s *Stack) Replace(view domain.View, params map[string]string) domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := newFrame(view, params)
	s.frames[len(s.frames)-1] = f
	return f
}

// Reset drops the whole history and starts again from view.
func (s *Stack) Reset(view domain.View) domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := newFrame(view, nil)
	s.frames = []domain.Frame{f}
	return f
}

func (s *Stack) Top() domain.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames[len(s.frames)-1]
}

func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Frames returns a copy of the stack, root first.
func (s *Stack) Frames() []domain.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}
