package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/voicebook/internal/domain"
)

func TestStack_PushPop(t *testing.T) {
	s := NewStack(domain.ViewFeed)
	root := s.Top()

	details := s.Push(domain.ViewPostDetails, map[string]string{domain.ParamPostID: "p1"})
	comment := s.Push(domain.ViewCreateComment, map[string]string{domain.ParamPostID: "p1", domain.ParamCommentMode: "audio"})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, comment.ID, s.Top().ID)
	assert.Equal(t, "audio", s.Top().Param(domain.ParamCommentMode))

	top, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, details.ID, top.ID)

	top, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, root.ID, top.ID)
}

func TestStack_NeverPopsRoot(t *testing.T) {
	s := NewStack(domain.ViewFeed)
	root := s.Top()

	top, ok := s.Pop()

	assert.False(t, ok)
	assert.Equal(t, root, top)
	assert.Equal(t, 1, s.Len())
}

func TestStack_ReplaceKeepsDepth(t *testing.T) {
	s := NewStack(domain.ViewFeed)
	s.Push(domain.ViewPostDetails, map[string]string{domain.ParamPostID: "p1"})
	old := s.Push(domain.ViewCreateComment, nil)

	f := s.Replace(domain.ViewPostDetails, map[string]string{domain.ParamPostID: "p1"})

	assert.Equal(t, 3, s.Len())
	assert.NotEqual(t, old.ID, f.ID)
	assert.Equal(t, domain.ViewPostDetails, s.Top().View)
}

func TestStack_Reset(t *testing.T) {
	s := NewStack(domain.ViewFeed)
	s.Push(domain.ViewMessages, nil)
	s.Push(domain.ViewSettings, nil)

	f := s.Reset(domain.ViewAuth)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, domain.ViewAuth, f.View)
	_, ok := s.Pop()
	assert.False(t, ok)
}

func TestStack_FrameIDsAreUnique(t *testing.T) {
	s := NewStack(domain.ViewFeed)
	seen := map[string]bool{s.Top().ID: true}
	for i := 0; i < 50; i++ {
		f := s.Push(domain.ViewProfile, nil)
		require.False(t, seen[f.ID], "duplicate frame id %s", f.ID)
		seen[f.ID] = true
	}
}

func TestStack_ParamsAreCopied(t *testing.T) {
	s := NewStack(domain.ViewFeed)
	params := map[string]string{domain.ParamUsername: "rahim"}
	s.Push(domain.ViewProfile, params)

	params[domain.ParamUsername] = "karim"
	frames := s.Frames()
	frames[0].View = domain.ViewAuth

	assert.Equal(t, "rahim", s.Top().Param(domain.ParamUsername))
	assert.Equal(t, domain.ViewFeed, s.Frames()[0].View)
}
