package screen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/voicebook/internal/domain"
)

func mountFeed(t *testing.T, f *fixture) *FeedScreen {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.seedPost(t, domain.Post{ID: "old", Author: me.Author(), CreatedAt: base})
	f.seedPost(t, domain.Post{ID: "new", Author: karim.Author(), CreatedAt: base.Add(time.Hour)})
	s := NewFeedScreen(f.deps, f.nav)
	require.NoError(t, s.Mount(context.Background()))
	return s
}

func TestFeed_NewestFirst(t *testing.T) {
	f := newFixture(t)

	s := mountFeed(t, f)

	post, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "new", post.ID)
	assert.False(t, s.Playing())
}

func TestFeed_EmptyFeed(t *testing.T) {
	f := newFixture(t)
	s := NewFeedScreen(f.deps, f.nav)

	require.NoError(t, s.Mount(context.Background()))

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, "Your feed is empty.", f.notifier.Last())

	s.HandleCommand(context.Background(), cmd(domain.IntentPlayPost))
	assert.False(t, s.Playing())
}

func TestFeed_NextAndPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountFeed(t, f)

	s.HandleCommand(ctx, cmd(domain.IntentNextPost))
	post, _ := s.Current()
	assert.Equal(t, "old", post.ID)
	assert.True(t, s.Playing())
	assert.Equal(t, "Playing post from Rahim Uddin.", f.notifier.Last())

	s.HandleCommand(ctx, cmd(domain.IntentNextPost))
	assert.Equal(t, "You've reached the end of your feed.", f.notifier.Last())

	s.HandleCommand(ctx, cmd(domain.IntentPreviousPost))
	s.HandleCommand(ctx, cmd(domain.IntentPreviousPost))
	assert.Equal(t, "This is the first post.", f.notifier.Last())
	post, _ = s.Current()
	assert.Equal(t, "new", post.ID)
}

func TestFeed_PlaybackAndScroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountFeed(t, f)

	s.HandleCommand(ctx, cmd(domain.IntentPlayPost))
	assert.True(t, s.Playing())
	s.HandleCommand(ctx, cmd(domain.IntentPausePost))
	assert.False(t, s.Playing())

	s.HandleCommand(ctx, cmd(domain.IntentScrollDown))
	assert.Equal(t, ScrollDown, s.Scroll())
	s.HandleCommand(ctx, cmd(domain.IntentScrollUp))
	assert.Equal(t, ScrollUp, s.Scroll())
	s.HandleCommand(ctx, cmd(domain.IntentStopScroll))
	assert.Equal(t, ScrollNone, s.Scroll())
}

func TestFeed_LikeCurrentPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountFeed(t, f)

	s.HandleCommand(ctx, cmd(domain.IntentLike))

	assert.Equal(t, "Liked Karim Ahmed's post.", f.notifier.Last())
	post, err := f.social.GetPost(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, likeGlyph, post.Reactions[me.ID])
}

func TestFeed_ReloadPicksUpNewPosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountFeed(t, f)
	s.HandleCommand(ctx, cmd(domain.IntentNextPost))
	f.seedPost(t, domain.Post{ID: "newest", Author: karim.Author(), CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})

	s.HandleCommand(ctx, cmd(domain.IntentReloadPage))

	assert.Equal(t, "Feed refreshed.", f.notifier.Last())
	post, _ := s.Current()
	assert.Equal(t, "newest", post.ID)
	assert.False(t, s.Playing())
}

func TestFeed_CommentAndViewComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountFeed(t, f)

	s.HandleCommand(ctx, cmd(domain.IntentComment))
	s.HandleCommand(ctx, cmd(domain.IntentViewComments))
	s.HandleCommand(ctx, cmd(domain.IntentOpenMessages))

	assert.Equal(t, []navCall{
		{op: "navigate", view: domain.ViewCreateComment, params: map[string]string{domain.ParamPostID: "new"}},
		{op: "navigate", view: domain.ViewPostDetails, params: map[string]string{domain.ParamPostID: "new"}},
		{op: "navigate", view: domain.ViewConversations},
	}, f.nav.Calls())
}
