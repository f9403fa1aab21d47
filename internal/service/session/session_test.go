package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/seu-repo/voicebook/internal/adapter/storage/memory"
	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/mocks"
	"github.com/seu-repo/voicebook/internal/service/nlu"
	"github.com/seu-repo/voicebook/internal/service/screen"
	"github.com/seu-repo/voicebook/internal/service/social"
	"github.com/seu-repo/voicebook/pkg/docmap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeResolver struct {
	ResolveFunc func(ctx context.Context, utterance string) domain.ResolvedCommand
}

func (r *fakeResolver) ResolveWithSource(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) (domain.ResolvedCommand, string) {
	if r.ResolveFunc != nil {
		return r.ResolveFunc(ctx, utterance), domain.SourceLocal
	}
	return domain.ResolvedCommand{Intent: domain.Intent(utterance)}, domain.SourceLocal
}

type fakeScreen struct {
	view     domain.View
	mountErr error

	mu       sync.Mutex
	commands []domain.ResolvedCommand
	mounted  bool
	unmounts int
}

func (s *fakeScreen) View() domain.View { return s.view }

func (s *fakeScreen) Mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mountErr != nil {
		return s.mountErr
	}
	s.mounted = true
	return nil
}

func (s *fakeScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
}

func (s *fakeScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
	s.unmounts++
}

func (s *fakeScreen) Commands() []domain.ResolvedCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ResolvedCommand(nil), s.commands...)
}

// fakeBuilder hands out one fakeScreen per frame and remembers them.
type fakeBuilder struct {
	mu      sync.Mutex
	failing map[domain.View]error
	built   []*fakeScreen
}

func (b *fakeBuilder) Build(frame domain.Frame, nav screen.Navigator) screen.Screen {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &fakeScreen{view: frame.View, mountErr: b.failing[frame.View]}
	b.built = append(b.built, s)
	return s
}

func (b *fakeBuilder) last() *fakeScreen {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.built[len(b.built)-1]
}

func (b *fakeBuilder) first() *fakeScreen {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.built[0]
}

type harness struct {
	session  *Session
	resolver *fakeResolver
	builder  *fakeBuilder
	notifier *mocks.MockNotifier
	logs     *mocks.MockCommandLogRepository
	events   *mocks.MockEventPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		resolver: &fakeResolver{},
		builder:  &fakeBuilder{failing: map[domain.View]error{}},
		notifier: mocks.NewMockNotifier(),
		logs:     mocks.NewMockCommandLogRepository(),
		events:   mocks.NewMockEventPublisher(),
	}
	s, err := New(Deps{
		UserID:     "u1",
		Resolver:   h.resolver,
		Screens:    h.builder,
		Notifier:   h.notifier,
		CommandLog: h.logs,
		Events:     h.events,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	h.session = s
	return h
}

func TestSession_StartsOnFeed(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, domain.ViewFeed, h.session.Top().View)
	assert.Len(t, h.session.Frames(), 1)
	assert.True(t, h.builder.first().mounted)
}

func TestSession_SubmitDelivers(t *testing.T) {
	// Arrange
	h := newHarness(t)
	ctx := context.Background()

	// Act
	res, err := h.session.Submit(ctx, string(domain.IntentLike))

	// Assert
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, domain.IntentLike, res.Command.Intent)
	assert.Equal(t, domain.ViewFeed, res.View)
	assert.Equal(t, []domain.ResolvedCommand{{Intent: domain.IntentLike}}, h.builder.first().Commands())
	assert.False(t, h.session.Processing())

	entries := h.logs.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, domain.IntentLike, entries[0].Intent)
	assert.True(t, entries[0].Delivered)

	published := h.events.GetPublishedMessages(SubjectCommandResolved)
	require.Len(t, published, 1)
	var event domain.CommandLogEntry
	require.NoError(t, json.Unmarshal(published[0], &event))
	assert.Equal(t, entries[0].ID, event.ID)
}

func TestSession_SlotsAreLogged(t *testing.T) {
	h := newHarness(t)
	h.resolver.ResolveFunc = func(ctx context.Context, utterance string) domain.ResolvedCommand {
		return domain.ResolvedCommand{
			Intent: domain.IntentSearchUser,
			Slots:  domain.Slots{domain.SlotTargetName: domain.StringSlot("karim")},
		}
	}

	_, err := h.session.Submit(context.Background(), "search karim")
	require.NoError(t, err)

	entries := h.logs.Entries()
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"target_name":"karim"}`, entries[0].Slots)
}

func TestSession_BusyWhileResolving(t *testing.T) {
	h := newHarness(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	h.resolver.ResolveFunc = func(ctx context.Context, utterance string) domain.ResolvedCommand {
		close(entered)
		<-release
		return domain.ResolvedCommand{Intent: domain.IntentLike}
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.session.Submit(context.Background(), "like")
		done <- err
	}()
	<-entered

	assert.True(t, h.session.Processing())
	_, err := h.session.Submit(context.Background(), "like")
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, h.session.Processing())
	assert.Len(t, h.builder.first().Commands(), 1)
}

func TestSession_DropsCommandForScreenThatChanged(t *testing.T) {
	// Arrange
	h := newHarness(t)
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	h.resolver.ResolveFunc = func(ctx context.Context, utterance string) domain.ResolvedCommand {
		close(entered)
		<-release
		return domain.ResolvedCommand{Intent: domain.IntentLike}
	}
	feed := h.builder.first()

	done := make(chan Result, 1)
	go func() {
		res, _ := h.session.Submit(ctx, "like")
		done <- res
	}()
	<-entered

	// Act
	h.session.Navigate(ctx, domain.ViewSettings, nil)
	close(release)
	res := <-done

	// Assert
	assert.False(t, res.Delivered)
	assert.Equal(t, domain.ViewFeed, res.View)
	assert.Empty(t, feed.Commands())
	assert.Empty(t, h.builder.last().Commands())
	require.Len(t, h.logs.Entries(), 1)
	assert.False(t, h.logs.Entries()[0].Delivered)
}

func TestSession_UnknownIsNotDelivered(t *testing.T) {
	h := newHarness(t)
	h.resolver.ResolveFunc = func(ctx context.Context, utterance string) domain.ResolvedCommand {
		return domain.Unknown()
	}

	res, err := h.session.Submit(context.Background(), "blah")

	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Empty(t, h.builder.first().Commands())
	assert.Contains(t, h.notifier.Last(), "didn't understand")
}

func TestSession_NavigationMountsAndUnmounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	feed := h.builder.first()

	h.session.Navigate(ctx, domain.ViewPostDetails, map[string]string{domain.ParamPostID: "p1"})
	details := h.builder.last()

	assert.Equal(t, 1, feed.unmounts)
	assert.True(t, details.mounted)
	assert.Equal(t, "p1", h.session.Top().Param(domain.ParamPostID))

	h.session.ReplaceTop(ctx, domain.ViewCreateComment, nil)
	assert.Equal(t, 1, details.unmounts)
	assert.Len(t, h.session.Frames(), 2)

	h.session.GoBack(ctx)
	assert.Equal(t, domain.ViewFeed, h.session.Top().View)
	assert.True(t, h.builder.last().mounted)

	// the root is never popped
	h.session.GoBack(ctx)
	assert.Len(t, h.session.Frames(), 1)

	h.session.Navigate(ctx, domain.ViewSettings, nil)
	h.session.Navigate(ctx, domain.ViewFriends, nil)
	h.session.Reset(ctx, domain.ViewFeed)
	assert.Len(t, h.session.Frames(), 1)
}

func TestSession_MountFailurePopsFrame(t *testing.T) {
	h := newHarness(t)
	h.builder.failing[domain.ViewCreateComment] = screen.ErrMicUnavailable
	ctx := context.Background()
	h.session.Navigate(ctx, domain.ViewPostDetails, nil)
	before := h.session.Top()

	h.session.Navigate(ctx, domain.ViewCreateComment, nil)

	assert.Equal(t, domain.ViewPostDetails, h.session.Top().View)
	assert.Equal(t, before.ID, h.session.Top().ID)
	assert.True(t, h.builder.last().mounted)
	assert.Equal(t, domain.ViewPostDetails, h.session.Screen().View())
}

func TestSession_Close(t *testing.T) {
	h := newHarness(t)
	feed := h.builder.first()

	h.session.Close()
	h.session.Close()

	assert.Equal(t, 1, feed.unmounts)
	_, err := h.session.Submit(context.Background(), "like")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	h.session.Navigate(context.Background(), domain.ViewSettings, nil)
	assert.Len(t, h.session.Frames(), 1)
}

func TestSession_PublishFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.events.PublishFunc = func(subject string, data []byte) error {
		return errors.New("nats: connection closed")
	}

	res, err := h.session.Submit(context.Background(), string(domain.IntentLike))

	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

// End to end: real matcher, screens and store.
func TestSession_VoiceNavigation(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	store := memory.NewStore(log)
	for _, u := range []domain.User{
		{ID: "u1", Name: "Rahim Uddin", Username: "rahim"},
		{ID: "u2", Name: "Karim Ahmed", Username: "karim"},
	} {
		data, err := docmap.Encode(u)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "users", u.ID, data))
	}
	notifier := mocks.NewMockNotifier()
	me := &domain.User{ID: "u1", Name: "Rahim Uddin", Username: "rahim"}
	factory := screen.NewFactory(screen.Deps{
		User:     me,
		Social:   social.NewService(store, &mocks.MockMediaUploader{}, log),
		Audio:    &mocks.MockAudioRecorder{},
		Images:   &mocks.MockImageGenerator{},
		Payments: &mocks.MockPaymentGateway{},
		Notifier: notifier,
		Currency: "usd",
		Log:      log,
	})
	pipeline := nlu.NewPipeline(nlu.NewLocalMatcher(log), nil, log)
	s, err := New(Deps{UserID: me.ID, Resolver: pipeline, Screens: factory, Notifier: notifier}, log)
	require.NoError(t, err)
	defer s.Close()

	res, err := s.Submit(ctx, "chat with karim")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, domain.ViewMessages, s.Top().View)
	assert.Equal(t, "u2", s.Top().Param(domain.ParamRecipientID))
	assert.Equal(t, "Chat with Karim Ahmed.", notifier.Last())

	_, err = s.Submit(ctx, "go back")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewFeed, s.Top().View)
}

func TestManager(t *testing.T) {
	opened := 0
	m := NewManager(func(ctx context.Context, userID string) (*Session, error) {
		if userID == "bad" {
			return nil, errors.New("no such user")
		}
		opened++
		return New(Deps{
			UserID:   userID,
			Resolver: &fakeResolver{},
			Screens:  &fakeBuilder{},
			Notifier: mocks.NewMockNotifier(),
		}, zap.NewNop())
	}, zap.NewNop())
	ctx := context.Background()

	a, err := m.Get(ctx, "u1")
	require.NoError(t, err)
	again, err := m.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, 1, opened)

	_, err = m.Get(ctx, "bad")
	assert.Error(t, err)

	_, err = m.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count())

	m.Close("u1")
	_, ok := m.Lookup("u1")
	assert.False(t, ok)
	_, err = a.Submit(ctx, "like")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	res, err := m.Submit(ctx, "u3", string(domain.IntentLike))
	require.NoError(t, err)
	assert.Equal(t, domain.IntentLike, res.Command.Intent)
	assert.Equal(t, 2, m.Count())

	m.CloseAll()
	assert.Zero(t, m.Count())
}

func TestSession_SubmitRespectsDeadline(t *testing.T) {
	h := newHarness(t)
	h.resolver.ResolveFunc = func(ctx context.Context, utterance string) domain.ResolvedCommand {
		<-ctx.Done()
		return domain.Unknown()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := h.session.Submit(ctx, "anything")

	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.False(t, h.session.Processing())
}
