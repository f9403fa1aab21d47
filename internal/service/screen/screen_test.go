package screen

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/storage/memory"
	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/mocks"
	"github.com/seu-repo/voicebook/internal/service/social"
	"github.com/seu-repo/voicebook/pkg/docmap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type navCall struct {
	op     string
	view   domain.View
	params map[string]string
}

// recordingNav stands in for the session.
type recordingNav struct {
	mu    sync.Mutex
	calls []navCall
}

func (n *recordingNav) record(c navCall) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, c)
}

func (n *recordingNav) Navigate(ctx context.Context, view domain.View, params map[string]string) {
	n.record(navCall{op: "navigate", view: view, params: params})
}

func (n *recordingNav) GoBack(ctx context.Context) {
	n.record(navCall{op: "back"})
}

func (n *recordingNav) ReplaceTop(ctx context.Context, view domain.View, params map[string]string) {
	n.record(navCall{op: "replace", view: view, params: params})
}

func (n *recordingNav) Reset(ctx context.Context, view domain.View) {
	n.record(navCall{op: "reset", view: view})
}

func (n *recordingNav) Calls() []navCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]navCall(nil), n.calls...)
}

type fixture struct {
	deps     Deps
	nav      *recordingNav
	store    *memory.Store
	social   *social.Service
	audio    *mocks.MockAudioRecorder
	uploader *mocks.MockMediaUploader
	notifier *mocks.MockNotifier
	payments *mocks.MockPaymentGateway
	images   *mocks.MockImageGenerator
}

var (
	me    = domain.User{ID: "u1", Name: "Rahim Uddin", Username: "rahim"}
	karim = domain.User{ID: "u2", Name: "Karim Ahmed", Username: "karim"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	f := &fixture{
		nav:      &recordingNav{},
		store:    memory.NewStore(log),
		audio:    &mocks.MockAudioRecorder{},
		uploader: &mocks.MockMediaUploader{},
		notifier: mocks.NewMockNotifier(),
		payments: &mocks.MockPaymentGateway{},
		images:   &mocks.MockImageGenerator{},
	}
	f.social = social.NewService(f.store, f.uploader, log)
	user := me
	f.deps = Deps{
		User:     &user,
		Social:   f.social,
		Audio:    f.audio,
		Images:   f.images,
		Payments: f.payments,
		Notifier: f.notifier,
		Currency: "usd",
		Log:      log,
	}
	for _, u := range []domain.User{me, karim} {
		f.put(t, "users", u.ID, u)
	}
	return f
}

func (f *fixture) put(t *testing.T, collection, id string, v any) {
	t.Helper()
	data, err := docmap.Encode(v)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(context.Background(), collection, id, data))
}

func (f *fixture) seedPost(t *testing.T, p domain.Post) {
	t.Helper()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	f.put(t, "posts", p.ID, p)
}

func cmd(intent domain.Intent, kv ...string) domain.ResolvedCommand {
	c := domain.ResolvedCommand{Intent: intent}
	if len(kv) > 0 {
		c.Slots = domain.Slots{}
		for i := 0; i+1 < len(kv); i += 2 {
			c.Slots[kv[i]] = domain.StringSlot(kv[i+1])
		}
	}
	return c
}
