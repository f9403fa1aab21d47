package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/storage/memory"
	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/mocks"
	"github.com/seu-repo/voicebook/pkg/docmap"
)

func newTestService(t *testing.T) (*Service, *memory.Store, *mocks.MockMediaUploader) {
	t.Helper()
	log := zap.NewNop()
	store := memory.NewStore(log)
	uploader := &mocks.MockMediaUploader{}
	svc := NewService(store, uploader, log)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, store, uploader
}

func seedPost(t *testing.T, store *memory.Store, id string, poll *domain.Poll) {
	t.Helper()
	data, err := docmap.Encode(domain.Post{
		ID:        id,
		Author:    domain.Author{ID: "author", Name: "Author"},
		Caption:   "hello",
		Poll:      poll,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), colPosts, id, data))
}

var testUser = &domain.User{ID: "u1", Name: "Rahim Uddin", Username: "rahim"}

func TestChatID_OrderIndependent(t *testing.T) {
	assert.Equal(t, ChatID("a", "b"), ChatID("b", "a"))
	assert.Equal(t, "a_b", ChatID("b", "a"))
}

func TestReactToPost_Toggles(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	seedPost(t, store, "p1", nil)

	require.NoError(t, svc.ReactToPost(ctx, "p1", "u1", "👍"))
	post, err := svc.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "👍", post.Reactions["u1"])

	require.NoError(t, svc.ReactToPost(ctx, "p1", "u1", "❤️"))
	post, _ = svc.GetPost(ctx, "p1")
	assert.Equal(t, "❤️", post.Reactions["u1"])

	require.NoError(t, svc.ReactToPost(ctx, "p1", "u1", "❤️"))
	post, _ = svc.GetPost(ctx, "p1")
	assert.NotContains(t, post.Reactions, "u1")
}

func TestReactToPost_MissingPost(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ReactToPost(context.Background(), "nope", "u1", "👍")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateComment_Audio(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, store, uploader := newTestService(t)
	seedPost(t, store, "p1", nil)
	clip := &domain.AudioClip{Data: []byte("webm"), MimeType: "audio/webm", Duration: 6}

	// Act
	c, err := svc.CreateComment(ctx, testUser, "p1", CommentInput{Audio: clip, Text: "ignored"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.CommentAudio, c.Type)
	assert.Equal(t, "https://media.test/comment_audio_"+c.ID+".webm", c.AudioURL)
	assert.Len(t, uploader.Uploaded, 1)

	post, err := svc.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, post.CommentCount)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, c.ID, post.Comments[0].ID)
	assert.Equal(t, "Rahim Uddin", post.Comments[0].Author.Name)
	assert.Equal(t, float64(6), post.Comments[0].Duration)
}

func TestCreateComment_Text(t *testing.T) {
	ctx := context.Background()
	svc, store, uploader := newTestService(t)
	seedPost(t, store, "p1", nil)

	c, err := svc.CreateComment(ctx, testUser, "p1", CommentInput{Text: "nice one", ParentID: "c0"})

	require.NoError(t, err)
	assert.Equal(t, domain.CommentText, c.Type)
	assert.Equal(t, "c0", c.ParentID)
	assert.Empty(t, uploader.Uploaded)
}

func TestCreateComment_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	seedPost(t, store, "p1", nil)

	_, err := svc.CreateComment(ctx, testUser, "p1", CommentInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrNoContent)

	until := time.Now().Add(time.Hour)
	suspended := &domain.User{ID: "u2", CommentingSuspendedUntil: &until}
	_, err = svc.CreateComment(ctx, suspended, "p1", CommentInput{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrCommentingSuspended)

	_, err = svc.CreateComment(ctx, testUser, "missing", CommentInput{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	post, _ := svc.GetPost(ctx, "p1")
	assert.Zero(t, post.CommentCount)
}

func TestCreateComment_UploadFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, uploader := newTestService(t)
	seedPost(t, store, "p1", nil)
	uploader.UploadFunc = func(ctx context.Context, blob []byte, filename, contentType string) (domain.Upload, error) {
		return domain.Upload{}, errors.New("cloud down")
	}

	_, err := svc.CreateComment(ctx, testUser, "p1", CommentInput{Image: []byte{1}, ImageType: "image/jpeg"})

	require.Error(t, err)
	post, _ := svc.GetPost(ctx, "p1")
	assert.Zero(t, post.CommentCount)
}

func TestReactToComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	seedPost(t, store, "p1", nil)
	c, err := svc.CreateComment(ctx, testUser, "p1", CommentInput{Text: "first"})
	require.NoError(t, err)

	require.NoError(t, svc.ReactToComment(ctx, "p1", c.ID, "u9", "😂"))
	post, _ := svc.GetPost(ctx, "p1")
	assert.Equal(t, "😂", post.Comments[0].Reactions["u9"])

	require.NoError(t, svc.ReactToComment(ctx, "p1", c.ID, "u9", "😂"))
	post, _ = svc.GetPost(ctx, "p1")
	assert.Empty(t, post.Comments[0].Reactions)

	assert.ErrorIs(t, svc.ReactToComment(ctx, "p1", "nope", "u9", "😂"), domain.ErrNotFound)
}

func TestVoteOnPoll(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	seedPost(t, store, "p1", &domain.Poll{
		Question: "Lunch?",
		Options:  []domain.PollOption{{Text: "Biryani", VotedBy: []string{}}, {Text: "Khichuri", VotedBy: []string{}}},
	})
	seedPost(t, store, "p2", nil)

	post, err := svc.VoteOnPoll(ctx, "p1", "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, post.Poll.Options[1].Votes)

	post, err = svc.VoteOnPoll(ctx, "p1", "u1", 0)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	require.NotNil(t, post)
	assert.Equal(t, 0, post.Poll.Options[0].Votes)

	_, err = svc.VoteOnPoll(ctx, "p1", "u2", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, err = svc.VoteOnPoll(ctx, "p2", "u2", 0)
	assert.ErrorIs(t, err, domain.ErrNoPoll)

	stored, _ := svc.GetPost(ctx, "p1")
	assert.Equal(t, []string{"u1"}, stored.Poll.Options[1].VotedBy)
}

func TestMessages_SendReactDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	chat := ChatID("u1", "u2")

	var latest []domain.Message
	unsub, err := svc.SubscribeMessages(ctx, chat, func(msgs []domain.Message) { latest = msgs })
	require.NoError(t, err)
	defer unsub()

	first, err := svc.SendText(ctx, "u2", "u1", "kemon acho?", nil)
	require.NoError(t, err)
	reply, err := svc.SendText(ctx, "u1", "u2", "bhalo", ReplySnippetFor(first, "Karim"))
	require.NoError(t, err)
	_, err = svc.SendAudio(ctx, "u1", "u2", domain.AudioClip{Data: []byte("a"), MimeType: "audio/webm", Duration: 3}, nil)
	require.NoError(t, err)

	require.Len(t, latest, 3)
	assert.Equal(t, first.ID, latest[0].ID)
	require.NotNil(t, latest[1].ReplyTo)
	assert.Equal(t, "kemon acho?", latest[1].ReplyTo.Content)
	assert.Equal(t, reply.ID, latest[1].ID)
	assert.Equal(t, domain.MessageAudio, latest[2].Type)

	m, err := svc.ReactToMessage(ctx, chat, first.ID, "u1", "❤️")
	require.NoError(t, err)
	assert.Equal(t, "❤️", m.Reactions["u1"])

	require.NoError(t, svc.DeleteChat(ctx, chat))
	assert.Empty(t, latest)
}

func TestChatSettings(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	settings, err := svc.GetChatSettings(ctx, "a_b")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatTheme("default"), settings.Theme)

	require.NoError(t, svc.UpdateChatSettings(ctx, "a_b", domain.ChatSettings{Theme: "ocean"}))
	settings, _ = svc.GetChatSettings(ctx, "a_b")
	assert.Equal(t, domain.ChatTheme("ocean"), settings.Theme)

	assert.ErrorIs(t, svc.UpdateChatSettings(ctx, "a_b", domain.ChatSettings{Theme: "plaid"}), domain.ErrUnknownTheme)
}

func TestFindUserByName(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	for _, u := range []domain.User{
		{ID: "u1", Name: "Rahim Uddin", Username: "rahim"},
		{ID: "u2", Name: "Rahima Khatun", Username: "rahima"},
		{ID: "u3", Name: "Karim", Username: "karim_k"},
	} {
		data, err := docmap.Encode(u)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, colUsers, u.ID, data))
	}

	u, err := svc.FindUserByName(ctx, "Rahima")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	u, err = svc.FindUserByName(ctx, "kar")
	require.NoError(t, err)
	assert.Equal(t, "u3", u.ID)

	_, err = svc.FindUserByName(ctx, "shojib")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKnownNames_ExcludesSelf(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	for _, u := range []domain.User{
		{ID: "u1", Name: "Rahim Uddin"},
		{ID: "u2", Name: "Karim Ahmed"},
		{ID: "u3", Name: "Bithi Akter"},
	} {
		data, err := docmap.Encode(u)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, colUsers, u.ID, data))
	}

	assert.Equal(t, []string{"Bithi Akter", "Karim Ahmed"}, svc.KnownNames(ctx, "u1", 10))
	assert.Equal(t, []string{"Bithi Akter"}, svc.KnownNames(ctx, "u1", 1))
}

func TestSubmitCampaign(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	_, err := svc.SubmitCampaign(ctx, domain.Campaign{SponsorName: "Acme"}, "pi_1")
	assert.ErrorIs(t, err, domain.ErrInvalidCampaign)

	c, err := svc.SubmitCampaign(ctx, domain.Campaign{SponsorID: "u1", SponsorName: "Acme", Caption: "Buy", Budget: 500}, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignPending, c.Status)

	doc, err := store.Get(ctx, colCampaigns, c.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "pi_1", doc.Data["transactionId"])
	assert.Equal(t, "pending", doc.Data["status"])
}

func TestSubscribePost(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	seedPost(t, store, "p1", nil)

	var seen []*domain.Post
	unsub, err := svc.SubscribePost(ctx, "p1", func(p *domain.Post) { seen = append(seen, p) })
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, svc.ReactToPost(ctx, "p1", "u1", "👍"))
	require.NoError(t, store.Delete(ctx, colPosts, "p1"))

	require.Len(t, seen, 3)
	assert.Empty(t, seen[0].Reactions)
	assert.Equal(t, "👍", seen[1].Reactions["u1"])
	assert.Nil(t, seen[2])
}
