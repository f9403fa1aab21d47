package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/voicebook/internal/domain"
)

func mountAds(t *testing.T, f *fixture) *AdsCenterScreen {
	t.Helper()
	s := NewAdsCenterScreen(f.deps, f.nav)
	require.NoError(t, s.Mount(context.Background()))
	return s
}

func TestAdsCenter_BuildsDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountAds(t, f)
	assert.Equal(t, "Rahim Uddin", s.Draft().SponsorName)

	s.HandleCommand(ctx, cmd(domain.IntentSetSponsorName, domain.SlotSponsorName, "Rahim Traders"))
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignCaption, domain.SlotCaptionText, "Eid sale"))
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignBudget, domain.SlotBudgetAmount, "250"))
	assert.Equal(t, "Budget set to 250.00 usd.", f.notifier.Last())
	s.HandleCommand(ctx, cmd(domain.IntentSetMediaType, domain.SlotMediaType, "photo"))

	draft := s.Draft()
	assert.Equal(t, "Rahim Traders", draft.SponsorName)
	assert.Equal(t, "Eid sale", draft.Caption)
	assert.Equal(t, 250.0, draft.Budget)
	assert.Equal(t, domain.MediaImage, draft.MediaType)
	assert.Equal(t, me.ID, draft.SponsorID)
}

func TestAdsCenter_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountAds(t, f)

	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignBudget, domain.SlotBudgetAmount, "onek"))
	assert.Equal(t, "Please say a budget greater than zero.", f.notifier.Last())

	s.HandleCommand(ctx, cmd(domain.IntentSetMediaType, domain.SlotMediaType, "hologram"))
	assert.Equal(t, "Media type can be image, video or audio.", f.notifier.Last())

	assert.Zero(t, s.Draft().Budget)
	assert.Equal(t, domain.MediaNone, s.Draft().MediaType)
}

func TestAdsCenter_LaunchIncompleteDraft(t *testing.T) {
	f := newFixture(t)
	s := mountAds(t, f)
	paid := false
	f.payments.CreatePaymentIntentFunc = func(ctx context.Context, amount float64, currency, customerID string) (string, error) {
		paid = true
		return "pi_1", nil
	}

	s.HandleCommand(context.Background(), cmd(domain.IntentLaunchCampaign))

	assert.False(t, paid)
	assert.Equal(t, "The campaign needs a sponsor name, a caption and a budget before launch.", f.notifier.Last())
}

func TestAdsCenter_Launch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	s := mountAds(t, f)
	var charged float64
	f.payments.CreatePaymentIntentFunc = func(ctx context.Context, amount float64, currency, customerID string) (string, error) {
		charged = amount
		assert.Equal(t, "usd", currency)
		assert.Equal(t, me.ID, customerID)
		return "pi_42", nil
	}
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignCaption, domain.SlotCaptionText, "Eid sale"))
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignBudget, domain.SlotBudgetAmount, "100"))

	// Act
	s.HandleCommand(ctx, cmd(domain.IntentLaunchCampaign))

	// Assert
	assert.Equal(t, 100.0, charged)
	assert.Equal(t, "Campaign for Rahim Uddin submitted for approval.", f.notifier.Last())
	docs, err := f.store.Query(ctx, "campaigns", nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "pending", docs[0].Data["status"])
	assert.Equal(t, "pi_42", docs[0].Data["transactionId"])
	assert.Empty(t, s.Draft().Caption)
}

func TestAdsCenter_PaymentFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountAds(t, f)
	f.payments.CreatePaymentIntentFunc = func(ctx context.Context, amount float64, currency, customerID string) (string, error) {
		return "", errors.New("card_declined")
	}
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignCaption, domain.SlotCaptionText, "Eid sale"))
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignBudget, domain.SlotBudgetAmount, "100"))

	s.HandleCommand(ctx, cmd(domain.IntentLaunchCampaign))

	assert.Equal(t, "Sorry, the payment could not be started.", f.notifier.Last())
	assert.Equal(t, "Eid sale", s.Draft().Caption)
	docs, _ := f.store.Query(ctx, "campaigns", nil, nil, 0)
	assert.Empty(t, docs)
}

func TestAdsCenter_CreateCampaignResets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := mountAds(t, f)
	s.HandleCommand(ctx, cmd(domain.IntentSetCampaignCaption, domain.SlotCaptionText, "Eid sale"))

	s.HandleCommand(ctx, cmd(domain.IntentCreateCampaign))

	assert.Empty(t, s.Draft().Caption)
	assert.Equal(t, "Starting a new campaign.", f.notifier.Last())
}
