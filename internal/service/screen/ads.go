package screen

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
)

// AdsCenterScreen builds a campaign draft by voice and submits it for
// approval once the budget is paid.
type AdsCenterScreen struct {
	deps Deps
	nav  Navigator

	mu        sync.Mutex
	draft     domain.Campaign
	launching bool
}

func NewAdsCenterScreen(deps Deps, nav Navigator) *AdsCenterScreen {
	return &AdsCenterScreen{deps: deps, nav: nav}
}

func (s *AdsCenterScreen) View() domain.View { return domain.ViewAdsCenter }

func (s *AdsCenterScreen) Mount(ctx context.Context) error {
	s.reset()
	s.deps.Notifier.Say("Ads center. Say the sponsor name, caption and budget, then launch campaign.")
	return nil
}

func (s *AdsCenterScreen) Unmount() {}

func (s *AdsCenterScreen) Draft() domain.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *AdsCenterScreen) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = domain.Campaign{SponsorID: s.deps.User.ID, SponsorName: s.deps.User.Name}
}

func (s *AdsCenterScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	switch p := cmd.Payload().(type) {
	case domain.SponsorPayload:
		if p.Name == "" {
			return
		}
		s.update(func(c *domain.Campaign) { c.SponsorName = p.Name })
		s.deps.Notifier.Say("Sponsor name set to " + p.Name + ".")
		return
	case domain.CaptionPayload:
		if p.Caption == "" {
			return
		}
		s.update(func(c *domain.Campaign) { c.Caption = p.Caption })
		s.deps.Notifier.Say("Caption set.")
		return
	case domain.BudgetPayload:
		if !p.Valid {
			s.deps.Notifier.Say("Please say a budget greater than zero.")
			return
		}
		s.update(func(c *domain.Campaign) { c.Budget = p.Amount })
		s.deps.Notifier.Say(fmt.Sprintf("Budget set to %.2f %s.", p.Amount, s.deps.Currency))
		return
	case domain.MediaTypePayload:
		if p.MediaType == domain.MediaNone {
			s.deps.Notifier.Say("Media type can be image, video or audio.")
			return
		}
		s.update(func(c *domain.Campaign) { c.MediaType = p.MediaType })
		s.deps.Notifier.Say(fmt.Sprintf("Media type set to %s.", p.MediaType))
		return
	}

	switch cmd.Intent {
	case domain.IntentCreateCampaign:
		s.reset()
		s.deps.Notifier.Say("Starting a new campaign.")
	case domain.IntentLaunchCampaign:
		s.launch(ctx)
	default:
		handleGlobal(ctx, s.deps, s.nav, cmd)
	}
}

func (s *AdsCenterScreen) update(fn func(*domain.Campaign)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
}

func (s *AdsCenterScreen) launch(ctx context.Context) {
	s.mu.Lock()
	if s.launching {
		s.mu.Unlock()
		return
	}
	draft := s.draft
	if err := draft.Validate(); err != nil {
		s.mu.Unlock()
		s.deps.Notifier.Say("The campaign needs a sponsor name, a caption and a budget before launch.")
		return
	}
	s.launching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.launching = false
		s.mu.Unlock()
	}()

	txID, err := s.deps.Payments.CreatePaymentIntent(ctx, draft.Budget, s.deps.Currency, s.deps.User.ID)
	if err != nil {
		s.deps.Log.Error("Campaign payment failed", zap.Float64("budget", draft.Budget), zap.Error(err))
		s.deps.Notifier.Say("Sorry, the payment could not be started.")
		return
	}
	c, err := s.deps.Social.SubmitCampaign(ctx, draft, txID)
	if err != nil {
		s.deps.Log.Error("Campaign submission failed", zap.String("transaction_id", txID), zap.Error(err))
		if rerr := s.deps.Payments.RefundPayment(ctx, txID); rerr != nil {
			s.deps.Log.Error("Campaign refund failed", zap.String("transaction_id", txID), zap.Error(rerr))
		}
		s.deps.Notifier.Say("Sorry, the campaign could not be submitted.")
		return
	}
	s.reset()
	s.deps.Notifier.Say(fmt.Sprintf("Campaign for %s submitted for approval.", c.SponsorName))
}
