package screen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
)

// navTable maps slot-less navigation intents to the view they open.
var navTable = map[domain.Intent]domain.View{
	domain.IntentOpenMessages:          domain.ViewConversations,
	domain.IntentOpenSettings:          domain.ViewSettings,
	domain.IntentEditProfile:           domain.ViewSettings,
	domain.IntentOpenFriendsPage:       domain.ViewFriends,
	domain.IntentOpenFriendRequests:    domain.ViewFriendRequests,
	domain.IntentOpenAdsCenter:         domain.ViewAdsCenter,
	domain.IntentViewCampaignDashboard: domain.ViewCampaigns,
	domain.IntentOpenRoomsHub:          domain.ViewRoomsHub,
	domain.IntentOpenAudioRooms:        domain.ViewAudioRooms,
	domain.IntentOpenVideoRooms:        domain.ViewVideoRooms,
	domain.IntentOpenGroupsHub:         domain.ViewGroupsHub,
	domain.IntentCreatePost:            domain.ViewCreatePost,
	domain.IntentCreateStory:           domain.ViewCreateStory,
}

const helpText = "You can say things like: open messages, go back, search for a name, " +
	"open feed, like, comment, or generate an image of something."

// handleGlobal runs the navigation intents available on every screen. It
// reports whether the command was consumed.
func handleGlobal(ctx context.Context, d Deps, nav Navigator, cmd domain.ResolvedCommand) bool {
	if cmd.Intent == domain.IntentGoBack {
		nav.GoBack(ctx)
		return true
	}
	if view, ok := navTable[cmd.Intent]; ok {
		nav.Navigate(ctx, view, nil)
		return true
	}

	switch cmd.Intent {
	case domain.IntentOpenFeed:
		nav.Reset(ctx, domain.ViewFeed)
	case domain.IntentHelp:
		d.Notifier.Say(helpText)
	case domain.IntentSearchUser:
		p, _ := cmd.Payload().(domain.TargetPayload)
		if p.TargetName == "" {
			return false
		}
		nav.Navigate(ctx, domain.ViewSearchResults, map[string]string{domain.ParamQuery: p.TargetName})
	case domain.IntentOpenProfile:
		p, _ := cmd.Payload().(domain.TargetPayload)
		if p.TargetName == "" {
			if d.User == nil {
				return false
			}
			nav.Navigate(ctx, domain.ViewProfile, map[string]string{domain.ParamUsername: d.User.Username})
			return true
		}
		u := lookupUser(ctx, d, p.TargetName)
		if u == nil {
			return true
		}
		nav.Navigate(ctx, domain.ViewProfile, map[string]string{domain.ParamUsername: u.Username})
	case domain.IntentOpenChat:
		p, _ := cmd.Payload().(domain.TargetPayload)
		if p.TargetName == "" {
			nav.Navigate(ctx, domain.ViewConversations, nil)
			return true
		}
		u := lookupUser(ctx, d, p.TargetName)
		if u == nil {
			return true
		}
		nav.Navigate(ctx, domain.ViewMessages, map[string]string{domain.ParamRecipientID: u.ID})
	case domain.IntentViewGroupByName:
		p, _ := cmd.Payload().(domain.GroupPayload)
		if p.GroupName == "" {
			return false
		}
		nav.Navigate(ctx, domain.ViewGroupPage, map[string]string{domain.ParamGroupName: p.GroupName})
	case domain.IntentFilterGroupsByCategory:
		p, _ := cmd.Payload().(domain.CategoryPayload)
		nav.Navigate(ctx, domain.ViewGroupsHub, map[string]string{domain.ParamCategory: p.Category})
	case domain.IntentSearchGroup:
		p, _ := cmd.Payload().(domain.SearchPayload)
		nav.Navigate(ctx, domain.ViewGroupsHub, map[string]string{domain.ParamQuery: p.Query})
	case domain.IntentGenerateImage:
		p, _ := cmd.Payload().(domain.PromptPayload)
		if p.Prompt == "" {
			d.Notifier.Say("What should the image show?")
			return true
		}
		nav.Navigate(ctx, domain.ViewImageGeneration, map[string]string{domain.ParamPrompt: p.Prompt})
	default:
		return false
	}
	return true
}

func lookupUser(ctx context.Context, d Deps, name string) *domain.User {
	u, err := d.Social.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			d.Notifier.Say(fmt.Sprintf("I couldn't find anyone called %s.", name))
		} else {
			d.Log.Error("User lookup failed", zap.String("name", name), zap.Error(err))
			d.Notifier.Say("Sorry, something went wrong. Please try again.")
		}
		return nil
	}
	return u
}

// NavScreen serves views without bespoke commands: only the global
// navigation intents apply.
type NavScreen struct {
	view domain.View
	deps Deps
	nav  Navigator
}

func NewNavScreen(view domain.View, deps Deps, nav Navigator) *NavScreen {
	return &NavScreen{view: view, deps: deps, nav: nav}
}

func (s *NavScreen) View() domain.View { return s.view }

func (s *NavScreen) Mount(ctx context.Context) error { return nil }

func (s *NavScreen) HandleCommand(ctx context.Context, cmd domain.ResolvedCommand) {
	handleGlobal(ctx, s.deps, s.nav, cmd)
}

func (s *NavScreen) Unmount() {}
