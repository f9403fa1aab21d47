package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/session"
)

const defaultHistoryLimit = 20

// CommandSubmitter runs an utterance through the user's session.
type CommandSubmitter interface {
	Submit(ctx context.Context, userID, utterance string) (session.Result, error)
}

type VoiceHandler struct {
	sessions CommandSubmitter
	resolver session.Resolver
	history  ports.CommandLogRepository
	log      *zap.Logger
}

// NewVoiceHandler wires the voice endpoints. history may be nil, in which
// case the history endpoint answers 404.
func NewVoiceHandler(sessions CommandSubmitter, resolver session.Resolver, history ports.CommandLogRepository, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		sessions: sessions,
		resolver: resolver,
		history:  history,
		log:      log,
	}
}

type UtteranceRequest struct {
	Utterance  string   `json:"utterance"`
	KnownNames []string `json:"known_names,omitempty"`
}

type ResolveResponse struct {
	Command domain.ResolvedCommand `json:"command"`
	Source  string                 `json:"source"`
}

func parseUtterance(c *fiber.Ctx) (UtteranceRequest, error) {
	var req UtteranceRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Utterance = strings.TrimSpace(req.Utterance)
	if req.Utterance == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, "utterance is required")
	}
	return req, nil
}

// ProcessCommand resolves the utterance and delivers it to the screen on
// top of the caller's navigation stack.
func (h *VoiceHandler) ProcessCommand(c *fiber.Ctx) error {
	req, err := parseUtterance(c)
	if err != nil {
		return err
	}

	userID := middleware.UserID(c)
	res, err := h.sessions.Submit(c.UserContext(), userID, req.Utterance)
	if err != nil {
		h.log.Warn("Voice command rejected", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	return c.JSON(res)
}

// Resolve classifies without touching any session.
func (h *VoiceHandler) Resolve(c *fiber.Ctx) error {
	req, err := parseUtterance(c)
	if err != nil {
		return err
	}

	var cmdCtx *domain.CommandContext
	if len(req.KnownNames) > 0 {
		cmdCtx = &domain.CommandContext{KnownNames: req.KnownNames}
	}
	cmd, source := h.resolver.ResolveWithSource(c.UserContext(), req.Utterance, cmdCtx)

	return c.JSON(ResolveResponse{Command: cmd, Source: source})
}

func (h *VoiceHandler) GetHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return fiber.NewError(fiber.StatusNotFound, "command history is disabled")
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := h.history.FindRecentByUser(c.UserContext(), middleware.UserID(c), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.CommandLogEntry{}
	}

	return c.JSON(fiber.Map{"items": entries, "count": len(entries)})
}

// ListIntents returns the intent catalog.
func (h *VoiceHandler) ListIntents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"intents": domain.Intents()})
}
