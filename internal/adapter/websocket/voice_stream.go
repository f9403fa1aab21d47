package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/service/session"
)

// Submitter runs an utterance through the user's session.
type Submitter interface {
	Submit(ctx context.Context, userID, utterance string) (session.Result, error)
}

type VoiceStreamHandler struct {
	hub      *Hub
	sessions Submitter
	timeout  time.Duration
	logger   *zap.Logger
}

func NewVoiceStreamHandler(hub *Hub, sessions Submitter, timeout time.Duration, logger *zap.Logger) *VoiceStreamHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VoiceStreamHandler{
		hub:      hub,
		sessions: sessions,
		timeout:  timeout,
		logger:   logger,
	}
}

type utteranceFrame struct {
	Utterance string `json:"utterance"`
}

// HandleVoiceStream accepts utterances as text frames, either bare text or
// {"utterance": "..."}, and answers each with a result or error frame.
// Spoken feedback from the session arrives on the same connection.
func (h *VoiceStreamHandler) HandleVoiceStream(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"))
		c.Close()
		return
	}

	h.logger.Info("Voice stream connected", zap.String("user_id", userID))
	h.hub.Serve(c, userID, func(msg []byte) *Message {
		return h.handleUtterance(userID, msg)
	})
	h.logger.Info("Voice stream closed", zap.String("user_id", userID))
}

func (h *VoiceStreamHandler) handleUtterance(userID string, msg []byte) *Message {
	utterance := string(msg)
	var frame utteranceFrame
	if json.Unmarshal(msg, &frame) == nil && frame.Utterance != "" {
		utterance = frame.Utterance
	}
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	res, err := h.sessions.Submit(ctx, userID, utterance)
	if err != nil {
		if !errors.Is(err, domain.ErrBusy) {
			h.logger.Error("Failed to process voice command", zap.String("user_id", userID), zap.Error(err))
		}
		return &Message{Type: TypeError, Message: err.Error()}
	}

	data, err := json.Marshal(res)
	if err != nil {
		return &Message{Type: TypeError, Message: err.Error()}
	}
	return &Message{Type: TypeResult, Data: data}
}

// SetupVoiceRoutes mounts the voice stream at /ws/voice. Authentication
// middleware must run before it so user_id is in Locals.
func SetupVoiceRoutes(router fiber.Router, handler *VoiceStreamHandler) {
	router.Use("/ws/voice", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws/voice", websocket.New(handler.HandleVoiceStream))
}
