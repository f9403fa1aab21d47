package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voicebook/internal/service/auth"
)

// TokenRevoker invalidates an access token before it expires.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, claims *auth.Claims) error
}

// SessionCloser ends the voice session of a user.
type SessionCloser interface {
	Close(userID string)
}

type AuthHandler struct {
	revoker  TokenRevoker
	sessions SessionCloser
	log      *zap.Logger
}

func NewAuthHandler(revoker TokenRevoker, sessions SessionCloser, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		revoker:  revoker,
		sessions: sessions,
		log:      log,
	}
}

// Logout revokes the presented token and closes the voice session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals(middleware.LocalClaims).(*auth.Claims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing token claims")
	}

	if err := h.revoker.RevokeToken(c.UserContext(), claims); err != nil {
		h.log.Error("Token revocation failed", zap.String("user_id", claims.Subject), zap.Error(err))
		return err
	}
	h.sessions.Close(claims.Subject)

	h.log.Info("User logged out", zap.String("user_id", claims.Subject))
	return c.SendStatus(fiber.StatusNoContent)
}
