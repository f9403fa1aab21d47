// Package auth issues and validates the bearer tokens of the voice API.
// Accounts live in the social backend; only the user ID travels in the
// token subject.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/ports"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

const tokenTypeAccess = "access"

// Claims represents the custom JWT claims used by the application.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// JWTService handles generation, validation, and revocation of JWT tokens.
type JWTService struct {
	secret         []byte
	issuer         string
	accessDuration time.Duration
	cache          ports.Cache
	now            func() time.Time
	log            *zap.Logger
}

// NewJWTService creates a new JWTService instance. Revoked token IDs are
// kept in cache.
func NewJWTService(secret, issuer string, accessDuration time.Duration, cache ports.Cache, log *zap.Logger) *JWTService {
	log.Info("JWT service initialized",
		zap.String("issuer", issuer),
		zap.Duration("access_duration", accessDuration),
	)

	return &JWTService{
		secret:         []byte(secret),
		issuer:         issuer,
		accessDuration: accessDuration,
		cache:          cache,
		now:            time.Now,
		log:            log,
	}
}

// GenerateAccessToken creates a signed JWT access token for the user.
func (s *JWTService) GenerateAccessToken(userID string) (string, error) {
	jti := uuid.New().String()
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		Type: tokenTypeAccess,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		s.log.Error("failed to sign access token",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	s.log.Debug("access token generated",
		zap.String("user_id", userID),
		zap.String("jti", jti),
	)

	return signedToken, nil
}

// ValidateToken parses an access token and rejects revoked ones.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != tokenTypeAccess || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if s.IsTokenRevoked(ctx, claims.ID) {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// RevokeToken blacklists the token until it would have expired anyway.
func (s *JWTService) RevokeToken(ctx context.Context, claims *Claims) error {
	ttl := s.accessDuration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, revokedKey(claims.ID), "revoked", ttl); err != nil {
		s.log.Error("failed to revoke token",
			zap.String("token_id", claims.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("token revoked",
		zap.String("token_id", claims.ID),
		zap.String("user_id", claims.Subject),
	)
	return nil
}

// IsTokenRevoked reports whether the token ID is blacklisted. Cache errors
// count as not revoked.
func (s *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	val, err := s.cache.Get(ctx, revokedKey(tokenID))
	if err != nil {
		return false
	}
	return val == "revoked"
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
