package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/ai/anthropic"
	"github.com/seu-repo/voicebook/internal/adapter/ai/gemini"
	"github.com/seu-repo/voicebook/internal/adapter/media"
	"github.com/seu-repo/voicebook/internal/adapter/payment"
	"github.com/seu-repo/voicebook/internal/adapter/vault"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/nlu"
	"github.com/seu-repo/voicebook/pkg/config"
)

type providers struct {
	// llm is nil when the remote fallback is off.
	llm      ports.LLMClient
	images   ports.ImageGenerator
	uploader ports.MediaUploader
	// remoteUploader is nil unless a media host is configured.
	remoteUploader ports.MediaUploader
	payments       ports.PaymentGateway
	recorder       ports.AudioRecorder
}

func newProviders(ctx context.Context, cfg *config.Config, in *infra, logger *zap.Logger) (*providers, error) {
	p := &providers{
		images:   gemini.DisabledImages{},
		uploader: media.InlineUploader{},
		payments: payment.DisabledGateway{},
		recorder: media.DetachedRecorder{},
	}

	// Gemini serves images regardless of the classifier provider.
	geminiKey, err := in.secrets.GeminiAPIKey(ctx)
	switch {
	case err == nil && geminiKey != "":
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:     geminiKey,
			TextModel:  cfg.Gemini.TextModel,
			ImageModel: cfg.Gemini.ImageModel,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		p.images = client
		if cfg.NLU.Provider == "gemini" {
			p.llm = client
		}
	case err != nil && !errors.Is(err, vault.ErrSecretMissing):
		return nil, fmt.Errorf("read gemini api key: %w", err)
	default:
		logger.Warn("Gemini API key not configured; image generation disabled")
	}

	if cfg.NLU.Provider == "anthropic" {
		p.llm = anthropic.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL, logger)
	}
	if !cfg.FeatureFlags.RemoteFallback {
		p.llm = nil
	}

	if cfg.Media.CloudName != "" {
		uploader := media.NewCloudinaryUploader(media.Config{
			CloudName:    cfg.Media.CloudName,
			UploadPreset: cfg.Media.UploadPreset,
			BaseURL:      cfg.Media.BaseURL,
			Timeout:      cfg.Media.Timeout,
		}, logger)
		p.uploader = uploader
		p.remoteUploader = uploader
	}

	if cfg.Payment.Stripe.SecretKey != "" {
		p.payments = payment.NewStripeService(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.BackendURL, logger)
	}

	return p, nil
}

// newPipeline assembles local matching, the optional cached remote
// fallback, and offline mode when no model is available.
func newPipeline(cfg *config.Config, llm ports.LLMClient, cache ports.Cache, logger *zap.Logger) *nlu.Pipeline {
	matcher := nlu.NewLocalMatcher(logger)
	if llm == nil {
		logger.Info("Voice pipeline running offline")
		return nlu.NewPipeline(matcher, nil, logger)
	}

	fbCfg := nlu.DefaultFallbackConfig()
	if cfg.NLU.Timeout > 0 {
		fbCfg.Timeout = cfg.NLU.Timeout
	}
	fallback := nlu.NewRemoteFallback(llm, fbCfg, logger)

	var resolver ports.IntentResolver = fallback
	if cfg.NLU.CacheEnabled {
		ttl := cfg.NLU.CacheTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		resolver = nlu.NewCachedResolver(fallback, cache, ttl, logger)
	}

	logger.Info("Voice pipeline ready", zap.String("provider", cfg.NLU.Provider), zap.Bool("cache", cfg.NLU.CacheEnabled))
	return nlu.NewPipeline(matcher, resolver, logger)
}
