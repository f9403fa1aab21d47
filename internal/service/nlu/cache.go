package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
)

const cacheKeyPrefix = "nlu:"

// Classifier is a remote classifier that reports failures instead of
// collapsing them.
type Classifier interface {
	Classify(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) Result
}

// CachedResolver remembers successful remote classifications by normalized
// utterance. Failures are never cached.
type CachedResolver struct {
	inner Classifier
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

var _ ports.IntentResolver = (*CachedResolver)(nil)

func NewCachedResolver(inner Classifier, cache ports.Cache, ttl time.Duration, log *zap.Logger) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) domain.ResolvedCommand {
	key := cacheKeyPrefix + Normalize(utterance)

	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cmd domain.ResolvedCommand
		if jerr := json.Unmarshal([]byte(raw), &cmd); jerr == nil && cmd.Intent.Valid() {
			telemetry.ClassificationCacheTotal.WithLabelValues("hit").Inc()
			return cmd
		}
		_ = r.cache.Delete(ctx, key)
	case !errors.Is(err, domain.ErrCacheMiss):
		r.log.Warn("Classification cache unavailable", zap.Error(err))
	}
	telemetry.ClassificationCacheTotal.WithLabelValues("miss").Inc()

	res := r.inner.Classify(ctx, utterance, cmdCtx)
	if !res.OK() {
		r.log.Warn("Remote classification failed",
			zap.String("utterance", utterance),
			zap.Error(res.Err),
		)
		return domain.Unknown()
	}

	if res.Command.IsUnknown() {
		return res.Command
	}
	if encoded, err := json.Marshal(res.Command); err == nil {
		if err := r.cache.Set(ctx, key, string(encoded), r.ttl); err != nil {
			r.log.Warn("Failed to cache classification", zap.Error(err))
		}
	}
	return res.Command
}
