package nlu

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
)

// Pipeline resolves utterances locally first and falls back to the remote
// resolver on a miss. A nil fallback means offline mode: misses resolve to
// unknown.
type Pipeline struct {
	matcher  ports.IntentMatcher
	fallback ports.IntentResolver
	log      *zap.Logger
}

func NewPipeline(matcher ports.IntentMatcher, fallback ports.IntentResolver, log *zap.Logger) *Pipeline {
	return &Pipeline{
		matcher:  matcher,
		fallback: fallback,
		log:      log,
	}
}

var _ ports.IntentResolver = (*Pipeline)(nil)

func (p *Pipeline) Resolve(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) domain.ResolvedCommand {
	cmd, _ := p.ResolveWithSource(ctx, utterance, cmdCtx)
	return cmd
}

// ResolveWithSource also reports which stage produced the command:
// domain.SourceLocal, domain.SourceRemote or domain.SourceNone.
func (p *Pipeline) ResolveWithSource(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) (domain.ResolvedCommand, string) {
	ctx, span := telemetry.Tracer().Start(ctx, "nlu.Resolve")
	defer span.End()

	start := time.Now()
	cmd, source := p.resolve(ctx, utterance, cmdCtx)

	telemetry.VoiceResolutionLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
	telemetry.VoiceCommandsTotal.WithLabelValues(string(cmd.Intent), source).Inc()
	span.SetAttributes(
		attribute.String("intent", string(cmd.Intent)),
		attribute.String("source", source),
	)

	p.log.Debug("Utterance resolved",
		zap.String("utterance", utterance),
		zap.String("intent", string(cmd.Intent)),
		zap.String("source", source),
	)
	return cmd, source
}

func (p *Pipeline) resolve(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) (domain.ResolvedCommand, string) {
	if Normalize(utterance) == "" {
		return domain.Unknown(), domain.SourceNone
	}
	if cmd, ok := p.matcher.Match(utterance); ok {
		return cmd, domain.SourceLocal
	}
	if p.fallback == nil {
		return domain.Unknown(), domain.SourceNone
	}
	return p.fallback.Resolve(ctx, utterance, cmdCtx), domain.SourceRemote
}
