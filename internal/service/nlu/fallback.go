package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
)

var ErrMalformedResponse = errors.New("malformed classification response")

// Result is the outcome of one remote classification. Callers must check
// OK before trusting Command.
type Result struct {
	Command domain.ResolvedCommand
	Err     error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type FallbackConfig struct {
	Timeout      time.Duration
	MaxRequests  uint32
	Interval     time.Duration
	OpenTimeout  time.Duration
	FailureRatio float64
}

func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		Timeout:      10 * time.Second,
		MaxRequests:  3,
		Interval:     time.Minute,
		OpenTimeout:  30 * time.Second,
		FailureRatio: 0.6,
	}
}

// RemoteFallback classifies utterances the local tables cannot, through a
// hosted model guarded by a circuit breaker.
type RemoteFallback struct {
	llm     ports.LLMClient
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

func NewRemoteFallback(llm ports.LLMClient, cfg FallbackConfig, log *zap.Logger) *RemoteFallback {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nlu-fallback",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &RemoteFallback{
		llm:     llm,
		cb:      cb,
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Classify asks the model for a command. It never panics and never returns
// a partially valid command: on failure Result.Err is set.
func (f *RemoteFallback) Classify(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) Result {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	instruction := BuildSystemInstruction(cmdCtx)
	raw, err := f.cb.Execute(func() (interface{}, error) {
		return f.llm.GenerateJSON(ctx, instruction, utterance)
	})
	if err != nil {
		reason := "llm_error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			reason = "breaker_open"
		} else if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		telemetry.FallbackFailuresTotal.WithLabelValues(reason).Inc()
		return Result{Err: fmt.Errorf("remote classification: %w", err)}
	}

	text, _ := raw.(string)
	cmd, err := ParseResponse(text)
	if err != nil {
		telemetry.FallbackFailuresTotal.WithLabelValues("malformed").Inc()
		return Result{Err: err}
	}
	return Result{Command: cmd}
}

// Resolve collapses a failed classification to the unknown intent.
func (f *RemoteFallback) Resolve(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) domain.ResolvedCommand {
	res := f.Classify(ctx, utterance, cmdCtx)
	if !res.OK() {
		f.log.Warn("Remote classification failed",
			zap.String("utterance", utterance),
			zap.Error(res.Err),
		)
		return domain.Unknown()
	}
	return res.Command
}

var _ ports.IntentResolver = (*RemoteFallback)(nil)

type wireCommand struct {
	Intent *string      `json:"intent"`
	Slots  domain.Slots `json:"slots"`
}

// ParseResponse decodes a model response into a command. A surrounding
// markdown code fence is tolerated. Intents outside the catalog become
// unknown, without slots.
func ParseResponse(text string) (domain.ResolvedCommand, error) {
	text = StripCodeFence(text)
	if text == "" {
		return domain.ResolvedCommand{}, fmt.Errorf("%w: empty", ErrMalformedResponse)
	}

	var w wireCommand
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return domain.ResolvedCommand{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if w.Intent == nil {
		return domain.ResolvedCommand{}, fmt.Errorf("%w: missing intent", ErrMalformedResponse)
	}

	intent := domain.ParseIntent(*w.Intent)
	if intent == domain.IntentUnknown {
		return domain.Unknown(), nil
	}
	cmd := domain.ResolvedCommand{Intent: intent}
	if len(w.Slots) > 0 {
		cmd.Slots = w.Slots
	}
	return cmd, nil
}

// StripCodeFence removes a leading ``` or ```json fence (any case) and a
// trailing ```.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
