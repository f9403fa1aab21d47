// Package session runs the voice command loop of one signed-in user: it
// resolves utterances, tracks the navigation stack and delivers commands to
// the screen that was on top when the utterance was spoken.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/navigation"
	"github.com/seu-repo/voicebook/internal/service/screen"
)

// SubjectCommandResolved is the event subject of every processed command.
const SubjectCommandResolved = "voice.command.resolved"

// Resolver classifies an utterance and reports which stage answered.
type Resolver interface {
	ResolveWithSource(ctx context.Context, utterance string, cmdCtx *domain.CommandContext) (domain.ResolvedCommand, string)
}

// ScreenBuilder creates the screen for a frame.
type ScreenBuilder interface {
	Build(frame domain.Frame, nav screen.Navigator) screen.Screen
}

type Deps struct {
	UserID   string
	Root     domain.View
	Resolver Resolver
	Screens  ScreenBuilder
	Notifier ports.Notifier
	// CommandLog and Events are optional.
	CommandLog ports.CommandLogRepository
	Events     ports.EventPublisher
	// KnownNames feeds the remote classifier with names the user is likely
	// to say. Optional.
	KnownNames func(ctx context.Context) []string
}

// Result is the outcome of one Submit.
type Result struct {
	Command   domain.ResolvedCommand `json:"command"`
	Source    string                 `json:"source"`
	FrameID   string                 `json:"frame_id"`
	View      domain.View            `json:"view"`
	Delivered bool                   `json:"delivered"`
}

type Session struct {
	deps  Deps
	stack *navigation.Stack
	log   *zap.Logger

	// base outlives individual requests; mounted screens subscribe with it.
	base   context.Context
	cancel context.CancelFunc

	// dispatchMu serialises delivery and stack changes. Screens navigate
	// from inside HandleCommand while it is held, through dispatchNav.
	dispatchMu sync.Mutex
	current    screen.Screen

	mu         sync.Mutex
	processing bool
	closed     bool
	closeOnce  sync.Once
}

// New mounts the root screen and returns the running session.
func New(deps Deps, log *zap.Logger) (*Session, error) {
	if deps.Root == "" {
		deps.Root = domain.ViewFeed
	}
	base, cancel := context.WithCancel(context.Background())
	s := &Session{
		deps:   deps,
		stack:  navigation.NewStack(deps.Root),
		log:    log.With(zap.String("user_id", deps.UserID)),
		base:   base,
		cancel: cancel,
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	scr := deps.Screens.Build(s.stack.Top(), dispatchNav{s})
	if err := scr.Mount(base); err != nil {
		cancel()
		return nil, err
	}
	s.current = scr

	telemetry.ActiveSessions.Inc()
	s.log.Info("Voice session started", zap.String("root", string(deps.Root)))
	return s, nil
}

// Submit resolves an utterance and hands the command to the screen that was
// on top when it was submitted. While one utterance is resolving every other
// Submit fails with domain.ErrBusy. If the user navigated away in the
// meantime the command is dropped and Result.Delivered is false.
func (s *Session) Submit(ctx context.Context, utterance string) (Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{}, domain.ErrSessionClosed
	}
	if s.processing {
		s.mu.Unlock()
		return Result{}, domain.ErrBusy
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	ctx, span := telemetry.Tracer().Start(ctx, "session.Submit")
	defer span.End()

	issuedOn := s.stack.Top()
	cmd, source := s.deps.Resolver.ResolveWithSource(ctx, utterance, s.commandContext(ctx))

	res := Result{Command: cmd, Source: source, FrameID: issuedOn.ID, View: issuedOn.View}
	res.Delivered = s.deliver(ctx, issuedOn, cmd)

	span.SetAttributes(
		attribute.String("intent", string(cmd.Intent)),
		attribute.String("view", string(issuedOn.View)),
		attribute.Bool("delivered", res.Delivered),
	)
	s.record(ctx, utterance, res)
	return res, nil
}

func (s *Session) deliver(ctx context.Context, issuedOn domain.Frame, cmd domain.ResolvedCommand) bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	outcome := "delivered"
	switch {
	case closed:
		outcome = "closed"
	case s.stack.Top().ID != issuedOn.ID:
		outcome = "stale"
	case cmd.IsUnknown():
		outcome = "unknown"
	}
	telemetry.DispatchedCommandsTotal.WithLabelValues(string(issuedOn.View), outcome).Inc()

	switch outcome {
	case "delivered":
		s.current.HandleCommand(ctx, cmd)
		return true
	case "unknown":
		s.deps.Notifier.Say("Sorry, I didn't understand that. Say help to hear what you can do.")
	case "stale":
		s.log.Debug("Dropping command for a screen that is no longer on top",
			zap.String("intent", string(cmd.Intent)),
			zap.String("frame_id", issuedOn.ID),
		)
	}
	return false
}

func (s *Session) commandContext(ctx context.Context) *domain.CommandContext {
	if s.deps.KnownNames == nil {
		return nil
	}
	names := s.deps.KnownNames(ctx)
	if len(names) == 0 {
		return nil
	}
	return &domain.CommandContext{KnownNames: names}
}

// record appends the command to the log and publishes it. Failures are
// logged only.
func (s *Session) record(ctx context.Context, utterance string, res Result) {
	entry := &domain.CommandLogEntry{
		ID:        uuid.NewString(),
		UserID:    s.deps.UserID,
		Utterance: utterance,
		Intent:    res.Command.Intent,
		Source:    res.Source,
		View:      res.View,
		FrameID:   res.FrameID,
		Delivered: res.Delivered,
		CreatedAt: time.Now().UTC(),
	}
	if len(res.Command.Slots) > 0 {
		if raw, err := json.Marshal(res.Command.Slots); err == nil {
			entry.Slots = string(raw)
		}
	}

	if s.deps.CommandLog != nil {
		if err := s.deps.CommandLog.Save(ctx, entry); err != nil {
			s.log.Warn("Failed to save command log entry", zap.Error(err))
		}
	}
	if s.deps.Events != nil {
		payload, err := json.Marshal(entry)
		if err != nil {
			s.log.Warn("Failed to encode command event", zap.Error(err))
			return
		}
		if err := s.deps.Events.Publish(SubjectCommandResolved, payload); err != nil {
			s.log.Warn("Failed to publish command event", zap.Error(err))
		}
	}
}

// Top returns the frame on top of the navigation stack.
func (s *Session) Top() domain.Frame {
	return s.stack.Top()
}

func (s *Session) Frames() []domain.Frame {
	return s.stack.Frames()
}

// Processing reports whether an utterance is being resolved.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Screen returns the mounted screen.
func (s *Session) Screen() screen.Screen {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	return s.current
}

func (s *Session) Navigate(ctx context.Context, view domain.View, params map[string]string) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.navigate(view, params)
}

func (s *Session) GoBack(ctx context.Context) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.goBack()
}

func (s *Session) ReplaceTop(ctx context.Context, view domain.View, params map[string]string) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.replaceTop(view, params)
}

func (s *Session) Reset(ctx context.Context, view domain.View) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.reset(view)
}

// The methods below require dispatchMu.

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) navigate(view domain.View, params map[string]string) {
	if s.isClosed() {
		return
	}
	s.current.Unmount()
	frame := s.stack.Push(view, params)
	s.mountTop(frame)
}

func (s *Session) goBack() {
	if s.isClosed() || s.stack.Len() < 2 {
		return
	}
	s.current.Unmount()
	s.stack.Pop()
	s.mountTop(s.stack.Top())
}

func (s *Session) replaceTop(view domain.View, params map[string]string) {
	if s.isClosed() {
		return
	}
	s.current.Unmount()
	frame := s.stack.Replace(view, params)
	s.mountTop(frame)
}

func (s *Session) reset(view domain.View) {
	if s.isClosed() {
		return
	}
	s.current.Unmount()
	frame := s.stack.Reset(view)
	s.mountTop(frame)
}

// mountTop mounts the screen for frame. A screen that fails to mount is
// popped and the one below it is mounted instead.
func (s *Session) mountTop(frame domain.Frame) {
	for {
		scr := s.deps.Screens.Build(frame, dispatchNav{s})
		err := scr.Mount(s.base)
		if err == nil {
			s.current = scr
			s.log.Debug("Screen mounted",
				zap.String("view", string(frame.View)),
				zap.String("frame_id", frame.ID),
			)
			return
		}
		s.log.Warn("Screen failed to mount",
			zap.String("view", string(frame.View)),
			zap.Error(err),
		)
		if _, ok := s.stack.Pop(); !ok {
			// the root stays mounted even when it failed
			s.current = scr
			return
		}
		scr.Unmount()
		frame = s.stack.Top()
	}
}

// Close unmounts the current screen and stops every subscription. Later
// calls to Submit fail with domain.ErrSessionClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.dispatchMu.Lock()
		defer s.dispatchMu.Unlock()

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.current.Unmount()
		s.cancel()
		telemetry.ActiveSessions.Dec()
		s.log.Info("Voice session closed")
	})
}

// dispatchNav is the Navigator handed to screens. Screens only navigate
// while handling a command, when dispatchMu is already held.
type dispatchNav struct {
	s *Session
}

func (n dispatchNav) Navigate(ctx context.Context, view domain.View, params map[string]string) {
	n.s.navigate(view, params)
}

func (n dispatchNav) GoBack(ctx context.Context) {
	n.s.goBack()
}

func (n dispatchNav) ReplaceTop(ctx context.Context, view domain.View, params map[string]string) {
	n.s.replaceTop(view, params)
}

func (n dispatchNav) Reset(ctx context.Context, view domain.View) {
	n.s.reset(view)
}
