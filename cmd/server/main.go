package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/voicebook/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/voicebook/internal/adapter/http/fiber/server"
	"github.com/seu-repo/voicebook/internal/adapter/queue"
	wsAdapter "github.com/seu-repo/voicebook/internal/adapter/websocket"
	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/service/auth"
	"github.com/seu-repo/voicebook/internal/service/health"
	"github.com/seu-repo/voicebook/internal/service/screen"
	"github.com/seu-repo/voicebook/internal/service/session"
	"github.com/seu-repo/voicebook/internal/service/social"
	"github.com/seu-repo/voicebook/pkg/config"
)

const knownNamesLimit = 50

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting VoiceBook command service",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// 3. Initialize OpenTelemetry (Distributed Tracing)
	endpoint := ""
	if cfg.OpenTelemetry.Enabled {
		endpoint = cfg.OpenTelemetry.Jaeger.Endpoint
	}
	tracerProvider, err := telemetry.InitTracer(cfg.App.Name, cfg.App.Version, endpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// 4. Infrastructure: secrets, redis, document store, cache, command log
	infra, err := newInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	// 5. Initialize Message Queue
	messageQueue, err := queue.New(queue.Config{
		Driver:      cfg.Queue.Driver,
		NATSURL:     cfg.NATS.URL,
		RabbitMQURL: cfg.RabbitMQ.URL,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect queue: %w", err)
	}
	defer messageQueue.Close()

	// 6. Initialize Providers (Gemini / Anthropic, media, payments)
	providers, err := newProviders(ctx, cfg, infra, logger)
	if err != nil {
		return err
	}

	// 7. Initialize Voice Pipeline
	pipeline := newPipeline(cfg, providers.llm, infra.cache, logger)

	// 8. Initialize WebSocket Hub (spoken feedback and cross-device pushes)
	hub := wsAdapter.NewHub(logger)
	if err := messageQueue.Subscribe(session.SubjectCommandResolved, hub.HandleCommandEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", session.SubjectCommandResolved, err)
	}

	// 9. Initialize Sessions
	socialService := social.NewService(infra.store, providers.uploader, logger)
	sessions := session.NewManager(func(ctx context.Context, userID string) (*session.Session, error) {
		user, err := socialService.GetUser(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			user = &domain.User{ID: userID}
		} else if err != nil {
			return nil, err
		}

		notifier := hub.Notifier(userID)
		deps := session.Deps{
			UserID:   userID,
			Resolver: pipeline,
			Screens: screen.NewFactory(screen.Deps{
				User:     user,
				Social:   socialService,
				Audio:    providers.recorder,
				Images:   providers.images,
				Payments: providers.payments,
				Notifier: notifier,
				Currency: cfg.Payment.Stripe.Currency,
				Log:      logger,
			}),
			Notifier: notifier,
			Events:   messageQueue,
			KnownNames: func(ctx context.Context) []string {
				return socialService.KnownNames(ctx, userID, knownNamesLimit)
			},
		}
		if infra.commandLog != nil {
			deps.CommandLog = infra.commandLog
		}
		return session.New(deps, logger)
	}, logger)

	// 10. Initialize Auth and Health
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration, infra.cache, logger)

	healthService := health.NewService(health.Config{
		Version:  cfg.App.Version,
		Sessions: sessions.Count,
	}, logger)
	infra.registerHealth(healthService)
	healthService.RegisterChecker("queue", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{Status: health.StatusHealthy, Message: cfg.Queue.Driver}
	})

	// 11. Initialize Fiber HTTP Server
	deps := server.Deps{
		Config: *cfg,
		Auth:   jwtService,
		Health: healthService,
		Voice:  handlers.NewVoiceHandler(sessions, pipeline, infra.history(), logger),
		Images: handlers.NewImageHandler(providers.images, providers.remoteUploader, logger),
		Logout: handlers.NewAuthHandler(jwtService, sessions, logger),
	}
	if cfg.FeatureFlags.VoiceStream {
		deps.Stream = wsAdapter.NewVoiceStreamHandler(hub, sessions, cfg.HTTP.CommandTimeout, logger)
	}
	app := server.New(deps, logger)

	// 12. Run until a signal arrives
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		err := app.ShutdownWithContext(shutdownCtx)
		sessions.CloseAll()
		return err
	})

	return g.Wait()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
