// Package server assembles the fiber application: global middleware, the
// public probes and the authenticated voice API.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/voicebook/internal/adapter/http/fiber/middleware"
	ws "github.com/seu-repo/voicebook/internal/adapter/websocket"
	"github.com/seu-repo/voicebook/internal/service/health"
	"github.com/seu-repo/voicebook/pkg/config"
)

type Deps struct {
	Config config.Config
	Auth   middleware.TokenValidator
	Health *health.Service

	Voice  *handlers.VoiceHandler
	Images *handlers.ImageHandler
	Logout *handlers.AuthHandler
	// Stream is optional; nil disables /ws/voice.
	Stream *ws.VoiceStreamHandler
}

func New(deps Deps, log *zap.Logger) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}

	// Health Check Endpoints
	health.NewFiberHandler(deps.Health).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metrics(c.Context())
		return nil
	})

	protected := app.Group("", middleware.AuthRequired(deps.Auth))
	if cfg.RateLimiting.Enabled {
		protected.Use(rateLimit(cfg.RateLimiting))
	}

	v1 := protected.Group("/api/v1")
	if cfg.CircuitBreaker.Enabled {
		v1.Use(middleware.CircuitBreaker(middleware.BreakerConfig{
			Name:         "http-api",
			MaxRequests:  uint32(cfg.CircuitBreaker.MaxRequests),
			Interval:     cfg.CircuitBreaker.Interval,
			Timeout:      cfg.CircuitBreaker.Timeout,
			FailureRatio: cfg.CircuitBreaker.FailureThreshold,
		}, log))
	}

	// Voice routes
	v1.Post("/voice/command", deps.Voice.ProcessCommand)
	v1.Post("/voice/resolve", deps.Voice.Resolve)
	v1.Get("/voice/history", deps.Voice.GetHistory)
	v1.Get("/voice/intents", deps.Voice.ListIntents)

	v1.Post("/images/generate", deps.Images.Generate)
	v1.Post("/auth/logout", deps.Logout.Logout)

	// WebSocket routes
	if deps.Stream != nil {
		ws.SetupVoiceRoutes(protected, deps.Stream)
	}

	return app
}

func rateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.MaxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if cfg.ByUser {
				if id := middleware.UserID(c); id != "" {
					return id
				}
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	})
}
