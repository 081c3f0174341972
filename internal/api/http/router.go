package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/api/http/handlers"
	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/observability"
	"github.com/lexpage/landing-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Content        *handlers.ContentHandler
	Help           *handlers.HelpHandler
	AuthMiddleware *auth.AuthMiddleware
	// Limiter is optional; nil disables rate limiting.
	Limiter *ratelimit.Limiter
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)
	if cfg.Limiter != nil {
		api.Use(cfg.Limiter.Middleware(logger))
	}

	requireAuth := cfg.AuthMiddleware.Handle
	requireAdmin := auth.RequireRole(domain.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)
	authGroup.Post("/logout", cfg.AuthMiddleware.Optional, cfg.Auth.Logout)

	content := api.Group("/content")
	content.Get("/public/:siteId", cfg.Content.GetPublic)
	content.Get("/admin/:siteId", requireAuth, requireAdmin, cfg.Content.GetAdmin)
	content.Put("/admin/:siteId", requireAuth, requireAdmin, cfg.Content.PutAdmin)

	help := api.Group("/help")
	help.Get("/faq", cfg.Help.SearchFaqs)
	help.Post("/faq", requireAuth, requireAdmin, cfg.Help.CreateFaq)
	help.Post("/ticket", cfg.Help.CreateTicket)
	help.Post("/chat/session", cfg.AuthMiddleware.Optional, cfg.Help.CreateChatSession)
	help.Post("/chat/message", cfg.Help.SendChatMessage)
	help.Get("/chat/:sessionId", cfg.Help.ChatHistory)
	help.Get("/metrics/summary", requireAuth, requireAdmin, cfg.Help.MetricsSummary)
}
