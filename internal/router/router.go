package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/adrien9192/tiktok-viral-scripts/internal/handler"
	"github.com/adrien9192/tiktok-viral-scripts/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Generate *handler.GenerateHandler
	Trends   *handler.TrendsHandler
	Catalog  *handler.CatalogHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics live outside the API group
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	api.Get("/health", h.Health.Live)

	generateLimiter := middleware.NewGenerateRateLimiter()
	api.Post("/generate", h.Generate.Generate, generateLimiter.Handler())

	api.Get("/trends", h.Trends.Cached)
	liveLimiter := middleware.NewLiveTrendsRateLimiter()
	api.Get("/trends/live", h.Trends.Live, liveLimiter.Handler())
	api.Get("/location", h.Trends.Location)

	api.Get("/hooks", h.Catalog.Hooks)
	api.Get("/niches", h.Catalog.Niches)
}
