package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/adrien9192/tiktok-viral-scripts/internal/catalog"
	"github.com/adrien9192/tiktok-viral-scripts/internal/config"
	"github.com/adrien9192/tiktok-viral-scripts/internal/handler"
	"github.com/adrien9192/tiktok-viral-scripts/internal/middleware"
	"github.com/adrien9192/tiktok-viral-scripts/internal/router"
	"github.com/adrien9192/tiktok-viral-scripts/internal/service"
	"github.com/adrien9192/tiktok-viral-scripts/internal/trends"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "viral-scripts-api")
	handler.InitMetrics()

	cat, err := catalog.Load(cfg.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load catalog %s: %v", cfg.ConfigPath, err)
	}

	store := trends.NewSnapshotStore(cfg.RedisURL)
	defer store.Close()

	trendSvc := trends.NewService(cat, trends.NewHTTPSources(nil, cfg.TrendCountry), store, cfg.TrendTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go trends.NewRefresher(trendSvc).Start(ctx)

	assembler := service.NewAssembler(cat)

	app := fiber.New(fiber.Config{
		AppName:      "Viral Scripts API",
		ServerHeader: "ViralScripts",
	})

	router.Setup(app, &router.Handlers{
		Generate: handler.NewGenerateHandler(assembler),
		Trends:   handler.NewTrendsHandler(trendSvc, cfg.TrendCountry),
		Catalog:  handler.NewCatalogHandler(cat),
		Health:   handler.NewHealthHandler(cat, store.Client()),
	}, cfg.CORSOrigins)

	log.Printf("viral scripts backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	log.Fatal(app.Listen(":" + cfg.Port))
}
