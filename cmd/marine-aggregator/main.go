package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/oceanwx/marine-aggregator/internal/api/http"
	"github.com/oceanwx/marine-aggregator/internal/aggregator"
	"github.com/oceanwx/marine-aggregator/internal/buoyfetcher"
	"github.com/oceanwx/marine-aggregator/internal/cache"
	"github.com/oceanwx/marine-aggregator/internal/cadence"
	"github.com/oceanwx/marine-aggregator/internal/catalogue"
	"github.com/oceanwx/marine-aggregator/internal/config"
	"github.com/oceanwx/marine-aggregator/internal/forecastfetcher"
	"github.com/oceanwx/marine-aggregator/internal/prefetch"
	"github.com/oceanwx/marine-aggregator/internal/scheduler"
)

// CoreServices bundles the shared, long-lived collaborators constructed
// once at startup and handed down to both the presentation layer and the
// background scheduler: the station catalogue, the cache store, the
// aggregator, and the prefetcher/scheduler pair driving it.
type CoreServices struct {
	Catalogue  *catalogue.Catalogue
	Store      *cache.Store
	Aggregator *aggregator.Aggregator
	Prefetcher *prefetch.Prefetcher
	Scheduler  *scheduler.Scheduler
}

func buildCoreServices(cfg *config.AppConfig) (*CoreServices, error) {
	cat, err := catalogue.Load(cfg.CataloguePath)
	if err != nil {
		return nil, err
	}

	store := cache.New()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	buoy := buoyfetcher.NewWithBaseURL(httpClient, cfg.NDBCBaseURL, store)

	forecast := forecastfetcher.NewWithBaseURL(httpClient, cfg.NOMADSBaseURL, store)
	forecast.SetRetryPolicy(cfg.MaxRetries, cfg.RetryDelay)

	cadence.Configure(cfg.ModelRunHours, cfg.ModelRunAvailableAfter, cfg.CacheHoursCeiling)

	agg := aggregator.New(cat, buoy, forecast, store)

	pf := prefetch.New(cat, buoy, forecast, store)
	pf.SetWaveShape(cfg.PrefetchBatchSize, cfg.PrefetchConcurrentBatches, cfg.PrefetchInterWaveDelay)
	pf.SetSkipThreshold(cfg.PrefetchSkipThreshold)

	sched := scheduler.New(pf)
	sched.SetRecoveryDelay(cfg.RecoveryDelay)

	return &CoreServices{
		Catalogue:  cat,
		Store:      store,
		Aggregator: agg,
		Prefetcher: pf,
		Scheduler:  sched,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	core, err := buildCoreServices(cfg)
	if err != nil {
		log.Fatalf("failed to build core services: %v", err)
	}

	core.Scheduler.Start()
	defer core.Scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "marine-aggregator",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	tideClient := &http.Client{Timeout: 15 * time.Second}
	httpapi.RegisterRoutes(app, core.Aggregator, core.Catalogue, core.Prefetcher, core.Scheduler, core.Store, tideClient, cfg.NOAATidesURL)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
