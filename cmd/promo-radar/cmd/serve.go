package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mfreitas/promo-radar/api/openapi"
	"github.com/mfreitas/promo-radar/internal/aggregator"
	"github.com/mfreitas/promo-radar/internal/api/handlers"
	"github.com/mfreitas/promo-radar/internal/api/middleware"
	"github.com/mfreitas/promo-radar/internal/config"
	"github.com/mfreitas/promo-radar/internal/ebay"
	"github.com/mfreitas/promo-radar/internal/fallback"
	"github.com/mfreitas/promo-radar/internal/meli"
	"github.com/mfreitas/promo-radar/internal/ratelimit"
	"github.com/mfreitas/promo-radar/internal/rates"
	"github.com/mfreitas/promo-radar/internal/store"
	"github.com/mfreitas/promo-radar/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the offer aggregation API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cmdLog := log.NewWithOptions(os.Stderr, log.Options{
		Level: parseLogLevel(cfg.Logging.Level),
	})
	appLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// Exchange rates, warmed on start and refreshed in the background.
	ratesClient := rates.New(
		cfg.Currency.Display,
		cfg.Currency.DefaultRate,
		cfg.Currency.CacheTTL,
		rates.WithRateURL(cfg.Currency.RateURL),
		rates.WithLogger(appLog),
	)
	refresher, err := rates.NewRefresher(
		ratesClient,
		[]string{"USD"},
		cfg.Currency.CacheTTL,
		appLog,
	)
	if err != nil {
		return fmt.Errorf("creating rate refresher: %w", err)
	}

	// eBay: client-credentials token plus the Browse API client.
	ebayTokens := ebay.NewOAuthTokenProvider(
		cfg.Ebay.ClientID,
		cfg.Ebay.ClientSecret,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
		ebay.WithLogger(appLog),
	)
	ebayBrowse := ebay.NewBrowseClient(
		ebayTokens,
		ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
		ebay.WithMarketplace(cfg.Ebay.Marketplace),
		ebay.WithRateLimiter(ratelimit.New(
			cfg.Ebay.RateLimit.PerSecond,
			cfg.Ebay.RateLimit.Burst,
			cfg.Ebay.RateLimit.DailyLimit,
		)),
		ebay.WithBrowseLogger(appLog),
	)
	ebaySvc := ebay.NewService(ebayTokens, ebayBrowse, ratesClient)

	// Optional Postgres store keeps OAuth grants across restarts.
	var pg *store.PostgresStore
	if cfg.Database.URL != "" {
		pg, err = store.NewPostgresStore(cmdCtx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()

		if err := pg.Migrate(cmdCtx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	// Mercado Livre: authorization-code tokens plus the site search client.
	meliOpts := []meli.TokenOption{
		meli.WithAuthURL(cfg.Meli.AuthURL),
		meli.WithTokenURL(cfg.Meli.TokenURL),
		meli.WithLogger(appLog),
	}
	if pg != nil {
		meliOpts = append(meliOpts, meli.WithGrantStore(store.NewMeliGrantStore(pg)))
	}
	meliTokens := meli.NewTokenCache(
		cfg.Meli.AppID,
		cfg.Meli.SecretKey,
		cfg.Meli.RedirectURI,
		meliOpts...,
	)
	if err := meliTokens.Restore(cmdCtx); err != nil {
		cmdLog.Warn("restoring mercado livre grant", "err", err)
	}
	meliSearch := meli.NewSearchClient(
		meliTokens,
		meli.WithSearchURL(cfg.Meli.SiteURL),
		meli.WithRateLimiter(ratelimit.New(
			cfg.Meli.RateLimit.PerSecond,
			cfg.Meli.RateLimit.Burst,
			cfg.Meli.RateLimit.DailyLimit,
		)),
		meli.WithSearchLogger(appLog),
	)
	meliSvc := meli.NewService(meliTokens, meliSearch)

	catalogue := fallback.New()
	agg := aggregator.New(
		[]aggregator.Marketplace{ebaySvc, meliSvc},
		catalogue,
		aggregator.WithTerms(cfg.Aggregator.BrowseTerms),
		aggregator.WithFirstPageTerms(cfg.Aggregator.FirstPageTerms),
		aggregator.WithPerTermQuota(cfg.Aggregator.PerTermQuota),
		aggregator.WithOverfetchFactor(cfg.Aggregator.OverfetchFactor),
		aggregator.WithConcurrency(cfg.Aggregator.Concurrency),
		aggregator.WithLogger(appLog),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(appLog))
	e.Use(middleware.RequestLog(appLog))
	e.Use(middleware.Metrics())

	var ready handlers.ReadyFunc
	if pg != nil {
		ready = pg.Ping
	}
	health := handlers.NewHealthHandler(ready)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	openapi.RegisterRoutes(e)

	api := humaecho.New(e, huma.DefaultConfig("Promo Radar API", Version))
	handlers.RegisterOffersRoutes(api, handlers.NewOffersHandler(agg))
	handlers.RegisterCategoriesRoutes(api, handlers.NewCategoriesHandler(catalogue))
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(ebaySvc, meliSvc))
	handlers.RegisterMeliAuthRoutes(api, handlers.NewMeliAuthHandler(meliSvc))

	refresher.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	cmdLog.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cmdLog.Error("server error", "err", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cmdLog.Info("shutting down server")

	<-refresher.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	cmdLog.Info("server stopped")
	return nil
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
