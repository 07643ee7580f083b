package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flightfinder/internal/airports"
	"github.com/dharmasatrya/flightfinder/internal/cache"
	"github.com/dharmasatrya/flightfinder/internal/config"
	"github.com/dharmasatrya/flightfinder/internal/handler"
	"github.com/dharmasatrya/flightfinder/internal/logging"
	"github.com/dharmasatrya/flightfinder/internal/metrics"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
	"github.com/dharmasatrya/flightfinder/internal/suggest"
	"github.com/dharmasatrya/flightfinder/internal/sweep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	tokens, err := newTokenStore(cfg.Redis)
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	defer tokens.Close()

	provider, err := newProvider(cfg, tokens)
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	slog.Info("flight provider initialized", "provider", provider.Name())

	catalog, err := loadCatalog(cfg.Airports)
	if err != nil {
		return err
	}
	slog.Info("airport catalog loaded", "airports", catalog.Len())

	geocoder := suggest.NewNominatimGeocoder(suggest.NominatimConfig{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   time.Duration(cfg.Geocoder.Timeout) * time.Second,
	})
	engine := suggest.NewEngine(catalog, geocoder,
		suggest.WithRadius(cfg.Airports.RadiusMiles),
		suggest.WithThreshold(cfg.Airports.MatchThreshold))

	sweeper := sweep.NewSweeper(provider, sweep.Config{
		Workers:          cfg.Sweep.Workers,
		MaxRetries:       cfg.Sweep.MaxRetries,
		RetryDelays:      cfg.Sweep.RetryDelays(),
		TolerateFailures: cfg.Sweep.TolerateFailures,
	})

	searchHandler := handler.NewSearchHandler(provider, sweeper, catalog, engine, cfg.Sweep.MaxRangeDays)
	suggestHandler := handler.NewSuggestHandler(engine)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(cfg.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.Server.WriteTimeout) * time.Second

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())

	api := e.Group("/api/v1")
	api.POST("/flights/search", searchHandler.Search)
	api.GET("/airports/suggest", suggestHandler.Suggest)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", metrics.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting flight search server", "port", cfg.Server.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newTokenStore(cfg config.RedisConfig) (cache.TokenStore, error) {
	if !cfg.Enabled {
		slog.Info("redis disabled, keeping access tokens in memory")
		return cache.NewMemoryTokenStore(), nil
	}

	store, err := cache.NewRedisTokenStore(cache.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	slog.Info("redis token store enabled", "host", cfg.Host, "port", cfg.Port)
	return store, nil
}

func newProvider(cfg *config.Config, tokens cache.TokenStore) (providers.Provider, error) {
	if cfg.Provider.Name == "fixture" {
		return providers.NewFixtureProvider(0)
	}

	limit := ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.Amadeus.RateLimitRPS,
		BurstSize:         cfg.Amadeus.RateLimitBurst,
	}
	limiter := ratelimit.NewEndpointLimiter(limit)
	limiter.SetEndpointLimit(ratelimit.EndpointToken, ratelimit.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	return providers.NewAmadeusProvider(providers.AmadeusConfig{
		APIKey:    cfg.Amadeus.APIKey,
		APISecret: cfg.Amadeus.APISecret,
		Env:       cfg.Amadeus.Env,
		Version:   cfg.Amadeus.Version,
		Timeout:   cfg.Amadeus.TimeoutDuration(),
		BaseURL:   cfg.Amadeus.BaseURL,
	}, tokens, limiter)
}

func loadCatalog(cfg config.AirportsConfig) (*airports.Catalog, error) {
	if cfg.Path == "" {
		return airports.Embedded()
	}
	return airports.LoadFile(cfg.Path)
}
