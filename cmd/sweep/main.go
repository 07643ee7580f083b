// Command sweep runs a bulk date-range search and writes the results as CSV.
//
//	sweep -origin JFK -destination SFO -departure 2024-06-01 -return 2024-06-08 -range 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/cache"
	"github.com/dharmasatrya/flightfinder/internal/config"
	"github.com/dharmasatrya/flightfinder/internal/export"
	"github.com/dharmasatrya/flightfinder/internal/logging"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
	"github.com/dharmasatrya/flightfinder/internal/sweep"
)

func main() {
	var (
		origin      = flag.String("origin", "", "origin IATA code")
		destination = flag.String("destination", "", "destination IATA code")
		departure   = flag.String("departure", "", "departure date (YYYY-MM-DD)")
		returnDate  = flag.String("return", "", "return date (YYYY-MM-DD), optional")
		adults      = flag.Int("adults", 1, "number of adult travellers")
		rangeDays   = flag.Int("range", 1, "days to shift the search by")
		direction   = flag.String("direction", "", "earlier or later; both when empty")
		outDir      = flag.String("out", "", "output directory (defaults to sweep.export_dir)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	req := models.SearchRequest{
		Origin:        *origin,
		Destination:   *destination,
		DepartureDate: *departure,
		Adults:        *adults,
		RangeDays:     *rangeDays,
		SearchType:    string(models.SearchBidirectional),
	}
	if *returnDate != "" {
		req.ReturnDate = returnDate
	}
	if *direction != "" {
		req.SearchType = string(models.SearchUnidirectional)
		req.Direction = *direction
	}

	dir := cfg.Sweep.ExportDir
	if *outDir != "" {
		dir = *outDir
	}

	if err := run(cfg, req, dir); err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, req models.SearchRequest, dir string) error {
	q, err := req.Validate()
	if err != nil {
		return err
	}
	if req.RangeDays > cfg.Sweep.MaxRangeDays {
		return models.ErrRangeTooLarge
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	sweeper := sweep.NewSweeper(provider, sweep.Config{
		Workers:          cfg.Sweep.Workers,
		MaxRetries:       cfg.Sweep.MaxRetries,
		RetryDelays:      cfg.Sweep.RetryDelays(),
		TolerateFailures: cfg.Sweep.TolerateFailures,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var windows []*sweep.Window
	if models.SearchType(req.SearchType) == models.SearchUnidirectional {
		w, err := sweeper.SearchSingleDirection(ctx, q, models.Direction(req.Direction), req.RangeDays, true)
		if err != nil {
			return err
		}
		windows = []*sweep.Window{w}
	} else {
		windows, err = sweeper.SearchBothDirections(ctx, q, req.RangeDays)
		if err != nil {
			return err
		}
	}

	rows, err := export.Rows(windows)
	if err != nil {
		return err
	}

	path, err := export.WriteFile(dir, time.Now(), q.Origin, q.Destination, rows)
	if err != nil {
		return err
	}

	var failed []string
	for _, w := range windows {
		failed = append(failed, w.Failed()...)
	}
	slog.Info("sweep exported",
		"path", path,
		"rows", len(rows),
		"windows", len(windows),
		"failed", failed)
	return nil
}

func newProvider(cfg *config.Config) (providers.Provider, error) {
	if cfg.Provider.Name == "fixture" {
		return providers.NewFixtureProvider(0)
	}

	var tokens cache.TokenStore = cache.NewMemoryTokenStore()
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisTokenStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		tokens = store
	}

	limiter := ratelimit.NewEndpointLimiter(ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.Amadeus.RateLimitRPS,
		BurstSize:         cfg.Amadeus.RateLimitBurst,
	})
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
