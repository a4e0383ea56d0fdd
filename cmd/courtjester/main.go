// Package main wires together the court-jester lookup service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalHerencia/court-jester/internal/api"
	"github.com/DigitalHerencia/court-jester/internal/browser"
	"github.com/DigitalHerencia/court-jester/internal/cache"
	"github.com/DigitalHerencia/court-jester/internal/challenge"
	"github.com/DigitalHerencia/court-jester/internal/clock/system"
	"github.com/DigitalHerencia/court-jester/internal/config"
	"github.com/DigitalHerencia/court-jester/internal/logging"
	"github.com/DigitalHerencia/court-jester/internal/lookup"
	"github.com/DigitalHerencia/court-jester/internal/metrics"
	"github.com/DigitalHerencia/court-jester/internal/probe"
	"github.com/DigitalHerencia/court-jester/internal/scrape/nmcd"
	"github.com/DigitalHerencia/court-jester/internal/scrape/nmcourts"
)

const captchaTokenSelector = "#g-recaptcha-response"

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	driver, err := browser.NewDriver(browser.Config{
		MaxParallel:    cfg.Headless.MaxParallel,
		UserAgent:      cfg.Headless.UserAgent,
		SessionTimeout: cfg.SessionTimeout(),
	})
	if err != nil {
		logger.Fatal("browser driver init failed", zap.Error(err))
	}
	defer driver.Close()

	clock := system.New()
	results := cache.New(cfg.CacheTTL(), cfg.Cache.MaxEntries, clock, logger.Named("cache"))
	if cfg.Cache.SweepIntervalMin > 0 {
		go results.Sweep(ctx, time.Duration(cfg.Cache.SweepIntervalMin)*time.Minute)
	}

	resolver := challenge.TokenWaiter{
		Selector: captchaTokenSelector,
		Timeout:  time.Duration(cfg.Headless.CaptchaTimeoutSec) * time.Second,
	}
	corrections := nmcd.New(driver, resolver, nmcd.Config{
		ResultsTimeout: time.Duration(cfg.Headless.ResultsTimeoutSec) * time.Second,
	}, logger.Named("nmcd"))
	courts := nmcourts.New(driver, nmcourts.Config{
		ResultsTimeout: time.Duration(cfg.Headless.CourtResultsTimeoutSec) * time.Second,
	}, logger.Named("nmcourts"))

	service := lookup.NewService(corrections, courts, results, lookup.Config{
		ScrapeQPS:   cfg.Lookup.ScrapeQPS,
		ScrapeBurst: cfg.Lookup.ScrapeBurst,
	}, logger.Named("lookup"))

	var checker *probe.Checker
	if cfg.Probe.Enabled {
		checker = probe.New(probe.Config{
			UserAgent: cfg.Headless.UserAgent,
			Timeout:   time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
			Targets:   []string{nmcd.SearchURL, nmcourts.SearchURL},
		}, logger.Named("probe"))
		go checker.Run(ctx, time.Duration(cfg.Probe.IntervalMin)*time.Minute)
	}

	var ready api.ReadinessChecker
	if checker != nil {
		ready = checker
	}
	apiServer := api.NewServer(service, ready, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
