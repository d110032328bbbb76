package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/cache"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/fetcher"
	"StockAnalyzer/internal/recorder"
	"StockAnalyzer/internal/server"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockAnalyzer starting...")

	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] .env not loaded: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var f fetcher.Fetcher
	if cfg.DataSource.UseMock {
		f = &fetcher.MockFetcher{}
	} else {
		f = fetcher.NewYahooFetcher(cfg.Proxy, time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second)
	}
	log.Printf("[INFO] data source: %s", f.Name())

	// Init fetch cache with periodic sweep
	seriesCache := cache.New(time.Duration(cfg.Cache.TTLMinutes)*time.Minute, cfg.Cache.MaxEntries)
	sweeper := cron.New(cron.WithSeconds())
	if _, err := sweeper.AddFunc(cfg.Cache.SweepCron, func() {
		if n := seriesCache.Sweep(); n > 0 {
			log.Printf("[INFO] cache sweep removed %d expired entries", n)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register cache sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init analyzer and HTTP server
	svc := analyzer.NewService(f, seriesCache, rec)
	srv := server.New(svc, cfg).HTTPServer(cfg.Server.Addr)

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	server.Shutdown(srv, 10*time.Second)
	log.Println("[INFO] StockAnalyzer stopped")
}
