package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bnema/scribe/config"
	"github.com/bnema/scribe/internal/adapter/converter/ffmpeg"
	HTTPAdapter "github.com/bnema/scribe/internal/adapter/http"
	"github.com/bnema/scribe/internal/adapter/ratelimit"
	"github.com/bnema/scribe/internal/adapter/storage/jsonfile"
	sqlitestore "github.com/bnema/scribe/internal/adapter/storage/sqlite"
	"github.com/bnema/scribe/internal/adapter/stt/openai"
	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/infrastructure/logger"
	"github.com/bnema/scribe/internal/port"
	"github.com/bnema/scribe/internal/service"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

const (
	shutdownTimeout = 30 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-token" {
		os.Exit(hashToken(os.Args[2:]))
	}

	if err := run(); err != nil {
		logger.Error.Printf("%v", err)
		os.Exit(1)
	}
}

// hashToken prints the bcrypt hash to put in API_TOKEN_HASH. The token is
// read from the first argument or, if absent, from stdin.
func hashToken(args []string) int {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "usage: scribe hash-token <token>")
			return 2
		}
		token = strings.TrimSpace(line)
	}

	hash, err := service.HashToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(hash)
	return 0
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.SetLevel(cfg.LogLevel)

	logger.Info.Printf("starting scribe %s on port %d, storage=%s, workers=%d", version, cfg.Port, cfg.Storage, cfg.Workers)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	clk := clock.New()

	store, queue, closeStore, err := openStorage(cfg, clk)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	sttClient := openai.NewClient(openai.Config{
		APIKey:        cfg.STT.APIKey,
		BaseURL:       cfg.STT.BaseURL,
		Model:         cfg.STT.Model,
		AnalysisModel: cfg.STT.AnalysisModel,
		Timeout:       cfg.STT.Timeout,
		MaxRetries:    cfg.STT.MaxRetries,
	})
	if !sttClient.Configured() {
		logger.Warn.Printf("no speech-to-text API key configured; set STT_API_KEY or GROQ_API_KEY")
	}

	auth, err := service.NewTokenAuth(cfg.APITokenHash)
	if err != nil {
		return err
	}
	if !auth.Enabled() {
		logger.Warn.Printf("API_TOKEN_HASH not set; the API is open to anyone who can reach it")
	}

	sttLimiter := ratelimit.NewLimiter(clk, cfg.RateLimit.STTMax, cfg.RateLimit.STTWindow)
	analyzeLimiter := ratelimit.NewLimiter(clk, cfg.RateLimit.AnalyzeMax, cfg.RateLimit.AnalyzeWindow)

	eventBus := service.NewEventBus()
	pipeline := service.NewPipeline(store, ffmpeg.NewConverter(), sttClient, sttLimiter, eventBus, domain.ChunkConfig{
		ChunkDuration: cfg.Chunk.DurationSec,
		Overlap:       cfg.Chunk.OverlapSec,
	})
	pool := service.NewWorkerPool(queue, pipeline, cfg.Workers, ratelimit.NewBackoff(time.Second, time.Minute, 2))

	jobs := service.NewJobService(service.JobServiceConfig{
		Store:           store,
		Queue:           queue,
		STT:             sttClient,
		Analyzer:        sttClient,
		STTGovernor:     sttLimiter,
		AnalyzeGovernor: analyzeLimiter,
		Notifier:        pool,
		Events:          eventBus,
		DataDir:         cfg.DataDir,
		STTConfigured:   sttClient.Configured(),
	})

	unfinished, err := jobs.Unfinished()
	if err != nil {
		logger.Warn.Printf("failed to list jobs: %v", err)
	}
	for _, j := range unfinished {
		logger.Info.Printf("job %s was processing at shutdown (progress %d%%), resuming", j.ID, j.Progress)
	}

	server := HTTPAdapter.NewServer(HTTPAdapter.ServerConfig{
		Jobs:          jobs,
		Events:        eventBus,
		Auth:          auth,
		Clock:         clk,
		MaxUploadSize: cfg.MaxUploadSize(),
		BehindProxy:   cfg.BehindProxy,
		Version:       version,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       30 * time.Minute,
		WriteTimeout:      30 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info.Printf("server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info.Printf("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error { return pool.Run(gctx) })

	g.Go(func() error {
		sttLimiter.RunSweeper(gctx, sweepInterval)
		return nil
	})
	g.Go(func() error {
		analyzeLimiter.RunSweeper(gctx, sweepInterval)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info.Printf("shutdown complete")
	return nil
}

func openStorage(cfg *config.Config, clk clock.Clock) (port.JobStore, port.RunQueue, func() error, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		store, err := sqlitestore.NewStore(cfg.DataDir, clk)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create store: %w", err)
		}
		return store, sqlitestore.NewRunQueue(store), store.Close, nil
	default:
		store, err := jsonfile.NewStore(cfg.DataDir, clk)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create store: %w", err)
		}
		queue, err := jsonfile.NewRunQueue(cfg.DataDir, clk)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create run queue: %w", err)
		}
		return store, queue, func() error { return nil }, nil
	}
}
