package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/robfig/cron/v3"

	"github.com/arcadegrid/arcadegrid-backend/internal/confirmer"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/config"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/coordinator"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/feed"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/metrics"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
	"github.com/arcadegrid/arcadegrid-backend/pkg/redis"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := config.Init(); err != nil {
		panic(fmt.Sprintf("Failed to initialize config: %v", err))
	}

	logConfig := logging.LoggerConfig{
		ProcessName:   logging.EngineProcess,
		IsDevelopment: config.IsDevMode(),
	}

	logger, err := logging.NewZapLogger(logConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	logger.Info("Starting submission engine...",
		"mode", config.IsDevMode(),
		"port", config.GetEngineRPCPort(),
		"host", config.GetDatabaseHostAddress(),
	)

	dbConfig := database.NewConfig(config.GetDatabaseHostAddress(), config.GetDatabaseHostPort())
	conn, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := database.InitSchema(conn.Session()); err != nil {
		logger.Fatalf("Failed to initialize schema: %v", err)
	}

	// The leaderboard cache is optional; the engine serves reads from the
	// database when redis is absent.
	var cache coordinator.Cache
	redisClient, err := redis.NewClient(config.GetRedisAddr(), logger)
	if err != nil {
		if err != redis.ErrNotConfigured {
			logger.Errorf("Failed to initialize redis client: %v", err)
		}
	} else {
		cache = redisClient
		defer redisClient.Close()
	}

	replays := repository.NewReplayRepository(conn)
	scores := repository.NewScoreRepository(conn)
	tips := repository.NewTipRepository(conn)
	feedRepo := repository.NewFeedRepository(conn)

	reconciler := feed.NewReconciler(feedRepo, logger)
	coord := coordinator.New(replays, scores, tips, reconciler, cache, logger)

	server := engine.NewServer(conn, coord, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The confirmation watcher only runs with a chain RPC configured; tips
	// then still resolve through the PUT status endpoint.
	if config.GetChainRPCURL() != "" {
		chainClient, err := ethclient.Dial(config.GetChainRPCURL())
		if err != nil {
			logger.Errorf("Failed to connect to chain RPC: %v", err)
		} else {
			watcher := confirmer.New(chainClient, coord, config.GetPendingTipMaxAge(), logger)
			if err := watcher.Start(ctx, config.GetConfirmerPollInterval()); err != nil {
				logger.Errorf("Failed to start confirmation watcher: %v", err)
			} else {
				defer watcher.Stop()
			}
			defer chainClient.Close()
		}
	}

	// Reconciliation sweep keeps feed aggregates converging even when an
	// in-line refresh was lost.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(fmt.Sprintf("@every %s", config.GetReconcileInterval()), func() {
		if err := coord.ReconcilePending(ctx); err != nil {
			logger.Errorf("Feed reconciliation sweep failed: %v", err)
		}
	}); err != nil {
		logger.Errorf("Failed to schedule reconciliation sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	metrics.StartUptimeTicker()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetEngineRPCPort()),
		Handler: server.Router(),
	}

	var wg sync.WaitGroup
	serverErrors := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting HTTP server...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("HTTP server error: %v", err)
		}
	}()

	logger.Infof("Submission engine initialized on port %s", config.GetEngineRPCPort())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("Server error received", "error", err)
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())
	}

	performGracefulShutdown(srv, &wg, logger)
}

func performGracefulShutdown(srv *http.Server, wg *sync.WaitGroup, logger logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	logger.Info("Shutdown complete")
	logging.Shutdown()
}
