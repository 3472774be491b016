package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	adapterHTTP "github.com/hamzakhalil/iman-score-engine/internal/adapters/handler/http"
	"github.com/hamzakhalil/iman-score-engine/internal/adapters/repository"
	"github.com/hamzakhalil/iman-score-engine/internal/adapters/store"
	"github.com/hamzakhalil/iman-score-engine/internal/config"
	"github.com/hamzakhalil/iman-score-engine/internal/core/services"
	"github.com/hamzakhalil/iman-score-engine/internal/core/workers"
	"github.com/hamzakhalil/iman-score-engine/internal/logger"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Critical: failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zlog.Fatal("database credentials missing", zap.Error(err))
	}

	zlog.Info("connecting to database")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	rdb, err := store.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DBIndex)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	defaultLoc, err := time.LoadLocation(cfg.Tracker.DefaultTimezone)
	if err != nil {
		zlog.Warn("invalid default timezone, falling back to UTC",
			zap.String("timezone", cfg.Tracker.DefaultTimezone))
		defaultLoc = time.UTC
	}

	goalStore := store.NewRedisGoalStore(rdb, zlog)
	snapshotRepo := repository.NewPostgresSnapshotRepository(db)

	syncService := services.NewSyncService(snapshotRepo)
	syncWorker := workers.NewSyncWorker(syncService, zlog)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	syncWorker.Start(workerCtx)

	trackerService := services.NewTrackerService(goalStore, syncWorker, zlog)
	statsService := services.NewStatsService(snapshotRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		GoalHandler:  adapterHTTP.NewGoalHandler(trackerService, zlog),
		ScoreHandler: adapterHTTP.NewScoreHandler(trackerService, zlog),
		SyncHandler:  adapterHTTP.NewSyncHandler(syncService, zlog),
		StatsHandler: adapterHTTP.NewStatsHandler(statsService, zlog),
		DB:           db,
		Redis:        rdb,
		Logger:       zlog,
		DefaultLoc:   defaultLoc,
		RateLimit:    cfg.Tracker.RateLimit,
		RateWindow:   cfg.Tracker.RateWindow,
		StartTime:    startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zlog.Info("iman score engine running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("critical server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("stop signal received, shutting down")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("forced shutdown error", zap.Error(err))
	}

	zlog.Info("server stopped gracefully")
}
