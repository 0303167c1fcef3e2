package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/loan-schedule/internal/cache"
	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/recorder"
	"github.com/iwvelando/loan-schedule/internal/scheduler"
	"github.com/iwvelando/loan-schedule/internal/server"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Response cache: Redis when configured and reachable, in-process otherwise.
	var responseCache cache.Cache
	if cfg.Cache.Address != "" {
		redisCache := cache.NewRedisCache(cfg.Cache.Address, cfg.CacheTTL())
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisCache.Ping(pingCtx)
		pingCancel()
		if err != nil {
			logger.Warn("redis unreachable, falling back to in-memory cache",
				zap.String("op", "main"),
				zap.String("address", cfg.Cache.Address),
				zap.Error(err),
			)
			_ = redisCache.Close()
			responseCache = cache.NewMemoryCache(cfg.CacheTTL())
		} else {
			logger.Info("redis response cache connected",
				zap.String("op", "main"),
				zap.String("address", cfg.Cache.Address),
			)
			responseCache = redisCache
		}
	} else {
		responseCache = cache.NewMemoryCache(cfg.CacheTTL())
	}
	defer func() {
		_ = responseCache.Close()
	}()

	// Run recorder: SQLite when configured, noop otherwise.
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sqliteRecorder, err := recorder.NewSQLiteRecorder(logger, cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("failed to open sqlite recorder, disabling run persistence",
				zap.String("op", "main"),
				zap.String("path", cfg.Database.SQLitePath),
				zap.Error(err),
			)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sqliteRecorder
			defer func() {
				_ = sqliteRecorder.Close()
			}()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	if cfg.SnapshotEnabled() {
		sched := scheduler.NewScheduler(logger, cfg.Snapshot.ConfigPath, rec)
		if err := sched.Register(cfg.Snapshot.Cron); err != nil {
			logger.Fatal("failed to register snapshot task",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("SNAPSHOT_ON_START") == "true" {
			go sched.RunSnapshotNow()
		}
	}

	handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version, responseCache, rec)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping",
		zap.String("op", "main"),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	logger.Info("server stopped",
		zap.String("op", "main"),
	)
}
