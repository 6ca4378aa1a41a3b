package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/api"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/config"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/llm"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if cfg.LogLevel != "" && cfg.LogLevel != "info" {
		if l, lerr := newLogger(cfg.LogLevel); lerr == nil {
			logger = l
		} else {
			logger.Warn("invalid LOG_LEVEL, using info", zap.String("level", cfg.LogLevel), zap.Error(lerr))
		}
	}

	// The corpus pack is the demo's entire data dependency. Loading is
	// all-or-nothing, so failure here is fatal rather than degraded.
	nodes, err := store.LoadNodes(cfg.NodesPath)
	if err != nil {
		logger.Fatal("failed to load wisdom corpus", zap.Error(err))
	}
	logger.Info("wisdom corpus loaded",
		zap.Int("nodes", nodes.Count()),
		zap.String("path", cfg.NodesPath),
		zap.String("pack", cfg.PackName))

	questions, err := store.LoadQuestions(cfg.QuestionsPath)
	if err != nil {
		logger.Warn("demo questions unavailable, using built-in set", zap.Error(err))
		questions = store.DefaultQuestions()
	}

	precomputed, err := store.LoadPrecomputed(cfg.PrecomputedPath)
	if err != nil {
		if cfg.LLMProvider == llm.ProviderMock {
			logger.Warn("precomputed answers unavailable, mock backend will miss every question", zap.Error(err))
		}
		precomputed = nil
	} else {
		logger.Info("precomputed answers loaded", zap.Int("entries", precomputed.Count()))
	}

	app, err := api.NewApp(cfg, nodes, questions, precomputed, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
