package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rmehta/blogr/internal/auth"
	"github.com/rmehta/blogr/internal/blog"
	"github.com/rmehta/blogr/internal/config"
	"github.com/rmehta/blogr/internal/server"
	"github.com/rmehta/blogr/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	ctx := context.Background()

	// ── Store ────────────────────────────────────────────────
	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	instrumented := store.Instrument(st)

	// ── Sessions ─────────────────────────────────────────────
	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessions(rdb, cfg.SessionTTL)
	} else {
		logger.Info("no redis configured, using in-memory sessions")
		sessions = auth.NewMemorySessions(cfg.SessionTTL)
	}

	// ── Services and handlers ────────────────────────────────
	authSvc := auth.NewService(instrumented, sessions, auth.NewBcryptHasher())
	authHandler := auth.NewHandler(authSvc, cfg.SessionTTL)
	blogHandler := blog.NewHandler(blog.NewService(instrumented))

	r := server.New(authSvc, authHandler, blogHandler, cfg.CORSOrigins)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
