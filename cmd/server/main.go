package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/NehanAhmed/Forge/internal/bootstrap"
	"github.com/NehanAhmed/Forge/internal/config"
	"github.com/NehanAhmed/Forge/internal/modules/handler"
	"github.com/NehanAhmed/Forge/internal/modules/repo"
	"github.com/NehanAhmed/Forge/internal/router"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	r := router.NewRouter(router.RouterDeps{
		Config:         cfg,
		Log:            log,
		Redis:          do.MustInvoke[*redis.Client](inj),
		SessionRepo:    do.MustInvoke[repo.SessionRepo](inj),
		ProjectHandler: do.MustInvoke[*handler.ProjectHandler](inj),
	})

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", zap.Error(err))
	}

	if err := inj.Shutdown(); err != nil {
		log.Error("container shutdown", zap.Error(err))
	}
}
