package bootstrap

import (
	"github.com/NehanAhmed/Forge/internal/config"
	"github.com/NehanAhmed/Forge/internal/infra/cache"
	"github.com/NehanAhmed/Forge/internal/infra/db"
	"github.com/NehanAhmed/Forge/internal/infra/logger"
	"github.com/NehanAhmed/Forge/internal/llm"
	"github.com/NehanAhmed/Forge/internal/modules/handler"
	"github.com/NehanAhmed/Forge/internal/modules/model"
	"github.com/NehanAhmed/Forge/internal/modules/repo"
	"github.com/NehanAhmed/Forge/internal/modules/service"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			_ = d.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

			if err := d.AutoMigrate(
				&model.User{},
				&model.Session{},
				&model.Project{},
			); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis (optional: no addr means no rate limiting)
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Redis.Addr == "" {
			return nil, nil
		}
		return cache.New(cfg)
	})

	// LLM transport and generator
	do.Provide(inj, func(i *do.Injector) (llm.Transport, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return llm.NewOpenRouterTransport(llm.Config{
			BaseURL: cfg.OpenRouter.BaseURL,
			APIKey:  cfg.OpenRouter.APIKey,
			Model:   cfg.OpenRouter.Model,
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (llm.Generator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return llm.NewGenerator(
			llm.Config{
				BaseURL: cfg.OpenRouter.BaseURL,
				APIKey:  cfg.OpenRouter.APIKey,
				Model:   cfg.OpenRouter.Model,
			},
			do.MustInvoke[llm.Transport](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.SessionRepo, error) {
		return repo.NewSessionRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[llm.Generator](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})

	return inj
}
