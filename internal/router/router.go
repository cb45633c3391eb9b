package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NehanAhmed/Forge/internal/config"
	"github.com/NehanAhmed/Forge/internal/middleware"
	"github.com/NehanAhmed/Forge/internal/modules/handler"
	"github.com/NehanAhmed/Forge/internal/modules/repo"
	"github.com/NehanAhmed/Forge/internal/modules/serializer"
)

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	Redis          *redis.Client
	SessionRepo    repo.SessionRepo
	ProjectHandler *handler.ProjectHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.SessionAuth(d.SessionRepo))

		createLimit := middleware.RateLimit(
			d.Redis,
			d.Config.App.CreateRateLimit,
			time.Duration(d.Config.App.CreateRateWindowSec)*time.Second,
			d.Log,
		)

		projects := v1.Group("/projects")
		{
			projects.GET("", d.ProjectHandler.ListPublicProjects)
			projects.POST("", createLimit, d.ProjectHandler.CreateProject)
			projects.GET("/me", middleware.RequireAuth(), d.ProjectHandler.ListMyProjects)
			projects.PATCH("/:id", middleware.RequireAuth(), d.ProjectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireAuth(), d.ProjectHandler.DeleteProject)
		}

		// slug-addressed reads and forks
		p := v1.Group("/p")
		{
			p.GET("/:slug", d.ProjectHandler.GetProjectBySlug)
			p.POST("/:slug/fork", d.ProjectHandler.ForkProject)
		}
	}
	return r
}
