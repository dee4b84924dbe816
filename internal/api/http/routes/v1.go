package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hlzx-oa/project-registry/config"
	authhttp "github.com/hlzx-oa/project-registry/internal/auth/http"
	authrepo "github.com/hlzx-oa/project-registry/internal/auth/repository"
	authservice "github.com/hlzx-oa/project-registry/internal/auth/service"
	"github.com/hlzx-oa/project-registry/internal/auth/session"
	projhttp "github.com/hlzx-oa/project-registry/internal/projects/http"
	"github.com/hlzx-oa/project-registry/internal/projects/numbering"
	projrepo "github.com/hlzx-oa/project-registry/internal/projects/repository"
	projservice "github.com/hlzx-oa/project-registry/internal/projects/service"
	"github.com/hlzx-oa/project-registry/internal/reports"
	"github.com/hlzx-oa/project-registry/internal/stats"
)

type V1Deps struct {
	DB    *sql.DB
	Redis *redis.Client
	Cfg   *config.Config
	Log   *zap.Logger
}

// RegisterV1 wires the repositories, services and handlers under
// /api/v1. The stats service is returned so the caller can schedule
// cache refreshes.
func RegisterV1(r *gin.Engine, dep V1Deps) *stats.Service {
	api := r.Group("/api/v1")

	sessions := session.NewStore(dep.Redis, dep.Cfg.Session.TTL)
	userRepo := authrepo.NewUserRepository(dep.DB)
	authSvc := authservice.NewAuthService(userRepo, sessions, dep.Log)
	authHandler := authhttp.New(authSvc, dep.Cfg.Session.CookieName, dep.Cfg.Session.TTL)
	authHandler.RegisterPublic(api)

	protected := api.Group("")
	protected.Use(authhttp.RequireSession(sessions, dep.Cfg.Session.CookieName))
	authHandler.RegisterProtected(protected)

	projectRepo := projrepo.NewProjectRepository(dep.DB)
	scheme := numbering.NewScheme(dep.Cfg.Numbering.Year, dep.Cfg.Numbering.Types)
	alloc := numbering.NewAllocator(scheme, projectRepo, dep.Log)
	projectSvc := projservice.NewProjectService(projectRepo, alloc, dep.Log)
	projhttp.New(projectSvc).Register(protected.Group("/projects"))

	departments := dep.Cfg.App.Departments
	protected.GET("/departments", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": departments})
	})

	statsSvc := stats.NewService(
		stats.NewRepository(dep.DB),
		stats.NewCache(dep.Redis, 10*time.Minute),
		dep.Log,
	)
	stats.NewHandler(statsSvc).Register(protected)

	reports.NewHandler(projectSvc).Register(protected)

	return statsSvc
}
