package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hlzx-oa/project-registry/config"
	apihttp "github.com/hlzx-oa/project-registry/internal/api/http"
	"github.com/hlzx-oa/project-registry/internal/api/http/middleware"
	"github.com/hlzx-oa/project-registry/internal/api/http/routes"
	"github.com/hlzx-oa/project-registry/internal/logger"
	"github.com/hlzx-oa/project-registry/internal/stats"
	"github.com/hlzx-oa/project-registry/internal/storage/postgres"
)

const serviceName = "project-registry"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(zl))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: true,
	}))

	apihttp.NewHealthHandler(serviceName, cfg.App.Version, db, rdb).RegisterRoutes(r)

	statsSvc := routes.RegisterV1(r, routes.V1Deps{
		DB:    db,
		Redis: rdb,
		Cfg:   cfg,
		Log:   zl,
	})

	warmer, err := stats.StartWarmer(statsSvc, "@every 5m", zl)
	if err != nil {
		zl.Fatal("failed to start stats warmer", zap.Error(err))
	}
	defer warmer.Stop()

	zl.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}
