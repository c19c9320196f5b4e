package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	apirest "github.com/qingyun/xiuxian/server/api/rest"
	"github.com/qingyun/xiuxian/server/audit"
	"github.com/qingyun/xiuxian/server/cache"
	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/dal"
	dbadapter "github.com/qingyun/xiuxian/server/db"
	"github.com/qingyun/xiuxian/server/game/character"
	mw "github.com/qingyun/xiuxian/server/middleware"
	"github.com/qingyun/xiuxian/server/model"
	"github.com/qingyun/xiuxian/server/resource"
	"github.com/qingyun/xiuxian/server/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	ctx := context.Background()

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Reference data ----
	res := resource.NewLoader(cfg.Resource.SeedDir, db, logger)
	if err := res.Load(ctx); err != nil {
		log.Fatalf("seed reference data: %v", err)
	}

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(ctx)

	// ---- Cache ----
	c, err := cache.NewCache(cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	defer c.Close()
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Services ----
	reg := dal.NewRegistry(db)
	charSvc := character.NewService(reg, c, cfg.Game, logger, character.WithAudit(auditSvc))

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("cultivation_tick", cfg.Game.CultivationTick, func(ctx context.Context) error {
		_, err := charSvc.CultivationTick(ctx)
		return err
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger, "/health"), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		response.OK(ctx, gin.H{"status": "ok"})
	})

	apirest.Register(r.Group("/api"), charSvc, reg, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Error("server", zap.Error(err))
	}
}
