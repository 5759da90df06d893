package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/floorplan-admin/cache"
	"github.com/yeremiapane/floorplan-admin/config"
	"github.com/yeremiapane/floorplan-admin/router"
	"github.com/yeremiapane/floorplan-admin/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InfoLogger.Printf("Database ready (%s)", cfg.DBDriver)

	redisClient := config.NewRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
		utils.InfoLogger.Printf("Layout cache enabled at %s (ttl %s)", cfg.RedisAddr, cfg.LayoutCacheTTL)
	}

	r := router.SetupRouter(db, router.Options{
		LayoutCache:    cache.NewLayoutCache(redisClient, cfg.LayoutCacheTTL),
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
	utils.InfoLogger.Println("Server stopped")
}
