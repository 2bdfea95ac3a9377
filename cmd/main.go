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
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-kitchensink/config"
	"github.com/oksasatya/go-kitchensink/internal/container"
	"github.com/oksasatya/go-kitchensink/internal/infrastructure/metrics"
	"github.com/oksasatya/go-kitchensink/internal/router"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
	"github.com/oksasatya/go-kitchensink/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Member store: Postgres (with migrations) or MongoDB (with unique index)
	_, closeStore, err := container.OpenMemberStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open member store")
	}
	defer closeStore()

	// Redis (optional): member list cache and rate limiting
	closeRedis := container.OpenRedis(ctx, cfg, logger)
	defer closeRedis()

	// Elasticsearch (optional): member search
	container.OpenSearch(ctx, cfg, logger)

	// RabbitMQ (optional): member.registered events for the welcome email worker
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQMemberQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; member events disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	m := metrics.NewDefault()
	container.SetMetrics(m)

	r := router.NewEngine(cfg, m)
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithField("backend", cfg.Backend()).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
