package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"complaint-service/internal/auth"
	"complaint-service/internal/config"
	"complaint-service/internal/db"
	httphandler "complaint-service/internal/http"
	"complaint-service/internal/http/middleware"
	"complaint-service/internal/lock"
	"complaint-service/internal/logger"
	"complaint-service/internal/repository"
	"complaint-service/internal/service"
	"complaint-service/internal/sla"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	complaintRepo := repository.NewComplaintRepository(database)
	userRepo := repository.NewUserRepository(database)
	auditRepo := repository.NewAuditRepository(database)

	calculator := sla.NewCalculator(cfg.SLA, nil)

	lifecycleService := service.NewLifecycleService(complaintRepo, userRepo, auditRepo, calculator, log)
	complaintService := service.NewComplaintService(complaintRepo, auditRepo, calculator, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sweepLock service.SweepLocker
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		sweepLock = lock.NewLease(redisClient, "complaint-service:sweep", cfg.Sweep.LockTTL)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, sweep runs without cross-instance lock")
	}

	sweeper := service.NewSweeper(lifecycleService, complaintRepo, sweepLock, cfg.Sweep.Interval, cfg.Sweep.Concurrency, log)
	go sweeper.Run(ctx)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(lifecycleService, complaintService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting complaint service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
