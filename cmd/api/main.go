package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"moviecatalog/proj/internal/api/tasks"
	"moviecatalog/proj/internal/clients/broker"
	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/lib/logger"
	"moviecatalog/proj/internal/services"
	"moviecatalog/proj/internal/storage/postgres"
	"moviecatalog/proj/internal/storage/redis"
	"os"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")

	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug, cfg.Log)
	if err := run(cfg, log); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer storage.Close()
	log.Info("database connection established")

	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.MaxQueueSize)
	bgTasks.Run()
	deps := services.Deps{TaskExecutor: bgTasks}

	if cfg.Cache.Enabled {
		cache, err := redis.New(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.Prefix)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer cache.Close()
		deps.Cache = cache
		log.Info("redis connection established", "addr", cfg.Cache.Addr)
	}

	if cfg.Broker.Enabled {
		publisher, err := broker.New(log, cfg.Broker.URL, cfg.Broker.Queue)
		if err != nil {
			return fmt.Errorf("connecting to broker: %w", err)
		}
		defer publisher.Close()
		deps.Publisher = publisher
		log.Info("broker connection established", "queue", cfg.Broker.Queue)
	}

	app := NewApplication(cfg, log, services.New(log, cfg, services.PostgresStorages(storage), deps), bgTasks)
	return app.serve()
}
