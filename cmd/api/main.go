package main

import (
	"context"
	"fmt"
	"os"

	"barter-market/internal/config"
	"barter-market/internal/delivery/http/route"
	repo "barter-market/internal/repository/postgresql"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration (.env, optional YAML, environment)
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 2. Stores
	db, err := config.ConnectSQL(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	mongoClient, err := config.ConnectMongo(cfg.Mongo)
	if err != nil {
		return err
	}
	if mongoClient != nil {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		logger.Info("mongo connected", zap.String("database", cfg.Mongo.Database))
	}

	// 3. HTTP
	app := config.SetupGin(cfg.GinMode, logger)
	route.SetupRoute(app, route.Deps{
		DB:      db,
		Dialect: repo.Dialect(cfg.Database.Driver),
		Mongo:   mongoClient,
		MongoDB: cfg.Mongo.Database,
		JWT:     cfg.JWT,
		Logger:  logger,
	})

	return config.SetupServer(app, cfg.Port, logger)
}
