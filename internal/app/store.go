// Package app wires configuration to a concrete registro store. It is shared
// by the HTTP server and the admin tool.
package app

import (
	"context"
	"fmt"

	"github.com/panaderia/registros/backend/internal/config"
	"github.com/panaderia/registros/backend/internal/database"
	"github.com/panaderia/registros/backend/internal/registro/repository"
	"github.com/panaderia/registros/backend/pkg/logger"
)

const mongoConnectAttempts = 5

// Store is an opened registro repository plus its lifecycle hooks.
type Store struct {
	Driver string
	Repo   repository.Repository
	// Ping reports whether the backing database is reachable.
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenStore connects the store selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.OpenPostgres(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo, err := repository.NewGormRepo(db)
		if err != nil {
			return nil, fmt.Errorf("migrate registros: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Store.Driver,
			Repo:   repo,
			Ping:   sqlDB.PingContext,
			Close:  func() { _ = sqlDB.Close() },
		}, nil

	case config.DriverMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts, func(attempt int, err error) {
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, mongoConnectAttempts, err)
		})
		if err != nil {
			return nil, err
		}
		repo := repository.NewMongoRepo(client.Database(cfg.MongoDB.Database), cfg.MongoDB.Collection)
		return &Store{
			Driver: cfg.Store.Driver,
			Repo:   repo,
			Ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; registros are lost on restart")
		return &Store{
			Driver: cfg.Store.Driver,
			Repo:   repository.NewMemoryRepo(),
			Ping:   func(context.Context) error { return nil },
			Close:  func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
