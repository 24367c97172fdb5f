package main

import (
	"context"
	"fmt"

	"github.com/fjod/go_pos/internal/config"
	"github.com/fjod/go_pos/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStorage connects the state backend named by STORAGE_DRIVER, keyed by terminal id.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.KV, error) {
	ns := cfg.TerminalID

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, the cart will not survive a restart")
		return storage.NewMemoryStore(), nil

	case config.StorageSQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLitePath, ns)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(); err != nil {
			store.Close()
			return nil, err
		}
		log.Info("using sqlite storage", zap.String("path", cfg.SQLitePath))
		return store, nil

	case config.StoragePostgres:
		store, err := storage.NewPostgresStore(&storage.Credentials{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
		}, ns)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(); err != nil {
			store.Close()
			return nil, err
		}
		log.Info("using postgres storage", zap.String("host", cfg.Postgres.Host))
		return store, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info("using redis storage", zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisStore(client, ns, 0), nil

	case config.StorageMongo:
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		store := storage.NewMongoStore(db, ns)
		if err := store.CreateIndexes(ctx, cfg.MongoStateTTL); err != nil {
			log.Warn("failed to create mongo indexes", zap.Error(err))
		}
		log.Info("using mongo storage", zap.String("database", cfg.MongoDBName))
		return store, nil
	}

	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}
