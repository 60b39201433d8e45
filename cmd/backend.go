package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/seed"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/store/gormstore"
	"github.com/frahmantamala/mvd-portal/internal/store/redisstore"
	"github.com/frahmantamala/mvd-portal/internal/store/s3mirror"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// openStore builds the state store for the configured driver, with the
// optional mirror and seed. Closing the store closes the backend.
func openStore(ctx context.Context, cfg *internal.Config, lg *slog.Logger, opts ...store.Option) (*store.Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts = append([]store.Option{store.WithLogger(lg)}, opts...)
	if cfg.Store.SeedDefaults {
		opts = append(opts, store.WithSeed(seed.Default(cfg.Security.BCryptCost)))
	}
	if cfg.Mirror.Enabled {
		mirror, err := s3mirror.New(ctx, s3mirror.Config{
			Bucket:          cfg.Mirror.Bucket,
			Region:          cfg.Mirror.Region,
			Endpoint:        cfg.Mirror.Endpoint,
			PathStyle:       cfg.Mirror.PathStyle,
			Prefix:          cfg.Mirror.Prefix,
			AccessKeyID:     cfg.Mirror.AccessKeyID,
			SecretAccessKey: cfg.Mirror.SecretAccessKey,
		}, cfg.Store.Key)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		lg.Info("snapshot mirror enabled", "bucket", cfg.Mirror.Bucket, "object", mirror.ObjectKey())
		opts = append(opts, store.WithMirror(mirror))
	}

	lg.Info("state store ready", "driver", cfg.Database.Driver, "key", cfg.Store.Key)
	return store.New(backend, opts...), nil
}

func openBackend(ctx context.Context, cfg *internal.Config) (store.Backend, error) {
	switch cfg.Database.Driver {
	case internal.DriverMemory, "":
		return store.NewMemoryBackend(), nil
	case internal.DriverSQLite:
		return gormstore.OpenSQLite(cfg.Database.Source, cfg.Store.Key)
	case internal.DriverPostgres:
		db, err := initDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		backend, err := gormstore.OpenPostgres(db.DB, cfg.Store.Key)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return backend, nil
	case internal.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redisstore.New(client, cfg.Store.Key), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// initDB opens the pgx-backed connection pool used by the postgres backend.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}
