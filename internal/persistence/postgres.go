package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/config"
	"github.com/spec-kit/handypro/internal/repository"
	"github.com/spec-kit/handypro/internal/repository/memory"
)

// Database owns the record store and, in Postgres mode, the pool behind it.
type Database struct {
	Store *repository.Store
	pool  *pgxpool.Pool
}

// OpenDatabase connects to Postgres, applies migrations when enabled and
// returns a pgx-backed store. Without a DSN it returns an in-memory store.
func OpenDatabase(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Database, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; records are kept in memory and lost on restart")
		return &Database{Store: memory.NewStore()}, nil
	}

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.RunMigrations {
		if err := RunMigrations(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logger.Info("connected to postgres",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Bool("migrations", cfg.RunMigrations))
	return &Database{Store: repository.NewPostgresStore(pool), pool: pool}, nil
}

func poolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse POSTGRES_DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolCfg.MaxConns {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}
	return poolCfg, nil
}

// InMemory reports whether records live in process memory.
func (d *Database) InMemory() bool {
	return d == nil || d.pool == nil
}

// Ping reports database reachability. The in-memory store is always reachable.
func (d *Database) Ping(ctx context.Context) error {
	if d.InMemory() {
		return nil
	}
	return d.pool.Ping(ctx)
}

// Close releases the pool.
func (d *Database) Close() {
	if !d.InMemory() {
		d.pool.Close()
	}
}
