package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// DB is the shared pgx pool; repositories and units of work borrow from it
type DB struct {
	*pgxpool.Pool
}

// PoolSettings bounds the pool. Zero values keep the pgxpool defaults.
type PoolSettings struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	ApplicationName string
}

// NewConnection opens the pool and verifies it with a ping. Every session runs
// in UTC; canonical days are derived in Go from the configured timezone.
func NewConnection(ctx context.Context, databaseURL string, settings ...PoolSettings) (*DB, error) {
	var s PoolSettings
	if len(settings) > 0 {
		s = settings[0]
	}

	poolConfig, err := buildPoolConfig(databaseURL, s)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithFields(log.Fields{
		"max_conns": poolConfig.MaxConns,
		"min_conns": poolConfig.MinConns,
	}).Debug("Database pool ready")
	return &DB{Pool: pool}, nil
}

func buildPoolConfig(databaseURL string, s PoolSettings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["timezone"] = "UTC"
	if s.ApplicationName != "" {
		runtime["application_name"] = s.ApplicationName
	}

	if s.MaxConns > 0 {
		poolConfig.MaxConns = s.MaxConns
	}
	if s.MinConns > 0 {
		if s.MinConns > poolConfig.MaxConns {
			return nil, fmt.Errorf("min connections %d exceed max connections %d", s.MinConns, poolConfig.MaxConns)
		}
		poolConfig.MinConns = s.MinConns
	}
	if s.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = s.MaxConnLifetime
	}
	return poolConfig, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
