// Package database opens the PostgreSQL connections shared by the
// session stores.
//
// It handles:
//   - creating a pgx connection pool (pgxpool) with the configured limits
//   - wiring query tracing/logging (pgx tracelog) and New Relic (nrpgx5)
//   - opening a gorm handle on top of the same pool
package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/deppfellow/todo-backend/internal/config"
	loggerConfig "github.com/deppfellow/todo-backend/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database holds the pgx pool and the gorm handle built on it.
//
// Both share connections: gorm talks to the pool through database/sql,
// so pool limits and tracers apply to ORM sessions too.
type Database struct {
	Pool *pgxpool.Pool
	ORM  *gorm.DB
	log  *zerolog.Logger
}

// multiTracer fans pgx's single Tracer slot out to several tracers
// (New Relic plus the local SQL log).
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is how long, in seconds, startup waits for the
// first ping.
const DatabasePingTimeout = 10

// New connects to PostgreSQL, pings it and opens the gorm handle.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}
	applyPoolSettings(pgxPoolConfig, cfg.Database)

	if loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL logging is noisy, keep it to local runs.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	orm, err := openORM(pool, logger, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().
		Str("session", cfg.Database.Session).
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Msg("connected to the database")

	return &Database{
		Pool: pool,
		ORM:  orm,
		log:  logger,
	}, nil
}

// applyPoolSettings copies the configured limits onto the pool config.
// Zero values keep pgx's defaults. Durations are in seconds. Config
// validation bounds the sizes; MinConns is clamped to MaxConns.
func applyPoolSettings(poolConfig *pgxpool.Config, db config.DatabaseConfig) {
	if db.MaxOpenConns > 0 {
		poolConfig.MaxConns = clampInt32(db.MaxOpenConns)
	}
	if db.MinConns > 0 {
		poolConfig.MinConns = min(clampInt32(db.MinConns), poolConfig.MaxConns)
	}
	if db.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(db.ConnMaxLifetime) * time.Second
	}
	if db.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = time.Duration(db.ConnMaxIdleTime) * time.Second
	}
}

func clampInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

func openORM(pool *pgxpool.Pool, logger *zerolog.Logger, cfg *config.Config) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 loggerConfig.NewGormLogger(logger, cfg.Primary.Env, cfg.Observability.Logging),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return orm, nil
}

// Close releases the gorm handle and then the pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")

	if db.ORM != nil {
		sqlDB, err := db.ORM.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				db.log.Warn().Err(err).Msg("failed to close gorm connection")
			}
		}
	}
	db.Pool.Close()
	return nil
}
