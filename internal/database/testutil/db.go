// Package testutil opens migrated PostgreSQL handles for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/todo-backend/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSNEnv names the variable that enables PostgreSQL-backed tests.
const DSNEnv = "PG_DSN"

// OpenMigratedPool opens a pool against PG_DSN and applies the embedded
// migrations. Tests are skipped when PG_DSN is unset.
//
// It is destructive: it resets the public schema, so packages sharing
// one PG_DSN database must run with go test -p 1.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip("PG_DSN not set; skipping Postgres tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	for _, stmt := range []string{`DROP SCHEMA IF EXISTS public CASCADE`, `CREATE SCHEMA public`} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("reset schema: %v", err)
		}
	}

	logger := zerolog.Nop()
	if err := database.Migrate(ctx, &logger, dsn); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return pool
}

// Truncate empties the todos table and restarts its identity.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE todos RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate todos: %v", err)
	}
}

// OpenORM opens a silent gorm handle on pool.
func OpenORM(t *testing.T, pool *pgxpool.Pool) *gorm.DB {
	t.Helper()

	sqlDB := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = sqlDB.Close() })

	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return orm
}
