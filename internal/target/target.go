// Package target owns the connection pool and schema for the unified
// PostgreSQL target table.
package target

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register driver
	"go.uber.org/zap"

	"empsync/internal/config"
)

// Store wraps the target connection pool.
type Store struct {
	DB     *sql.DB
	logger *zap.Logger
}

// Open opens the target connection pool, waits for it to become reachable,
// and tunes it for a single batch-run workload — mirroring the
// open-then-tune sequence used for the teacher's embedded store, adapted
// here to pool sizing rather than SQLite pragmas.
func Open(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open target pool: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(10 * time.Minute)

	deadline := time.Now().Add(30 * time.Second)
	var pingErr error
	for {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			break
		}
		if time.Now().After(deadline) {
			db.Close()
			return nil, fmt.Errorf("could not ping target database: %w", pingErr)
		}
		if logger != nil {
			logger.Debug("waiting for target database to become ready", zap.Error(pingErr))
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	return &Store{DB: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.DB.Close() }
