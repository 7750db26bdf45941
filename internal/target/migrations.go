package target

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration adds one column to one table if it is not already present,
// mirroring the teacher's ALTER-TABLE-if-missing migration style.
type Migration struct {
	Table  string
	Column string
	Def    string
}

const createUnifiedTable = `
CREATE TABLE IF NOT EXISTS unified (
	id BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	source_id TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	salary NUMERIC,
	hire_date DATE,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createEmailIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS unified_email_idx ON unified (email)`

// pendingMigrations lists schema migrations applied to existing
// installations of the unified table that predate a column.
var pendingMigrations = []Migration{
	{"unified", "status", "TEXT NOT NULL DEFAULT 'active'"},
	{"unified", "updated_at", "TIMESTAMPTZ NOT NULL DEFAULT now()"},
}

// Migrate creates the unified table and its uniqueness constraint if
// absent, then applies any pending column migrations idempotently.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, createUnifiedTable); err != nil {
		return fmt.Errorf("failed to create unified table: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, createEmailIndex); err != nil {
		return fmt.Errorf("failed to create unified email index: %w", err)
	}

	for _, m := range pendingMigrations {
		exists, err := columnExists(ctx, s.DB, m.Table, m.Column)
		if err != nil {
			return fmt.Errorf("failed to check column %s.%s: %w", m.Table, m.Column, err)
		}
		if exists {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := s.DB.ExecContext(ctx, query); err != nil {
			if s.logger != nil {
				s.logger.Warn("migration failed, column may already exist in a different form",
					zap.String("table", m.Table), zap.String("column", m.Column), zap.Error(err))
			}
			continue
		}
		if s.logger != nil {
			s.logger.Info("migration applied", zap.String("table", m.Table), zap.String("column", m.Column))
		}
	}

	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = $1 AND column_name = $2
		)`, table, column).Scan(&exists)
	return exists, err
}
