package target

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"empsync/internal/model"
)

// Snapshot returns every row in the unified table, keyed by email, and the
// set of currently-active emails — read in one query so the comparator's
// baseline and the deletion detector's baseline are always consistent.
func (s *Store) Snapshot(ctx context.Context) (map[string]model.UnifiedRecord, map[string]bool, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, source, source_id, name, email, department, salary, hire_date, status, created_at, updated_at
		FROM unified`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read unified snapshot: %w", err)
	}
	defer rows.Close()

	byEmail := make(map[string]model.UnifiedRecord)
	active := make(map[string]bool)

	for rows.Next() {
		var (
			id         int64
			source     string
			sourceID   string
			name       string
			email      string
			department string
			salary     sql.NullString
			hireDate   sql.NullTime
			status     string
			createdAt  sql.NullTime
			updatedAt  sql.NullTime
		)
		if err := rows.Scan(&id, &source, &sourceID, &name, &email, &department, &salary, &hireDate, &status, &createdAt, &updatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan unified row: %w", err)
		}

		rec := model.UnifiedRecord{
			ID:         id,
			Source:     model.Source(source),
			SourceID:   sourceID,
			Name:       name,
			Email:      email,
			Department: department,
			Status:     model.Status(status),
		}
		if salary.Valid {
			if d, err := decimal.NewFromString(salary.String); err == nil {
				rec.Salary = d
				rec.HasSalary = true
			}
		}
		if hireDate.Valid {
			rec.HireDate = hireDate.Time
			rec.HasHire = true
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			rec.UpdatedAt = updatedAt.Time
		}

		byEmail[email] = rec
		if rec.Status == model.StatusActive {
			active[email] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating unified rows: %w", err)
	}

	return byEmail, active, nil
}
