// Package deletion computes which currently-active target rows have
// disappeared from the latest snapshot and must be soft-deleted.
package deletion

import (
	"context"
	"database/sql"
	"fmt"

	"empsync/internal/model"
)

// Detect returns the set of emails present in activeEmails but absent
// from staged — the rows that must be flipped to inactive.
func Detect(staged []model.StagedRecord, activeEmails map[string]bool) []string {
	present := make(map[string]bool, len(staged))
	for _, rec := range staged {
		if rec.Email == "" {
			continue
		}
		present[rec.Email] = true
	}

	var toDelete []string
	for email := range activeEmails {
		if !present[email] {
			toDelete = append(toDelete, email)
		}
	}
	return toDelete
}

// Apply flips the given emails to inactive in one all-or-nothing
// transaction; already-inactive rows are left untouched by the WHERE
// clause's status filter.
func Apply(ctx context.Context, db *sql.DB, emails []string) error {
	if len(emails) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin deletion transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE unified SET status = 'inactive', updated_at = now() WHERE email = $1 AND status = 'active'`)
	if err != nil {
		return fmt.Errorf("failed to prepare deletion statement: %w", err)
	}
	defer stmt.Close()

	for _, email := range emails {
		if _, err := stmt.ExecContext(ctx, email); err != nil {
			return fmt.Errorf("failed to soft-delete %s: %w", email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion transaction: %w", err)
	}
	return nil
}
