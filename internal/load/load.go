// Package load applies classified inserts and updates to the target
// table in batched, per-row-isolated transactions.
package load

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"empsync/internal/model"
)

const (
	insertSQL = `
INSERT INTO unified (source, source_id, name, email, department, salary, hire_date, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', now(), now())`

	updateSQL = `
UPDATE unified
SET name = $1, department = $2, salary = $3, hire_date = $4, status = 'active', updated_at = now()
WHERE email = $5`
)

// Result summarises a loader run.
type Result struct {
	Inserted int
	Updated  int
	Errors   int
}

// Loader applies row operations in commit batches of BatchSize. A row that
// fails rolls back the current uncommitted batch and is skipped; the
// remaining rows resume in a fresh transaction.
type Loader struct {
	DB        *sql.DB
	BatchSize int
	Logger    *zap.Logger
}

func New(db *sql.DB, batchSize int, logger *zap.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Loader{DB: db, BatchSize: batchSize, Logger: logger}
}

type rowApplier func(*sql.Tx, model.StagedRecord) error

// Apply runs all inserts followed by all updates.
func (l *Loader) Apply(ctx context.Context, inserts, updates []model.StagedRecord) (Result, error) {
	var result Result

	insOK, insErr, err := l.applyAll(ctx, inserts, l.insertOne)
	result.Inserted += insOK
	result.Errors += insErr
	if err != nil {
		return result, err
	}

	updOK, updErr, err := l.applyAll(ctx, updates, l.updateOne)
	result.Updated += updOK
	result.Errors += updErr
	if err != nil {
		return result, err
	}

	return result, nil
}

// applyAll processes records in commit batches of BatchSize. A failing
// row rolls back everything applied so far in the current (uncommitted)
// batch and is itself skipped; the batch resumes in a fresh transaction
// starting from the next row.
func (l *Loader) applyAll(ctx context.Context, records []model.StagedRecord, apply rowApplier) (ok int, failed int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	inBatch := 0

	commit := func() error {
		if inBatch == 0 {
			return nil
		}
		if cerr := tx.Commit(); cerr != nil {
			return fmt.Errorf("failed to commit load batch: %w", cerr)
		}
		inBatch = 0
		return nil
	}

	for _, rec := range records {
		if applyErr := apply(tx, rec); applyErr != nil {
			if l.Logger != nil {
				l.Logger.Warn("row load failed, rolling back batch and skipping row",
					zap.String("email", rec.Email), zap.Error(applyErr))
			}
			_ = tx.Rollback()
			failed++
			ok -= inBatch // rows of the rolled-back batch did not land

			tx, err = l.DB.BeginTx(ctx, nil)
			if err != nil {
				return ok, failed, fmt.Errorf("failed to begin load transaction after row failure: %w", err)
			}
			inBatch = 0
			continue
		}

		ok++
		inBatch++
		if inBatch >= l.BatchSize {
			if cerr := commit(); cerr != nil {
				return ok, failed, cerr
			}
			tx, err = l.DB.BeginTx(ctx, nil)
			if err != nil {
				return ok, failed, fmt.Errorf("failed to begin load transaction: %w", err)
			}
		}
	}

	if err := commit(); err != nil {
		return ok, failed, err
	}
	_ = tx.Rollback() // no-op if already committed; releases the connection if nothing was left pending

	return ok, failed, nil
}

func (l *Loader) insertOne(tx *sql.Tx, rec model.StagedRecord) error {
	_, err := tx.Exec(insertSQL,
		string(rec.Source), rec.SourceID, rec.Name, rec.Email, rec.Department,
		salaryParam(rec), hireDateParam(rec))
	return err
}

func (l *Loader) updateOne(tx *sql.Tx, rec model.StagedRecord) error {
	_, err := tx.Exec(updateSQL,
		rec.Name, rec.Department, salaryParam(rec), hireDateParam(rec), rec.Email)
	return err
}

func salaryParam(rec model.StagedRecord) interface{} {
	if !rec.HasSalary {
		return nil
	}
	return rec.Salary.String()
}

func hireDateParam(rec model.StagedRecord) interface{} {
	if !rec.HasHire {
		return nil
	}
	return rec.HireDate
}
