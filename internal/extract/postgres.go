package extract

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register driver

	"empsync/internal/config"
	"empsync/internal/model"
)

// PostgresExtractor reads the employes_source table from the PostgreSQL
// source database ("srcB").
type PostgresExtractor struct {
	incrementalWindowDays int
	db                    *sql.DB
}

func OpenPostgresExtractor(ctx context.Context, cfg config.DBConfig, incrementalWindowDays int) (*PostgresExtractor, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s client_encoding=utf8 sslmode=disable",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres source pool: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	deadline := time.Now().Add(30 * time.Second)
	var pingErr error
	for {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			break
		}
		if time.Now().After(deadline) {
			db.Close()
			return nil, fmt.Errorf("could not ping postgres source: %w", pingErr)
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	return &PostgresExtractor{incrementalWindowDays: incrementalWindowDays, db: db}, nil
}

func (e *PostgresExtractor) Name() string { return string(model.SourcePostgres) }

func (e *PostgresExtractor) Close() error { return e.db.Close() }

func (e *PostgresExtractor) Extract(ctx context.Context) ([]model.RawRecord, error) {
	query := `SELECT id, nom, email, departement, salaire, date_embauche, last_updated
		FROM employes_source`
	var args []interface{}
	if e.incrementalWindowDays > 0 {
		query += " WHERE last_updated >= $1"
		args = append(args, time.Now().AddDate(0, 0, -e.incrementalWindowDays))
	}
	query += " ORDER BY id ASC"

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employes_source: %w", err)
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var (
			id          int64
			name        sql.NullString
			email       sql.NullString
			department  sql.NullString
			salary      sql.NullFloat64
			hireDate    sql.NullTime
			lastUpdated sql.NullTime
		)
		if err := rows.Scan(&id, &name, &email, &department, &salary, &hireDate, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan employes_source row: %w", err)
		}

		rec := model.RawRecord{
			Source:     model.SourcePostgres,
			SourceID:   fmt.Sprintf("%d", id),
			Name:       name.String,
			Email:      email.String,
			Department: department.String,
		}
		if salary.Valid {
			rec.SalaryText = fmt.Sprintf("%f", salary.Float64)
		}
		if hireDate.Valid {
			rec.HireDateText = hireDate.Time.Format(time.RFC3339)
		}
		if lastUpdated.Valid {
			rec.LastUpdated = lastUpdated.Time
			rec.HasLastUpdated = true
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employes_source rows: %w", err)
	}

	return records, nil
}
