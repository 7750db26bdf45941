package extract

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // register driver

	"empsync/internal/config"
	"empsync/internal/model"
)

// MySQLExtractor reads the employes_mysql table from the MySQL source
// database ("srcA").
type MySQLExtractor struct {
	cfg                   config.DBConfig
	incrementalWindowDays int
	db                    *sql.DB
}

// OpenMySQLExtractor opens the connection pool for srcA, retrying while the
// database is still starting up, and verifies it by querying its version —
// mirroring the open-ping-version sequence used by MySQL target pools
// elsewhere in the ecosystem.
func OpenMySQLExtractor(ctx context.Context, cfg config.DBConfig, incrementalWindowDays int) (*MySQLExtractor, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql source pool: %w", err)
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
			return nil, fmt.Errorf("could not ping mysql source: %w", pingErr)
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not query mysql version: %w", err)
	}

	return &MySQLExtractor{cfg: cfg, incrementalWindowDays: incrementalWindowDays, db: db}, nil
}

func (e *MySQLExtractor) Name() string { return string(model.SourceMySQL) }

func (e *MySQLExtractor) Close() error { return e.db.Close() }

func (e *MySQLExtractor) Extract(ctx context.Context) ([]model.RawRecord, error) {
	query := `SELECT id, nom, email, departement, salaire, date_embauche, last_updated
		FROM employes_mysql`
	var args []interface{}
	if e.incrementalWindowDays > 0 {
		query += " WHERE last_updated >= ?"
		args = append(args, time.Now().AddDate(0, 0, -e.incrementalWindowDays))
	}
	query += " ORDER BY id ASC"

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employes_mysql: %w", err)
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var (
			id            int64
			name          sql.NullString
			email         sql.NullString
			department    sql.NullString
			salary        sql.NullFloat64
			hireDate      sql.NullTime
			lastUpdated   sql.NullTime
		)
		if err := rows.Scan(&id, &name, &email, &department, &salary, &hireDate, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan employes_mysql row: %w", err)
		}

		rec := model.RawRecord{
			Source:     model.SourceMySQL,
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
		return nil, fmt.Errorf("error iterating employes_mysql rows: %w", err)
	}

	return records, nil
}
