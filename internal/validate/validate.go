// Package validate runs post-load invariant checks against the target.
package validate

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Report holds the outcome of one validation pass.
type Report struct {
	Total            int
	ActiveCount      int
	InactiveCount    int
	BySource         map[string]int
	DuplicateEmails  []string
	NullFieldCount   int
	NegativeSalaries int
	Critical         bool
	CriticalReason   string
}

// Run executes every check in autocommit read-only mode and returns a
// report. Only the total>0-with-zero-active condition is critical; every
// other finding is informational or a warning that Run logs itself.
func Run(ctx context.Context, db *sql.DB, logger *zap.Logger) (Report, error) {
	var report Report
	report.BySource = make(map[string]int)

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unified`).Scan(&report.Total); err != nil {
		return report, fmt.Errorf("failed to count unified rows: %w", err)
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unified WHERE status = 'active'`).Scan(&report.ActiveCount); err != nil {
		return report, fmt.Errorf("failed to count active rows: %w", err)
	}
	report.InactiveCount = report.Total - report.ActiveCount

	sourceRows, err := db.QueryContext(ctx, `SELECT source, COUNT(*) FROM unified WHERE status = 'active' GROUP BY source`)
	if err != nil {
		return report, fmt.Errorf("failed to count rows by source: %w", err)
	}
	for sourceRows.Next() {
		var src string
		var n int
		if err := sourceRows.Scan(&src, &n); err != nil {
			sourceRows.Close()
			return report, fmt.Errorf("failed to scan source count: %w", err)
		}
		report.BySource[src] = n
	}
	sourceRows.Close()
	if err := sourceRows.Err(); err != nil {
		return report, fmt.Errorf("error iterating source counts: %w", err)
	}

	dupRows, err := db.QueryContext(ctx, `SELECT email FROM unified GROUP BY email HAVING COUNT(*) > 1`)
	if err != nil {
		return report, fmt.Errorf("failed to find duplicate emails: %w", err)
	}
	for dupRows.Next() {
		var email string
		if err := dupRows.Scan(&email); err != nil {
			dupRows.Close()
			return report, fmt.Errorf("failed to scan duplicate email: %w", err)
		}
		report.DuplicateEmails = append(report.DuplicateEmails, email)
	}
	dupRows.Close()
	if err := dupRows.Err(); err != nil {
		return report, fmt.Errorf("error iterating duplicate emails: %w", err)
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unified WHERE email IS NULL OR email = '' OR name IS NULL OR name = ''`).Scan(&report.NullFieldCount); err != nil {
		return report, fmt.Errorf("failed to count null-field rows: %w", err)
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unified WHERE salary < 0`).Scan(&report.NegativeSalaries); err != nil {
		return report, fmt.Errorf("failed to count negative salaries: %w", err)
	}

	checkCritical(&report)

	logReport(logger, report)

	if report.Critical {
		return report, fmt.Errorf("validation failed critically: %s", report.CriticalReason)
	}
	return report, nil
}

// checkCritical marks the report critical when the target has rows but
// none of them are active.
func checkCritical(report *Report) {
	if report.Total > 0 && report.ActiveCount == 0 {
		report.Critical = true
		report.CriticalReason = "target has rows but zero are active"
	}
}

func logReport(logger *zap.Logger, report Report) {
	if logger == nil {
		return
	}
	logger.Info("validation summary",
		zap.Int("total", report.Total),
		zap.Int("active", report.ActiveCount),
		zap.Int("inactive", report.InactiveCount),
		zap.Any("by_source", report.BySource))

	if len(report.DuplicateEmails) > 0 {
		logger.Warn("duplicate emails found", zap.Strings("emails", report.DuplicateEmails))
	}
	if report.NullFieldCount > 0 {
		logger.Warn("rows with null email or name", zap.Int("count", report.NullFieldCount))
	}
	if report.NegativeSalaries > 0 {
		logger.Warn("rows with negative salary", zap.Int("count", report.NegativeSalaries))
	}
	if report.Critical {
		logger.Error("critical validation failure", zap.String("reason", report.CriticalReason))
	}
}
