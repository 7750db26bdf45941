package validate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// TestRun_Integration exercises Run against a live Postgres target,
// skipped unless TEST_POSTGRES_TARGET_HOST is set.
func TestRun_Integration(t *testing.T) {
	host := os.Getenv("TEST_POSTGRES_TARGET_HOST")
	if host == "" {
		t.Skip("TEST_POSTGRES_TARGET_HOST not set, skipping validate integration test")
	}

	dsn := fmt.Sprintf("host=%s port=5432 dbname=%s user=%s password=%s sslmode=disable",
		host, os.Getenv("TEST_POSTGRES_TARGET_DB"), os.Getenv("TEST_POSTGRES_TARGET_USER"), os.Getenv("TEST_POSTGRES_TARGET_PASSWORD"))

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()

	report, err := Run(context.Background(), db, nil)
	require.NoError(t, err)
	t.Logf("validation report: total=%d active=%d", report.Total, report.ActiveCount)
}

func TestReport_CriticalWhenTotalPositiveAndNoneActive(t *testing.T) {
	report := Report{Total: 5, ActiveCount: 0}
	checkCritical(&report)
	require.True(t, report.Critical)
}
