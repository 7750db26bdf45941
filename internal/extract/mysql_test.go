package extract

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"empsync/internal/config"
)

// TestMySQLExtractor_Integration exercises the real driver against a live
// MySQL instance. It is skipped unless TEST_MYSQL_HOST (and friends)
// are set, mirroring the fixture-gated integration tests elsewhere in the
// ecosystem that avoid requiring a database for unit test runs.
func TestMySQLExtractor_Integration(t *testing.T) {
	host := os.Getenv("TEST_MYSQL_HOST")
	if host == "" {
		t.Skip("TEST_MYSQL_HOST not set, skipping mysql integration test")
	}

	cfg := config.DBConfig{
		Host:     host,
		Port:     3306,
		Database: os.Getenv("TEST_MYSQL_DB"),
		User:     os.Getenv("TEST_MYSQL_USER"),
		Password: os.Getenv("TEST_MYSQL_PASSWORD"),
	}

	ex, err := OpenMySQLExtractor(context.Background(), cfg, 0)
	require.NoError(t, err)
	defer ex.Close()

	records, err := ex.Extract(context.Background())
	require.NoError(t, err)
	t.Logf("extracted %d rows from employes_mysql", len(records))
}
