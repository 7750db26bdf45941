package extract

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"empsync/internal/config"
)

func TestPostgresExtractor_Integration(t *testing.T) {
	host := os.Getenv("TEST_POSTGRES_SOURCE_HOST")
	if host == "" {
		t.Skip("TEST_POSTGRES_SOURCE_HOST not set, skipping postgres source integration test")
	}

	cfg := config.DBConfig{
		Host:     host,
		Port:     5432,
		Database: os.Getenv("TEST_POSTGRES_SOURCE_DB"),
		User:     os.Getenv("TEST_POSTGRES_SOURCE_USER"),
		Password: os.Getenv("TEST_POSTGRES_SOURCE_PASSWORD"),
	}

	ex, err := OpenPostgresExtractor(context.Background(), cfg, 0)
	require.NoError(t, err)
	defer ex.Close()

	records, err := ex.Extract(context.Background())
	require.NoError(t, err)
	t.Logf("extracted %d rows from employes_source", len(records))
}
