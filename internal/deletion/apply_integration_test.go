package deletion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

func TestApply_Integration(t *testing.T) {
	host := os.Getenv("TEST_POSTGRES_TARGET_HOST")
	if host == "" {
		t.Skip("TEST_POSTGRES_TARGET_HOST not set, skipping deletion apply integration test")
	}

	dsn := fmt.Sprintf("host=%s port=5432 dbname=%s user=%s password=%s sslmode=disable",
		host, os.Getenv("TEST_POSTGRES_TARGET_DB"), os.Getenv("TEST_POSTGRES_TARGET_USER"), os.Getenv("TEST_POSTGRES_TARGET_PASSWORD"))

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `INSERT INTO unified (source, source_id, name, email, status) VALUES ('file', 'x', 'Temp', 'deletion-apply-test@example.com', 'active')`)
	require.NoError(t, err)
	defer db.ExecContext(ctx, "DELETE FROM unified WHERE email = $1", "deletion-apply-test@example.com")

	require.NoError(t, Apply(ctx, db, []string{"deletion-apply-test@example.com"}))

	var status string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT status FROM unified WHERE email = $1", "deletion-apply-test@example.com").Scan(&status))
	require.Equal(t, "inactive", status)
}

func TestApply_EmptyListIsNoOp(t *testing.T) {
	require.NoError(t, Apply(context.Background(), nil, nil))
}
