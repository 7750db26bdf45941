package transform

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empsync/internal/model"
)

func TestNormalize_DropsMissingEmailOrName(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		_, ok := Normalize(model.RawRecord{Source: model.SourceFile, Name: "Alice"})
		assert.False(t, ok)
	})

	t.Run("missing name", func(t *testing.T) {
		_, ok := Normalize(model.RawRecord{Source: model.SourceFile, Email: "alice@example.com"})
		assert.False(t, ok)
	})
}

func TestNormalize_LowercasesAndTrimsEmail(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source: model.SourceFile,
		Name:   "  Alice Martin  ",
		Email:  "  Alice@Example.COM ",
	})
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", staged.Email)
	assert.Equal(t, "Alice Martin", staged.Name)
}

func TestNormalize_TitleCasesDepartment(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source:     model.SourceFile,
		Name:       "Alice",
		Email:      "alice@example.com",
		Department: "engineering AND design",
	})
	require.True(t, ok)
	assert.Equal(t, "Engineering And Design", staged.Department)
}

func TestNormalize_ParsesSalary(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source: model.SourceFile,
		Name:   "Alice",
		Email:  "alice@example.com",
		SalaryText: "55000.50",
	})
	require.True(t, ok)
	require.True(t, staged.HasSalary)
	assert.True(t, staged.Salary.Equal(decimal.RequireFromString("55000.50")))
}

func TestNormalize_UnparseableSalaryLeavesAbsent(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source:     model.SourceFile,
		Name:       "Alice",
		Email:      "alice@example.com",
		SalaryText: "not-a-number",
	})
	require.True(t, ok)
	assert.False(t, staged.HasSalary)
}

func TestNormalize_ParsesHireDateISO(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source:       model.SourceFile,
		Name:         "Alice",
		Email:        "alice@example.com",
		HireDateText: "2021-03-15",
	})
	require.True(t, ok)
	require.True(t, staged.HasHire)
	assert.Equal(t, 2021, staged.HireDate.Year())
	assert.Equal(t, time.March, staged.HireDate.Month())
	assert.Equal(t, 15, staged.HireDate.Day())
}

func TestNormalize_ParsesHireDateEpochSeconds(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source:       model.SourceFile,
		Name:         "Alice",
		Email:        "alice@example.com",
		HireDateText: "1615766400", // 2021-03-15T00:00:00Z, seconds
	})
	require.True(t, ok)
	require.True(t, staged.HasHire)
	assert.Equal(t, 2021, staged.HireDate.Year())
}

func TestNormalize_ParsesHireDateEpochMillis(t *testing.T) {
	staged, ok := Normalize(model.RawRecord{
		Source:       model.SourceFile,
		Name:         "Alice",
		Email:        "alice@example.com",
		HireDateText: "1615766400000", // same instant in milliseconds
	})
	require.True(t, ok)
	require.True(t, staged.HasHire)
	assert.Equal(t, 2021, staged.HireDate.Year())
}

func TestMerge_SourcePriority_PostgresWinsOverMySQLAndFile(t *testing.T) {
	file := []model.RawRecord{{Source: model.SourceFile, Name: "File Name", Email: "e@x.com", Department: "File Dept"}}
	srcA := []model.RawRecord{{Source: model.SourceMySQL, Name: "MySQL Name", Email: "e@x.com", Department: "MySQL Dept"}}
	srcB := []model.RawRecord{{Source: model.SourcePostgres, Name: "Postgres Name", Email: "e@x.com", Department: "Postgres Dept"}}

	result := Merge(file, srcA, srcB)
	require.Len(t, result, 1)
	assert.Equal(t, "Postgres Name", result[0].Name)
}

func TestMerge_SourcePriority_MySQLWinsOverFileWhenNoPostgres(t *testing.T) {
	file := []model.RawRecord{{Source: model.SourceFile, Name: "File Name", Email: "e@x.com"}}
	srcA := []model.RawRecord{{Source: model.SourceMySQL, Name: "MySQL Name", Email: "e@x.com"}}

	result := Merge(file, srcA, nil)
	require.Len(t, result, 1)
	assert.Equal(t, "MySQL Name", result[0].Name)
}

func TestMerge_DropsInvalidRowsAndKeepsOrder(t *testing.T) {
	file := []model.RawRecord{
		{Source: model.SourceFile, Name: "A", Email: "a@x.com"},
		{Source: model.SourceFile, Name: "", Email: "b@x.com"}, // dropped: no name
		{Source: model.SourceFile, Name: "C", Email: "c@x.com"},
	}
	result := Merge(file, nil, nil)
	require.Len(t, result, 2)
	assert.Equal(t, "a@x.com", result[0].Email)
	assert.Equal(t, "c@x.com", result[1].Email)
}
