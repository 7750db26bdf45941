// Package model defines the record shapes passed between pipeline stages.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which upstream system a record came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceMySQL    Source = "srcA"
	SourcePostgres Source = "srcB"
)

// Status is the lifecycle state of a row in the unified target table.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// RawRecord is the uniform shape produced directly by an extractor, before
// the transformer normalises field types. Values are carried as strings
// (or zero-value/absent) so every source — typed database columns and
// untyped CSV text alike — can be represented the same way; the
// transformer owns all type coercion and normalisation.
type RawRecord struct {
	Source     Source
	SourceID   string
	Name       string
	Email      string
	Department string

	// SalaryText is the raw textual representation of salary, empty if
	// the source gave no value.
	SalaryText string

	// HireDateText is the raw textual representation of hire date. When
	// a source column is already a typed date/timestamp, the extractor
	// formats it as RFC3339 so the transformer's parser handles it
	// uniformly with CSV text.
	HireDateText string

	// LastUpdated carries the source's last-updated timestamp when it has
	// one; no later stage reads it and it never reaches the target (the
	// incremental window is applied in the extractor's query).
	LastUpdated time.Time
	HasLastUpdated bool
}

// StagedRecord is a normalised, in-flight record between the transformer
// and the loader. It carries no surrogate id and no lifecycle fields —
// those belong to the target only.
type StagedRecord struct {
	Source     Source
	SourceID   string
	Name       string
	Email      string
	Department string
	Salary     decimal.Decimal
	HasSalary  bool
	HireDate   time.Time
	HasHire    bool
}

// UnifiedRecord is a row of the target table.
type UnifiedRecord struct {
	ID         int64
	Source     Source
	SourceID   string
	Name       string
	Email      string
	Department string
	Salary     decimal.Decimal
	HasSalary  bool
	HireDate   time.Time
	HasHire    bool
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
