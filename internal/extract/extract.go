// Package extract implements per-source snapshot extraction.
package extract

import (
	"context"

	"empsync/internal/model"
)

// Extractor pulls a full snapshot of raw records from one source.
// A non-nil error means the source is unreachable or returned an
// unrecoverable schema mismatch — the caller treats that source's
// snapshot as empty for the run and proceeds with the others.
type Extractor interface {
	Name() string
	Extract(ctx context.Context) ([]model.RawRecord, error)
}
