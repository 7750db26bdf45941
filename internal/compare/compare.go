// Package compare classifies staged records against the target snapshot
// as inserts or updates.
package compare

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"empsync/internal/model"
)

// salaryTolerance is the absolute tolerance used when comparing salaries
// for equality, matching the spec's 0.01 currency-rounding tolerance.
var salaryTolerance = decimal.RequireFromString("0.01")

// Result holds the classification output.
type Result struct {
	Inserts []model.StagedRecord
	Updates []model.StagedRecord
}

// Classify compares the new snapshot against the existing target rows
// (indexed by email) and splits it into inserts and updates. existing
// should contain every target row, active and inactive alike, so that an
// inactive row matched by the new snapshot is classified as an update
// (which reactivates it).
func Classify(logger *zap.Logger, staged []model.StagedRecord, existing map[string]model.UnifiedRecord) Result {
	var result Result

	for _, rec := range staged {
		if rec.Email == "" {
			if logger != nil {
				logger.Warn("skipping staged record with empty email during comparison", zap.String("source", string(rec.Source)))
			}
			continue
		}

		current, found := existing[rec.Email]
		if !found {
			result.Inserts = append(result.Inserts, rec)
			continue
		}

		if differs(rec, current) {
			result.Updates = append(result.Updates, rec)
		}
	}

	return result
}

func differs(rec model.StagedRecord, current model.UnifiedRecord) bool {
	if current.Status == model.StatusInactive {
		return true
	}
	if rec.Name != current.Name {
		return true
	}
	if rec.Department != current.Department {
		return true
	}
	if !salaryEqual(rec, current) {
		return true
	}
	if !hireDateEqual(rec, current) {
		return true
	}
	return false
}

func salaryEqual(rec model.StagedRecord, current model.UnifiedRecord) bool {
	diff := rec.Salary.Sub(current.Salary).Abs()
	return diff.LessThanOrEqual(salaryTolerance)
}

func hireDateEqual(rec model.StagedRecord, current model.UnifiedRecord) bool {
	if rec.HasHire != current.HasHire {
		return false
	}
	if !rec.HasHire {
		return true
	}
	return rec.HireDate.Equal(current.HireDate)
}
