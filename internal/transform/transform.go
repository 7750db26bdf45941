// Package transform normalises and deduplicates raw records extracted
// from each source into a single staged sequence.
package transform

import (
	"strings"

	"github.com/shopspring/decimal"

	"empsync/internal/model"
)

// sourcePriority fixes the concatenation order used for deduplication:
// later sources win ties on the same email. srcB (PostgreSQL) is treated
// as most authoritative, matching the original system's source ranking.
var sourcePriority = []model.Source{model.SourceFile, model.SourceMySQL, model.SourcePostgres}

// Normalize converts one raw record into a staged record. ok is false when
// the record must be dropped (missing email or name after normalisation).
func Normalize(raw model.RawRecord) (model.StagedRecord, bool) {
	email := strings.ToLower(strings.TrimSpace(repairMojibake(raw.Email)))
	if email == "" {
		return model.StagedRecord{}, false
	}

	name := strings.TrimSpace(repairMojibake(raw.Name))
	if name == "" {
		return model.StagedRecord{}, false
	}

	staged := model.StagedRecord{
		Source:     raw.Source,
		SourceID:   repairMojibake(raw.SourceID),
		Name:       name,
		Email:      email,
		Department: titleCase(strings.TrimSpace(repairMojibake(raw.Department))),
	}

	if raw.SalaryText != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(raw.SalaryText)); err == nil {
			staged.Salary = d
			staged.HasSalary = true
		}
	}

	if raw.HireDateText != "" {
		if t, ok := parseFlexibleDate(strings.TrimSpace(raw.HireDateText)); ok {
			staged.HireDate = t
			staged.HasHire = true
		}
	}

	return staged, true
}

// titleCase upper-cases the first letter of each whitespace-separated
// token and lower-cases the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	words := strings.Fields(s)
	for i, w := range words {
		lower := []rune(strings.ToLower(w))
		words[i] = strings.ToUpper(string(lower[:1])) + string(lower[1:])
	}
	return strings.Join(words, " ")
}

// Merge concatenates raw records from all three sources in the fixed
// priority order, normalises each, and deduplicates by email keeping the
// last occurrence — i.e. the highest-priority source wins.
func Merge(file, srcA, srcB []model.RawRecord) []model.StagedRecord {
	bySource := map[model.Source][]model.RawRecord{
		model.SourceFile:     file,
		model.SourceMySQL:    srcA,
		model.SourcePostgres: srcB,
	}

	order := make([]string, 0)
	byEmail := make(map[string]model.StagedRecord)

	for _, src := range sourcePriority {
		for _, raw := range bySource[src] {
			staged, ok := Normalize(raw)
			if !ok {
				continue
			}
			if _, exists := byEmail[staged.Email]; !exists {
				order = append(order, staged.Email)
			}
			byEmail[staged.Email] = staged
		}
	}

	result := make([]model.StagedRecord, 0, len(order))
	for _, email := range order {
		result = append(result, byEmail[email])
	}
	return result
}
