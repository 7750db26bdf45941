package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"empsync/internal/model"
)

// FileExtractor reads the delimited employee file. The configured path is
// tried first; if empty or absent, fallbackPaths are tried in order and
// the first one that exists is used.
type FileExtractor struct {
	Path          string
	FallbackPaths []string
}

func NewFileExtractor(path string, fallbackPaths []string) *FileExtractor {
	return &FileExtractor{Path: path, FallbackPaths: fallbackPaths}
}

func (e *FileExtractor) Name() string { return string(model.SourceFile) }

func (e *FileExtractor) Extract(ctx context.Context) ([]model.RawRecord, error) {
	path, err := e.resolvePath()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open employee file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columnMap := make(map[string]int, len(header))
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var records []model.RawRecord
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		for _, field := range row {
			if !utf8.ValidString(field) {
				return nil, fmt.Errorf("employee file %s is not valid UTF-8", path)
			}
		}

		records = append(records, model.RawRecord{
			Source:       model.SourceFile,
			SourceID:     e.columnValue(row, columnMap, "id"),
			Name:         e.columnValue(row, columnMap, "name"),
			Email:        e.columnValue(row, columnMap, "email"),
			Department:   e.columnValue(row, columnMap, "department"),
			SalaryText:   e.columnValue(row, columnMap, "salary"),
			HireDateText: e.columnValue(row, columnMap, "hire_date"),
		})
	}

	return records, nil
}

func (e *FileExtractor) resolvePath() (string, error) {
	candidates := make([]string, 0, 1+len(e.FallbackPaths))
	if e.Path != "" {
		candidates = append(candidates, e.Path)
	}
	candidates = append(candidates, e.FallbackPaths...)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no employee file found among candidates: %v", candidates)
}

func (e *FileExtractor) columnValue(row []string, columnMap map[string]int, name string) string {
	if idx, ok := columnMap[name]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
