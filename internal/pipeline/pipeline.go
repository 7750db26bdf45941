// Package pipeline coordinates the seven-stage reconciliation run:
// parallel extraction, transform, compare, detect deletions, load,
// validate.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"empsync/internal/compare"
	"empsync/internal/deletion"
	"empsync/internal/extract"
	"empsync/internal/load"
	"empsync/internal/logging"
	"empsync/internal/model"
	"empsync/internal/target"
	"empsync/internal/transform"
	"empsync/internal/validate"
)

// Coordinator owns stage sequencing for one reconciliation run.
type Coordinator struct {
	FileExtractor extract.Extractor
	SrcAExtractor extract.Extractor
	SrcBExtractor extract.Extractor
	Target        *target.Store
	BatchSize     int
	Logger        *zap.Logger

	mu      sync.Mutex
	running bool
}

// Summary reports what one run did.
type Summary struct {
	ExtractedFile   int
	ExtractedSrcA   int
	ExtractedSrcB   int
	ExtractorErrors map[string]error
	Staged          int
	Inserted        int
	Updated         int
	LoadErrors      int
	Deleted         int
	Validation      validate.Report
}

// Run executes one full reconciliation pass. Extractors run concurrently
// under an errgroup with a join barrier at the transform stage; an
// extractor failure does not abort the run — the other sources and every
// downstream stage still execute, per the loader's "run regardless of
// upstream failure" trigger rule.
func (c *Coordinator) Run(ctx context.Context) (Summary, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return Summary{}, fmt.Errorf("a reconciliation run is already in progress")
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	summary := Summary{ExtractorErrors: make(map[string]error)}

	fileRows, srcARows, srcBRows, err := c.extractAll(ctx, &summary)
	if err != nil {
		return summary, fmt.Errorf("extraction stage failed: %w", err)
	}

	staged := transform.Merge(fileRows, srcARows, srcBRows)
	summary.Staged = len(staged)

	byEmail, active, err := c.Target.Snapshot(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to read target snapshot: %w", err)
	}

	classified := compare.Classify(c.Logger, staged, byEmail)

	toDelete := deletion.Detect(staged, active)
	if err := deletion.Apply(ctx, c.Target.DB, toDelete); err != nil {
		return summary, fmt.Errorf("deletion stage failed: %w", err)
	}
	summary.Deleted = len(toDelete)

	loader := load.New(c.Target.DB, c.BatchSize, c.Logger)
	loadResult, err := loader.Apply(ctx, classified.Inserts, classified.Updates)
	summary.Inserted = loadResult.Inserted
	summary.Updated = loadResult.Updated
	summary.LoadErrors = loadResult.Errors
	if err != nil {
		return summary, fmt.Errorf("load stage failed: %w", err)
	}

	report, err := validate.Run(ctx, c.Target.DB, c.Logger)
	summary.Validation = report
	if err != nil {
		return summary, fmt.Errorf("validation failed: %w", err)
	}

	return summary, nil
}

// extractAll runs the three extractors concurrently under an errgroup
// with a join barrier: every goroutine absorbs its own extractor's error
// into summary.ExtractorErrors and returns nil, so eg.Wait only reports
// genuine coordination failures (e.g. context cancellation) rather than
// individual source outages — a failed source yields an empty snapshot
// and the other sources and all downstream stages still run.
func (c *Coordinator) extractAll(ctx context.Context, summary *Summary) (file, srcA, srcB []model.RawRecord, err error) {
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rows, extractErr := c.FileExtractor.Extract(egCtx)
		mu.Lock()
		defer mu.Unlock()
		if extractErr != nil {
			summary.ExtractorErrors[c.FileExtractor.Name()] = extractErr
			if c.Logger != nil {
				logging.Stage(c.Logger, "extract_file").Warn("extractor failed", zap.Error(extractErr))
			}
			return nil
		}
		file = rows
		summary.ExtractedFile = len(rows)
		return nil
	})
	eg.Go(func() error {
		rows, extractErr := c.SrcAExtractor.Extract(egCtx)
		mu.Lock()
		defer mu.Unlock()
		if extractErr != nil {
			summary.ExtractorErrors[c.SrcAExtractor.Name()] = extractErr
			if c.Logger != nil {
				logging.Stage(c.Logger, "extract_srcA").Warn("extractor failed", zap.Error(extractErr))
			}
			return nil
		}
		srcA = rows
		summary.ExtractedSrcA = len(rows)
		return nil
	})
	eg.Go(func() error {
		rows, extractErr := c.SrcBExtractor.Extract(egCtx)
		mu.Lock()
		defer mu.Unlock()
		if extractErr != nil {
			summary.ExtractorErrors[c.SrcBExtractor.Name()] = extractErr
			if c.Logger != nil {
				logging.Stage(c.Logger, "extract_srcB").Warn("extractor failed", zap.Error(extractErr))
			}
			return nil
		}
		srcB = rows
		summary.ExtractedSrcB = len(rows)
		return nil
	})

	err = eg.Wait()
	return file, srcA, srcB, err
}
