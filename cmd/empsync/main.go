// Package main implements the empsync CLI — the incremental ETL
// reconciliation engine that consolidates employee records from a
// delimited file, a MySQL source, and a PostgreSQL source into one
// unified PostgreSQL target table.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"empsync/internal/config"
	"empsync/internal/extract"
	"empsync/internal/logging"
	"empsync/internal/pipeline"
	"empsync/internal/target"
	"empsync/internal/validate"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "empsync",
	Short: "empsync reconciles employee records from three sources into one unified table",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one reconciliation pass end to end",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fileExtractor := extract.NewFileExtractor(cfg.File.Path, cfg.File.FallbackPaths)

		mysqlExtractor, err := extract.OpenMySQLExtractor(ctx, cfg.MySQLSource, cfg.IncrementalWindowDays)
		if err != nil {
			return fmt.Errorf("failed to open mysql source: %w", err)
		}
		defer mysqlExtractor.Close()

		pgExtractor, err := extract.OpenPostgresExtractor(ctx, cfg.PostgresSource, cfg.IncrementalWindowDays)
		if err != nil {
			return fmt.Errorf("failed to open postgres source: %w", err)
		}
		defer pgExtractor.Close()

		targetStore, err := target.Open(ctx, cfg.Target, logger)
		if err != nil {
			return fmt.Errorf("failed to open target: %w", err)
		}
		defer targetStore.Close()

		if err := targetStore.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate target schema: %w", err)
		}

		coordinator := &pipeline.Coordinator{
			FileExtractor: fileExtractor,
			SrcAExtractor: mysqlExtractor,
			SrcBExtractor: pgExtractor,
			Target:        targetStore,
			BatchSize:     cfg.LoadBatchSize,
			Logger:        logger,
		}

		summary, err := coordinator.Run(ctx)
		logger.Info("reconciliation run complete",
			zap.Int("extracted_file", summary.ExtractedFile),
			zap.Int("extracted_srcA", summary.ExtractedSrcA),
			zap.Int("extracted_srcB", summary.ExtractedSrcB),
			zap.Int("staged", summary.Staged),
			zap.Int("inserted", summary.Inserted),
			zap.Int("updated", summary.Updated),
			zap.Int("deleted", summary.Deleted),
			zap.Int("load_errors", summary.LoadErrors),
		)
		if err != nil {
			return fmt.Errorf("reconciliation run failed: %w", err)
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply target schema migrations without running reconciliation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		targetStore, err := target.Open(ctx, cfg.Target, logger)
		if err != nil {
			return fmt.Errorf("failed to open target: %w", err)
		}
		defer targetStore.Close()

		if err := targetStore.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate target schema: %w", err)
		}
		logger.Info("target schema migrated")
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run only the validator against the current target state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		targetStore, err := target.Open(ctx, cfg.Target, logger)
		if err != nil {
			return fmt.Errorf("failed to open target: %w", err)
		}
		defer targetStore.Close()

		_, err = validate.Run(ctx, targetStore.DB, logger)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(runCmd, migrateCmd, validateCmd)
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
