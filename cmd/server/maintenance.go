package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		file  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load projects, skills and blog posts from a YAML file",
		Long: `Inserts every entry of the seed document in one transaction.
Entries whose id already exists are skipped, so the command can be re-run.
With --watch the file is reloaded on every save until interrupted.

Example:
  portfolio seed --file content.yaml
  portfolio seed --file content.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			seeder := service.NewContentSeeder(store, a.logger)
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return seeder.Watch(ctx, file, func(result service.SeedResult, err error) {
					if err != nil {
						a.logger.Warn("seed reload failed", zap.String("file", file), zap.Error(err))
						return
					}
					a.logger.Info("seed reloaded", zap.String("file", file),
						zap.Int("inserted", result.Inserted), zap.Int("skipped", result.Skipped))
				})
			}

			result, err := seeder.LoadFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			a.logger.Info("seed complete", zap.String("file", file),
				zap.Int("inserted", result.Inserted), zap.Int("skipped", result.Skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, skipped %d\n", result.Inserted, result.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "content.yaml", "seed document path")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the file on change until interrupted")

	return cmd
}

func newBackfillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-variants",
		Short: "Persist the inferred variant of projects that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			updated, err := service.NewProjectService(store, a.logger).BackfillVariants(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d projects\n", updated)
			return nil
		},
	}
}

func newPurgeCmd(a *app) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge-visitors",
		Short: "Delete visitor events older than the given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			removed, err := service.NewVisitorService(store, a.logger).Purge(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d visitor events\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 365*24*time.Hour, "minimum age of events to delete")

	return cmd
}
