package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	memoryrepo "github.com/majordome-app/majordome/internal/application/repository/memory"
	memorysvc "github.com/majordome-app/majordome/internal/application/service/memory"
	"github.com/majordome-app/majordome/internal/config"
	"github.com/majordome-app/majordome/internal/database"
	"github.com/majordome-app/majordome/internal/logger"
)

var (
	sweepDays       int
	sweepImportance float64
	sweepSchedule   string
)

func main() {
	root := &cobra.Command{
		Use:   "majordome",
		Short: "Maintenance tooling for the majordome assistant core",
	}

	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Delete stale, low-importance memories",
		Long: `Deletes every memory whose last access is older than --days and
whose importance is below --importance. Runs once by default; with
--schedule it keeps running on the given cron expression.`,
		RunE: runSweep,
	}
	sweep.Flags().IntVar(&sweepDays, "days", 90, "age threshold in days")
	sweep.Flags().Float64Var(&sweepImportance, "importance", 0.3, "importance threshold")
	sweep.Flags().StringVar(&sweepSchedule, "schedule", "", "cron expression for periodic runs (e.g. \"0 3 * * *\")")
	root.AddCommand(sweep)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Path)

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	memories := memorysvc.NewMemoryService(memoryrepo.NewMemoryRepository(db))

	runOnce := func() {
		deleted, err := memories.CleanupOldMemories(ctx, sweepDays, sweepImportance)
		if err != nil {
			logger.Errorf(ctx, "memory sweep failed: %v", err)
			return
		}
		logger.Info(ctx, "memory sweep done, %d entries removed", deleted)
	}

	if sweepSchedule == "" {
		runOnce()
		return nil
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(sweepSchedule, runOnce); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", sweepSchedule, err)
	}
	scheduler.Start()
	logger.Info(ctx, "memory sweep scheduled: %s", sweepSchedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	scheduler.Stop()
	return nil
}
