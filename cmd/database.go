package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/scheduler"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		Run: func(_ *cobra.Command, _ []string) {
			withDatabase(func(ctx context.Context, b *backend, _ *Config, logger *zap.Logger) {
				if err := b.db.Migrate(ctx); err != nil {
					logger.Fatal("migrating", zap.Error(err))
				}
				logger.Info("schema is up to date")
			})
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert sample postings, or postings from a file, into the database",
		Run: func(cmd *cobra.Command, _ []string) {
			file, _ := cmd.Flags().GetString("file")
			withDatabase(func(ctx context.Context, b *backend, _ *Config, logger *zap.Logger) {
				runSeed(ctx, b, file, logger)
			})
		},
	}

	cleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "Remove postings older than the configured age",
		Run: func(cmd *cobra.Command, _ []string) {
			schedule, _ := cmd.Flags().GetBool("schedule")
			withDatabase(func(ctx context.Context, b *backend, config *Config, logger *zap.Logger) {
				runCleanup(ctx, b, config, schedule, logger)
			})
		},
	}
)

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, cleanupCmd)

	seedCmd.Flags().StringP("file", "f", "", "yaml or json file with postings (default is the built-in sample set)")

	cleanupCmd.Flags().Bool("schedule", false, "keep running and clean up on the cron schedule")
	cleanupCmd.Flags().String("cron", scheduler.DefaultSpec, "cron spec for scheduled cleanup")
	cleanupCmd.Flags().Duration("max-age", scheduler.DefaultMaxAge, "remove postings published earlier than this")

	viper.BindPFlag("cleanup.schedule", cleanupCmd.Flags().Lookup("cron"))
	viper.BindPFlag("cleanup.max-age", cleanupCmd.Flags().Lookup("max-age"))
}

// withDatabase prepares a postgres backend regardless of the configured source.
func withDatabase(fn func(ctx context.Context, b *backend, config *Config, logger *zap.Logger)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	config.Source = SourcePostgres

	b, err := newBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer b.Close()

	fn(ctx, b, config, logger)
}

func runSeed(ctx context.Context, b *backend, file string, logger *zap.Logger) {
	var (
		v      *jobs.Postings
		err    error
		source = "seed"
	)
	if file != "" {
		v, err = jobs.LoadFile(file, time.Now())
		source = "file"
	} else {
		v, err = jobs.Seed(time.Now())
	}
	if err != nil {
		logger.Fatal("loading postings", zap.Error(err))
	}

	inserted, err := b.db.Postings().Insert(ctx, v, source)
	if err != nil {
		logger.Fatal("inserting postings", zap.Error(err))
	}

	b.invalidate(ctx, logger)

	logger.Info("postings seeded",
		zap.Int("loaded", v.Len()),
		zap.Int64("inserted", inserted),
		zap.String("source", source),
	)
}

func runCleanup(ctx context.Context, b *backend, config *Config, schedule bool, logger *zap.Logger) {
	var invalidator scheduler.Invalidator
	if b.cache != nil {
		invalidator = b.cache
	}

	s := scheduler.New(b.db.Postings(), invalidator, *config.Cleanup, logger)

	if !schedule {
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Fatal("cleanup failed", zap.Error(err))
		}
		return
	}

	if err := s.Start(ctx); err != nil {
		logger.Fatal("starting the scheduler", zap.Error(err))
	}
	<-ctx.Done()
	s.Stop()
}
