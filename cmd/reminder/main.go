// The reminder binary is the cron entrypoint for the daily approval chase.
// It exits non-zero when the initial work order query fails so the
// external scheduler can alert; per-recipient failures are logged and do
// not affect the exit code.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/reminder"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/1711821-sketch/PTW-sub001/pkg/config"
	"github.com/1711821-sketch/PTW-sub001/pkg/joblog"
	"github.com/1711821-sketch/PTW-sub001/pkg/mailer"
	"github.com/spf13/cobra"
)

var (
	flagOlderThan time.Duration
	flagWorkers   int
	flagDryRun    bool
	flagLogFile   string
)

var rootCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Approval reminder batch job for the PTW system",
	Long:  `Scans work orders missing today's approvals and sends reminder emails and in-app notifications to the responsible parties. Intended to be run once daily from cron.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one reminder pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		logger, err := joblog.New(flagLogFile)
		if err != nil {
			return err
		}
		defer logger.Close()

		db, err := config.InitDB()
		if err != nil {
			return fmt.Errorf("connect to store: %w", err)
		}
		defer db.CloseDB()

		workOrderRepo := repositories.NewPostgresWorkOrderRepository(db.Postgres)
		notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
		userRepo := repositories.NewPostgresUserRepository(db.Postgres)

		smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser,
			cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName)

		threshold := flagOlderThan
		if !cmd.Flags().Changed("older-than") {
			threshold = time.Duration(cfg.ReminderThresholdHours) * time.Hour
		}
		workers := flagWorkers
		if !cmd.Flags().Changed("workers") {
			workers = cfg.ReminderWorkers
		}

		scheduler := reminder.NewScheduler(workOrderRepo, notificationRepo, userRepo, smtp, logger, reminder.Config{
			Threshold: threshold,
			Workers:   workers,
			DryRun:    flagDryRun,
		})

		stats, err := scheduler.Run(context.Background())
		if err != nil {
			logger.Printf("run failed: %v", err)
			return err
		}

		fmt.Printf("scanned=%d sent=%d skipped=%d failed=%d deduped=%d\n",
			stats.Scanned, stats.Sent, stats.Skipped, stats.Failed, stats.Deduped)
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&flagOlderThan, "older-than", 24*time.Hour, "staleness threshold; only work orders created earlier are scanned")
	runCmd.Flags().IntVar(&flagWorkers, "workers", 4, "bound on concurrent reminder dispatches")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "log what would be sent without dispatching")
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "", "also append log lines to this file")
	rootCmd.AddCommand(runCmd)
}

func main() {
	// cobra prints the error itself; the non-zero exit is what cron alerts on.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
