package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/provider"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "visitctl",
		Short:         "Visit statistics maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(clearVisitsCmd(), statsCmd())
	return cmd
}

func clearVisitsCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "clear-visits",
		Short: "Delete every page view and daily aggregate",
		Long: `Deletes all recorded page views and daily visit aggregates so counters
start again from zero. Without --confirm nothing is deleted; the command only
reports what would be removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, cleanup, err := openContainer()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := container.VisitAdminService.Reset(context.Background(), confirm)
			if err != nil {
				return fmt.Errorf("reset visits: %w", err)
			}
			printResetResult(cmd.OutOrStdout(), result.Confirmed, result.PageViews, result.DailyAggregates)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm deletion of all visit data")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print visit counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, cleanup, err := openContainer()
			if err != nil {
				return err
			}
			defer cleanup()

			views, daily, err := container.VisitAdminService.Counts()
			if err != nil {
				return fmt.Errorf("count visits: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "page views:       %d\n", views)
			fmt.Fprintf(out, "daily aggregates: %d\n", daily)

			today := container.VisitTracker.Today()
			day, err := container.VisitRepo.GetDay(today)
			if err != nil {
				return fmt.Errorf("load %s: %w", today, err)
			}
			if day == nil {
				fmt.Fprintf(out, "%s:       no visits\n", today)
				return nil
			}
			fmt.Fprintf(out, "%s:       total=%d unique=%d\n", today, day.TotalVisits, day.UniqueVisitors)
			return nil
		},
	}
}

func printResetResult(out io.Writer, confirmed bool, views, daily int64) {
	if !confirmed {
		fmt.Fprintf(out, "This command deletes ALL visit data (%d page views, %d daily aggregates).\n", views, daily)
		fmt.Fprintln(out, "To proceed run: visitctl clear-visits --confirm")
		return
	}
	fmt.Fprintf(out, "Deleted %d page view records\n", views)
	fmt.Fprintf(out, "Deleted %d daily aggregate records\n", daily)
	fmt.Fprintln(out, "Visit data cleared. Counters start again from 0.")
}

// openContainer 加载配置并初始化数据库与依赖
func openContainer() (*provider.Container, func(), error) {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	container := provider.NewContainer(cfg)
	cleanup := func() {
		if container.QueueClient != nil {
			_ = container.QueueClient.Close()
		}
		_ = cache.Close()
		logger.Sync()
	}
	return container, cleanup, nil
}
