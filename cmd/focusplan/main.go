package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"focus-planner-backend/internal/db"
	"focus-planner-backend/internal/scheduler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var tz string

	root := &cobra.Command{
		Use:           "focusplan",
		Short:         "Plan a focus day from a task file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&tz, "tz", "Local", "IANA timezone for dates and block times")

	root.AddCommand(newScheduleCmd(&tz))
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func newScheduleCmd(tz *string) *cobra.Command {
	var (
		date                string
		earlyBird, nightOwl bool
	)

	cmd := &cobra.Command{
		Use:   "schedule <file.yaml>",
		Short: "Assign tasks to 30-minute blocks for one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(*tz)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}
			pf, err := loadPlanFile(args[0])
			if err != nil {
				return err
			}

			if date == "" {
				date = pf.Date
			}
			day, err := parseDay(date, time.Now(), loc)
			if err != nil {
				return err
			}

			settings := pf.Settings
			if cmd.Flags().Changed("early-bird") {
				settings.EarlyBirdMode = earlyBird
			}
			if cmd.Flags().Changed("night-owl") {
				settings.NightOwlMode = nightOwl
			}

			profile := scheduler.CreateCognitiveProfile(settings)
			plan := scheduler.PlanDay(pf.Tasks, day, profile, pf.Events)
			printPlan(cmd.OutOrStdout(), plan, pf.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to plan (YYYY-MM-DD); defaults to the file's date, then today")
	cmd.Flags().BoolVar(&earlyBird, "early-bird", false, "use the early-bird chronotype")
	cmd.Flags().BoolVar(&nightOwl, "night-owl", false, "use the night-owl chronotype")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file.yaml>",
		Short: "Print complexity, load type and ideal energy for each task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := loadPlanFile(args[0])
			if err != nil {
				return err
			}
			printClassification(cmd.OutOrStdout(), pf.Tasks)
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := db.ParseDialect(driver)
			if err != nil {
				return err
			}
			if dsn == "" {
				return fmt.Errorf("--dsn is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			h, err := db.Open(ctx, d, dsn)
			if err != nil {
				return err
			}
			defer h.Close()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema is at version %d (%s)\n", db.SchemaVersion, d)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", string(db.SQLite), "database driver: postgres or sqlite")
	cmd.Flags().StringVar(&dsn, "dsn", "", "connection string or sqlite file path")
	return cmd
}
