package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/cache"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the snapshot cache schema",
	}

	cmd.AddCommand(
		UpCmd(),
		DownCmd(),
		StatusCmd(),
		HistoryCmd(),
	)

	return cmd
}

// openCache connects to the cache without migrating it.
func openCache(cmd *cobra.Command) (*cache.Cache, error) {
	a, err := getApp(cmd)
	if err != nil {
		return nil, err
	}
	return cache.Open(a.cfg.CacheDSN, a.logger)
}

func UpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			pending, err := c.Migrator().Pending()
			if err != nil {
				return fmt.Errorf("failed to get applied migrations: %v", err)
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, m := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", m.Name, m.Version)
				}
				return nil
			}

			applied, err := c.Migrator().Up()
			for _, m := range applied {
				fmt.Fprintf(out, "Successfully applied migration: %s (%s)\n", m.Name, m.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}

func DownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			m, err := c.Migrator().Down()
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("no migrations to revert")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s\n", m.Name)
			return nil
		},
	}
}

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			statuses, err := c.Migrator().Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, s := range statuses {
				status := "Pending"
				if s.Applied {
					status = "Applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", s.Version, s.Name, status)
			}
			return nil
		},
	}
}

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show migration history",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			records, err := c.Migrator().History()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No migrations have been applied yet.")
				return nil
			}

			fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", "Version", "Name", "Applied At")
			for _, r := range records {
				fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", r.Version, r.Name, r.AppliedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
