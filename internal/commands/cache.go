package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/cache"
)

func CacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline floor snapshot",
	}

	cmd.AddCommand(
		CacheSyncCmd(),
		CacheShowCmd(),
		MigrateCmd(),
	)

	return cmd
}

func CacheSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download all floors into the snapshot cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			c, err := getCache(a)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			list, err := a.client.ListFloors(ctx)
			if err != nil {
				return fmt.Errorf("failed to list floors: %w", err)
			}
			floors, err := fetchFloorDetails(ctx, a.client, list)
			if err != nil {
				return err
			}

			run, err := c.Save(ctx, floors)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d floors, %d rooms, %d seats at %s\n",
				run.Floors, run.Rooms, run.Seats, run.SyncedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func CacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cached floors",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			c, err := getCache(a)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			floors, err := c.Load(cmd.Context())
			if errors.Is(err, cache.ErrEmpty) {
				fmt.Fprintln(out, "Cache is empty, run 'seatctl cache sync' first.")
				return nil
			}
			if err != nil {
				return err
			}

			if run, err := c.LastSync(cmd.Context()); err == nil && run != nil {
				fmt.Fprintf(out, "Last synced %s\n\n", run.SyncedAt.Format(time.RFC3339))
			}
			printFloors(out, floors)
			return nil
		},
	}
}
