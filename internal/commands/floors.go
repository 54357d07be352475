package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/store"
)

func FloorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floors",
		Short: "List all floors",
		RunE: func(cmd *cobra.Command, args []string) error {
			offline, _ := cmd.Flags().GetBool("offline")

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			st := store.New(a.client, a.logger)

			if offline {
				c, err := getCache(a)
				if err != nil {
					return err
				}
				defer c.Close()

				floors, err := c.Load(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load cached floors: %v", err)
				}
				st.Restore(floors)
			} else if err := st.LoadFloors(cmd.Context()); err != nil {
				return err
			}

			printFloors(cmd.OutOrStdout(), st.Floors())
			return nil
		},
	}

	cmd.Flags().Bool("offline", false, "Read floors from the local snapshot cache")

	return cmd
}

func FloorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "floor [number]",
		Short: "Show rooms and seats of a floor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseFloorNumber(args[0])
			if err != nil {
				return err
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			st := store.New(a.client, a.logger)
			if err := st.LoadFloor(cmd.Context(), n); err != nil {
				return err
			}

			floor := st.SelectedFloor()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Floor %d: %s (%d/%d seats occupied)\n\n", floor.FloorNumber, floor.Name, floor.OccupiedCount(), floor.SeatCount())
			printSeats(out, floor)
			return nil
		},
	}
}
