package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/store"
	"github.com/beesaferoot/seatctl/internal/workflow"
)

func UnassignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unassign [employee-id] [seat-id]",
		Short: "Remove an employee from a seat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			floorNumber, _ := cmd.Flags().GetInt("floor")
			yes, _ := cmd.Flags().GetBool("yes")

			employeeID, err := parseID(args[0], "employee")
			if err != nil {
				return err
			}
			seatID, err := parseID(args[1], "seat")
			if err != nil {
				return err
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st := store.New(a.client, a.logger)
			if cmd.Flags().Changed("floor") {
				// with the floor loaded the seat is checked before the call
				if err := st.LoadFloor(ctx, floorNumber); err != nil {
					a.logger.Warn("unassigning without floor state", zap.Int("floor_number", floorNumber), zap.Error(err))
				}
			}

			flow := workflow.NewUnassign(a.client, st, a.logger, employeeID, seatID)
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd, fmt.Sprintf("Remove employee %d from seat %d?", employeeID, seatID)) {
				flow.Cancel()
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err := flow.Confirm(ctx); err != nil {
				return err
			}

			if _, seat, ok := st.Seat(seatID); ok {
				fmt.Fprintf(out, "Removed employee %d from seat %s, now %s.\n", employeeID, seat.SeatNumber, seatStatus(seat))
				return nil
			}
			fmt.Fprintf(out, "Removed employee %d from seat %d.\n", employeeID, seatID)
			return nil
		},
	}

	cmd.Flags().Int("floor", 0, "Floor the seat is on, enables the local seat check")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}
