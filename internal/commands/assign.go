package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/gateway"
	"github.com/beesaferoot/seatctl/internal/store"
	"github.com/beesaferoot/seatctl/internal/workflow"
)

func AssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign [employee-id] [seat-id]",
		Short: "Assign an employee to a seat",
		Long:  `Assigns the employee to the seat, replacing whoever held it. The floor is taken from --floor or looked up from the seat.`,
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

			employee, err := a.client.GetEmployee(ctx, employeeID)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("floor") {
				if floorNumber, err = seatFloor(ctx, a.client, seatID); err != nil {
					return err
				}
			}

			st := store.New(a.client, a.logger)
			flow := workflow.NewAssign(a.client, st, a.logger, employee.Ref())
			if err := flow.ChooseFloor(ctx, floorNumber); err != nil {
				return err
			}
			if err := flow.ChooseSeat(seatID); err != nil {
				return err
			}

			draft := flow.Draft()
			out := cmd.OutOrStdout()
			if draft.Seat.Occupied {
				fmt.Fprintf(out, "Seat %s is held by %s and will be reassigned.\n", draft.Seat.SeatNumber, employeeNames(draft.Seat.Employees))
			}
			prompt := fmt.Sprintf("Assign %s to seat %s in room %s on floor %d?",
				draft.Employee.FullName, draft.Seat.SeatNumber, draft.Room.RoomNumber, draft.FloorNumber)
			if !yes && !confirm(cmd, prompt) {
				flow.Cancel()
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			seat, err := flow.Confirm(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Assigned %s to seat %s (%s).\n", draft.Employee.FullName, seat.SeatNumber, employeeNames(seat.Employees))
			return nil
		},
	}

	cmd.Flags().Int("floor", 0, "Floor the seat is on (looked up when omitted)")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// seatFloor resolves the floor number of a seat through its room back-reference.
func seatFloor(ctx context.Context, client *gateway.Client, seatID int64) (int, error) {
	seat, err := workflow.SeatInfo(ctx, client, seatID)
	if err != nil {
		return 0, err
	}
	if seat.Room == nil || seat.Room.Floor == nil {
		return 0, fmt.Errorf("seat %d has no floor reference, pass --floor", seatID)
	}
	return seat.Room.Floor.FloorNumber, nil
}
