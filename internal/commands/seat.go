package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/workflow"
)

func SeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seat [id]",
		Short: "Show a seat with its room, floor and employees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "seat")
			if err != nil {
				return err
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			seat, err := workflow.SeatInfo(cmd.Context(), a.client, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %s\n", "Seat:", seat.SeatNumber)
			if seat.Room != nil {
				fmt.Fprintf(out, "%-12s %s %s\n", "Room:", seat.Room.RoomNumber, seat.Room.Name)
				if seat.Room.Floor != nil {
					fmt.Fprintf(out, "%-12s %d %s\n", "Floor:", seat.Room.Floor.FloorNumber, seat.Room.Floor.Name)
				}
			}
			fmt.Fprintf(out, "%-12s %s\n", "Status:", seatStatus(seat))
			fmt.Fprintf(out, "%-12s %s\n", "Employees:", employeeNames(seat.Employees))
			return nil
		},
	}
}
