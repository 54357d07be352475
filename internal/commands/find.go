package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/store"
)

func FindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find [floor] [term]",
		Short: "Fuzzy-find seats on a floor by room, seat or employee",
		Args:  cobra.ExactArgs(2),
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

			out := cmd.OutOrStdout()
			matches := st.FindSeats(args[1])
			if len(matches) == 0 {
				fmt.Fprintf(out, "No seats match %q on floor %d.\n", args[1], n)
				return nil
			}

			fmt.Fprintf(out, "%-8s  %-10s  %-9s  %-24s  %s\n", "Room", "Seat", "Status", "Matched", "Employees")
			for _, m := range matches {
				fmt.Fprintf(out, "%-8s  %-10s  %-9s  %-24s  %s\n",
					m.Room.RoomNumber, m.Seat.SeatNumber, seatStatus(m.Seat), m.Matched, employeeNames(m.Seat.Employees))
			}
			return nil
		},
	}
}
