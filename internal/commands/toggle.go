package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/store"
)

func ToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [floor] [room] [seat]",
		Short: "Flip a seat between free and occupied locally",
		Long:  `Loads the floor, flips the occupied flag of the seat identified by room number and seat number, and prints the result. The change is local and is not sent to the API.`,
		Args:  cobra.ExactArgs(3),
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

			room, seat := lookupSeat(st.SelectedFloor(), args[1], args[2])
			if seat == nil {
				return fmt.Errorf("seat %s not found in room %s on floor %d", args[2], args[1], n)
			}
			if !st.ToggleSeatOccupancy(room.ID, seat.ID) {
				return fmt.Errorf("failed to toggle seat %s", seat.SeatNumber)
			}

			_, updated, _ := st.Seat(seat.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Seat %s in room %s is now %s (local change, not saved)\n",
				updated.SeatNumber, room.RoomNumber, seatStatus(updated))
			return nil
		},
	}
}

// lookupSeat finds a seat by room number and seat number or seat id.
func lookupSeat(floor *models.Floor, roomRef, seatRef string) (*models.Room, *models.Seat) {
	if floor == nil {
		return nil, nil
	}
	for _, r := range floor.Rooms {
		if r.RoomNumber != roomRef {
			continue
		}
		for _, s := range r.Seats {
			if s.SeatNumber == seatRef || fmt.Sprint(s.ID) == seatRef {
				return r, s
			}
		}
	}
	return nil, nil
}
