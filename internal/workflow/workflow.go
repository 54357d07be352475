// Package workflow sequences the seat assignment dialogs as explicit steps
// with a typed draft carried between them.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/beesaferoot/seatctl/internal/models"
)

type Step int

const (
	ChooseFloor Step = iota
	ChooseSeat
	Confirm
	Done
	Cancelled
)

func (s Step) String() string {
	switch s {
	case ChooseFloor:
		return "choose_floor"
	case ChooseSeat:
		return "choose_seat"
	case Confirm:
		return "confirm"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	ErrWrongStep     = errors.New("action not allowed at this step")
	ErrSeatNotFound  = errors.New("seat not found on the selected floor")
	ErrAlreadySeated = errors.New("employee is already assigned to this seat")
	ErrNotSeated     = errors.New("employee is not assigned to this seat")
)

// Gateway is the part of the API the workflows call.
type Gateway interface {
	AssignSeat(ctx context.Context, employeeID, seatID int64) error
	UnassignSeat(ctx context.Context, employeeID, seatID int64) error
	GetSeat(ctx context.Context, id int64) (*models.Seat, error)
	EmployeeSeats(ctx context.Context, id int64) ([]*models.Seat, error)
}

func stepError(action string, at Step) error {
	return fmt.Errorf("%s at step %s: %w", action, at, ErrWrongStep)
}

// SeatInfo loads one seat with its room and employees.
func SeatInfo(ctx context.Context, gw Gateway, seatID int64) (*models.Seat, error) {
	seat, err := gw.GetSeat(ctx, seatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat %d: %w", seatID, err)
	}
	return seat, nil
}

// EmployeeSeats lists the seats assigned to an employee. The result is never nil.
func EmployeeSeats(ctx context.Context, gw Gateway, employeeID int64) ([]*models.Seat, error) {
	seats, err := gw.EmployeeSeats(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats of employee %d: %w", employeeID, err)
	}
	if seats == nil {
		seats = []*models.Seat{}
	}
	return seats, nil
}
