package workflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/store"
)

// AssignmentDraft is the data collected so far by an Assign flow.
type AssignmentDraft struct {
	Employee    models.EmployeeRef
	FloorNumber int
	Room        *models.Room
	Seat        *models.Seat
}

// SeatChoice is a seat offered in the ChooseSeat step.
type SeatChoice struct {
	Room *models.Room
	Seat *models.Seat
}

// Assign walks ChooseFloor, ChooseSeat and Confirm to place an employee on a
// seat. Assignment replaces the seat's employee set.
type Assign struct {
	gw     Gateway
	st     *store.Store
	logger *zap.Logger

	mu    sync.Mutex
	step  Step
	draft AssignmentDraft
}

func NewAssign(gw Gateway, st *store.Store, logger *zap.Logger, employee models.EmployeeRef) *Assign {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assign{gw: gw, st: st, logger: logger, step: ChooseFloor, draft: AssignmentDraft{Employee: employee}}
}

func (a *Assign) Step() Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.step
}

func (a *Assign) Draft() AssignmentDraft {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft
}

// ChooseFloor loads the floor into the store and moves to ChooseSeat.
func (a *Assign) ChooseFloor(ctx context.Context, floorNumber int) error {
	a.mu.Lock()
	step := a.step
	a.mu.Unlock()
	if step != ChooseFloor {
		return stepError("choose floor", step)
	}

	if err := a.st.LoadFloor(ctx, floorNumber); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft.FloorNumber = floorNumber
	a.draft.Room, a.draft.Seat = nil, nil
	a.step = ChooseSeat
	return nil
}

// Seats lists the seats of the chosen floor in room order, free ones only
// when freeOnly is set.
func (a *Assign) Seats(freeOnly bool) []SeatChoice {
	floor := a.st.SelectedFloor()
	if floor == nil {
		return nil
	}
	var out []SeatChoice
	for _, room := range floor.Rooms {
		for _, seat := range room.Seats {
			if freeOnly && seat.Occupied {
				continue
			}
			out = append(out, SeatChoice{Room: room, Seat: seat})
		}
	}
	return out
}

// ChooseSeat picks a seat on the chosen floor and moves to Confirm.
func (a *Assign) ChooseSeat(seatID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.step != ChooseSeat {
		return stepError("choose seat", a.step)
	}
	room, seat, ok := a.st.Seat(seatID)
	if !ok {
		return fmt.Errorf("seat %d: %w", seatID, ErrSeatNotFound)
	}
	if seat.HasEmployee(a.draft.Employee.ID) {
		return fmt.Errorf("seat %s: %w", seat.SeatNumber, ErrAlreadySeated)
	}
	a.draft.Room, a.draft.Seat = room, seat
	a.step = Confirm
	return nil
}

// Back returns to the previous step.
func (a *Assign) Back() {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.step {
	case Confirm:
		a.draft.Room, a.draft.Seat = nil, nil
		a.step = ChooseSeat
	case ChooseSeat:
		a.step = ChooseFloor
	}
}

func (a *Assign) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.step != Done {
		a.step = Cancelled
	}
}

// Confirm sends the assignment and, once the API accepts it, replaces the
// seat's employees in the store. A failed call leaves the flow at Confirm.
func (a *Assign) Confirm(ctx context.Context) (*models.Seat, error) {
	a.mu.Lock()
	step, draft := a.step, a.draft
	a.mu.Unlock()
	if step != Confirm {
		return nil, stepError("confirm", step)
	}

	if err := a.gw.AssignSeat(ctx, draft.Employee.ID, draft.Seat.ID); err != nil {
		a.logger.Error("failed to assign seat",
			zap.Int64("employee_id", draft.Employee.ID),
			zap.Int64("seat_id", draft.Seat.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to assign seat %s: %w", draft.Seat.SeatNumber, err)
	}

	updated, ok := a.st.UpdateSeat(draft.Seat.ID, models.AssignPatch(draft.Employee))
	if !ok {
		updated = models.AssignPatch(draft.Employee).Apply(draft.Seat)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft.Seat = updated
	a.step = Done
	a.logger.Info("seat assigned",
		zap.Int64("employee_id", draft.Employee.ID),
		zap.String("seat_number", updated.SeatNumber),
		zap.Int("floor_number", draft.FloorNumber),
	)
	return updated, nil
}

// Unassign removes one employee from a seat after confirmation.
type Unassign struct {
	gw         Gateway
	st         *store.Store
	logger     *zap.Logger
	employeeID int64
	seatID     int64

	mu   sync.Mutex
	step Step
}

func NewUnassign(gw Gateway, st *store.Store, logger *zap.Logger, employeeID, seatID int64) *Unassign {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Unassign{gw: gw, st: st, logger: logger, employeeID: employeeID, seatID: seatID, step: Confirm}
}

func (u *Unassign) Step() Step {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.step
}

func (u *Unassign) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.step == Confirm {
		u.step = Cancelled
	}
}

// Confirm sends the unassignment. When the seat is on the selected floor the
// store drops the employee from it; a seat left empty becomes unoccupied.
func (u *Unassign) Confirm(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.step != Confirm {
		return stepError("confirm", u.step)
	}

	if _, seat, ok := u.st.Seat(u.seatID); ok && !seat.HasEmployee(u.employeeID) {
		return fmt.Errorf("seat %s: %w", seat.SeatNumber, ErrNotSeated)
	}
	if err := u.gw.UnassignSeat(ctx, u.employeeID, u.seatID); err != nil {
		u.logger.Error("failed to unassign seat",
			zap.Int64("employee_id", u.employeeID),
			zap.Int64("seat_id", u.seatID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to unassign seat %d: %w", u.seatID, err)
	}

	if _, seat, ok := u.st.Seat(u.seatID); ok {
		remaining := make([]models.EmployeeRef, 0, len(seat.Employees))
		for _, e := range seat.Employees {
			if e.ID != u.employeeID {
				remaining = append(remaining, e)
			}
		}
		patch := models.UnassignPatch()
		if len(remaining) > 0 {
			patch = models.SeatPatch{Employees: &remaining}
		}
		u.st.UpdateSeat(u.seatID, patch)
	}
	u.step = Done
	u.logger.Info("seat unassigned", zap.Int64("employee_id", u.employeeID), zap.Int64("seat_id", u.seatID))
	return nil
}
