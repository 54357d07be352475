package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/store"
)

type fakeGateway struct {
	assigned   [][2]int64
	unassigned [][2]int64
	assignErr  error
	seats      map[int64]*models.Seat
	byEmployee map[int64][]*models.Seat
}

func (g *fakeGateway) AssignSeat(ctx context.Context, employeeID, seatID int64) error {
	if g.assignErr != nil {
		return g.assignErr
	}
	g.assigned = append(g.assigned, [2]int64{employeeID, seatID})
	return nil
}

func (g *fakeGateway) UnassignSeat(ctx context.Context, employeeID, seatID int64) error {
	g.unassigned = append(g.unassigned, [2]int64{employeeID, seatID})
	return nil
}

func (g *fakeGateway) GetSeat(ctx context.Context, id int64) (*models.Seat, error) {
	if s, ok := g.seats[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func (g *fakeGateway) EmployeeSeats(ctx context.Context, id int64) ([]*models.Seat, error) {
	return g.byEmployee[id], nil
}

type floorSource struct{ floor *models.Floor }

func (f floorSource) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	return []*models.Floor{f.floor}, nil
}

func (f floorSource) GetFloor(ctx context.Context, n int) (*models.Floor, error) {
	if n != f.floor.FloorNumber {
		return nil, errors.New("not found")
	}
	return f.floor, nil
}

var (
	emma = models.EmployeeRef{ID: 5, FullName: "Emma Anderson", Occupation: "Engineer"}
	liam = models.EmployeeRef{ID: 6, FullName: "Liam Brown", Occupation: "Designer"}
)

func testStore() *store.Store {
	floor := &models.Floor{ID: 2, FloorNumber: 2, Rooms: []*models.Room{
		{ID: 20, RoomNumber: "201", Seats: []*models.Seat{
			{ID: 200, SeatNumber: "201-1"},
			{ID: 201, SeatNumber: "201-2", Occupied: true, Employees: []models.EmployeeRef{liam}},
		}},
		{ID: 21, RoomNumber: "202", Seats: []*models.Seat{
			{ID: 210, SeatNumber: "202-1", Occupied: true, Employees: []models.EmployeeRef{emma, liam}},
		}},
	}}
	return store.New(floorSource{floor: floor}, nil)
}

func TestAssign_FullFlow(t *testing.T) {
	gw := &fakeGateway{}
	st := testStore()
	ctx := context.Background()

	flow := NewAssign(gw, st, nil, emma)
	assert.Equal(t, ChooseFloor, flow.Step())

	require.NoError(t, flow.ChooseFloor(ctx, 2))
	assert.Equal(t, ChooseSeat, flow.Step())
	assert.Len(t, flow.Seats(false), 3)
	free := flow.Seats(true)
	require.Len(t, free, 1)
	assert.Equal(t, int64(200), free[0].Seat.ID)

	require.NoError(t, flow.ChooseSeat(201))
	assert.Equal(t, Confirm, flow.Step())
	assert.Equal(t, "201", flow.Draft().Room.RoomNumber)

	seat, err := flow.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, Done, flow.Step())
	assert.Equal(t, [][2]int64{{5, 201}}, gw.assigned)

	// replace-on-assign: liam is no longer on the seat
	assert.Equal(t, []models.EmployeeRef{emma}, seat.Employees)
	assert.True(t, seat.Occupied)
	_, stored, ok := st.Seat(201)
	require.True(t, ok)
	assert.Same(t, seat, stored)
	assert.Equal(t, int64(201), st.LastSeatUpdate().SeatID)
}

func TestAssign_StepGuards(t *testing.T) {
	flow := NewAssign(&fakeGateway{}, testStore(), nil, emma)

	assert.ErrorIs(t, flow.ChooseSeat(200), ErrWrongStep)
	_, err := flow.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)

	require.NoError(t, flow.ChooseFloor(context.Background(), 2))
	assert.ErrorIs(t, flow.ChooseFloor(context.Background(), 2), ErrWrongStep)
	assert.ErrorIs(t, flow.ChooseSeat(999), ErrSeatNotFound)
	assert.ErrorIs(t, flow.ChooseSeat(210), ErrAlreadySeated)

	require.NoError(t, flow.ChooseSeat(200))
	flow.Back()
	assert.Equal(t, ChooseSeat, flow.Step())
	assert.Nil(t, flow.Draft().Seat)
	flow.Back()
	assert.Equal(t, ChooseFloor, flow.Step())

	flow.Cancel()
	assert.Equal(t, Cancelled, flow.Step())
}

func TestAssign_FailureStaysAtConfirm(t *testing.T) {
	gw := &fakeGateway{assignErr: errors.New("500 internal error")}
	st := testStore()
	flow := NewAssign(gw, st, nil, emma)
	ctx := context.Background()

	require.NoError(t, flow.ChooseFloor(ctx, 2))
	require.NoError(t, flow.ChooseSeat(200))
	before := st.SelectedFloor()

	_, err := flow.Confirm(ctx)
	require.Error(t, err)
	assert.Equal(t, Confirm, flow.Step())
	assert.Same(t, before, st.SelectedFloor())
}

func TestAssign_UnknownFloor(t *testing.T) {
	flow := NewAssign(&fakeGateway{}, testStore(), nil, emma)
	require.Error(t, flow.ChooseFloor(context.Background(), 9))
	assert.Equal(t, ChooseFloor, flow.Step())
}

func TestUnassign_RemovesOneEmployee(t *testing.T) {
	gw := &fakeGateway{}
	st := testStore()
	require.NoError(t, st.LoadFloor(context.Background(), 2))

	flow := NewUnassign(gw, st, nil, emma.ID, 210)
	assert.Equal(t, Confirm, flow.Step())
	require.NoError(t, flow.Confirm(context.Background()))
	assert.Equal(t, Done, flow.Step())

	_, seat, _ := st.Seat(210)
	assert.Equal(t, []models.EmployeeRef{liam}, seat.Employees)
	assert.True(t, seat.Occupied)

	require.NoError(t, NewUnassign(gw, st, nil, liam.ID, 210).Confirm(context.Background()))
	_, seat, _ = st.Seat(210)
	assert.Empty(t, seat.Employees)
	assert.False(t, seat.Occupied)
	assert.Len(t, gw.unassigned, 2)
}

func TestUnassign_NotSeated(t *testing.T) {
	gw := &fakeGateway{}
	st := testStore()
	require.NoError(t, st.LoadFloor(context.Background(), 2))

	err := NewUnassign(gw, st, nil, emma.ID, 200).Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNotSeated)
	assert.Empty(t, gw.unassigned)

	flow := NewUnassign(gw, st, nil, emma.ID, 210)
	flow.Cancel()
	assert.ErrorIs(t, flow.Confirm(context.Background()), ErrWrongStep)
}

func TestUnassign_SeatOffFloor(t *testing.T) {
	gw := &fakeGateway{}
	require.NoError(t, NewUnassign(gw, testStore(), nil, emma.ID, 999).Confirm(context.Background()))
	assert.Equal(t, [][2]int64{{5, 999}}, gw.unassigned)
}

func TestSeatInfoAndEmployeeSeats(t *testing.T) {
	gw := &fakeGateway{seats: map[int64]*models.Seat{7: {ID: 7, SeatNumber: "301-1"}}}

	seat, err := SeatInfo(context.Background(), gw, 7)
	require.NoError(t, err)
	assert.Equal(t, "301-1", seat.SeatNumber)

	_, err = SeatInfo(context.Background(), gw, 8)
	assert.Error(t, err)

	seats, err := EmployeeSeats(context.Background(), gw, 5)
	require.NoError(t, err)
	assert.NotNil(t, seats)
	assert.Empty(t, seats)
}
