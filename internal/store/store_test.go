package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/seatctl/internal/models"
)

type fakeSource struct {
	mu       sync.Mutex
	floors   []*models.Floor
	floorErr error
	listErr  error
	detail   map[int]*models.Floor
	gates    map[int]chan struct{}
	started  chan int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		detail:  make(map[int]*models.Floor),
		gates:   make(map[int]chan struct{}),
		started: make(chan int, 8),
	}
}

func (f *fakeSource) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.floors, nil
}

func (f *fakeSource) GetFloor(ctx context.Context, n int) (*models.Floor, error) {
	f.mu.Lock()
	gate := f.gates[n]
	floor := f.detail[n]
	err := f.floorErr
	f.mu.Unlock()

	f.started <- n
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if floor == nil {
		return nil, errors.New("not found")
	}
	return floor, nil
}

func sampleFloor(number int) *models.Floor {
	return &models.Floor{
		ID:          int64(number),
		FloorNumber: number,
		Name:        "Floor",
		Rooms: []*models.Room{
			{ID: 3, RoomNumber: "110", Name: "Room 110", Seats: []*models.Seat{
				{ID: 31, SeatNumber: "110-1"},
			}},
			{ID: 1, RoomNumber: "101", Name: "Room 101", Seats: []*models.Seat{
				{ID: 11, SeatNumber: "101-1"},
				{ID: 12, SeatNumber: "101-2"},
			}},
			{ID: 2, RoomNumber: "102", Name: "Room 102", Seats: []*models.Seat{
				{ID: 21, SeatNumber: "102-1", Occupied: true, Employees: []models.EmployeeRef{{ID: 5, FullName: "Emma Anderson"}}},
			}},
		},
	}
}

func loadedStore(t *testing.T) (*Store, *fakeSource) {
	src := newFakeSource()
	src.detail[1] = sampleFloor(1)
	s := New(src, nil)
	require.NoError(t, s.LoadFloor(context.Background(), 1))
	return s, src
}

func TestLoadFloors(t *testing.T) {
	src := newFakeSource()
	src.floors = []*models.Floor{{ID: 1, FloorNumber: 1, Name: "First Floor"}}
	s := New(src, nil)

	var events []EventType
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev.Type) })
	defer unsubscribe()

	require.NoError(t, s.LoadFloors(context.Background()))
	assert.Equal(t, src.floors, s.Floors())
	assert.Equal(t, []EventType{FloorsChanged}, events)
}

func TestLoadFloors_FailureYieldsEmptyList(t *testing.T) {
	src := newFakeSource()
	src.listErr = errors.New("network error")
	s := New(src, nil)

	var failure error
	s.Subscribe(func(ev Event) {
		if ev.Type == LoadFailed {
			failure = ev.Err
		}
	})

	err := s.LoadFloors(context.Background())
	require.Error(t, err)
	assert.NotNil(t, s.Floors())
	assert.Empty(t, s.Floors())
	assert.EqualError(t, failure, "network error")
}

func TestLoadFloor_SortsRoomsNumerically(t *testing.T) {
	s, src := loadedStore(t)

	var numbers []string
	for _, r := range s.SelectedFloor().Rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	assert.Equal(t, []string{"101", "102", "110"}, numbers)
	assert.Equal(t, "110", src.detail[1].Rooms[0].RoomNumber, "fetched floor is not mutated")
}

func TestLoadFloor_FailureClearsSelection(t *testing.T) {
	s, src := loadedStore(t)
	src.floorErr = errors.New("network error")

	err := s.LoadFloor(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, s.SelectedFloor())
}

func TestLoadFloor_StaleResponseIsDiscarded(t *testing.T) {
	src := newFakeSource()
	src.detail[2] = sampleFloor(2)
	src.detail[3] = sampleFloor(3)
	gate := make(chan struct{})
	src.gates[2] = gate
	s := New(src, nil)

	done := make(chan error, 1)
	go func() { done <- s.LoadFloor(context.Background(), 2) }()
	require.Equal(t, 2, <-src.started)

	require.NoError(t, s.LoadFloor(context.Background(), 3))
	<-src.started
	assert.Equal(t, 3, s.SelectedFloor().FloorNumber)

	close(gate)
	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, 3, s.SelectedFloor().FloorNumber)
}

func TestToggleSeatOccupancy_TwiceRestores(t *testing.T) {
	s, _ := loadedStore(t)

	require.True(t, s.ToggleSeatOccupancy(1, 11))
	_, seat, ok := s.Seat(11)
	require.True(t, ok)
	assert.True(t, seat.Occupied)

	require.True(t, s.ToggleSeatOccupancy(1, 11))
	_, seat, _ = s.Seat(11)
	assert.False(t, seat.Occupied)
}

func TestToggleSeatOccupancy_WrongRoom(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.SelectedFloor()

	assert.False(t, s.ToggleSeatOccupancy(2, 11))
	assert.Same(t, before, s.SelectedFloor())
}

func TestUpdateSeat_ReplacesOnlyTargetSeat(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.SelectedFloor()

	var update *SeatUpdate
	s.Subscribe(func(ev Event) {
		if ev.Type == SeatUpdated {
			update = ev.SeatUpdate
		}
	})

	seat, ok := s.UpdateSeat(12, models.AssignPatch(models.EmployeeRef{ID: 2, FullName: "Jane Smith"}))
	require.True(t, ok)
	after := s.SelectedFloor()

	require.NotNil(t, update)
	assert.Equal(t, int64(12), update.SeatID)
	assert.Same(t, seat, update.Seat)
	assert.Same(t, update, s.LastSeatUpdate())

	// Room order after sorting: 101, 102, 110.
	assert.NotSame(t, before.Rooms[0], after.Rooms[0])
	assert.Same(t, before.Rooms[1], after.Rooms[1])
	assert.Same(t, before.Rooms[2], after.Rooms[2])
	assert.Same(t, before.Rooms[0].Seats[0], after.Rooms[0].Seats[0])
	assert.NotSame(t, before.Rooms[0].Seats[1], after.Rooms[0].Seats[1])

	assert.False(t, before.Rooms[0].Seats[1].Occupied, "old snapshot untouched")
	assert.True(t, after.Rooms[0].Seats[1].Occupied)
	assert.Equal(t, "Jane Smith", after.Rooms[0].Seats[1].Employees[0].FullName)
}

func TestUpdateSeat_UnknownSeat(t *testing.T) {
	s, _ := loadedStore(t)
	_, ok := s.UpdateSeat(999, models.UnassignPatch())
	assert.False(t, ok)

	empty := New(newFakeSource(), nil)
	_, ok = empty.UpdateSeat(11, models.UnassignPatch())
	assert.False(t, ok)
}

func TestUpdateSeat_ConflictingPatchesKeepOccupancyConsistent(t *testing.T) {
	s, _ := loadedStore(t)
	occupied := true
	none := []models.EmployeeRef{}

	seat, ok := s.UpdateSeat(12, models.SeatPatch{Occupied: &occupied})
	require.True(t, ok)
	assert.False(t, seat.Occupied)
	assert.Empty(t, seat.Employees)

	seat, ok = s.UpdateSeat(21, models.SeatPatch{Occupied: &occupied, Employees: &none})
	require.True(t, ok)
	assert.False(t, seat.Occupied)
	assert.Empty(t, seat.Employees)

	_, stored, _ := s.Seat(21)
	assert.Same(t, seat, stored)
}

func TestUpdateSeat_ConcurrentWritersDeliverInOrder(t *testing.T) {
	const seats = 40
	floor := &models.Floor{ID: 1, FloorNumber: 1, Rooms: []*models.Room{{ID: 1, RoomNumber: "1"}}}
	for i := 1; i <= seats; i++ {
		floor.Rooms[0].Seats = append(floor.Rooms[0].Seats, &models.Seat{ID: int64(i)})
	}
	src := newFakeSource()
	src.detail[1] = floor
	s := New(src, nil)
	require.NoError(t, s.LoadFloor(context.Background(), 1))

	var (
		mu       sync.Mutex
		occupied []int
	)
	s.Subscribe(func(ev Event) {
		if ev.Type != SeatUpdated {
			return
		}
		n := 0
		for _, st := range ev.Floor.Rooms[0].Seats {
			if st.Occupied {
				n++
			}
		}
		mu.Lock()
		occupied = append(occupied, n)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= seats; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.UpdateSeat(id, models.AssignPatch(models.EmployeeRef{ID: id}))
		}(int64(i))
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, occupied, seats)
	for i, n := range occupied {
		assert.Equal(t, i+1, n, "event %d carries an older floor", i)
	}
}

func TestSelectFloor_KeepsPriorWhenMissing(t *testing.T) {
	src := newFakeSource()
	src.floors = []*models.Floor{sampleFloor(1), sampleFloor(2)}
	s := New(src, nil)
	require.NoError(t, s.LoadFloors(context.Background()))

	require.True(t, s.SelectFloor(2))
	assert.False(t, s.SelectFloor(9))
	assert.Equal(t, 2, s.SelectedFloor().FloorNumber)

	s.ClearSelection()
	assert.Nil(t, s.SelectedFloor())
}

func TestUnsubscribe(t *testing.T) {
	s, _ := loadedStore(t)
	calls := 0
	unsubscribe := s.Subscribe(func(Event) { calls++ })
	assert.Equal(t, 1, s.SubscriberCount())

	s.ToggleSeatOccupancy(1, 11)
	unsubscribe()
	unsubscribe()
	s.ToggleSeatOccupancy(1, 11)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.SubscriberCount())
}

func TestPanickingSubscriberDoesNotBreakOthers(t *testing.T) {
	s, _ := loadedStore(t)
	s.Subscribe(func(Event) { panic("boom") })
	got := false
	s.Subscribe(func(Event) { got = true })

	assert.NotPanics(t, func() { s.ToggleSeatOccupancy(1, 11) })
	assert.True(t, got)
}

func TestRestore(t *testing.T) {
	s := New(newFakeSource(), nil)
	s.Restore(nil)
	assert.NotNil(t, s.Floors())

	s.Restore([]*models.Floor{sampleFloor(4)})
	assert.True(t, s.SelectFloor(4))
}

func TestFindSeats(t *testing.T) {
	s, _ := loadedStore(t)

	matches := s.FindSeats("emma")
	require.NotEmpty(t, matches)
	assert.Equal(t, int64(21), matches[0].Seat.ID)
	assert.Equal(t, "Emma Anderson", matches[0].Matched)

	matches = s.FindSeats("101-2")
	require.NotEmpty(t, matches)
	assert.Equal(t, int64(12), matches[0].Seat.ID)

	assert.Empty(t, s.FindSeats("zzz"))
	assert.Nil(t, s.FindSeats(""))
}
