package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/models"
)

// ErrStale is returned by LoadFloor when a newer selection superseded the call.
var ErrStale = errors.New("floor response superseded by a newer selection")

// FloorSource fetches floors from the API.
type FloorSource interface {
	ListFloors(ctx context.Context) ([]*models.Floor, error)
	GetFloor(ctx context.Context, floorNumber int) (*models.Floor, error)
}

// Store holds the floor list and the selected floor as observable state.
// Views read snapshots and mutate only through Store methods. Every mutation
// is copy-on-write: untouched rooms and seats keep their pointers, so a
// subscriber can compare by identity to skip unchanged rows. Events reach
// subscribers in mutation order even with concurrent writers.
type Store struct {
	source FloorSource
	logger *zap.Logger

	mu             sync.RWMutex
	floors         []*models.Floor
	selected       *models.Floor
	lastSeatUpdate *SeatUpdate
	pending        loadTag
	outbox         []Event
	delivering     bool

	subMu   sync.Mutex
	subs    map[uint64]Handler
	nextSub uint64
}

// loadTag identifies the most recent LoadFloor call.
type loadTag struct {
	floorNumber int
	generation  uint64
}

// New creates a store. The floor list starts empty; call LoadFloors to fill it.
func New(source FloorSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		source: source,
		logger: logger,
		floors: []*models.Floor{},
		subs:   make(map[uint64]Handler),
	}
}

// Subscribe registers h for store events and returns the function that
// removes it. The returned function is safe to call more than once.
func (s *Store) Subscribe(h Handler) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = h
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// SubscriberCount returns the number of live subscriptions.
func (s *Store) SubscriberCount() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// publishLocked queues events while s.mu is held and releases it. Queued
// events are delivered in the order their mutations were applied, by one
// goroutine at a time: a concurrent or re-entrant caller hands its events
// to the goroutine already delivering and returns.
func (s *Store) publishLocked(events ...Event) {
	s.outbox = append(s.outbox, events...)
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.outbox) > 0 {
		batch := s.outbox
		s.outbox = nil
		s.mu.Unlock()
		s.deliver(batch)
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func (s *Store) deliver(events []Event) {
	s.subMu.Lock()
	handlers := make([]Handler, 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, h := range handlers {
			s.dispatch(h, ev)
		}
	}
}

func (s *Store) dispatch(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store subscriber panicked",
				zap.String("event", ev.Type.String()),
				zap.Any("panic", r),
			)
		}
	}()
	h(ev)
}

// Floors returns the current floor list. It is never nil.
func (s *Store) Floors() []*models.Floor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.floors
}

// SelectedFloor returns the selected floor or nil.
func (s *Store) SelectedFloor() *models.Floor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// LastSeatUpdate returns the most recent UpdateSeat result or nil.
func (s *Store) LastSeatUpdate() *SeatUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeatUpdate
}

// LoadFloors fetches all floors and replaces the list. On failure the list
// becomes empty and subscribers receive LoadFailed.
func (s *Store) LoadFloors(ctx context.Context) error {
	floors, err := s.source.ListFloors(ctx)
	if err != nil {
		s.logger.Error("failed to load floors", zap.Error(err))
		s.mu.Lock()
		s.floors = []*models.Floor{}
		s.publishLocked(
			Event{Type: FloorsChanged, Floors: []*models.Floor{}},
			Event{Type: LoadFailed, Err: err},
		)
		return fmt.Errorf("failed to load floors: %w", err)
	}
	if floors == nil {
		floors = []*models.Floor{}
	}

	s.logger.Debug("floors loaded", zap.Int("count", len(floors)))
	s.mu.Lock()
	s.floors = floors
	s.publishLocked(Event{Type: FloorsChanged, Floors: floors})
	return nil
}

// LoadFloor fetches one floor, sorts its rooms by numeric room number and
// makes it the selection. A response that arrives after a newer LoadFloor
// call has been issued is dropped. On failure the selection becomes nil.
func (s *Store) LoadFloor(ctx context.Context, floorNumber int) error {
	s.mu.Lock()
	tag := loadTag{floorNumber: floorNumber, generation: s.pending.generation + 1}
	s.pending = tag
	s.mu.Unlock()

	floor, err := s.source.GetFloor(ctx, floorNumber)

	s.mu.Lock()
	if current := s.pending; current != tag {
		s.mu.Unlock()
		s.logger.Debug("discarding stale floor response",
			zap.Int("floor_number", floorNumber),
			zap.Int("current_floor_number", current.floorNumber),
		)
		return ErrStale
	}
	if err != nil {
		s.selected = nil
		s.logger.Error("failed to load floor", zap.Int("floor_number", floorNumber), zap.Error(err))
		s.publishLocked(
			Event{Type: SelectedFloorChanged, FloorNumber: floorNumber},
			Event{Type: LoadFailed, FloorNumber: floorNumber, Err: err},
		)
		return fmt.Errorf("failed to load floor %d: %w", floorNumber, err)
	}

	sorted := *floor
	sorted.Rooms = models.SortRooms(floor.Rooms)
	s.selected = &sorted
	s.publishLocked(Event{Type: SelectedFloorChanged, Floor: &sorted, FloorNumber: floorNumber})
	return nil
}

// SelectFloor selects a floor from the loaded list without fetching.
// When no floor has that number the prior selection is kept and false is returned.
func (s *Store) SelectFloor(floorNumber int) bool {
	s.mu.Lock()
	var found *models.Floor
	for _, f := range s.floors {
		if f.FloorNumber == floorNumber {
			found = f
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return false
	}
	sorted := *found
	sorted.Rooms = models.SortRooms(found.Rooms)
	s.selected = &sorted
	s.pending = loadTag{floorNumber: floorNumber, generation: s.pending.generation + 1}
	s.publishLocked(Event{Type: SelectedFloorChanged, Floor: &sorted, FloorNumber: floorNumber})
	return true
}

// ClearSelection drops the selected floor.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.pending = loadTag{generation: s.pending.generation + 1}
	s.publishLocked(Event{Type: SelectedFloorChanged})
}

// Restore seeds the floor list from a snapshot, e.g. the offline cache.
func (s *Store) Restore(floors []*models.Floor) {
	if floors == nil {
		floors = []*models.Floor{}
	}
	s.mu.Lock()
	s.floors = floors
	s.publishLocked(Event{Type: FloorsChanged, Floors: floors})
}

// ToggleSeatOccupancy flips the occupied flag of a seat on the selected
// floor. It is local only and never reaches the API.
func (s *Store) ToggleSeatOccupancy(roomID, seatID int64) bool {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return false
	}
	next, seat, ok := replaceSeat(s.selected, func(r *models.Room, st *models.Seat) bool {
		return r.ID == roomID && st.ID == seatID
	}, func(st *models.Seat) *models.Seat {
		c := st.Clone()
		c.Occupied = !c.Occupied
		return c
	})
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.selected = next
	s.publishLocked(Event{
		Type:        SelectedFloorChanged,
		Floor:       next,
		FloorNumber: next.FloorNumber,
		SeatUpdate:  &SeatUpdate{SeatID: seatID, Seat: seat},
	})
	return true
}

// UpdateSeat merges patch into the seat with seatID wherever it sits on the
// selected floor, and publishes SeatUpdated. Only the seat, its room and the
// floor value are replaced.
func (s *Store) UpdateSeat(seatID int64, patch models.SeatPatch) (*models.Seat, bool) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, false
	}
	next, seat, ok := replaceSeat(s.selected, func(_ *models.Room, st *models.Seat) bool {
		return st.ID == seatID
	}, patch.Apply)
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	update := &SeatUpdate{SeatID: seatID, Seat: seat}
	s.selected = next
	s.lastSeatUpdate = update
	s.publishLocked(Event{Type: SeatUpdated, Floor: next, FloorNumber: next.FloorNumber, SeatUpdate: update})
	return seat, true
}

// Seat finds a seat and its room on the selected floor.
func (s *Store) Seat(seatID int64) (*models.Room, *models.Seat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil, nil, false
	}
	for _, r := range s.selected.Rooms {
		for _, st := range r.Seats {
			if st.ID == seatID {
				return r, st, true
			}
		}
	}
	return nil, nil, false
}

// replaceSeat returns a copy of floor in which the first seat matching
// match is replaced by fn(seat). Sibling rooms and seats are shared.
func replaceSeat(
	floor *models.Floor,
	match func(*models.Room, *models.Seat) bool,
	fn func(*models.Seat) *models.Seat,
) (*models.Floor, *models.Seat, bool) {
	for ri, room := range floor.Rooms {
		for si, seat := range room.Seats {
			if !match(room, seat) {
				continue
			}
			replaced := fn(seat)

			seats := make([]*models.Seat, len(room.Seats))
			copy(seats, room.Seats)
			seats[si] = replaced

			nextRoom := *room
			nextRoom.Seats = seats

			rooms := make([]*models.Room, len(floor.Rooms))
			copy(rooms, floor.Rooms)
			rooms[ri] = &nextRoom

			nextFloor := *floor
			nextFloor.Rooms = rooms
			return &nextFloor, replaced, true
		}
	}
	return nil, nil, false
}
