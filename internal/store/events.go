package store

import (
	"github.com/beesaferoot/seatctl/internal/models"
)

type EventType int

const (
	FloorsChanged EventType = iota + 1
	SelectedFloorChanged
	SeatUpdated
	LoadFailed
)

func (t EventType) String() string {
	switch t {
	case FloorsChanged:
		return "floors_changed"
	case SelectedFloorChanged:
		return "selected_floor_changed"
	case SeatUpdated:
		return "seat_updated"
	case LoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// SeatUpdate carries the seat that replaced the one with SeatID.
type SeatUpdate struct {
	SeatID int64
	Seat   *models.Seat
}

// Event is delivered to subscribers after every state change.
// Only the fields relevant to Type are set.
type Event struct {
	Type        EventType
	Floors      []*models.Floor
	Floor       *models.Floor
	FloorNumber int
	SeatUpdate  *SeatUpdate
	Err         error
}

// Handler receives store events. Handlers run on the goroutine that made
// the change, after the store lock has been released.
type Handler func(Event)
