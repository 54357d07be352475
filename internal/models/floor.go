package models

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Floor is one storey of the office with its rooms.
type Floor struct {
	ID          int64      `json:"id"`
	FloorNumber int        `json:"floorNumber"`
	Name        string     `json:"name"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	Rooms       []*Room    `json:"rooms"`
}

// FloorRef is the shallow floor embedded in a room back-reference.
type FloorRef struct {
	ID          int64      `json:"id"`
	FloorNumber int        `json:"floorNumber"`
	Name        string     `json:"name"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
}

// Room is an office on a floor.
type Room struct {
	ID         int64      `json:"id"`
	RoomNumber string     `json:"roomNumber"`
	Name       string     `json:"name"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
	Floor      *FloorRef  `json:"floor,omitempty"`
	Seats      []*Seat    `json:"seats"`
}

// RoomRef is the shallow room embedded in a seat back-reference.
type RoomRef struct {
	ID         int64      `json:"id"`
	RoomNumber string     `json:"roomNumber"`
	Name       string     `json:"name"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
	Floor      *FloorRef  `json:"floor,omitempty"`
}

// SortRooms orders rooms by the leading integer of their room number, so
// "12A" sorts as 12. Rooms with no leading integer sort after the numeric
// ones; ties keep their original order.
func SortRooms(rooms []*Room) []*Room {
	sorted := make([]*Room, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aOK := leadingInt(sorted[i].RoomNumber)
		b, bOK := leadingInt(sorted[j].RoomNumber)
		switch {
		case !aOK:
			return false
		case !bOK:
			return true
		}
		return a < b
	})
	return sorted
}

// leadingInt parses the optionally signed run of digits at the start of s,
// ignoring leading whitespace.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SeatCount returns the number of seats on the floor.
func (f *Floor) SeatCount() int {
	n := 0
	for _, r := range f.Rooms {
		n += len(r.Seats)
	}
	return n
}

// OccupiedCount returns the number of occupied seats on the floor.
func (f *Floor) OccupiedCount() int {
	n := 0
	for _, r := range f.Rooms {
		for _, s := range r.Seats {
			if s.Occupied {
				n++
			}
		}
	}
	return n
}

// Ref returns the shallow reference of the floor.
func (f *Floor) Ref() *FloorRef {
	return &FloorRef{ID: f.ID, FloorNumber: f.FloorNumber, Name: f.Name, CreatedAt: f.CreatedAt}
}
