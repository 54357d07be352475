package models

import (
	"encoding/json"
	"fmt"
)

// EmployeeRef is the shallow employee attached to a seat.
type EmployeeRef struct {
	ID         int64      `json:"id"`
	FullName   string     `json:"fullName"`
	Occupation string     `json:"occupation"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
}

// Seat is a desk in a room. A seat holds a set of employees keyed by id;
// Occupied mirrors whether that set is non-empty.
type Seat struct {
	ID         int64         `json:"id"`
	SeatNumber string        `json:"seatNumber"`
	Occupied   bool          `json:"occupied"`
	Employees  []EmployeeRef `json:"employees"`
	Room       *RoomRef      `json:"room,omitempty"`
	CreatedAt  *Timestamp    `json:"createdAt,omitempty"`
}

type seatJSON struct {
	ID         int64         `json:"id"`
	SeatNumber string        `json:"seatNumber"`
	Occupied   *bool         `json:"occupied"`
	Employee   *EmployeeRef  `json:"employee"`
	Employees  []EmployeeRef `json:"employees"`
	Room       *RoomRef      `json:"room"`
	CreatedAt  *Timestamp    `json:"createdAt"`
}

// UnmarshalJSON accepts both the single "employee" field and the
// "employees" list and folds them into Employees.
func (s *Seat) UnmarshalJSON(data []byte) error {
	var raw seatJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	employees := raw.Employees
	if raw.Employee != nil {
		employees = append([]EmployeeRef{*raw.Employee}, employees...)
	}

	*s = Seat{
		ID:         raw.ID,
		SeatNumber: raw.SeatNumber,
		Employees:  DedupeEmployees(employees),
		Room:       raw.Room,
		CreatedAt:  raw.CreatedAt,
	}
	if raw.Occupied != nil {
		s.Occupied = *raw.Occupied
	} else {
		s.Occupied = len(s.Employees) > 0
	}
	return nil
}

// Clone returns a shallow copy of the seat with its own employee slice.
func (s *Seat) Clone() *Seat {
	c := *s
	if s.Employees != nil {
		c.Employees = make([]EmployeeRef, len(s.Employees))
		copy(c.Employees, s.Employees)
	}
	return &c
}

// Reconcile aligns Occupied with the employee set.
func (s *Seat) Reconcile() {
	s.Occupied = len(s.Employees) > 0
}

// HasEmployee reports whether the employee is assigned to the seat.
func (s *Seat) HasEmployee(id int64) bool {
	for _, e := range s.Employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

// DedupeEmployees drops repeated employee ids, keeping the first occurrence.
func DedupeEmployees(in []EmployeeRef) []EmployeeRef {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(in))
	out := make([]EmployeeRef, 0, len(in))
	for _, e := range in {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// ValidateEmployeeSet rejects employee sets with duplicate ids.
func ValidateEmployeeSet(in []EmployeeRef) error {
	seen := make(map[int64]bool, len(in))
	for _, e := range in {
		if seen[e.ID] {
			return fmt.Errorf("employee %d listed more than once", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// SeatPatch is a partial seat update. Nil fields are left untouched.
type SeatPatch struct {
	SeatNumber *string
	Occupied   *bool
	Employees  *[]EmployeeRef
}

// Apply merges the patch into a copy of the seat. Occupied always follows
// the resulting employee set: a given employee set wins over a conflicting
// Occupied, Occupied false alone frees the seat, and Occupied true alone
// cannot mark a seat without employees as taken.
func (p SeatPatch) Apply(s *Seat) *Seat {
	c := s.Clone()
	if p.SeatNumber != nil {
		c.SeatNumber = *p.SeatNumber
	}
	switch {
	case p.Employees != nil:
		c.Employees = DedupeEmployees(*p.Employees)
		c.Reconcile()
	case p.Occupied != nil:
		if !*p.Occupied {
			c.Employees = nil
		}
		c.Reconcile()
	}
	return c
}

// AssignPatch replaces the employee set with a single employee.
func AssignPatch(e EmployeeRef) SeatPatch {
	occupied := true
	employees := []EmployeeRef{e}
	return SeatPatch{Occupied: &occupied, Employees: &employees}
}

// UnassignPatch empties the employee set.
func UnassignPatch() SeatPatch {
	occupied := false
	employees := []EmployeeRef{}
	return SeatPatch{Occupied: &occupied, Employees: &employees}
}
