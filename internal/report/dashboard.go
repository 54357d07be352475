// Package report derives dashboard figures and spreadsheet exports from the
// floor tree and the API's aggregate stats.
package report

import (
	"sort"
	"strings"

	"github.com/beesaferoot/seatctl/internal/models"
)

// Dashboard indexes the per-floor series of Stats for charting.
type Dashboard struct {
	Stats      models.Stats
	MaxOffices int
	MaxSeats   int
	Floors     []int

	offices map[int]int
	seats   map[int]int
}

func NewDashboard(stats models.Stats) *Dashboard {
	d := &Dashboard{
		Stats:   stats,
		offices: make(map[int]int),
		seats:   make(map[int]int),
	}
	floors := make(map[int]bool)
	for _, fc := range stats.OfficesPerFloor {
		d.offices[fc.FloorNumber] = fc.OfficeCount
		floors[fc.FloorNumber] = true
		if fc.OfficeCount > d.MaxOffices {
			d.MaxOffices = fc.OfficeCount
		}
	}
	for _, fc := range stats.SeatsPerFloor {
		d.seats[fc.FloorNumber] = fc.SeatCount
		floors[fc.FloorNumber] = true
		if fc.SeatCount > d.MaxSeats {
			d.MaxSeats = fc.SeatCount
		}
	}
	for n := range floors {
		d.Floors = append(d.Floors, n)
	}
	sort.Ints(d.Floors)
	return d
}

// OfficesOn returns the office count of a floor, zero when unknown.
func (d *Dashboard) OfficesOn(floorNumber int) int { return d.offices[floorNumber] }

// SeatsOn returns the seat count of a floor, zero when unknown.
func (d *Dashboard) SeatsOn(floorNumber int) int { return d.seats[floorNumber] }

// Bar draws value as up to width cells, scaled so that peak fills the width.
func Bar(value, peak, width int) string {
	if peak <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := value * width / peak
	if n == 0 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("#", n)
}

// FloorOccupancy summarises one floor.
type FloorOccupancy struct {
	FloorNumber int
	Name        string
	Rooms       int
	Seats       int
	Occupied    int
}

// Rate is the occupied share of seats in [0, 1].
func (o FloorOccupancy) Rate() float64 {
	if o.Seats == 0 {
		return 0
	}
	return float64(o.Occupied) / float64(o.Seats)
}

// Occupancy computes per-floor occupancy ordered by floor number, plus the
// total across floors.
func Occupancy(floors []*models.Floor) ([]FloorOccupancy, FloorOccupancy) {
	out := make([]FloorOccupancy, 0, len(floors))
	var total FloorOccupancy
	for _, f := range floors {
		o := FloorOccupancy{
			FloorNumber: f.FloorNumber,
			Name:        f.Name,
			Rooms:       len(f.Rooms),
			Seats:       f.SeatCount(),
			Occupied:    f.OccupiedCount(),
		}
		out = append(out, o)
		total.Rooms += o.Rooms
		total.Seats += o.Seats
		total.Occupied += o.Occupied
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FloorNumber < out[j].FloorNumber })
	return out, total
}
