package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/beesaferoot/seatctl/internal/models"
)

func testFloors() []*models.Floor {
	return []*models.Floor{
		{FloorNumber: 2, Name: "Second", Rooms: []*models.Room{
			{RoomNumber: "201", Name: "Lab", Seats: []*models.Seat{
				{SeatNumber: "201-1", Occupied: true, Employees: []models.EmployeeRef{{ID: 1, FullName: "Emma Anderson"}, {ID: 2, FullName: "Liam Brown"}}},
				{SeatNumber: "201-2"},
			}},
		}},
		{FloorNumber: 1, Name: "First", Rooms: []*models.Room{
			{RoomNumber: "101", Seats: []*models.Seat{{SeatNumber: "101-1"}}},
			{RoomNumber: "102"},
		}},
	}
}

func TestDashboard(t *testing.T) {
	d := NewDashboard(models.Stats{
		TotalEmployees: 12,
		OfficesPerFloor: []models.FloorCount{
			{FloorNumber: 2, OfficeCount: 4},
			{FloorNumber: 1, OfficeCount: 7},
		},
		SeatsPerFloor: []models.FloorCount{
			{FloorNumber: 1, SeatCount: 20},
			{FloorNumber: 3, SeatCount: 35},
		},
	})

	assert.Equal(t, 7, d.MaxOffices)
	assert.Equal(t, 35, d.MaxSeats)
	assert.Equal(t, []int{1, 2, 3}, d.Floors)
	assert.Equal(t, 4, d.OfficesOn(2))
	assert.Zero(t, d.OfficesOn(3))
	assert.Equal(t, 20, d.SeatsOn(1))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "##########", Bar(35, 35, 10))
	assert.Equal(t, "#####", Bar(20, 40, 10))
	assert.Equal(t, "#", Bar(1, 1000, 10))
	assert.Empty(t, Bar(0, 10, 10))
	assert.Empty(t, Bar(5, 0, 10))
}

func TestOccupancy(t *testing.T) {
	rows, total := Occupancy(testFloors())
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].FloorNumber)
	assert.Equal(t, FloorOccupancy{FloorNumber: 2, Name: "Second", Rooms: 1, Seats: 2, Occupied: 1}, rows[1])
	assert.InDelta(t, 0.5, rows[1].Rate(), 1e-9)
	assert.Equal(t, 3, total.Rooms)
	assert.Equal(t, 3, total.Seats)
	assert.Zero(t, FloorOccupancy{}.Rate())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testFloors(), &models.Stats{TotalEmployees: 2, TotalSeats: 3}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Seats"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, summaryHeader, summary[0])
	assert.Equal(t, "1", summary[1][0])
	assert.Equal(t, "Total", summary[3][0])
	assert.Equal(t, "Employees", summary[5][0])

	seats, err := f.GetRows("Seats")
	require.NoError(t, err)
	require.Len(t, seats, 4)
	assert.Equal(t, []string{"2", "201", "Lab", "201-1", "yes", "Emma Anderson, Liam Brown"}, seats[1])
	assert.Equal(t, "no", seats[2][4])
}
