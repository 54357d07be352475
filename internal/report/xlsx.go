package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/beesaferoot/seatctl/internal/models"
)

const (
	summarySheet = "Summary"
	seatsSheet   = "Seats"
)

var summaryHeader = []string{"Floor", "Name", "Rooms", "Seats", "Occupied", "Occupancy"}

var seatsHeader = []string{"Floor", "Room", "Room Name", "Seat", "Occupied", "Employees"}

// WriteXLSX writes a workbook with a per-floor Summary sheet and a Seats
// sheet listing every seat. stats may be nil.
func WriteXLSX(w io.Writer, floors []*models.Floor, stats *models.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(seatsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}

	rows, total := Occupancy(floors)
	summary := make([][]any, 0, len(rows)+1)
	for _, o := range rows {
		summary = append(summary, []any{o.FloorNumber, o.Name, o.Rooms, o.Seats, o.Occupied, o.Rate()})
	}
	summary = append(summary, []any{"Total", "", total.Rooms, total.Seats, total.Occupied, total.Rate()})
	if err := writeTable(f, summarySheet, summaryHeader, summary, headerStyle); err != nil {
		return err
	}
	last := len(summary) + 1
	if err := f.SetCellStyle(summarySheet, "F2", fmt.Sprintf("F%d", last), percentStyle); err != nil {
		return fmt.Errorf("failed to style occupancy: %w", err)
	}

	if stats != nil {
		row := last + 2
		totals := [][]any{
			{"Employees", stats.TotalEmployees},
			{"Floors", stats.TotalFloors},
			{"Offices", stats.TotalOffices},
			{"Seats", stats.TotalSeats},
		}
		for i, kv := range totals {
			cell, _ := excelize.CoordinatesToCellName(1, row+i)
			if err := f.SetSheetRow(summarySheet, cell, &kv); err != nil {
				return fmt.Errorf("failed to write totals: %w", err)
			}
		}
	}

	var seats [][]any
	for _, fl := range floors {
		for _, room := range fl.Rooms {
			for _, seat := range room.Seats {
				names := make([]string, len(seat.Employees))
				for i, e := range seat.Employees {
					names[i] = e.FullName
				}
				occupied := "no"
				if seat.Occupied {
					occupied = "yes"
				}
				seats = append(seats, []any{fl.FloorNumber, room.RoomNumber, room.Name, seat.SeatNumber, occupied, strings.Join(names, ", ")})
			}
		}
	}
	if err := writeTable(f, seatsSheet, seatsHeader, seats, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}
