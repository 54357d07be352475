package models

// Stats are the aggregate counts behind the dashboard. The per-floor
// breakdowns and occupancy rate are optional on older servers.
type Stats struct {
	TotalEmployees  int          `json:"totalEmployees"`
	TotalFloors     int          `json:"totalFloors"`
	TotalOffices    int          `json:"totalOffices"`
	TotalSeats      int          `json:"totalSeats"`
	OccupancyRate   float64      `json:"occupancyRate"`
	OfficesPerFloor []FloorCount `json:"officesPerFloor,omitempty"`
	SeatsPerFloor   []FloorCount `json:"seatsPerFloor,omitempty"`
}

// FloorCount is one per-floor bucket. The server names the count field
// officeCount or seatCount depending on the series.
type FloorCount struct {
	FloorNumber int `json:"floorNumber"`
	OfficeCount int `json:"officeCount,omitempty"`
	SeatCount   int `json:"seatCount,omitempty"`
}
