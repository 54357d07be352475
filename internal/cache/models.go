package cache

import (
	"time"
)

type FloorSnapshot struct {
	ID              int64  `gorm:"primaryKey;autoIncrement:false"`
	FloorNumber     int    `gorm:"uniqueIndex;not null"`
	Name            string `gorm:"not null"`
	ServerCreatedAt *time.Time
}

type RoomSnapshot struct {
	ID              int64  `gorm:"primaryKey;autoIncrement:false"`
	FloorID         int64  `gorm:"index;not null"`
	RoomNumber      string `gorm:"not null"`
	Name            string
	Position        int `gorm:"not null"`
	ServerCreatedAt *time.Time
}

// SeatSnapshot keeps the seat's employee set as JSON text.
type SeatSnapshot struct {
	ID              int64  `gorm:"primaryKey;autoIncrement:false"`
	RoomID          int64  `gorm:"index;not null"`
	SeatNumber      string `gorm:"not null"`
	Occupied        bool   `gorm:"not null"`
	Employees       string `gorm:"type:text;not null"`
	Position        int    `gorm:"not null"`
	ServerCreatedAt *time.Time
}

// SyncRun records one Save.
type SyncRun struct {
	ID       uint      `gorm:"primaryKey"`
	SyncedAt time.Time `gorm:"not null;index"`
	Floors   int       `gorm:"not null"`
	Rooms    int       `gorm:"not null"`
	Seats    int       `gorm:"not null"`
}
