package cache

import (
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/seatctl/internal/cache/migration"
)

// Migrations returns the schema history of the snapshot cache.
func Migrations() []*migration.Migration {
	return []*migration.Migration{
		{
			Version:   "20250301120000",
			Name:      "create_snapshot_tables",
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			Up: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&FloorSnapshot{}, &RoomSnapshot{}, &SeatSnapshot{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&SeatSnapshot{}, &RoomSnapshot{}, &FloorSnapshot{})
			},
		},
		{
			Version:   "20250315090000",
			Name:      "create_sync_runs",
			CreatedAt: time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
			Up: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&SyncRun{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&SyncRun{})
			},
		},
	}
}
