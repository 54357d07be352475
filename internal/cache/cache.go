// Package cache keeps an offline snapshot of the floor tree in a local
// database so floors can be browsed without the API.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/beesaferoot/seatctl/internal/cache/migration"
	"github.com/beesaferoot/seatctl/internal/models"
)

// ErrEmpty is returned by Load when nothing has been synced yet.
var ErrEmpty = errors.New("snapshot cache is empty")

type Cache struct {
	db       *gorm.DB
	logger   *zap.Logger
	migrator *migration.Migrator
	now      func() time.Time
}

// Dialector picks the gorm driver for dsn: postgres URLs use the postgres
// driver and anything else is treated as a sqlite path.
func Dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// Open connects to dsn. The schema is not migrated; call Migrate.
func Open(dsn string, logger *zap.Logger) (*Cache, error) {
	db, err := gorm.Open(Dialector(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", dsn, err)
	}
	return New(db, logger), nil
}

func New(db *gorm.DB, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := migration.NewMigrator(db)
	m.Register(Migrations()...)
	return &Cache{db: db, logger: logger, migrator: m, now: time.Now}
}

func (c *Cache) Migrator() *migration.Migrator {
	return c.migrator
}

// Migrate applies pending schema migrations.
func (c *Cache) Migrate() error {
	applied, err := c.migrator.Up()
	for _, m := range applied {
		c.logger.Info("applied cache migration", zap.String("version", m.Version), zap.String("name", m.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to migrate cache: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save replaces the snapshot with floors in one transaction.
func (c *Cache) Save(ctx context.Context, floors []*models.Floor) (*SyncRun, error) {
	var (
		fs []FloorSnapshot
		rs []RoomSnapshot
		ss []SeatSnapshot
	)
	for _, f := range floors {
		fs = append(fs, FloorSnapshot{ID: f.ID, FloorNumber: f.FloorNumber, Name: f.Name, ServerCreatedAt: timeOf(f.CreatedAt)})
		for ri, r := range f.Rooms {
			rs = append(rs, RoomSnapshot{
				ID: r.ID, FloorID: f.ID, RoomNumber: r.RoomNumber, Name: r.Name,
				Position: ri, ServerCreatedAt: timeOf(r.CreatedAt),
			})
			for si, s := range r.Seats {
				employees, err := json.Marshal(nonNil(s.Employees))
				if err != nil {
					return nil, fmt.Errorf("failed to encode employees of seat %d: %w", s.ID, err)
				}
				ss = append(ss, SeatSnapshot{
					ID: s.ID, RoomID: r.ID, SeatNumber: s.SeatNumber, Occupied: s.Occupied,
					Employees: string(employees), Position: si, ServerCreatedAt: timeOf(s.CreatedAt),
				})
			}
		}
	}

	run := &SyncRun{SyncedAt: c.now(), Floors: len(fs), Rooms: len(rs), Seats: len(ss)}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&SeatSnapshot{}, &RoomSnapshot{}, &FloorSnapshot{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear snapshot: %w", err)
			}
		}
		if len(fs) > 0 {
			if err := tx.CreateInBatches(fs, 100).Error; err != nil {
				return fmt.Errorf("failed to save floors: %w", err)
			}
		}
		if len(rs) > 0 {
			if err := tx.CreateInBatches(rs, 100).Error; err != nil {
				return fmt.Errorf("failed to save rooms: %w", err)
			}
		}
		if len(ss) > 0 {
			if err := tx.CreateInBatches(ss, 100).Error; err != nil {
				return fmt.Errorf("failed to save seats: %w", err)
			}
		}
		return tx.Create(run).Error
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("snapshot saved",
		zap.Int("floors", run.Floors),
		zap.Int("rooms", run.Rooms),
		zap.Int("seats", run.Seats),
	)
	return run, nil
}

// Load rebuilds the floor tree ordered by floor number, with rooms and
// seats in the order they were saved.
func (c *Cache) Load(ctx context.Context) ([]*models.Floor, error) {
	db := c.db.WithContext(ctx)

	var fs []FloorSnapshot
	if err := db.Order("floor_number").Find(&fs).Error; err != nil {
		return nil, fmt.Errorf("failed to load floors: %w", err)
	}
	if len(fs) == 0 {
		return nil, ErrEmpty
	}
	var rs []RoomSnapshot
	if err := db.Order("floor_id").Order("position").Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	var ss []SeatSnapshot
	if err := db.Order("room_id").Order("position").Find(&ss).Error; err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	seatsByRoom := make(map[int64][]*models.Seat)
	for _, s := range ss {
		var employees []models.EmployeeRef
		if err := json.Unmarshal([]byte(s.Employees), &employees); err != nil {
			return nil, fmt.Errorf("failed to decode employees of seat %d: %w", s.ID, err)
		}
		seatsByRoom[s.RoomID] = append(seatsByRoom[s.RoomID], &models.Seat{
			ID:         s.ID,
			SeatNumber: s.SeatNumber,
			Occupied:   s.Occupied,
			Employees:  models.DedupeEmployees(employees),
			CreatedAt:  stampOf(s.ServerCreatedAt),
		})
	}

	roomsByFloor := make(map[int64][]*models.Room)
	for _, r := range rs {
		seats := seatsByRoom[r.ID]
		if seats == nil {
			seats = []*models.Seat{}
		}
		roomsByFloor[r.FloorID] = append(roomsByFloor[r.FloorID], &models.Room{
			ID:         r.ID,
			RoomNumber: r.RoomNumber,
			Name:       r.Name,
			CreatedAt:  stampOf(r.ServerCreatedAt),
			Seats:      seats,
		})
	}

	floors := make([]*models.Floor, 0, len(fs))
	for _, f := range fs {
		rooms := roomsByFloor[f.ID]
		if rooms == nil {
			rooms = []*models.Room{}
		}
		floors = append(floors, &models.Floor{
			ID:          f.ID,
			FloorNumber: f.FloorNumber,
			Name:        f.Name,
			CreatedAt:   stampOf(f.ServerCreatedAt),
			Rooms:       rooms,
		})
	}
	return floors, nil
}

// LastSync returns the most recent Save, or nil if none happened.
func (c *Cache) LastSync(ctx context.Context) (*SyncRun, error) {
	var run SyncRun
	err := c.db.WithContext(ctx).Order("synced_at DESC").Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync: %w", err)
	}
	return &run, nil
}

func nonNil(in []models.EmployeeRef) []models.EmployeeRef {
	if in == nil {
		return []models.EmployeeRef{}
	}
	return in
}

func timeOf(ts *models.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

func stampOf(t *time.Time) *models.Timestamp {
	if t == nil {
		return nil
	}
	return models.NewTimestamp(*t)
}
