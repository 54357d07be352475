// Package migration applies versioned schema changes to the snapshot cache.
package migration

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

type Migration struct {
	Version   string
	Name      string
	CreatedAt time.Time
	Up        func(*gorm.DB) error
	Down      func(*gorm.DB) error
}

// Record marks an applied migration in the migration_records table.
type Record struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (Record) TableName() string { return "migration_records" }

// Status pairs a registered migration with its applied record, if any.
type Status struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator runs registered migrations in version order, each in its own
// transaction together with its record.
type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
	now        func() time.Time
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, now: time.Now}
}

func (m *Migrator) Register(migrations ...*Migration) {
	m.migrations = append(m.migrations, migrations...)
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

func (m *Migrator) Migrations() []*Migration {
	out := make([]*Migration, len(m.migrations))
	copy(out, m.migrations)
	return out
}

func (m *Migrator) ensureVersionTable() error {
	return m.db.AutoMigrate(&Record{})
}

func (m *Migrator) AppliedVersions() (map[string]bool, error) {
	records, err := m.History()
	if err != nil {
		return nil, err
	}
	versions := make(map[string]bool, len(records))
	for _, r := range records {
		versions[r.Version] = true
	}
	return versions, nil
}

// Pending returns the registered migrations not yet applied.
func (m *Migrator) Pending() ([]*Migration, error) {
	applied, err := m.AppliedVersions()
	if err != nil {
		return nil, err
	}
	var pending []*Migration
	for _, mg := range m.migrations {
		if !applied[mg.Version] {
			pending = append(pending, mg)
		}
	}
	return pending, nil
}

// Up applies every pending migration and returns the ones it applied.
func (m *Migrator) Up() ([]*Migration, error) {
	pending, err := m.Pending()
	if err != nil {
		return nil, err
	}

	var applied []*Migration
	for _, mg := range pending {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mg.Up(tx); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mg.Name, err)
			}
			record := Record{Version: mg.Version, Name: mg.Name, AppliedAt: m.now()}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mg.Name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, mg)
	}
	return applied, nil
}

// Down reverts the most recently applied migration. It returns nil when
// nothing is applied.
func (m *Migrator) Down() (*Migration, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}
	var last Record
	err := m.db.Order("applied_at DESC").Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find last migration: %w", err)
	}

	var target *Migration
	for _, mg := range m.migrations {
		if mg.Version == last.Version {
			target = mg
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("applied migration %s (%s) is not registered", last.Name, last.Version)
	}

	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", target.Name, err)
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Status lists every registered migration with whether it is applied.
func (m *Migrator) Status() ([]Status, error) {
	records, err := m.History()
	if err != nil {
		return nil, err
	}
	byVersion := make(map[string]Record, len(records))
	for _, r := range records {
		byVersion[r.Version] = r
	}
	out := make([]Status, 0, len(m.migrations))
	for _, mg := range m.migrations {
		r, ok := byVersion[mg.Version]
		out = append(out, Status{Version: mg.Version, Name: mg.Name, Applied: ok, AppliedAt: r.AppliedAt})
	}
	return out, nil
}

// History returns applied records, newest first.
func (m *Migrator) History() ([]Record, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}
	var records []Record
	if err := m.db.Order("applied_at DESC").Order("version DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read migration history: %w", err)
	}
	return records, nil
}
