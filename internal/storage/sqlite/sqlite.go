// Package sqlite implements the relational storage backend. It persists one
// row per status/seed/recycled-vessel record plus a single balance row per
// program, through the shared database manager (Postgres when reachable,
// local SQLite otherwise).
package sqlite

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/missionctl/engine/internal/database"
	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/internal/settings"
)

// ProgramRow carries the balance of one named program.
type ProgramRow struct {
	ID      uint   `gorm:"primarykey"`
	Program string `gorm:"uniqueIndex"`
	Money   int64
}

// MissionStatusRow is one finished-mission record.
type MissionStatusRow struct {
	ID               uint   `gorm:"primarykey"`
	Program          string `gorm:"index"`
	MissionName      string
	VesselID         string
	EndOfLife        int64
	PassiveReward    int64
	LastPassivePaid  int64
	ClientControlled bool
}

// GoalStatusRow is one credited-goal record.
type GoalStatusRow struct {
	ID       uint   `gorm:"primarykey"`
	Program  string `gorm:"index"`
	GoalID   string
	VesselID string
}

// RandomMissionRow pins the seed of a randomized mission.
type RandomMissionRow struct {
	ID          uint   `gorm:"primarykey"`
	Program     string `gorm:"index"`
	MissionName string
	Seed        int64
}

// RecycledVesselRow marks a vessel permanently ineligible for credit.
type RecycledVesselRow struct {
	ID       uint   `gorm:"primarykey"`
	Program  string `gorm:"index"`
	VesselID string
}

// SettingsRow holds the single process-wide settings record.
type SettingsRow struct {
	ID       uint `gorm:"primarykey"`
	Disabled bool
}

var models = []any{
	&ProgramRow{},
	&MissionStatusRow{},
	&GoalStatusRow{},
	&RandomMissionRow{},
	&RecycledVesselRow{},
	&SettingsRow{},
}

// Backend stores programs and settings through gorm.
type Backend struct {
	mgr *database.Manager
}

// New wraps a database manager. The manager may be pre-connected (tests) or
// left for Init to connect.
func New(mgr *database.Manager) *Backend {
	return &Backend{mgr: mgr}
}

// Init connects if needed and migrates the schema.
func (b *Backend) Init() error {
	if b.mgr.DB == nil {
		if err := b.mgr.Connect(); err != nil {
			return err
		}
	}
	if err := b.mgr.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.mgr.Close()
}

// LoadProgram assembles a SpaceProgram from its rows. A program with no rows
// is a fresh one.
func (b *Backend) LoadProgram(name string) (*program.SpaceProgram, error) {
	p := program.NewSpaceProgram(0)
	db := b.mgr.DB

	var row ProgramRow
	err := db.Where("program = ?", name).First(&row).Error
	if err != nil {
		// absent or unreadable rows recover to a fresh program
		return p, nil
	}
	p.Money = row.Money

	var missions []MissionStatusRow
	if err := db.Where("program = ?", name).Order("id").Find(&missions).Error; err == nil {
		for _, r := range missions {
			p.Missions = append(p.Missions, program.MissionStatus{
				MissionName:      r.MissionName,
				VesselID:         r.VesselID,
				EndOfLife:        r.EndOfLife,
				PassiveReward:    r.PassiveReward,
				LastPassivePaid:  r.LastPassivePaid,
				ClientControlled: r.ClientControlled,
			})
		}
	}
	var goals []GoalStatusRow
	if err := db.Where("program = ?", name).Order("id").Find(&goals).Error; err == nil {
		for _, r := range goals {
			p.Goals = append(p.Goals, program.GoalStatus{GoalID: r.GoalID, VesselID: r.VesselID})
		}
	}
	var seeds []RandomMissionRow
	if err := db.Where("program = ?", name).Order("id").Find(&seeds).Error; err == nil {
		for _, r := range seeds {
			p.RandomMissions = append(p.RandomMissions, program.RandomMission{
				MissionName: r.MissionName, Seed: r.Seed})
		}
	}
	var recycled []RecycledVesselRow
	if err := db.Where("program = ?", name).Order("id").Find(&recycled).Error; err == nil {
		for _, r := range recycled {
			p.RecycledVessels = append(p.RecycledVessels, program.RecycledVessel{VesselID: r.VesselID})
		}
	}
	return p, nil
}

// SaveProgram replaces all rows of the named program inside one transaction,
// the relational equivalent of the file backend's write-then-rename.
func (b *Backend) SaveProgram(name string, p *program.SpaceProgram) error {
	return b.mgr.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&ProgramRow{}, &MissionStatusRow{}, &GoalStatusRow{},
			&RandomMissionRow{}, &RecycledVesselRow{},
		} {
			if err := tx.Where("program = ?", name).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&ProgramRow{Program: name, Money: p.Money}).Error; err != nil {
			return err
		}
		for _, m := range p.Missions {
			row := MissionStatusRow{
				Program:          name,
				MissionName:      m.MissionName,
				VesselID:         m.VesselID,
				EndOfLife:        m.EndOfLife,
				PassiveReward:    m.PassiveReward,
				LastPassivePaid:  m.LastPassivePaid,
				ClientControlled: m.ClientControlled,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, g := range p.Goals {
			row := GoalStatusRow{Program: name, GoalID: g.GoalID, VesselID: g.VesselID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, r := range p.RandomMissions {
			row := RandomMissionRow{Program: name, MissionName: r.MissionName, Seed: r.Seed}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, r := range p.RecycledVessels {
			row := RecycledVesselRow{Program: name, VesselID: r.VesselID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSettings reads the single settings row, defaults when absent.
func (b *Backend) LoadSettings() (*settings.Settings, error) {
	var row SettingsRow
	if err := b.mgr.DB.First(&row).Error; err != nil {
		return settings.Default(), nil
	}
	s := settings.Default()
	s.PluginDisabled = row.Disabled
	return s, nil
}

// SaveSettings replaces the single settings row.
func (b *Backend) SaveSettings(s *settings.Settings) error {
	err := b.mgr.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&SettingsRow{}).Error; err != nil {
			return err
		}
		return tx.Create(&SettingsRow{Disabled: s.Disabled()}).Error
	})
	if err != nil {
		return err
	}
	s.ClearDirty()
	return nil
}
