// Package storage defines the persistence boundary for space programs and
// settings, with interchangeable backends selected by configuration.
package storage

import (
	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/internal/settings"
)

// Backend is the interface all storage implementations must satisfy.
// Load operations never fail hard on an absent or unreadable record: they
// recover to a freshly generated default, so a session can always proceed.
// Save failures surface to the caller.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Space programs, one per named save
	LoadProgram(name string) (*program.SpaceProgram, error)
	SaveProgram(name string, p *program.SpaceProgram) error

	// Process-wide settings
	LoadSettings() (*settings.Settings, error)
	SaveSettings(s *settings.Settings) error
}
