// Package memory implements a throwaway in-process storage backend, used by
// tests and the CLI dry-run path. Saved objects are deep-copied so later
// mutation of the live program cannot leak into a stored snapshot.
package memory

import (
	"sync"

	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/internal/settings"
)

// Backend stores programs and settings in maps.
type Backend struct {
	mu       sync.RWMutex
	programs map[string]*program.SpaceProgram
	disabled bool
	hasSet   bool
}

// New creates an empty memory backend.
func New() *Backend {
	return &Backend{
		programs: make(map[string]*program.SpaceProgram),
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// LoadProgram returns a copy of the stored program, or a fresh one.
func (b *Backend) LoadProgram(name string) (*program.SpaceProgram, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.programs[name]
	if !ok {
		return program.NewSpaceProgram(0), nil
	}
	return clone(p), nil
}

// SaveProgram stores a copy of the program under the given name.
func (b *Backend) SaveProgram(name string, p *program.SpaceProgram) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs[name] = clone(p)
	return nil
}

// LoadSettings returns the stored settings, defaults when never saved.
func (b *Backend) LoadSettings() (*settings.Settings, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := settings.Default()
	if b.hasSet {
		s.PluginDisabled = b.disabled
	}
	return s, nil
}

// SaveSettings stores the settings values and clears the dirty flag.
func (b *Backend) SaveSettings(s *settings.Settings) error {
	b.mu.Lock()
	b.disabled = s.Disabled()
	b.hasSet = true
	b.mu.Unlock()
	s.ClearDirty()
	return nil
}

func clone(p *program.SpaceProgram) *program.SpaceProgram {
	c := *p
	c.Missions = append([]program.MissionStatus(nil), p.Missions...)
	c.Goals = append([]program.GoalStatus(nil), p.Goals...)
	c.RandomMissions = append([]program.RandomMission(nil), p.RandomMissions...)
	c.RecycledVessels = append([]program.RecycledVessel(nil), p.RecycledVessels...)
	return &c
}
