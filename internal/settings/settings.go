// Package settings holds the process-wide user toggles, loaded once at
// startup from settings.cfg and written back when changed.
package settings

import (
	"sync"

	"github.com/missionctl/engine/internal/codec"
)

// Settings is the persisted toggle set. The dirty flag tracks unsaved
// changes; persistence clears it after a successful write.
type Settings struct {
	mu             sync.Mutex
	PluginDisabled bool
	dirty          bool
}

// Default returns the settings used when no settings.cfg exists or it
// fails to parse.
func Default() *Settings {
	return &Settings{}
}

// Disabled reports the plugin-disabled switch. It is the gate every reward
// operation checks.
func (s *Settings) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PluginDisabled
}

// SetDisabled flips the plugin-disabled switch, marking the settings dirty
// when the value changes.
func (s *Settings) SetDisabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PluginDisabled != v {
		s.PluginDisabled = v
		s.dirty = true
	}
}

// Dirty reports whether there are unsaved changes.
func (s *Settings) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// ClearDirty is called by persistence after a successful save.
func (s *Settings) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// Schema declares the settings.cfg shape for the codec.
func Schema() *codec.Schema {
	return &codec.Schema{
		Name: "Settings",
		New:  func() any { return &Settings{} },
		Fields: []codec.Field{
			{Name: "disabled", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*Settings).PluginDisabled },
				Set: func(o, v any) { o.(*Settings).PluginDisabled = v.(bool) }},
		},
	}
}
