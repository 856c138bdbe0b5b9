// Package vessel defines the boundary between the mission engine and the
// host game. The engine never reads live simulation state; the host fills a
// Snapshot from its own telemetry and hands it to the goal evaluator.
package vessel

// Situation describes what a vessel is currently doing, as reported by the
// host game.
type Situation int

const (
	SituationUnknown Situation = iota
	SituationPreLaunch
	SituationFlying
	SituationSubOrbital
	SituationOrbiting
	SituationLanded
	SituationSplashed
	SituationDocked
	SituationEVA
)

// String returns the situation name as used in goal status displays.
func (s Situation) String() string {
	switch s {
	case SituationPreLaunch:
		return "prelaunch"
	case SituationFlying:
		return "flying"
	case SituationSubOrbital:
		return "suborbital"
	case SituationOrbiting:
		return "orbiting"
	case SituationLanded:
		return "landed"
	case SituationSplashed:
		return "splashed"
	case SituationDocked:
		return "docked"
	case SituationEVA:
		return "eva"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time measurement of one vessel. All values are
// opaque query results from the host game's perspective: the engine only
// compares them against goal thresholds.
type Snapshot struct {
	ID        string // stable vessel identifier (persists across saves)
	Name      string
	Body      string // name of the celestial body of reference
	Situation Situation

	// Orbital elements; meaningful while Situation is orbiting/suborbital.
	Apoapsis     float64 // metres above the reference body
	Periapsis    float64
	Eccentricity float64
	Inclination  float64 // degrees

	// Resources carried, keyed by resource name.
	Resources map[string]float64

	// DockedWith lists the names of vessels currently docked to this one.
	DockedWith []string

	// CrewOnEVA reports whether a crew member of this vessel is on EVA.
	CrewOnEVA bool

	Throttle float64 // current throttle setting, 0..1

	// Part totals, used by the launch-cost flow.
	PartCost float64
	PartMass float64
}

// Resource returns the carried amount of a named resource, 0 when absent.
func (s *Snapshot) Resource(name string) float64 {
	if s.Resources == nil {
		return 0
	}
	return s.Resources[name]
}

// IsDockedWith reports whether the vessel is docked with the named vessel.
// An empty name matches any docking partner.
func (s *Snapshot) IsDockedWith(name string) bool {
	if name == "" {
		return len(s.DockedWith) > 0 || s.Situation == SituationDocked
	}
	for _, n := range s.DockedWith {
		if n == name {
			return true
		}
	}
	return false
}
