package mission

import (
	"strconv"

	"github.com/missionctl/engine/pkg/vessel"
)

// The built-in goal kinds. Each kind's predicate only compares measured
// values against thresholds; a bound left at zero is not checked.

// OrbitGoal requires an orbit around a body within the declared element
// bounds.
type OrbitGoal struct {
	GoalBase
	Body            string
	MinApA, MaxApA  float64
	MinPeA, MaxPeA  float64
	MinEccentricity float64
	MaxEccentricity float64
	MinInclination  float64
	MaxInclination  float64
}

func (g *OrbitGoal) Kind() string    { return "OrbitGoal" }
func (g *OrbitGoal) Base() *GoalBase { return &g.GoalBase }

func (g *OrbitGoal) IsDone(snap *vessel.Snapshot) (bool, []Check) {
	var checks []Check
	checks = appendCheck(checks, "situation", "orbiting", snap.Situation.String(),
		snap.Situation == vessel.SituationOrbiting)
	if g.Body != "" {
		checks = appendCheck(checks, "body", g.Body, snap.Body, snap.Body == g.Body)
	}
	checks = appendBounds(checks, "apoapsis", snap.Apoapsis, g.MinApA, g.MaxApA)
	checks = appendBounds(checks, "periapsis", snap.Periapsis, g.MinPeA, g.MaxPeA)
	checks = appendBounds(checks, "eccentricity", snap.Eccentricity, g.MinEccentricity, g.MaxEccentricity)
	checks = appendBounds(checks, "inclination", snap.Inclination, g.MinInclination, g.MaxInclination)
	return allSatisfied(checks), checks
}

// LandingGoal requires the vessel to be landed (or splashed down) on a body.
type LandingGoal struct {
	GoalBase
	Body string
}

func (g *LandingGoal) Kind() string    { return "LandingGoal" }
func (g *LandingGoal) Base() *GoalBase { return &g.GoalBase }

func (g *LandingGoal) IsDone(snap *vessel.Snapshot) (bool, []Check) {
	landed := snap.Situation == vessel.SituationLanded || snap.Situation == vessel.SituationSplashed
	checks := appendCheck(nil, "situation", "landed", snap.Situation.String(), landed)
	checks = appendCheck(checks, "body", g.Body, snap.Body, snap.Body == g.Body)
	return allSatisfied(checks), checks
}

// EVAGoal requires a crew member on EVA, optionally near a specific body.
type EVAGoal struct {
	GoalBase
	Body string
}

func (g *EVAGoal) Kind() string    { return "EVAGoal" }
func (g *EVAGoal) Base() *GoalBase { return &g.GoalBase }

func (g *EVAGoal) IsDone(snap *vessel.Snapshot) (bool, []Check) {
	checks := appendCheck(nil, "crew on EVA", "true", strconv.FormatBool(snap.CrewOnEVA), snap.CrewOnEVA)
	if g.Body != "" {
		checks = appendCheck(checks, "body", g.Body, snap.Body, snap.Body == g.Body)
	}
	return allSatisfied(checks), checks
}

// ResourceGoal requires the vessel to carry an amount of a named resource.
type ResourceGoal struct {
	GoalBase
	Name      string
	MinAmount float64
	MaxAmount float64
}

func (g *ResourceGoal) Kind() string    { return "ResourceGoal" }
func (g *ResourceGoal) Base() *GoalBase { return &g.GoalBase }

func (g *ResourceGoal) IsDone(snap *vessel.Snapshot) (bool, []Check) {
	amount := snap.Resource(g.Name)
	checks := appendBounds(nil, g.Name, amount, g.MinAmount, g.MaxAmount)
	if len(checks) == 0 {
		// No bounds declared: any nonzero amount counts.
		checks = appendCheck(checks, g.Name, "> 0", formatFloat(amount), amount > 0)
	}
	return allSatisfied(checks), checks
}

// DockingGoal requires the vessel to be docked, optionally with a named
// vessel.
type DockingGoal struct {
	GoalBase
	VesselName string
}

func (g *DockingGoal) Kind() string    { return "DockingGoal" }
func (g *DockingGoal) Base() *GoalBase { return &g.GoalBase }

func (g *DockingGoal) IsDone(snap *vessel.Snapshot) (bool, []Check) {
	target := g.VesselName
	if target == "" {
		target = "any vessel"
	}
	ok := snap.IsDockedWith(g.VesselName)
	checks := appendCheck(nil, "docked with", target, strconv.FormatBool(ok), ok)
	return allSatisfied(checks), checks
}

func appendCheck(checks []Check, label, target, current string, ok bool) []Check {
	return append(checks, Check{Label: label, Target: target, Current: current, Satisfied: ok})
}

func appendBounds(checks []Check, label string, current, min, max float64) []Check {
	if min != 0 {
		checks = appendCheck(checks, "min "+label, formatFloat(min), formatFloat(current), current >= min)
	}
	if max != 0 {
		checks = appendCheck(checks, "max "+label, formatFloat(max), formatFloat(current), current <= max)
	}
	return checks
}

func allSatisfied(checks []Check) bool {
	for _, c := range checks {
		if !c.Satisfied {
			return false
		}
	}
	return true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
