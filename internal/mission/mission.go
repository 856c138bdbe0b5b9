// Package mission implements the mission/goal domain model: typed goal
// variants behind a registry, the completion-order rules, the evaluator
// that credits rewards through the program store, and the deterministic
// randomized-instance generator.
package mission

import (
	"time"

	"github.com/missionctl/engine/pkg/vessel"
)

// Check is one display row of a goal predicate: what was required, what the
// vessel currently measures, and whether that part is satisfied.
type Check struct {
	Label     string
	Target    string
	Current   string
	Satisfied bool
}

// Goal is one trackable objective within a mission. Implementations are the
// goal-kind variants; their predicates are pure and never mutate state.
type Goal interface {
	// Kind returns the discriminator the goal was registered under, which
	// is also its block name in definition files.
	Kind() string
	Base() *GoalBase
	// IsDone evaluates the kind-specific predicate against a vessel
	// snapshot, returning the verdict and the per-requirement rows.
	IsDone(snap *vessel.Snapshot) (bool, []Check)
}

// GoalBase carries the fields common to every goal kind.
type GoalBase struct {
	// ID is derived at instantiation: missionName + "__PART" + ordinal.
	ID          string
	Description string

	Optional          bool
	NonPermanent      bool // credited and rewarded independently of the mission
	Reward            int64
	VesselIndependent bool // credit counts regardless of which vessel achieved it
	ThrottleDown      bool // only judged done while the throttle is at zero

	// Repeatable is inherited from the owning mission at instantiation.
	Repeatable bool
	// DoneOnce marks a goal that was already credited for the target
	// vessel when the mission instance was generated.
	DoneOnce bool
}

// Done wraps a goal's own predicate with the common requirements: a goal
// pre-marked done stays done, and a throttle-down goal is only done while
// the throttle reads zero.
func Done(g Goal, snap *vessel.Snapshot) (bool, []Check) {
	b := g.Base()
	if b.DoneOnce {
		return true, nil
	}
	done, checks := g.IsDone(snap)
	if b.ThrottleDown {
		ok := snap.Throttle == 0
		checks = append(checks, Check{
			Label:     "throttle down",
			Target:    "0",
			Current:   formatFloat(snap.Throttle),
			Satisfied: ok,
		})
		done = done && ok
	}
	return done, checks
}

// Mission is a named, rewarded bundle of ordered goals. Goal order defines
// a completion-order dependency: a goal is only actionable once every
// non-optional goal before it is done.
type Mission struct {
	Name        string
	Description string
	Reward      int64
	Repeatable  bool
	Randomized  bool
	Lifetime    time.Duration
	Categories  []string

	ClientControlled bool
	Passive          bool
	PassiveReward    int64

	Goals []Goal

	// source is the raw definition text the instance was generated from,
	// kept so a completed randomized mission can be regenerated with a
	// fresh seed.
	source string
}

// Package is a set of missions loaded from one package file.
type Package struct {
	Name        string
	Description string
	// OwnOrder keeps the declared mission order; otherwise missions are
	// sorted by name.
	OwnOrder bool
	Missions []*Mission
}
