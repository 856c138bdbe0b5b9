package mission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/pkg/vessel"
)

// StatsReporter receives one report per crediting event. The influx
// reporter implements it; evaluation never fails on a reporting error.
type StatsReporter interface {
	ReportMissionCompleted(mission, vesselID string, reward, balance int64) error
	ReportGoalCredited(mission, goalID, vesselID string, reward int64) error
}

// Evaluator applies goal and mission completion rules against the program
// store. Crediting is idempotent: repeated calls after the first credit are
// no-ops, enforced by the store's uniqueness checks.
type Evaluator struct {
	store *program.Store
	gen   *Generator
	log   *slog.Logger
	now   func() time.Time
	stats StatsReporter

	goalsCredited     metric.Int64Counter
	missionsCompleted metric.Int64Counter
	currencyAwarded   metric.Int64Counter
}

// NewEvaluator creates an evaluator. Metrics use the global OTel meter,
// which is a no-op unless the host installed a provider.
func NewEvaluator(store *program.Store, gen *Generator, log *slog.Logger) (*Evaluator, error) {
	if log == nil {
		log = slog.Default()
	}
	e := &Evaluator{store: store, gen: gen, log: log, now: time.Now}

	m := meter()
	var err error
	if e.goalsCredited, err = m.Int64Counter(
		"mission.goals.credited",
		metric.WithDescription("Goal rewards credited"),
	); err != nil {
		return nil, fmt.Errorf("creating goals counter: %w", err)
	}
	if e.missionsCompleted, err = m.Int64Counter(
		"mission.missions.completed",
		metric.WithDescription("Missions completed"),
	); err != nil {
		return nil, fmt.Errorf("creating missions counter: %w", err)
	}
	if e.currencyAwarded, err = m.Int64Counter(
		"mission.currency.awarded",
		metric.WithDescription("Currency awarded through mission and goal rewards"),
	); err != nil {
		return nil, fmt.Errorf("creating currency counter: %w", err)
	}
	return e, nil
}

// SetStats attaches a stats reporter to the crediting paths.
func (e *Evaluator) SetStats(r StatsReporter) {
	e.stats = r
}

// GoalDone reports whether a goal counts as done for the snapshot's vessel:
// either already credited in the store or currently satisfied.
func (e *Evaluator) GoalDone(g Goal, snap *vessel.Snapshot) bool {
	b := g.Base()
	if e.store.IsGoalAlreadyFinished(b.ID, snap.ID, b.VesselIndependent) {
		return true
	}
	done, _ := Done(g, snap)
	return done
}

// Actionable reports whether the goal at index i may be worked on: every
// strictly-earlier non-optional goal must be done. Optional goals never
// block and are always actionable themselves.
func (e *Evaluator) Actionable(m *Mission, i int, snap *vessel.Snapshot) bool {
	if m.Goals[i].Base().Optional {
		return true
	}
	for j := 0; j < i; j++ {
		if m.Goals[j].Base().Optional {
			continue
		}
		if !e.GoalDone(m.Goals[j], snap) {
			return false
		}
	}
	return true
}

// EvaluateGoal judges the goal at index i and, for a non-permanent goal
// that is done, actionable and not yet credited, records the credit and
// pays its reward exactly once per (goal, vessel) pair. Returns whether a
// credit was applied by this call.
func (e *Evaluator) EvaluateGoal(m *Mission, i int, snap *vessel.Snapshot) bool {
	g := m.Goals[i]
	b := g.Base()

	if e.store.IsRecycledVessel(snap.ID) {
		return false
	}
	if !e.Actionable(m, i, snap) {
		return false
	}
	done, _ := Done(g, snap)
	if !done || !b.NonPermanent {
		return false
	}
	return e.creditGoal(m, g, snap.ID)
}

// EvaluateMission judges the whole mission. On completion it credits any
// still-uncredited goal rewards, then the mission reward, records the
// status, and for a randomized mission discards the seed and returns a
// regenerated instance with fresh parameters.
func (e *Evaluator) EvaluateMission(m *Mission, snap *vessel.Snapshot) (completed bool, next *Mission, err error) {
	if e.store.IsRecycledVessel(snap.ID) {
		return false, nil, nil
	}
	if e.alreadyFinished(m, snap.ID) {
		return false, nil, nil
	}

	// All non-optional goals must be done, in order.
	for i, g := range m.Goals {
		if g.Base().Optional {
			continue
		}
		if !e.Actionable(m, i, snap) || !e.GoalDone(g, snap) {
			return false, nil, nil
		}
	}

	// Credit whatever has not been paid yet: every non-optional goal, plus
	// optional goals that happen to be done.
	for _, g := range m.Goals {
		if g.Base().Optional && !e.GoalDone(g, snap) {
			continue
		}
		e.creditGoal(m, g, snap.ID)
	}

	e.store.Reward(m.Reward)
	e.recordCompletion(m, snap.ID)

	e.missionsCompleted.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mission", m.Name)))
	e.currencyAwarded.Add(context.Background(), m.Reward)
	e.log.Info("mission completed",
		"mission", m.Name, "vessel", snap.ID, "reward", m.Reward, "balance", e.store.Balance())
	if e.stats != nil {
		if serr := e.stats.ReportMissionCompleted(m.Name, snap.ID, m.Reward, e.store.Balance()); serr != nil {
			e.log.Warn("mission stats report failed", "mission", m.Name, "error", serr)
		}
	}

	if m.Randomized {
		e.store.DiscardSeed(m.Name)
		if e.gen != nil {
			next, err = e.gen.Regenerate(m, snap.ID)
			if err != nil {
				return true, nil, fmt.Errorf("regenerating %q: %w", m.Name, err)
			}
		}
	}
	return true, next, nil
}

func (e *Evaluator) alreadyFinished(m *Mission, vesselID string) bool {
	if m.Repeatable {
		return e.store.IsMissionAlreadyFinished(m.Name, vesselID)
	}
	return e.store.IsMissionFinishedAnyVessel(m.Name)
}

// creditGoal records the goal status and pays the reward once. The store
// rejects duplicate records, which is what makes crediting idempotent.
func (e *Evaluator) creditGoal(m *Mission, g Goal, vesselID string) bool {
	b := g.Base()
	recorded := e.store.RecordGoalStatus(
		program.GoalStatus{GoalID: b.ID, VesselID: vesselID}, b.VesselIndependent)
	if !recorded {
		return false
	}
	e.store.Reward(b.Reward)
	e.goalsCredited.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mission", m.Name)))
	e.currencyAwarded.Add(context.Background(), b.Reward)
	e.log.Debug("goal credited", "goal", b.ID, "vessel", vesselID, "reward", b.Reward)
	if e.stats != nil {
		if serr := e.stats.ReportGoalCredited(m.Name, b.ID, vesselID, b.Reward); serr != nil {
			e.log.Warn("goal stats report failed", "goal", b.ID, "error", serr)
		}
	}
	return true
}

func (e *Evaluator) recordCompletion(m *Mission, vesselID string) {
	var endOfLife int64
	if m.Lifetime > 0 {
		endOfLife = e.now().Add(m.Lifetime).Unix()
	}
	var passive int64
	if m.Passive {
		passive = m.PassiveReward
	}
	e.store.RecordMissionStatus(program.MissionStatus{
		MissionName:      m.Name,
		VesselID:         vesselID,
		EndOfLife:        endOfLife,
		PassiveReward:    passive,
		LastPassivePaid:  e.now().Unix(),
		ClientControlled: m.ClientControlled,
	})
}
