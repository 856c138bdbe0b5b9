package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/pkg/vessel"
)

func newTestEvaluator(t *testing.T, disabled func() bool) (*Evaluator, *program.Store, *Generator) {
	t.Helper()
	store := program.NewStore(program.NewSpaceProgram(0), nil, disabled)
	gen := NewGenerator(store, nil)
	ev, err := NewEvaluator(store, gen, nil)
	require.NoError(t, err)
	return ev, store, gen
}

// orderedMission has two mandatory goals and a trailing optional one, the
// shape of the ordering property: B never actionable before A, C always.
func orderedMission() *Mission {
	m := &Mission{Name: "Ordered", Reward: 10000}
	m.Goals = []Goal{
		&OrbitGoal{MinApA: 100000,
			GoalBase: GoalBase{ID: "Ordered__PART1", NonPermanent: true, Reward: 100}},
		&LandingGoal{Body: "Mun",
			GoalBase: GoalBase{ID: "Ordered__PART2", NonPermanent: true, Reward: 200}},
		&EVAGoal{
			GoalBase: GoalBase{ID: "Ordered__PART3", Optional: true, NonPermanent: true, Reward: 50}},
	}
	return m
}

func orbitingSnap(id string, apa float64) *vessel.Snapshot {
	return &vessel.Snapshot{ID: id, Body: "Mun", Situation: vessel.SituationOrbiting, Apoapsis: apa}
}

func TestActionable_OrderingInvariant(t *testing.T) {
	ev, _, _ := newTestEvaluator(t, nil)
	m := orderedMission()

	// A is not done: B is never actionable, regardless of its own predicate.
	snap := &vessel.Snapshot{ID: "V1", Body: "Mun", Situation: vessel.SituationLanded}
	assert.True(t, ev.Actionable(m, 0, snap))
	assert.False(t, ev.Actionable(m, 1, snap))
	assert.True(t, ev.Actionable(m, 2, snap), "optional goal is always actionable")

	// Credit A; B unblocks.
	require.True(t, ev.EvaluateGoal(m, 0, orbitingSnap("V1", 150000)))
	assert.True(t, ev.Actionable(m, 1, snap))
}

func TestEvaluateGoal_IdempotentCredit(t *testing.T) {
	ev, store, _ := newTestEvaluator(t, nil)
	m := orderedMission()
	snap := orbitingSnap("V1", 150000)

	assert.True(t, ev.EvaluateGoal(m, 0, snap))
	balance := store.Balance()
	assert.Equal(t, int64(100), balance)

	assert.False(t, ev.EvaluateGoal(m, 0, snap), "second credit is a no-op")
	assert.Equal(t, balance, store.Balance(), "balance changes only once")
}

func TestEvaluateGoal_PerVesselCredit(t *testing.T) {
	ev, store, _ := newTestEvaluator(t, nil)
	m := orderedMission()

	assert.True(t, ev.EvaluateGoal(m, 0, orbitingSnap("V1", 150000)))
	assert.True(t, ev.EvaluateGoal(m, 0, orbitingSnap("V2", 150000)))
	assert.Equal(t, int64(200), store.Balance())
}

func TestEvaluateGoal_RecycledVessel(t *testing.T) {
	ev, store, _ := newTestEvaluator(t, nil)
	store.RecordRecycledVessel("V1")

	m := orderedMission()
	assert.False(t, ev.EvaluateGoal(m, 0, orbitingSnap("V1", 150000)))
	assert.Equal(t, int64(0), store.Balance())
}

func TestEvaluateGoal_ThrottleDownRequirement(t *testing.T) {
	ev, _, _ := newTestEvaluator(t, nil)
	m := orderedMission()
	m.Goals[0].Base().ThrottleDown = true

	snap := orbitingSnap("V1", 150000)
	snap.Throttle = 0.5
	assert.False(t, ev.EvaluateGoal(m, 0, snap))

	snap.Throttle = 0
	assert.True(t, ev.EvaluateGoal(m, 0, snap))
}

func TestEvaluateMission_RequiresAllMandatoryGoals(t *testing.T) {
	ev, store, _ := newTestEvaluator(t, nil)
	m := orderedMission()

	// Orbit satisfied, landing not.
	completed, _, err := ev.EvaluateMission(m, orbitingSnap("V1", 150000))
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, int64(0), store.Balance(), "nothing credited on a failed evaluation")
}

func TestEvaluateMission_CreditsGoalsThenMissionReward(t *testing.T) {
	ev, store, _ := newTestEvaluator(t, nil)
	m := orderedMission()

	// Credit the orbit goal first, then land.
	require.True(t, ev.EvaluateGoal(m, 0, orbitingSnap("V1", 150000)))

	landed := &vessel.Snapshot{ID: "V1", Body: "Mun", Situation: vessel.SituationLanded}
	completed, next, err := ev.EvaluateMission(m, landed)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Nil(t, next, "non-randomized missions are not regenerated")

	// 100 (orbit, already paid) + 200 (landing) + 10000 (mission). The
	// optional EVA goal is not done, so its reward is not paid.
	assert.Equal(t, int64(10300), store.Balance())
	assert.True(t, store.IsMissionAlreadyFinished("Ordered", "V1"))
	assert.False(t, store.IsMissionAlreadyFinished("Ordered", "V2"))
}

func TestEvaluateMission_AlreadyFinishedIsNoOp(t *testing.T) {
	ev, store, _ := newTestEvaluator(t, nil)
	m := orderedMission()

	landedOrbit := orbitingSnap("V1", 150000)
	require.True(t, ev.EvaluateGoal(m, 0, landedOrbit))
	landed := &vessel.Snapshot{ID: "V1", Body: "Mun", Situation: vessel.SituationLanded}
	completed, _, err := ev.EvaluateMission(m, landed)
	require.NoError(t, err)
	require.True(t, completed)
	balance := store.Balance()

	completed, _, err = ev.EvaluateMission(m, landed)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, balance, store.Balance())
}

func TestEvaluateMission_RepeatableIsPerVessel(t *testing.T) {
	ev, _, _ := newTestEvaluator(t, nil)
	m := &Mission{Name: "Hop", Reward: 60000, Repeatable: true}
	m.Goals = []Goal{&LandingGoal{Body: "Mun", GoalBase: GoalBase{ID: "Hop__PART1"}}}

	landed := func(id string) *vessel.Snapshot {
		return &vessel.Snapshot{ID: id, Body: "Mun", Situation: vessel.SituationLanded}
	}
	completed, _, err := ev.EvaluateMission(m, landed("V1"))
	require.NoError(t, err)
	assert.True(t, completed)

	completed, _, _ = ev.EvaluateMission(m, landed("V1"))
	assert.False(t, completed, "same vessel cannot repeat")
	completed, _, err = ev.EvaluateMission(m, landed("V2"))
	require.NoError(t, err)
	assert.True(t, completed, "another vessel can")
}

func TestEvaluateMission_NonRepeatableBlocksAllVessels(t *testing.T) {
	ev, _, _ := newTestEvaluator(t, nil)
	m := &Mission{Name: "First Landing", Reward: 60000}
	m.Goals = []Goal{&LandingGoal{Body: "Mun", GoalBase: GoalBase{ID: "First Landing__PART1"}}}

	landed := &vessel.Snapshot{ID: "V1", Body: "Mun", Situation: vessel.SituationLanded}
	completed, _, err := ev.EvaluateMission(m, landed)
	require.NoError(t, err)
	require.True(t, completed)

	other := &vessel.Snapshot{ID: "V2", Body: "Mun", Situation: vessel.SituationLanded}
	completed, _, _ = ev.EvaluateMission(m, other)
	assert.False(t, completed)
}

func TestEvaluateMission_RandomizedRegenerates(t *testing.T) {
	ev, store, gen := newTestEvaluator(t, nil)

	text := `Mission
{
	name = Random Hop
	reward = 1000
	randomized = true
	repeatable = true
	LandingGoal { body = Mun }
}
`
	m, err := gen.LoadMission(text, "V1")
	require.NoError(t, err)
	require.Len(t, store.Program().RandomMissions, 1)
	oldSeed := store.Program().RandomMissions[0].Seed

	landed := &vessel.Snapshot{ID: "V1", Body: "Mun", Situation: vessel.SituationLanded}
	completed, next, err := ev.EvaluateMission(m, landed)
	require.NoError(t, err)
	assert.True(t, completed)
	require.NotNil(t, next, "a fresh instance is offered")

	require.Len(t, store.Program().RandomMissions, 1, "regeneration stored a new seed record")
	assert.NotEqual(t, oldSeed, store.Program().RandomMissions[0].Seed)
}

type statsRecorder struct {
	completed []string
	credited  []string
}

func (s *statsRecorder) ReportMissionCompleted(mission, vesselID string, reward, balance int64) error {
	s.completed = append(s.completed, mission)
	return nil
}

func (s *statsRecorder) ReportGoalCredited(mission, goalID, vesselID string, reward int64) error {
	s.credited = append(s.credited, goalID)
	return nil
}

func TestEvaluateMission_ReportsStats(t *testing.T) {
	ev, _, _ := newTestEvaluator(t, nil)
	stats := &statsRecorder{}
	ev.SetStats(stats)
	m := orderedMission()

	require.True(t, ev.EvaluateGoal(m, 0, orbitingSnap("V1", 150000)))
	landed := &vessel.Snapshot{ID: "V1", Body: "Mun", Situation: vessel.SituationLanded}
	completed, _, err := ev.EvaluateMission(m, landed)
	require.NoError(t, err)
	require.True(t, completed)

	assert.Equal(t, []string{"Ordered"}, stats.completed)
	// One point per credit: the orbit goal and the landing goal; the undone
	// optional EVA goal reports nothing.
	assert.Equal(t, []string{"Ordered__PART1", "Ordered__PART2"}, stats.credited)
}

func TestEvaluateMission_PluginDisabledLeavesBalance(t *testing.T) {
	disabled := true
	ev, store, _ := newTestEvaluator(t, func() bool { return disabled })

	m := orderedMission()
	require.True(t, ev.EvaluateGoal(m, 0, orbitingSnap("V1", 150000)))
	assert.Equal(t, int64(0), store.Balance(), "reward gated by the disabled switch")
}
