// Package program holds the player's persistent save context: currency
// balance, completed mission/goal ledger, randomized-mission seeds and
// recycled vessels. All mutation goes through Store methods so the
// uniqueness invariants hold; callers never touch the lists directly.
package program

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// MissionStatus records one finished (or active client-controlled/passive)
// mission for one vessel.
type MissionStatus struct {
	MissionName      string
	VesselID         string
	EndOfLife        int64 // unix seconds; 0 = never expires
	PassiveReward    int64
	LastPassivePaid  int64 // unix seconds of the last passive payout
	ClientControlled bool
}

// Expired reports whether the status has an end of life in the past.
func (s *MissionStatus) Expired(now time.Time) bool {
	return s.EndOfLife != 0 && s.EndOfLife < now.Unix()
}

// GoalStatus marks a goal instance as permanently credited for a vessel.
type GoalStatus struct {
	GoalID   string
	VesselID string
}

// RandomMission pins the seed of a randomized mission. Exactly one record
// exists per randomized mission name; the seed never changes until the
// mission is completed and the record discarded.
type RandomMission struct {
	MissionName string
	Seed        int64
}

// RecycledVessel marks a vessel as permanently ineligible for credit.
type RecycledVessel struct {
	VesselID string
}

// SpaceProgram is the durable record of one named save.
type SpaceProgram struct {
	Money           int64
	Missions        []MissionStatus
	Goals           []GoalStatus
	RandomMissions  []RandomMission
	RecycledVessels []RecycledVessel
}

// NewSpaceProgram creates a fresh program with the given starting balance.
// Used on first load and whenever a save fails to parse.
func NewSpaceProgram(initialBalance int64) *SpaceProgram {
	return &SpaceProgram{Money: initialBalance}
}

// Store is the single mutable program instance of a session. Reward,
// record and prune operations each take the lock, but a sequence of them is
// not atomic; callers treating several mutations as one transaction save
// afterwards.
type Store struct {
	mu      sync.Mutex
	program *SpaceProgram
	log     *slog.Logger

	// disabled gates all balance changes (the plugin-disabled switch).
	disabled func() bool
	// now and seed are swappable for tests.
	now  func() time.Time
	seed func() int64
}

// NewStore wraps a program. The disabled func may be nil (never disabled).
func NewStore(p *SpaceProgram, log *slog.Logger, disabled func() bool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		program:  p,
		log:      log,
		disabled: disabled,
		now:      time.Now,
		seed:     rand.Int63,
	}
}

// Program returns the underlying record for persistence. The caller must
// not mutate it.
func (s *Store) Program() *SpaceProgram {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Replace swaps in a freshly loaded program.
func (s *Store) Replace(p *SpaceProgram) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

// Balance returns the current money balance.
func (s *Store) Balance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program.Money
}

// Reward adds amount to the balance (negative amounts are costs) and
// returns the new balance. With the plugin-disabled switch set the balance
// is left unchanged and returned as is.
func (s *Store) Reward(amount int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled != nil && s.disabled() {
		s.log.Debug("reward skipped, plugin disabled", "amount", amount)
		return s.program.Money
	}
	s.program.Money += amount
	s.log.Debug("balance changed", "amount", amount, "balance", s.program.Money)
	return s.program.Money
}

// IsMissionAlreadyFinished reports whether the (mission, vessel) pair has an
// unexpired status record.
func (s *Store) IsMissionAlreadyFinished(missionName, vesselID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findMission(missionName, vesselID) != nil
}

// IsMissionFinishedAnyVessel reports whether any vessel holds an unexpired
// status for the mission. Non-repeatable missions use this lookup.
func (s *Store) IsMissionFinishedAnyVessel(missionName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for i := range s.program.Missions {
		m := &s.program.Missions[i]
		if m.MissionName == missionName && !m.Expired(now) {
			return true
		}
	}
	return false
}

// IsGoalAlreadyFinished reports whether the goal is credited. For
// vessel-independent goals the vessel identifier is ignored.
func (s *Store) IsGoalAlreadyFinished(goalID, vesselID string, vesselIndependent bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goalFinished(goalID, vesselID, vesselIndependent)
}

func (s *Store) goalFinished(goalID, vesselID string, vesselIndependent bool) bool {
	for i := range s.program.Goals {
		g := &s.program.Goals[i]
		if g.GoalID != goalID {
			continue
		}
		if vesselIndependent || g.VesselID == vesselID {
			return true
		}
	}
	return false
}

// IsRecycledVessel reports whether the vessel has been recycled and is
// therefore ineligible to finish anything.
func (s *Store) IsRecycledVessel(vesselID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.program.RecycledVessels {
		if s.program.RecycledVessels[i].VesselID == vesselID {
			return true
		}
	}
	return false
}

// IsClientControlled reports whether the mission has an unexpired
// client-controlled status.
func (s *Store) IsClientControlled(missionName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for i := range s.program.Missions {
		m := &s.program.Missions[i]
		if m.MissionName == missionName && m.ClientControlled && !m.Expired(now) {
			return true
		}
	}
	return false
}

// RecordMissionStatus appends a status record. A record for the same
// (mission, vessel) pair that is still active makes this a silent no-op;
// the return value reports whether the record was added.
func (s *Store) RecordMissionStatus(ms MissionStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findMission(ms.MissionName, ms.VesselID) != nil {
		s.log.Debug("duplicate mission status ignored",
			"mission", ms.MissionName, "vessel", ms.VesselID)
		return false
	}
	s.program.Missions = append(s.program.Missions, ms)
	return true
}

// RecordGoalStatus appends a goal credit record, once per (goal, vessel)
// pair. Duplicates are silent no-ops.
func (s *Store) RecordGoalStatus(gs GoalStatus, vesselIndependent bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.goalFinished(gs.GoalID, gs.VesselID, vesselIndependent) {
		s.log.Debug("duplicate goal status ignored", "goal", gs.GoalID, "vessel", gs.VesselID)
		return false
	}
	s.program.Goals = append(s.program.Goals, gs)
	return true
}

// RecordRecycledVessel marks a vessel recycled. Duplicates are no-ops.
func (s *Store) RecordRecycledVessel(vesselID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.program.RecycledVessels {
		if s.program.RecycledVessels[i].VesselID == vesselID {
			return false
		}
	}
	s.program.RecycledVessels = append(s.program.RecycledVessels, RecycledVessel{VesselID: vesselID})
	return true
}

// MarkPassivePaid stamps the last passive payout time on a status.
func (s *Store) MarkPassivePaid(missionName, vesselID string, paidAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.findMission(missionName, vesselID); m != nil {
		m.LastPassivePaid = paidAt.Unix()
	}
}

// ActivePassiveMissions returns the unexpired passive-mission statuses. As
// a side effect, expired passive statuses are permanently removed (lazy
// garbage collection on read).
func (s *Store) ActivePassiveMissions() []MissionStatus {
	return s.pruneAndCollect(func(m *MissionStatus) bool { return m.PassiveReward > 0 })
}

// ActiveClientControlledMissions returns the unexpired client-controlled
// statuses, removing expired ones as a side effect.
func (s *Store) ActiveClientControlledMissions() []MissionStatus {
	return s.pruneAndCollect(func(m *MissionStatus) bool { return m.ClientControlled })
}

func (s *Store) pruneAndCollect(match func(*MissionStatus) bool) []MissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var active []MissionStatus
	kept := s.program.Missions[:0]
	for i := range s.program.Missions {
		m := s.program.Missions[i]
		if match(&m) && m.Expired(now) {
			s.log.Debug("pruned expired mission status",
				"mission", m.MissionName, "vessel", m.VesselID)
			continue
		}
		kept = append(kept, m)
		if match(&m) {
			active = append(active, m)
		}
	}
	s.program.Missions = kept
	return active
}

// SeedFor returns the stored seed for a randomized mission, creating and
// storing a fresh one on first sight so the instance survives a reload.
func (s *Store) SeedFor(missionName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.program.RandomMissions {
		if s.program.RandomMissions[i].MissionName == missionName {
			return s.program.RandomMissions[i].Seed
		}
	}
	seed := s.seed()
	s.program.RandomMissions = append(s.program.RandomMissions,
		RandomMission{MissionName: missionName, Seed: seed})
	s.log.Debug("seed created", "mission", missionName, "seed", seed)
	return seed
}

// DiscardSeed removes the seed record of a completed randomized mission, so
// the next load draws new parameters.
func (s *Store) DiscardSeed(missionName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.program.RandomMissions[:0]
	for _, r := range s.program.RandomMissions {
		if r.MissionName != missionName {
			kept = append(kept, r)
		}
	}
	s.program.RandomMissions = kept
}

// findMission returns the unexpired status for a (mission, vessel) pair.
// Callers hold the lock.
func (s *Store) findMission(missionName, vesselID string) *MissionStatus {
	now := s.now()
	for i := range s.program.Missions {
		m := &s.program.Missions[i]
		if m.MissionName == missionName && m.VesselID == vesselID && !m.Expired(now) {
			return m
		}
	}
	return nil
}
