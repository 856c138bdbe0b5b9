package program

import (
	"github.com/missionctl/engine/internal/codec"
)

// Schema declares the persisted shape of a SpaceProgram for the codec. The
// field order here is the order records appear in a .sp file.
func Schema() *codec.Schema {
	return &codec.Schema{
		Name: "SpaceProgram",
		New:  func() any { return &SpaceProgram{} },
		Fields: []codec.Field{
			{Name: "money", Kind: codec.Int,
				Get: func(o any) any { return o.(*SpaceProgram).Money },
				Set: func(o, v any) { o.(*SpaceProgram).Money = v.(int64) }},
			{Name: "MissionStatus", Kind: codec.Blocks, Optional: true, Schema: missionStatusSchema(),
				Append: func(o, e any) {
					p := o.(*SpaceProgram)
					p.Missions = append(p.Missions, *e.(*MissionStatus))
				},
				Elems: func(o any) []any {
					p := o.(*SpaceProgram)
					out := make([]any, len(p.Missions))
					for i := range p.Missions {
						out[i] = &p.Missions[i]
					}
					return out
				}},
			{Name: "GoalStatus", Kind: codec.Blocks, Optional: true, Schema: goalStatusSchema(),
				Append: func(o, e any) {
					p := o.(*SpaceProgram)
					p.Goals = append(p.Goals, *e.(*GoalStatus))
				},
				Elems: func(o any) []any {
					p := o.(*SpaceProgram)
					out := make([]any, len(p.Goals))
					for i := range p.Goals {
						out[i] = &p.Goals[i]
					}
					return out
				}},
			{Name: "RandomMission", Kind: codec.Blocks, Optional: true, Schema: randomMissionSchema(),
				Append: func(o, e any) {
					p := o.(*SpaceProgram)
					p.RandomMissions = append(p.RandomMissions, *e.(*RandomMission))
				},
				Elems: func(o any) []any {
					p := o.(*SpaceProgram)
					out := make([]any, len(p.RandomMissions))
					for i := range p.RandomMissions {
						out[i] = &p.RandomMissions[i]
					}
					return out
				}},
			{Name: "RecycledVessel", Kind: codec.Blocks, Optional: true, Schema: recycledVesselSchema(),
				Append: func(o, e any) {
					p := o.(*SpaceProgram)
					p.RecycledVessels = append(p.RecycledVessels, *e.(*RecycledVessel))
				},
				Elems: func(o any) []any {
					p := o.(*SpaceProgram)
					out := make([]any, len(p.RecycledVessels))
					for i := range p.RecycledVessels {
						out[i] = &p.RecycledVessels[i]
					}
					return out
				}},
		},
	}
}

func missionStatusSchema() *codec.Schema {
	return &codec.Schema{
		New: func() any { return &MissionStatus{} },
		Fields: []codec.Field{
			{Name: "missionName", Kind: codec.String,
				Get: func(o any) any { return o.(*MissionStatus).MissionName },
				Set: func(o, v any) { o.(*MissionStatus).MissionName = v.(string) }},
			{Name: "vesselID", Kind: codec.String, Optional: true,
				Get: func(o any) any { return o.(*MissionStatus).VesselID },
				Set: func(o, v any) { o.(*MissionStatus).VesselID = v.(string) }},
			{Name: "endOfLife", Kind: codec.Int, Optional: true,
				Get: func(o any) any { return o.(*MissionStatus).EndOfLife },
				Set: func(o, v any) { o.(*MissionStatus).EndOfLife = v.(int64) }},
			{Name: "passiveReward", Kind: codec.Int, Optional: true,
				Get: func(o any) any { return o.(*MissionStatus).PassiveReward },
				Set: func(o, v any) { o.(*MissionStatus).PassiveReward = v.(int64) }},
			{Name: "lastPassivePaid", Kind: codec.Int, Optional: true,
				Get: func(o any) any { return o.(*MissionStatus).LastPassivePaid },
				Set: func(o, v any) { o.(*MissionStatus).LastPassivePaid = v.(int64) }},
			{Name: "clientControlled", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*MissionStatus).ClientControlled },
				Set: func(o, v any) { o.(*MissionStatus).ClientControlled = v.(bool) }},
		},
	}
}

func goalStatusSchema() *codec.Schema {
	return &codec.Schema{
		New: func() any { return &GoalStatus{} },
		Fields: []codec.Field{
			{Name: "goalID", Kind: codec.String,
				Get: func(o any) any { return o.(*GoalStatus).GoalID },
				Set: func(o, v any) { o.(*GoalStatus).GoalID = v.(string) }},
			{Name: "vesselID", Kind: codec.String, Optional: true,
				Get: func(o any) any { return o.(*GoalStatus).VesselID },
				Set: func(o, v any) { o.(*GoalStatus).VesselID = v.(string) }},
		},
	}
}

func randomMissionSchema() *codec.Schema {
	return &codec.Schema{
		New: func() any { return &RandomMission{} },
		Fields: []codec.Field{
			{Name: "missionName", Kind: codec.String,
				Get: func(o any) any { return o.(*RandomMission).MissionName },
				Set: func(o, v any) { o.(*RandomMission).MissionName = v.(string) }},
			{Name: "seed", Kind: codec.Int,
				Get: func(o any) any { return o.(*RandomMission).Seed },
				Set: func(o, v any) { o.(*RandomMission).Seed = v.(int64) }},
		},
	}
}

func recycledVesselSchema() *codec.Schema {
	return &codec.Schema{
		New: func() any { return &RecycledVessel{} },
		Fields: []codec.Field{
			{Name: "vesselID", Kind: codec.String,
				Get: func(o any) any { return o.(*RecycledVessel).VesselID },
				Set: func(o, v any) { o.(*RecycledVessel).VesselID = v.(string) }},
		},
	}
}
