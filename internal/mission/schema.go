package mission

import (
	"time"

	"github.com/missionctl/engine/internal/codec"
)

// DefaultRegistry returns the goal-kind registry with every built-in kind
// bound to its discriminator. Adding a goal kind is a registration here,
// not a change to the codec or the evaluator.
func DefaultRegistry() *codec.Registry {
	r := codec.NewRegistry()
	r.Register("OrbitGoal", orbitGoalSchema())
	r.Register("LandingGoal", landingGoalSchema())
	r.Register("EVAGoal", evaGoalSchema())
	r.Register("ResourceGoal", resourceGoalSchema())
	r.Register("DockingGoal", dockingGoalSchema())
	return r
}

// Schema declares the Mission block shape. Goal blocks are polymorphic:
// the block name itself is the variant discriminator.
func Schema(reg *codec.Registry) *codec.Schema {
	return &codec.Schema{
		Name: "Mission",
		New:  func() any { return &Mission{} },
		Fields: []codec.Field{
			{Name: "name", Kind: codec.String,
				Get: func(o any) any { return o.(*Mission).Name },
				Set: func(o, v any) { o.(*Mission).Name = v.(string) }},
			{Name: "description", Kind: codec.String, Optional: true,
				Get: func(o any) any { return o.(*Mission).Description },
				Set: func(o, v any) { o.(*Mission).Description = v.(string) }},
			{Name: "reward", Kind: codec.Int, Optional: true,
				Get: func(o any) any { return o.(*Mission).Reward },
				Set: func(o, v any) { o.(*Mission).Reward = v.(int64) }},
			{Name: "repeatable", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*Mission).Repeatable },
				Set: func(o, v any) { o.(*Mission).Repeatable = v.(bool) }},
			{Name: "randomized", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*Mission).Randomized },
				Set: func(o, v any) { o.(*Mission).Randomized = v.(bool) }},
			{Name: "lifetime", Kind: codec.Duration, Optional: true,
				Get: func(o any) any { return o.(*Mission).Lifetime },
				Set: func(o, v any) { o.(*Mission).Lifetime = v.(time.Duration) }},
			{Name: "categories", Kind: codec.StringList, Optional: true,
				Get: func(o any) any { return o.(*Mission).Categories },
				Set: func(o, v any) { o.(*Mission).Categories = v.([]string) }},
			{Name: "clientControlled", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*Mission).ClientControlled },
				Set: func(o, v any) { o.(*Mission).ClientControlled = v.(bool) }},
			{Name: "passiveMission", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*Mission).Passive },
				Set: func(o, v any) { o.(*Mission).Passive = v.(bool) }},
			{Name: "passiveReward", Kind: codec.Int, Optional: true,
				Get: func(o any) any { return o.(*Mission).PassiveReward },
				Set: func(o, v any) { o.(*Mission).PassiveReward = v.(int64) }},
			{Name: "goals", Kind: codec.Variants, Registry: reg,
				Append: func(o, e any) {
					m := o.(*Mission)
					m.Goals = append(m.Goals, e.(Goal))
				},
				Elems: func(o any) []any {
					m := o.(*Mission)
					out := make([]any, len(m.Goals))
					for i, g := range m.Goals {
						out[i] = g
					}
					return out
				},
				VariantName: func(e any) string { return e.(Goal).Kind() }},
		},
	}
}

// PackageSchema declares the MissionPackage block shape.
func PackageSchema(reg *codec.Registry) *codec.Schema {
	return &codec.Schema{
		Name: "MissionPackage",
		New:  func() any { return &Package{} },
		Fields: []codec.Field{
			{Name: "name", Kind: codec.String,
				Get: func(o any) any { return o.(*Package).Name },
				Set: func(o, v any) { o.(*Package).Name = v.(string) }},
			{Name: "description", Kind: codec.String, Optional: true,
				Get: func(o any) any { return o.(*Package).Description },
				Set: func(o, v any) { o.(*Package).Description = v.(string) }},
			{Name: "ownOrder", Kind: codec.Bool, Optional: true,
				Get: func(o any) any { return o.(*Package).OwnOrder },
				Set: func(o, v any) { o.(*Package).OwnOrder = v.(bool) }},
			{Name: "Mission", Kind: codec.Blocks, Schema: Schema(reg),
				Append: func(o, e any) {
					p := o.(*Package)
					p.Missions = append(p.Missions, e.(*Mission))
				},
				Elems: func(o any) []any {
					p := o.(*Package)
					out := make([]any, len(p.Missions))
					for i, m := range p.Missions {
						out[i] = m
					}
					return out
				}},
		},
	}
}

// baseFields returns the schema fields shared by every goal kind. The base
// accessor digs the embedded GoalBase out of the concrete goal.
func baseFields(base func(o any) *GoalBase) []codec.Field {
	return []codec.Field{
		{Name: "description", Kind: codec.String, Optional: true,
			Get: func(o any) any { return base(o).Description },
			Set: func(o, v any) { base(o).Description = v.(string) }},
		{Name: "optional", Kind: codec.Bool, Optional: true,
			Get: func(o any) any { return base(o).Optional },
			Set: func(o, v any) { base(o).Optional = v.(bool) }},
		{Name: "nonPermanent", Kind: codec.Bool, Optional: true,
			Get: func(o any) any { return base(o).NonPermanent },
			Set: func(o, v any) { base(o).NonPermanent = v.(bool) }},
		{Name: "reward", Kind: codec.Int, Optional: true,
			Get: func(o any) any { return base(o).Reward },
			Set: func(o, v any) { base(o).Reward = v.(int64) }},
		{Name: "vesselIndependent", Kind: codec.Bool, Optional: true,
			Get: func(o any) any { return base(o).VesselIndependent },
			Set: func(o, v any) { base(o).VesselIndependent = v.(bool) }},
		{Name: "throttleDown", Kind: codec.Bool, Optional: true,
			Get: func(o any) any { return base(o).ThrottleDown },
			Set: func(o, v any) { base(o).ThrottleDown = v.(bool) }},
	}
}

func floatField(name string, get func(o any) *float64) codec.Field {
	return codec.Field{Name: name, Kind: codec.Float, Optional: true,
		Get: func(o any) any { return *get(o) },
		Set: func(o, v any) { *get(o) = v.(float64) }}
}

func orbitGoalSchema() *codec.Schema {
	base := func(o any) *GoalBase { return &o.(*OrbitGoal).GoalBase }
	fields := baseFields(base)
	fields = append(fields,
		codec.Field{Name: "body", Kind: codec.String, Optional: true,
			Get: func(o any) any { return o.(*OrbitGoal).Body },
			Set: func(o, v any) { o.(*OrbitGoal).Body = v.(string) }},
		floatField("minApA", func(o any) *float64 { return &o.(*OrbitGoal).MinApA }),
		floatField("maxApA", func(o any) *float64 { return &o.(*OrbitGoal).MaxApA }),
		floatField("minPeA", func(o any) *float64 { return &o.(*OrbitGoal).MinPeA }),
		floatField("maxPeA", func(o any) *float64 { return &o.(*OrbitGoal).MaxPeA }),
		floatField("minEccentricity", func(o any) *float64 { return &o.(*OrbitGoal).MinEccentricity }),
		floatField("maxEccentricity", func(o any) *float64 { return &o.(*OrbitGoal).MaxEccentricity }),
		floatField("minInclination", func(o any) *float64 { return &o.(*OrbitGoal).MinInclination }),
		floatField("maxInclination", func(o any) *float64 { return &o.(*OrbitGoal).MaxInclination }),
	)
	return &codec.Schema{New: func() any { return &OrbitGoal{} }, Fields: fields}
}

func landingGoalSchema() *codec.Schema {
	base := func(o any) *GoalBase { return &o.(*LandingGoal).GoalBase }
	fields := append(baseFields(base),
		codec.Field{Name: "body", Kind: codec.String,
			Get: func(o any) any { return o.(*LandingGoal).Body },
			Set: func(o, v any) { o.(*LandingGoal).Body = v.(string) }},
	)
	return &codec.Schema{New: func() any { return &LandingGoal{} }, Fields: fields}
}

func evaGoalSchema() *codec.Schema {
	base := func(o any) *GoalBase { return &o.(*EVAGoal).GoalBase }
	fields := append(baseFields(base),
		codec.Field{Name: "body", Kind: codec.String, Optional: true,
			Get: func(o any) any { return o.(*EVAGoal).Body },
			Set: func(o, v any) { o.(*EVAGoal).Body = v.(string) }},
	)
	return &codec.Schema{New: func() any { return &EVAGoal{} }, Fields: fields}
}

func resourceGoalSchema() *codec.Schema {
	base := func(o any) *GoalBase { return &o.(*ResourceGoal).GoalBase }
	fields := append(baseFields(base),
		codec.Field{Name: "name", Kind: codec.String,
			Get: func(o any) any { return o.(*ResourceGoal).Name },
			Set: func(o, v any) { o.(*ResourceGoal).Name = v.(string) }},
		floatField("minAmount", func(o any) *float64 { return &o.(*ResourceGoal).MinAmount }),
		floatField("maxAmount", func(o any) *float64 { return &o.(*ResourceGoal).MaxAmount }),
	)
	return &codec.Schema{New: func() any { return &ResourceGoal{} }, Fields: fields}
}

func dockingGoalSchema() *codec.Schema {
	base := func(o any) *GoalBase { return &o.(*DockingGoal).GoalBase }
	fields := append(baseFields(base),
		codec.Field{Name: "vesselName", Kind: codec.String, Optional: true,
			Get: func(o any) any { return o.(*DockingGoal).VesselName },
			Set: func(o, v any) { o.(*DockingGoal).VesselName = v.(string) }},
	)
	return &codec.Schema{New: func() any { return &DockingGoal{} }, Fields: fields}
}
