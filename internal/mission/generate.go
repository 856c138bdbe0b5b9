package mission

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"

	"github.com/missionctl/engine/internal/codec"
	"github.com/missionctl/engine/internal/expr"
	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/internal/tree"
)

// Generator turns definition text into mission instances bound to a vessel.
// For randomized missions it threads an RNG seeded from the program store's
// persisted seed record, so reloading a mission before completion
// reproduces byte-identical goal parameters.
type Generator struct {
	store *program.Store
	reg   *codec.Registry
	log   *slog.Logger
}

// NewGenerator creates a generator over the default goal-kind registry.
func NewGenerator(store *program.Store, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{store: store, reg: DefaultRegistry(), log: log}
}

// LoadMission parses a single-mission definition file and instantiates it
// for the given vessel.
func (g *Generator) LoadMission(text, vesselID string) (*Mission, error) {
	node, err := tree.ParseOne(text)
	if err != nil {
		return nil, err
	}
	if node.Name != "Mission" {
		return nil, fmt.Errorf("expected a Mission block, found %q", node.Name)
	}
	return g.instantiate(node, text, vesselID)
}

// LoadPackage parses a package file holding a MissionPackage block and
// instantiates every mission in it. Unless the package sets ownOrder, the
// missions are sorted by name.
func (g *Generator) LoadPackage(text, vesselID string) (*Package, error) {
	node, err := tree.ParseOne(text)
	if err != nil {
		return nil, err
	}
	if node.Name != "MissionPackage" {
		return nil, fmt.Errorf("expected a MissionPackage block, found %q", node.Name)
	}

	pkg := &Package{}
	if pkg.Name, _ = node.ScalarValue("name"); pkg.Name == "" {
		return nil, &codec.MissingFieldError{Block: node.Name, Field: "name"}
	}
	pkg.Description, _ = node.ScalarValue("description")
	if raw, ok := node.ScalarValue("ownOrder"); ok {
		pkg.OwnOrder, _ = strconv.ParseBool(raw)
	}

	for _, child := range node.All("Mission") {
		// Each mission keeps its own source so a randomized one can be
		// regenerated independently after completion.
		src := tree.Write(child)
		m, err := g.instantiate(child, src, vesselID)
		if err != nil {
			return nil, err
		}
		pkg.Missions = append(pkg.Missions, m)
	}

	if !pkg.OwnOrder {
		sort.SliceStable(pkg.Missions, func(i, j int) bool {
			return pkg.Missions[i].Name < pkg.Missions[j].Name
		})
	}
	return pkg, nil
}

// Regenerate builds a fresh instance of a mission from its retained source.
// Called after a randomized mission completes and its seed is discarded, so
// the new instance draws new parameters.
func (g *Generator) Regenerate(m *Mission, vesselID string) (*Mission, error) {
	if m.source == "" {
		return nil, fmt.Errorf("mission %q has no retained source", m.Name)
	}
	return g.LoadMission(m.source, vesselID)
}

func (g *Generator) instantiate(node *tree.Node, source, vesselID string) (*Mission, error) {
	name, ok := node.ScalarValue("name")
	if !ok {
		return nil, &codec.MissingFieldError{Block: node.Name, Field: "name"}
	}

	// Randomized missions resolve expressions with the persisted seed;
	// anything else gets entropy, since stability is not required.
	var rng *rand.Rand
	if raw, ok := node.ScalarValue("randomized"); ok {
		if randomized, _ := strconv.ParseBool(raw); randomized {
			seed := g.store.SeedFor(name)
			rng = rand.New(rand.NewSource(seed))
			g.log.Debug("randomized mission instance", "mission", name, "seed", seed)
		}
	}
	if err := expr.New(rng).EvaluateTree(node); err != nil {
		return nil, fmt.Errorf("mission %q: %w", name, err)
	}

	obj, err := codec.Decode(node, Schema(g.reg))
	if err != nil {
		return nil, err
	}
	m := obj.(*Mission)
	m.source = source

	for i, goal := range m.Goals {
		b := goal.Base()
		b.ID = fmt.Sprintf("%s__PART%d", m.Name, i+1)
		b.Repeatable = m.Repeatable
		if b.NonPermanent && g.store.IsGoalAlreadyFinished(b.ID, vesselID, b.VesselIndependent) {
			// Already paid for this vessel; do not re-offer on resume.
			b.DoneOnce = true
		}
	}
	return m, nil
}
