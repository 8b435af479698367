package model

import (
	"log"
	"strings"
)

// Source is the model half of the asset provider. Absent models come back as
// (zero, false); lookup failures are never errors at this layer.
type Source interface {
	ModelFor(name string) (Definition, bool)
}

// Strategy is one step of the model lookup policy. Strategies are tried in
// order and the first hit wins, which keeps the fallback policy data-driven
// instead of a nest of branches.
type Strategy interface {
	Name() string
	Resolve(src Source, name string) (Definition, bool)
}

// DefaultOverrides maps block identifiers that have no model file under their
// own name (state-dependent blocks, fluids) to an explicit model path.
func DefaultOverrides() map[string]string {
	return map[string]string{
		"redstone_wire": "block/redstone_dust_dot",
		"wall_torch":    "block/wall_torch",
		"fire":          "block/fire_floor0",
		"soul_fire":     "block/soul_fire_floor0",
		"water":         "block/water_still",
		"lava":          "block/lava_still",
		"grass":         "block/grass",
		"tall_grass":    "block/tall_grass_bottom",
	}
}

// Resolver turns block identifiers into fully merged model definitions.
type Resolver struct {
	src        Source
	strategies []Strategy
	logger     *log.Logger
}

// Parent chains in practice are 2-4 deep; anything past this bound is a
// definition cycle.
const maxParentDepth = 16

// NewResolver builds a resolver with the standard strategy order: manual
// override, direct block lookup, item fallback, fluid cube, sign board.
// overrides may be nil for the built-in table; logger may be nil.
func NewResolver(src Source, overrides map[string]string, logger *log.Logger) *Resolver {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	return &Resolver{
		src: src,
		strategies: []Strategy{
			overrideStrategy{table: overrides},
			directStrategy{},
			itemStrategy{},
			fluidStrategy{},
			signStrategy{},
		},
		logger: logger,
	}
}

// Resolve returns the merged model for a block identifier. An identifier
// nothing can resolve yields an empty definition (render nothing); callers
// must not treat that as an error.
func (r *Resolver) Resolve(blockID string) Definition {
	return r.resolve(blockID, 0)
}

func (r *Resolver) resolve(ref string, depth int) Definition {
	if depth > maxParentDepth {
		r.logf("model: parent chain too deep at %q", ref)
		return Definition{}
	}
	name := StripNamespace(ref)

	var def Definition
	found := false
	for _, s := range r.strategies {
		if d, ok := s.Resolve(r.src, name); ok {
			def, found = d, true
			break
		}
	}
	if !found {
		r.logf("model: no definition for %q (tried block and item)", ref)
		return Definition{}
	}

	if def.Parent != "" {
		def = Merge(r.resolve(def.Parent, depth+1), def)
	}
	return def
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// lookupModel tries a reference as-is and, when it carries no explicit
// namespace directory, again under block/.
func lookupModel(src Source, name string) (Definition, bool) {
	if d, ok := src.ModelFor(name); ok {
		return d, true
	}
	if !strings.HasPrefix(name, "block/") && !strings.HasPrefix(name, "item/") {
		return src.ModelFor("block/" + name)
	}
	return Definition{}, false
}

type overrideStrategy struct {
	table map[string]string
}

func (s overrideStrategy) Name() string { return "override" }

func (s overrideStrategy) Resolve(src Source, name string) (Definition, bool) {
	mapped, ok := s.table[name]
	if !ok {
		return Definition{}, false
	}
	return lookupModel(src, mapped)
}

type directStrategy struct{}

func (directStrategy) Name() string { return "direct" }

func (directStrategy) Resolve(src Source, name string) (Definition, bool) {
	return lookupModel(src, name)
}

// itemStrategy retries flat blocks (torches, rails, ...) that only ship an
// item model.
type itemStrategy struct{}

func (itemStrategy) Name() string { return "item" }

func (itemStrategy) Resolve(src Source, name string) (Definition, bool) {
	if strings.HasPrefix(name, "item/") {
		return Definition{}, false
	}
	return src.ModelFor("item/" + strings.TrimPrefix(name, "block/"))
}

// fluidStrategy synthesizes a full unit cube for fluids, which have no model
// file at all in the asset pack.
type fluidStrategy struct{}

func (fluidStrategy) Name() string { return "fluid" }

func (fluidStrategy) Resolve(_ Source, name string) (Definition, bool) {
	var tex string
	switch name {
	case "water":
		tex = "block/water_still"
	case "lava":
		tex = "block/lava_still"
	default:
		return Definition{}, false
	}
	return Definition{
		Elements: []Element{fullCube()},
		Textures: map[string]string{"all": tex},
	}, true
}

// signStrategy synthesizes a thin board for sign blocks, textured with the
// plank texture of the sign's wood type.
type signStrategy struct{}

func (signStrategy) Name() string { return "sign" }

func (signStrategy) Resolve(_ Source, name string) (Definition, bool) {
	if !strings.Contains(name, "_sign") {
		return Definition{}, false
	}
	wood := strings.TrimSuffix(strings.TrimSuffix(name, "_sign"), "_wall")
	board := fullCube()
	board.From = [3]float64{0, 4, 0}
	board.To = [3]float64{16, 12, 2}
	return Definition{
		Elements: []Element{board},
		Textures: map[string]string{"all": "block/" + wood + "_planks"},
	}, true
}

func fullCube() Element {
	faces := make(map[string]FaceSpec, 6)
	for _, dir := range []string{"up", "down", "north", "south", "east", "west"} {
		faces[dir] = FaceSpec{Texture: "#all"}
	}
	return Element{
		From:  [3]float64{0, 0, 0},
		To:    [3]float64{16, 16, 16},
		Faces: faces,
	}
}
