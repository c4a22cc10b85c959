package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// SearchParam contains parameters for a search query.
// We use expr lang for the where clause to filter the entities, please refer to its documentation
// for more details: https://expr-lang.org/docs/getting-started.
type SearchParam struct {
	Find  []string    `json:"find"`  // List of component names to search for
	Match SearchMatch `json:"match"` // A match type to use for the search
	Where string      `json:"where"` // Optional expr language string to filter the results.
}

// validateAndGetFilter validates the search parameters and returns an expr VM program compiled
// from the where clause.
func (s *SearchParam) validateAndGetFilter() (*vm.Program, error) {
	if len(s.Find) == 0 {
		return nil, eris.Wrap(ErrInvalidSearch, "component list cannot be empty")
	}

	if s.Match != MatchExact && s.Match != MatchContains {
		return nil, eris.Wrapf(ErrInvalidSearch, "`match` must be either '%s' or '%s'", MatchExact, MatchContains)
	}

	if len(s.Where) == 0 {
		return nil, nil //nolint:nilnil // no filter
	}

	filter, err := expr.Compile(s.Where, expr.AsBool())
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidSearch, "failed to parse where clause: %v", err)
	}

	return filter, nil
}

// SearchMatch is the type of match to use for the search.
type SearchMatch string

const (
	// MatchExact matches entities that have exactly the specified components.
	MatchExact SearchMatch = "exact"
	// MatchContains matches entities that contains the specified components, but may have other
	// components as well.
	MatchContains SearchMatch = "contains"
)

// NewSearch returns the entities that match the given search parameters. Each result maps
// component names to component values, plus "_id" for the entity ID. Structural changes are
// rejected while the search runs.
func (w *World) NewSearch(params SearchParam) ([]map[string]any, error) {
	filter, err := params.validateAndGetFilter()
	if err != nil {
		return nil, eris.Wrap(err, "invalid search params")
	}

	archs, err := w.archetypesFor(params.Find, params.Match)
	if err != nil {
		return nil, eris.Wrap(err, "failed to get archetypes from components")
	}

	ws := w.state
	ws.iterating++
	defer func() { ws.iterating-- }()

	results := make([]map[string]any, 0)
	for _, aid := range archs {
		arch := &ws.archetypes[aid]
		for row, eid := range arch.entities {
			entityMap := toMap(arch, row, eid)

			if filter == nil {
				results = append(results, entityMap)
				continue
			}

			// The entity map is the environment so the program can access the entity data.
			output, err := expr.Run(filter, entityMap)
			if err != nil {
				return nil, eris.Wrapf(ErrInvalidSearch, "failed to run filter expression: %v", err)
			}

			// expr can't type check struct fields at compile time since the environment is only
			// known here, so the result type is checked at runtime.
			isMatch, ok := output.(bool)
			if !ok {
				return nil, eris.Wrap(ErrInvalidSearch, "where clause did not return a bool")
			}
			if isMatch {
				results = append(results, entityMap)
			}
		}
	}

	return results, nil
}

// archetypesFor returns the archetypes that match the given components and match type.
func (w *World) archetypesFor(compNames []string, match SearchMatch) ([]archetypeID, error) {
	components := bitmap.Bitmap{}
	for _, name := range compNames {
		id, err := w.state.components.getID(name)
		if err != nil {
			return nil, err
		}
		components.Set(id)
	}

	switch match {
	case MatchExact:
		if aid, ok := w.state.archExact(components); ok {
			return []archetypeID{aid}, nil
		}
		return nil, nil
	case MatchContains:
		return w.state.archContains(components, bitmap.Bitmap{}), nil
	default:
		return nil, eris.Wrapf(ErrInvalidSearch, "unknown match %s", match)
	}
}

// toMap converts an entity to a map of its components.
func toMap(arch *archetype, row int, eid EntityID) map[string]any {
	data := make(map[string]any, arch.compCount+1)

	// expr can't compare EntityID with integer literals, so the ID is stored as a plain integer.
	data["_id"] = uint32(eid)

	for _, col := range arch.columns {
		data[col.name()] = col.getAbstract(row)
	}
	return data
}
