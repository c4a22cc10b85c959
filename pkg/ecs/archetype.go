package ecs

import (
	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/kelindar/bitmap"
)

// archetypeID is the index of an archetype in WorldState.archetypes.
type archetypeID = int

// archetype represents a collection of entities with the same component types.
// NOTE: We store compCount instead of using Bitmap.Count() because counting bits is O(n). Columns
// are a slice instead of a map because it's faster for a small number of components.
type archetype struct {
	id         archetypeID   // Corresponds to the index in the archetypes array
	components bitmap.Bitmap // Bitmap of components contained in this archetype
	rows       sparseSet     // Entity ID -> row in entities and columns
	entities   []EntityID    // Entities of this archetype, indexed by row
	columns    []abstractColumn
	compCount  int // Number of component types in the archetype
}

func newArchetype(aid archetypeID, components bitmap.Bitmap, columns []abstractColumn) archetype {
	assert.That(components.Count() == len(columns), "mismatched number of columns and components")
	return archetype{
		id:         aid,
		components: components,
		rows:       newSparseSet(),
		entities:   make([]EntityID, 0),
		columns:    columns,
		compCount:  len(columns),
	}
}

// exact returns true if the archetype holds exactly the given components.
func (a *archetype) exact(components bitmap.Bitmap) bool {
	if a.compCount != components.Count() {
		return false
	}
	return a.contains(components)
}

// contains returns true if the archetype contains all of the given components.
func (a *archetype) contains(components bitmap.Bitmap) bool {
	intersect := components.Clone(nil)
	intersect.And(a.components)
	return intersect.Count() == components.Count()
}

// excludes returns true if the archetype contains none of the given components.
func (a *archetype) excludes(components bitmap.Bitmap) bool {
	intersect := components.Clone(nil)
	intersect.And(a.components)
	return intersect.Count() == 0
}

// has returns true if the archetype contains the component.
func (a *archetype) has(cid componentID) bool {
	return a.components.Contains(cid)
}

// column returns the column holding the named component, or nil.
func (a *archetype) column(name string) abstractColumn {
	for _, col := range a.columns {
		if col.name() == name {
			return col
		}
	}
	return nil
}

// newEntity adds the entity to the archetype with zero-valued components.
func (a *archetype) newEntity(eid EntityID) int {
	a.entities = append(a.entities, eid)

	for _, column := range a.columns {
		column.extend()
		assert.That(column.len() == len(a.entities), "column components length doesn't match entities")
	}

	row := len(a.entities) - 1
	a.rows.set(eid, row)
	return row
}

// removeEntity swaps the last entity into the removed entity's row. Expects the caller to check
// that the entity belongs to this archetype.
func (a *archetype) removeEntity(eid EntityID) {
	row, exists := a.rows.get(eid)
	assert.That(exists, "entity %d is not in archetype %d", eid, a.id)

	lastIndex := len(a.entities) - 1
	a.entities[row] = a.entities[lastIndex]
	a.entities = a.entities[:lastIndex]

	for _, column := range a.columns {
		column.remove(row)
		assert.That(column.len() == len(a.entities), "column components length doesn't match entities")
	}

	ok := a.rows.remove(eid)
	assert.That(ok, "entity isn't removed from sparse set")

	if row == lastIndex {
		return
	}
	a.rows.set(a.entities[row], row)
}

// moveEntity moves an entity into destination, copying the components both archetypes share.
func (a *archetype) moveEntity(destination *archetype, eid EntityID) {
	row, exists := a.rows.get(eid)
	assert.That(exists, "entity %d is not in archetype %d", eid, a.id)

	newRow := destination.newEntity(eid)
	for _, dst := range destination.columns {
		if src := a.column(dst.name()); src != nil {
			dst.setAbstract(newRow, src.getAbstract(row))
		}
	}

	a.removeEntity(eid)
}
