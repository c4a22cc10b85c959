package ecs

import (
	"slices"

	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// Create creates an entity with the given components. Every component type must already be
// registered, either with RegisterComponent or through a system that uses it. Returns
// ErrWorldLocked when called while a search is iterating.
func Create(ws *WorldState, components ...Component) (EntityID, error) {
	eid, err := ws.newEntityWithArchetype(bitmap.Bitmap{})
	if err != nil {
		return 0, err
	}
	for _, c := range components {
		if err := setAbstract(ws, eid, c); err != nil {
			return 0, eris.Wrapf(err, "failed to set component %s", c.Name())
		}
	}
	return eid, nil
}

// Destroy deletes an entity and all its components from the world.
func Destroy(ws *WorldState, eid EntityID) error {
	return ws.removeEntity(eid)
}

// Alive checks if an entity exists in the world.
func Alive(ws *WorldState, eid EntityID) bool {
	_, exists := ws.entityArch.get(eid)
	return exists
}

// Set sets a component on an entity. If the entity contains the component type, it will update the
// value. If it doesn't, it will add the component, which is a structural change.
func Set[T Component](ws *WorldState, eid EntityID, component T) error {
	cid, err := registerComponent[T](ws)
	if err != nil {
		return err
	}

	arch, err := ws.archetypeOf(eid)
	if err != nil {
		return err
	}

	if !arch.has(cid) {
		components := arch.components.Clone(nil)
		components.Set(cid)
		if arch, err = ws.moveEntity(eid, components); err != nil {
			return err
		}
	}

	row, _ := arch.rows.get(eid)
	columnOf[T](arch).set(row, component)
	return nil
}

// Get gets a component from an entity.
// Returns an error if the entity doesn't exist or doesn't contain the component type.
func Get[T Component](ws *WorldState, eid EntityID) (T, error) {
	var zero T

	arch, err := ws.archetypeOf(eid)
	if err != nil {
		return zero, err
	}

	cid, err := ws.components.getID(zero.Name())
	if err != nil {
		return zero, err
	}
	if !arch.has(cid) {
		return zero, eris.Wrapf(ErrComponentNotFound, "entity %d doesn't have %s", eid, zero.Name())
	}

	row, _ := arch.rows.get(eid)
	return columnOf[T](arch).get(row), nil
}

// Remove removes a component from an entity. This is a structural change.
// Returns an error if the entity or the component to remove doesn't exist.
func Remove[T Component](ws *WorldState, eid EntityID) error {
	var zero T

	arch, err := ws.archetypeOf(eid)
	if err != nil {
		return err
	}

	cid, err := ws.components.getID(zero.Name())
	if err != nil {
		return err
	}
	if !arch.has(cid) {
		return eris.Wrapf(ErrComponentNotFound, "entity %d doesn't have %s", eid, zero.Name())
	}

	components := arch.components.Clone(nil)
	components.Remove(cid)
	_, err = ws.moveEntity(eid, components)
	return err
}

// Has checks if an entity has a specific component type.
// Returns false if either the entity doesn't exist or doesn't have the component.
func Has[T Component](ws *WorldState, eid EntityID) bool {
	_, err := Get[T](ws, eid)
	return err == nil
}

// EntitiesWith returns the entities that have T, in ascending ID order.
func EntitiesWith[T Component](ws *WorldState) ([]EntityID, error) {
	var zero T
	cid, err := ws.components.getID(zero.Name())
	if err != nil {
		return nil, err
	}

	var entities []EntityID
	for i := range ws.archetypes {
		if ws.archetypes[i].has(cid) {
			entities = append(entities, ws.archetypes[i].entities...)
		}
	}
	slices.Sort(entities)
	return entities, nil
}

// setAbstract adds or updates a component when its concrete type is only known at runtime. The
// component type must have been registered through its concrete type before.
func setAbstract(ws *WorldState, eid EntityID, component Component) error {
	cid, err := ws.components.getID(component.Name())
	if err != nil {
		return err
	}

	arch, err := ws.archetypeOf(eid)
	if err != nil {
		return err
	}

	if !arch.has(cid) {
		components := arch.components.Clone(nil)
		components.Set(cid)
		if arch, err = ws.moveEntity(eid, components); err != nil {
			return err
		}
	}

	row, _ := arch.rows.get(eid)
	arch.column(component.Name()).setAbstract(row, component)
	return nil
}

// columnOf returns the typed column for T. Expects the archetype to contain T.
func columnOf[T Component](arch *archetype) *column[T] {
	var zero T
	col, ok := arch.column(zero.Name()).(*column[T])
	assert.That(ok, "archetype %d has no column for %s", arch.id, zero.Name())
	return col
}
