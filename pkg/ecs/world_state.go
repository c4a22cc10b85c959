package ecs

import (
	"math"

	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// MaxEntityID is the maximum entity ID that can be created.
const MaxEntityID = math.MaxUint32 - 1

// EntityID is a unique identifier for an entity. IDs of destroyed entities are reused.
type EntityID uint32

// WorldState holds every entity and component in the world.
type WorldState struct {
	components componentManager // Registered component types
	nextID     EntityID         // The next ID to allocate if no free IDs are available
	free       []EntityID       // FIFO queue of destroyed IDs
	entityArch sparseSet        // Entity ID -> archetype ID
	archetypes []archetype      // Index is the archetype ID
	iterating  int              // Number of searches currently iterating
}

func newWorldState() *WorldState {
	ws := &WorldState{
		components: newComponentManager(),
		nextID:     0,
		free:       make([]EntityID, 0),
		entityArch: newSparseSet(),
		archetypes: make([]archetype, 0),
	}
	// Archetype 0 is the empty archetype every new entity starts in.
	ws.findOrCreateArchetype(bitmap.Bitmap{})
	return ws
}

// locked reports whether structural changes are currently rejected.
func (ws *WorldState) locked() bool {
	return ws.iterating > 0
}

// findOrCreateArchetype returns the archetype holding exactly components, creating it if needed.
func (ws *WorldState) findOrCreateArchetype(components bitmap.Bitmap) archetypeID {
	if aid, ok := ws.archExact(components); ok {
		return aid
	}

	columns := make([]abstractColumn, 0, components.Count())
	components.Range(func(cid uint32) {
		columns = append(columns, ws.components.factories[cid]())
	})

	aid := len(ws.archetypes)
	ws.archetypes = append(ws.archetypes, newArchetype(aid, components.Clone(nil), columns))
	return aid
}

// archExact returns the archetype that exactly matches the given components.
func (ws *WorldState) archExact(components bitmap.Bitmap) (archetypeID, bool) {
	for i := range ws.archetypes {
		if ws.archetypes[i].exact(components) {
			return i, true
		}
	}
	return 0, false
}

// archContains returns the archetypes containing every component in include and none in exclude.
func (ws *WorldState) archContains(include, exclude bitmap.Bitmap) []archetypeID {
	var ids []archetypeID
	for i := range ws.archetypes {
		if ws.archetypes[i].contains(include) && ws.archetypes[i].excludes(exclude) {
			ids = append(ids, i)
		}
	}
	return ids
}

// archetypeOf returns the archetype an entity lives in.
func (ws *WorldState) archetypeOf(eid EntityID) (*archetype, error) {
	aid, ok := ws.entityArch.get(eid)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", eid)
	}
	return &ws.archetypes[aid], nil
}

// -------------------------------------------------------------------------------------------------
// Entity operations
// -------------------------------------------------------------------------------------------------

// allocateID pops the oldest free ID or allocates a new one.
func (ws *WorldState) allocateID() (EntityID, error) {
	if len(ws.free) > 0 {
		id := ws.free[0]
		ws.free = ws.free[1:]
		return id, nil
	}
	if ws.nextID > MaxEntityID {
		return 0, eris.New("max number of entities exceeded")
	}
	id := ws.nextID
	ws.nextID++
	return id, nil
}

// newEntityWithArchetype creates an entity with zero-valued components.
func (ws *WorldState) newEntityWithArchetype(components bitmap.Bitmap) (EntityID, error) {
	if ws.locked() {
		return 0, eris.Wrap(ErrWorldLocked, "failed to create entity")
	}
	eid, err := ws.allocateID()
	if err != nil {
		return 0, err
	}
	aid := ws.findOrCreateArchetype(components)
	ws.archetypes[aid].newEntity(eid)
	ws.entityArch.set(eid, aid)
	return eid, nil
}

// removeEntity destroys an entity and frees its ID.
func (ws *WorldState) removeEntity(eid EntityID) error {
	if ws.locked() {
		return eris.Wrap(ErrWorldLocked, "failed to destroy entity")
	}
	arch, err := ws.archetypeOf(eid)
	if err != nil {
		return err
	}
	arch.removeEntity(eid)
	ws.entityArch.remove(eid)
	ws.free = append(ws.free, eid)
	return nil
}

// moveEntity moves an entity to the archetype matching components.
func (ws *WorldState) moveEntity(eid EntityID, components bitmap.Bitmap) (*archetype, error) {
	if ws.locked() {
		return nil, eris.Wrap(ErrWorldLocked, "failed to change entity components")
	}
	current, err := ws.archetypeOf(eid)
	if err != nil {
		return nil, err
	}
	currentID := current.id

	// findOrCreateArchetype may grow the archetypes slice, so pointers are taken afterwards.
	destID := ws.findOrCreateArchetype(components)
	assert.That(destID != currentID, "entity moved into its existing archetype")

	ws.archetypes[currentID].moveEntity(&ws.archetypes[destID], eid)
	ws.entityArch.set(eid, destID)
	return &ws.archetypes[destID], nil
}

// Count returns the number of live entities.
func (ws *WorldState) Count() int {
	total := 0
	for i := range ws.archetypes {
		total += len(ws.archetypes[i].entities)
	}
	return total
}
