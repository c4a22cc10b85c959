package ecs

import (
	"testing"

	"github.com/argus-labs/blobber/pkg/testutils"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorldState(t *testing.T) *WorldState {
	t.Helper()
	ws := newWorldState()
	_, err := registerComponent[testutils.Health](ws)
	require.NoError(t, err)
	_, err = registerComponent[testutils.Velocity](ws)
	require.NoError(t, err)
	_, err = registerComponent[testutils.Label](ws)
	require.NoError(t, err)
	return ws
}

func TestSetGetRemove(t *testing.T) {
	t.Parallel()
	ws := newTestWorldState(t)

	eid, err := Create(ws, testutils.Health{HP: 10})
	require.NoError(t, err)

	hp, err := Get[testutils.Health](ws, eid)
	require.NoError(t, err)
	assert.Equal(t, 10, hp.HP)

	// Adding a component moves the entity and keeps existing values.
	require.NoError(t, Set(ws, eid, testutils.Velocity{X: 1}))
	hp, err = Get[testutils.Health](ws, eid)
	require.NoError(t, err)
	assert.Equal(t, 10, hp.HP)
	assert.True(t, Has[testutils.Velocity](ws, eid))

	// Updating an existing component stays in place.
	require.NoError(t, Set(ws, eid, testutils.Health{HP: 3}))
	hp, _ = Get[testutils.Health](ws, eid)
	assert.Equal(t, 3, hp.HP)

	require.NoError(t, Remove[testutils.Velocity](ws, eid))
	assert.False(t, Has[testutils.Velocity](ws, eid))
	assert.True(t, Has[testutils.Health](ws, eid))

	err = Remove[testutils.Velocity](ws, eid)
	assert.True(t, eris.Is(err, ErrComponentNotFound))

	_, err = Get[testutils.Label](ws, eid)
	assert.True(t, eris.Is(err, ErrComponentNotFound))
}

func TestEntitiesWith(t *testing.T) {
	t.Parallel()
	ws := newTestWorldState(t)

	a, err := Create(ws, testutils.Health{HP: 1}, testutils.Velocity{})
	require.NoError(t, err)
	_, err = Create(ws, testutils.Velocity{})
	require.NoError(t, err)
	c, err := Create(ws, testutils.Health{HP: 3})
	require.NoError(t, err)

	got, err := EntitiesWith[testutils.Health](ws)
	require.NoError(t, err)
	assert.Equal(t, []EntityID{a, c}, got)

	got, err = EntitiesWith[testutils.Label](ws)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = EntitiesWith[testutils.Marker](ws)
	assert.True(t, eris.Is(err, ErrComponentNotFound))
}

func TestDestroy_ReusesIDsInOrder(t *testing.T) {
	t.Parallel()
	ws := newTestWorldState(t)

	ids := make([]EntityID, 3)
	for i := range ids {
		var err error
		ids[i], err = Create(ws, testutils.Health{HP: i})
		require.NoError(t, err)
	}

	require.NoError(t, Destroy(ws, ids[1]))
	require.NoError(t, Destroy(ws, ids[0]))
	assert.False(t, Alive(ws, ids[1]))
	assert.Equal(t, 1, ws.Count())

	err := Destroy(ws, ids[1])
	assert.True(t, eris.Is(err, ErrEntityNotFound))

	// Freed IDs are reused first in, first out.
	a, err := Create(ws)
	require.NoError(t, err)
	b, err := Create(ws)
	require.NoError(t, err)
	assert.Equal(t, ids[1], a)
	assert.Equal(t, ids[0], b)

	// The swapped entity in the shared archetype keeps its value.
	hp, err := Get[testutils.Health](ws, ids[2])
	require.NoError(t, err)
	assert.Equal(t, 2, hp.HP)
}

func TestStructuralChangeWhileIterating(t *testing.T) {
	t.Parallel()
	ws := newTestWorldState(t)

	eid, err := Create(ws, testutils.Health{HP: 1})
	require.NoError(t, err)

	ws.iterating++
	assert.True(t, eris.Is(Set(ws, eid, testutils.Velocity{}), ErrWorldLocked))
	assert.True(t, eris.Is(Remove[testutils.Health](ws, eid), ErrWorldLocked))
	assert.True(t, eris.Is(Destroy(ws, eid), ErrWorldLocked))
	_, err = Create(ws)
	assert.True(t, eris.Is(err, ErrWorldLocked))

	// Value updates are allowed.
	require.NoError(t, Set(ws, eid, testutils.Health{HP: 5}))
	ws.iterating--

	require.NoError(t, Set(ws, eid, testutils.Velocity{}))
}

func TestBuffer_FlushInOrder(t *testing.T) {
	t.Parallel()
	ws := newTestWorldState(t)

	eid, err := Create(ws, testutils.Health{HP: 1})
	require.NoError(t, err)

	var buf Buffer
	BufferSet(&buf, eid, testutils.Velocity{X: 2})
	BufferSet(&buf, eid, testutils.Label{Text: "a"})
	BufferRemove[testutils.Health](&buf, eid)
	assert.Equal(t, 3, buf.Len())

	require.NoError(t, buf.Flush(ws))
	assert.Equal(t, 0, buf.Len())
	assert.True(t, Has[testutils.Velocity](ws, eid))
	assert.True(t, Has[testutils.Label](ws, eid))
	assert.False(t, Has[testutils.Health](ws, eid))

	BufferRemove[testutils.Health](&buf, eid)
	buf.Destroy(eid)
	err = buf.Flush(ws)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrComponentNotFound))
	assert.True(t, Alive(ws, eid), "operations after a failure are dropped")
	assert.Equal(t, 0, buf.Len())
}

// -------------------------------------------------------------------------------------------------
// Model-Based Fuzzing
//
// Applies random create/destroy/set/remove operations to the world state and to a map-of-maps
// model, then checks every entity's components against the model.
// -------------------------------------------------------------------------------------------------

type worldOp uint8

const (
	wopCreate  worldOp = 20
	wopDestroy worldOp = 10
	wopSet     worldOp = 45
	wopRemove  worldOp = 25
)

var worldOps = []worldOp{wopCreate, wopDestroy, wopSet, wopRemove}

func TestWorldState_ModelBasedFuzz(t *testing.T) {
	t.Parallel()
	prng := testutils.NewRand(t)
	ws := newTestWorldState(t)

	type entityModel struct {
		health   *testutils.Health
		velocity *testutils.Velocity
	}
	model := make(map[EntityID]*entityModel)

	for range 1 << 13 {
		op := testutils.RandWeightedOp(prng, worldOps)
		if op != wopCreate && len(model) == 0 {
			op = wopCreate
		}

		switch op {
		case wopCreate:
			eid, err := Create(ws)
			require.NoError(t, err)
			_, exists := model[eid]
			require.False(t, exists, "created entity %d already alive", eid)
			model[eid] = &entityModel{}

		case wopDestroy:
			eid := testutils.RandMapKey(prng, model)
			require.NoError(t, Destroy(ws, eid))
			delete(model, eid)

		case wopSet:
			eid := testutils.RandMapKey(prng, model)
			if prng.IntN(2) == 0 {
				h := testutils.Health{HP: prng.IntN(100)}
				require.NoError(t, Set(ws, eid, h))
				model[eid].health = &h
			} else {
				v := testutils.Velocity{X: prng.Float64()}
				require.NoError(t, Set(ws, eid, v))
				model[eid].velocity = &v
			}

		case wopRemove:
			eid := testutils.RandMapKey(prng, model)
			if prng.IntN(2) == 0 {
				err := Remove[testutils.Health](ws, eid)
				assert.Equal(t, model[eid].health != nil, err == nil)
				model[eid].health = nil
			} else {
				err := Remove[testutils.Velocity](ws, eid)
				assert.Equal(t, model[eid].velocity != nil, err == nil)
				model[eid].velocity = nil
			}
		}
	}

	assert.Equal(t, len(model), ws.Count())
	for eid, m := range model {
		require.True(t, Alive(ws, eid))

		h, err := Get[testutils.Health](ws, eid)
		if m.health == nil {
			assert.Error(t, err)
		} else {
			require.NoError(t, err)
			assert.Equal(t, *m.health, h)
		}

		v, err := Get[testutils.Velocity](ws, eid)
		if m.velocity == nil {
			assert.Error(t, err)
		} else {
			require.NoError(t, err)
			assert.Equal(t, *m.velocity, v)
		}
	}
}
