package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/argus-labs/blobber/pkg/statsd"
	"github.com/google/uuid"
)

type ColliderSystemState struct {
	ecs.BaseSystemState
	Map    ecs.WithResource[tilemap.TileMap[uuid.UUID]]
	Movers ecs.Contains[struct {
		Position    ecs.Read[component.Position]
		Orientation ecs.Read[component.Orientation]
		Intent      ecs.Read[component.Intent]
		NoAnimation ecs.Without[component.Animation]
	}]
}

// ColliderSystem cancels move intents whose target cell is occupied by a tile.
func ColliderSystem(state *ColliderSystemState) error {
	m := state.Map.Get()

	for eid, mover := range state.Movers.Iter() {
		move, ok := mover.Intent.Get().Action.(component.Move)
		if !ok {
			continue
		}

		from := mover.Position.Get().Vec3
		target := movement.Step(from, mover.Orientation.Get().Facing, move.Direction, m.TileSize())
		if !m.Collides(target) {
			continue
		}

		ecs.BufferRemove[component.Intent](state.Buffer(), eid)
		statsd.Incr("move.blocked")
		state.Logger().Debug().
			Uint32("entity", uint32(eid)).
			Stringer("direction", move.Direction).
			Msg("collide")
	}
	return nil
}
