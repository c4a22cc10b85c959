package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/google/uuid"
)

type SpawnPlayerSystemState struct {
	ecs.BaseSystemState
	Settings ecs.WithResource[Settings]
	Map      ecs.WithResource[tilemap.TileMap[uuid.UUID]]
	Players  ecs.Contains[struct {
		Player      ecs.Ref[component.Player]
		Name        ecs.Ref[component.Name]
		Position    ecs.Ref[component.Position]
		Orientation ecs.Ref[component.Orientation]
		Camera      ecs.Ref[component.Camera]
	}]
}

// SpawnPlayerSystem creates the player one tile above the start floor, facing north.
func SpawnPlayerSystem(state *SpawnPlayerSystemState) error {
	settings := state.Settings.Get()
	start := state.Map.Get().Start().Add(movement.Vec3{Y: settings.TileSize})

	eid, player, err := state.Players.Create()
	if err != nil {
		return err
	}
	player.Name.Set(component.Name{Value: settings.PlayerName})
	player.Position.Set(component.Position{Vec3: start})
	player.Orientation.Set(component.NewOrientation(movement.North))

	state.Logger().Info().
		Uint32("entity", uint32(eid)).
		Float64("x", start.X).
		Float64("z", start.Z).
		Msg("spawned player")
	return nil
}
