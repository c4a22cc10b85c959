package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/rotisserie/eris"
)

type InstantMoverSystemState struct {
	ecs.BaseSystemState
	Settings ecs.WithResource[Settings]
	Movers   ecs.Contains[struct {
		Position    ecs.Ref[component.Position]
		Orientation ecs.Ref[component.Orientation]
		Intent      ecs.Read[component.Intent]
		NoAnimation ecs.Without[component.Animation]
	}]
}

// InstantMoverSystem resolves move and turn intents that have no animation in a single tick.
// Look and ControlCamera intents are left to the camera.
func InstantMoverSystem(state *InstantMoverSystemState) error {
	tileSize := state.Settings.Get().TileSize

	for eid, mover := range state.Movers.Iter() {
		switch a := mover.Intent.Get().Action.(type) {
		case component.Move:
			pos := mover.Position.Get()
			pos.Vec3 = movement.Step(pos.Vec3, mover.Orientation.Get().Facing, a.Direction, tileSize)
			mover.Position.Set(pos)
		case component.Turn:
			facing := mover.Orientation.Get().Facing.Turn(a.Direction)
			mover.Orientation.Set(component.NewOrientation(facing))
		case component.Look, component.ControlCamera:
			continue
		default:
			return eris.Wrapf(ErrUnreachableAction, "entity %d reached the instant mover with %v", eid, a)
		}
		ecs.BufferRemove[component.Intent](state.Buffer(), eid)
	}
	return nil
}

type AnimatedMoverSystemState struct {
	ecs.BaseSystemState
	Settings ecs.WithResource[Settings]
	Movers   ecs.Contains[struct {
		Position    ecs.Ref[component.Position]
		Orientation ecs.Ref[component.Orientation]
		Intent      ecs.Read[component.Intent]
		Animation   ecs.Read[component.Animation]
	}]
}

// AnimatedMoverSystem applies one frame of every animated move or turn. Intermediate frames step
// by a fraction of the full transition; the last frame lands exactly on the target computed from
// the animation's starting snapshot.
func AnimatedMoverSystem(state *AnimatedMoverSystemState) error {
	tileSize := state.Settings.Get().TileSize

	for eid, mover := range state.Movers.Iter() {
		anim := mover.Animation.Get()
		frames := float64(anim.Frames)

		switch a := mover.Intent.Get().Action.(type) {
		case component.Move:
			effect, ok := anim.Effect.(component.Translate)
			if !ok {
				return eris.Wrapf(ErrInvariant, "entity %d moves with a %T animation", eid, anim.Effect)
			}
			facing := mover.Orientation.Get().Facing
			pos := mover.Position.Get()
			if anim.Last() {
				pos.Vec3 = movement.Step(effect.From.Vec3, facing, a.Direction, tileSize)
			} else {
				pos.Vec3 = pos.Add(movement.Translation(facing, a.Direction, tileSize/frames))
			}
			mover.Position.Set(pos)

		case component.Turn:
			effect, ok := anim.Effect.(component.Rotate)
			if !ok {
				return eris.Wrapf(ErrInvariant, "entity %d turns with a %T animation", eid, anim.Effect)
			}
			orientation := mover.Orientation.Get()
			if anim.Last() {
				orientation = component.NewOrientation(effect.From.Facing.Turn(a.Direction))
			} else {
				orientation.Yaw += a.Direction.YawDelta() / frames
			}
			mover.Orientation.Set(orientation)

		default:
			return eris.Wrapf(ErrUnreachableAction, "entity %d reached the animated mover with %v", eid, a)
		}
	}
	return nil
}
