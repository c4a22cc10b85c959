package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/ecs"
)

type AnimationProgressSystemState struct {
	ecs.BaseSystemState
	Animations ecs.Contains[struct {
		Animation ecs.Ref[component.Animation]
	}]
}

// AnimationProgressSystem advances every animation by one frame. A finished animation is removed
// together with the intent that started it.
func AnimationProgressSystem(state *AnimationProgressSystemState) error {
	ws := state.UnsafeWorldState()

	for eid, entity := range state.Animations.Iter() {
		anim := entity.Animation.Get()
		done := anim.Advance()
		entity.Animation.Set(anim)
		if !done {
			continue
		}

		ecs.BufferRemove[component.Animation](state.Buffer(), eid)
		if ecs.Has[component.Intent](ws, eid) {
			ecs.BufferRemove[component.Intent](state.Buffer(), eid)
		}
		state.Logger().Debug().Uint32("entity", uint32(eid)).Msg("animation done")
	}
	return nil
}

type AnimationStartSystemState struct {
	ecs.BaseSystemState
	Settings ecs.WithResource[Settings]
	Movers   ecs.Contains[struct {
		Position    ecs.Read[component.Position]
		Orientation ecs.Read[component.Orientation]
		Intent      ecs.Read[component.Intent]
		NoAnimation ecs.Without[component.Animation]
	}]
}

// AnimationStartSystem pairs move and turn intents with a new animation that snapshots the state
// the transition starts from.
func AnimationStartSystem(state *AnimationStartSystemState) error {
	frames := state.Settings.Get().Frames

	for eid, mover := range state.Movers.Iter() {
		var effect component.Effect
		switch a := mover.Intent.Get().Action.(type) {
		case component.Move:
			effect = component.Translate{From: mover.Position.Get(), Direction: a.Direction}
		case component.Turn:
			effect = component.Rotate{From: mover.Orientation.Get(), Direction: a.Direction}
		default:
			continue
		}
		ecs.BufferSet(state.Buffer(), eid, component.NewAnimation(effect, frames))
	}
	return nil
}
