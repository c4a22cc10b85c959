package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/argus-labs/blobber/pkg/ecs"
)

type InputSystemState struct {
	ecs.BaseSystemState
	Queue    ecs.WithResource[input.Queue]
	Settings ecs.WithResource[Settings]
	Players  ecs.Contains[struct {
		Player   ecs.Read[component.Player]
		NoIntent ecs.Without[component.Intent]
	}]
}

// InputSystem turns the tick's events into at most one action and gives it to every player that
// doesn't already have an intent.
func InputSystem(state *InputSystemState) error {
	queue := state.Queue.Get()
	action := SelectAction(queue.Events(), queue.Delta(), state.Settings.Get())
	if component.IsNone(action) {
		return nil
	}

	for eid := range state.Players.Iter() {
		ecs.BufferSet(state.Buffer(), eid, component.Intent{Action: action})
		state.Logger().Debug().Uint32("entity", uint32(eid)).Stringer("action", action).Msg("intent")
	}
	return nil
}

// SelectAction scans events in order:
//   - a key press selects its bound action unless an action was already selected;
//   - mouse motion selects a Look scaled by delta and sensitivity, replacing any earlier selection;
//   - a mouse press or release selects ControlCamera and ends the scan.
//
// Other events are ignored.
func SelectAction(events []input.Event, delta float64, settings *Settings) component.Action {
	var action component.Action = component.None{}

scan:
	for _, event := range events {
		switch e := event.(type) {
		case input.KeyPressed:
			if component.IsNone(action) {
				action = settings.Bindings.Action(e.Key)
			}
		case input.MouseMotion:
			action = component.Look{
				DX: e.DX * delta * settings.Sensitivity,
				DY: e.DY * delta * settings.Sensitivity,
			}
		case input.MousePressed:
			action = component.ControlCamera{Enabled: true}
			break scan
		case input.MouseReleased:
			action = component.ControlCamera{Enabled: false}
			break scan
		case input.KeyReleased, input.MouseWheel:
		}
	}
	return action
}
