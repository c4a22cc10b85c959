package input

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
)

// Bindings maps keys to actions. Unbound keys map to component.None.
type Bindings map[Key]component.Action

// DefaultBindings returns the AZERTY layout with arrow key aliases for movement.
func DefaultBindings() Bindings {
	return Bindings{
		KeyA:     component.Turn{Direction: movement.Left},
		KeyE:     component.Turn{Direction: movement.Right},
		KeyZ:     component.Move{Direction: movement.Forward},
		KeyS:     component.Move{Direction: movement.Backward},
		KeyQ:     component.Move{Direction: movement.Left},
		KeyD:     component.Move{Direction: movement.Right},
		KeyUp:    component.Move{Direction: movement.Forward},
		KeyDown:  component.Move{Direction: movement.Backward},
		KeyLeft:  component.Move{Direction: movement.Left},
		KeyRight: component.Move{Direction: movement.Right},
	}
}

// Action returns the action bound to k.
func (b Bindings) Action(k Key) component.Action {
	if action, ok := b[k]; ok {
		return action
	}
	return component.None{}
}
