// Package system implements the per-tick pipeline: input, collision, animation, movement, camera
// and cleanup. Every pass is a separate ecs system so structural changes buffered by one pass are
// visible to the next.
package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/rotisserie/eris"
)

var (
	// ErrInvariant is the root of every error caused by a scheduling or programming defect. The tick
	// driver treats it as fatal.
	ErrInvariant = eris.New("invariant violation")

	// ErrLingeringIntent is returned when an intent survives a tick without an animation.
	ErrLingeringIntent = eris.Wrap(ErrInvariant, "lingering intent")

	// ErrUnreachableAction is returned when a mover pass meets an action it can't resolve.
	ErrUnreachableAction = eris.Wrap(ErrInvariant, "unreachable action")

	// ErrNoCamera is returned when no entity holds a camera, a position and an orientation.
	ErrNoCamera = eris.Wrap(ErrInvariant, "no camera")
)

// Settings are the tunables shared by the systems. Register expects it as a resource.
type Settings struct {
	TileSize    float64        // World units per grid cell
	Frames      uint32         // Ticks per animated move or turn
	Animate     bool           // Resolve moves over Frames ticks instead of instantly
	Sensitivity float64        // Mouse look scale
	Bindings    input.Bindings // Key to action mapping
	PlayerName  string         // Name given to the spawned player
}

// Register registers the spawn system and the tick pipeline in execution order. The world must
// already hold the Settings, input.Queue, scene.Scene and tile map resources.
func Register(w *ecs.World) error {
	settings, err := ecs.GetResource[Settings](w)
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error { return ecs.RegisterSystem(w, SpawnPlayerSystem, ecs.WithHook(ecs.Init)) },
		func() error { return ecs.RegisterSystem(w, InputSystem, ecs.WithHook(ecs.PreUpdate)) },
		func() error { return ecs.RegisterSystem(w, ColliderSystem) },
		func() error { return ecs.RegisterSystem(w, AnimationProgressSystem) },
	}
	if settings.Animate {
		steps = append(steps, func() error { return ecs.RegisterSystem(w, AnimationStartSystem) })
	}
	steps = append(steps,
		func() error { return ecs.RegisterSystem(w, InstantMoverSystem) },
		func() error { return ecs.RegisterSystem(w, AnimatedMoverSystem) },
		func() error { return ecs.RegisterSystem(w, CameraControlSystem) },
		func() error { return ecs.RegisterSystem(w, CameraRenderSystem) },
		func() error { return ecs.RegisterSystem(w, CleanupSystem, ecs.WithHook(ecs.PostUpdate)) },
	)

	for _, step := range steps {
		if err := step(); err != nil {
			return eris.Wrap(err, "failed to register systems")
		}
	}
	return nil
}
