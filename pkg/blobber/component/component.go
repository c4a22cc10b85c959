// Package component defines the data attached to entities in the simulation.
package component

import (
	"github.com/argus-labs/blobber/pkg/blobber/movement"
)

// Player tags the user-controlled actor.
type Player struct{}

func (Player) Name() string { return "player" }

// Name is a display label.
type Name struct {
	Value string `json:"value"`
}

func (Name) Name() string { return "name" }

// Position is an entity's location in world space.
type Position struct {
	movement.Vec3
}

func (Position) Name() string { return "position" }

// NewPosition returns a Position at (x, y, z).
func NewPosition(x, y, z float64) Position {
	return Position{Vec3: movement.Vec3{X: x, Y: y, Z: z}}
}

// Orientation is the cardinal facing of an entity and its current yaw in radians. Yaw equals
// Facing.Yaw() at rest and is interpolated while a turn is animated.
type Orientation struct {
	Facing movement.Facing `json:"facing"`
	Yaw    float64         `json:"yaw"`
}

func (Orientation) Name() string { return "orientation" }

// NewOrientation returns an Orientation at rest facing f.
func NewOrientation(f movement.Facing) Orientation {
	return Orientation{Facing: f, Yaw: f.Yaw()}
}

// Camera holds the free-look offsets applied on top of the entity's orientation.
type Camera struct {
	FreeView bool    `json:"freeView"`
	Pitch    float64 `json:"pitch"`
	Yaw      float64 `json:"yaw"`
}

func (Camera) Name() string { return "camera" }

// Intent is a pending action. An entity holds at most one.
type Intent struct {
	Action Action `json:"action"`
}

func (Intent) Name() string { return "intent" }

// Animation is an in-flight transition spanning Frames ticks. Progress advances by one per tick.
type Animation struct {
	Effect   Effect `json:"effect"`
	Progress uint32 `json:"progress"`
	Frames   uint32 `json:"frames"`
}

func (Animation) Name() string { return "animation" }

// DefaultFrames is the default number of ticks an animation lasts.
const DefaultFrames = 30

// NewAnimation returns an animation of effect at progress 0.
func NewAnimation(effect Effect, frames uint32) Animation {
	return Animation{Effect: effect, Progress: 0, Frames: frames}
}

// Advance increments Progress and reports whether the animation is complete.
func (a *Animation) Advance() bool {
	a.Progress++
	return a.Progress >= a.Frames
}

// Last reports whether the current tick is the final frame of the animation.
func (a Animation) Last() bool {
	return a.Progress == a.Frames-1
}
