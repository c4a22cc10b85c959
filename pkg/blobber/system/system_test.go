package system_test

import (
	"math"
	"testing"

	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/scene"
	"github.com/argus-labs/blobber/pkg/blobber/system"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corridor is a 3 tile corridor running east-west with the start in the middle. With a tile size
// of 1 the player spawns at (-13, 0, -15).
const corridor = "wwwww\nw.@.w\nwwwww\n"

const player = ecs.EntityID(0)

type fixture struct {
	world *ecs.World
	queue *input.Queue
	scene *scene.Scene
}

func newFixture(t *testing.T, animate bool, frames uint32) *fixture {
	t.Helper()

	m, err := tilemap.Load(corridor, 1, scene.NewModel)
	require.NoError(t, err)

	f := &fixture{
		world: ecs.NewWorld(),
		queue: &input.Queue{},
		scene: scene.FromTileMap(m),
	}
	f.queue.SetDelta(1)

	ecs.AddResource(f.world, &system.Settings{
		TileSize:    1,
		Frames:      frames,
		Animate:     animate,
		Sensitivity: 0.5,
		Bindings:    input.DefaultBindings(),
		PlayerName:  "blob",
	})
	ecs.AddResource(f.world, f.queue)
	ecs.AddResource(f.world, f.scene)
	ecs.AddResource(f.world, m)
	require.NoError(t, system.Register(f.world))
	return f
}

func (f *fixture) tick(t *testing.T, events ...input.Event) {
	t.Helper()
	f.queue.Push(events...)
	require.NoError(t, f.world.Tick())
	f.queue.Clear()
}

func (f *fixture) press(t *testing.T, k input.Key) {
	t.Helper()
	f.tick(t, input.KeyPressed{Key: k})
}

func (f *fixture) position(t *testing.T) movement.Vec3 {
	t.Helper()
	pos, err := ecs.Get[component.Position](f.world.State(), player)
	require.NoError(t, err)
	return pos.Vec3
}

func (f *fixture) orientation(t *testing.T) component.Orientation {
	t.Helper()
	o, err := ecs.Get[component.Orientation](f.world.State(), player)
	require.NoError(t, err)
	return o
}

func (f *fixture) camera(t *testing.T) component.Camera {
	t.Helper()
	c, err := ecs.Get[component.Camera](f.world.State(), player)
	require.NoError(t, err)
	return c
}

func TestSpawn(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false, 1)
	f.tick(t)

	assert.Equal(t, movement.Vec3{X: -13, Y: 0, Z: -15}, f.position(t))
	assert.Equal(t, component.NewOrientation(movement.North), f.orientation(t))

	name, err := ecs.Get[component.Name](f.world.State(), player)
	require.NoError(t, err)
	assert.Equal(t, "blob", name.Value)
	assert.Equal(t, 1, f.world.State().Count())
}

func TestInstant_MoveAndCollide(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false, 1)

	f.press(t, input.KeyZ)
	assert.Equal(t, movement.Vec3{X: -13, Y: 0, Z: -15}, f.position(t), "wall to the north")

	f.press(t, input.KeyQ)
	assert.Equal(t, movement.Vec3{X: -14, Y: 0, Z: -15}, f.position(t))

	f.press(t, input.KeyQ)
	assert.Equal(t, movement.Vec3{X: -14, Y: 0, Z: -15}, f.position(t), "wall to the west")

	f.press(t, input.KeyD)
	f.press(t, input.KeyRight)
	assert.Equal(t, movement.Vec3{X: -12, Y: 0, Z: -15}, f.position(t))

	assert.False(t, ecs.Has[component.Intent](f.world.State(), player))
}

func TestInstant_FourTurnsComeBack(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false, 1)

	want := []movement.Facing{movement.East, movement.South, movement.West, movement.North}
	for _, facing := range want {
		f.press(t, input.KeyE)
		assert.Equal(t, component.NewOrientation(facing), f.orientation(t))
	}

	for range 4 {
		f.press(t, input.KeyA)
	}
	assert.Equal(t, component.NewOrientation(movement.North), f.orientation(t))
}

func TestAnimated_MoveLandsExactly(t *testing.T) {
	t.Parallel()
	const frames = 4
	f := newFixture(t, true, frames)

	f.press(t, input.KeyQ)
	assert.InDelta(t, -13.25, f.position(t).X, 1e-9)
	assert.True(t, ecs.Has[component.Animation](f.world.State(), player))

	// Input is ignored while the animation runs.
	f.press(t, input.KeyD)
	assert.InDelta(t, -13.5, f.position(t).X, 1e-9)

	f.tick(t)
	f.tick(t)
	assert.Equal(t, movement.Vec3{X: -14, Y: 0, Z: -15}, f.position(t))

	f.tick(t)
	assert.Equal(t, movement.Vec3{X: -14, Y: 0, Z: -15}, f.position(t))
	assert.False(t, ecs.Has[component.Animation](f.world.State(), player))
	assert.False(t, ecs.Has[component.Intent](f.world.State(), player))

	f.press(t, input.KeyD)
	assert.InDelta(t, -13.75, f.position(t).X, 1e-9)
}

func TestAnimated_BlockedMoveNeverAnimates(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true, 4)

	f.press(t, input.KeyZ)
	assert.False(t, ecs.Has[component.Animation](f.world.State(), player))
	assert.False(t, ecs.Has[component.Intent](f.world.State(), player))
	assert.Equal(t, movement.Vec3{X: -13, Y: 0, Z: -15}, f.position(t))
}

func TestAnimated_TurnInterpolatesYaw(t *testing.T) {
	t.Parallel()
	const frames = 3
	f := newFixture(t, true, frames)

	f.press(t, input.KeyE)
	o := f.orientation(t)
	assert.Equal(t, movement.North, o.Facing, "facing changes on the last frame")
	assert.InDelta(t, -math.Pi/2+math.Pi/6, o.Yaw, 1e-9)

	f.tick(t)
	f.tick(t)
	assert.Equal(t, component.NewOrientation(movement.East), f.orientation(t))

	// Three more quarter turns, each spanning frames+1 ticks including the cleanup tick.
	f.tick(t)
	for range 3 {
		f.press(t, input.KeyE)
		for range frames {
			f.tick(t)
		}
	}
	assert.Equal(t, component.NewOrientation(movement.North), f.orientation(t))
	assert.False(t, ecs.Has[component.Animation](f.world.State(), player))
}

func TestAnimated_DefaultFramesLandOnTheGrid(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true, component.DefaultFrames)

	f.press(t, input.KeyD)
	for range component.DefaultFrames - 2 {
		f.tick(t)
	}
	assert.NotEqual(t, movement.Vec3{X: -12, Y: 0, Z: -15}, f.position(t))

	f.tick(t)
	assert.Equal(t, movement.Vec3{X: -12, Y: 0, Z: -15}, f.position(t))
	f.tick(t)
	assert.False(t, ecs.Has[component.Animation](f.world.State(), player))

	want := []movement.Facing{movement.East, movement.South, movement.West, movement.North}
	for _, facing := range want {
		f.press(t, input.KeyE)
		for range component.DefaultFrames {
			f.tick(t)
		}
		assert.Equal(t, component.NewOrientation(facing), f.orientation(t))
	}
}

func TestCameraRender_YawStaysContinuous(t *testing.T) {
	t.Parallel()
	const frames = 3
	f := newFixture(t, true, frames)
	f.tick(t)

	step := math.Pi / 2 / frames
	prev := f.scene.Camera().Yaw
	check := func() {
		yaw := f.scene.Camera().Yaw
		assert.LessOrEqual(t, math.Abs(yaw-prev), step+1e-9)
		prev = yaw
	}

	// North to West crosses the -pi/pi seam, West to North crosses it back.
	for _, k := range []input.Key{input.KeyA, input.KeyE, input.KeyE} {
		f.press(t, k)
		check()
		for range frames {
			f.tick(t)
			check()
		}
	}

	assert.Equal(t, component.NewOrientation(movement.East), f.orientation(t))
	assert.InDelta(t, 1, math.Cos(prev), 1e-9)
	assert.InDelta(t, 0, math.Sin(prev), 1e-9)
}

func TestCamera_FreeViewAndReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true, 4)

	f.tick(t, input.MouseMotion{DX: 1, DY: 1})
	assert.Equal(t, component.Camera{}, f.camera(t), "looking without free view recenters")

	f.tick(t, input.MousePressed{})
	assert.True(t, f.camera(t).FreeView)

	f.tick(t, input.MouseMotion{DX: 1, DY: 0.5})
	assert.Equal(t, component.Camera{FreeView: true, Yaw: 0.5, Pitch: -0.25}, f.camera(t))

	rendered := f.scene.Camera()
	assert.InDelta(t, -math.Pi/2+0.5, rendered.Yaw, 1e-9)
	assert.InDelta(t, -0.25, rendered.Pitch, 1e-9)
	assert.Equal(t, f.position(t), rendered.Position)

	f.tick(t, input.MouseReleased{})
	assert.Equal(t, component.Camera{}, f.camera(t))
	assert.False(t, ecs.Has[component.Intent](f.world.State(), player))
}

func TestSelectAction(t *testing.T) {
	t.Parallel()
	settings := &system.Settings{Sensitivity: 2, Bindings: input.DefaultBindings()}

	tests := []struct {
		name   string
		events []input.Event
		want   component.Action
	}{
		{
			name: "no events",
			want: component.None{},
		},
		{
			name:   "first key wins",
			events: []input.Event{input.KeyPressed{Key: input.KeyZ}, input.KeyPressed{Key: input.KeyA}},
			want:   component.Move{Direction: movement.Forward},
		},
		{
			name:   "unbound key is skipped",
			events: []input.Event{input.KeyPressed{Key: input.KeyEscape}, input.KeyPressed{Key: input.KeyE}},
			want:   component.Turn{Direction: movement.Right},
		},
		{
			name:   "last motion wins",
			events: []input.Event{input.MouseMotion{DX: 1, DY: 2}, input.MouseMotion{DX: 3, DY: -1}},
			want:   component.Look{DX: 1.5, DY: -0.5},
		},
		{
			name:   "key after look is ignored",
			events: []input.Event{input.MouseMotion{DX: 1}, input.KeyPressed{Key: input.KeyZ}},
			want:   component.Look{DX: 0.5},
		},
		{
			name:   "motion after key replaces it",
			events: []input.Event{input.KeyPressed{Key: input.KeyS}, input.MouseMotion{DX: 1}},
			want:   component.Look{DX: 0.5},
		},
		{
			name: "mouse button ends the scan",
			events: []input.Event{
				input.KeyPressed{Key: input.KeyZ},
				input.MouseReleased{},
				input.MousePressed{},
			},
			want: component.ControlCamera{Enabled: false},
		},
		{
			name:   "releases and wheel are ignored",
			events: []input.Event{input.KeyReleased{Key: input.KeyZ}, input.MouseWheel{Delta: 1}},
			want:   component.None{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, system.SelectAction(tc.events, 0.25, settings))
		})
	}
}

func TestCleanup_LingeringIntentIsFatal(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()
	require.NoError(t, ecs.RegisterComponent[component.Intent](w))
	require.NoError(t, ecs.RegisterSystem(w, system.CleanupSystem, ecs.WithHook(ecs.PostUpdate)))

	_, err := ecs.Create(w.State(), component.Intent{Action: component.Move{Direction: movement.Left}})
	require.NoError(t, err)

	err = w.Tick()
	require.Error(t, err)
	assert.True(t, eris.Is(err, system.ErrLingeringIntent))
	assert.True(t, eris.Is(err, system.ErrInvariant))
}

func TestCameraRender_NoCameraIsFatal(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()
	ecs.AddResource(w, &scene.Scene{})
	require.NoError(t, ecs.RegisterSystem(w, system.CameraRenderSystem))

	err := w.Tick()
	require.Error(t, err)
	assert.True(t, eris.Is(err, system.ErrNoCamera))
}

func TestInstantMover_RejectsNone(t *testing.T) {
	t.Parallel()
	w := ecs.NewWorld()
	ecs.AddResource(w, &system.Settings{TileSize: 1})
	require.NoError(t, ecs.RegisterSystem(w, system.InstantMoverSystem))

	_, err := ecs.Create(w.State(),
		component.NewPosition(0, 0, 0),
		component.NewOrientation(movement.North),
		component.Intent{Action: component.None{}},
	)
	require.NoError(t, err)

	err = w.Tick()
	require.Error(t, err)
	assert.True(t, eris.Is(err, system.ErrUnreachableAction))
}
