package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/scene"
	"github.com/argus-labs/blobber/pkg/ecs"
)

type CameraControlSystemState struct {
	ecs.BaseSystemState
	Cameras ecs.Contains[struct {
		Camera ecs.Ref[component.Camera]
		Intent ecs.Read[component.Intent]
	}]
}

// CameraControlSystem consumes Look and ControlCamera intents. Looking only moves the camera while
// free view is on; otherwise it recenters it.
func CameraControlSystem(state *CameraControlSystemState) error {
	for eid, entity := range state.Cameras.Iter() {
		camera := entity.Camera.Get()

		switch a := entity.Intent.Get().Action.(type) {
		case component.Look:
			if camera.FreeView {
				camera.Yaw += a.DX
				camera.Pitch -= a.DY
			} else {
				camera.Yaw, camera.Pitch = 0, 0
			}
		case component.ControlCamera:
			camera.FreeView = a.Enabled
			if !a.Enabled {
				camera.Yaw, camera.Pitch = 0, 0
			}
		default:
			continue
		}

		entity.Camera.Set(camera)
		ecs.BufferRemove[component.Intent](state.Buffer(), eid)
	}
	return nil
}

type CameraRenderSystemState struct {
	ecs.BaseSystemState
	Scene   ecs.WithResource[scene.Scene]
	Cameras ecs.Contains[struct {
		Camera      ecs.Read[component.Camera]
		Position    ecs.Read[component.Position]
		Orientation ecs.Read[component.Orientation]
	}]
}

// CameraRenderSystem copies the camera entity's state into the render camera. The rendered yaw is
// kept continuous across ticks, so a turn that ends on a canonical yaw a full turn away from its
// interpolated frames doesn't make the render camera spin.
func CameraRenderSystem(state *CameraRenderSystemState) error {
	sc := state.Scene.Get()
	found := 0
	for _, entity := range state.Cameras.Iter() {
		camera := entity.Camera.Get()
		sc.SetCamera(scene.Camera{
			Position: entity.Position.Get().Vec3,
			Yaw:      movement.NearestYaw(sc.Camera().Yaw, entity.Orientation.Get().Yaw+camera.Yaw),
			Pitch:    camera.Pitch,
		})
		found++
	}

	if found == 0 {
		return ErrNoCamera
	}
	return nil
}
