package system

import (
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/rotisserie/eris"
)

type CleanupSystemState struct {
	ecs.BaseSystemState
	Lingering ecs.Contains[struct {
		Intent      ecs.Read[component.Intent]
		NoAnimation ecs.Without[component.Animation]
	}]
}

// CleanupSystem fails the tick if any intent outlived the pipeline without an animation.
func CleanupSystem(state *CleanupSystemState) error {
	var lingering []ecs.EntityID
	for eid, entity := range state.Lingering.Iter() {
		lingering = append(lingering, eid)
		state.Logger().Error().
			Uint32("entity", uint32(eid)).
			Stringer("action", entity.Intent.Get().Action).
			Msg("lingering intent")
	}

	if len(lingering) > 0 {
		return eris.Wrapf(ErrLingeringIntent, "entities %v", lingering)
	}
	return nil
}
