package ecs

import (
	"time"

	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/argus-labs/blobber/pkg/statsd"
	"github.com/rotisserie/eris"
)

// systemMetadata contains the metadata for a system.
type systemMetadata struct {
	name   string       // The name of the system
	access fieldAccess  // Components and resources the system's state declares
	fn     func() error // Function that wraps a System
}

// systemScheduler runs the systems of one hook strictly in registration order. A system runs to
// completion, and its buffered changes are applied, before the next one starts.
type systemScheduler struct {
	stage   string
	systems []systemMetadata
}

func newSystemScheduler(stage string) systemScheduler {
	return systemScheduler{
		stage:   stage,
		systems: make([]systemMetadata, 0),
	}
}

// register appends a system to the end of the schedule.
func (s *systemScheduler) register(meta systemMetadata) {
	s.systems = append(s.systems, meta)
}

// Run executes the systems in order and stops at the first error.
func (s *systemScheduler) Run(ws *WorldState, buffer *Buffer) error {
	if len(s.systems) == 0 {
		return nil
	}

	stageStart := time.Now()
	for _, system := range s.systems {
		start := time.Now()

		if err := system.fn(); err != nil {
			return eris.Wrapf(err, "system %s generated an error", system.name)
		}
		assert.That(!ws.locked(), "system %s left a search iterating", system.name)

		if err := buffer.Flush(ws); err != nil {
			return eris.Wrapf(err, "system %s buffered an invalid change", system.name)
		}

		statsd.EmitTickStat(start, system.name)
	}
	statsd.EmitTickStat(stageStart, s.stage)

	return nil
}
