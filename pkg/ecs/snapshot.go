package ecs

import (
	"slices"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// EntitySnapshot is the JSON view of one entity.
type EntitySnapshot struct {
	ID         EntityID                   `json:"id"`
	Components map[string]json.RawMessage `json:"components"`
}

// Snapshot encodes every entity and its components, ordered by entity ID.
func (w *World) Snapshot() ([]EntitySnapshot, error) {
	ws := w.state
	result := make([]EntitySnapshot, 0, ws.Count())

	for i := range ws.archetypes {
		arch := &ws.archetypes[i]
		for row, eid := range arch.entities {
			entity := EntitySnapshot{
				ID:         eid,
				Components: make(map[string]json.RawMessage, arch.compCount),
			}
			for _, col := range arch.columns {
				data, err := col.marshal(row)
				if err != nil {
					return nil, eris.Wrapf(err, "failed to snapshot entity %d", eid)
				}
				entity.Components[col.name()] = data
			}
			result = append(result, entity)
		}
	}

	slices.SortFunc(result, func(a, b EntitySnapshot) int {
		return int(a.ID) - int(b.ID)
	})
	return result, nil
}

// MarshalSnapshot returns Snapshot encoded as a JSON array.
func (w *World) MarshalSnapshot() ([]byte, error) {
	snapshot, err := w.Snapshot()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal snapshot")
	}
	return data, nil
}
