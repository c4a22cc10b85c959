package component_test

import (
	"testing"

	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimation_AdvanceAndLast(t *testing.T) {
	t.Parallel()

	a := component.NewAnimation(component.Rotate{Direction: movement.Left}, 3)
	assert.False(t, a.Last())

	var lasts, done int
	for range 3 {
		if a.Last() {
			lasts++
		}
		if a.Advance() {
			done++
		}
	}
	assert.Equal(t, 1, lasts, "exactly one tick is the last frame")
	assert.Equal(t, 1, done)
	assert.Equal(t, uint32(3), a.Progress)
}

func TestIsNone(t *testing.T) {
	t.Parallel()

	assert.True(t, component.IsNone(nil))
	assert.True(t, component.IsNone(component.None{}))
	assert.False(t, component.IsNone(component.Move{Direction: movement.Left}))
	assert.False(t, component.IsNone(component.ControlCamera{}))
}

func TestIntent_JSONKeepsVariant(t *testing.T) {
	t.Parallel()

	actions := []component.Action{
		component.None{},
		component.Move{Direction: movement.Backward},
		component.Turn{Direction: movement.Left},
		component.Look{DX: 0.25, DY: -1},
		component.ControlCamera{Enabled: true},
	}
	for _, action := range actions {
		data, err := json.Marshal(component.Intent{Action: action})
		require.NoError(t, err)

		var got component.Intent
		require.NoError(t, json.Unmarshal(data, &got), string(data))
		assert.Equal(t, action, got.Action, string(data))
	}

	data, err := json.Marshal(component.Intent{Action: component.Move{Direction: movement.Right}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":{"kind":"move","direction":"right"}}`, string(data))

	var bad component.Intent
	assert.Error(t, json.Unmarshal([]byte(`{"action":{"kind":"jump"}}`), &bad))
}

func TestAnimation_JSONKeepsEffect(t *testing.T) {
	t.Parallel()

	anim := component.NewAnimation(component.Translate{
		From:      component.NewPosition(1, 0, -2),
		Direction: movement.Forward,
	}, component.DefaultFrames)
	anim.Progress = 7

	data, err := json.Marshal(anim)
	require.NoError(t, err)

	var got component.Animation
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, anim, got)

	var pos component.Position
	require.NoError(t, json.Unmarshal([]byte(`{"x":1,"y":2,"z":3}`), &pos))
	assert.Equal(t, component.NewPosition(1, 2, 3), pos)
}
