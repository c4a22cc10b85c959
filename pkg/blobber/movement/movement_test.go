package movement_test

import (
	"math"
	"testing"

	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	facings    = []movement.Facing{movement.North, movement.South, movement.East, movement.West}
	directions = []movement.Direction{movement.Left, movement.Right, movement.Forward, movement.Backward}
)

func TestTurn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from movement.Facing
		want [4]movement.Facing // left, right, forward, backward
	}{
		{movement.North, [4]movement.Facing{movement.West, movement.East, movement.North, movement.South}},
		{movement.South, [4]movement.Facing{movement.East, movement.West, movement.South, movement.North}},
		{movement.East, [4]movement.Facing{movement.North, movement.South, movement.East, movement.West}},
		{movement.West, [4]movement.Facing{movement.South, movement.North, movement.West, movement.East}},
	}
	for _, tt := range tests {
		for i, d := range directions {
			assert.Equal(t, tt.want[i], tt.from.Turn(d), "%s turn %s", tt.from, d)
		}
	}
}

func TestTurn_Properties(t *testing.T) {
	t.Parallel()

	for _, f := range facings {
		// Four right turns, or four left turns, come back around.
		right, left := f, f
		for range 4 {
			right = right.Turn(movement.Right)
			left = left.Turn(movement.Left)
		}
		assert.Equal(t, f, right)
		assert.Equal(t, f, left)

		assert.Equal(t, f, f.Turn(movement.Left).Turn(movement.Right))
		assert.Equal(t, f, f.Turn(movement.Backward).Turn(movement.Backward))
		assert.Equal(t, f, f.Turn(movement.Forward))
	}
}

func TestYaw(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, -math.Pi/2, movement.North.Yaw(), 1e-12)
	assert.InDelta(t, math.Pi/2, movement.South.Yaw(), 1e-12)
	assert.InDelta(t, 0, movement.East.Yaw(), 1e-12)
	assert.InDelta(t, math.Pi, movement.West.Yaw(), 1e-12)

	// The yaw delta of a turn lands on the canonical yaw of the new facing, modulo a full turn.
	for _, f := range facings {
		for _, d := range directions {
			got := math.Mod(f.Yaw()+d.YawDelta()-f.Turn(d).Yaw(), 2*math.Pi)
			if got < 0 {
				got += 2 * math.Pi
			}
			if got > math.Pi {
				got = 2*math.Pi - got
			}
			assert.InDelta(t, 0, got, 1e-9, "%s turn %s", f, d)
		}
	}
}

func TestNearestYaw(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, -math.Pi/2, movement.NearestYaw(0, -math.Pi/2), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, movement.NearestYaw(1.4*math.Pi, movement.North.Yaw()), 1e-12)
	assert.InDelta(t, -math.Pi, movement.NearestYaw(-0.9*math.Pi, movement.West.Yaw()), 1e-12)
	assert.InDelta(t, 4*math.Pi+0.5, movement.NearestYaw(4*math.Pi, 0.5), 1e-12)
}

func TestTranslation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, movement.Vec3{Z: -1}, movement.Translation(movement.North, movement.Forward, 1))
	assert.Equal(t, movement.Vec3{Z: 2}, movement.Translation(movement.North, movement.Backward, 2))
	assert.Equal(t, movement.Vec3{X: -1}, movement.Translation(movement.North, movement.Left, 1))
	assert.Equal(t, movement.Vec3{X: 1}, movement.Translation(movement.North, movement.Right, 1))
	assert.Equal(t, movement.Vec3{Z: -0.5}, movement.Translation(movement.East, movement.Left, 0.5))
	assert.Equal(t, movement.Vec3{X: -1}, movement.Translation(movement.West, movement.Forward, 1))

	// Opposite moves cancel out for every facing.
	for _, f := range facings {
		fwd := movement.Translation(f, movement.Forward, 1)
		back := movement.Translation(f, movement.Backward, 1)
		assert.Equal(t, movement.Vec3{}, fwd.Add(back).Snap(1))
	}
}

func TestSnap(t *testing.T) {
	t.Parallel()

	v := movement.Vec3{X: 0.9999999, Y: -0.0000001, Z: -2.5000001}
	assert.Equal(t, movement.Vec3{X: 1, Y: 0, Z: -3}, v.Snap(1))
	assert.Equal(t, movement.Vec3{X: 1, Y: 0, Z: -2.5}, v.Snap(0.5))
	assert.False(t, math.Signbit(v.Snap(1).Y), "negative zero is normalized")
}

func TestFacing_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		F movement.Facing    `json:"f"`
		D movement.Direction `json:"d"`
	}{movement.West, movement.Backward})
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":"west","d":"backward"}`, string(data))

	var f movement.Facing
	require.NoError(t, json.Unmarshal([]byte(`"south"`), &f))
	assert.Equal(t, movement.South, f)
	assert.Error(t, json.Unmarshal([]byte(`"up"`), &f))
}

func TestStep(t *testing.T) {
	t.Parallel()

	// A slightly off-grid start still lands on the grid.
	from := movement.Vec3{X: -15.0000001, Y: 0, Z: -15}
	assert.Equal(t, movement.Vec3{X: -15, Y: 0, Z: -16}, movement.Step(from, movement.North, movement.Forward, 1))

	from = movement.Vec3{X: -14.0000001, Y: 0, Z: -16}
	assert.Equal(t, movement.Vec3{X: -12, Y: 0, Z: -16}, movement.Step(from, movement.South, movement.Left, 2))
}
