package scene_test

import (
	"testing"

	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/scene"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTileMap(t *testing.T) {
	t.Parallel()

	m, err := tilemap.Load("w@.", 1, scene.NewModel)
	require.NoError(t, err)

	s := scene.FromTileMap(m)
	require.Len(t, s.Nodes, 4)
	assert.NotEqual(t, uuid.Nil, s.ID)

	ids := make(map[uuid.UUID]bool)
	for i, node := range s.Nodes {
		assert.Equal(t, m.Tiles()[i].Model, node.ID)
		assert.Equal(t, m.Tiles()[i].Position, node.Position)
		ids[node.ID] = true
	}
	assert.Len(t, ids, 4, "every tile gets its own handle")
	assert.Equal(t, tilemap.Wall, s.Nodes[0].Kind)
}

func TestCamera(t *testing.T) {
	t.Parallel()

	var s scene.Scene
	assert.Equal(t, scene.Camera{}, s.Camera())

	c := scene.Camera{Position: movement.Vec3{X: 1}, Yaw: 0.5, Pitch: -0.25}
	s.SetCamera(c)
	assert.Equal(t, c, s.Camera())
}
