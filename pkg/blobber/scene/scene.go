// Package scene is the render-facing side of the simulation: the camera the systems write to and
// the static nodes built from the tile map.
package scene

import (
	"sync"

	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/google/uuid"
)

// Camera is the render camera. The camera system writes it once per tick.
type Camera struct {
	Position movement.Vec3 `json:"position"`
	Yaw      float64       `json:"yaw"`
	Pitch    float64       `json:"pitch"`
}

// Node is a static block drawn by the host.
type Node struct {
	ID       uuid.UUID     `json:"id"`
	Kind     tilemap.Kind  `json:"kind"`
	Position movement.Vec3 `json:"position"`
}

// Scene holds the nodes and the latest camera. The camera is guarded so a render goroutine can
// read it while a tick writes it.
type Scene struct {
	ID    uuid.UUID
	Nodes []Node

	mu     sync.RWMutex
	camera Camera
}

// NewModel returns the model handle for a tile. It is passed to tilemap.Load.
func NewModel(tilemap.Kind, movement.Vec3) uuid.UUID {
	return uuid.New()
}

// FromTileMap builds one node per tile, reusing the tile's model handle as the node ID.
func FromTileMap(m *tilemap.TileMap[uuid.UUID]) *Scene {
	tiles := m.Tiles()
	nodes := make([]Node, len(tiles))
	for i, tile := range tiles {
		nodes[i] = Node{ID: tile.Model, Kind: tile.Kind, Position: tile.Position}
	}
	return &Scene{ID: uuid.New(), Nodes: nodes}
}

// SetCamera replaces the render camera.
func (s *Scene) SetCamera(c Camera) {
	s.mu.Lock()
	s.camera = c
	s.mu.Unlock()
}

// Camera returns the render camera.
func (s *Scene) Camera() Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}
