package tilemap_test

import (
	"testing"

	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/argus-labs/blobber/pkg/testutils"
	"github.com/rotisserie/eris"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func vec(x, y, z float64) movement.Vec3 {
	return movement.Vec3{X: x, Y: y, Z: z}
}

func TestLoad_WallOverStart(t *testing.T) {
	m, err := tilemap.Load[int]("w\n@\n", 1, nil)
	assert.NilError(t, err)

	tiles := m.Tiles()
	assert.Assert(t, is.Len(tiles, 3))

	// Row 0: a wall and the floor beneath it.
	assert.Equal(t, tiles[0].Kind, tilemap.Wall)
	assert.Equal(t, tiles[0].Position, vec(-15, 0, -16))
	assert.Equal(t, tiles[1].Kind, tilemap.Floor)
	assert.Equal(t, tiles[1].Position, vec(-15, -1, -16))

	// Row 1: the start floor.
	assert.Equal(t, tiles[2].Kind, tilemap.Floor)
	assert.Equal(t, tiles[2].Position, vec(-15, -1, -15))
	assert.Equal(t, m.Start(), tiles[2].Position)

	rows, cols := m.Dimensions()
	assert.Equal(t, rows, 2)
	assert.Equal(t, cols, 1)
}

func TestLoad_SkipsUnknownCharacters(t *testing.T) {
	m, err := tilemap.Load[int]("wx@ \r\n.?.\n", 1, nil)
	assert.NilError(t, err)

	// 'x', ' ', '\r' and '?' don't advance the column.
	assert.Equal(t, m.Start(), vec(-14, -1, -16))
	assert.Assert(t, m.Collides(vec(-15, -1, -15)))
	assert.Assert(t, m.Collides(vec(-14, -1, -15)))
	assert.Assert(t, !m.Collides(vec(-13, -1, -15)))
}

func TestLoad_Errors(t *testing.T) {
	_, err := tilemap.Load[int]("ww\n..\n", 1, nil)
	assert.Assert(t, eris.Is(err, tilemap.ErrNoStart))

	_, err = tilemap.Load[int]("@.@\n", 1, nil)
	assert.Assert(t, eris.Is(err, tilemap.ErrMultipleStarts))

	_, err = tilemap.Load[int]("@", 0, nil)
	assert.ErrorContains(t, err, "tile size")
}

func TestLoad_TileSize(t *testing.T) {
	m, err := tilemap.Load[int](".@\n.w\n", 2, nil)
	assert.NilError(t, err)

	assert.Equal(t, m.Start(), vec(-12, -2, -16))
	assert.Assert(t, m.Collides(vec(-12, 0, -14)), "wall")
	assert.Assert(t, m.Collides(vec(-12, -2, -14)), "floor under wall")
	assert.Equal(t, m.TileSize(), 2.0)

	row, col := m.Cell(vec(-12, 0, -14))
	assert.Equal(t, row, 1)
	assert.Equal(t, col, 1)
}

func TestLoad_ModelHandles(t *testing.T) {
	var calls int
	m, err := tilemap.Load("w@", 1, func(k tilemap.Kind, _ movement.Vec3) string {
		calls++
		return k.String()
	})
	assert.NilError(t, err)
	assert.Equal(t, calls, 3)

	walls := m.At(vec(-15, 0, -16))
	assert.Assert(t, is.Len(walls, 1))
	assert.Equal(t, walls[0].Model, "wall")
}

func TestCollides_ExactMatchOnly(t *testing.T) {
	m, err := tilemap.Load[int]("w@", 1, nil)
	assert.NilError(t, err)

	assert.Assert(t, m.Collides(vec(-15, 0, -16)))
	assert.Assert(t, !m.Collides(vec(-15.0001, 0, -16)), "same cell but not the same point")
	assert.Assert(t, !m.Collides(vec(-14, 0, -16)), "no wall above the start tile")
}

// The spatial index must agree with a linear scan over every tile.
func TestCollides_MatchesLinearScan(t *testing.T) {
	prng := testutils.NewRand(t)
	m, err := tilemap.Load[int](testutils.RandMap(prng, 12, 20), 1, nil)
	assert.NilError(t, err)

	linear := func(p movement.Vec3) bool {
		for _, tile := range m.Tiles() {
			if tile.Position == p {
				return true
			}
		}
		return false
	}

	for range 2_000 {
		p := vec(
			float64(prng.IntN(28)-16)+[]float64{0, 0.5}[prng.IntN(2)],
			float64(-prng.IntN(3)+1),
			float64(prng.IntN(20)-16),
		)
		assert.Equal(t, m.Collides(p), linear(p), "point %+v", p)
	}
}
