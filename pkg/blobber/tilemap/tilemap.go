// Package tilemap loads the static dungeon grid and answers point collision queries against it.
package tilemap

import (
	"math"

	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/rotisserie/eris"
)

// HalfExtent offsets the grid so that the map is centered on the origin.
const HalfExtent = 16.0

var (
	// ErrNoStart is returned when a map has no start cell.
	ErrNoStart = eris.New("map has no start cell '@'")
	// ErrMultipleStarts is returned when a map has more than one start cell.
	ErrMultipleStarts = eris.New("map has more than one start cell '@'")
)

// Kind is the kind of a tile.
type Kind uint8

const (
	Floor Kind = iota
	Wall
)

func (k Kind) String() string {
	if k == Wall {
		return "wall"
	}
	return "floor"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Tile is a single wall or floor block. Model is the render handle the host attached to it.
type Tile[M any] struct {
	Position movement.Vec3 `json:"position"`
	Kind     Kind          `json:"kind"`
	Model    M             `json:"model"`
}

// cell is a spatial index key: a position rounded to integer coordinates.
type cell struct {
	x, y, z int64
}

func cellOf(p movement.Vec3) cell {
	return cell{
		x: int64(math.Round(p.X)),
		y: int64(math.Round(p.Y)),
		z: int64(math.Round(p.Z)),
	}
}

// TileMap is the immutable set of tiles loaded from a map. It is safe for concurrent reads.
type TileMap[M any] struct {
	tiles    []Tile[M]
	index    map[cell][]int // cell -> indices into tiles
	start    movement.Vec3
	tileSize float64
	rows     int
	cols     int
}

// Load builds a TileMap from a row-delimited character grid:
//
//	w   wall, with a floor tile one tile below it
//	@   floor tile where the player starts
//	.   floor tile
//	\n  next row
//
// Any other character is skipped without advancing the column. The column counter advances before
// a tile is placed, so the first cell of a row sits one tile east of the row origin. model is
// called once per tile, in load order, to attach a render handle.
func Load[M any](src string, tileSize float64, model func(Kind, movement.Vec3) M) (*TileMap[M], error) {
	if tileSize <= 0 {
		return nil, eris.Errorf("tile size must be positive, got %v", tileSize)
	}

	m := &TileMap[M]{
		tiles:    make([]Tile[M], 0, len(src)),
		index:    make(map[cell][]int, len(src)),
		tileSize: tileSize,
	}

	var (
		i, j   float64
		starts int
		row    int
		col    int
	)
	for _, c := range src {
		switch c {
		case 'w':
			i += tileSize
			col++
			m.add(Wall, movement.Vec3{X: i - HalfExtent, Y: 0, Z: j - HalfExtent}, model)
			m.add(Floor, movement.Vec3{X: i - HalfExtent, Y: -tileSize, Z: j - HalfExtent}, model)
		case '@':
			i += tileSize
			col++
			p := movement.Vec3{X: i - HalfExtent, Y: -tileSize, Z: j - HalfExtent}
			m.add(Floor, p, model)
			m.start = p
			starts++
		case '.':
			i += tileSize
			col++
			m.add(Floor, movement.Vec3{X: i - HalfExtent, Y: -tileSize, Z: j - HalfExtent}, model)
		case '\n':
			j += tileSize
			i = 0
			row++
			col = 0
		default:
			continue
		}
		m.cols = max(m.cols, col)
		if col > 0 {
			m.rows = max(m.rows, row+1)
		}
	}

	switch {
	case starts == 0:
		return nil, ErrNoStart
	case starts > 1:
		return nil, eris.Wrapf(ErrMultipleStarts, "found %d", starts)
	}
	return m, nil
}

func (m *TileMap[M]) add(kind Kind, p movement.Vec3, model func(Kind, movement.Vec3) M) {
	var handle M
	if model != nil {
		handle = model(kind, p)
	}
	m.tiles = append(m.tiles, Tile[M]{Position: p, Kind: kind, Model: handle})
	key := cellOf(p)
	m.index[key] = append(m.index[key], len(m.tiles)-1)
}

// Collides reports whether any tile sits exactly at p.
func (m *TileMap[M]) Collides(p movement.Vec3) bool {
	for _, idx := range m.index[cellOf(p)] {
		if m.tiles[idx].Position == p {
			return true
		}
	}
	return false
}

// At returns the tiles sitting exactly at p.
func (m *TileMap[M]) At(p movement.Vec3) []Tile[M] {
	var found []Tile[M]
	for _, idx := range m.index[cellOf(p)] {
		if m.tiles[idx].Position == p {
			found = append(found, m.tiles[idx])
		}
	}
	return found
}

// Start returns the position of the start floor tile.
func (m *TileMap[M]) Start() movement.Vec3 {
	return m.start
}

// TileSize returns the size of one grid cell in world units.
func (m *TileMap[M]) TileSize() float64 {
	return m.tileSize
}

// Tiles returns the tiles in load order. The slice must not be modified.
func (m *TileMap[M]) Tiles() []Tile[M] {
	return m.tiles
}

// Dimensions returns the number of rows and the widest row, in cells.
func (m *TileMap[M]) Dimensions() (rows, cols int) {
	return m.rows, m.cols
}

// Cell converts a world position to its row and column in the source grid.
func (m *TileMap[M]) Cell(p movement.Vec3) (row, col int) {
	col = int(math.Round((p.X+HalfExtent)/m.tileSize)) - 1
	row = int(math.Round((p.Z + HalfExtent) / m.tileSize))
	return row, col
}
