// Package movement maps a facing and a relative direction to cardinal turns and grid translations.
package movement

import (
	"math"
)

// Vec3 is a point or offset in world space. Y is up; north is -Z.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Snap rounds every axis to the nearest multiple of grid.
func (v Vec3) Snap(grid float64) Vec3 {
	return Vec3{X: snap(v.X, grid), Y: snap(v.Y, grid), Z: snap(v.Z, grid)}
}

func snap(x, grid float64) float64 {
	s := math.Round(x/grid) * grid
	if s == 0 {
		return 0 // drop negative zero
	}
	return s
}

// Facing is one of the four cardinal directions.
type Facing uint8

const (
	North Facing = iota
	South
	East
	West
)

func (f Facing) String() string {
	switch f {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// MarshalText encodes the facing by name.
func (f Facing) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a facing name.
func (f *Facing) UnmarshalText(text []byte) error {
	parsed, ok := ParseFacing(string(text))
	if !ok {
		return errUnknownFacing(string(text))
	}
	*f = parsed
	return nil
}

// ParseFacing parses a facing name.
func ParseFacing(s string) (Facing, bool) {
	for _, f := range []Facing{North, South, East, West} {
		if f.String() == s {
			return f, true
		}
	}
	return North, false
}

// Yaw returns the canonical yaw angle, in radians, of a facing.
func (f Facing) Yaw() float64 {
	switch f {
	case North:
		return -math.Pi / 2
	case South:
		return math.Pi / 2
	case East:
		return 0
	case West:
		return math.Pi
	default:
		return 0
	}
}

// Turn returns the facing reached by turning toward d.
func (f Facing) Turn(d Direction) Facing {
	return turns[f][d]
}

// turns is indexed by [facing][direction].
var turns = [4][4]Facing{ //nolint:gochecknoglobals // lookup table
	North: {Left: West, Right: East, Forward: North, Backward: South},
	South: {Left: East, Right: West, Forward: South, Backward: North},
	East:  {Left: North, Right: South, Forward: East, Backward: West},
	West:  {Left: South, Right: North, Forward: West, Backward: East},
}

// Direction is relative to a facing.
type Direction uint8

const (
	Left Direction = iota
	Right
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	for _, dir := range []Direction{Left, Right, Forward, Backward} {
		if dir.String() == string(text) {
			*d = dir
			return nil
		}
	}
	return errUnknownDirection(string(text))
}

// YawDelta returns the signed yaw change, in radians, of turning toward d. Turning backward is a
// half turn.
func (d Direction) YawDelta() float64 {
	switch d {
	case Left:
		return -math.Pi / 2
	case Right:
		return math.Pi / 2
	case Backward:
		return math.Pi
	case Forward:
		return 0
	default:
		return 0
	}
}

// NearestYaw returns the angle equivalent to yaw, modulo a full turn, that is closest to ref.
func NearestYaw(ref, yaw float64) float64 {
	return ref + math.Remainder(yaw-ref, 2*math.Pi)
}

// Translation returns the offset of moving amount units toward d while facing f.
func Translation(f Facing, d Direction, amount float64) Vec3 {
	switch f.Turn(d) {
	case North:
		return Vec3{Z: -amount}
	case South:
		return Vec3{Z: amount}
	case East:
		return Vec3{X: amount}
	case West:
		return Vec3{X: -amount}
	default:
		return Vec3{}
	}
}

// Step returns the grid cell reached by moving one tile toward d while facing f.
func Step(from Vec3, f Facing, d Direction, tileSize float64) Vec3 {
	return from.Add(Translation(f, d, tileSize)).Snap(tileSize)
}
