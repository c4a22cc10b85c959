package main

import (
	"fmt"

	"github.com/argus-labs/blobber/pkg/blobber"
	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/argus-labs/blobber/pkg/blobber/scene"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// canvas is the part of tcell.Screen the renderer draws on.
type canvas interface {
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

//nolint:gochecknoglobals // styles
var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	floorStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// facingGlyphs is indexed by movement.Facing.
var facingGlyphs = [4]rune{ //nolint:gochecknoglobals // lookup table
	movement.North: '^',
	movement.South: 'v',
	movement.East:  '>',
	movement.West:  '<',
}

// render draws the map top-down with the player on it, and a status line under the map.
func render(c canvas, m *tilemap.TileMap[uuid.UUID], player blobber.PlayerView, cam scene.Camera, tick uint64) {
	c.Clear()

	// Floors first so walls standing on them win.
	for _, kind := range []tilemap.Kind{tilemap.Floor, tilemap.Wall} {
		for _, tile := range m.Tiles() {
			if tile.Kind != kind {
				continue
			}
			row, col := m.Cell(tile.Position)
			if kind == tilemap.Wall {
				c.SetContent(col, row, '#', nil, wallStyle)
			} else {
				c.SetContent(col, row, '.', nil, floorStyle)
			}
		}
	}

	row, col := m.Cell(player.Position.Vec3)
	c.SetContent(col, row, facingGlyphs[player.Orientation.Facing], nil, playerStyle)

	rows, _ := m.Dimensions()
	view := "locked"
	if player.Camera.FreeView {
		view = "free"
	}
	drawText(c, 0, rows+1, fmt.Sprintf("tick %d  pos %.2f,%.2f  facing %s", tick,
		player.Position.X, player.Position.Z, player.Orientation.Facing))
	drawText(c, 0, rows+2, fmt.Sprintf("camera %s  yaw %.2f  pitch %.2f", view, cam.Yaw, cam.Pitch))
	drawText(c, 0, rows+3, "zqsd/arrows move  a/e turn  mouse look  esc quit")

	c.Show()
}

func drawText(c canvas, x, y int, text string) {
	for i, r := range []rune(text) {
		c.SetContent(x+i, y, r, nil, statusStyle)
	}
}
