// Package assets holds the files embedded in the binary.
package assets

import _ "embed"

// Dungeon is the default map.
//
//go:embed dungeon.map
var Dungeon string
